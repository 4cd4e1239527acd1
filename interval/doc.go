// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*Package interval indexes labeled genomic intervals for overlap queries, and
  loads BED files as interval-unions for position masking.

  Coordinates are 1-based and closed on both ends unless stated otherwise.
  Index keeps every interval it is given (overlapping and duplicate intervals
  are all reported by Query); Mask merges overlapping intervals.
*/
package interval
