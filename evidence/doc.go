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

// Package evidence collects clipped-read positions from aligned reads and
// turns them into the filtered, per-chromosome position lists that the
// labeler consumes.
//
// A read contributes a position for each soft-clipped end: a leading clip
// contributes the 1-based first aligned base, a trailing clip the 1-based
// last aligned base.  Unmapped reads and reads whose mate is unmapped are
// ignored.  Positions supported by fewer than FilterOpts.MinSupport reads, or
// closer than the window half-length to either chromosome end, are dropped.
package evidence
