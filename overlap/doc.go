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

// Package overlap classifies clipped-read evidence positions against
// breakpoint confidence intervals.
//
// Each evidence position p stands for the window [p-H, p+H].  Two passes are
// made per chromosome.  ClassifyOverlap looks from the confidence intervals
// toward the windows and records which positions have a window that fully
// contains some interval (Full) and which only partially overlap one
// (Partial).  LabelVariants then looks from each window toward the intervals:
//
//   no interval hit          -> noSV
//   one hit, p in Full       -> the interval's label, e.g. DEL_start
//   one hit, p in Partial    -> UK
//   one hit, otherwise       -> noSV
//   more than one hit        -> UK
//
// All functions are pure; the index structures they build are discarded on
// return.
package overlap
