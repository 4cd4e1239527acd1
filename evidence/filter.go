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

package evidence

import (
	"sort"

	"github.com/grailbio/svlabel/interval"
)

// FilterOpts controls Filter.
type FilterOpts struct {
	// MinSupport is the minimum number of clipped reads at a position.
	MinSupport int
	// HalfLen is the evidence window half-length.  Positions closer than
	// HalfLen to either chromosome end are dropped.
	HalfLen int
	// Mask, if set, keeps only positions inside it.
	Mask *interval.Mask
	// Region, if set, keeps only positions inside it.
	Region *interval.Region
}

// Filter returns the positions of counts on chrom that pass opts, in
// ascending order.  chromLen is the length of chrom.
func Filter(chrom string, counts map[int]int, chromLen int, opts FilterOpts) []int {
	var pos []int
	for p, n := range counts {
		if n < opts.MinSupport {
			continue
		}
		if p < opts.HalfLen || p > chromLen-opts.HalfLen {
			continue
		}
		if opts.Mask != nil && !opts.Mask.Contains(chrom, p) {
			continue
		}
		if opts.Region != nil && !opts.Region.Contains(chrom, p) {
			continue
		}
		pos = append(pos, p)
	}
	sort.Ints(pos)
	return pos
}
