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

package overlap

import (
	"sort"

	"github.com/grailbio/svlabel/interval"
	"github.com/grailbio/svlabel/variant"
)

// contains reports whether some element of the sorted slice positions lies
// in [start, end].
func contains(positions []int, start, end int) bool {
	i := sort.SearchInts(positions, start)
	return i < len(positions) && positions[i] <= end
}

func sortedCopy(positions []int) []int {
	if sort.IntsAreSorted(positions) {
		return positions
	}
	s := append([]int(nil), positions...)
	sort.Ints(s)
	return s
}

// Unsupported returns the confidence intervals of variants that contain no
// evidence position, in variant order with each start interval before its
// end interval.  The second result counts variants whose start and end
// intervals both contain evidence.
func Unsupported(variants []variant.Variant, positions []int) (ivs []interval.Interval, bothEnds int) {
	positions = sortedCopy(positions)
	for _, v := range variants {
		start, end := v.StartInterval(), v.EndInterval()
		startOK := contains(positions, start.Start, start.End)
		endOK := contains(positions, end.Start, end.End)
		if startOK && endOK {
			bothEnds++
		}
		if !startOK {
			ivs = append(ivs, start)
		}
		if !endOK {
			ivs = append(ivs, end)
		}
	}
	return
}

// BothEndsSupported counts variants whose start and end confidence intervals
// each contain at least one evidence position.
func BothEndsSupported(variants []variant.Variant, positions []int) int {
	_, n := Unsupported(variants, positions)
	return n
}
