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

package labels

import (
	"fmt"
	"sort"

	"github.com/grailbio/svlabel/interval"
	"github.com/grailbio/svlabel/variant"
)

// SourceKind tags the payload of a Source.
type SourceKind int

const (
	// VariantList sources carry normalized SV calls.
	VariantList SourceKind = iota
	// BEDIntervals sources carry labeled breakpoint intervals per chromosome.
	BEDIntervals
)

func (k SourceKind) String() string {
	switch k {
	case VariantList:
		return "variants"
	case BEDIntervals:
		return "bed"
	}
	return fmt.Sprintf("SourceKind(%d)", int(k))
}

// Source is one set of breakpoint calls to label against.
type Source struct {
	Name string
	Kind SourceKind
	// Variants is set for VariantList sources.
	Variants []variant.Variant
	// Intervals is set for BEDIntervals sources, keyed by chromosome.
	Intervals map[string][]interval.Interval
}

// NewVariantSource returns a VariantList source.
func NewVariantSource(name string, vs []variant.Variant) Source {
	return Source{Name: name, Kind: VariantList, Variants: vs}
}

// NewBEDSource returns a BEDIntervals source.
func NewBEDSource(name string, ivs map[string][]interval.Interval) Source {
	return Source{Name: name, Kind: BEDIntervals, Intervals: ivs}
}

// chroms returns the chromosomes with calls in s, sorted.
func (s Source) chroms() []string {
	set := make(map[string]bool)
	switch s.Kind {
	case VariantList:
		for _, v := range s.Variants {
			set[v.Chrom] = true
		}
	case BEDIntervals:
		for c, ivs := range s.Intervals {
			if len(ivs) > 0 {
				set[c] = true
			}
		}
	}
	chroms := make([]string, 0, len(set))
	for c := range set {
		chroms = append(chroms, c)
	}
	sort.Strings(chroms)
	return chroms
}
