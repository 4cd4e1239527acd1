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

package interval

import (
	"fmt"
	"sort"

	itree "github.com/biogo/store/interval"
	"github.com/grailbio/base/errors"
)

// Interval is a labeled closed interval [Start, End] on one chromosome.
type Interval struct {
	Chrom string
	Start int
	End   int
	// Label names the interval's role, e.g. "DEL_start".
	Label string
	// Tag is caller-defined data; evidence windows store their center
	// position here.
	Tag int
}

// Contains reports whether o lies entirely inside iv.  The chromosome is not
// compared.
func (iv Interval) Contains(o Interval) bool {
	return iv.Start <= o.Start && o.End <= iv.End
}

// Intersects reports whether iv and the closed range [start, end] share at
// least one position.
func (iv Interval) Intersects(start, end int) bool {
	return iv.Start <= end && start <= iv.End
}

// Len is the number of positions covered by iv.
func (iv Interval) Len() int { return iv.End - iv.Start + 1 }

func (iv Interval) String() string {
	return fmt.Sprintf("%s:%d-%d(%s)", iv.Chrom, iv.Start, iv.End, iv.Label)
}

// treeEntry adapts an Interval to biogo's IntTree.  The tree works on
// half-open ranges, so a closed [Start, End] is stored as [Start, End+1).
type treeEntry struct {
	iv  Interval
	uid uintptr
}

func (e treeEntry) Overlap(b itree.IntRange) bool {
	return e.iv.Start < b.End && b.Start < e.iv.End+1
}
func (e treeEntry) ID() uintptr           { return e.uid }
func (e treeEntry) Range() itree.IntRange { return itree.IntRange{Start: e.iv.Start, End: e.iv.End + 1} }

// closedQuery matches tree ranges intersecting the closed range [start, end].
type closedQuery struct{ start, end int }

func (q closedQuery) Overlap(b itree.IntRange) bool {
	return b.Start <= q.end && q.start < b.End
}

// Index answers overlap queries over a fixed set of intervals, with one
// interval tree per chromosome.  It is immutable once built and may be
// queried concurrently.
type Index struct {
	trees map[string]*itree.IntTree
	n     int
}

// NewIndex builds an Index over ivs.  Intervals need not be sorted or
// disjoint; duplicates are kept.
func NewIndex(ivs []Interval) (*Index, error) {
	x := &Index{trees: make(map[string]*itree.IntTree)}
	for i, iv := range ivs {
		if iv.Start > iv.End {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("interval.NewIndex: inverted interval %v", iv))
		}
		t := x.trees[iv.Chrom]
		if t == nil {
			t = &itree.IntTree{}
			x.trees[iv.Chrom] = t
		}
		// The uid doubles as the insertion rank, which breaks ties in Query.
		if err := t.Insert(treeEntry{iv: iv, uid: uintptr(i)}, true); err != nil {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("interval.NewIndex: insert %v", iv), err)
		}
	}
	for _, t := range x.trees {
		t.AdjustRanges()
	}
	x.n = len(ivs)
	return x, nil
}

// Len returns the number of intervals in the index.
func (x *Index) Len() int { return x.n }

// Chroms returns the indexed chromosomes in sorted order.
func (x *Index) Chroms() []string {
	chroms := make([]string, 0, len(x.trees))
	for c := range x.trees {
		chroms = append(chroms, c)
	}
	sort.Strings(chroms)
	return chroms
}

// Query returns every interval on chrom intersecting the closed range
// [start, end], sorted by (Start, End).  Intervals with identical
// coordinates are returned in insertion order.
func (x *Index) Query(chrom string, start, end int) []Interval {
	t := x.trees[chrom]
	if t == nil || start > end {
		return nil
	}
	var hits []treeEntry
	t.DoMatching(func(e itree.IntInterface) bool {
		hits = append(hits, e.(treeEntry))
		return false
	}, closedQuery{start, end})
	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i].iv, hits[j].iv
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return hits[i].uid < hits[j].uid
	})
	out := make([]Interval, len(hits))
	for i, h := range hits {
		out[i] = h.iv
	}
	return out
}
