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
	"fmt"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/svlabel/interval"
	"github.com/grailbio/svlabel/variant"
)

// Kind is the outcome class of one evidence position.
type Kind uint8

const (
	// NoVariant means no breakpoint is near the position.
	NoVariant Kind = iota
	// Uncertain means the position is near a breakpoint but cannot be
	// assigned to one.
	Uncertain
	// Exact means the position's window contains exactly one breakpoint
	// confidence interval.
	Exact
)

// Classification is the label of one evidence position.
type Classification struct {
	Kind Kind
	// Label is the interval label for Exact, empty otherwise.
	Label string
}

var (
	// NoSV is the NoVariant classification.
	NoSV = Classification{Kind: NoVariant}
	// UK is the Uncertain classification.
	UK = Classification{Kind: Uncertain}
)

// ExactLabel returns the Exact classification carrying label.
func ExactLabel(label string) Classification {
	return Classification{Kind: Exact, Label: label}
}

// String renders c in the categorical vocabulary consumed downstream:
// "noSV", "UK", or the interval label.
func (c Classification) String() string {
	switch c.Kind {
	case NoVariant:
		return "noSV"
	case Uncertain:
		return "UK"
	case Exact:
		return c.Label
	}
	return fmt.Sprintf("Classification(%d)", c.Kind)
}

// Coverage holds the evidence positions whose windows fully contain (Full) or
// only partially overlap (Partial) some confidence interval.  The two sets are
// disjoint.
type Coverage struct {
	Full    map[int]struct{}
	Partial map[int]struct{}
}

func newCoverage() Coverage {
	return Coverage{Full: make(map[int]struct{}), Partial: make(map[int]struct{})}
}

// IsFull reports whether pos is in c.Full.
func (c Coverage) IsFull(pos int) bool {
	_, ok := c.Full[pos]
	return ok
}

// IsPartial reports whether pos is in c.Partial.
func (c Coverage) IsPartial(pos int) bool {
	_, ok := c.Partial[pos]
	return ok
}

// FullPositions returns c.Full in ascending order.
func (c Coverage) FullPositions() []int { return sortedKeys(c.Full) }

// PartialPositions returns c.Partial in ascending order.
func (c Coverage) PartialPositions() []int { return sortedKeys(c.Partial) }

func sortedKeys(m map[int]struct{}) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func (c Coverage) check() error {
	for p := range c.Full {
		if _, ok := c.Partial[p]; ok {
			return errors.E(errors.Integrity, fmt.Sprintf("overlap: position %d is both fully and partially covered", p))
		}
	}
	return nil
}

// Windows are indexed under a single pseudo-chromosome; callers pass one
// chromosome's data at a time.
const anyChrom = ""

// Windows returns the evidence windows [p-halfLen, p+halfLen], each tagged
// with its position.
func Windows(positions []int, halfLen int) []interval.Interval {
	ivs := make([]interval.Interval, len(positions))
	for i, p := range positions {
		ivs[i] = interval.Interval{Chrom: anyChrom, Start: p - halfLen, End: p + halfLen, Tag: p}
	}
	return ivs
}

// cover records, for every window hit by ci, whether the window fully
// contains ci.
func cover(windows *interval.Index, ci interval.Interval, full, partial map[int]struct{}) {
	for _, w := range windows.Query(anyChrom, ci.Start, ci.End) {
		if ci.Start >= w.Start && ci.End <= w.End {
			full[w.Tag] = struct{}{}
		} else {
			partial[w.Tag] = struct{}{}
		}
	}
}

func finish(full, partial map[int]struct{}) (Coverage, error) {
	c := Coverage{Full: full, Partial: partial}
	for p := range full {
		delete(partial, p)
	}
	return c, c.check()
}

// ClassifyOverlap computes the Coverage of the start and end confidence
// intervals of variants by the windows of positions.  All variants must be
// on one chromosome.  The start-interval and end-interval passes are run
// independently and their results unioned; a position fully covering any
// interval is never reported as partial.
func ClassifyOverlap(variants []variant.Variant, positions []int, halfLen int) (Coverage, error) {
	windows, err := interval.NewIndex(Windows(positions, halfLen))
	if err != nil {
		return Coverage{}, err
	}
	c := newCoverage()
	for _, v := range variants {
		cover(windows, v.StartInterval(), c.Full, c.Partial)
	}
	for _, v := range variants {
		cover(windows, v.EndInterval(), c.Full, c.Partial)
	}
	return finish(c.Full, c.Partial)
}

// ClassifyIntervalOverlap is ClassifyOverlap for plain labeled intervals,
// e.g. breakpoints read from a BED file.
func ClassifyIntervalOverlap(cis []interval.Interval, positions []int, halfLen int) (Coverage, error) {
	windows, err := interval.NewIndex(Windows(positions, halfLen))
	if err != nil {
		return Coverage{}, err
	}
	c := newCoverage()
	for _, ci := range cis {
		cover(windows, ci, c.Full, c.Partial)
	}
	return finish(c.Full, c.Partial)
}
