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

	"github.com/grailbio/base/errors"
	"github.com/grailbio/svlabel/interval"
	"github.com/grailbio/svlabel/variant"
)

// Stats counts classification outcomes.
type Stats struct {
	// Positions is the number of evidence positions classified.
	Positions int
	// ZeroHits counts positions whose window hit no interval.
	ZeroHits int
	// MultipleHits counts positions whose window hit more than one interval.
	MultipleHits int
	Exact        int
	Uncertain    int
	NoVariant    int
}

// Merge adds the field values of the two Stats objects and creates new Stats.
func (s Stats) Merge(o Stats) Stats {
	s.Positions += o.Positions
	s.ZeroHits += o.ZeroHits
	s.MultipleHits += o.MultipleHits
	s.Exact += o.Exact
	s.Uncertain += o.Uncertain
	s.NoVariant += o.NoVariant
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("positions:%d exact:%d uncertain:%d noSV:%d (zero hits:%d, multiple hits:%d)",
		s.Positions, s.Exact, s.Uncertain, s.NoVariant, s.ZeroHits, s.MultipleHits)
}

// Labels is the label sequence of one chromosome.  Classes[i] labels
// Positions[i].
type Labels struct {
	Chrom     string
	Positions []int
	Classes   []Classification
	// Matched[i] is the interval behind an Exact Classes[i], and the zero
	// Interval otherwise.
	Matched []interval.Interval
	Stats   Stats
}

// Counts tallies the rendered labels, e.g. {"DEL_start": 3, "noSV": 10}.
func (l Labels) Counts() map[string]int {
	m := make(map[string]int)
	for _, c := range l.Classes {
		m[c.String()]++
	}
	return m
}

// LabelVariants labels positions on chrom against the deletions in variants.
// Every variant must pass variant.CheckDeletion.
func LabelVariants(chrom string, variants []variant.Variant, positions []int, halfLen int) (Labels, error) {
	cis := make([]interval.Interval, 0, 2*len(variants))
	for _, v := range variants {
		if err := variant.CheckDeletion(v); err != nil {
			return Labels{}, err
		}
		cis = append(cis, v.StartInterval(), v.EndInterval())
	}
	cov, err := ClassifyOverlap(variants, positions, halfLen)
	if err != nil {
		return Labels{}, err
	}
	return label(chrom, cis, cov, positions, halfLen)
}

// LabelIntervals labels positions on chrom against plain breakpoint
// intervals, e.g. from a BED file.
func LabelIntervals(chrom string, cis []interval.Interval, positions []int, halfLen int) (Labels, error) {
	cov, err := ClassifyIntervalOverlap(cis, positions, halfLen)
	if err != nil {
		return Labels{}, err
	}
	return label(chrom, cis, cov, positions, halfLen)
}

func label(chrom string, cis []interval.Interval, cov Coverage, positions []int, halfLen int) (Labels, error) {
	keyed := make([]interval.Interval, len(cis))
	for i, ci := range cis {
		keyed[i] = ci
		keyed[i].Chrom = anyChrom
	}
	idx, err := interval.NewIndex(keyed)
	if err != nil {
		return Labels{}, err
	}
	l := Labels{
		Chrom:     chrom,
		Positions: positions,
		Classes:   make([]Classification, 0, len(positions)),
		Matched:   make([]interval.Interval, 0, len(positions)),
	}
	for _, p := range positions {
		var (
			class   = NoSV
			matched interval.Interval
		)
		hits := idx.Query(anyChrom, p-halfLen, p+halfLen)
		switch {
		case len(hits) == 0:
			l.Stats.ZeroHits++
		case len(hits) > 1:
			l.Stats.MultipleHits++
			class = UK
		case cov.IsFull(p):
			class = ExactLabel(hits[0].Label)
			matched = hits[0]
			matched.Chrom = chrom
		case cov.IsPartial(p):
			class = UK
		}
		switch class.Kind {
		case Exact:
			l.Stats.Exact++
		case Uncertain:
			l.Stats.Uncertain++
		default:
			l.Stats.NoVariant++
		}
		l.Classes = append(l.Classes, class)
		l.Matched = append(l.Matched, matched)
	}
	l.Stats.Positions = len(positions)
	if len(l.Classes) != len(positions) {
		return Labels{}, errors.E(errors.Integrity,
			fmt.Sprintf("overlap: chromosome %s: %d labels for %d positions", chrom, len(l.Classes), len(positions)))
	}
	return l, nil
}
