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
	"math/rand"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/svlabel/interval"
	"github.com/grailbio/svlabel/variant"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/grailbio/testutil/h"
)

func del(id string, start, end int, cipos, ciend variant.CI) variant.Variant {
	return variant.Variant{
		ID: id, SVType: variant.Deletion, Chrom: "1", Chrom2: "1",
		Start: start, End: end, CIPos: cipos, CIEnd: ciend,
	}
}

var ci5 = variant.CI{Lower: -5, Upper: 5}

func TestExactStart(t *testing.T) {
	vs := []variant.Variant{del("a", 1000, 2000, ci5, ci5)}
	cov, err := ClassifyOverlap(vs, []int{1002}, 100)
	assert.NoError(t, err)
	expect.EQ(t, cov.FullPositions(), []int{1002})
	expect.EQ(t, cov.PartialPositions(), []int{})

	l, err := LabelVariants("1", vs, []int{1002}, 100)
	assert.NoError(t, err)
	expect.EQ(t, l.Classes, []Classification{ExactLabel("DEL_start")})
	expect.EQ(t, l.Classes[0].String(), "DEL_start")
	expect.EQ(t, l.Matched[0], interval.Interval{Chrom: "1", Start: 995, End: 1005, Label: "DEL_start"})
	expect.EQ(t, l.Stats, Stats{Positions: 1, Exact: 1})
}

func TestNoHits(t *testing.T) {
	vs := []variant.Variant{del("a", 1000, 2000, ci5, ci5)}
	l, err := LabelVariants("1", vs, []int{1200}, 5)
	assert.NoError(t, err)
	expect.EQ(t, l.Classes, []Classification{NoSV})
	expect.EQ(t, l.Classes[0].String(), "noSV")
	expect.EQ(t, l.Matched[0], interval.Interval{})
	expect.EQ(t, l.Stats.ZeroHits, 1)
}

func TestMultipleHits(t *testing.T) {
	vs := []variant.Variant{
		del("a", 1000, 3000, ci5, variant.CI{Lower: -10, Upper: 10}),
		del("b", 1500, 3010, ci5, ci5),
	}
	l, err := LabelVariants("1", vs, []int{3000}, 50)
	assert.NoError(t, err)
	expect.EQ(t, l.Classes, []Classification{UK})
	expect.EQ(t, l.Classes[0].String(), "UK")
	expect.EQ(t, l.Stats.MultipleHits, 1)

	// Both windows fully contain their intervals; ambiguity still wins.
	cov, err := ClassifyOverlap(vs, []int{3000}, 50)
	assert.NoError(t, err)
	expect.True(t, cov.IsFull(3000))
}

func TestContainment(t *testing.T) {
	windows, err := interval.NewIndex([]interval.Interval{
		{Start: 995, End: 1010, Tag: 1},
		{Start: 1000, End: 1005, Tag: 2},
	})
	assert.NoError(t, err)
	full, partial := map[int]struct{}{}, map[int]struct{}{}
	cover(windows, interval.Interval{Start: 998, End: 1007}, full, partial)
	expect.EQ(t, full, map[int]struct{}{1: {}})
	expect.EQ(t, partial, map[int]struct{}{2: {}})
}

func TestFullPrecedence(t *testing.T) {
	vs := []variant.Variant{
		del("a", 1000, 5000, ci5, ci5),
		del("b", 1150, 6000, variant.CI{Lower: -60, Upper: 60}, ci5),
	}
	// The window [902, 1102] contains a's start interval and clips b's.
	cov, err := ClassifyOverlap(vs, []int{1002}, 100)
	assert.NoError(t, err)
	expect.True(t, cov.IsFull(1002))
	expect.False(t, cov.IsPartial(1002))

	l, err := LabelVariants("1", vs, []int{1002}, 100)
	assert.NoError(t, err)
	expect.EQ(t, l.Classes, []Classification{UK})
}

func TestPartial(t *testing.T) {
	vs := []variant.Variant{del("a", 1000, 5000, variant.CI{Lower: -50, Upper: 50}, ci5)}
	l, err := LabelVariants("1", vs, []int{1060, 1002, 5000, 9000}, 20)
	assert.NoError(t, err)
	expect.That(t, l.Classes, h.ElementsAre(UK, UK, ExactLabel("DEL_end"), NoSV))
	expect.EQ(t, l.Counts(), map[string]int{"UK": 2, "DEL_end": 1, "noSV": 1})
}

func TestLabelIntervals(t *testing.T) {
	cis := []interval.Interval{
		{Chrom: "1", Start: 995, End: 1005, Label: "DEL_start"},
		{Chrom: "1", Start: 1995, End: 2005, Label: "DEL_end"},
	}
	l, err := LabelIntervals("1", cis, []int{1000, 2100, 1500}, 100)
	assert.NoError(t, err)
	expect.That(t, l.Classes, h.ElementsAre(ExactLabel("DEL_start"), UK, NoSV))
	expect.EQ(t, l.Positions, []int{1000, 2100, 1500})
}

func TestLabelVariantsInvalid(t *testing.T) {
	_, err := LabelVariants("1", []variant.Variant{del("a", 2000, 1000, ci5, ci5)}, []int{1000}, 100)
	expect.True(t, errors.Is(errors.Integrity, err))

	_, err = LabelVariants("1", []variant.Variant{del("a", 1000, 2000, ci5, ci5)}, []int{1000}, -1)
	expect.True(t, errors.Is(errors.Invalid, err))
}

func TestEmpty(t *testing.T) {
	l, err := LabelVariants("1", nil, []int{10, 20}, 5)
	assert.NoError(t, err)
	expect.EQ(t, l.Classes, []Classification{NoSV, NoSV})

	l, err = LabelVariants("1", []variant.Variant{del("a", 1000, 2000, ci5, ci5)}, nil, 5)
	assert.NoError(t, err)
	expect.EQ(t, len(l.Classes), 0)
}

func TestClassificationString(t *testing.T) {
	expect.EQ(t, NoSV.String(), "noSV")
	expect.EQ(t, UK.String(), "UK")
	expect.EQ(t, ExactLabel("DEL_end").String(), "DEL_end")
	expect.EQ(t, Classification{Kind: 9}.String(), "Classification(9)")
}

// TestRandomInvariants checks the label-sequence invariants on random input
// against a linear-scan reference.
func TestRandomInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for iter := 0; iter < 50; iter++ {
		var (
			vs         []variant.Variant
			positions  []int
			nVariants  = 1 + r.Intn(20)
			nPositions = r.Intn(300)
		)
		for i := 0; i < nVariants; i++ {
			start := 1000 + r.Intn(50000)
			vs = append(vs, del("v", start, start+1+r.Intn(5000),
				variant.CI{Lower: -r.Intn(80), Upper: r.Intn(80)},
				variant.CI{Lower: -r.Intn(80), Upper: r.Intn(80)}))
		}
		for i := 0; i < nPositions; i++ {
			positions = append(positions, 1000+r.Intn(60000))
		}
		halfLen := 1 + r.Intn(150)

		cov, err := ClassifyOverlap(vs, positions, halfLen)
		assert.NoError(t, err)
		for p := range cov.Full {
			_, both := cov.Partial[p]
			expect.False(t, both, "position %d in both sets", p)
		}

		l, err := LabelVariants("1", vs, positions, halfLen)
		assert.NoError(t, err)
		expect.EQ(t, len(l.Classes), len(positions))
		expect.EQ(t, l.Stats.Positions, len(positions))

		for i, p := range positions {
			var hits []interval.Interval
			for _, v := range vs {
				for _, ci := range []interval.Interval{v.StartInterval(), v.EndInterval()} {
					if ci.Intersects(p-halfLen, p+halfLen) {
						hits = append(hits, ci)
					}
				}
			}
			c := l.Classes[i]
			switch {
			case len(hits) > 1:
				expect.EQ(t, c, UK, "position %d", p)
			case len(hits) == 1 && cov.IsFull(p):
				expect.EQ(t, c, ExactLabel(hits[0].Label), "position %d", p)
			case len(hits) == 0:
				expect.EQ(t, c, NoSV, "position %d", p)
			default:
				expect.True(t, c.Kind != Exact, "position %d", p)
			}
		}
	}
}

func TestUnsupported(t *testing.T) {
	vs := []variant.Variant{
		del("a", 1000, 2000, ci5, ci5),
		del("b", 5000, 8000, ci5, ci5),
	}
	ivs, both := Unsupported(vs, []int{2003, 1001, 5005})
	expect.EQ(t, both, 1)
	expect.EQ(t, ivs, []interval.Interval{{Chrom: "1", Start: 7995, End: 8005, Label: "DEL_end"}})
	expect.EQ(t, BothEndsSupported(vs, nil), 0)
	ivs, _ = Unsupported(vs, nil)
	expect.EQ(t, len(ivs), 4)
}
