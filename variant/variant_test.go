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

package variant

import (
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/svlabel/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBND(t *testing.T) {
	tests := []struct {
		name   string
		rec    Record
		svType string
		chrom2 string
		end    int
	}{
		{"deletion",
			Record{Kind: BND, ID: "a", Chrom: "1", Pos: 1000, Ref: "A", Alt: "A[1:2000[",
				Info: map[string]string{"SVTYPE": "BND", "CIPOS": "-5,5", "CIEND": "-10,10"}},
			"DEL", "1", 2000},
		{"mate side",
			Record{Kind: BND, ID: "b", Chrom: "1", Pos: 2000, Ref: "C", Alt: "]1:1000]C",
				Info: map[string]string{"SVTYPE": "BND"}},
			"BND", "1", 1000},
		{"upstream partner",
			Record{Kind: BND, ID: "c", Chrom: "1", Pos: 2000, Ref: "A", Alt: "A[1:1000[",
				Info: map[string]string{"SVTYPE": "BND"}},
			"BND", "1", 1000},
		{"translocation",
			Record{Kind: BND, ID: "d", Chrom: "2", Pos: 300, Ref: "T", Alt: "T[3:900[",
				Info: map[string]string{"SVTYPE": "BND"}},
			"BND", "3", 900},
		{"chr prefix",
			Record{Kind: BND, ID: "e", Chrom: "chr1", Pos: 10, Ref: "G", Alt: "G[chr1:60[",
				Info: map[string]string{"SVTYPE": "BND"}},
			"DEL", "chr1", 60},
		{"zero length",
			Record{Kind: BND, ID: "f", Chrom: "1", Pos: 10, Ref: "G", Alt: "G[1:10[",
				Info: map[string]string{"SVTYPE": "BND"}},
			"DEL", "1", 10},
	}
	for _, test := range tests {
		v, err := Normalize(test.rec)
		require.NoError(t, err, test.name)
		assert.Equal(t, test.svType, v.SVType, test.name)
		assert.Equal(t, test.chrom2, v.Chrom2, test.name)
		assert.Equal(t, test.end, v.End, test.name)
		assert.Equal(t, test.rec.Pos, v.Start, test.name)
	}

	v, err := Normalize(tests[0].rec)
	require.NoError(t, err)
	assert.Equal(t, CI{-5, 5}, v.CIPos)
	assert.Equal(t, CI{-10, 10}, v.CIEnd)
	assert.Equal(t, interval.Interval{Chrom: "1", Start: 995, End: 1005, Label: "DEL_start"}, v.StartInterval())
	assert.Equal(t, interval.Interval{Chrom: "1", Start: 1990, End: 2010, Label: "DEL_end"}, v.EndInterval())
}

func TestNormalizeSymbolic(t *testing.T) {
	v, err := Normalize(Record{Kind: Symbolic, ID: "s", Chrom: "1", Pos: 100, Alt: "<DEL>",
		Info: map[string]string{"SVTYPE": "DEL", "CHR2": "1", "END": "900", "SUPP_VEC": "00101"}})
	require.NoError(t, err)
	assert.Equal(t, Variant{ID: "s", SVType: "DEL", Chrom: "1", Chrom2: "1", Start: 100, End: 900,
		SuppVec: "00101", Alt: "<DEL>"}, v)

	// SVTYPE falls back to the symbolic allele, CHR2 to CHROM.
	v, err = Normalize(Record{Kind: Symbolic, ID: "t", Chrom: "4", Pos: 100, Alt: "<DEL>",
		Info: map[string]string{"END": "200"}})
	require.NoError(t, err)
	assert.Equal(t, "DEL", v.SVType)
	assert.Equal(t, "4", v.Chrom2)

	_, err = Normalize(Record{Kind: Symbolic, ID: "u", Chrom: "4", Pos: 100, Alt: "<DEL>"})
	assert.True(t, errors.Is(errors.Invalid, err))
}

func TestNormalizeErrors(t *testing.T) {
	for _, rec := range []Record{
		{Kind: BND, ID: "bad alt", Chrom: "1", Pos: 1, Ref: "A", Alt: "A[1:100"},
		{Kind: BND, ID: "mismatch", Chrom: "1", Pos: 1, Ref: "A", Alt: "A[1:100]"},
		{Kind: BND, ID: "bad cipos", Chrom: "1", Pos: 1, Ref: "A", Alt: "A[1:100[",
			Info: map[string]string{"CIPOS": "5,10"}},
		{Kind: BND, ID: "bad ciend", Chrom: "1", Pos: 1, Ref: "A", Alt: "A[1:100[",
			Info: map[string]string{"CIEND": "x"}},
		{Kind: Symbolic, ID: "bad end", Chrom: "1", Pos: 1, Alt: "<DEL>",
			Info: map[string]string{"END": "e"}},
		{Kind: Auto, ID: "auto", Chrom: "1", Pos: 1, Alt: "<DEL>"},
	} {
		_, err := Normalize(rec)
		assert.True(t, errors.Is(errors.Invalid, err), "%s: %v", rec.ID, err)
	}
}

func TestNormalizeAll(t *testing.T) {
	records := []Record{
		{Kind: BND, ID: "ok", Chrom: "1", Pos: 1, Ref: "A", Alt: "A[1:100["},
		{Kind: BND, ID: "bad", Chrom: "1", Pos: 1, Ref: "A", Alt: "A]1:100["},
	}
	_, err := NormalizeAll(records, false)
	assert.True(t, errors.Is(errors.Invalid, err))

	vs, err := NormalizeAll(records, true)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, "ok", vs[0].ID)
}

func TestPassed(t *testing.T) {
	assert.True(t, Variant{}.Passed())
	assert.True(t, Variant{Filters: []string{"PASS"}}.Passed())
	assert.False(t, Variant{Filters: []string{"LowQual"}}.Passed())
	assert.False(t, Variant{Filters: []string{"LowQual", "MinGQ"}}.Passed())
}

func TestCheckDeletion(t *testing.T) {
	assert.NoError(t, CheckDeletion(Variant{Chrom: "1", Chrom2: "1", Start: 1, End: 2}))
	assert.True(t, errors.Is(errors.Integrity, CheckDeletion(Variant{Chrom: "1", Chrom2: "1", Start: 2, End: 2})))
	assert.True(t, errors.Is(errors.Integrity, CheckDeletion(Variant{Chrom: "1", Chrom2: "2", Start: 1, End: 2})))
}

func TestSelect(t *testing.T) {
	vs := []Variant{
		{ID: "a", SVType: "DEL", Chrom: "1", Chrom2: "1", SuppVec: "00101"},
		{ID: "b", SVType: "DEL", Chrom: "1", Chrom2: "1", SuppVec: "00100", Filters: []string{"LowQual"}},
		{ID: "c", SVType: "INV", Chrom: "1", Chrom2: "1", SuppVec: "00101"},
		{ID: "d", SVType: "DEL", Chrom: "Y", Chrom2: "Y", SuppVec: "11111"},
		{ID: "e", SVType: "DEL", Chrom: "2", Chrom2: "MT", SuppVec: "11111"},
		{ID: "f", SVType: "DEL", Chrom: "2", Chrom2: "2"},
	}
	ids := func(vs []Variant) []string {
		var s []string
		for _, v := range vs {
			s = append(s, v.ID)
		}
		return s
	}
	assert.Equal(t, []string{"a", "b", "d", "e", "f"}, ids(Select(vs, SelectOpts{})))
	assert.Equal(t, []string{"a", "d", "e", "f"}, ids(Select(vs, SelectOpts{PassOnly: true})))
	assert.Equal(t, []string{"a"}, ids(Select(vs, SelectOpts{
		SupportedBy:   []int{2, 4},
		ExcludeChroms: []string{"Y", "MT"},
	})))
	assert.Empty(t, Select(vs, SelectOpts{SupportedBy: []int{7}}))
}

func TestByChrom(t *testing.T) {
	m := ByChrom([]Variant{{ID: "a", Chrom: "1"}, {ID: "b", Chrom: "2"}, {ID: "c", Chrom: "1"}})
	require.Len(t, m, 2)
	assert.Equal(t, "a", m["1"][0].ID)
	assert.Equal(t, "c", m["1"][1].ID)
	assert.Equal(t, "b", m["2"][0].ID)
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{Auto, BND, Symbolic} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	got, err := ParseKind("nanosv")
	require.NoError(t, err)
	assert.Equal(t, BND, got)
	_, err = ParseKind("manta")
	assert.Error(t, err)
}
