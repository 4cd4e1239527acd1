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
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

const testBED = `track name=test
chr1	100	200
chr1	150	250
chr1	250	260
chr1	300	300
chr1	400	410
chr2	10	20
`

func TestNewMask(t *testing.T) {
	m, err := NewMask(strings.NewReader(testBED), MaskOpts{})
	assert.NoError(t, err)
	expect.EQ(t, m.nameMap["chr1"], []int{100, 260, 400, 410})
	expect.EQ(t, m.nameMap["chr2"], []int{10, 20})
	expect.EQ(t, m.Chroms(), []string{"chr1", "chr2"})
	expect.EQ(t, m.Bases(), 160+10+10)

	tests := []struct {
		chrom string
		pos   int
		want  bool
	}{
		{"chr1", 100, false},
		{"chr1", 101, true},
		{"chr1", 260, true},
		{"chr1", 261, false},
		{"chr1", 300, false},
		{"chr1", 401, true},
		{"chr1", 410, true},
		{"chr1", 411, false},
		{"chr2", 15, true},
		{"chr3", 15, false},
	}
	for _, test := range tests {
		expect.EQ(t, m.Contains(test.chrom, test.pos), test.want, "%s:%d", test.chrom, test.pos)
	}

	inv, err := NewMask(strings.NewReader(testBED), MaskOpts{Invert: true})
	assert.NoError(t, err)
	for _, test := range tests {
		expect.EQ(t, inv.Contains(test.chrom, test.pos), !test.want, "%s:%d", test.chrom, test.pos)
	}
}

func TestNewMaskOneBased(t *testing.T) {
	m, err := NewMask(strings.NewReader("1\t5\t5\n"), MaskOpts{OneBasedInput: true})
	assert.NoError(t, err)
	expect.False(t, m.Contains("1", 4))
	expect.True(t, m.Contains("1", 5))
	expect.False(t, m.Contains("1", 6))
}

func TestNewMaskErrors(t *testing.T) {
	for _, bed := range []string{
		"chr1\t100\n",
		"chr1\tx\t200\n",
		"chr1\t200\t100\n",
		"chr1\t200\t300\nchr1\t100\t150\n",
		"chr1\t1\t2\nchr2\t1\t2\nchr1\t5\t6\n",
	} {
		_, err := NewMask(strings.NewReader(bed), MaskOpts{})
		expect.True(t, errors.Is(errors.Invalid, err), "bed %q: %v", bed, err)
	}
}

func TestNewMaskFromPath(t *testing.T) {
	ctx := context.Background()
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(dir, "mask.bed.gz")
	f, err := file.Create(ctx, path)
	assert.NoError(t, err)
	gz := gzip.NewWriter(f.Writer(ctx))
	_, err = gz.Write([]byte(testBED))
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())
	assert.NoError(t, f.Close(ctx))

	m, err := NewMaskFromPath(ctx, path, MaskOpts{})
	assert.NoError(t, err)
	expect.True(t, m.Contains("chr1", 150))
	expect.False(t, m.Contains("chr1", 300))

	_, err = NewMaskFromPath(ctx, filepath.Join(dir, "missing.bed"), MaskOpts{})
	expect.NotNil(t, err)
}

func TestParseRegionString(t *testing.T) {
	tests := []struct {
		in   string
		want Region
		ok   bool
	}{
		{"chr1", Region{"chr1", 1, math.MaxInt32}, true},
		{"chr1:100", Region{"chr1", 100, 100}, true},
		{"chr1:100-200", Region{"chr1", 100, 200}, true},
		{"", Region{}, false},
		{":100", Region{}, false},
		{"chr1:0", Region{}, false},
		{"chr1:200-100", Region{}, false},
		{"chr1:a-100", Region{}, false},
	}
	for _, test := range tests {
		got, err := ParseRegionString(test.in)
		if !test.ok {
			expect.NotNil(t, err, test.in)
			continue
		}
		expect.NoError(t, err, test.in)
		expect.EQ(t, got, test.want)
	}
	r := Region{"chr1", 100, 200}
	expect.True(t, r.Contains("chr1", 100))
	expect.False(t, r.Contains("chr1", 201))
	expect.False(t, r.Contains("chr2", 150))
}
