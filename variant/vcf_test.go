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
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/grailbio/testutil/h"
	"github.com/klauspost/compress/gzip"
)

func variantIDs(vs []Variant) []string {
	var ids []string
	for _, v := range vs {
		ids = append(ids, v.ID)
	}
	return ids
}

func TestReadVCFBreakends(t *testing.T) {
	ctx := context.Background()
	records, err := ReadVCF(ctx, "testdata/nanosv.vcf", Auto)
	assert.NoError(t, err)
	expect.EQ(t, len(records), 5)
	for _, r := range records {
		expect.EQ(t, r.Kind, BND)
	}
	expect.EQ(t, records[0].Info["MATEID"], "1.2")
	expect.EQ(t, records[2].Filters, []string{"LowQual"})

	vs, err := ReadVariants(ctx, "testdata/nanosv.vcf", VCFOpts{Kind: BND})
	assert.NoError(t, err)
	expect.That(t, variantIDs(Select(vs, SelectOpts{})), h.ElementsAre("1.1", "2.1", "4.1"))
	expect.That(t, variantIDs(Select(vs, SelectOpts{PassOnly: true})), h.ElementsAre("1.1", "4.1"))

	del := vs[0]
	expect.EQ(t, del.StartInterval().Start, 995)
	expect.EQ(t, del.EndInterval().End, 2010)
	expect.EQ(t, vs[3].SVType, "BND")
	expect.EQ(t, vs[3].Chrom2, "3")
}

func TestReadVCFSymbolic(t *testing.T) {
	ctx := context.Background()
	vs, err := ReadVariants(ctx, "testdata/survivor.vcf", VCFOpts{Kind: Auto})
	assert.NoError(t, err)
	expect.EQ(t, len(vs), 5)
	sel := Select(vs, SelectOpts{SupportedBy: []int{2, 4}, ExcludeChroms: []string{"Y", "MT"}})
	expect.That(t, variantIDs(sel), h.ElementsAre("sv1", "sv5"))
	expect.EQ(t, sel[1].Chrom2, "2")
	expect.EQ(t, sel[1].CIEnd, CI{-30, 30})
	expect.EQ(t, sel[0].End, 2000)
}

func TestReadVCFGzip(t *testing.T) {
	ctx := context.Background()
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	data, err := ioutil.ReadFile("testdata/survivor.vcf")
	assert.NoError(t, err)
	path := filepath.Join(dir, "survivor.vcf.gz")
	f, err := file.Create(ctx, path)
	assert.NoError(t, err)
	gz := gzip.NewWriter(f.Writer(ctx))
	_, err = gz.Write(data)
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())
	assert.NoError(t, f.Close(ctx))

	records, err := ReadVCF(ctx, path, Symbolic)
	assert.NoError(t, err)
	expect.EQ(t, len(records), 5)
	expect.EQ(t, records[4].Info["SUPP_VEC"], "11111")
}

const testVCFHeader = "##fileformat=VCFv4.1\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"

func TestParseVCFErrors(t *testing.T) {
	for _, body := range []string{
		// No header.
		"1\t100\tx\tA\tA[1:200[\t.\tPASS\t.\n",
		testVCFHeader + "1\tpos\tx\tA\tA[1:200[\t.\tPASS\t.\n",
	} {
		_, err := ParseVCF(strings.NewReader(body), BND)
		expect.True(t, errors.Is(errors.Invalid, err), body)
	}
	records, err := ParseVCF(strings.NewReader(testVCFHeader+"1\t100\tx\tA\tA[1:200[,<DEL>\t.\t.\tSVTYPE=BND;IMPRECISE\n"), Auto)
	assert.NoError(t, err)
	expect.EQ(t, records[0].Alt, "A[1:200[")
	expect.EQ(t, records[0].Kind, BND)
	expect.EQ(t, len(records[0].Filters), 0)
	expect.EQ(t, records[0].Info["SVTYPE"], "BND")
	_, ok := records[0].Info["IMPRECISE"]
	expect.True(t, ok)
	expect.Nil(t, records[0].Samples)

	// A malformed ALT is kept by the reader and rejected by the normalizer.
	records, err = ParseVCF(strings.NewReader(testVCFHeader+"1\t100\tx\tA\tA[1:200]\t.\tPASS\t.\n"), Auto)
	assert.NoError(t, err)
	_, err = NormalizeAll(records, false)
	expect.NotNil(t, err)

	_, err = ReadVCF(context.Background(), "testdata/missing.vcf", Auto)
	expect.True(t, errors.Is(errors.NotExist, err))
}

func TestReadVCFSamples(t *testing.T) {
	records, err := ReadVCF(context.Background(), "testdata/survivor.vcf", Symbolic)
	assert.NoError(t, err)
	assert.EQ(t, len(records), 5)
	expect.EQ(t, records[0].Samples["NanoSV"]["CO"], "1_1000-1_2000")
	expect.EQ(t, records[0].Samples["Manta"]["TY"], "DEL")
	expect.EQ(t, records[1].Samples["Manta"]["CO"], "NaN")
	expect.EQ(t, records[2].Samples["NanoSV"]["TY"], "INV")
}
