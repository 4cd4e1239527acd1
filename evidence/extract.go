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
	"context"
	"io"
	"sort"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
)

// ExtractOpts controls Extract.
type ExtractOpts struct {
	// Chroms restricts extraction to these references.  Empty means all.
	Chroms []string
}

// Counts holds clipped-read support per position.
type Counts struct {
	// ByChrom maps chromosome -> 1-based position -> number of clipped reads.
	ByChrom map[string]map[int]int
	// ClippedR1 and ClippedR2 count the distinct names of clipped first and
	// second mates.
	ClippedR1, ClippedR2 int
}

// NewCounts returns an empty Counts.
func NewCounts() Counts {
	return Counts{ByChrom: make(map[string]map[int]int)}
}

// Add increments the support of chrom:pos by n.
func (c Counts) Add(chrom string, pos, n int) {
	m := c.ByChrom[chrom]
	if m == nil {
		m = make(map[int]int)
		c.ByChrom[chrom] = m
	}
	m[pos] += n
}

// Chroms returns the chromosomes with at least one position, sorted.
func (c Counts) Chroms() []string {
	chroms := make([]string, 0, len(c.ByChrom))
	for chrom, m := range c.ByChrom {
		if len(m) > 0 {
			chroms = append(chroms, chrom)
		}
	}
	sort.Strings(chroms)
	return chroms
}

// ClipPositions returns the 1-based clipped positions contributed by r, in
// left-to-right order.  A read with no aligned reference bases contributes
// nothing.
func ClipPositions(r *sam.Record) []int {
	if len(r.Cigar) == 0 {
		return nil
	}
	if refLen, _ := r.Cigar.Lengths(); refLen == 0 {
		return nil
	}
	var pos []int
	if r.Cigar[0].Type() == sam.CigarSoftClipped {
		pos = append(pos, r.Pos+1)
	}
	if r.Cigar[len(r.Cigar)-1].Type() == sam.CigarSoftClipped {
		pos = append(pos, r.End())
	}
	return pos
}

// Extract scans the BAM file at path and counts clipped reads per position.
func Extract(ctx context.Context, path string, opts ExtractOpts) (counts Counts, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return
	}
	defer file.CloseAndReport(ctx, in, &err)
	reader, err := bam.NewReader(in.Reader(ctx), 1)
	if err != nil {
		return
	}
	defer func() {
		if cerr := reader.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	var want map[string]bool
	if len(opts.Chroms) > 0 {
		want = make(map[string]bool)
		for _, c := range opts.Chroms {
			want[c] = true
		}
	}
	counts = NewCounts()
	var (
		r1, r2 = make(map[string]struct{}), make(map[string]struct{})
		nRead  int
	)
	for {
		r, rerr := reader.Read()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			err = rerr
			return
		}
		nRead++
		if r.Flags&(sam.Unmapped|sam.MateUnmapped) != 0 || r.Ref == nil {
			continue
		}
		if want != nil && !want[r.Ref.Name()] {
			continue
		}
		pos := ClipPositions(r)
		for _, p := range pos {
			counts.Add(r.Ref.Name(), p, 1)
		}
		if len(pos) > 0 {
			if r.Flags&sam.Read1 != 0 {
				r1[r.Name] = struct{}{}
			}
			if r.Flags&sam.Read2 != 0 {
				r2[r.Name] = struct{}{}
			}
		}
	}
	counts.ClippedR1, counts.ClippedR2 = len(r1), len(r2)
	log.Printf("%s: %d record(s), %d clipped R1, %d clipped R2, %d chromosome(s) with clipped reads",
		path, nRead, counts.ClippedR1, counts.ClippedR2, len(counts.Chroms()))
	return
}
