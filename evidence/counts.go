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
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/hts/bgzf"
	"github.com/klauspost/compress/gzip"
)

// countRow is one line of a counts TSV.
type countRow struct {
	Chrom string `tsv:"CHROM"`
	Pos   int64  `tsv:"POS"`
	Count int64  `tsv:"COUNT"`
}

// createText creates path for writing, bgzf-compressed when the path has a
// gzip suffix.  closeFn flushes the compressor and must run before out is
// closed.
func createText(ctx context.Context, path string) (out file.File, w io.Writer, closeFn func() error, err error) {
	if out, err = file.Create(ctx, path); err != nil {
		return
	}
	w, closeFn = out.Writer(ctx), func() error { return nil }
	if fileio.DetermineType(path) == fileio.Gzip {
		bw := bgzf.NewWriter(w, 1)
		w, closeFn = bw, bw.Close
	}
	return
}

// openText opens path for reading, decompressing gzip input.  closeFn
// releases the decompressor and must run before in is closed.
func openText(ctx context.Context, path string) (in file.File, r io.Reader, closeFn func() error, err error) {
	if in, err = file.Open(ctx, path); err != nil {
		return
	}
	r, closeFn = in.Reader(ctx), func() error { return nil }
	if fileio.DetermineType(path) == fileio.Gzip {
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(r); err != nil {
			in.Close(ctx) // nolint: errcheck
			return
		}
		r, closeFn = gz, gz.Close
	}
	return
}

// WriteTSV writes c as CHROM, POS, COUNT rows sorted by chromosome and
// position.
func (c Counts) WriteTSV(ctx context.Context, path string) (err error) {
	out, w, closeFn, err := createText(ctx, path)
	if err != nil {
		return
	}
	defer file.CloseAndReport(ctx, out, &err)
	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	tw := tsv.NewWriter(w)
	tw.WriteString("CHROM\tPOS\tCOUNT")
	if err = tw.EndLine(); err != nil {
		return
	}
	for _, chrom := range c.Chroms() {
		m := c.ByChrom[chrom]
		pos := make([]int, 0, len(m))
		for p := range m {
			pos = append(pos, p)
		}
		sort.Ints(pos)
		for _, p := range pos {
			tw.WriteString(chrom)
			tw.WriteInt64(int64(p))
			tw.WriteInt64(int64(m[p]))
			if err = tw.EndLine(); err != nil {
				return
			}
		}
	}
	err = tw.Flush()
	return
}

// ReadCounts reads a file written by Counts.WriteTSV.  The read-name
// statistics are not stored and are zero in the result.
func ReadCounts(ctx context.Context, path string) (c Counts, err error) {
	in, r, closeFn, err := openText(ctx, path)
	if err != nil {
		return
	}
	defer file.CloseAndReport(ctx, in, &err)
	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	tr := tsv.NewReader(r)
	tr.HasHeaderRow = true
	tr.UseHeaderNames = true
	c = NewCounts()
	for {
		var row countRow
		if err = tr.Read(&row); err != nil {
			if err == io.EOF {
				err = nil
				break
			}
			return
		}
		c.Add(row.Chrom, int(row.Pos), int(row.Count))
	}
	return
}
