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

// This file persists Results.  A Result can be written as a TSV for
// inspection, or as a recordio file that ReadRIO loads back losslessly.

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/recordio/recordiozstd"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/svlabel/interval"
	"github.com/grailbio/svlabel/overlap"
	"github.com/grailbio/svlabel/variant"
	"github.com/klauspost/compress/gzip"
)

const (
	// <fileVersionHeader, fileVersion> is stored in a recordio header.
	fileVersionHeader = "svlabelversion"
	fileVersion       = "SVLABEL_V1"
)

// rioRecord is one unit of a Result, stored as a gob-encoded recordio item.
type rioRecord struct {
	Source string
	Labels overlap.Labels
}

// rioTrailer is stored in the trailer section of the recordio file.
type rioTrailer struct {
	// Opts is the configuration the labels were produced with.
	Opts  Opts
	Stats overlap.Stats
}

// sortedUnits returns the units of r ordered by source then chromosome.
func (r Result) sortedUnits() []UnitKey {
	var keys []UnitKey
	for src, m := range r.Labels {
		for chrom := range m {
			keys = append(keys, UnitKey{src, chrom})
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Source != keys[j].Source {
			return keys[i].Source < keys[j].Source
		}
		return keys[i].Chrom < keys[j].Chrom
	})
	return keys
}

// createMaybeGzip creates path, gzip-compressing when the path has a gzip
// suffix.  closeFn must run before out is closed.
func createMaybeGzip(ctx context.Context, path string) (out file.File, w io.Writer, closeFn func() error, err error) {
	if out, err = file.Create(ctx, path); err != nil {
		return
	}
	w, closeFn = out.Writer(ctx), func() error { return nil }
	if fileio.DetermineType(path) == fileio.Gzip {
		gz := gzip.NewWriter(w)
		w, closeFn = gz, gz.Close
	}
	return
}

func writeText(ctx context.Context, path string, fn func(w *tsv.Writer) error) (err error) {
	out, w, closeFn, err := createMaybeGzip(ctx, path)
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
	if err = fn(tw); err != nil {
		return
	}
	err = tw.Flush()
	return
}

// WriteTSV writes one SOURCE, CHROM, POS, LABEL row per labeled position.
func WriteTSV(ctx context.Context, path string, r Result) error {
	return writeText(ctx, path, func(w *tsv.Writer) error {
		w.WriteString("SOURCE\tCHROM\tPOS\tLABEL")
		if err := w.EndLine(); err != nil {
			return err
		}
		for _, k := range r.sortedUnits() {
			l := r.Labels[k.Source][k.Chrom]
			for i, p := range l.Positions {
				w.WriteString(k.Source)
				w.WriteString(k.Chrom)
				w.WriteInt64(int64(p))
				w.WriteString(l.Classes[i].String())
				if err := w.EndLine(); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// WriteIntervalsBED writes ivs as chrom, start, end, label rows, with
// duplicate rows removed and the rest sorted.  Coordinates are written as
// stored, so variant.ReadBED reads the intervals back unchanged.
func WriteIntervalsBED(ctx context.Context, path string, ivs []interval.Interval) error {
	ivs = append([]interval.Interval(nil), ivs...)
	sort.Slice(ivs, func(i, j int) bool {
		a, b := ivs[i], ivs[j]
		if a.Chrom != b.Chrom {
			return a.Chrom < b.Chrom
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return a.Label < b.Label
	})
	return writeText(ctx, path, func(w *tsv.Writer) error {
		var prev interval.Interval
		for i, iv := range ivs {
			iv.Tag = 0
			if i > 0 && iv == prev {
				continue
			}
			prev = iv
			w.WriteString(iv.Chrom)
			w.WriteInt64(int64(iv.Start))
			w.WriteInt64(int64(iv.End))
			w.WriteString(iv.Label)
			if err := w.EndLine(); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteLabeledBED writes the confidence intervals behind every Exact label
// in r, once each.
func WriteLabeledBED(ctx context.Context, path string, r Result) error {
	var ivs []interval.Interval
	for _, k := range r.sortedUnits() {
		l := r.Labels[k.Source][k.Chrom]
		for i, c := range l.Classes {
			if c.Kind == overlap.Exact {
				ivs = append(ivs, l.Matched[i])
			}
		}
	}
	return WriteIntervalsBED(ctx, path, ivs)
}

// CallIntervals returns the start and end confidence intervals of the calls
// of every VariantList source selected by opts.Select.  Calls that fail
// variant.CheckDeletion, or that lie outside opts.Chroms when it is set, are
// skipped.
func CallIntervals(opts Opts, sources []Source) []interval.Interval {
	var want map[string]bool
	if len(opts.Chroms) > 0 {
		want = make(map[string]bool)
		for _, c := range opts.Chroms {
			want[c] = true
		}
	}
	var ivs []interval.Interval
	for _, src := range sources {
		if src.Kind != VariantList {
			continue
		}
		for _, v := range variant.Select(src.Variants, opts.Select) {
			if want != nil && !want[v.Chrom] {
				continue
			}
			if err := variant.CheckDeletion(v); err != nil {
				log.Debug.Printf("%s: %v", src.Name, err)
				continue
			}
			ivs = append(ivs, v.StartInterval(), v.EndInterval())
		}
	}
	return ivs
}

// WriteCallsBED writes CallIntervals(opts, sources) with WriteIntervalsBED.
func WriteCallsBED(ctx context.Context, path string, opts Opts, sources []Source) error {
	return WriteIntervalsBED(ctx, path, CallIntervals(opts, sources))
}

// WriteRIO writes r to a zstd-compressed recordio file, one item per unit,
// with opts stored in the trailer.
func WriteRIO(ctx context.Context, path string, r Result, opts Opts) (err error) {
	recordiozstd.Init()
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(fmt.Sprintf("rio create %v", path), err)
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := recordio.NewWriter(out.Writer(ctx), recordio.WriterOpts{
		Transformers: []string{recordiozstd.Name},
	})
	w.AddHeader(fileVersionHeader, fileVersion)
	w.AddHeader(recordio.KeyTrailer, true)
	for _, k := range r.sortedUnits() {
		b := bytes.NewBuffer(nil)
		if err = gob.NewEncoder(b).Encode(rioRecord{Source: k.Source, Labels: r.Labels[k.Source][k.Chrom]}); err != nil {
			return
		}
		w.Append(b.Bytes())
	}
	b := bytes.NewBuffer(nil)
	if err = gob.NewEncoder(b).Encode(rioTrailer{Opts: opts, Stats: r.Stats}); err != nil {
		return
	}
	w.SetTrailer(b.Bytes())
	err = w.Finish()
	return
}

// ReadRIO reads a file written by WriteRIO.  Result.Failed is empty.
func ReadRIO(ctx context.Context, path string) (res Result, opts Opts, err error) {
	recordiozstd.Init()
	in, err := file.Open(ctx, path)
	if err != nil {
		return
	}
	defer file.CloseAndReport(ctx, in, &err)
	sc := recordio.NewScanner(in.Reader(ctx), recordio.ScannerOpts{})
	versionFound := false
	for _, kv := range sc.Header() {
		if kv.Key == fileVersionHeader {
			if v, ok := kv.Value.(string); !ok || v != fileVersion {
				err = errors.E(errors.Invalid, fmt.Sprintf("%v: file version mismatch, got %v, expect %v", path, kv.Value, fileVersion))
				return
			}
			versionFound = true
			break
		}
	}
	if !versionFound {
		err = errors.E(errors.Invalid, fmt.Sprintf("%v: %s not found", path, fileVersionHeader))
		return
	}
	res = Result{
		Labels: make(map[string]map[string]overlap.Labels),
		Failed: make(map[UnitKey]error),
	}
	for sc.Scan() {
		var rec rioRecord
		if err = gob.NewDecoder(bytes.NewReader(sc.Get().([]byte))).Decode(&rec); err != nil {
			return
		}
		m := res.Labels[rec.Source]
		if m == nil {
			m = make(map[string]overlap.Labels)
			res.Labels[rec.Source] = m
		}
		m[rec.Labels.Chrom] = rec.Labels
	}
	if err = sc.Err(); err != nil {
		return
	}
	var trailer rioTrailer
	if err = gob.NewDecoder(bytes.NewReader(sc.Trailer())).Decode(&trailer); err != nil {
		return
	}
	res.Stats, opts = trailer.Stats, trailer.Opts
	err = sc.Finish()
	return
}
