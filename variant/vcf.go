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
	"fmt"
	"io"

	"github.com/brentp/vcfgo"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/svlabel/breakend"
	"github.com/klauspost/compress/gzip"
)

// VCFOpts controls ReadVariants.
type VCFOpts struct {
	// Kind is assigned to every record; Auto decides per record from ALT.
	Kind Kind
	// SkipMalformed drops records that cannot be normalized instead of
	// failing the read.
	SkipMalformed bool
}

// ParseVCF reads a VCF, header included.  Only the first ALT allele of each
// record is kept.  Any header or record error reported by the parser is an
// errors.Invalid error.
func ParseVCF(r io.Reader, kind Kind) ([]Record, error) {
	rdr, err := vcfgo.NewReader(r, false)
	if err != nil {
		return nil, errors.E(errors.Invalid, "VCF header", err)
	}
	var records []Record
	for {
		v := rdr.Read()
		if v == nil {
			break
		}
		if err := rdr.Error(); err != nil {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("VCF line %d", v.LineNumber), err)
		}
		records = append(records, newRecord(v, kind, rdr.Header.SampleNames))
	}
	return records, nil
}

// newRecord maps a parsed VCF line to a Record.
func newRecord(v *vcfgo.Variant, kind Kind, sampleNames []string) Record {
	rec := Record{
		Kind:    kind,
		ID:      v.Id(),
		Chrom:   v.Chromosome,
		Pos:     int(v.Pos),
		Ref:     v.Reference,
		Info:    make(map[string]string),
		Filters: ParseFilters(v.Filter),
	}
	if len(v.Alternate) > 0 {
		rec.Alt = v.Alternate[0]
	}
	if rec.Kind == Auto {
		rec.Kind = Symbolic
		if breakend.IsBreakend(rec.Alt) {
			rec.Kind = BND
		}
	}
	if info, ok := v.Info().(*vcfgo.InfoByte); ok {
		for _, key := range info.Keys() {
			if key == "" {
				continue
			}
			// Flags have no "key=" pair.
			if info.Contains(key) {
				rec.Info[key] = string(info.SGet(key))
			} else {
				rec.Info[key] = ""
			}
		}
	}
	for i, s := range v.Samples {
		if s == nil || i >= len(sampleNames) {
			continue
		}
		if rec.Samples == nil {
			rec.Samples = make(map[string]map[string]string)
		}
		rec.Samples[sampleNames[i]] = s.Fields
	}
	return rec
}

// ReadVCF reads the records of a (possibly gzipped) VCF file.
func ReadVCF(ctx context.Context, path string, kind Kind) (records []Record, err error) {
	err = readPath(ctx, path, func(r io.Reader) error {
		var perr error
		records, perr = ParseVCF(r, kind)
		return perr
	})
	return
}

// ReadVariants reads and normalizes the records of a VCF file.
func ReadVariants(ctx context.Context, path string, opts VCFOpts) ([]Variant, error) {
	records, err := ReadVCF(ctx, path, opts.Kind)
	if err != nil {
		return nil, err
	}
	vs, err := NormalizeAll(records, opts.SkipMalformed)
	if err != nil {
		return nil, errors.E(path, err)
	}
	return vs, nil
}

// readPath opens path, transparently decompressing gzip input, and hands the
// stream to parse.
func readPath(ctx context.Context, path string, parse func(io.Reader) error) (err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, in, &err)
	r := io.Reader(in.Reader(ctx))
	if fileio.DetermineType(path) == fileio.Gzip {
		gz, gerr := gzip.NewReader(r)
		if gerr != nil {
			return errors.E(errors.Invalid, path, gerr)
		}
		defer func() {
			if cerr := gz.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		r = gz
	}
	if err = parse(r); err != nil {
		return errors.E(path, err)
	}
	return nil
}
