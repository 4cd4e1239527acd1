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
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// MergeOpts selects, from a SURVIVOR merge VCF, the deletions that one
// caller shares with others.  The caller's own record is identified by the
// TY (SV type) and CO (coordinates) FORMAT fields of its sample column.
type MergeOpts struct {
	// Sample is the merge VCF sample column of the caller, e.g. "NanoSV".
	Sample string
	// SupportedBy lists 0-based SUPP_VEC indexes that must all be set.
	SupportedBy []int
	// ExcludeChroms drops merged records with either endpoint on these
	// chromosomes.
	ExcludeChroms []string
}

// DefaultMergeOpts selects NanoSV deletions also called by Manta, with the
// SURVIVOR input order Delly, GRIDSS, NanoSV, Lumpy, Manta.
var DefaultMergeOpts = MergeOpts{
	Sample:        "NanoSV",
	SupportedBy:   []int{2, 4},
	ExcludeChroms: []string{"Y", "MT"},
}

// SharedStarts holds, per chromosome, the start positions of shared calls as
// reported by the caller.
type SharedStarts map[string]map[int]bool

// Keep returns the variants of vs whose (Chrom, Start) is in s, in input
// order.  The variants keep their own confidence intervals.
func (s SharedStarts) Keep(vs []Variant) []Variant {
	var out []Variant
	for _, v := range vs {
		if s[v.Chrom][v.Start] {
			out = append(out, v)
		}
	}
	return out
}

// Len returns the number of distinct shared starts.
func (s SharedStarts) Len() int {
	var n int
	for _, m := range s {
		n += len(m)
	}
	return n
}

// MergedStarts collects the caller-side starts of the deletions in records
// that satisfy opts.  A selected record without opts.Sample, or with a
// malformed CO field, is an errors.Invalid error.
func MergedStarts(records []Record, opts MergeOpts) (SharedStarts, error) {
	s := make(SharedStarts)
	for _, r := range records {
		if excluded(r.Chrom, opts.ExcludeChroms) || excluded(r.Info["CHR2"], opts.ExcludeChroms) {
			continue
		}
		suppVec, ok := r.Info["SUPP_VEC"]
		if !ok || !supported(suppVec, opts.SupportedBy) {
			continue
		}
		fields, ok := r.Samples[opts.Sample]
		if !ok {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("merge record %s: no sample %q", r.ID, opts.Sample))
		}
		if fields["TY"] != Deletion || fields["CO"] == "NaN" {
			continue
		}
		chrom, pos, err := parseCO(fields["CO"])
		if err != nil {
			return nil, errors.E(fmt.Sprintf("merge record %s", r.ID), err)
		}
		m := s[chrom]
		if m == nil {
			m = make(map[int]bool)
			s[chrom] = m
		}
		m[pos] = true
	}
	return s, nil
}

// parseCO parses a SURVIVOR CO value, "chrom_start-chrom2_end", and returns
// the first chromosome and start.
func parseCO(co string) (string, int, error) {
	parts := strings.FieldsFunc(co, func(c rune) bool { return c == '-' || c == '_' })
	if len(parts) != 4 {
		return "", 0, errors.E(errors.Invalid, fmt.Sprintf("CO=%q: want chrom_start-chrom_end", co))
	}
	pos, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, errors.E(errors.Invalid, fmt.Sprintf("CO=%q", co), err)
	}
	return parts[0], pos, nil
}

// ReadMergedStarts is MergedStarts on a (possibly gzipped) SURVIVOR merge
// VCF.
func ReadMergedStarts(ctx context.Context, path string, opts MergeOpts) (SharedStarts, error) {
	records, err := ReadVCF(ctx, path, Symbolic)
	if err != nil {
		return nil, err
	}
	s, err := MergedStarts(records, opts)
	if err != nil {
		return nil, errors.E(path, err)
	}
	log.Printf("%s: %d %s deletion(s) supported by callers %v", path, s.Len(), opts.Sample, opts.SupportedBy)
	return s, nil
}
