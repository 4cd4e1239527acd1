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
	"fmt"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/svlabel/interval"
)

// Deletion is the only SV type consumed by the labeler.
const Deletion = "DEL"

// CI is a confidence interval expressed as offsets from an anchor position.
// Lower <= 0 <= Upper.
type CI struct {
	Lower, Upper int
}

// Variant is a normalized structural-variant call.  Positions are 1-based.
type Variant struct {
	ID     string
	SVType string
	Chrom  string
	Chrom2 string
	Start  int
	End    int
	CIPos  CI
	CIEnd  CI
	// Filters holds the FILTER column split on ';'.
	Filters []string
	// SuppVec is the SURVIVOR caller-support vector, e.g. "01010".  Empty for
	// BND records.
	SuppVec string
	Alt     string
}

// Passed reports whether the caller let v through its quality filters.  A
// missing FILTER ("." or empty) counts as passing.
func (v Variant) Passed() bool {
	if len(v.Filters) == 0 {
		return true
	}
	for _, f := range v.Filters {
		if f == "PASS" || f == "." {
			return true
		}
	}
	return false
}

// StartInterval returns the confidence interval around v.Start, labeled
// SVType+"_start".
func (v Variant) StartInterval() interval.Interval {
	return interval.Interval{
		Chrom: v.Chrom,
		Start: v.Start + v.CIPos.Lower,
		End:   v.Start + v.CIPos.Upper,
		Label: v.SVType + "_start",
	}
}

// EndInterval returns the confidence interval around v.End, labeled
// SVType+"_end".
func (v Variant) EndInterval() interval.Interval {
	return interval.Interval{
		Chrom: v.Chrom2,
		Start: v.End + v.CIEnd.Lower,
		End:   v.End + v.CIEnd.Upper,
		Label: v.SVType + "_end",
	}
}

func (v Variant) String() string {
	return fmt.Sprintf("%s(%s %s:%d-%s:%d)", v.ID, v.SVType, v.Chrom, v.Start, v.Chrom2, v.End)
}

// CheckDeletion verifies that v is a well-formed intrachromosomal event with
// Start < End.
func CheckDeletion(v Variant) error {
	if v.Chrom != v.Chrom2 {
		return errors.E(errors.Integrity, fmt.Sprintf("variant %v: endpoints on different chromosomes", v))
	}
	if v.Start >= v.End {
		return errors.E(errors.Integrity, fmt.Sprintf("variant %v: start %d >= end %d", v, v.Start, v.End))
	}
	return nil
}

// SelectOpts controls Select.
type SelectOpts struct {
	// PassOnly drops variants failing the caller's quality filters.
	PassOnly bool
	// SupportedBy lists 0-based caller indexes into SUPP_VEC; when non-empty,
	// only variants supported by every listed caller are kept.  Variants
	// without a SUPP_VEC are dropped.
	SupportedBy []int
	// ExcludeChroms drops variants with either endpoint on these chromosomes.
	ExcludeChroms []string
}

// Select returns the deletions in vs that satisfy opts, in input order.
func Select(vs []Variant, opts SelectOpts) []Variant {
	var out []Variant
	for _, v := range vs {
		if v.SVType != Deletion {
			continue
		}
		if opts.PassOnly && !v.Passed() {
			continue
		}
		if !supported(v.SuppVec, opts.SupportedBy) {
			continue
		}
		if excluded(v.Chrom, opts.ExcludeChroms) || excluded(v.Chrom2, opts.ExcludeChroms) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func supported(suppVec string, callers []int) bool {
	for _, i := range callers {
		if i < 0 || i >= len(suppVec) || suppVec[i] != '1' {
			return false
		}
	}
	return true
}

func excluded(chrom string, chroms []string) bool {
	for _, c := range chroms {
		if c == chrom {
			return true
		}
	}
	return false
}

// ByChrom groups vs by Chrom, preserving input order within each group.
func ByChrom(vs []Variant) map[string][]Variant {
	m := make(map[string][]Variant)
	for _, v := range vs {
		m[v.Chrom] = append(m[v.Chrom], v)
	}
	return m
}

// ParseFilters splits a VCF FILTER column.
func ParseFilters(s string) []string {
	if s == "" || s == "." {
		return nil
	}
	return strings.Split(s, ";")
}
