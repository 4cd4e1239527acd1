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
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/svlabel/breakend"
)

// Kind identifies the flavor of a raw record.
type Kind int

const (
	// Auto decides per record: breakend ALTs are BND, everything else is
	// Symbolic.  Only meaningful when reading VCFs.
	Auto Kind = iota
	// BND records carry one breakend; the partner locus is in ALT.
	BND
	// Symbolic records carry SVTYPE, CHR2 and END in INFO.
	Symbolic
)

func (k Kind) String() string {
	switch k {
	case Auto:
		return "auto"
	case BND:
		return "bnd"
	case Symbolic:
		return "symbolic"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return Auto, nil
	case "bnd", "nanosv":
		return BND, nil
	case "symbolic", "survivor":
		return Symbolic, nil
	}
	return Auto, errors.E(errors.Invalid, fmt.Sprintf("variant: unknown record kind %q", s))
}

// Record is a raw caller record, as read from one VCF line.
type Record struct {
	Kind  Kind
	ID    string
	Chrom string
	// Pos is the 1-based POS column.
	Pos int
	Ref string
	Alt string
	// Info maps INFO keys to values.  Flags map to "".
	Info    map[string]string
	Filters []string
	// Samples maps sample names to their FORMAT fields, e.g.
	// Samples["NanoSV"]["CO"].  Nil when the VCF has no sample columns.
	Samples map[string]map[string]string
}

// Normalize converts r into a Variant.  It does not drop filtered records;
// the filter status is carried on the result for Select.
func Normalize(r Record) (Variant, error) {
	v := Variant{
		ID:      r.ID,
		Chrom:   r.Chrom,
		Start:   r.Pos,
		Alt:     r.Alt,
		Filters: r.Filters,
	}
	var err error
	if v.CIPos, err = parseCI(r.Info, "CIPOS"); err != nil {
		return Variant{}, errors.E(fmt.Sprintf("variant %s", r.ID), err)
	}
	if v.CIEnd, err = parseCI(r.Info, "CIEND"); err != nil {
		return Variant{}, errors.E(fmt.Sprintf("variant %s", r.ID), err)
	}
	switch r.Kind {
	case BND:
		b, err := breakend.Parse(r.Ref, r.Alt)
		if err != nil {
			return Variant{}, errors.E(fmt.Sprintf("variant %s", r.ID), err)
		}
		v.Chrom2, v.End = b.Chrom2, b.Pos2
		// Keep the record's own naming when both sides are on one
		// chromosome, so "chr1" VCFs stay keyed by "chr1".
		if breakend.StdChrom(r.Chrom) == b.Chrom2 {
			v.Chrom2 = r.Chrom
		}
		if b.Type == breakend.ThreeToFive && v.Chrom == v.Chrom2 && v.Start <= v.End {
			v.SVType = Deletion
		} else {
			v.SVType = r.Info["SVTYPE"]
		}
	case Symbolic:
		v.SVType = r.Info["SVTYPE"]
		if v.SVType == "" {
			v.SVType, _ = breakend.ParseSymbolic(r.Alt)
		}
		v.Chrom2 = r.Info["CHR2"]
		if v.Chrom2 == "" {
			v.Chrom2 = r.Chrom
		}
		v.SuppVec = r.Info["SUPP_VEC"]
		end, ok := r.Info["END"]
		if !ok {
			return Variant{}, errors.E(errors.Invalid, fmt.Sprintf("variant %s: symbolic record without INFO/END", r.ID))
		}
		if v.End, err = strconv.Atoi(end); err != nil {
			return Variant{}, errors.E(errors.Invalid, fmt.Sprintf("variant %s: INFO/END", r.ID), err)
		}
	default:
		return Variant{}, errors.E(errors.Invalid, fmt.Sprintf("variant %s: cannot normalize record of kind %v", r.ID, r.Kind))
	}
	return v, nil
}

// NormalizeAll normalizes every record.  With skipMalformed, records whose
// ALT or INFO cannot be interpreted are logged and dropped; otherwise the
// first such error is returned.
func NormalizeAll(records []Record, skipMalformed bool) ([]Variant, error) {
	vs := make([]Variant, 0, len(records))
	var skipped int
	for _, r := range records {
		v, err := Normalize(r)
		if err != nil {
			if skipMalformed && errors.Is(errors.Invalid, err) {
				log.Debug.Printf("skipping record: %v", err)
				skipped++
				continue
			}
			return nil, err
		}
		vs = append(vs, v)
	}
	if skipped > 0 {
		log.Printf("variant: skipped %d malformed record(s) out of %d", skipped, len(records))
	}
	return vs, nil
}

// parseCI parses a "lower,upper" INFO value.  A missing key yields {0, 0}.
func parseCI(info map[string]string, key string) (CI, error) {
	s, ok := info[key]
	if !ok {
		return CI{}, nil
	}
	comma := strings.IndexByte(s, ',')
	if comma < 0 {
		return CI{}, errors.E(errors.Invalid, fmt.Sprintf("%s=%q: want lower,upper", key, s))
	}
	lower, err := strconv.Atoi(s[:comma])
	if err != nil {
		return CI{}, errors.E(errors.Invalid, fmt.Sprintf("%s=%q", key, s), err)
	}
	upper, err := strconv.Atoi(s[comma+1:])
	if err != nil {
		return CI{}, errors.E(errors.Invalid, fmt.Sprintf("%s=%q", key, s), err)
	}
	if lower > 0 || upper < 0 {
		return CI{}, errors.E(errors.Invalid, fmt.Sprintf("%s=%q: offsets must bracket zero", key, s))
	}
	return CI{Lower: lower, Upper: upper}, nil
}
