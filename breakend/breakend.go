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

package breakend

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
)

// ConnectionType describes how the two sides of a breakend are joined.
type ConnectionType uint8

const (
	// InvalidConnection is the zero value; Parse never returns it on success.
	InvalidConnection ConnectionType = iota
	// ThreeToFive is the "3to5" join, t[p[.  A 3to5 join to a downstream locus
	// on the same chromosome is a deletion.
	ThreeToFive
	// ThreeToThree is the "3to3" join, t]p].
	ThreeToThree
	// FiveToFive is the "5to5" join, [p[t.
	FiveToFive
	// FiveToThree is the "5to3" join, ]p]t.
	FiveToThree
)

var connectionTypeNames = [...]string{
	InvalidConnection: "invalid",
	ThreeToFive:       "3to5",
	ThreeToThree:      "3to3",
	FiveToFive:        "5to5",
	FiveToThree:       "5to3",
}

// String returns the mergevcf-style name, e.g. "3to5".
func (c ConnectionType) String() string {
	if int(c) < len(connectionTypeNames) {
		return connectionTypeNames[c]
	}
	return fmt.Sprintf("ConnectionType(%d)", c)
}

// connectionTable is indexed by [joinedAfter][extendRight].
var connectionTable = [2][2]ConnectionType{
	{FiveToThree, FiveToFive},
	{ThreeToThree, ThreeToFive},
}

func connection(joinedAfter, extendRight bool) ConnectionType {
	return connectionTable[b2i(joinedAfter)][b2i(extendRight)]
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Breakend is the parsed form of a breakend ALT string.
type Breakend struct {
	Type ConnectionType
	// Chrom2 is the partner chromosome, without any "chr" prefix.
	Chrom2 string
	// Pos2 is the 1-based partner position.
	Pos2 int
	// IndelLen is len(connecting sequence) - len(REF).
	IndelLen int
}

// Patterns are compiled once; both are immutable afterwards and safe for
// concurrent use.
var (
	// Groups: prefix, open delimiter, chrom:pos, close delimiter, suffix.
	breakendRE = regexp.MustCompile(`^([ACGTNacgtn.]*)([\[\]])([a-zA-Z0-9._]+:\d+)([\[\]])([ACGTNacgtn.]*)$`)
	symbolicRE = regexp.MustCompile(`.*<([A-Z:]+)>.*`)
)

// IsBreakend reports whether alt looks like breakend notation.  It does not
// validate delimiter pairing; use Parse for that.
func IsBreakend(alt string) bool {
	return breakendRE.MatchString(alt)
}

// ParseSymbolic extracts the SV type from a symbolic allele, e.g. "DEL" from
// "<DEL>".
func ParseSymbolic(alt string) (string, bool) {
	m := symbolicRE.FindStringSubmatch(alt)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// StdChrom strips a leading "chr" from a chromosome name.
func StdChrom(chrom string) string {
	return strings.TrimPrefix(chrom, "chr")
}

func malformed(alt, reason string) error {
	return errors.E(errors.Invalid, fmt.Sprintf("breakend: malformed ALT %q: %s", alt, reason))
}

// IsMalformed reports whether err was produced by Parse for an ALT string that
// is not valid breakend notation.
func IsMalformed(err error) bool {
	return errors.Is(errors.Invalid, err)
}

// Parse parses a breakend ALT string.  ref is the REF allele of the record and
// is only used to compute IndelLen.
func Parse(ref, alt string) (Breakend, error) {
	m := breakendRE.FindStringSubmatch(alt)
	if m == nil {
		return Breakend{}, malformed(alt, "does not match breakend grammar")
	}
	pre, openDelim, pair, closeDelim, post := m[1], m[2], m[3], m[4], m[5]
	if openDelim != closeDelim {
		return Breakend{}, malformed(alt, "mismatched delimiters "+openDelim+" and "+closeDelim)
	}
	var connect string
	switch {
	case pre != "" && post != "":
		return Breakend{}, malformed(alt, "sequence on both sides of the partner locus")
	case pre != "":
		connect = pre
	case post != "":
		connect = post
	default:
		return Breakend{}, malformed(alt, "no connecting sequence")
	}
	colon := strings.LastIndexByte(pair, ':')
	pos2, err := strconv.Atoi(pair[colon+1:])
	if err != nil {
		return Breakend{}, malformed(alt, err.Error())
	}
	return Breakend{
		Type:     connection(pre != "", openDelim == "["),
		Chrom2:   StdChrom(pair[:colon]),
		Pos2:     pos2,
		IndelLen: len(connect) - len(ref),
	}, nil
}

// Format renders a breakend ALT string for the given connection type.  seq is
// the connecting sequence.  Parse(ref, Format(...)) recovers t, chrom2 and
// pos2.
func Format(t ConnectionType, seq, chrom2 string, pos2 int) string {
	locus := chrom2 + ":" + strconv.Itoa(pos2)
	switch t {
	case ThreeToFive:
		return seq + "[" + locus + "["
	case ThreeToThree:
		return seq + "]" + locus + "]"
	case FiveToFive:
		return "[" + locus + "[" + seq
	case FiveToThree:
		return "]" + locus + "]" + seq
	}
	panic(t)
}
