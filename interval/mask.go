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
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/klauspost/compress/gzip"
)

// MaskOpts controls how a BED file is turned into a Mask.
type MaskOpts struct {
	// Invert causes the complement of the interval-union to be used, e.g. to
	// treat the BED as an exclusion list.  Chromosomes absent from the BED are
	// then fully included.
	Invert bool
	// OneBasedInput interprets the BED interval boundaries as one-based
	// [start, end] instead of the usual zero-based [start, end).
	OneBasedInput bool
}

// Mask is an interval-union over genomic positions.  Per chromosome, the union
// is stored as a sorted sequence of 0-based half-open endpoints
// {start0, end, start0, end, ...}; a position is inside the union iff the
// number of endpoints <= its 0-based coordinate is odd.
type Mask struct {
	nameMap map[string][]int
	invert  bool
}

// Contains checks whether the 1-based position pos on chrom is in the mask.
func (m Mask) Contains(chrom string, pos int) bool {
	endpoints := m.nameMap[chrom]
	idx := sort.SearchInts(endpoints, pos)
	return (idx&1 == 1) != m.invert
}

// Chroms returns the chromosomes mentioned by the BED, sorted.
func (m Mask) Chroms() []string {
	chroms := make([]string, 0, len(m.nameMap))
	for c := range m.nameMap {
		chroms = append(chroms, c)
	}
	sort.Strings(chroms)
	return chroms
}

// Bases returns the number of positions covered by the (uninverted) union.
func (m Mask) Bases() int {
	n := 0
	for _, endpoints := range m.nameMap {
		for i := 0; i+1 < len(endpoints); i += 2 {
			n += endpoints[i+1] - endpoints[i]
		}
	}
	return n
}

// NewMask loads a BED whose intervals are sorted by start within each
// chromosome, merging touching/overlapping intervals and eliminating empty
// ones in the process.
func NewMask(reader io.Reader, opts MaskOpts) (mask Mask, err error) {
	mask = Mask{nameMap: make(map[string][]int), invert: opts.Invert}
	var startSubtract int
	if opts.OneBasedInput {
		startSubtract++
	}
	var (
		scanner          = bufio.NewScanner(reader)
		lineIdx          int
		prevChr          string
		prevStart        = -1
		prevEnd          = -1
		chrIntervals     []int
		saveChrIntervals = func() {
			if prevEnd != -1 {
				chrIntervals = append(chrIntervals, prevStart, prevEnd)
			}
			mask.nameMap[prevChr] = chrIntervals
		}
	)
	for scanner.Scan() {
		lineIdx++
		tokens := strings.Fields(gunsafe.BytesToString(scanner.Bytes()))
		if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") || tokens[0] == "track" || tokens[0] == "browser" {
			continue
		}
		if len(tokens) < 3 {
			err = errors.E(errors.Invalid, fmt.Sprintf("interval.NewMask: line %d has fewer tokens than expected", lineIdx))
			return
		}
		var start, end int
		if start, err = strconv.Atoi(tokens[1]); err != nil {
			err = errors.E(errors.Invalid, fmt.Sprintf("interval.NewMask: line %d", lineIdx), err)
			return
		}
		start -= startSubtract
		if end, err = strconv.Atoi(tokens[2]); err != nil {
			err = errors.E(errors.Invalid, fmt.Sprintf("interval.NewMask: line %d", lineIdx), err)
			return
		}
		if start < 0 || end < start || end >= math.MaxInt32 {
			err = errors.E(errors.Invalid, fmt.Sprintf("interval.NewMask: invalid coordinate pair on line %d", lineIdx))
			return
		}
		if curChr := tokens[0]; curChr != prevChr {
			if prevChr != "" {
				saveChrIntervals()
			}
			// Copy: tokens alias the scanner buffer.
			prevChr = string([]byte(curChr))
			if _, found := mask.nameMap[prevChr]; found {
				err = errors.E(errors.Invalid, fmt.Sprintf("interval.NewMask: unsorted input (split chromosome %v)", prevChr))
				return
			}
			chrIntervals = []int{}
			prevStart, prevEnd = -1, -1
		}
		if end == start {
			continue
		}
		switch {
		case prevEnd == -1:
			prevStart, prevEnd = start, end
		case start > prevEnd:
			chrIntervals = append(chrIntervals, prevStart, prevEnd)
			prevStart, prevEnd = start, end
		case start < prevStart:
			err = errors.E(errors.Invalid, fmt.Sprintf("interval.NewMask: unsorted input on line %d", lineIdx))
			return
		case end > prevEnd:
			prevEnd = end
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}
	if prevChr != "" {
		saveChrIntervals()
	}
	log.Printf("BED mask loaded, %d base(s) covered.", mask.Bases())
	return
}

// NewMaskFromPath is a wrapper for NewMask that takes a path instead of an
// io.Reader.  Gzipped BEDs are detected by file extension.
func NewMaskFromPath(ctx context.Context, path string, opts MaskOpts) (mask Mask, err error) {
	var infile file.File
	if infile, err = file.Open(ctx, path); err != nil {
		return
	}
	defer func() {
		if cerr := infile.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	reader := io.Reader(infile.Reader(ctx))
	if fileio.DetermineType(path) == fileio.Gzip {
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(reader); err != nil {
			return
		}
		defer gz.Close() // nolint: errcheck
		reader = gz
	}
	return NewMask(reader, opts)
}

// Region is a closed 1-based range on one chromosome.
type Region struct {
	Chrom string
	Start int
	End   int
}

// Contains reports whether the 1-based position pos on chrom lies in r.
func (r Region) Contains(chrom string, pos int) bool {
	return chrom == r.Chrom && r.Start <= pos && pos <= r.End
}

// ParseRegionString parses a region string of one of the forms
//   [contig ID]:[1-based first pos]-[last pos]
//   [contig ID]:[1-based pos]
//   [contig ID]
// The range [1, math.MaxInt32] is returned if there is no positional
// restriction.
func ParseRegionString(region string) (result Region, err error) {
	if len(region) == 0 {
		err = errors.E(errors.Invalid, "interval.ParseRegionString: empty region string")
		return
	}
	colonPos := strings.IndexByte(region, ':')
	if colonPos == -1 {
		return Region{Chrom: region, Start: 1, End: math.MaxInt32}, nil
	}
	if colonPos == 0 {
		err = errors.E(errors.Invalid, "interval.ParseRegionString: empty contig ID")
		return
	}
	result.Chrom = region[:colonPos]
	rangeStr := region[colonPos+1:]
	dashPos := strings.IndexByte(rangeStr, '-')
	if dashPos == -1 {
		var pos int
		if pos, err = strconv.Atoi(rangeStr); err != nil {
			return
		}
		if pos <= 0 {
			err = errors.E(errors.Invalid, fmt.Sprintf("interval.ParseRegionString: position %v in region string out of range", rangeStr))
			return
		}
		result.Start, result.End = pos, pos
		return
	}
	if result.Start, err = strconv.Atoi(rangeStr[:dashPos]); err != nil {
		return
	}
	if result.End, err = strconv.Atoi(rangeStr[dashPos+1:]); err != nil {
		return
	}
	if result.Start <= 0 || result.End < result.Start {
		err = errors.E(errors.Invalid, fmt.Sprintf("interval.ParseRegionString: invalid range string %v", rangeStr))
	}
	return
}
