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
	"fmt"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Table holds the filtered evidence positions of every chromosome with a
// known length.  It is immutable and safe for concurrent use.
type Table struct {
	positions map[string][]int
}

// NewTable filters counts with opts.  Chromosomes missing from lengths are
// skipped.
func NewTable(counts Counts, lengths map[string]int, opts FilterOpts) *Table {
	t := &Table{positions: make(map[string][]int)}
	for chrom, n := range lengths {
		t.positions[chrom] = Filter(chrom, counts.ByChrom[chrom], n, opts)
	}
	var total int
	for _, chrom := range counts.Chroms() {
		if _, ok := lengths[chrom]; !ok {
			log.Debug.Printf("evidence: no length for chromosome %s, skipping", chrom)
			continue
		}
		total += len(t.positions[chrom])
	}
	log.Printf("evidence: %d position(s) pass filters (min support %d, window half-length %d)",
		total, opts.MinSupport, opts.HalfLen)
	return t
}

// NewTableFromPositions builds a Table from already-filtered positions.
func NewTableFromPositions(positions map[string][]int) *Table {
	t := &Table{positions: make(map[string][]int, len(positions))}
	for chrom, pos := range positions {
		pos = append([]int(nil), pos...)
		sort.Ints(pos)
		t.positions[chrom] = pos
	}
	return t
}

// Positions returns the evidence positions on chrom in ascending order.  The
// result is shared and must not be modified.  It is an errors.NotExist error
// if chrom is unknown.
func (t *Table) Positions(chrom string) ([]int, error) {
	pos, ok := t.positions[chrom]
	if !ok {
		return nil, errors.E(errors.NotExist, fmt.Sprintf("evidence: unknown chromosome %s", chrom))
	}
	return pos, nil
}

// Chroms returns the chromosomes with at least one evidence position, sorted.
func (t *Table) Chroms() []string {
	var chroms []string
	for chrom, pos := range t.positions {
		if len(pos) > 0 {
			chroms = append(chroms, chrom)
		}
	}
	sort.Strings(chroms)
	return chroms
}

// Len returns the total number of evidence positions.
func (t *Table) Len() int {
	var n int
	for _, pos := range t.positions {
		n += len(pos)
	}
	return n
}
