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
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/svlabel/interval"
)

const maxLineLen = 16 << 20

// ParseBED reads labeled breakpoint intervals from a BED with columns chrom,
// start, end, label.  Only rows whose label starts with "DEL" are kept.  Each
// row covers the closed range [start, end].
func ParseBED(r io.Reader) (map[string][]interval.Interval, error) {
	out := make(map[string][]interval.Interval)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64<<10), maxLineLen)
	var lineNum int
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if len(line) == 0 || line[0] == '#' || strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("BED line %d: got %d columns, want at least 4", lineNum, len(fields)))
		}
		if !strings.HasPrefix(fields[3], Deletion) {
			continue
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("BED line %d: bad start", lineNum), err)
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("BED line %d: bad end", lineNum), err)
		}
		if start > end {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("BED line %d: start %d > end %d", lineNum, start, end))
		}
		out[fields[0]] = append(out[fields[0]], interval.Interval{
			Chrom: fields[0],
			Start: start,
			End:   end,
			Label: fields[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E("couldn't read BED data", err)
	}
	return out, nil
}

// ReadBED is ParseBED on a (possibly gzipped) file.
func ReadBED(ctx context.Context, path string) (ivs map[string][]interval.Interval, err error) {
	err = readPath(ctx, path, func(r io.Reader) error {
		var perr error
		ivs, perr = ParseBED(r)
		return perr
	})
	return
}
