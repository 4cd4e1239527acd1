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

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

// WritePositionsBED writes one zero-based, half-open BED line per evidence
// position in t.  The output is bgzf-compressed when path ends in ".gz".
func WritePositionsBED(ctx context.Context, path string, t *Table) (err error) {
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
	for _, chrom := range t.Chroms() {
		for _, p := range t.positions[chrom] {
			tw.WriteString(chrom)
			tw.WriteInt64(int64(p - 1))
			tw.WriteInt64(int64(p))
			if err = tw.EndLine(); err != nil {
				return
			}
		}
	}
	err = tw.Flush()
	return
}
