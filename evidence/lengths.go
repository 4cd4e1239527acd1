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
	"github.com/grailbio/hts/bam"
)

// GRCh37 returns the chromosome lengths of the hg19/GRCh37 assembly, with
// chromosomes named without a "chr" prefix.
func GRCh37() map[string]int {
	return map[string]int{
		"1": 249250621, "2": 243199373, "3": 198022430, "4": 191154276,
		"5": 180915260, "6": 171115067, "7": 159138663, "8": 146364022,
		"9": 141213431, "10": 135534747, "11": 135006516, "12": 133851895,
		"13": 115169878, "14": 107349540, "15": 102531392, "16": 90354753,
		"17": 81195210, "18": 78077248, "19": 59128983, "20": 63025520,
		"21": 48129895, "22": 51304566, "X": 155270560, "Y": 59373566,
		"MT": 16569,
	}
}

// ChromLengthsFromBAM reads the reference lengths from the header of the BAM
// file at path.
func ChromLengthsFromBAM(ctx context.Context, path string) (lengths map[string]int, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return
	}
	defer file.CloseAndReport(ctx, in, &err)
	reader, err := bam.NewReader(in.Reader(ctx), 1)
	if err != nil {
		return
	}
	lengths = make(map[string]int)
	for _, ref := range reader.Header().Refs() {
		lengths[ref.Name()] = ref.Len()
	}
	err = reader.Close()
	return
}
