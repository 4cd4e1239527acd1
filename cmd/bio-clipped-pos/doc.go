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

/*
bio-clipped-pos counts soft-clipped reads per genomic position in a BAM file.

For every mapped read whose mate is also mapped, a leading soft clip adds one
to the first aligned base and a trailing soft clip adds one to the last
aligned base (1-based coordinates).  The counts are written as a
CHROM/POS/COUNT TSV, which bio-svlabel accepts via -counts.  Optionally the
positions passing the support and boundary filters are also written as a BED.

Sample usage:
bio-clipped-pos \
    --out sample.clipped.tsv.gz \
    --bed-out sample.clipped.bed.gz \
    --min-support 3 \
    sample.bam
*/
package main
