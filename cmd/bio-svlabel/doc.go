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
bio-svlabel assigns ground-truth labels to clipped-read positions by checking
them against deletion breakpoints reported by SV callers.

Each evidence position p is labeled with the breakpoint whose confidence
interval lies entirely inside the window [p-H, p+H] ("DEL_start" or
"DEL_end"), "UK" when the window touches breakpoints but cannot be assigned to
exactly one, or "noSV" otherwise.  Every VCF or BED source is labeled
independently.

With -merge-vcf, each -vcf source also yields a "<name>_shared" source: its
calls whose start the SURVIVOR merge reports (FORMAT CO of -merge-sample) for
a deletion supported by every -merge-supported-by caller.  These calls keep
their own confidence intervals.  Only PASS calls are used unless
-pass-only=false.

Evidence comes either from a BAM (-bam) or from the counts written by
bio-clipped-pos (-counts).  Chromosome lengths come from the BAM header when
-bam is set, and default to GRCh37 otherwise.

Outputs, for -out=prefix:
  prefix.labels.tsv.gz     SOURCE/CHROM/POS/LABEL rows
  prefix.labels.rio        the same labels, readable by labels.ReadRIO
  prefix.labeled_ci.bed.gz confidence intervals behind exact labels
  prefix.calls_ci.bed.gz   start and end confidence intervals of the
                           selected VCF calls
  prefix.no_cr.bed         confidence intervals of VCF calls without any
                           clipped-read position

Sample usage:
bio-svlabel \
    --vcf nanosv=sample.nanosv.vcf,survivor=sample.survivor.vcf.gz \
    --merge-vcf sample.survivor.vcf.gz \
    --bed truth=sample.truth.bed \
    --counts sample.clipped.tsv.gz \
    --out sample
*/
package main
