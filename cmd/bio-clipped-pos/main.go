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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/svlabel/evidence"
	"github.com/grailbio/svlabel/interval"
	"github.com/grailbio/svlabel/labels"
)

var (
	chroms     = flag.String("chroms", "", "Comma-separated list of chromosomes to scan; empty means all")
	outPath    = flag.String("out", "clipped_read_pos.tsv.gz", "Output CHROM/POS/COUNT TSV path; gzipped if it ends in .gz")
	bedOutPath = flag.String("bed-out", "", "If set, write the filtered positions to this BED path")
	minSupport = flag.Int("min-support", labels.DefaultOpts.MinSupport, "Minimum number of clipped reads for a position to be written to -bed-out")
	halfLen    = flag.Int("window-half-len", labels.DefaultOpts.WindowHalfLen, "Positions closer than this to a chromosome end are not written to -bed-out")
	maskPath   = flag.String("mask", "", "If set, only positions inside this BED are written to -bed-out")
	maskInvert = flag.Bool("mask-invert", false, "Treat -mask as an exclusion list: only positions outside it are written")
	region     = flag.String("region", "", "Restrict -bed-out to the specified region. Format as <contig ID>:<1-based first pos>-<last pos>, <contig ID>:<1-based pos>, or just <contig ID>")
)

func usage() {
	fmt.Printf("Usage: %s [OPTIONS] bampath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func filterOpts(ctx context.Context) (opts evidence.FilterOpts, err error) {
	opts = evidence.FilterOpts{MinSupport: *minSupport, HalfLen: *halfLen}
	if *maskPath != "" {
		var mask interval.Mask
		if mask, err = interval.NewMaskFromPath(ctx, *maskPath, interval.MaskOpts{Invert: *maskInvert}); err != nil {
			return
		}
		opts.Mask = &mask
	}
	if *region != "" {
		var r interval.Region
		if r, err = interval.ParseRegionString(*region); err != nil {
			return
		}
		opts.Region = &r
	}
	return
}

func run(ctx context.Context, bamPath string) error {
	counts, err := evidence.Extract(ctx, bamPath, evidence.ExtractOpts{Chroms: splitList(*chroms)})
	if err != nil {
		return err
	}
	if err = counts.WriteTSV(ctx, *outPath); err != nil {
		return err
	}
	log.Printf("wrote %s", *outPath)
	if *bedOutPath == "" {
		return nil
	}
	opts, err := filterOpts(ctx)
	if err != nil {
		return err
	}
	lengths, err := evidence.ChromLengthsFromBAM(ctx, bamPath)
	if err != nil {
		return err
	}
	table := evidence.NewTable(counts, lengths, opts)
	if err = evidence.WritePositionsBED(ctx, *bedOutPath, table); err != nil {
		return err
	}
	log.Printf("wrote %d position(s) to %s", table.Len(), *bedOutPath)
	return nil
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("Expected exactly one positional argument (bampath), got %d: '%s'", flag.NArg(), strings.Join(flag.Args(), " "))
	}
	if err := run(vcontext.Background(), flag.Arg(0)); err != nil {
		log.Panicf("%v", err)
	}
	log.Debug.Printf("exiting")
}
