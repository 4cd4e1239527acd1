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
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/svlabel/evidence"
	"github.com/grailbio/svlabel/interval"
	"github.com/grailbio/svlabel/labels"
	"github.com/grailbio/svlabel/overlap"
	"github.com/grailbio/svlabel/variant"
)

var (
	vcfFlag       = flag.String("vcf", "", "Comma-separated name=path list of SV caller VCFs")
	bedFlag       = flag.String("bed", "", "Comma-separated name=path list of BEDs with labeled breakpoint intervals")
	kindFlag      = flag.String("kind", "auto", "VCF record kind: 'bnd' (NanoSV-style breakends), 'symbolic' (SURVIVOR-style), or 'auto' to decide per record")
	skipMalformed = flag.Bool("skip-malformed", false, "Skip VCF records that cannot be normalized instead of failing")
	passOnly      = flag.Bool("pass-only", labels.DefaultOpts.Select.PassOnly, "Only use VCF calls that pass the caller's filters")
	supportedBy   = flag.String("supported-by", "", "Comma-separated 0-based SUPP_VEC caller indexes; only calls supported by all of them are used, e.g. '2,4'")
	excludeChroms = flag.String("exclude-chroms", "", "Comma-separated chromosomes whose calls are ignored, e.g. 'Y,MT'")
	mergeVCF      = flag.String("merge-vcf", "", "If set, a SURVIVOR merge VCF; each -vcf source also yields a <name>_shared source holding its calls whose start the merge reports for -merge-sample with support from every -merge-supported-by caller")
	mergeSample   = flag.String("merge-sample", variant.DefaultMergeOpts.Sample, "Sample column of -merge-vcf holding the -vcf caller's TY and CO fields")
	mergeSupport  = flag.String("merge-supported-by", "2,4", "Comma-separated 0-based SUPP_VEC caller indexes that must all support a -merge-vcf record")
	mergeExclude  = flag.String("merge-exclude-chroms", "Y,MT", "Comma-separated chromosomes whose -merge-vcf records are ignored")
	bamPath       = flag.String("bam", "", "BAM to extract clipped-read positions from; this xor -counts required")
	countsPath    = flag.String("counts", "", "Clipped-read counts written by bio-clipped-pos; this xor -bam required")
	minSupport    = flag.Int("min-support", labels.DefaultOpts.MinSupport, "Minimum number of clipped reads supporting an evidence position")
	halfLen       = flag.Int("window-half-len", labels.DefaultOpts.WindowHalfLen, "Half-length of the window around each evidence position")
	chroms        = flag.String("chroms", "", "Comma-separated chromosomes to label; empty means every chromosome with calls")
	maskPath      = flag.String("mask", "", "If set, only evidence positions inside this BED are labeled")
	maskInvert    = flag.Bool("mask-invert", false, "Treat -mask as an exclusion list: only evidence positions outside it are labeled")
	region        = flag.String("region", "", "If set, only evidence positions in this region are labeled. Format as <contig ID>:<1-based first pos>-<last pos>, <contig ID>:<1-based pos>, or just <contig ID>")
	parallelism   = flag.Int("parallelism", 0, "Maximum number of (source, chromosome) units labeled concurrently; 0 = runtime.NumCPU()")
	outPrefix     = flag.String("out", "svlabel", "Output path prefix")
)

func usage() {
	fmt.Printf("Usage: %s [OPTIONS]\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

type namedPath struct {
	name, path string
}

// parseNamedPaths parses "a=x.vcf,b=y.vcf".  An entry without a name is
// named after its path.
func parseNamedPaths(s string) ([]namedPath, error) {
	var out []namedPath
	for _, item := range splitList(s) {
		if item == "" {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("empty entry in %q", s))
		}
		if eq := strings.IndexByte(item, '='); eq >= 0 {
			if eq == 0 || eq == len(item)-1 {
				return nil, errors.E(errors.Invalid, fmt.Sprintf("malformed name=path entry %q", item))
			}
			out = append(out, namedPath{item[:eq], item[eq+1:]})
		} else {
			out = append(out, namedPath{item, item})
		}
	}
	return out, nil
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, f := range splitList(s) {
		i, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("bad integer list %q", s), err)
		}
		out = append(out, i)
	}
	return out, nil
}

func loadSources(ctx context.Context) ([]labels.Source, error) {
	kind, err := variant.ParseKind(*kindFlag)
	if err != nil {
		return nil, err
	}
	vcfs, err := parseNamedPaths(*vcfFlag)
	if err != nil {
		return nil, err
	}
	beds, err := parseNamedPaths(*bedFlag)
	if err != nil {
		return nil, err
	}
	if len(vcfs)+len(beds) == 0 {
		return nil, errors.E(errors.Invalid, "at least one of -vcf and -bed is required")
	}
	var shared variant.SharedStarts
	if *mergeVCF != "" {
		opts := variant.MergeOpts{Sample: *mergeSample, ExcludeChroms: splitList(*mergeExclude)}
		if opts.SupportedBy, err = parseInts(*mergeSupport); err != nil {
			return nil, err
		}
		if shared, err = variant.ReadMergedStarts(ctx, *mergeVCF, opts); err != nil {
			return nil, err
		}
	}
	var sources []labels.Source
	for _, np := range vcfs {
		vs, err := variant.ReadVariants(ctx, np.path, variant.VCFOpts{Kind: kind, SkipMalformed: *skipMalformed})
		if err != nil {
			return nil, err
		}
		log.Printf("%s: %d call(s) from %s", np.name, len(vs), np.path)
		sources = append(sources, labels.NewVariantSource(np.name, vs))
		if shared != nil {
			kept := shared.Keep(vs)
			log.Printf("%s_shared: %d call(s) of %s reported by %s", np.name, len(kept), np.name, *mergeVCF)
			sources = append(sources, labels.NewVariantSource(np.name+"_shared", kept))
		}
	}
	for _, np := range beds {
		ivs, err := variant.ReadBED(ctx, np.path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, labels.NewBEDSource(np.name, ivs))
	}
	return sources, nil
}

func loadEvidence(ctx context.Context, opts labels.Opts) (*evidence.Table, error) {
	var (
		counts evidence.Counts
		err    error
	)
	switch {
	case *bamPath != "" && *countsPath != "":
		return nil, errors.E(errors.Invalid, "-bam and -counts are mutually exclusive")
	case *bamPath != "":
		if counts, err = evidence.Extract(ctx, *bamPath, evidence.ExtractOpts{Chroms: opts.Chroms}); err != nil {
			return nil, err
		}
	case *countsPath != "":
		if counts, err = evidence.ReadCounts(ctx, *countsPath); err != nil {
			return nil, err
		}
	default:
		return nil, errors.E(errors.Invalid, "one of -bam and -counts is required")
	}
	filter := opts.FilterOpts()
	if *maskPath != "" {
		mask, err := interval.NewMaskFromPath(ctx, *maskPath, interval.MaskOpts{Invert: *maskInvert})
		if err != nil {
			return nil, err
		}
		filter.Mask = &mask
	}
	if *region != "" {
		r, err := interval.ParseRegionString(*region)
		if err != nil {
			return nil, err
		}
		filter.Region = &r
	}
	return evidence.NewTable(counts, opts.ChromLengths, filter), nil
}

// writeUnsupported writes the confidence intervals of selected VCF calls that
// contain no evidence position.
func writeUnsupported(ctx context.Context, path string, opts labels.Opts, ev *evidence.Table, sources []labels.Source) error {
	var ivs []interval.Interval
	for _, src := range sources {
		if src.Kind != labels.VariantList {
			continue
		}
		var total, both int
		for chrom, vs := range variant.ByChrom(variant.Select(src.Variants, opts.Select)) {
			positions, err := ev.Positions(chrom)
			if err != nil {
				log.Debug.Printf("%s/%s: %v", src.Name, chrom, err)
				continue
			}
			unsupported, n := overlap.Unsupported(vs, positions)
			ivs = append(ivs, unsupported...)
			total += len(vs)
			both += n
		}
		log.Printf("%s: calls with clipped reads on both sides: %d/%d", src.Name, both, total)
	}
	return labels.WriteIntervalsBED(ctx, path, ivs)
}

func run(ctx context.Context) error {
	opts := labels.DefaultOpts
	opts.MinSupport = *minSupport
	opts.WindowHalfLen = *halfLen
	opts.Parallelism = *parallelism
	opts.Chroms = splitList(*chroms)
	opts.Select.PassOnly = *passOnly
	opts.Select.ExcludeChroms = splitList(*excludeChroms)
	var err error
	if opts.Select.SupportedBy, err = parseInts(*supportedBy); err != nil {
		return err
	}
	if *bamPath != "" {
		if opts.ChromLengths, err = evidence.ChromLengthsFromBAM(ctx, *bamPath); err != nil {
			return err
		}
	}
	sources, err := loadSources(ctx)
	if err != nil {
		return err
	}
	ev, err := loadEvidence(ctx, opts)
	if err != nil {
		return err
	}
	res, err := labels.Assemble(ctx, opts, ev, sources)
	if err != nil {
		return err
	}
	for _, k := range res.Units(sources) {
		log.Printf("%v: %v", k, res.Labels[k.Source][k.Chrom].Counts())
	}
	log.Printf("all units: %v", res.Stats)
	if err = labels.WriteTSV(ctx, *outPrefix+".labels.tsv.gz", res); err != nil {
		return err
	}
	if err = labels.WriteRIO(ctx, *outPrefix+".labels.rio", res, opts); err != nil {
		return err
	}
	if err = labels.WriteLabeledBED(ctx, *outPrefix+".labeled_ci.bed.gz", res); err != nil {
		return err
	}
	if err = labels.WriteCallsBED(ctx, *outPrefix+".calls_ci.bed.gz", opts, sources); err != nil {
		return err
	}
	return writeUnsupported(ctx, *outPrefix+".no_cr.bed", opts, ev, sources)
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 0 {
		log.Fatalf("Unexpected positional arguments: '%s'", strings.Join(flag.Args(), " "))
	}
	if err := run(vcontext.Background()); err != nil {
		log.Panicf("%v", err)
	}
	log.Debug.Printf("exiting")
}
