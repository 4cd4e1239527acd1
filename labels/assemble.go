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

package labels

import (
	"context"
	"fmt"
	"runtime"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/svlabel/interval"
	"github.com/grailbio/svlabel/overlap"
	"github.com/grailbio/svlabel/variant"
)

// Evidence supplies the filtered evidence positions of a chromosome, in
// ascending order.  It must be safe for concurrent use.
type Evidence interface {
	Positions(chrom string) ([]int, error)
}

// UnitKey identifies one unit of work.
type UnitKey struct {
	Source string
	Chrom  string
}

func (k UnitKey) String() string { return k.Source + "/" + k.Chrom }

// Result is the output of Assemble.
type Result struct {
	// Labels maps source name -> chromosome -> label sequence.  Failed units
	// are absent.
	Labels map[string]map[string]overlap.Labels
	// Failed holds the error of every unit that could not be labeled.
	Failed map[UnitKey]error
	// Stats sums the Stats of all labeled units.
	Stats overlap.Stats
}

// Units returns the keys of the labeled units, ordered by source then
// chromosome.
func (r Result) Units(sources []Source) []UnitKey {
	var keys []UnitKey
	for _, src := range sources {
		for _, chrom := range src.chroms() {
			if _, ok := r.Labels[src.Name][chrom]; ok {
				keys = append(keys, UnitKey{src.Name, chrom})
			}
		}
	}
	return keys
}

type unit struct {
	key       UnitKey
	kind      SourceKind
	variants  []variant.Variant
	intervals []interval.Interval
}

func (u unit) run(ev Evidence, halfLen int) (overlap.Labels, error) {
	positions, err := ev.Positions(u.key.Chrom)
	if err != nil {
		return overlap.Labels{}, err
	}
	switch u.kind {
	case VariantList:
		return overlap.LabelVariants(u.key.Chrom, u.variants, positions, halfLen)
	case BEDIntervals:
		return overlap.LabelIntervals(u.key.Chrom, u.intervals, positions, halfLen)
	}
	return overlap.Labels{}, errors.E(errors.Invalid, fmt.Sprintf("labels: unknown source kind %v", u.kind))
}

// makeUnits splits sources into (source, chromosome) units in a fixed order.
func makeUnits(opts Opts, sources []Source) ([]unit, error) {
	var want map[string]bool
	if len(opts.Chroms) > 0 {
		want = make(map[string]bool)
		for _, c := range opts.Chroms {
			want[c] = true
		}
	}
	var (
		units []unit
		names = make(map[string]bool)
	)
	for _, src := range sources {
		if names[src.Name] {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("labels: duplicate source name %q", src.Name))
		}
		names[src.Name] = true
		var byChrom map[string][]variant.Variant
		if src.Kind == VariantList {
			sel := variant.Select(src.Variants, opts.Select)
			log.Printf("%s: %d of %d call(s) selected", src.Name, len(sel), len(src.Variants))
			src.Variants = sel
			byChrom = variant.ByChrom(sel)
		}
		for _, chrom := range src.chroms() {
			if want != nil && !want[chrom] {
				continue
			}
			u := unit{key: UnitKey{src.Name, chrom}, kind: src.Kind}
			switch src.Kind {
			case VariantList:
				u.variants = byChrom[chrom]
			case BEDIntervals:
				u.intervals = src.Intervals[chrom]
			default:
				return nil, errors.E(errors.Invalid, fmt.Sprintf("labels: source %s has unknown kind %v", src.Name, src.Kind))
			}
			units = append(units, u)
		}
	}
	return units, nil
}

// Assemble labels the evidence of every chromosome holding calls in each
// source.  Units that fail are logged and recorded in Result.Failed while the
// others proceed; the error of the first failed unit (in source, chromosome
// order) is returned alongside the partial Result.
func Assemble(ctx context.Context, opts Opts, ev Evidence, sources []Source) (Result, error) {
	units, err := makeUnits(opts, sources)
	if err != nil {
		return Result{}, err
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	var (
		labels = make([]overlap.Labels, len(units))
		errs   = make([]error, len(units))
	)
	err = traverse.Limit(parallelism).Each(len(units), func(i int) error {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			return nil
		}
		labels[i], errs[i] = units[i].run(ev, opts.WindowHalfLen)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Labels: make(map[string]map[string]overlap.Labels),
		Failed: make(map[UnitKey]error),
	}
	var first error
	for i, u := range units {
		if errs[i] != nil {
			log.Error.Printf("%v: labeling failed: %v", u.key, errs[i])
			res.Failed[u.key] = errs[i]
			if first == nil {
				first = errors.E(fmt.Sprintf("labels: %v", u.key), errs[i])
			}
			continue
		}
		m := res.Labels[u.key.Source]
		if m == nil {
			m = make(map[string]overlap.Labels)
			res.Labels[u.key.Source] = m
		}
		m[u.key.Chrom] = labels[i]
		res.Stats = res.Stats.Merge(labels[i].Stats)
		log.Printf("%v: %v", u.key, labels[i].Stats)
	}
	if len(res.Failed) > 0 {
		log.Error.Printf("%d of %d unit(s) failed", len(res.Failed), len(units))
	}
	return res, first
}
