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
	"github.com/grailbio/svlabel/evidence"
	"github.com/grailbio/svlabel/variant"
)

// Opts configures Assemble.
type Opts struct {
	// MinSupport is the minimum number of clipped reads for a position to
	// count as evidence.  It is applied when building the evidence table.
	MinSupport int
	// WindowHalfLen is the half-length H of the window [p-H, p+H] around each
	// evidence position p.
	WindowHalfLen int
	// ChromLengths maps chromosome names to lengths.
	ChromLengths map[string]int
	// Parallelism caps the number of units processed concurrently.  Values
	// <= 0 mean one per CPU.
	Parallelism int
	// Chroms, if non-empty, restricts labeling to these chromosomes.
	Chroms []string
	// Select chooses which normalized variants of a VCF source are used.
	Select variant.SelectOpts
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	MinSupport:    3,
	WindowHalfLen: 100,
	ChromLengths:  evidence.GRCh37(),
	Select:        variant.SelectOpts{PassOnly: true},
}

// FilterOpts returns the evidence filter matching o.
func (o Opts) FilterOpts() evidence.FilterOpts {
	return evidence.FilterOpts{MinSupport: o.MinSupport, HalfLen: o.WindowHalfLen}
}
