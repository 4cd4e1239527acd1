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

// Package labels drives the overlap classifier over every source and
// chromosome and collects the resulting label sequences.
//
// A source is either a list of normalized SV calls (one caller's VCF) or a
// map of breakpoint intervals (a BED file).  Each (source, chromosome) pair is
// an independent unit of work.  Units run in parallel; a failed unit is
// reported and never filled with default labels.
package labels
