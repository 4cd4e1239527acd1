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

// Package variant turns caller-specific structural-variant records into a
// normalized form with per-endpoint confidence intervals.
//
// Two record flavors are understood.  BND records (e.g. NanoSV) describe one
// side of a breakend pair; the partner locus comes from the ALT string.
// Symbolic records (e.g. SURVIVOR merges) carry the SV type, partner
// chromosome, and end position in INFO.
//
// Normalize is pure.  ReadVCF and ReadBED load records from files; they are
// the only functions in this package doing I/O.
package variant
