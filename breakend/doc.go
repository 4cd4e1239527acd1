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
Package breakend parses VCF breakend (BND) ALT notation, e.g. "G[17:198982[" or
"]13:123456]T", into the connection type, the partner locus, and the inferred
indel length.  It also recognizes symbolic alleles such as "<DEL>".

The connection type names follow the mergevcf convention: "3to5" means the 3'
end of the local sequence is joined to the 5' end of the partner sequence.
*/
package breakend
