// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package survey asks a fixed set of questions about a deployed contract through a read-only
// blockchain client and packs the answers into a compact summary.
//
// Questions are grouped into sections of a ContractSurvey. Execute runs every question in
// order and isolates failures per question. The resulting RunResult can be flattened with
// SummaryFromRun and encoded with EncodeSummary into a chain of cells:
//
//	root:  count (16 bits), ref -> node 0
//	node:  ref -> item, ref -> next node (absent on the last node)
//	item:  ok (1 bit), duration in ms (32 bits), ref -> JSON string tail
//
// DecodeSummary walks the chain and returns the items it could read.
package survey
