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

// Package boc encodes cell graphs into the canonical "bag of cells" envelope and decodes
// them back.
//
// Cells are stored once per distinct hash. The canonical order lists parents before their
// children, so every reference index is strictly greater than the index of the cell holding
// it. Decoding rebuilds cells from the last record to the first and rejects any reference that
// does not point forward, which also guarantees the graph is acyclic.
//
// Layout:
//
//	magic      u32 0xb5ee9c72
//	flags      u8  has_idx(1) has_crc32c(1) has_cache_bits(1) unused(2) size(3)
//	off_bytes  u8
//	cells      size bytes
//	roots      size bytes
//	absent     size bytes
//	tot_size   off_bytes bytes
//	root_list  roots * size bytes
//	index      cells * off_bytes bytes, only with has_idx
//	cell_data  tot_size bytes: d1 d2 data ref_index...
//	crc32c     u32 little endian, only with has_crc32c
package boc
