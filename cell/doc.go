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

// Package cell implements bit-precise cells: immutable nodes of up to 1023 data bits and up
// to 4 child references, addressed by a SHA-256 representation hash.
//
// Cells are produced by a Builder and read back with a Slice. The format carries no field
// names or types, so a reader must load fields in exactly the order they were stored:
//
//	b := cell.BeginCell()
//	if err := b.StoreUint(42, 64); err != nil {
//	    return err
//	}
//	c, err := b.EndCell()
//	...
//	v, err := c.BeginParse().LoadUint(64)
//
// Writes past the bit or reference budget fail with CapacityError, reads past the available
// data fail with BoundsError. Data that is present but laid out differently than expected
// (unsupported address variants, broken string tails) fails with SchemaMismatchError.
package cell
