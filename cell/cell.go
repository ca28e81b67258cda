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

package cell

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

const HashSize = sha256.Size

// Hash is the representation hash of a cell
type Hash [HashSize]byte

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) Bytes() []byte {
	return h[:]
}

// Cell is an immutable node holding up to 1023 bits of data and up to 4 child references.
// Hash and depth are computed on first use and cached
type Cell struct {
	data    []byte
	bitLen  int
	refs    []*Cell
	special bool

	hashOnce sync.Once
	hashed   atomic.Bool
	hash     Hash
	depth    int
}

// NewCell returns an ordinary cell with the first bitLen bits of data and the given children
func NewCell(data []byte, bitLen int, refs []*Cell) (*Cell, error) {
	return newCell(data, bitLen, refs, false)
}

// NewSpecialCell returns a cell with the special (exotic) flag set. The flag is carried
// through serialization but the cell is otherwise hashed like an ordinary cell
func NewSpecialCell(data []byte, bitLen int, refs []*Cell) (*Cell, error) {
	return newCell(data, bitLen, refs, true)
}

func newCell(data []byte, bitLen int, refs []*Cell, special bool) (*Cell, error) {
	if bitLen < 0 || bitLen > MaxBits {
		return nil, CapacityError{
			Op:        "new cell",
			Requested: bitLen,
			Available: MaxBits,
		}
	}
	if len(refs) > MaxRefs {
		return nil, CapacityError{
			Op:        "new cell",
			Refs:      true,
			Requested: len(refs),
			Available: MaxRefs,
		}
	}
	byteLen := (bitLen + 7) / 8
	if len(data) < byteLen {
		return nil, fmt.Errorf(
			"cell data too short: %d bytes for %d bits",
			len(data),
			bitLen,
		)
	}
	for i, ref := range refs {
		if ref == nil {
			return nil, fmt.Errorf("cell reference %d is nil", i)
		}
	}
	c := &Cell{
		data:    make([]byte, byteLen),
		bitLen:  bitLen,
		special: special,
	}
	copy(c.data, data)
	// Clear any bits past the end so equal content always has equal bytes
	if rem := bitLen % 8; rem != 0 {
		c.data[byteLen-1] &= 0xff << (8 - rem)
	}
	if len(refs) > 0 {
		c.refs = make([]*Cell, len(refs))
		copy(c.refs, refs)
	}
	return c, nil
}

// Empty returns a cell without bits or references
func Empty() *Cell {
	c, _ := NewCell(nil, 0, nil)
	return c
}

func (c *Cell) BitLen() int {
	return c.bitLen
}

// Data returns a copy of the cell bits, zero padded to a whole byte
func (c *Cell) Data() []byte {
	return bytes.Clone(c.data)
}

func (c *Cell) RefsCount() int {
	return len(c.refs)
}

// Refs returns the child cells in order
func (c *Cell) Refs() []*Cell {
	ret := make([]*Cell, len(c.refs))
	copy(ret, c.refs)
	return ret
}

// Ref returns the child at index idx
func (c *Cell) Ref(idx int) (*Cell, error) {
	if idx < 0 || idx >= len(c.refs) {
		return nil, BoundsError{
			Op:        "ref",
			Refs:      true,
			Requested: idx + 1,
			Remaining: len(c.refs),
		}
	}
	return c.refs[idx], nil
}

func (c *Cell) IsSpecial() bool {
	return c.special
}

// Descriptors returns the two descriptor bytes used by both hashing and serialization
func (c *Cell) Descriptors() [2]byte {
	d1 := byte(len(c.refs))
	if c.special {
		d1 |= 8
	}
	d2 := byte(c.bitLen/8 + (c.bitLen+7)/8)
	return [2]byte{d1, d2}
}

// PaddedData returns the cell bits completed to a byte boundary with a single 1 bit followed
// by zeros. Byte aligned data is returned unchanged
func (c *Cell) PaddedData() []byte {
	ret := bytes.Clone(c.data)
	if c.bitLen%8 != 0 {
		setBit(ret, c.bitLen)
	}
	return ret
}

// Hash returns the representation hash of the cell
func (c *Cell) Hash() Hash {
	c.ensureHashed()
	return c.hash
}

// Depth returns the length of the longest path to a leaf cell
func (c *Cell) Depth() int {
	c.ensureHashed()
	return c.depth
}

// Equal reports whether both cells have the same representation hash
func (c *Cell) Equal(other *Cell) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Hash() == other.Hash()
}

// ensureHashed computes hashes for every descendant still missing one, children first,
// without recursion so long chains cannot exhaust the stack
func (c *Cell) ensureHashed() {
	if c.hashed.Load() {
		return
	}
	type frame struct {
		cell     *Cell
		expanded bool
	}
	var order []*Cell
	seen := map[*Cell]bool{}
	stack := []frame{{cell: c}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.expanded {
			order = append(order, top.cell)
			continue
		}
		if seen[top.cell] || top.cell.hashed.Load() {
			continue
		}
		seen[top.cell] = true
		stack = append(stack, frame{cell: top.cell, expanded: true})
		for _, ref := range top.cell.refs {
			stack = append(stack, frame{cell: ref})
		}
	}
	for _, tmpCell := range order {
		tmpCell.hashOnce.Do(tmpCell.computeHash)
	}
}

// computeHash expects every child to be hashed already
func (c *Cell) computeHash() {
	d := c.Descriptors()
	h := sha256.New()
	h.Write(d[:])
	h.Write(c.PaddedData())
	depth := 0
	for _, ref := range c.refs {
		// Depth is stored in two bytes and wraps past 65535
		h.Write([]byte{byte(ref.depth >> 8), byte(ref.depth)})
		if ref.depth+1 > depth {
			depth = ref.depth + 1
		}
	}
	for _, ref := range c.refs {
		h.Write(ref.hash[:])
	}
	copy(c.hash[:], h.Sum(nil))
	c.depth = depth
	c.hashed.Store(true)
}

// BeginParse returns a new slice positioned at the start of the cell
func (c *Cell) BeginParse() *Slice {
	return &Slice{
		cell: c,
		bits: bitReader{
			data:   c.data,
			bitLen: c.bitLen,
		},
	}
}

// BitsString renders the cell data as hex, marking incomplete nibbles with a trailing
// underscore in the usual fift notation
func (c *Cell) BitsString() string {
	if c.bitLen%4 == 0 {
		return strings.ToUpper(hex.EncodeToString(c.data))[:c.bitLen/4]
	}
	padded := c.PaddedData()
	nibbles := (c.bitLen + 3) / 4
	return strings.ToUpper(hex.EncodeToString(padded))[:nibbles] + "_"
}

// String renders the cell tree with one cell per line
func (c *Cell) String() string {
	var sb strings.Builder
	type frame struct {
		cell   *Cell
		indent int
	}
	stack := []frame{{cell: c}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		sb.WriteString(strings.Repeat(" ", top.indent))
		sb.WriteString("x{")
		sb.WriteString(top.cell.BitsString())
		sb.WriteString("}\n")
		for i := len(top.cell.refs) - 1; i >= 0; i-- {
			stack = append(stack, frame{cell: top.cell.refs[i], indent: top.indent + 1})
		}
	}
	return sb.String()
}
