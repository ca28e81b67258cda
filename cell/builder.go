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
	"fmt"
	"math/big"
)

// stringChunkSize is the payload size of every continuation cell of a string tail
const stringChunkSize = MaxBits / 8

// Builder accumulates bits and references for a single cell
type Builder struct {
	bits *bitWriter
	refs []*Cell
	done bool
}

// BeginCell returns an empty builder
func BeginCell() *Builder {
	return &Builder{
		bits: newBitWriter(MaxBits),
	}
}

func (b *Builder) check() error {
	if b.done {
		return ErrBuilderFinalized
	}
	return nil
}

func (b *Builder) BitsUsed() int {
	return b.bits.bitLen
}

func (b *Builder) RefsUsed() int {
	return len(b.refs)
}

func (b *Builder) AvailableBits() int {
	return b.bits.available()
}

func (b *Builder) AvailableRefs() int {
	return MaxRefs - len(b.refs)
}

func (b *Builder) StoreBit(bit bool) error {
	if err := b.check(); err != nil {
		return err
	}
	return b.bits.writeBit(bit)
}

// StoreUint stores v as an unsigned integer of the given width (0-64 bits)
func (b *Builder) StoreUint(v uint64, width int) error {
	if err := b.check(); err != nil {
		return err
	}
	return b.bits.writeUint(v, width)
}

// StoreInt stores v as a two's complement integer of the given width (1-64 bits)
func (b *Builder) StoreInt(v int64, width int) error {
	if err := b.check(); err != nil {
		return err
	}
	if width < 1 || width > 64 {
		return fmt.Errorf("invalid int width %d", width)
	}
	if width < 64 {
		limit := int64(1) << uint(width-1)
		if v < -limit || v >= limit {
			return fmt.Errorf("%w: %d in %d bits", ErrValueOverflow, v, width)
		}
		return b.bits.writeUint(uint64(v)&(1<<uint(width)-1), width)
	}
	return b.bits.writeUint(uint64(v), width)
}

// StoreBigUint stores v as an unsigned integer of arbitrary width
func (b *Builder) StoreBigUint(v *big.Int, width int) error {
	if err := b.check(); err != nil {
		return err
	}
	return b.bits.writeBigUint(v, width)
}

// StoreCoins stores v as a VarUInteger 16 amount. A nil amount is stored as zero
func (b *Builder) StoreCoins(v *big.Int) error {
	if err := b.check(); err != nil {
		return err
	}
	return b.bits.writeCoins(v)
}

func (b *Builder) StoreBytes(data []byte) error {
	if err := b.check(); err != nil {
		return err
	}
	return b.bits.writeBytes(data)
}

// StoreAddressMaybe stores addr, or the absent address when addr is nil
func (b *Builder) StoreAddressMaybe(addr MsgAddress) error {
	if err := b.check(); err != nil {
		return err
	}
	switch a := addr.(type) {
	case nil:
		return b.bits.writeUint(addressTagNone, 2)
	case Address:
		if err := b.bits.reserve("store address", 2+1+8+AddressHashSize*8); err != nil {
			return err
		}
		// Tag followed by an absent anycast
		if err := b.bits.writeUint(addressTagStd<<1, 3); err != nil {
			return err
		}
		if err := b.bits.writeUint(uint64(uint8(a.Workchain)), 8); err != nil {
			return err
		}
		return b.bits.writeBytes(a.Hash[:])
	case ExternalAddress:
		if a.BitLen < 0 || a.BitLen >= 1<<addressExternalLenBits || len(a.Data)*8 < a.BitLen {
			return fmt.Errorf("invalid external address length %d", a.BitLen)
		}
		if err := b.bits.reserve("store address", 2+addressExternalLenBits+a.BitLen); err != nil {
			return err
		}
		if err := b.bits.writeUint(addressTagExternal, 2); err != nil {
			return err
		}
		if err := b.bits.writeUint(uint64(a.BitLen), addressExternalLenBits); err != nil {
			return err
		}
		return b.bits.writeBits(a.Data, a.BitLen)
	default:
		return fmt.Errorf("unsupported address type %T", addr)
	}
}

// StoreRef appends a child reference
func (b *Builder) StoreRef(c *Cell) error {
	if err := b.check(); err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("cannot store nil reference")
	}
	if len(b.refs) >= MaxRefs {
		return CapacityError{
			Op:        "store ref",
			Refs:      true,
			Requested: 1,
			Available: 0,
		}
	}
	b.refs = append(b.refs, c)
	return nil
}

// StoreMaybeRef stores a presence bit followed by the reference when c is not nil
func (b *Builder) StoreMaybeRef(c *Cell) error {
	if err := b.check(); err != nil {
		return err
	}
	if c == nil {
		return b.bits.writeBit(false)
	}
	if b.AvailableRefs() == 0 {
		return CapacityError{Op: "store maybe ref", Refs: true, Requested: 1}
	}
	if err := b.bits.writeBit(true); err != nil {
		return err
	}
	return b.StoreRef(c)
}

// StoreSlice appends the unread bits and references of s
func (b *Builder) StoreSlice(s *Slice) error {
	if err := b.check(); err != nil {
		return err
	}
	if s.RemainingRefs() > b.AvailableRefs() {
		return CapacityError{
			Op:        "store slice",
			Refs:      true,
			Requested: s.RemainingRefs(),
			Available: b.AvailableRefs(),
		}
	}
	n := s.RemainingBits()
	if err := b.bits.reserve("store slice", n); err != nil {
		return err
	}
	data, err := s.LoadBits(n)
	if err != nil {
		return err
	}
	if err := b.bits.writeBits(data, n); err != nil {
		return err
	}
	for s.RemainingRefs() > 0 {
		ref, err := s.LoadRef()
		if err != nil {
			return err
		}
		if err := b.StoreRef(ref); err != nil {
			return err
		}
	}
	return nil
}

// StoreStringTail stores text in the free whole bytes of this builder and chains anything
// that does not fit into continuation cells, each linked through its last reference
func (b *Builder) StoreStringTail(text string) error {
	if err := b.check(); err != nil {
		return err
	}
	payload := []byte(text)
	free := b.bits.available() / 8
	if len(payload) <= free {
		return b.bits.writeBytes(payload)
	}
	if b.AvailableRefs() == 0 {
		return CapacityError{
			Op:        "store string tail",
			Refs:      true,
			Requested: 1,
			Available: 0,
		}
	}
	head, rest := payload[:free], payload[free:]
	tail, err := buildStringChain(rest)
	if err != nil {
		return err
	}
	if err := b.bits.writeBytes(head); err != nil {
		return err
	}
	return b.StoreRef(tail)
}

// StoreStringRefTail stores text as a string tail in a new cell referenced from this builder
func (b *Builder) StoreStringRefTail(text string) error {
	if err := b.check(); err != nil {
		return err
	}
	if b.AvailableRefs() == 0 {
		return CapacityError{Op: "store string ref tail", Refs: true, Requested: 1}
	}
	tmp := BeginCell()
	if err := tmp.StoreStringTail(text); err != nil {
		return err
	}
	c, err := tmp.EndCell()
	if err != nil {
		return err
	}
	return b.StoreRef(c)
}

// buildStringChain splits data into full continuation cells and links them starting from the
// last chunk
func buildStringChain(data []byte) (*Cell, error) {
	var chunks [][]byte
	for len(data) > 0 {
		n := min(len(data), stringChunkSize)
		chunks = append(chunks, data[:n])
		data = data[n:]
	}
	var next *Cell
	for i := len(chunks) - 1; i >= 0; i-- {
		tmp := BeginCell()
		if err := tmp.StoreBytes(chunks[i]); err != nil {
			return nil, err
		}
		if next != nil {
			if err := tmp.StoreRef(next); err != nil {
				return nil, err
			}
		}
		c, err := tmp.EndCell()
		if err != nil {
			return nil, err
		}
		next = c
	}
	return next, nil
}

// EndCell finalizes the builder. The builder cannot be used afterwards
func (b *Builder) EndCell() (*Cell, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	b.done = true
	return NewCell(b.bits.data, b.bits.bitLen, b.refs)
}
