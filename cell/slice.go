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
	"strconv"
	"strings"
)

// Slice is a single-pass read cursor over a cell's bits and references
type Slice struct {
	cell   *Cell
	bits   bitReader
	refPos int
}

// Cell returns the cell this slice reads from
func (s *Slice) Cell() *Cell {
	return s.cell
}

func (s *Slice) RemainingBits() int {
	return s.bits.remaining()
}

func (s *Slice) RemainingRefs() int {
	return len(s.cell.refs) - s.refPos
}

func (s *Slice) LoadBit() (bool, error) {
	return s.bits.readBit()
}

// LoadUint reads an unsigned integer of the given width (0-64 bits)
func (s *Slice) LoadUint(width int) (uint64, error) {
	return s.bits.readUint(width)
}

// LoadInt reads a two's complement integer of the given width (1-64 bits)
func (s *Slice) LoadInt(width int) (int64, error) {
	if width < 1 {
		return 0, fmt.Errorf("invalid int width %d", width)
	}
	v, err := s.bits.readUint(width)
	if err != nil {
		return 0, err
	}
	if width < 64 && v&(1<<uint(width-1)) != 0 {
		v |= ^uint64(0) << uint(width)
	}
	return int64(v), nil
}

func (s *Slice) LoadBigUint(width int) (*big.Int, error) {
	return s.bits.readBigUint(width)
}

func (s *Slice) LoadCoins() (*big.Int, error) {
	return s.bits.readCoins()
}

// LoadBits returns the next n bits left-aligned in a byte slice
func (s *Slice) LoadBits(n int) ([]byte, error) {
	return s.bits.readBits(n)
}

func (s *Slice) LoadBytes(n int) ([]byte, error) {
	return s.bits.readBytes(n)
}

func (s *Slice) SkipBits(n int) error {
	if err := s.bits.need("skip bits", n); err != nil {
		return err
	}
	s.bits.pos += n
	return nil
}

// LoadRef returns the next child cell
func (s *Slice) LoadRef() (*Cell, error) {
	if s.RemainingRefs() < 1 {
		return nil, BoundsError{
			Op:        "load ref",
			Refs:      true,
			Requested: 1,
			Remaining: s.RemainingRefs(),
		}
	}
	ret := s.cell.refs[s.refPos]
	s.refPos++
	return ret, nil
}

// LoadMaybeRef reads a presence bit and the reference it announces. The returned cell is
// nil when absent
func (s *Slice) LoadMaybeRef() (*Cell, error) {
	present, err := s.LoadBit()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	return s.LoadRef()
}

// LoadAddressAny reads any message address. The result is nil for the absent address
func (s *Slice) LoadAddressAny() (MsgAddress, error) {
	tag, err := s.bits.readUint(2)
	if err != nil {
		return nil, err
	}
	switch tag {
	case addressTagNone:
		return nil, nil
	case addressTagStd:
		anycast, err := s.bits.readBit()
		if err != nil {
			return nil, err
		}
		if anycast {
			return nil, SchemaMismatchError{
				Field:  "address",
				Reason: "anycast addresses are not supported",
			}
		}
		workchain, err := s.LoadInt(8)
		if err != nil {
			return nil, err
		}
		hash, err := s.bits.readBytes(AddressHashSize)
		if err != nil {
			return nil, err
		}
		return NewAddress(int8(workchain), hash)
	case addressTagExternal:
		bitLen, err := s.bits.readUint(addressExternalLenBits)
		if err != nil {
			return nil, err
		}
		data, err := s.bits.readBits(int(bitLen))
		if err != nil {
			return nil, err
		}
		return ExternalAddress{BitLen: int(bitLen), Data: data}, nil
	default:
		return nil, SchemaMismatchError{
			Field:  "address",
			Reason: "variable length addresses are not supported",
		}
	}
}

// LoadStringTail reads the remaining whole bytes of this slice and of every continuation cell
// linked through a single trailing reference
func (s *Slice) LoadStringTail() (string, error) {
	var sb strings.Builder
	cur := s
	for {
		if cur.RemainingBits()%8 != 0 {
			return "", SchemaMismatchError{
				Field:  "string tail",
				Reason: "bit length " + strconv.Itoa(cur.RemainingBits()) + " is not a whole number of bytes",
			}
		}
		chunk, err := cur.LoadBytes(cur.RemainingBits() / 8)
		if err != nil {
			return "", err
		}
		sb.Write(chunk)
		switch cur.RemainingRefs() {
		case 0:
			return sb.String(), nil
		case 1:
			next, err := cur.LoadRef()
			if err != nil {
				return "", err
			}
			cur = next.BeginParse()
		default:
			return "", SchemaMismatchError{
				Field:  "string tail",
				Reason: "continuation cell has more than one reference",
			}
		}
	}
}

// LoadStringRefTail follows the next reference and reads a string tail from it
func (s *Slice) LoadStringRefTail() (string, error) {
	ref, err := s.LoadRef()
	if err != nil {
		return "", err
	}
	return ref.BeginParse().LoadStringTail()
}
