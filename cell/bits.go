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

const (
	// MaxBits is the data capacity of a single cell
	MaxBits = 1023
	// MaxRefs is the maximum number of child references of a single cell
	MaxRefs = 4

	// coinsLengthBits is the width of the byte-length prefix of a coins amount
	coinsLengthBits = 4
	// maxCoinsBytes is the largest byte length expressible by the prefix
	maxCoinsBytes = 1<<coinsLengthBits - 1
)

func getBit(data []byte, idx int) bool {
	return data[idx/8]&(0x80>>(idx%8)) != 0
}

func setBit(data []byte, idx int) {
	data[idx/8] |= 0x80 >> (idx % 8)
}

// bitWriter appends bits MSB-first into a fixed capacity region
type bitWriter struct {
	data     []byte
	bitLen   int
	capacity int
}

func newBitWriter(capacity int) *bitWriter {
	return &bitWriter{
		data:     make([]byte, (capacity+7)/8),
		capacity: capacity,
	}
}

func (w *bitWriter) available() int {
	return w.capacity - w.bitLen
}

func (w *bitWriter) reserve(op string, n int) error {
	if n > w.available() {
		return CapacityError{
			Op:        op,
			Requested: n,
			Available: w.available(),
		}
	}
	return nil
}

func (w *bitWriter) putBit(b bool) {
	if b {
		setBit(w.data, w.bitLen)
	}
	w.bitLen++
}

func (w *bitWriter) writeBit(b bool) error {
	if err := w.reserve("write bit", 1); err != nil {
		return err
	}
	w.putBit(b)
	return nil
}

func (w *bitWriter) writeUint(v uint64, width int) error {
	if width < 0 || width > 64 {
		return fmt.Errorf("invalid uint width %d", width)
	}
	if width < 64 && v>>uint(width) != 0 {
		return fmt.Errorf("%w: %d in %d bits", ErrValueOverflow, v, width)
	}
	if err := w.reserve("write uint", width); err != nil {
		return err
	}
	for i := width - 1; i >= 0; i-- {
		w.putBit(v&(1<<uint(i)) != 0)
	}
	return nil
}

func (w *bitWriter) writeBigUint(v *big.Int, width int) error {
	if width < 0 {
		return fmt.Errorf("invalid uint width %d", width)
	}
	if v.Sign() < 0 {
		return fmt.Errorf("%w: negative value %s", ErrValueOverflow, v)
	}
	if v.BitLen() > width {
		return fmt.Errorf("%w: %s in %d bits", ErrValueOverflow, v, width)
	}
	if err := w.reserve("write big uint", width); err != nil {
		return err
	}
	for i := width - 1; i >= 0; i-- {
		w.putBit(v.Bit(i) != 0)
	}
	return nil
}

// writeBits copies the first n bits of src
func (w *bitWriter) writeBits(src []byte, n int) error {
	if err := w.reserve("write bits", n); err != nil {
		return err
	}
	for i := range n {
		w.putBit(getBit(src, i))
	}
	return nil
}

func (w *bitWriter) writeBytes(b []byte) error {
	return w.writeBits(b, len(b)*8)
}

func (w *bitWriter) writeCoins(v *big.Int) error {
	if v == nil {
		v = new(big.Int)
	}
	if v.Sign() < 0 {
		return fmt.Errorf("%w: negative coins amount %s", ErrValueOverflow, v)
	}
	size := (v.BitLen() + 7) / 8
	if size > maxCoinsBytes {
		return fmt.Errorf("%w: coins amount %s exceeds %d bytes", ErrValueOverflow, v, maxCoinsBytes)
	}
	if err := w.reserve("write coins", coinsLengthBits+size*8); err != nil {
		return err
	}
	if err := w.writeUint(uint64(size), coinsLengthBits); err != nil {
		return err
	}
	return w.writeBigUint(v, size*8)
}

// bytes returns a copy of the written data trimmed to whole bytes
func (w *bitWriter) bytes() []byte {
	ret := make([]byte, (w.bitLen+7)/8)
	copy(ret, w.data)
	return ret
}

// bitReader consumes bits MSB-first from a fixed region
type bitReader struct {
	data   []byte
	bitLen int
	pos    int
}

func (r *bitReader) remaining() int {
	return r.bitLen - r.pos
}

func (r *bitReader) need(op string, n int) error {
	if n < 0 || n > r.remaining() {
		return BoundsError{
			Op:        op,
			Requested: n,
			Remaining: r.remaining(),
		}
	}
	return nil
}

func (r *bitReader) takeBit() bool {
	ret := getBit(r.data, r.pos)
	r.pos++
	return ret
}

func (r *bitReader) readBit() (bool, error) {
	if err := r.need("read bit", 1); err != nil {
		return false, err
	}
	return r.takeBit(), nil
}

func (r *bitReader) readUint(width int) (uint64, error) {
	if width < 0 || width > 64 {
		return 0, fmt.Errorf("invalid uint width %d", width)
	}
	if err := r.need("read uint", width); err != nil {
		return 0, err
	}
	var ret uint64
	for range width {
		ret <<= 1
		if r.takeBit() {
			ret |= 1
		}
	}
	return ret, nil
}

func (r *bitReader) readBigUint(width int) (*big.Int, error) {
	if err := r.need("read big uint", width); err != nil {
		return nil, err
	}
	buf, err := r.readBits(width)
	if err != nil {
		return nil, err
	}
	ret := new(big.Int).SetBytes(buf)
	// readBits left-aligns the value, shift the padding back out
	if pad := len(buf)*8 - width; pad > 0 {
		ret.Rsh(ret, uint(pad))
	}
	return ret, nil
}

// readBits returns the next n bits left-aligned in a fresh byte slice
func (r *bitReader) readBits(n int) ([]byte, error) {
	if err := r.need("read bits", n); err != nil {
		return nil, err
	}
	ret := make([]byte, (n+7)/8)
	for i := range n {
		if r.takeBit() {
			setBit(ret, i)
		}
	}
	return ret, nil
}

func (r *bitReader) readBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid byte count %d", n)
	}
	return r.readBits(n * 8)
}

func (r *bitReader) readCoins() (*big.Int, error) {
	size, err := r.readUint(coinsLengthBits)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return new(big.Int), nil
	}
	return r.readBigUint(int(size) * 8)
}
