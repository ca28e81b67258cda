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

package boc

import (
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"math/bits"

	"github.com/blinklabs-io/tonsurvey/cell"
)

// Envelope is a decoded bag of cells
type Envelope struct {
	// Roots in the order they are listed in the envelope
	Roots []*cell.Cell
	// Cells in canonical order. For partial envelopes only the cells that were complete
	Cells []*cell.Cell
	// Truncated is set when a partial decode skipped cell records
	Truncated bool
	// incomplete holds the cells that lost a reference to a skipped record, directly or
	// through one of their descendants
	incomplete map[*cell.Cell]struct{}
}

// Root returns the first root cell
func (e *Envelope) Root() *cell.Cell {
	return e.Roots[0]
}

// Incomplete reports whether c, or any cell below it, lost references because the envelope
// was truncated. Cells of a complete envelope are never incomplete
func (e *Envelope) Incomplete(c *cell.Cell) bool {
	_, ok := e.incomplete[c]
	return ok
}

type rawCell struct {
	special bool
	data    []byte
	bitLen  int
	refs    []int
}

// reader is a bounds checked cursor over the envelope bytes
type reader struct {
	data []byte
	pos  int
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) take(n int) ([]byte, bool) {
	if n < 0 || n > r.remaining() {
		return nil, false
	}
	ret := r.data[r.pos : r.pos+n]
	r.pos += n
	return ret, true
}

func (r *reader) uint(size int) (uint64, bool) {
	buf, ok := r.take(size)
	if !ok {
		return 0, false
	}
	var ret uint64
	for _, b := range buf {
		ret = ret<<8 | uint64(b)
	}
	return ret, true
}

// Deserialize decodes a bag of cells. Cells are rebuilt from the last record to the first,
// so every reference must point to a record with a greater index. This also rules out cycles
func Deserialize(data []byte, opts ...DeserializeOptionFunc) (*Envelope, error) {
	var cfg deserializeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	r := &reader{data: data}
	magicBytes, ok := r.take(4)
	if !ok {
		return nil, formatErrorf("envelope too short")
	}
	if magic := binary.BigEndian.Uint32(magicBytes); magic != Magic {
		return nil, formatErrorf("unknown magic 0x%08x", magic)
	}
	header, ok := r.take(2)
	if !ok {
		return nil, formatErrorf("envelope too short")
	}
	flags := header[0]
	hasIndex := flags&flagHasIndex != 0
	hasChecksum := flags&flagHasChecksum != 0
	hasCacheBits := flags&flagHasCacheBits != 0
	sizeBytes := int(flags & flagSizeMask)
	offBytes := int(header[1])
	if sizeBytes < 1 || sizeBytes > maxSizeBytes {
		return nil, formatErrorf("invalid reference size %d", sizeBytes)
	}
	if offBytes < 1 || offBytes > maxOffsetBytes {
		return nil, formatErrorf("invalid offset size %d", offBytes)
	}
	if hasCacheBits && !hasIndex {
		return nil, formatErrorf("cache bits without index")
	}
	cellCount, ok1 := r.uint(sizeBytes)
	rootCount, ok2 := r.uint(sizeBytes)
	absentCount, ok3 := r.uint(sizeBytes)
	totSize, ok4 := r.uint(offBytes)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, formatErrorf("envelope too short")
	}
	if cellCount == 0 || rootCount == 0 {
		return nil, formatErrorf("envelope declares %d cells and %d roots", cellCount, rootCount)
	}
	if rootCount > cellCount {
		return nil, formatErrorf("%d roots exceed %d cells", rootCount, cellCount)
	}
	if absentCount != 0 {
		return nil, formatErrorf("absent cells are not supported")
	}
	// Every record needs at least its two descriptor bytes
	if totSize < 2*cellCount {
		return nil, formatErrorf("total size %d too small for %d cells", totSize, cellCount)
	}
	if rootCount*uint64(sizeBytes) > uint64(r.remaining()) {
		return nil, formatErrorf("envelope too short for root list")
	}
	rootIndexes := make([]int, rootCount)
	for i := range rootIndexes {
		idx, ok := r.uint(sizeBytes)
		if !ok {
			return nil, formatErrorf("envelope too short for root list")
		}
		if idx >= cellCount {
			return nil, formatErrorf("root index %d out of range", idx)
		}
		rootIndexes[i] = int(idx)
	}
	if hasIndex {
		if _, ok := r.take(int(cellCount) * offBytes); !ok {
			return nil, formatErrorf("envelope too short for index")
		}
	}
	// Everything after the header is cell data plus the optional checksum
	complete := uint64(r.remaining()) >= totSize
	if complete {
		expected := totSize
		if hasChecksum {
			expected += 4
		}
		if uint64(r.remaining()) != expected {
			if !cfg.partial || uint64(r.remaining()) > expected {
				return nil, formatErrorf(
					"expected %d bytes after header, found %d",
					expected,
					r.remaining(),
				)
			}
			// The checksum itself was cut off
		} else if hasChecksum {
			body := data[:len(data)-4]
			want := binary.LittleEndian.Uint32(data[len(data)-4:])
			if got := crc32.Checksum(body, crcTable); got != want {
				return nil, formatErrorf("checksum mismatch: 0x%08x != 0x%08x", got, want)
			}
		}
	} else if !cfg.partial {
		return nil, formatErrorf("cell data truncated: %d of %d bytes", r.remaining(), totSize)
	}
	n := int(min(totSize, uint64(r.remaining())))
	cellData := &reader{data: r.data[r.pos : r.pos+n]}
	raws := make([]rawCell, 0, min(cellCount, uint64(n/2)))
	for i := 0; i < int(cellCount); i++ {
		raw, ok, err := readRawCell(cellData, i, int(cellCount), sizeBytes)
		if err != nil {
			return nil, err
		}
		if !ok {
			if !cfg.partial {
				return nil, formatErrorf("cell %d truncated", i)
			}
			break
		}
		raws = append(raws, raw)
	}
	if len(raws) == int(cellCount) && cellData.remaining() != 0 {
		return nil, formatErrorf("%d unused bytes after cell data", cellData.remaining())
	}
	// Build from the end so references always resolve to finished cells
	built := make([]*cell.Cell, len(raws))
	var incomplete map[*cell.Cell]struct{}
	for i := len(raws) - 1; i >= 0; i-- {
		raw := raws[i]
		refs := make([]*cell.Cell, 0, len(raw.refs))
		lost := false
		for _, idx := range raw.refs {
			if idx >= len(built) {
				// Only reachable in partial mode
				lost = true
				continue
			}
			if _, ok := incomplete[built[idx]]; ok {
				lost = true
			}
			refs = append(refs, built[idx])
		}
		var err error
		if raw.special {
			built[i], err = cell.NewSpecialCell(raw.data, raw.bitLen, refs)
		} else {
			built[i], err = cell.NewCell(raw.data, raw.bitLen, refs)
		}
		if err != nil {
			return nil, FormatError{Reason: "invalid cell", Err: err}
		}
		if lost {
			if incomplete == nil {
				incomplete = make(map[*cell.Cell]struct{})
			}
			incomplete[built[i]] = struct{}{}
		}
	}
	ret := &Envelope{
		Cells:      built,
		Truncated:  len(built) < int(cellCount),
		incomplete: incomplete,
	}
	for _, idx := range rootIndexes {
		if idx >= len(built) {
			return nil, formatErrorf("root cell %d missing", idx)
		}
		ret.Roots = append(ret.Roots, built[idx])
	}
	return ret, nil
}

// readRawCell parses one cell record. It returns ok=false when the record is incomplete
func readRawCell(r *reader, idx int, cellCount int, sizeBytes int) (rawCell, bool, error) {
	desc, ok := r.take(2)
	if !ok {
		return rawCell{}, false, nil
	}
	d1, d2 := desc[0], desc[1]
	refCount := int(d1 & 0x07)
	if refCount > cell.MaxRefs {
		return rawCell{}, false, formatErrorf("cell %d declares %d references", idx, refCount)
	}
	if d1&0x10 != 0 {
		return rawCell{}, false, formatErrorf("cell %d stores hashes, which is not supported", idx)
	}
	if d1>>5 != 0 {
		return rawCell{}, false, formatErrorf("cell %d has non-zero level", idx)
	}
	dataLen := int(d2+1) / 2
	data, ok := r.take(dataLen)
	if !ok {
		return rawCell{}, false, nil
	}
	bitLen := int(d2/2) * 8
	if d2&1 != 0 {
		last := data[dataLen-1]
		if last == 0 {
			return rawCell{}, false, formatErrorf("cell %d has invalid padding", idx)
		}
		bitLen = (dataLen-1)*8 + 7 - bits.TrailingZeros8(last)
	}
	raw := rawCell{
		special: d1&0x08 != 0,
		data:    data,
		bitLen:  bitLen,
		refs:    make([]int, refCount),
	}
	for i := range raw.refs {
		ref, ok := r.uint(sizeBytes)
		if !ok {
			return rawCell{}, false, nil
		}
		if ref <= uint64(idx) || ref >= uint64(cellCount) {
			return rawCell{}, false, formatErrorf(
				"cell %d references cell %d, references must point forward within %d cells",
				idx,
				ref,
				cellCount,
			)
		}
		raw.refs[i] = int(ref)
	}
	return raw, true, nil
}

// DeserializeRoot decodes a bag of cells and returns its first root
func DeserializeRoot(data []byte, opts ...DeserializeOptionFunc) (*cell.Cell, error) {
	env, err := Deserialize(data, opts...)
	if err != nil {
		return nil, err
	}
	return env.Root(), nil
}

// DeserializeBase64 decodes a standard base64 bag of cells
func DeserializeBase64(encoded string, opts ...DeserializeOptionFunc) (*Envelope, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, FormatError{Reason: "invalid base64", Err: err}
	}
	return Deserialize(data, opts...)
}
