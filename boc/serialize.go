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
	"errors"
	"hash/crc32"
	"math/bits"

	"github.com/blinklabs-io/tonsurvey/cell"
)

const (
	// Magic is the marker of the generic bag of cells layout
	Magic uint32 = 0xb5ee9c72

	flagHasIndex     = 0x80
	flagHasChecksum  = 0x40
	flagHasCacheBits = 0x20
	flagSizeMask     = 0x07

	maxSizeBytes   = 4
	maxOffsetBytes = 8
)

var crcTable = crc32.MakeTable(crc32.Castagnoli)

// Serialize encodes the cell graph reachable from roots. Cells with equal hashes are stored
// once and every reference points to a cell with a greater index. Roots with equal hashes are
// listed once, in the order of their first appearance
func Serialize(roots []*cell.Cell, opts ...SerializeOptionFunc) ([]byte, error) {
	if len(roots) == 0 {
		return nil, errors.New("no root cells to serialize")
	}
	roots = uniqueRoots(roots)
	cfg := newSerializeConfig(opts)
	cells, indexes := orderCells(roots)
	sizeBytes := bytesFor(uint64(len(cells)))
	// Per cell record sizes
	var totSize uint64
	recordEnds := make([]uint64, len(cells))
	for i, c := range cells {
		totSize += uint64(2 + len(c.PaddedData()) + c.RefsCount()*sizeBytes)
		recordEnds[i] = totSize
	}
	offBytes := bytesFor(totSize)
	flags := byte(sizeBytes)
	if cfg.index {
		flags |= flagHasIndex
	}
	if cfg.checksum {
		flags |= flagHasChecksum
	}
	ret := binary.BigEndian.AppendUint32(nil, Magic)
	ret = append(ret, flags, byte(offBytes))
	ret = appendUint(ret, uint64(len(cells)), sizeBytes)
	ret = appendUint(ret, uint64(len(roots)), sizeBytes)
	// Absent cells are not supported
	ret = appendUint(ret, 0, sizeBytes)
	ret = appendUint(ret, totSize, offBytes)
	for _, root := range roots {
		ret = appendUint(ret, uint64(indexes[root.Hash()]), sizeBytes)
	}
	if cfg.index {
		for _, end := range recordEnds {
			ret = appendUint(ret, end, offBytes)
		}
	}
	for _, c := range cells {
		d := c.Descriptors()
		ret = append(ret, d[:]...)
		ret = append(ret, c.PaddedData()...)
		for _, ref := range c.Refs() {
			ret = appendUint(ret, uint64(indexes[ref.Hash()]), sizeBytes)
		}
	}
	if cfg.checksum {
		ret = binary.LittleEndian.AppendUint32(ret, crc32.Checksum(ret, crcTable))
	}
	return ret, nil
}

func uniqueRoots(roots []*cell.Cell) []*cell.Cell {
	seen := make(map[cell.Hash]bool, len(roots))
	ret := make([]*cell.Cell, 0, len(roots))
	for _, root := range roots {
		if seen[root.Hash()] {
			continue
		}
		seen[root.Hash()] = true
		ret = append(ret, root)
	}
	return ret
}

// SerializeToBase64 is Serialize followed by standard base64 encoding
func SerializeToBase64(roots []*cell.Cell, opts ...SerializeOptionFunc) (string, error) {
	data, err := Serialize(roots, opts...)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// orderCells returns the unique cells of the graph in canonical order together with the
// index of every cell hash. The order is the reverse post-order of a depth first walk that
// visits roots and children right to left, so parents always precede their children and the
// subtree of a first child precedes the subtrees of its later siblings
func orderCells(roots []*cell.Cell) ([]*cell.Cell, map[cell.Hash]int) {
	type frame struct {
		cell     *cell.Cell
		expanded bool
	}
	visited := map[cell.Hash]bool{}
	var postOrder []*cell.Cell
	stack := make([]frame, 0, len(roots))
	for _, root := range roots {
		stack = append(stack, frame{cell: root})
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.expanded {
			postOrder = append(postOrder, top.cell)
			continue
		}
		h := top.cell.Hash()
		if visited[h] {
			continue
		}
		visited[h] = true
		stack = append(stack, frame{cell: top.cell, expanded: true})
		for _, ref := range top.cell.Refs() {
			stack = append(stack, frame{cell: ref})
		}
	}
	cells := make([]*cell.Cell, len(postOrder))
	indexes := make(map[cell.Hash]int, len(postOrder))
	for i, c := range postOrder {
		idx := len(postOrder) - 1 - i
		cells[idx] = c
		indexes[c.Hash()] = idx
	}
	return cells, indexes
}

// bytesFor returns the number of bytes needed to hold v, never less than one
func bytesFor(v uint64) int {
	return max(1, (bits.Len64(v)+7)/8)
}

func appendUint(buf []byte, v uint64, size int) []byte {
	for i := size - 1; i >= 0; i-- {
		buf = append(buf, byte(v>>(8*uint(i))))
	}
	return buf
}
