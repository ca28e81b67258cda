package test

import (
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"

	"github.com/blinklabs-io/tonsurvey/cell"
)

// DecodeHexString is a helper function for tests that decodes hex strings. It doesn't return
// an error value, which makes it usable inline.
func DecodeHexString(hexData string) []byte {
	// Strip off any leading/trailing whitespace in hex string
	hexData = strings.TrimSpace(hexData)
	decoded, err := hex.DecodeString(hexData)
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// MustEndCell finalizes a builder and panics on error, which makes it usable inline
func MustEndCell(b *cell.Builder) *cell.Cell {
	c, err := b.EndCell()
	if err != nil {
		panic(fmt.Sprintf("error finalizing cell: %s", err))
	}
	return c
}

// RandomCellTree builds a random cell tree with up to maxDepth levels below the root. Every
// cell gets a random number of data bits and 0-4 children, and leaves are occasionally shared
// between parents so the result is a DAG rather than a strict tree
func RandomCellTree(rng *rand.Rand, maxDepth int) *cell.Cell {
	var shared []*cell.Cell
	var build func(depth int) *cell.Cell
	build = func(depth int) *cell.Cell {
		b := cell.BeginCell()
		bitLen := rng.Intn(cell.MaxBits + 1)
		for range bitLen {
			if err := b.StoreBit(rng.Intn(2) == 1); err != nil {
				panic(err)
			}
		}
		if depth < maxDepth {
			for range rng.Intn(cell.MaxRefs + 1) {
				var child *cell.Cell
				if len(shared) > 0 && rng.Intn(4) == 0 {
					child = shared[rng.Intn(len(shared))]
				} else {
					child = build(depth + 1)
				}
				if err := b.StoreRef(child); err != nil {
					panic(err)
				}
			}
		}
		ret := MustEndCell(b)
		if b.RefsUsed() == 0 {
			shared = append(shared, ret)
		}
		return ret
	}
	return build(0)
}
