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
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderBitCapacity(t *testing.T) {
	b := BeginCell()
	for range MaxBits {
		require.NoError(t, b.StoreBit(true))
	}
	assert.Equal(t, 0, b.AvailableBits())
	err := b.StoreBit(true)
	assert.ErrorIs(t, err, ErrCapacity)
	c := mustEndCell(t, b)
	assert.Equal(t, MaxBits, c.BitLen())
}

func TestBuilderRefCapacity(t *testing.T) {
	b := BeginCell()
	for range MaxRefs {
		require.NoError(t, b.StoreRef(Empty()))
	}
	err := b.StoreRef(Empty())
	var capErr CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.True(t, capErr.Refs)
	assert.Equal(t, MaxRefs, b.RefsUsed())
}

func TestBuilderEndCellTwice(t *testing.T) {
	b := BeginCell()
	_, err := b.EndCell()
	require.NoError(t, err)
	_, err = b.EndCell()
	assert.ErrorIs(t, err, ErrBuilderFinalized)
	assert.ErrorIs(t, b.StoreBit(true), ErrBuilderFinalized)
}

func TestBuilderSliceFieldsRoundTrip(t *testing.T) {
	amount := big.NewInt(1_500_000_000)
	wide, ok := new(big.Int).SetString("ffffffffffffffffffffffffffffffffff", 16)
	require.True(t, ok)
	b := BeginCell()
	require.NoError(t, b.StoreBit(true))
	require.NoError(t, b.StoreUint(0xbeef, 16))
	require.NoError(t, b.StoreInt(-5, 8))
	require.NoError(t, b.StoreInt(-1, 64))
	require.NoError(t, b.StoreBigUint(wide, 136))
	require.NoError(t, b.StoreCoins(amount))
	require.NoError(t, b.StoreBytes([]byte("hi")))
	require.NoError(t, b.StoreMaybeRef(nil))
	require.NoError(t, b.StoreMaybeRef(leafCell(t, 7, 3)))
	c := mustEndCell(t, b)

	s := c.BeginParse()
	bit, err := s.LoadBit()
	require.NoError(t, err)
	assert.True(t, bit)
	u, err := s.LoadUint(16)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xbeef), u)
	i8, err := s.LoadInt(8)
	require.NoError(t, err)
	assert.Equal(t, int64(-5), i8)
	i64, err := s.LoadInt(64)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), i64)
	gotWide, err := s.LoadBigUint(136)
	require.NoError(t, err)
	assert.Equal(t, 0, wide.Cmp(gotWide))
	gotAmount, err := s.LoadCoins()
	require.NoError(t, err)
	assert.Equal(t, 0, amount.Cmp(gotAmount))
	raw, err := s.LoadBytes(2)
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), raw)
	absent, err := s.LoadMaybeRef()
	require.NoError(t, err)
	assert.Nil(t, absent)
	present, err := s.LoadMaybeRef()
	require.NoError(t, err)
	require.NotNil(t, present)
	assert.Equal(t, 3, present.BitLen())
	assert.Equal(t, 0, s.RemainingBits())
	assert.Equal(t, 0, s.RemainingRefs())
}

func TestStoreIntRange(t *testing.T) {
	b := BeginCell()
	assert.ErrorIs(t, b.StoreInt(128, 8), ErrValueOverflow)
	assert.ErrorIs(t, b.StoreInt(-129, 8), ErrValueOverflow)
	require.NoError(t, b.StoreInt(-128, 8))
	require.NoError(t, b.StoreInt(127, 8))
}

func TestStringTailChaining(t *testing.T) {
	testDefs := []struct {
		name   string
		prefix int
		text   string
	}{
		{"short", 0, "hello"},
		{"exact cell", 0, strings.Repeat("a", 127)},
		{"one overflow", 0, strings.Repeat("b", 128)},
		{"many cells", 0, strings.Repeat("Кредит активен ", 100)},
		{"after prefix", 1000, strings.Repeat("c", 300)},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			b := BeginCell()
			for range testDef.prefix {
				require.NoError(t, b.StoreBit(false))
			}
			require.NoError(t, b.StoreStringTail(testDef.text))
			c := mustEndCell(t, b)
			s := c.BeginParse()
			require.NoError(t, s.SkipBits(testDef.prefix))
			got, err := s.LoadStringTail()
			require.NoError(t, err)
			assert.Equal(t, testDef.text, got)
		})
	}
}

func TestStringTailSplitsAtFreeCapacity(t *testing.T) {
	text := strings.Repeat("x", 200)
	b := BeginCell()
	require.NoError(t, b.StoreUint(0, 16))
	require.NoError(t, b.StoreStringTail(text))
	c := mustEndCell(t, b)
	// 1007 free bits hold 125 whole bytes
	assert.Equal(t, 16+125*8, c.BitLen())
	require.Equal(t, 1, c.RefsCount())
	next, err := c.Ref(0)
	require.NoError(t, err)
	assert.Equal(t, 75*8, next.BitLen())
}

func TestStringTailNeedsRef(t *testing.T) {
	b := BeginCell()
	for range MaxRefs {
		require.NoError(t, b.StoreRef(Empty()))
	}
	require.NoError(t, b.StoreStringTail("fits"))
	err := b.StoreStringTail(strings.Repeat("z", 200))
	assert.ErrorIs(t, err, ErrCapacity)
}

func TestStringRefTail(t *testing.T) {
	text := strings.Repeat("payload ", 80)
	b := BeginCell()
	require.NoError(t, b.StoreStringRefTail(text))
	c := mustEndCell(t, b)
	got, err := c.BeginParse().LoadStringRefTail()
	require.NoError(t, err)
	assert.Equal(t, text, got)
}

func TestStringTailBrokenLayout(t *testing.T) {
	c := leafCell(t, 1, 3)
	_, err := c.BeginParse().LoadStringTail()
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestStoreSlice(t *testing.T) {
	b := BeginCell()
	require.NoError(t, b.StoreUint(0x1ff, 9))
	require.NoError(t, b.StoreRef(leafCell(t, 1, 2)))
	src := mustEndCell(t, b)
	s := src.BeginParse()
	require.NoError(t, s.SkipBits(1))
	dst := BeginCell()
	require.NoError(t, dst.StoreSlice(s))
	c := mustEndCell(t, dst)
	assert.Equal(t, 8, c.BitLen())
	assert.Equal(t, 1, c.RefsCount())
	assert.True(t, bytes.Equal([]byte{0xff}, c.Data()))
}
