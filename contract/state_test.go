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

package contract

import (
	"bytes"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/blinklabs-io/tonsurvey/cell"
	"github.com/blinklabs-io/tonsurvey/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress(t *testing.T, fill byte) cell.Address {
	t.Helper()
	addr, err := cell.NewAddress(0, bytes.Repeat([]byte{fill}, cell.AddressHashSize))
	require.NoError(t, err)
	return addr
}

func testState(t *testing.T) *State {
	return &State{
		NftCollectionAddress: testAddress(t, 0x01),
		NftItemIndex:         42,
		Owner:                testAddress(t, 0x02),
		OriginalOwner:        nil,
		Lender:               testAddress(t, 0x03),
		Nft:                  testAddress(t, 0x04),
		LoanAmount:           big.NewInt(5_000_000_000),
		ReceivedAll:          big.NewInt(1_250_000_000),
		NftReceived:          true,
		Status:               LoanStatusActive,
	}
}

func TestDecodeStateComplete(t *testing.T) {
	expected := testState(t)
	data, err := EncodeState(expected, nil, true)
	require.NoError(t, err)
	res := DecodeState(data)
	require.Equal(t, DecodeComplete, res.Status)
	assert.Empty(t, res.Diagnostics)
	require.NotNil(t, res.State)
	assert.Equal(t, expected.NftCollectionAddress, res.State.NftCollectionAddress)
	assert.Equal(t, uint64(42), res.State.NftItemIndex)
	assert.Equal(t, expected.Owner, res.State.Owner)
	assert.Nil(t, res.State.OriginalOwner)
	assert.Equal(t, expected.Lender, res.State.Lender)
	assert.Equal(t, expected.Nft, res.State.Nft)
	assert.Equal(t, 0, expected.LoanAmount.Cmp(res.State.LoanAmount))
	assert.Equal(t, 0, expected.ReceivedAll.Cmp(res.State.ReceivedAll))
	assert.True(t, res.State.NftReceived)
	assert.Equal(t, LoanStatusActive, res.State.Status)
	assert.Equal(t, "Кредит активен", res.State.Status.String())
}

func TestDecodeStateWithoutLoanGroup(t *testing.T) {
	data, err := EncodeState(testState(t), nil, false)
	require.NoError(t, err)
	res := DecodeState(data)
	require.Equal(t, DecodeComplete, res.Status)
	require.NotNil(t, res.State)
	assert.Nil(t, res.State.Lender)
	assert.Nil(t, res.State.Nft)
	assert.Equal(t, 0, res.State.LoanAmount.Sign())
	assert.Equal(t, 0, res.State.ReceivedAll.Sign())
	assert.False(t, res.State.NftReceived)
	assert.Equal(t, LoanStatusInit, res.State.Status)
	assert.Equal(t, uint64(42), res.State.NftItemIndex)
}

func TestDecodeStateTruncated(t *testing.T) {
	b := cell.BeginCell()
	require.NoError(t, b.StoreAddressMaybe(nil))
	require.NoError(t, b.StoreUint(7, 32))
	res := DecodeState(test.MustEndCell(b))
	assert.Equal(t, DecodeFailed, res.Status)
	assert.Nil(t, res.State)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "nftItemIndex", res.Diagnostics[0].Field)
	assert.ErrorIs(t, res.Diagnostics[0].Err, cell.ErrBounds)
}

func TestDecodeStateMissingCodeRef(t *testing.T) {
	b := cell.BeginCell()
	require.NoError(t, b.StoreAddressMaybe(nil))
	require.NoError(t, b.StoreUint(7, 64))
	res := DecodeState(test.MustEndCell(b))
	assert.Equal(t, DecodeFailed, res.Status)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "nftCode", res.Diagnostics[0].Field)
}

func TestDecodeStateUnsupportedAddress(t *testing.T) {
	// A var address tag in the last address slot of the first group
	b := cell.BeginCell()
	require.NoError(t, b.StoreAddressMaybe(testAddress(t, 0x09)))
	require.NoError(t, b.StoreUint(1, 64))
	require.NoError(t, b.StoreRef(cell.Empty()))
	require.NoError(t, b.StoreAddressMaybe(nil))
	require.NoError(t, b.StoreUint(0b11, 2))
	res := DecodeState(test.MustEndCell(b))
	assert.Equal(t, DecodePartial, res.Status)
	require.NotNil(t, res.State)
	assert.Nil(t, res.State.OriginalOwner)
	assert.Equal(t, testAddress(t, 0x09), res.State.NftCollectionAddress)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "originalOwner", res.Diagnostics[0].Field)
	assert.ErrorIs(t, res.Diagnostics[0].Err, cell.ErrSchemaMismatch)
}

func TestDecodeStateNilCell(t *testing.T) {
	res := DecodeState(nil)
	assert.Equal(t, DecodeFailed, res.Status)
	assert.Len(t, res.Diagnostics, 1)
}

func TestStateJSON(t *testing.T) {
	data, err := EncodeState(testState(t), nil, true)
	require.NoError(t, err)
	res := DecodeState(data)
	out, err := json.Marshal(res.State)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "42", decoded["nftItemIndex"])
	assert.Nil(t, decoded["originalOwner"])
	assert.Equal(t, testAddress(t, 0x02).String(), decoded["owner"])
	assert.Equal(t, float64(LoanStatusActive), decoded["status"])
}

func TestLoanStatusLabels(t *testing.T) {
	label, ok := LoanStatus(5).Label()
	assert.True(t, ok)
	assert.Equal(t, "Ликвидация", label)
	_, ok = LoanStatus(9).Label()
	assert.False(t, ok)
	assert.Equal(t, "LoanStatus(9)", LoanStatus(9).String())
}
