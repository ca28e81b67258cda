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

package survey

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/blinklabs-io/tonsurvey/boc"
	"github.com/blinklabs-io/tonsurvey/cell"
	"github.com/blinklabs-io/tonsurvey/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	testDefs := []struct {
		value    string
		expected string
	}{
		{"0x10", "16 (0x10)"},
		{"-0x10", "-16 (-0x10)"},
		{"42", "42"},
		{"", "0"},
		{"0xzz", "0xzz"},
	}
	for _, testDef := range testDefs {
		assert.Equal(t, testDef.expected, FormatNumber(testDef.value), testDef.value)
	}
}

func TestFormatTonValue(t *testing.T) {
	testDefs := []struct {
		nanotons int64
		expected string
	}{
		{0, "0 TON"},
		{1_500_000_000, "1.5 TON"},
		{3_000_000_000, "3 TON"},
		{-1, "-0.000000001 TON"},
		{12_345_678_901, "12.345678901 TON"},
	}
	for _, testDef := range testDefs {
		assert.Equal(t, testDef.expected, FormatTonValue(big.NewInt(testDef.nanotons)))
	}
	assert.Equal(t, EmptyValue, FormatTonValue(nil))
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, EmptyValue, FormatTimestamp(0))
	assert.Equal(t, "2023-11-14 22:13:20 UTC", FormatTimestamp(1_700_000_000))
}

func TestStackItemToString(t *testing.T) {
	testDefs := []struct {
		item     StackItem
		expected string
	}{
		{nil, ""},
		{NumItem{Value: "0x1"}, "1 (0x1)"},
		{CellItem{Bytes: "abc="}, "cell(abc=)"},
		{SliceItem{}, EmptyValue},
		{
			TupleItem{Elements: []StackItem{
				NumItem{Value: "5"},
				ListItem{Elements: []StackItem{CellItem{Bytes: "x"}}},
			}},
			"tuple[5, list[cell(x)]]",
		},
		{ListItem{}, "list[]"},
	}
	for _, testDef := range testDefs {
		assert.Equal(t, testDef.expected, StackItemToString(testDef.item))
	}
}

func TestFormatStackResult(t *testing.T) {
	result := &RunGetMethodResult{
		Stack:    Stack{NumItem{Value: "0x2"}, SliceItem{Bytes: "abc="}},
		ExitCode: 11,
	}
	answer := FormatStackResult(result)
	assert.Equal(t, "2 (0x2)", answer.Headline)
	assert.Equal(
		t,
		[]AnswerDetail{
			{Label: "Stack #0", Value: "2 (0x2)"},
			{Label: "Stack #1", Value: "slice(abc=)"},
		},
		answer.Details,
	)
	require.NotNil(t, answer.ExitCode)
	assert.Equal(t, 11, *answer.ExitCode)
	assert.Same(t, result, answer.Raw)

	empty := FormatStackResult(&RunGetMethodResult{})
	assert.Equal(t, "", empty.Headline)
	assert.Empty(t, empty.Details)
}

func TestFormatTransactionsResult(t *testing.T) {
	answer := FormatTransactionsResult(nil)
	assert.Equal(t, "Нет транзакций", answer.Headline)
	require.Len(t, answer.Details, 1)

	txs := []Transaction{
		{
			Utime: 1_700_000_000,
			InMsg: &Message{
				Source: "EQsender",
				Value:  "1500000000",
			},
			TransactionID: &TransactionID{Lt: "123", Hash: "aGFzaA=="},
		},
		{Utime: 1},
	}
	answer = FormatTransactionsResult(txs)
	assert.Equal(t, "Последняя активность: 2023-11-14 22:13:20 UTC", answer.Headline)
	assert.Equal(
		t,
		[]AnswerDetail{
			{Label: "Отправитель", Value: "EQsender"},
			{Label: "Сумма", Value: "1.5 TON"},
			{Label: "Logical time", Value: "123"},
			{Label: "Hash", Value: "aGFzaA=="},
		},
		answer.Details,
	)

	// Values that are not numbers are shown unchanged
	answer = FormatTransactionsResult([]Transaction{{InMsg: &Message{Value: "n/a"}}})
	assert.Equal(t, "Последняя активность: "+EmptyValue, answer.Headline)
	assert.Equal(t, []AnswerDetail{{Label: "Сумма", Value: "n/a"}}, answer.Details)
}

func sliceItemFor(t *testing.T, build func(b *cell.Builder)) SliceItem {
	t.Helper()
	b := cell.BeginCell()
	build(b)
	encoded, err := boc.SerializeToBase64([]*cell.Cell{test.MustEndCell(b)})
	require.NoError(t, err)
	return SliceItem{Bytes: encoded}
}

func TestStackSliceToAddress(t *testing.T) {
	addr, err := cell.NewAddress(0, bytes.Repeat([]byte{0x5a}, cell.AddressHashSize))
	require.NoError(t, err)
	item := sliceItemFor(t, func(b *cell.Builder) {
		require.NoError(t, b.StoreAddressMaybe(addr))
	})
	ret, ok := StackSliceToAddress(item)
	assert.True(t, ok)
	assert.Equal(t, addr.String(), ret)

	// A variable length address cannot be rendered
	varItem := sliceItemFor(t, func(b *cell.Builder) {
		require.NoError(t, b.StoreUint(0b11, 2))
	})
	ret, ok = StackSliceToAddress(varItem)
	assert.True(t, ok)
	assert.Equal(t, "slice("+varItem.Bytes+")", ret)

	// So cannot an absent one
	noneItem := sliceItemFor(t, func(b *cell.Builder) {
		require.NoError(t, b.StoreAddressMaybe(nil))
	})
	ret, ok = StackSliceToAddress(noneItem)
	assert.True(t, ok)
	assert.Equal(t, "slice("+noneItem.Bytes+")", ret)

	_, ok = StackSliceToAddress(NumItem{Value: "1"})
	assert.False(t, ok)
	_, ok = StackSliceToAddress(nil)
	assert.False(t, ok)
	ret, ok = StackSliceToAddress(SliceItem{Bytes: "!!"})
	assert.True(t, ok)
	assert.Equal(t, "slice(!!)", ret)
}

func TestNumericStackValue(t *testing.T) {
	result := &RunGetMethodResult{Stack: Stack{NumItem{Value: "0x3"}, CellItem{}}}
	num, ok := NumericStackValue(result, 0)
	require.True(t, ok)
	assert.Equal(t, int64(3), num.Int64())
	_, ok = NumericStackValue(result, 1)
	assert.False(t, ok)
	_, ok = NumericStackValue(result, 2)
	assert.False(t, ok)
	_, ok = NumericStackValue(nil, 0)
	assert.False(t, ok)
}
