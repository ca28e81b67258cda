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
	"encoding/base64"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/blinklabs-io/tonsurvey/boc"
	"github.com/blinklabs-io/tonsurvey/cell"
	"github.com/blinklabs-io/tonsurvey/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryRoundTrip(t *testing.T) {
	items := []SummaryItem{
		{
			SectionID:     "state",
			SectionTitle:  "Состояние займа",
			QuestionID:    "loan-status",
			QuestionTitle: "Текущий статус",
			OK:            true,
			Value:         "Кредит активен",
			DurationMs:    12,
		},
	}
	encoded, err := EncodeSummary(items)
	require.NoError(t, err)
	decoded, err := DecodeSummary(encoded)
	require.NoError(t, err)
	assert.Equal(t, items, decoded)
}

func TestSummaryEmpty(t *testing.T) {
	encoded, err := EncodeSummary(nil)
	require.NoError(t, err)
	decoded, err := DecodeSummary(encoded)
	require.NoError(t, err)
	assert.NotNil(t, decoded)
	assert.Empty(t, decoded)
}

func TestSummaryDurations(t *testing.T) {
	testDefs := []struct {
		in       float64
		expected float64
	}{
		{12.4, 12},
		{12.5, 13},
		{0, 0},
		{-5, 0},
		{math.NaN(), 0},
		{math.Inf(1), math.MaxUint32},
		{1e12, math.MaxUint32},
	}
	items := make([]SummaryItem, 0, len(testDefs))
	for idx, testDef := range testDefs {
		items = append(items, SummaryItem{QuestionID: fmt.Sprintf("q%d", idx), DurationMs: testDef.in})
	}
	encoded, err := EncodeSummary(items)
	require.NoError(t, err)
	decoded, err := DecodeSummary(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(testDefs))
	for idx, testDef := range testDefs {
		assert.Equal(t, testDef.expected, decoded[idx].DurationMs, "item %d", idx)
		assert.Equal(t, fmt.Sprintf("q%d", idx), decoded[idx].QuestionID)
	}
}

func TestSummaryLongValue(t *testing.T) {
	items := []SummaryItem{
		{
			SectionID: "activity",
			Value:     strings.Repeat("Последняя активность ", 40),
		},
		{SectionID: "after"},
	}
	encoded, err := EncodeSummary(items)
	require.NoError(t, err)
	decoded, err := DecodeSummary(encoded)
	require.NoError(t, err)
	assert.Equal(t, items, decoded)
}

func TestSummaryLongChain(t *testing.T) {
	items := make([]SummaryItem, 3000)
	for idx := range items {
		items[idx] = SummaryItem{
			QuestionID: fmt.Sprintf("q%d", idx),
			OK:         idx%2 == 0,
			DurationMs: float64(idx),
		}
	}
	encoded, err := EncodeSummary(items)
	require.NoError(t, err)
	decoded, err := DecodeSummary(encoded)
	require.NoError(t, err)
	assert.Equal(t, items, decoded)
}

func TestSummaryTooManyItems(t *testing.T) {
	_, err := EncodeSummary(make([]SummaryItem, MaxSummaryItems+1))
	assert.Error(t, err)
}

func TestSummaryTruncated(t *testing.T) {
	items := []SummaryItem{
		{SectionID: "state", QuestionID: "a", OK: true, Value: "1", DurationMs: 1},
		{SectionID: "state", QuestionID: "b", OK: false, Value: "2", DurationMs: 2},
		{SectionID: "activity", QuestionID: "c", OK: true, Value: "3", DurationMs: 3},
	}
	encoded, err := EncodeSummary(items)
	require.NoError(t, err)
	data, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	seen := map[int]bool{}
	for cut := len(data) - 1; cut > 0; cut-- {
		decoded, err := DecodeSummaryBytes(data[:cut])
		if err != nil {
			continue
		}
		require.LessOrEqual(t, len(decoded), len(items), "cut %d", cut)
		assert.Equal(t, items[:len(decoded)], decoded, "cut %d", cut)
		seen[len(decoded)] = true
	}
	// Without the checksum every item is still there
	assert.True(t, seen[3])
	assert.True(t, seen[2])
	assert.True(t, seen[1])
}

func TestSummaryTruncatedLongPayload(t *testing.T) {
	items := []SummaryItem{
		{SectionID: "state", QuestionID: "a", OK: true, Value: strings.Repeat("Кредит активен ", 20)},
		{SectionID: "state", QuestionID: "b", Value: "2"},
	}
	encoded, err := EncodeSummary(items)
	require.NoError(t, err)
	data, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	seen := map[int]bool{}
	for cut := len(data) - 1; cut > 0; cut-- {
		decoded, err := DecodeSummaryBytes(data[:cut])
		if err != nil {
			continue
		}
		require.LessOrEqual(t, len(decoded), len(items), "cut %d", cut)
		require.Equal(t, items[:len(decoded)], decoded, "cut %d", cut)
		seen[len(decoded)] = true
	}
	assert.True(t, seen[2])
	assert.True(t, seen[1])
	assert.True(t, seen[0])
}

func TestSummaryCountExceedsChain(t *testing.T) {
	item, err := encodeSummaryItem(SummaryItem{QuestionID: "only"})
	require.NoError(t, err)
	node := cell.BeginCell()
	require.NoError(t, node.StoreRef(item))
	root := cell.BeginCell()
	require.NoError(t, root.StoreUint(5, summaryCountBits))
	require.NoError(t, root.StoreRef(test.MustEndCell(node)))
	decoded := DecodeSummaryCell(test.MustEndCell(root))
	require.Len(t, decoded, 1)
	assert.Equal(t, "only", decoded[0].QuestionID)
}

func TestSummaryPayloadFallback(t *testing.T) {
	item := cell.BeginCell()
	require.NoError(t, item.StoreBit(true))
	require.NoError(t, item.StoreUint(7, summaryDurationBits))
	require.NoError(t, item.StoreStringRefTail("not json"))
	node := cell.BeginCell()
	require.NoError(t, node.StoreRef(test.MustEndCell(item)))
	root := cell.BeginCell()
	require.NoError(t, root.StoreUint(1, summaryCountBits))
	require.NoError(t, root.StoreRef(test.MustEndCell(node)))
	encoded, err := boc.SerializeToBase64([]*cell.Cell{test.MustEndCell(root)})
	require.NoError(t, err)
	decoded, err := DecodeSummary(encoded)
	require.NoError(t, err)
	assert.Equal(t, []SummaryItem{{OK: true, Value: "not json", DurationMs: 7}}, decoded)
}

func TestDecodeSummaryInvalid(t *testing.T) {
	_, err := DecodeSummary("%%%")
	assert.ErrorIs(t, err, boc.ErrFormat)
	_, err = DecodeSummary(base64.StdEncoding.EncodeToString([]byte{1, 2, 3, 4, 5}))
	assert.ErrorIs(t, err, boc.ErrFormat)
}

func TestSummaryFromRun(t *testing.T) {
	run := &RunResult{
		Sections: []SectionResult{
			{
				ID:    "state",
				Title: "Состояние займа",
				Questions: []QuestionResult{
					{ID: "loan-status", Title: "Текущий статус", OK: true, Answer: &Answer{Headline: "Кредит активен"}, DurationMs: 12.3},
					{ID: "loan-received", Title: "Полученная сумма", Error: "exit code 11", DurationMs: 4},
				},
			},
		},
	}
	assert.Equal(
		t,
		[]SummaryItem{
			{SectionID: "state", SectionTitle: "Состояние займа", QuestionID: "loan-status", QuestionTitle: "Текущий статус", OK: true, Value: "Кредит активен", DurationMs: 12.3},
			{SectionID: "state", SectionTitle: "Состояние займа", QuestionID: "loan-received", QuestionTitle: "Полученная сумма", Value: "exit code 11", DurationMs: 4},
		},
		SummaryFromRun(run),
	)
	assert.Nil(t, SummaryFromRun(nil))
}
