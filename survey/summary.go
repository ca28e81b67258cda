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
	"encoding/json"
	"fmt"
	"math"

	"github.com/blinklabs-io/tonsurvey/boc"
	"github.com/blinklabs-io/tonsurvey/cell"
)

const (
	summaryCountBits    = 16
	summaryDurationBits = 32
	// MaxSummaryItems is the largest number of items a summary can hold
	MaxSummaryItems = 1<<summaryCountBits - 1
)

// SummaryItem is one question outcome in a survey summary
type SummaryItem struct {
	SectionID     string  `json:"sectionId"`
	SectionTitle  string  `json:"sectionTitle"`
	QuestionID    string  `json:"questionId"`
	QuestionTitle string  `json:"questionTitle"`
	OK            bool    `json:"ok"`
	Value         string  `json:"value"`
	DurationMs    float64 `json:"durationMs"`
}

// summaryPayload is the JSON document stored in the string tail of each item
type summaryPayload struct {
	SectionID     string `json:"sectionId"`
	SectionTitle  string `json:"sectionTitle"`
	QuestionID    string `json:"questionId"`
	QuestionTitle string `json:"questionTitle"`
	Value         string `json:"value"`
}

// SummaryFromRun flattens a run into summary items. The value is the answer headline for
// successful questions and the error otherwise
func SummaryFromRun(run *RunResult) []SummaryItem {
	if run == nil {
		return nil
	}
	var ret []SummaryItem
	for _, section := range run.Sections {
		for _, question := range section.Questions {
			item := SummaryItem{
				SectionID:     section.ID,
				SectionTitle:  section.Title,
				QuestionID:    question.ID,
				QuestionTitle: question.Title,
				OK:            question.OK,
				Value:         question.Error,
				DurationMs:    question.DurationMs,
			}
			if question.OK && question.Answer != nil {
				item.Value = question.Answer.Headline
			}
			ret = append(ret, item)
		}
	}
	return ret
}

// clampDuration rounds a duration to whole milliseconds, saturating to the range of a uint32
func clampDuration(ms float64) uint64 {
	switch {
	case math.IsNaN(ms) || ms <= 0:
		return 0
	case ms >= math.MaxUint32:
		return math.MaxUint32
	default:
		return uint64(math.Round(ms))
	}
}

func encodeSummaryItem(item SummaryItem) (*cell.Cell, error) {
	payload, err := json.Marshal(summaryPayload{
		SectionID:     item.SectionID,
		SectionTitle:  item.SectionTitle,
		QuestionID:    item.QuestionID,
		QuestionTitle: item.QuestionTitle,
		Value:         item.Value,
	})
	if err != nil {
		return nil, err
	}
	b := cell.BeginCell()
	if err := b.StoreBit(item.OK); err != nil {
		return nil, err
	}
	if err := b.StoreUint(clampDuration(item.DurationMs), summaryDurationBits); err != nil {
		return nil, err
	}
	if err := b.StoreStringRefTail(string(payload)); err != nil {
		return nil, err
	}
	return b.EndCell()
}

// EncodeSummaryCell builds the summary chain. The root holds the item count and a reference
// to the first chain node, each node references its item and the following node
func EncodeSummaryCell(items []SummaryItem) (*cell.Cell, error) {
	if len(items) > MaxSummaryItems {
		return nil, fmt.Errorf("summary holds at most %d items, got %d", MaxSummaryItems, len(items))
	}
	// Nodes are addressed by item index and built from the last one, so every node only
	// needs its successor to be finished
	nodes := make([]*cell.Cell, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		itemCell, err := encodeSummaryItem(items[i])
		if err != nil {
			return nil, fmt.Errorf("summary item %d: %w", i, err)
		}
		b := cell.BeginCell()
		if err := b.StoreRef(itemCell); err != nil {
			return nil, err
		}
		if i+1 < len(nodes) {
			if err := b.StoreRef(nodes[i+1]); err != nil {
				return nil, err
			}
		}
		if nodes[i], err = b.EndCell(); err != nil {
			return nil, err
		}
	}
	root := cell.BeginCell()
	if err := root.StoreUint(uint64(len(items)), summaryCountBits); err != nil {
		return nil, err
	}
	if len(nodes) > 0 {
		if err := root.StoreRef(nodes[0]); err != nil {
			return nil, err
		}
	}
	return root.EndCell()
}

// EncodeSummary builds the summary chain and returns it as a base64 bag of cells
func EncodeSummary(items []SummaryItem) (string, error) {
	root, err := EncodeSummaryCell(items)
	if err != nil {
		return "", err
	}
	return boc.SerializeToBase64([]*cell.Cell{root})
}

// DecodeSummary reads a summary produced by EncodeSummary. A chain that ends early, for example
// because the envelope was cut short, yields the items that could be read
func DecodeSummary(encoded string) ([]SummaryItem, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, boc.FormatError{Reason: "invalid base64", Err: err}
	}
	return DecodeSummaryBytes(data)
}

// DecodeSummaryBytes is DecodeSummary for a raw bag of cells
func DecodeSummaryBytes(data []byte) ([]SummaryItem, error) {
	env, err := boc.Deserialize(data, boc.WithPartial(true))
	if err != nil {
		return nil, err
	}
	return decodeSummaryChain(env.Root(), env.Incomplete), nil
}

// DecodeSummaryCell walks the summary chain starting at root
func DecodeSummaryCell(root *cell.Cell) []SummaryItem {
	return decodeSummaryChain(root, func(*cell.Cell) bool { return false })
}

// decodeSummaryChain stops before the first item whose cells lost references
func decodeSummaryChain(root *cell.Cell, incomplete func(*cell.Cell) bool) []SummaryItem {
	s := root.BeginParse()
	count, err := s.LoadUint(summaryCountBits)
	if err != nil || count == 0 {
		return []SummaryItem{}
	}
	ret := make([]SummaryItem, 0, count)
	node, err := s.LoadRef()
	if err != nil {
		return ret
	}
	for i := uint64(0); i < count; i++ {
		ns := node.BeginParse()
		itemCell, err := ns.LoadRef()
		if err != nil || incomplete(itemCell) {
			break
		}
		item, err := decodeSummaryItem(itemCell)
		if err != nil {
			break
		}
		ret = append(ret, item)
		if i+1 == count {
			break
		}
		if node, err = ns.LoadRef(); err != nil {
			break
		}
	}
	return ret
}

func decodeSummaryItem(c *cell.Cell) (SummaryItem, error) {
	s := c.BeginParse()
	ok, err := s.LoadBit()
	if err != nil {
		return SummaryItem{}, err
	}
	duration, err := s.LoadUint(summaryDurationBits)
	if err != nil {
		return SummaryItem{}, err
	}
	raw, err := s.LoadStringRefTail()
	if err != nil {
		return SummaryItem{}, err
	}
	ret := SummaryItem{
		OK:         ok,
		DurationMs: float64(duration),
	}
	var payload summaryPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		ret.Value = raw
		return ret, nil
	}
	ret.SectionID = payload.SectionID
	ret.SectionTitle = payload.SectionTitle
	ret.QuestionID = payload.QuestionID
	ret.QuestionTitle = payload.QuestionTitle
	ret.Value = payload.Value
	return ret, nil
}
