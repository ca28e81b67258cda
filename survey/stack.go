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
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Stack item kinds as reported by the JSON-RPC API
const (
	KindNum   = "num"
	KindCell  = "cell"
	KindSlice = "slice"
	KindTuple = "tuple"
	KindList  = "list"
)

// StackItem is a single value of a getter result stack. It is one of NumItem, CellItem,
// SliceItem, TupleItem or ListItem
type StackItem interface {
	Kind() string
	isStackItem()
}

// NumItem is an integer, kept in the textual form returned by the node (hex with 0x prefix or
// decimal)
type NumItem struct {
	Value string
}

func (NumItem) Kind() string { return KindNum }
func (NumItem) isStackItem() {}

// BigInt parses the number
func (n NumItem) BigInt() (*big.Int, bool) {
	return parseNumber(n.Value)
}

// CellItem is a cell, carried as a base64 bag of cells
type CellItem struct {
	Bytes string
}

func (CellItem) Kind() string { return KindCell }
func (CellItem) isStackItem() {}

// SliceItem is a slice, carried as a base64 bag of cells holding the remaining data
type SliceItem struct {
	Bytes string
}

func (SliceItem) Kind() string { return KindSlice }
func (SliceItem) isStackItem() {}

// TupleItem is a TVM tuple
type TupleItem struct {
	Elements []StackItem
}

func (TupleItem) Kind() string { return KindTuple }
func (TupleItem) isStackItem() {}

// ListItem is a TVM list
type ListItem struct {
	Elements []StackItem
}

func (ListItem) Kind() string { return KindList }
func (ListItem) isStackItem() {}

// UnknownStackItemError is returned when decoding a stack item of an unsupported kind
type UnknownStackItemError struct {
	Kind string
}

func (e UnknownStackItemError) Error() string {
	return fmt.Sprintf("unknown stack item kind %q", e.Kind)
}

func parseNumber(value string) (*big.Int, bool) {
	digits, negative := strings.CutPrefix(value, "-")
	base := 10
	if hex, ok := strings.CutPrefix(digits, "0x"); ok {
		digits = hex
		base = 16
	}
	if digits == "" {
		return nil, false
	}
	ret, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, false
	}
	if negative {
		ret.Neg(ret)
	}
	return ret, true
}

// Stack is a list of stack items with the JSON form used by the JSON-RPC API, where every item
// is a [kind, value] pair
type Stack []StackItem

func (s Stack) MarshalJSON() ([]byte, error) {
	ret := make([]json.RawMessage, 0, len(s))
	for _, item := range s {
		tmp, err := MarshalStackItem(item)
		if err != nil {
			return nil, err
		}
		ret = append(ret, tmp)
	}
	return json.Marshal(ret)
}

func (s *Stack) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ret := make(Stack, 0, len(raw))
	for idx, tmp := range raw {
		item, err := UnmarshalStackItem(tmp)
		if err != nil {
			return fmt.Errorf("stack item %d: %w", idx, err)
		}
		ret = append(ret, item)
	}
	*s = ret
	return nil
}

type bytesValue struct {
	Bytes string `json:"bytes"`
}

type elementsValue struct {
	Type     string            `json:"@type,omitempty"`
	Elements []json.RawMessage `json:"elements"`
}

// MarshalStackItem encodes a stack item as a [kind, value] pair
func MarshalStackItem(item StackItem) ([]byte, error) {
	var value any
	switch v := item.(type) {
	case NumItem:
		value = v.Value
	case CellItem:
		value = bytesValue{Bytes: v.Bytes}
	case SliceItem:
		value = bytesValue{Bytes: v.Bytes}
	case TupleItem:
		elements, err := marshalElements(v.Elements)
		if err != nil {
			return nil, err
		}
		value = elementsValue{Type: "tvm.tuple", Elements: elements}
	case ListItem:
		elements, err := marshalElements(v.Elements)
		if err != nil {
			return nil, err
		}
		value = elementsValue{Type: "tvm.list", Elements: elements}
	case nil:
		return nil, errors.New("nil stack item")
	default:
		return nil, fmt.Errorf("unsupported stack item type %T", item)
	}
	return json.Marshal([]any{item.Kind(), value})
}

func marshalElements(items []StackItem) ([]json.RawMessage, error) {
	ret := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		tmp, err := MarshalStackItem(item)
		if err != nil {
			return nil, err
		}
		ret = append(ret, tmp)
	}
	return ret, nil
}

// UnmarshalStackItem decodes a stack item. Both the [kind, value] pair and the typed
// tvm.stackEntry* objects found inside tuples are accepted
func UnmarshalStackItem(data []byte) (StackItem, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		return unmarshalStackEntry(data)
	}
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, err
	}
	if len(pair) != 2 {
		return nil, fmt.Errorf("stack item has %d fields, expected 2", len(pair))
	}
	var kind string
	if err := json.Unmarshal(pair[0], &kind); err != nil {
		return nil, fmt.Errorf("stack item kind: %w", err)
	}
	value := pair[1]
	switch kind {
	case KindNum:
		var num string
		if err := json.Unmarshal(value, &num); err != nil {
			return nil, fmt.Errorf("num value: %w", err)
		}
		return NumItem{Value: num}, nil
	case KindCell:
		var tmp bytesValue
		if err := json.Unmarshal(value, &tmp); err != nil {
			return nil, fmt.Errorf("cell value: %w", err)
		}
		return CellItem{Bytes: tmp.Bytes}, nil
	case KindSlice:
		var tmp bytesValue
		if err := json.Unmarshal(value, &tmp); err != nil {
			return nil, fmt.Errorf("slice value: %w", err)
		}
		return SliceItem{Bytes: tmp.Bytes}, nil
	case KindTuple, KindList:
		elements, err := unmarshalElements(value)
		if err != nil {
			return nil, fmt.Errorf("%s value: %w", kind, err)
		}
		if kind == KindTuple {
			return TupleItem{Elements: elements}, nil
		}
		return ListItem{Elements: elements}, nil
	default:
		return nil, UnknownStackItemError{Kind: kind}
	}
}

// unmarshalElements accepts either {"elements": [...]} or a bare array
func unmarshalElements(data []byte) ([]StackItem, error) {
	data = bytes.TrimSpace(data)
	var raw []json.RawMessage
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	} else {
		var tmp elementsValue
		if err := json.Unmarshal(data, &tmp); err != nil {
			return nil, err
		}
		raw = tmp.Elements
	}
	ret := make([]StackItem, 0, len(raw))
	for _, elem := range raw {
		item, err := UnmarshalStackItem(elem)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

type stackEntry struct {
	Type   string `json:"@type"`
	Number *struct {
		Number string `json:"number"`
	} `json:"number"`
	Cell  *bytesValue     `json:"cell"`
	Slice *bytesValue     `json:"slice"`
	Tuple json.RawMessage `json:"tuple"`
	List  json.RawMessage `json:"list"`
}

func unmarshalStackEntry(data []byte) (StackItem, error) {
	var entry stackEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	switch entry.Type {
	case "tvm.stackEntryNumber":
		if entry.Number == nil {
			return nil, errors.New("number entry without value")
		}
		return NumItem{Value: entry.Number.Number}, nil
	case "tvm.stackEntryCell":
		if entry.Cell == nil {
			return nil, errors.New("cell entry without value")
		}
		return CellItem{Bytes: entry.Cell.Bytes}, nil
	case "tvm.stackEntrySlice":
		if entry.Slice == nil {
			return nil, errors.New("slice entry without value")
		}
		return SliceItem{Bytes: entry.Slice.Bytes}, nil
	case "tvm.stackEntryTuple":
		elements, err := unmarshalElements(entry.Tuple)
		if err != nil {
			return nil, err
		}
		return TupleItem{Elements: elements}, nil
	case "tvm.stackEntryList":
		elements, err := unmarshalElements(entry.List)
		if err != nil {
			return nil, err
		}
		return ListItem{Elements: elements}, nil
	default:
		return nil, UnknownStackItemError{Kind: entry.Type}
	}
}
