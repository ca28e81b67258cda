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
	"math/big"

	"github.com/blinklabs-io/tonsurvey/boc"
	"github.com/blinklabs-io/tonsurvey/cell"
)

// StackItemToBigInt returns the value of a numeric stack item
func StackItemToBigInt(item StackItem) (*big.Int, bool) {
	num, ok := item.(NumItem)
	if !ok {
		return nil, false
	}
	return num.BigInt()
}

// NumericStackValue returns the numeric stack item at index
func NumericStackValue(result *RunGetMethodResult, index int) (*big.Int, bool) {
	if result == nil || index < 0 || index >= len(result.Stack) {
		return nil, false
	}
	return StackItemToBigInt(result.Stack[index])
}

// StackSliceToAddress renders a slice stack item holding an address. Slices that do not
// start with a standard or external address are rendered as their raw envelope
func StackSliceToAddress(item StackItem) (string, bool) {
	slice, ok := item.(SliceItem)
	if !ok || slice.Bytes == "" {
		return "", false
	}
	if addr, err := sliceAddress(slice.Bytes); err == nil && addr != nil {
		return addr.String(), true
	}
	return "slice(" + slice.Bytes + ")", true
}

func sliceAddress(encoded string) (cell.MsgAddress, error) {
	env, err := boc.DeserializeBase64(encoded)
	if err != nil {
		return nil, err
	}
	return env.Root().BeginParse().LoadAddressAny()
}

// stackAt returns the stack item at index or nil
func stackAt(result *RunGetMethodResult, index int) StackItem {
	if result == nil || index < 0 || index >= len(result.Stack) {
		return nil
	}
	return result.Stack[index]
}
