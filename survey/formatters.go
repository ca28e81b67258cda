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
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	tonDecimals = 9
	// EmptyValue is rendered for missing values
	EmptyValue = "—"
	// TimestampLayout is the layout used by FormatTimestamp
	TimestampLayout = "2006-01-02 15:04:05 UTC"
)

var nanotonsPerTon = big.NewInt(1_000_000_000)

// FormatStackResult renders a getter result with the first stack item as the headline
func FormatStackResult(result *RunGetMethodResult) *Answer {
	exitCode := result.ExitCode
	return &Answer{
		Headline: StackItemToString(stackAt(result, 0)),
		Details:  stackDetails(result),
		Raw:      result,
		ExitCode: &exitCode,
	}
}

func stackDetails(result *RunGetMethodResult) []AnswerDetail {
	ret := make([]AnswerDetail, 0, len(result.Stack))
	for idx, item := range result.Stack {
		ret = append(
			ret,
			AnswerDetail{
				Label: fmt.Sprintf("Stack #%d", idx),
				Value: StackItemToString(item),
			},
		)
	}
	return ret
}

// StackItemToString renders a stack item. A nil item renders as an empty string
func StackItemToString(item StackItem) string {
	switch v := item.(type) {
	case nil:
		return ""
	case NumItem:
		return FormatNumber(v.Value)
	case CellItem:
		return bytesToString(KindCell, v.Bytes)
	case SliceItem:
		return bytesToString(KindSlice, v.Bytes)
	case TupleItem:
		return elementsToString(KindTuple, v.Elements)
	case ListItem:
		return elementsToString(KindList, v.Elements)
	default:
		return fmt.Sprintf("%v", item)
	}
}

func bytesToString(kind string, data string) string {
	if data == "" {
		return EmptyValue
	}
	return kind + "(" + data + ")"
}

func elementsToString(kind string, items []StackItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, StackItemToString(item))
	}
	return kind + "[" + strings.Join(parts, ", ") + "]"
}

// FormatNumber renders a hex number as "decimal (hex)". Decimal input is returned unchanged
func FormatNumber(value string) string {
	if value == "" {
		return "0"
	}
	if !strings.HasPrefix(value, "0x") && !strings.HasPrefix(value, "-0x") {
		return value
	}
	num, ok := parseNumber(value)
	if !ok {
		return value
	}
	return fmt.Sprintf("%s (%s)", num.String(), value)
}

// FormatTonValue renders an amount of nanotons in TON, without trailing zeros
func FormatTonValue(value *big.Int) string {
	if value == nil {
		return EmptyValue
	}
	abs := new(big.Int).Abs(value)
	tons, nanos := new(big.Int).QuoRem(abs, nanotonsPerTon, new(big.Int))
	amount := tons.String()
	if nanos.Sign() != 0 {
		fractional := nanos.String()
		fractional = strings.Repeat("0", tonDecimals-len(fractional)) + fractional
		amount += "." + strings.TrimRight(fractional, "0")
	}
	if value.Sign() < 0 {
		amount = "-" + amount
	}
	return amount + " TON"
}

// FormatTimestamp renders a unix time in UTC
func FormatTimestamp(utime int64) string {
	if utime == 0 {
		return EmptyValue
	}
	return time.Unix(utime, 0).UTC().Format(TimestampLayout)
}

// FormatTransactionsResult renders the latest transaction of a list
func FormatTransactionsResult(txs []Transaction) *Answer {
	if len(txs) == 0 {
		return &Answer{
			Headline: "Нет транзакций",
			Details: []AnswerDetail{
				{Label: "Совет", Value: "Контракт ещё ни разу не взаимодействовал с сетью"},
			},
			Raw: txs,
		}
	}
	latest := txs[0]
	var details []AnswerDetail
	if latest.InMsg != nil {
		if latest.InMsg.Source != "" {
			details = append(details, AnswerDetail{Label: "Отправитель", Value: latest.InMsg.Source})
		}
		if latest.InMsg.Value != "" {
			amount := latest.InMsg.Value
			if value, ok := parseNumber(amount); ok {
				amount = FormatTonValue(value)
			}
			details = append(details, AnswerDetail{Label: "Сумма", Value: amount})
		}
	}
	if latest.TransactionID != nil {
		if latest.TransactionID.Lt != "" {
			details = append(details, AnswerDetail{Label: "Logical time", Value: latest.TransactionID.Lt})
		}
		if latest.TransactionID.Hash != "" {
			details = append(details, AnswerDetail{Label: "Hash", Value: latest.TransactionID.Hash})
		}
	}
	return &Answer{
		Headline: "Последняя активность: " + FormatTimestamp(latest.Utime),
		Details:  details,
		Raw:      txs,
	}
}
