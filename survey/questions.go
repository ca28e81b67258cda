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
	"context"
)

// DefaultTransactionsLimit is the number of transactions fetched when no limit is given
const DefaultTransactionsLimit = 1

// GetterQuestionOptions describes a question answered by a getter
type GetterQuestionOptions struct {
	ID          string
	Title       string
	Description string
	Getter      string
	Stack       Stack
	// Format renders the result. FormatStackResult is used when unset
	Format func(*RunGetMethodResult) *Answer
}

// GetterQuestion returns a question that invokes a getter
func GetterQuestion(opts GetterQuestionOptions) Question {
	return Question{
		ID:          opts.ID,
		Title:       opts.Title,
		Description: opts.Description,
		Executor: func(ctx context.Context, exec ExecutionContext) (*Answer, error) {
			result, err := exec.Client.RunGetMethod(ctx, exec.Address, opts.Getter, opts.Stack)
			if err != nil {
				return nil, err
			}
			if opts.Format != nil {
				return opts.Format(result), nil
			}
			return FormatStackResult(result), nil
		},
	}
}

// TransactionsQuestionOptions describes a question answered by the latest transactions
type TransactionsQuestionOptions struct {
	ID          string
	Title       string
	Description string
	Limit       int
	// Format renders the transactions. FormatTransactionsResult is used when unset
	Format func([]Transaction) *Answer
}

// TransactionsQuestion returns a question that fetches the latest transactions
func TransactionsQuestion(opts TransactionsQuestionOptions) Question {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultTransactionsLimit
	}
	return Question{
		ID:          opts.ID,
		Title:       opts.Title,
		Description: opts.Description,
		Executor: func(ctx context.Context, exec ExecutionContext) (*Answer, error) {
			txs, err := exec.Client.GetTransactions(ctx, exec.Address, limit)
			if err != nil {
				return nil, err
			}
			if opts.Format != nil {
				return opts.Format(txs), nil
			}
			return FormatTransactionsResult(txs), nil
		},
	}
}
