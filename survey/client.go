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
	"fmt"
)

// Client performs read-only queries against the blockchain
type Client interface {
	// RunGetMethod invokes a getter of the contract at address
	RunGetMethod(ctx context.Context, address string, method string, stack Stack) (*RunGetMethodResult, error)
	// GetTransactions returns up to limit of the latest transactions of the account, newest first
	GetTransactions(ctx context.Context, address string, limit int) ([]Transaction, error)
}

// RunGetMethodResult is the outcome of a getter invocation
type RunGetMethodResult struct {
	GasUsed  int64 `json:"gas_used"`
	Stack    Stack `json:"stack"`
	ExitCode int   `json:"exit_code"`
}

// AccountAddress identifies the account of a transaction
type AccountAddress struct {
	AccountAddress string `json:"account_address"`
}

// Message is an inbound or outbound message of a transaction
type Message struct {
	Source      string `json:"source,omitempty"`
	Destination string `json:"destination,omitempty"`
	Value       string `json:"value,omitempty"`
	Body        string `json:"body,omitempty"`
	Message     string `json:"message,omitempty"`
	Hash        string `json:"hash,omitempty"`
	FwdFee      string `json:"fwd_fee,omitempty"`
	IhrFee      string `json:"ihr_fee,omitempty"`
	CreatedLt   string `json:"created_lt,omitempty"`
}

// TransactionID is the logical time and hash pair identifying a transaction
type TransactionID struct {
	Lt   string `json:"lt"`
	Hash string `json:"hash"`
}

// Transaction is a transaction as reported by the JSON-RPC API
type Transaction struct {
	Utime         int64          `json:"utime"`
	Data          string         `json:"data"`
	Address       AccountAddress `json:"address"`
	Fee           string         `json:"fee"`
	StorageFee    string         `json:"storage_fee"`
	OtherFee      string         `json:"other_fee"`
	InMsg         *Message       `json:"in_msg,omitempty"`
	OutMsgs       []Message      `json:"out_msgs,omitempty"`
	TransactionID *TransactionID `json:"transaction_id,omitempty"`
}

// RemoteError is a failure reported by, or while reaching, a remote service
type RemoteError struct {
	Op        string
	Message   string
	Transient bool
	Err       error
}

func (e RemoteError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e RemoteError) Unwrap() error {
	return e.Err
}
