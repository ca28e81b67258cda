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

// Network selects the blockchain network to query
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

// ParseNetwork validates a network name
func ParseNetwork(name string) (Network, error) {
	switch Network(name) {
	case NetworkMainnet, NetworkTestnet:
		return Network(name), nil
	default:
		return "", fmt.Errorf("unknown network %q", name)
	}
}

// Testnet reports whether the network is the test network
func (n Network) Testnet() bool {
	return n == NetworkTestnet
}

// AnswerDetail is a labelled line of an answer
type AnswerDetail struct {
	Label string `json:"label" cbor:"1,keyasint"`
	Value string `json:"value" cbor:"2,keyasint"`
}

// Answer is the rendered result of a question
type Answer struct {
	Headline string         `json:"headline"          cbor:"1,keyasint"`
	Details  []AnswerDetail `json:"details,omitempty" cbor:"2,keyasint,omitempty"`
	// Raw holds the unformatted client response
	Raw      any  `json:"raw,omitempty"      cbor:"-"`
	ExitCode *int `json:"exitCode,omitempty" cbor:"3,keyasint,omitempty"`
}

// ExecutionContext is what a question needs to run
type ExecutionContext struct {
	Address string
	Network Network
	Client  Client
}

// Executor runs a question and produces its answer
type Executor func(ctx context.Context, exec ExecutionContext) (*Answer, error)

// Question is a single query of a survey
type Question struct {
	ID          string
	Title       string
	Description string
	Executor    Executor
}

// Section groups related questions
type Section struct {
	ID          string
	Title       string
	Description string
	Questions   []Question
}

// ContractSurvey is the set of questions asked about one kind of contract
type ContractSurvey struct {
	ID               string
	Title            string
	ShortDescription string
	DefaultNetwork   Network
	DefaultAddress   string
	Tags             []string
	Sections         []Section
}
