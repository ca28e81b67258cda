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

package toncenter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/blinklabs-io/tonsurvey/survey"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	MainnetEndpoint = "https://toncenter.com/api/v2/jsonRPC"
	TestnetEndpoint = "https://testnet.toncenter.com/api/v2/jsonRPC"

	// DefaultTransactionsLimit is used when GetTransactions is called without a limit
	DefaultTransactionsLimit = 5

	apiKeyHeader        = "X-API-Key"
	defaultRetryMax     = 3
	defaultRetryWaitMin = 500 * time.Millisecond
	defaultRetryWaitMax = 5 * time.Second
	maxResponseSize     = 16 << 20
)

// DefaultEndpoint returns the public JSON-RPC endpoint of the network
func DefaultEndpoint(network survey.Network) string {
	if network == survey.NetworkMainnet {
		return MainnetEndpoint
	}
	return TestnetEndpoint
}

// Client is a toncenter JSON-RPC client
type Client struct {
	endpoint     string
	apiKey       string
	httpClient   *http.Client
	logger       *slog.Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	rpc          *retryablehttp.Client
}

var _ survey.Client = &Client{}

// ClientOptionFunc is a type that represents functions that modify the client config
type ClientOptionFunc func(*Client)

// WithEndpoint overrides the network's default endpoint. Blank values are ignored
func WithEndpoint(endpoint string) ClientOptionFunc {
	return func(c *Client) {
		if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithAPIKey specifies the API key sent with every request. Blank values are ignored
func WithAPIKey(apiKey string) ClientOptionFunc {
	return func(c *Client) {
		if apiKey = strings.TrimSpace(apiKey); apiKey != "" {
			c.apiKey = apiKey
		}
	}
}

// WithHTTPClient specifies the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOptionFunc {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger specifies the logger used for requests and retries
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRetry specifies how many times a failed request is retried and the backoff bounds
func WithRetry(retryMax int, waitMin time.Duration, waitMax time.Duration) ClientOptionFunc {
	return func(c *Client) {
		c.retryMax = retryMax
		c.retryWaitMin = waitMin
		c.retryWaitMax = waitMax
	}
}

// NewClient returns a client for the network
func NewClient(network survey.Network, opts ...ClientOptionFunc) *Client {
	c := &Client{
		endpoint:     DefaultEndpoint(network),
		retryMax:     defaultRetryMax,
		retryWaitMin: defaultRetryWaitMin,
		retryWaitMax: defaultRetryWaitMax,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.rpc = retryablehttp.NewClient()
	c.rpc.Logger = c.logger.With("component", "toncenter")
	c.rpc.RetryMax = c.retryMax
	c.rpc.RetryWaitMin = c.retryWaitMin
	c.rpc.RetryWaitMax = c.retryWaitMax
	// Hand back the last response so that error bodies can be reported
	c.rpc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if c.httpClient != nil {
		c.rpc.HTTPClient = c.httpClient
	}
	return c
}

// Endpoint returns the JSON-RPC endpoint in use
func (c *Client) Endpoint() string {
	return c.endpoint
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
	Code   int             `json:"code"`
}

// call performs a JSON-RPC request and decodes its result into dest
func (c *Client) call(ctx context.Context, method string, params any, dest any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      fmt.Sprintf("%s-%d", method, time.Now().UnixMilli()),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	resp, err := c.rpc.Do(req)
	if err != nil {
		// The error handler may pass the last response along with the error
		if resp != nil {
			resp.Body.Close()
		}
		return survey.RemoteError{Op: method, Transient: true, Err: err}
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return survey.RemoteError{Op: method, Transient: true, Err: err}
	}
	var payload rpcResponse
	decodeErr := json.NewDecoder(bytes.NewReader(respBody)).Decode(&payload)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ret := survey.RemoteError{
			Op:        method,
			Message:   fmt.Sprintf("RPC %s failed with HTTP %d", method, resp.StatusCode),
			Transient: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
		}
		if decodeErr == nil && payload.Error != "" {
			ret.Message = payload.Error
		}
		return ret
	}
	if decodeErr != nil {
		return survey.RemoteError{Op: method, Message: "invalid response", Err: decodeErr}
	}
	if !payload.OK {
		msg := payload.Error
		if msg == "" {
			msg = fmt.Sprintf("RPC %s returned unknown error", method)
		}
		return survey.RemoteError{Op: method, Message: msg}
	}
	if len(payload.Result) == 0 || string(payload.Result) == "null" {
		return survey.RemoteError{Op: method, Message: fmt.Sprintf("RPC %s did not return a result", method)}
	}
	if err := json.Unmarshal(payload.Result, dest); err != nil {
		return survey.RemoteError{Op: method, Message: "invalid result", Err: err}
	}
	c.logger.Debug(
		"completed RPC call",
		"component", "toncenter",
		"method", method,
		"status", resp.StatusCode,
	)
	return nil
}

type runGetMethodParams struct {
	Address string       `json:"address"`
	Method  string       `json:"method"`
	Stack   survey.Stack `json:"stack"`
}

// RunGetMethod invokes a getter of the contract at address
func (c *Client) RunGetMethod(
	ctx context.Context,
	address string,
	method string,
	stack survey.Stack,
) (*survey.RunGetMethodResult, error) {
	if stack == nil {
		stack = survey.Stack{}
	}
	var ret survey.RunGetMethodResult
	if err := c.call(
		ctx,
		"runGetMethod",
		runGetMethodParams{Address: address, Method: method, Stack: stack},
		&ret,
	); err != nil {
		return nil, err
	}
	return &ret, nil
}

type getTransactionsParams struct {
	Address string `json:"address"`
	Limit   int    `json:"limit"`
	Lt      string `json:"lt,omitempty"`
	Hash    string `json:"hash,omitempty"`
}

// GetTransactions returns the latest transactions of the account, newest first
func (c *Client) GetTransactions(ctx context.Context, address string, limit int) ([]survey.Transaction, error) {
	return c.GetTransactionsBefore(ctx, address, limit, "", "")
}

// GetTransactionsBefore returns transactions starting from the one identified by lt and hash.
// Empty lt and hash start from the latest transaction
func (c *Client) GetTransactionsBefore(
	ctx context.Context,
	address string,
	limit int,
	lt string,
	hash string,
) ([]survey.Transaction, error) {
	if limit <= 0 {
		limit = DefaultTransactionsLimit
	}
	var ret []survey.Transaction
	if err := c.call(
		ctx,
		"getTransactions",
		getTransactionsParams{Address: address, Limit: limit, Lt: lt, Hash: hash},
		&ret,
	); err != nil {
		return nil, err
	}
	return ret, nil
}

// BlockID identifies a block
type BlockID struct {
	Workchain int32  `json:"workchain"`
	Shard     string `json:"shard"`
	Seqno     uint32 `json:"seqno"`
	RootHash  string `json:"root_hash"`
	FileHash  string `json:"file_hash"`
}

// MasterchainInfo describes the latest masterchain state
type MasterchainInfo struct {
	Last          BlockID `json:"last"`
	StateRootHash string  `json:"state_root_hash"`
	Init          BlockID `json:"init"`
}

// GetMasterchainInfo returns the latest masterchain block. Useful as a connectivity check
func (c *Client) GetMasterchainInfo(ctx context.Context) (*MasterchainInfo, error) {
	var ret MasterchainInfo
	if err := c.call(ctx, "getMasterchainInfo", nil, &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}
