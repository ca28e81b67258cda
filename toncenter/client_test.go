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
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blinklabs-io/tonsurvey/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	APIKey string
	Body   map[string]any
}

type requestLog struct {
	mu       sync.Mutex
	requests []capturedRequest
}

func (l *requestLog) add(req capturedRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, req)
}

func (l *requestLog) all() []capturedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]capturedRequest(nil), l.requests...)
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, req capturedRequest)) (*httptest.Server, *requestLog) {
	t.Helper()
	log := &requestLog{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		data, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		req := capturedRequest{APIKey: r.Header.Get(apiKeyHeader)}
		assert.NoError(t, json.Unmarshal(data, &req.Body))
		log.add(req)
		handler(w, req)
	}))
	t.Cleanup(server.Close)
	return server, log
}

func testClient(endpoint string, opts ...ClientOptionFunc) *Client {
	opts = append(
		[]ClientOptionFunc{
			WithEndpoint(endpoint),
			WithRetry(2, time.Millisecond, 2*time.Millisecond),
		},
		opts...,
	)
	return NewClient(survey.NetworkTestnet, opts...)
}

func TestDefaultEndpoints(t *testing.T) {
	assert.Equal(t, MainnetEndpoint, NewClient(survey.NetworkMainnet).Endpoint())
	assert.Equal(t, TestnetEndpoint, NewClient(survey.NetworkTestnet).Endpoint())
	assert.Equal(t, TestnetEndpoint, NewClient(survey.NetworkTestnet, WithEndpoint("  ")).Endpoint())
	assert.Equal(t, "http://node", NewClient(survey.NetworkMainnet, WithEndpoint(" http://node ")).Endpoint())
}

func TestRunGetMethod(t *testing.T) {
	server, captured := newTestServer(t, func(w http.ResponseWriter, req capturedRequest) {
		_, _ = io.WriteString(w, `{"ok":true,"result":{"@type":"smc.runResult","gas_used":1,"stack":[["num","0x3"]],"exit_code":0},"jsonrpc":"2.0"}`)
	})
	client := testClient(server.URL, WithAPIKey("secret"))
	result, err := client.RunGetMethod(context.Background(), "EQaddr", "get_status", nil)
	require.NoError(t, err)
	assert.Equal(t, survey.Stack{survey.NumItem{Value: "0x3"}}, result.Stack)
	assert.Equal(t, int64(1), result.GasUsed)
	requests := captured.all()
	require.Len(t, requests, 1)
	req := requests[0]
	assert.Equal(t, "secret", req.APIKey)
	assert.Equal(t, "2.0", req.Body["jsonrpc"])
	assert.Equal(t, "runGetMethod", req.Body["method"])
	assert.Contains(t, req.Body["id"], "runGetMethod-")
	assert.Equal(
		t,
		map[string]any{"address": "EQaddr", "method": "get_status", "stack": []any{}},
		req.Body["params"],
	)
}

func TestGetTransactions(t *testing.T) {
	server, captured := newTestServer(t, func(w http.ResponseWriter, req capturedRequest) {
		_, _ = io.WriteString(w, `{"ok":true,"result":[{"@type":"raw.transaction","utime":1700000000,"data":"","address":{"account_address":"EQaddr"},"fee":"1","storage_fee":"0","other_fee":"1","in_msg":{"source":"EQsrc","value":"1500000000"},"out_msgs":[],"transaction_id":{"lt":"42","hash":"aGFzaA=="}}]}`)
	})
	client := testClient(server.URL)
	txs, err := client.GetTransactions(context.Background(), "EQaddr", 0)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(1_700_000_000), txs[0].Utime)
	assert.Equal(t, "EQsrc", txs[0].InMsg.Source)
	assert.Equal(t, "42", txs[0].TransactionID.Lt)
	req := captured.all()[0]
	assert.Empty(t, req.APIKey)
	assert.Equal(
		t,
		map[string]any{"address": "EQaddr", "limit": float64(DefaultTransactionsLimit)},
		req.Body["params"],
	)
}

func TestGetMasterchainInfo(t *testing.T) {
	server, captured := newTestServer(t, func(w http.ResponseWriter, req capturedRequest) {
		_, _ = io.WriteString(w, `{"ok":true,"result":{"last":{"workchain":-1,"shard":"-9223372036854775808","seqno":123,"root_hash":"r","file_hash":"f"},"state_root_hash":"s","init":{"workchain":-1,"seqno":0}}}`)
	})
	info, err := testClient(server.URL).GetMasterchainInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(-1), info.Last.Workchain)
	assert.Equal(t, uint32(123), info.Last.Seqno)
	_, hasParams := captured.all()[0].Body["params"]
	assert.False(t, hasParams)
}

func TestRPCErrors(t *testing.T) {
	testDefs := []struct {
		name      string
		status    int
		body      string
		message   string
		transient bool
	}{
		{
			name:    "not ok",
			status:  http.StatusOK,
			body:    `{"ok":false,"error":"LITE_SERVER_UNKNOWN: cannot run get method","code":500}`,
			message: "runGetMethod: LITE_SERVER_UNKNOWN: cannot run get method",
		},
		{
			name:    "not ok without message",
			status:  http.StatusOK,
			body:    `{"ok":false}`,
			message: "runGetMethod: RPC runGetMethod returned unknown error",
		},
		{
			name:    "missing result",
			status:  http.StatusOK,
			body:    `{"ok":true}`,
			message: "runGetMethod: RPC runGetMethod did not return a result",
		},
		{
			name:    "bad request",
			status:  http.StatusUnprocessableEntity,
			body:    `{"ok":false,"error":"Incorrect address","code":422}`,
			message: "runGetMethod: Incorrect address",
		},
		{
			name:    "plain http error",
			status:  http.StatusForbidden,
			body:    `forbidden`,
			message: "runGetMethod: RPC runGetMethod failed with HTTP 403",
		},
		{
			name:      "server error",
			status:    http.StatusBadGateway,
			body:      ``,
			message:   "runGetMethod: RPC runGetMethod failed with HTTP 502",
			transient: true,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			server, _ := newTestServer(t, func(w http.ResponseWriter, req capturedRequest) {
				w.WriteHeader(testDef.status)
				_, _ = io.WriteString(w, testDef.body)
			})
			_, err := testClient(server.URL).RunGetMethod(context.Background(), "EQaddr", "get_status", nil)
			var remoteErr survey.RemoteError
			require.ErrorAs(t, err, &remoteErr)
			assert.Equal(t, testDef.message, err.Error())
			assert.Equal(t, testDef.transient, remoteErr.Transient)
		})
	}
}

func TestRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	server, _ := newTestServer(t, func(w http.ResponseWriter, req capturedRequest) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"ok":true,"result":[]}`)
	})
	txs, err := testClient(server.URL).GetTransactions(context.Background(), "EQaddr", 1)
	require.NoError(t, err)
	assert.Empty(t, txs)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()
	_, err := testClient(endpoint, WithRetry(0, time.Millisecond, time.Millisecond)).
		RunGetMethod(context.Background(), "EQaddr", "get_status", nil)
	var remoteErr survey.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.True(t, remoteErr.Transient)
}

type trackingBody struct {
	io.Reader
	closed atomic.Bool
}

func (b *trackingBody) Close() error {
	b.closed.Store(true)
	return nil
}

// cancelingTransport cancels the request context while a response is in flight
type cancelingTransport struct {
	cancel context.CancelFunc
	body   *trackingBody
}

func (c *cancelingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.cancel()
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       c.body,
		Request:    req,
	}, nil
}

func TestCanceledCallClosesResponse(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	transport := &cancelingTransport{
		cancel: cancel,
		body:   &trackingBody{Reader: strings.NewReader(`{"ok":true,"result":[]}`)},
	}
	client := testClient(
		"http://toncenter.invalid/api/v2/jsonRPC",
		WithHTTPClient(&http.Client{Transport: transport}),
	)
	_, err := client.GetTransactions(ctx, "EQaddr", 1)
	var remoteErr survey.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, transport.body.closed.Load())
}
