// Copyright 2025 The AgentRPC Authors
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

// Package arpcclient implements the caller side of the agent protocol:
// fetching agent cards, sending messages and issuing generic JSON-RPC calls
// against a remote agent server.
package arpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentrpc/agentrpc/arpc"
	"github.com/agentrpc/agentrpc/internal/jsonrpc"
	"github.com/agentrpc/agentrpc/log"
)

// Client issues JSON-RPC calls to a remote agent server. All blocking calls
// honor the context; the underlying HTTP client additionally applies its own
// timeout (5s by default). The client performs no automatic retries, and a
// cancelled call does not stop server-side execution of in-flight work.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures optional Client behavior.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client. For production deployments,
// provide a client with timeout, retry policy and connection pooling
// configured for your requirements.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient creates a Client for the agent server at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/")}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return c
}

// rpcResponse is the decode-side JSON-RPC response shape. Result stays raw so
// callers can unmarshal into their own types.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonrpc.Error  `json:"error,omitempty"`
}

// GetCard fetches the remote agent's card from /agent-card.
func (c *Client) GetCard(ctx context.Context) (*arpc.AgentCard, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/agent-card", nil)
	if err != nil {
		return nil, &ProtocolError{Reason: "failed to create request", Cause: err}
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, NewTransportError(err)
	}
	defer closeBody(ctx, httpResp)

	if httpResp.StatusCode != http.StatusOK {
		return nil, &ProtocolError{Reason: fmt.Sprintf("unexpected HTTP status %d fetching agent card", httpResp.StatusCode)}
	}

	var card arpc.AgentCard
	if err := json.NewDecoder(httpResp.Body).Decode(&card); err != nil {
		return nil, &ProtocolError{Reason: "failed to decode agent card", Cause: err}
	}
	return &card, nil
}

// SendMessage wraps the message into a message/send call and unwraps the
// result into the reply Message.
func (c *Client) SendMessage(ctx context.Context, message arpc.Message) (arpc.Message, error) {
	result, err := c.CallMethod(ctx, jsonrpc.MethodMessageSend, map[string]any{"message": message})
	if err != nil {
		return arpc.Message{}, err
	}

	var reply arpc.Message
	if err := json.Unmarshal(result, &reply); err != nil {
		return arpc.Message{}, &ProtocolError{Reason: "result is not a valid message", Cause: err}
	}
	return reply, nil
}

// CallMethod issues a generic JSON-RPC call for any method the remote agent
// registers. A JSON-RPC error response surfaces as *RemoteError, network
// failures as *TransportError, and uninterpretable responses as
// *ProtocolError.
func (c *Client) CallMethod(ctx context.Context, method string, params any) (json.RawMessage, error) {
	id := jsonrpc.StringID(uuid.NewString())
	resp, err := c.post(ctx, &jsonrpc.Request{JSONRPC: jsonrpc.Version, Method: method, ID: id, Params: mustParams(params)})
	if err != nil {
		return nil, err
	}

	if resp.Error != nil {
		return nil, &RemoteError{Code: resp.Error.Code, Message: resp.Error.Message, Data: resp.Error.Data}
	}

	wantID, _ := id.MarshalJSON()
	if !bytes.Equal(bytes.TrimSpace(resp.ID), wantID) {
		return nil, &ProtocolError{Reason: fmt.Sprintf("response id %s does not match request id %s", resp.ID, wantID)}
	}
	return resp.Result, nil
}

// Notify issues a JSON-RPC notification: the method executes remotely but no
// response payload is expected or returned.
func (c *Client) Notify(ctx context.Context, method string, params any) error {
	_, err := c.post(ctx, &jsonrpc.Request{JSONRPC: jsonrpc.Version, Method: method, Params: mustParams(params)})
	return err
}

func (c *Client) post(ctx context.Context, req *jsonrpc.Request) (*rpcResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &ProtocolError{Reason: "failed to marshal request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rpc", bytes.NewReader(body))
	if err != nil {
		return nil, &ProtocolError{Reason: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", jsonrpc.ContentTypeJSON)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, NewTransportError(err)
	}
	defer closeBody(ctx, httpResp)

	if httpResp.StatusCode == http.StatusNoContent {
		return &rpcResponse{JSONRPC: jsonrpc.Version}, nil
	}

	var resp rpcResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, &ProtocolError{Reason: fmt.Sprintf("failed to decode response (HTTP %d)", httpResp.StatusCode), Cause: err}
	}

	// Both 200 and 400 carry a JSON-RPC envelope; an error object takes
	// precedence over the HTTP status.
	if resp.Error == nil && httpResp.StatusCode != http.StatusOK {
		return nil, &ProtocolError{Reason: fmt.Sprintf("unexpected HTTP status %d", httpResp.StatusCode)}
	}
	return &resp, nil
}

func mustParams(params any) json.RawMessage {
	if params == nil {
		return nil
	}
	raw, err := json.Marshal(params)
	if err != nil {
		// Unserializable params are a programming error at the call site.
		panic(fmt.Sprintf("arpcclient: params are not serializable: %v", err))
	}
	return raw
}

func closeBody(ctx context.Context, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		log.Error(ctx, "failed to close http response body", err)
	}
}
