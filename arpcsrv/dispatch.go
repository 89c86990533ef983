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

package arpcsrv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/agentrpc/agentrpc/arpc"
	"github.com/agentrpc/agentrpc/internal/jsonrpc"
	"github.com/agentrpc/agentrpc/log"
)

var emptyParams = json.RawMessage("{}")

// Dispatcher executes JSON-RPC requests against a Registry. Every dispatch
// path yields a well-formed response (or no response, for notifications);
// handler failures never escape as transport-level faults.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a Dispatcher backed by the provided registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch executes a single request. For notifications (requests without an
// id) the handler side effects run exactly once and nil is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	resp := d.call(ctx, req)
	if req.IsNotification() {
		return nil
	}
	return resp
}

// DispatchBatch executes batch elements concurrently. Output preserves input
// order; entries for notifications are nil. A failure in one element never
// aborts the others.
func (d *Dispatcher) DispatchBatch(ctx context.Context, reqs []*jsonrpc.Request) []*jsonrpc.Response {
	responses := make([]*jsonrpc.Response, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			responses[i] = d.Dispatch(gctx, req)
			return nil
		})
	}
	_ = g.Wait() // dispatch goroutines never return an error

	return responses
}

func (d *Dispatcher) call(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	reg, ok := d.registry.lookup(req.Method)
	if !ok {
		log.Debug(ctx, "method not found", "method", req.Method)
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.NewError(jsonrpc.CodeMethodNotFound, "Method not found"))
	}

	result, err := invoke(ctx, reg.handler, normalizeParams(req.Params))
	if err != nil {
		log.Debug(ctx, "method failed", "method", req.Method, "error", err.Error())
		return jsonrpc.NewErrorResponse(req.ID, toError(err))
	}

	return jsonrpc.NewResponse(req.ID, result)
}

// normalizeParams gives handlers a single canonical parameter shape: a JSON
// object or array. Absent, null or scalar params become an empty object.
func normalizeParams(params json.RawMessage) json.RawMessage {
	for _, c := range params {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		case '{', '[':
			return params
		default:
			return emptyParams
		}
	}
	return emptyParams
}

// invoke runs the handler, converting a panic into an internal error instead
// of letting it tear down the transport.
func invoke(ctx context.Context, handler HandlerFunc, params json.RawMessage) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: handler panicked: %v", arpc.ErrInternalError, r)
		}
	}()
	return handler(ctx, params)
}

// toError maps handler failures to JSON-RPC error objects. Known protocol
// error kinds keep their reserved codes; anything else becomes an internal
// error with the original message attached as data. Stack state is never
// included.
func toError(err error) *jsonrpc.Error {
	var rpcErr *jsonrpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	switch {
	case errors.Is(err, arpc.ErrParseError):
		return jsonrpc.NewError(jsonrpc.CodeParseError, err.Error())
	case errors.Is(err, arpc.ErrInvalidRequest):
		return jsonrpc.NewError(jsonrpc.CodeInvalidRequest, err.Error())
	case errors.Is(err, arpc.ErrMethodNotFound):
		return jsonrpc.NewError(jsonrpc.CodeMethodNotFound, err.Error())
	case errors.Is(err, arpc.ErrInvalidParams), errors.Is(err, arpc.ErrMalformedMessage):
		return jsonrpc.NewError(jsonrpc.CodeInvalidParams, err.Error())
	case errors.Is(err, arpc.ErrInternalError):
		return jsonrpc.NewError(jsonrpc.CodeInternalError, "Internal error").WithData(err.Error())
	default:
		return jsonrpc.NewError(jsonrpc.CodeInternalError, "Internal error").WithData(err.Error())
	}
}
