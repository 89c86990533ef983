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

package arpcclient

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// TransportKind classifies the failure mode of a TransportError.
type TransportKind string

const (
	// TransportKindTimeout marks a request which exceeded its deadline.
	TransportKindTimeout TransportKind = "timeout"

	// TransportKindNetwork marks connection-level failures: refused
	// connections, DNS errors, resets.
	TransportKindNetwork TransportKind = "network"
)

// TransportError reports that a request never produced a usable HTTP
// response. Transport errors are surfaced to the caller and never silently
// retried.
type TransportError struct {
	Kind  TransportKind
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error (%s): %v", e.Kind, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ProtocolError reports a response which could not be interpreted: an
// unexpected HTTP status, an unparsable body, or a mismatched response id.
type ProtocolError struct {
	Reason string
	Cause  error
}

func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("protocol error: %s", e.Reason)
}

func (e *ProtocolError) Unwrap() error {
	return e.Cause
}

// RemoteError carries a JSON-RPC error object returned by the remote agent.
type RemoteError struct {
	Code    int
	Message string
	Data    any
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error %d: %s", e.Code, e.Message)
}

// NewTransportError classifies an HTTP round-trip failure into a
// TransportError with the appropriate kind.
func NewTransportError(err error) *TransportError {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &TransportError{Kind: TransportKindTimeout, Cause: err}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &TransportError{Kind: TransportKindTimeout, Cause: err}
	default:
		return &TransportError{Kind: TransportKindNetwork, Cause: err}
	}
}
