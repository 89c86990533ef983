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

package arpc

import "errors"

// Protocol error sentinels. Transport layers map these to the reserved
// JSON-RPC 2.0 error codes, application code matches them with errors.Is.
var (
	// ErrParseError indicates a payload which is not syntactically valid JSON (-32700).
	ErrParseError = errors.New("parse error")

	// ErrInvalidRequest indicates a well-formed payload which is not a valid
	// JSON-RPC request object (-32600).
	ErrInvalidRequest = errors.New("invalid request")

	// ErrMethodNotFound indicates a method name with no registered handler (-32601).
	ErrMethodNotFound = errors.New("method not found")

	// ErrInvalidParams indicates params incompatible with the invoked method (-32602).
	ErrInvalidParams = errors.New("invalid params")

	// ErrInternalError indicates an unexpected handler or server failure (-32603).
	ErrInternalError = errors.New("internal error")

	// ErrMalformedMessage indicates a Message wire payload with an unknown role
	// or an unrecognized part kind. Rejected at decode, before any handler runs.
	ErrMalformedMessage = errors.New("malformed message")
)
