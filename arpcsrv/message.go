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
	"fmt"

	"github.com/agentrpc/agentrpc/arpc"
)

// MessageFunc handles one inbound agent message and composes the reply.
type MessageFunc func(ctx context.Context, message arpc.Message) (arpc.Message, error)

type messageSendParams struct {
	Message json.RawMessage `json:"message"`
}

// NewMessageHandler adapts a typed message handler to the message/send wire
// contract: params carry {"message": <wire form>}, the result is the reply in
// wire form. Malformed message payloads are rejected before fn runs; a
// missing parts array decodes as an empty sequence.
func NewMessageHandler(fn MessageFunc) HandlerFunc {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		var wire messageSendParams
		if err := json.Unmarshal(params, &wire); err != nil {
			return nil, fmt.Errorf("%w: %v", arpc.ErrInvalidParams, err)
		}
		if len(wire.Message) == 0 {
			return nil, fmt.Errorf("%w: missing message", arpc.ErrInvalidParams)
		}

		var message arpc.Message
		if err := json.Unmarshal(wire.Message, &message); err != nil {
			return nil, err
		}

		reply, err := fn(ctx, message)
		if err != nil {
			return nil, err
		}
		return reply, nil
	}
}
