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

// Package arpcsrv implements the server side of the agent protocol: a method
// registry with capability metadata, a JSON-RPC dispatcher, and an HTTP
// server exposing the agent card, rpc and health endpoints.
package arpcsrv

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
)

// HandlerFunc executes one registered method. Params are always a valid JSON
// value; absent or mis-shaped request params are normalized to an empty JSON
// object before the handler runs. The returned result must be JSON
// serializable. Returning a *jsonrpc.Error propagates its code and message
// verbatim; any other error is wrapped as an internal error.
type HandlerFunc func(ctx context.Context, params json.RawMessage) (any, error)

// Capability binds discovery metadata to a registered method. It is created
// during server setup and immutable afterward; the agent card derives one
// skill per capability.
type Capability struct {
	// Method is the name used in the JSON-RPC "method" field and doubles as
	// the skill id on the agent card.
	Method string

	// Name is the human-readable skill name. Defaults to Method.
	Name string

	// Description explains the method to clients and users.
	Description string

	// Tags is a set of keywords describing the capability.
	Tags []string

	// Examples are prompts or payloads hinting at how to call the method.
	Examples []string

	// InputModes and OutputModes override the card defaults for this skill.
	InputModes  []string
	OutputModes []string

	// InputSchema and OutputSchema are structural descriptors of the params
	// and result shapes. Documentation only, not enforced at dispatch.
	InputSchema  *jsonschema.Schema
	OutputSchema *jsonschema.Schema
}

type registration struct {
	capability Capability
	handler    HandlerFunc
}

// Registry owns the set of registered methods. Registration happens during
// server initialization, before traffic is accepted; lookups afterwards are
// concurrent and read-only.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	bindings map[string]registration
}

// NewRegistry creates an empty method registry.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[string]registration)}
}

// Register binds a capability's method name to a handler. Registering a name
// twice overwrites the previous binding (last registration wins) while the
// method keeps its original position in the agent card skill order.
// Register panics on an empty method name or a nil handler, mirroring
// net/http mux registration.
func (r *Registry) Register(capability Capability, handler HandlerFunc) {
	if capability.Method == "" {
		panic("arpcsrv: Register with empty method name")
	}
	if handler == nil {
		panic("arpcsrv: Register with nil handler for " + capability.Method)
	}
	if capability.Name == "" {
		capability.Name = capability.Method
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bindings[capability.Method]; !exists {
		r.order = append(r.order, capability.Method)
	}
	r.bindings[capability.Method] = registration{capability: capability, handler: handler}
}

// lookup returns the registration for a method name.
func (r *Registry) lookup(method string) (registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.bindings[method]
	return reg, ok
}

// Capabilities returns all registered capabilities in registration order.
func (r *Registry) Capabilities() []Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	capabilities := make([]Capability, 0, len(r.order))
	for _, method := range r.order {
		capabilities = append(capabilities, r.bindings[method].capability)
	}
	return capabilities
}

// SchemaFor derives a JSON schema descriptor from a Go type, for use as a
// Capability input or output schema.
func SchemaFor[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true, Anonymous: true}
	var v T
	return reflector.Reflect(&v)
}
