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
	"github.com/agentrpc/agentrpc/arpc"
)

// WellKnownAgentCardPath is the discovery path at which agents conventionally
// serve their card, next to the explicit /agent-card route.
const WellKnownAgentCardPath = "/.well-known/agent-card.json"

// AgentInfo holds the identity fields of the agent card which do not derive
// from registered capabilities.
type AgentInfo struct {
	// Name is the human-readable agent name.
	Name string

	// Description explains what the agent does.
	Description string

	// Version is the agent's own version number.
	Version string

	// URL is the preferred endpoint for interacting with the agent.
	URL string

	// Provider optionally identifies the operating organization.
	Provider *arpc.AgentProvider

	// DefaultInputModes and DefaultOutputModes are content-mode tags applying
	// to all skills unless a capability overrides them. Default to
	// ["text/plain"] when unset.
	DefaultInputModes  []string
	DefaultOutputModes []string

	// Streaming declares SSE streaming support. This core serves unary
	// JSON-RPC only, so it is normally false.
	Streaming bool
}

// BuildAgentCard derives an agent card from identity info and registered
// capabilities: one skill per capability, in registration order, with the
// method name as the skill id. Deterministic given the same input. Fails when
// the resulting card violates its invariants (duplicate skill ids).
func BuildAgentCard(info AgentInfo, capabilities []Capability) (*arpc.AgentCard, error) {
	inputModes := info.DefaultInputModes
	if inputModes == nil {
		inputModes = []string{"text/plain"}
	}
	outputModes := info.DefaultOutputModes
	if outputModes == nil {
		outputModes = []string{"text/plain"}
	}

	skills := make([]arpc.AgentSkill, 0, len(capabilities))
	for _, capability := range capabilities {
		skills = append(skills, arpc.AgentSkill{
			ID:          capability.Method,
			Name:        capability.Name,
			Description: capability.Description,
			Tags:        capability.Tags,
			Examples:    capability.Examples,
			InputModes:  capability.InputModes,
			OutputModes: capability.OutputModes,
		})
	}

	card := &arpc.AgentCard{
		Name:               info.Name,
		Description:        info.Description,
		Version:            info.Version,
		URL:                info.URL,
		PreferredTransport: arpc.TransportProtocolJSONRPC,
		Provider:           info.Provider,
		Capabilities:       arpc.AgentCapabilities{Streaming: info.Streaming},
		DefaultInputModes:  inputModes,
		DefaultOutputModes: outputModes,
		Skills:             skills,
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}
	return card, nil
}
