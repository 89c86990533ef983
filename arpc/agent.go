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

import "fmt"

// TransportProtocol names a supported wire transport.
type TransportProtocol string

const (
	TransportProtocolJSONRPC TransportProtocol = "JSONRPC"
)

// AgentCapabilities declares optional protocol features supported by an agent.
type AgentCapabilities struct {
	// Indicates if the agent supports streaming responses.
	Streaming bool `json:"streaming,omitempty"`

	// Indicates if the agent supports push notifications for asynchronous
	// updates.
	PushNotifications bool `json:"pushNotifications,omitempty"`
}

// The AgentCard is a self-describing manifest for an agent. It provides
// essential metadata including the agent's identity, capabilities, skills and
// supported communication methods. Clients fetch it before interacting with
// the agent.
type AgentCard struct {
	// A human-readable name for the agent.
	Name string `json:"name"`

	// A human-readable description of the agent, assisting users and other
	// agents in understanding its purpose.
	Description string `json:"description"`

	// The agent's own version number. The format is defined by the provider.
	Version string `json:"version"`

	// The preferred endpoint URL for interacting with the agent.
	URL string `json:"url"`

	// The transport protocol for the preferred endpoint. Defaults to
	// 'JSONRPC' when unset.
	PreferredTransport TransportProtocol `json:"preferredTransport,omitempty"`

	// Additional supported transport and URL combinations, enabling
	// transport negotiation and fallback.
	AdditionalInterfaces []AgentInterface `json:"additionalInterfaces,omitempty"`

	// Information about the agent's service provider.
	Provider *AgentProvider `json:"provider,omitempty"`

	// A declaration of optional capabilities supported by the agent.
	Capabilities AgentCapabilities `json:"capabilities"`

	// Default set of supported input MIME types for all skills, which can be
	// overridden on a per-skill basis.
	DefaultInputModes []string `json:"defaultInputModes"`

	// Default set of supported output MIME types for all skills, which can be
	// overridden on a per-skill basis.
	DefaultOutputModes []string `json:"defaultOutputModes"`

	// The set of skills, or distinct capabilities, that the agent can perform.
	Skills []AgentSkill `json:"skills"`
}

// Validate reports whether the card satisfies its structural invariants.
func (c *AgentCard) Validate() error {
	seen := make(map[string]struct{}, len(c.Skills))
	for _, skill := range c.Skills {
		if skill.ID == "" {
			return fmt.Errorf("agent card: skill %q has an empty id", skill.Name)
		}
		if _, ok := seen[skill.ID]; ok {
			return fmt.Errorf("agent card: duplicate skill id %q", skill.ID)
		}
		seen[skill.ID] = struct{}{}
	}
	return nil
}

// AgentInterface declares a combination of a target URL and a transport
// protocol for interacting with the agent.
type AgentInterface struct {
	// The transport protocol supported at this URL.
	Transport TransportProtocol `json:"transport"`

	// The URL where this interface is available.
	URL string `json:"url"`
}

// AgentProvider represents the service provider of an agent.
type AgentProvider struct {
	// The name of the agent provider's organization.
	Org string `json:"organization"`

	// A URL for the agent provider's website or relevant documentation.
	URL string `json:"url"`
}

// AgentSkill represents a distinct capability or function that an agent can
// perform, discoverable through the agent card.
type AgentSkill struct {
	// A unique identifier for the agent's skill.
	ID string `json:"id"`

	// A human-readable name for the skill.
	Name string `json:"name"`

	// A detailed description of the skill, intended to help clients or users
	// understand its purpose and functionality.
	Description string `json:"description"`

	// A set of keywords describing the skill's capabilities.
	Tags []string `json:"tags"`

	// Example prompts or scenarios that this skill can handle. Provides a
	// hint to the client on how to use the skill.
	Examples []string `json:"examples,omitempty"`

	// The set of supported input MIME types for this skill, overriding the
	// agent's defaults.
	InputModes []string `json:"inputModes,omitempty"`

	// The set of supported output MIME types for this skill, overriding the
	// agent's defaults.
	OutputModes []string `json:"outputModes,omitempty"`
}
