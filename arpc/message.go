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

// Package arpc defines the data model of the agent protocol: message
// envelopes, content parts and agent cards, together with their JSON wire
// codecs and the protocol error sentinels shared by server and client.
package arpc

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Role identifies the producer of a Message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

const (
	partKindText = "text"
	partKindData = "data"
)

// Part is a single content fragment within a Message. It is a closed tagged
// union: the concrete types are TextPart and DataPart. The wire form carries a
// "kind" discriminator next to the kind-specific payload field.
type Part interface {
	partKind() string
}

// TextPart carries plain text content.
type TextPart struct {
	Text string

	// Metadata holds optional part-scoped annotations.
	Metadata map[string]any
}

func (TextPart) partKind() string { return partKindText }

// DataPart carries structured content.
type DataPart struct {
	Data map[string]any

	// Metadata holds optional part-scoped annotations.
	Metadata map[string]any
}

func (DataPart) partKind() string { return partKindData }

type textPartJSON struct {
	Kind     string         `json:"kind"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type dataPartJSON struct {
	Kind     string         `json:"kind"`
	Data     map[string]any `json:"data"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (p TextPart) MarshalJSON() ([]byte, error) {
	return json.Marshal(textPartJSON{Kind: partKindText, Text: p.Text, Metadata: p.Metadata})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *TextPart) UnmarshalJSON(data []byte) error {
	var wire textPartJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Kind != partKindText {
		return fmt.Errorf("%w: part kind %q, want %q", ErrMalformedMessage, wire.Kind, partKindText)
	}
	p.Text = wire.Text
	p.Metadata = wire.Metadata
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p DataPart) MarshalJSON() ([]byte, error) {
	data := p.Data
	if data == nil {
		data = map[string]any{}
	}
	return json.Marshal(dataPartJSON{Kind: partKindData, Data: data, Metadata: p.Metadata})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *DataPart) UnmarshalJSON(data []byte) error {
	var wire dataPartJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Kind != partKindData {
		return fmt.Errorf("%w: part kind %q, want %q", ErrMalformedMessage, wire.Kind, partKindData)
	}
	p.Data = wire.Data
	p.Metadata = wire.Metadata
	return nil
}

// ContentParts is an ordered sequence of message Parts with a polymorphic
// JSON codec keyed on the "kind" discriminator.
type ContentParts []Part

// MarshalJSON implements json.Marshaler. A nil sequence encodes as an empty
// array, never as null.
func (p ContentParts) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Part(p))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *ContentParts) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parts := make(ContentParts, 0, len(raw))
	for i, entry := range raw {
		part, err := unmarshalPart(entry)
		if err != nil {
			return fmt.Errorf("parts[%d]: %w", i, err)
		}
		parts = append(parts, part)
	}
	*p = parts
	return nil
}

func unmarshalPart(data []byte) (Part, error) {
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	switch probe.Kind {
	case partKindText:
		var part TextPart
		if err := json.Unmarshal(data, &part); err != nil {
			return nil, err
		}
		return part, nil
	case partKindData:
		var part DataPart
		if err := json.Unmarshal(data, &part); err != nil {
			return nil, err
		}
		return part, nil
	default:
		return nil, fmt.Errorf("%w: unrecognized part kind %q", ErrMalformedMessage, probe.Kind)
	}
}

// Message is a unit of agent-to-agent communication. Messages are immutable
// once constructed: producers build a new Message for every change.
type Message struct {
	// ID is an opaque caller-generated identifier, unique per message.
	ID string

	// Role declares the producing side. It is declarative, not authenticated.
	Role Role

	// Parts is the ordered message content. Well-formed messages carry at
	// least one part, but receivers tolerate an empty sequence.
	Parts ContentParts
}

type messageJSON struct {
	ID    string          `json:"messageId"`
	Role  Role            `json:"role"`
	Parts json.RawMessage `json:"parts,omitempty"`
}

// NewMessage creates a Message with a generated identifier.
func NewMessage(role Role, parts ...Part) Message {
	return Message{ID: uuid.NewString(), Role: role, Parts: ContentParts(parts)}
}

// MarshalJSON implements json.Marshaler.
func (m Message) MarshalJSON() ([]byte, error) {
	parts, err := m.Parts.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(messageJSON{ID: m.ID, Role: m.Role, Parts: parts})
}

// UnmarshalJSON implements json.Unmarshaler. It fails with an error matching
// ErrMalformedMessage when the role is unknown or a part kind is not
// recognized. A missing parts array is tolerated and decodes as an empty,
// non-nil sequence.
func (m *Message) UnmarshalJSON(data []byte) error {
	var wire messageJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	if wire.Role != RoleUser && wire.Role != RoleAgent {
		return fmt.Errorf("%w: unknown role %q", ErrMalformedMessage, wire.Role)
	}

	parts := ContentParts{}
	if len(wire.Parts) > 0 {
		if err := parts.UnmarshalJSON(wire.Parts); err != nil {
			return err
		}
	}

	m.ID = wire.ID
	m.Role = wire.Role
	m.Parts = parts
	return nil
}

// Text concatenates the text content of all text parts. Non-text parts are
// skipped.
func (m Message) Text() string {
	var out string
	for _, part := range m.Parts {
		if text, ok := part.(TextPart); ok {
			out += text.Text
		}
	}
	return out
}
