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

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustMarshal(t *testing.T, data any) string {
	t.Helper()
	bytes, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Marshal() failed with: %v", err)
	}
	return string(bytes)
}

func mustUnmarshal(t *testing.T, data []byte, out any) {
	t.Helper()
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("Unmarshal() failed with: %v", err)
	}
}

func TestContentPartsJSONCodec(t *testing.T) {
	testCases := []struct {
		json  string
		parts ContentParts
	}{
		{
			parts: ContentParts{TextPart{Text: "hello, world"}},
			json:  `[{"kind":"text","text":"hello, world"}]`,
		},
		{
			parts: ContentParts{TextPart{Text: "42", Metadata: map[string]any{"foo": "bar"}}},
			json:  `[{"kind":"text","text":"42","metadata":{"foo":"bar"}}]`,
		},
		{
			parts: ContentParts{DataPart{Data: map[string]any{"foo": "bar"}}},
			json:  `[{"kind":"data","data":{"foo":"bar"}}]`,
		},
		{
			parts: ContentParts{TextPart{Text: "a"}, DataPart{Data: map[string]any{"n": "1"}}},
			json:  `[{"kind":"text","text":"a"},{"kind":"data","data":{"n":"1"}}]`,
		},
	}

	for _, tc := range testCases {
		if got := mustMarshal(t, tc.parts); got != tc.json {
			t.Fatalf("Marshal() failed:\nwant %v\ngot: %s", tc.json, got)
		}

		var got ContentParts
		mustUnmarshal(t, []byte(tc.json), &got)
		if !reflect.DeepEqual(got, tc.parts) {
			t.Fatalf("Unmarshal() failed for %s:\nwant %v\ngot: %v", tc.json, tc.parts, got)
		}
	}
}

func TestContentPartsMarshalEmpty(t *testing.T) {
	if got := mustMarshal(t, ContentParts(nil)); got != "[]" {
		t.Fatalf("Marshal(nil) = %s, want []", got)
	}
}

func TestContentPartsUnknownKind(t *testing.T) {
	var parts ContentParts
	err := json.Unmarshal([]byte(`[{"kind":"hologram","text":"hi"}]`), &parts)
	if !errors.Is(err, ErrMalformedMessage) {
		t.Fatalf("Unmarshal() = %v, want ErrMalformedMessage", err)
	}
}

func TestMessageJSONRoundTrip(t *testing.T) {
	message := Message{
		ID:   "msg-1",
		Role: RoleUser,
		Parts: ContentParts{
			TextPart{Text: "roll 2 dice"},
			DataPart{Data: map[string]any{"sides": "6"}},
		},
	}

	wire := mustMarshal(t, message)
	want := `{"messageId":"msg-1","role":"user","parts":[{"kind":"text","text":"roll 2 dice"},{"kind":"data","data":{"sides":"6"}}]}`
	if wire != want {
		t.Fatalf("Marshal() failed:\nwant %v\ngot: %s", want, wire)
	}

	var got Message
	mustUnmarshal(t, []byte(wire), &got)
	if diff := cmp.Diff(message, got); diff != "" {
		t.Errorf("Message round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMessageUnmarshalMissingPartsYieldsEmptySequence(t *testing.T) {
	var got Message
	mustUnmarshal(t, []byte(`{"messageId":"m","role":"agent"}`), &got)
	if got.Parts == nil {
		t.Fatal("Parts is nil, want an empty non-nil sequence")
	}
	if len(got.Parts) != 0 {
		t.Fatalf("Parts has %d entries, want 0", len(got.Parts))
	}
}

func TestMessageUnmarshalMalformed(t *testing.T) {
	malformed := []string{
		`{"messageId":"m","role":"system","parts":[]}`,
		`{"messageId":"m","parts":[]}`,
		`{"messageId":"m","role":"user","parts":[{"text":"no kind"}]}`,
		`{"messageId":"m","role":"user","parts":[{"kind":"file","file":{}}]}`,
	}
	for _, v := range malformed {
		var got Message
		if err := json.Unmarshal([]byte(v), &got); !errors.Is(err, ErrMalformedMessage) {
			t.Fatalf("Unmarshal(%s) = %v, want ErrMalformedMessage", v, err)
		}
	}
}

func TestNewMessage(t *testing.T) {
	first := NewMessage(RoleAgent, TextPart{Text: "hi"})
	second := NewMessage(RoleAgent, TextPart{Text: "hi"})

	if first.ID == "" || first.ID == second.ID {
		t.Errorf("NewMessage() ids not unique: %q, %q", first.ID, second.ID)
	}
	if first.Role != RoleAgent {
		t.Errorf("Role = %q, want %q", first.Role, RoleAgent)
	}
}

func TestMessageText(t *testing.T) {
	message := Message{Role: RoleAgent, Parts: ContentParts{
		TextPart{Text: "Hello "},
		DataPart{Data: map[string]any{"ignored": "yes"}},
		TextPart{Text: "world"},
	}}
	if got := message.Text(); got != "Hello world" {
		t.Errorf("Text() = %q, want %q", got, "Hello world")
	}
}

func TestAgentCardParsing(t *testing.T) {
	cardJSON := `
{
  "name": "Dice Agent",
  "description": "Rolls dice and answers questions about the results.",
  "version": "1.2.0",
  "url": "https://dice-agent.example.com/a2a/v1",
  "preferredTransport": "JSONRPC",
  "provider": {
    "organization": "Example Agents Inc.",
    "url": "https://www.exampleagents.com"
  },
  "capabilities": {
    "streaming": true
  },
  "defaultInputModes": ["application/json", "text/plain"],
  "defaultOutputModes": ["application/json"],
  "skills": [
    {
      "id": "roll",
      "name": "Dice Roller",
      "description": "Rolls N dice with a configurable number of sides.",
      "tags": ["dice", "random"],
      "examples": ["roll 2d6", "{\"count\": 3, \"sides\": 20}"],
      "inputModes": ["application/json", "text/plain"],
      "outputModes": ["application/json"]
    }
  ]
}
`
	want := AgentCard{
		Name:               "Dice Agent",
		Description:        "Rolls dice and answers questions about the results.",
		Version:            "1.2.0",
		URL:                "https://dice-agent.example.com/a2a/v1",
		PreferredTransport: TransportProtocolJSONRPC,
		Provider: &AgentProvider{
			Org: "Example Agents Inc.",
			URL: "https://www.exampleagents.com",
		},
		Capabilities:       AgentCapabilities{Streaming: true},
		DefaultInputModes:  []string{"application/json", "text/plain"},
		DefaultOutputModes: []string{"application/json"},
		Skills: []AgentSkill{
			{
				ID:          "roll",
				Name:        "Dice Roller",
				Description: "Rolls N dice with a configurable number of sides.",
				Tags:        []string{"dice", "random"},
				Examples:    []string{"roll 2d6", `{"count": 3, "sides": 20}`},
				InputModes:  []string{"application/json", "text/plain"},
				OutputModes: []string{"application/json"},
			},
		},
	}

	var got AgentCard
	if err := json.Unmarshal([]byte(cardJSON), &got); err != nil {
		t.Fatalf("AgentCard parsing failed: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AgentCard codec diff(-want +got):\n%v", diff)
	}
}

func TestAgentCardValidate(t *testing.T) {
	card := AgentCard{Skills: []AgentSkill{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}}
	if err := card.Validate(); err != nil {
		t.Fatalf("Validate() failed for a valid card: %v", err)
	}

	card.Skills = append(card.Skills, AgentSkill{ID: "a", Name: "A again"})
	if err := card.Validate(); err == nil {
		t.Fatal("Validate() succeeded for duplicate skill ids")
	}

	card.Skills = []AgentSkill{{Name: "anonymous"}}
	if err := card.Validate(); err == nil {
		t.Fatal("Validate() succeeded for an empty skill id")
	}
}
