package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/agentrpc/agentrpc/arpc"
)

// ID is a JSON-RPC request identifier. Callers may supply either a string or
// a number; the codec preserves the original JSON token so the echoed
// response id round-trips exactly, including its type.
type ID struct {
	raw json.RawMessage
}

// StringID creates an ID from a string value.
func StringID(v string) *ID {
	raw, _ := json.Marshal(v)
	return &ID{raw: raw}
}

// NumberID creates an ID from an integer value.
func NumberID(v int64) *ID {
	return &ID{raw: json.RawMessage(strconv.FormatInt(v, 10))}
}

// MarshalJSON implements json.Marshaler, emitting the original token.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.raw == nil {
		return []byte("null"), nil
	}
	return id.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler. Only string and number ids are
// accepted.
func (id *ID) UnmarshalJSON(data []byte) error {
	token := bytes.TrimSpace(data)
	if len(token) == 0 {
		return fmt.Errorf("%w: empty id", arpc.ErrInvalidRequest)
	}
	switch token[0] {
	case '"':
		var s string
		if err := json.Unmarshal(token, &s); err != nil {
			return fmt.Errorf("%w: malformed id", arpc.ErrInvalidRequest)
		}
	case '{', '[', 't', 'f', 'n':
		return fmt.Errorf("%w: id must be a string or a number", arpc.ErrInvalidRequest)
	default:
		var n json.Number
		if err := json.Unmarshal(token, &n); err != nil {
			return fmt.Errorf("%w: malformed id", arpc.ErrInvalidRequest)
		}
	}
	id.raw = append(json.RawMessage(nil), token...)
	return nil
}

// Equal reports whether two ids carry the same JSON token.
func (id *ID) Equal(other *ID) bool {
	if id == nil || other == nil {
		return id == other
	}
	return bytes.Equal(id.raw, other.raw)
}

// String returns the id token for logging.
func (id *ID) String() string {
	if id == nil {
		return "<none>"
	}
	return string(id.raw)
}

// Request represents a JSON-RPC 2.0 request. A nil ID marks a notification:
// the call is executed but no response is produced.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      *ID             `json:"id,omitempty"`
}

// IsNotification reports whether the request expects no response.
func (r *Request) IsNotification() bool {
	return r.ID == nil
}

// Validate checks the structural JSON-RPC 2.0 request invariants.
func (r *Request) Validate() error {
	if r.JSONRPC != Version {
		return fmt.Errorf("%w: jsonrpc must be %q", arpc.ErrInvalidRequest, Version)
	}
	if r.Method == "" {
		return fmt.Errorf("%w: method must be a non-empty string", arpc.ErrInvalidRequest)
	}
	return nil
}

// Response represents a JSON-RPC 2.0 response. Result and Error are mutually
// exclusive by invariant.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	ID      *ID    `json:"id"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// NewResponse creates a success response echoing the provided id. A nil
// result encodes as an explicit JSON null, keeping the result member present.
func NewResponse(id *ID, result any) *Response {
	if result == nil {
		result = json.RawMessage("null")
	}
	return &Response{JSONRPC: Version, ID: id, Result: result}
}

// NewErrorResponse creates an error response echoing the provided id.
func NewErrorResponse(id *ID, rpcErr *Error) *Response {
	return &Response{JSONRPC: Version, ID: id, Error: rpcErr}
}

// DecodeRequests parses a raw JSON-RPC payload into requests. The second
// return value reports whether the payload was a batch (a top-level array).
// Syntactically invalid payloads fail with an error matching
// arpc.ErrParseError; structurally invalid ones, including an empty batch
// array, fail with an error matching arpc.ErrInvalidRequest.
func DecodeRequests(data []byte) ([]*Request, bool, error) {
	payload := bytes.TrimSpace(data)
	if len(payload) == 0 {
		return nil, false, fmt.Errorf("%w: empty payload", arpc.ErrParseError)
	}

	if payload[0] != '[' {
		req, err := decodeRequest(payload)
		if err != nil {
			return nil, false, err
		}
		return []*Request{req}, false, nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(payload, &elements); err != nil {
		return nil, true, fmt.Errorf("%w: %s", arpc.ErrParseError, sanitizeJSONError(err))
	}
	if len(elements) == 0 {
		return nil, true, fmt.Errorf("%w: batch must not be empty", arpc.ErrInvalidRequest)
	}

	requests := make([]*Request, len(elements))
	for i, element := range elements {
		req, err := decodeRequest(element)
		if err != nil {
			return nil, true, fmt.Errorf("batch[%d]: %w", i, err)
		}
		requests[i] = req
	}
	return requests, true, nil
}

func decodeRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		if _, ok := err.(*json.SyntaxError); ok {
			return nil, fmt.Errorf("%w: %s", arpc.ErrParseError, sanitizeJSONError(err))
		}
		return nil, fmt.Errorf("%w: %s", arpc.ErrInvalidRequest, sanitizeJSONError(err))
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// sanitizeJSONError keeps the decoder detail without leaking payload bytes.
func sanitizeJSONError(err error) string {
	switch e := err.(type) {
	case *json.SyntaxError:
		return fmt.Sprintf("invalid JSON at offset %d", e.Offset)
	case *json.UnmarshalTypeError:
		return fmt.Sprintf("unexpected %s for field %q", e.Value, e.Field)
	default:
		return "malformed request object"
	}
}

// EncodeResponse serializes a single response.
func EncodeResponse(resp *Response) ([]byte, error) {
	return json.Marshal(resp)
}

// EncodeBatch serializes responses as a JSON array, preserving order. Nil
// entries, which correspond to notifications, are dropped.
func EncodeBatch(responses []*Response) ([]byte, error) {
	out := make([]*Response, 0, len(responses))
	for _, resp := range responses {
		if resp != nil {
			out = append(out, resp)
		}
	}
	return json.Marshal(out)
}
