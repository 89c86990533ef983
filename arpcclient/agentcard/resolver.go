// Package agentcard fetches agent cards from their well-known discovery
// location.
package agentcard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/agentrpc/agentrpc/arpc"
	"github.com/agentrpc/agentrpc/arpcclient"
)

const defaultAgentCardPath = "/.well-known/agent-card.json"

// Resolver is used to fetch an AgentCard from the provided URL.
type Resolver struct {
	BaseURL string

	// HTTPClient overrides the HTTP client used for fetching. Defaults to a
	// client with a 5-second timeout.
	HTTPClient *http.Client
}

// ResolveOption is used to customize Resolve behavior.
type ResolveOption func(r *resolveRequest)

type resolveRequest struct {
	path    string
	headers map[string]string
}

// Resolve fetches an AgentCard, by default from the /.well-known/agent-card.json
// path relative to BaseURL. Network failures surface as
// *arpcclient.TransportError, unparsable responses as *arpcclient.ProtocolError.
func (r *Resolver) Resolve(ctx context.Context, opts ...ResolveOption) (arpc.AgentCard, error) {
	req := &resolveRequest{path: defaultAgentCardPath, headers: map[string]string{}}
	for _, o := range opts {
		o(req)
	}

	url := strings.TrimRight(r.BaseURL, "/") + req.path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return arpc.AgentCard{}, &arpcclient.ProtocolError{Reason: "failed to create request", Cause: err}
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	client := r.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return arpc.AgentCard{}, arpcclient.NewTransportError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return arpc.AgentCard{}, &arpcclient.ProtocolError{Reason: fmt.Sprintf("unexpected HTTP status %d fetching %s", httpResp.StatusCode, req.path)}
	}

	var card arpc.AgentCard
	if err := json.NewDecoder(httpResp.Body).Decode(&card); err != nil {
		return arpc.AgentCard{}, &arpcclient.ProtocolError{Reason: "failed to decode agent card", Cause: err}
	}
	return card, nil
}

// WithPath makes Resolve fetch from the provided path relative to BaseURL.
func WithPath(path string) ResolveOption {
	return func(r *resolveRequest) {
		r.path = path
	}
}

// WithRequestHeader makes Resolve perform the fetch attaching the provided
// HTTP header.
func WithRequestHeader(k string, v string) ResolveOption {
	return func(r *resolveRequest) {
		r.headers[k] = v
	}
}
