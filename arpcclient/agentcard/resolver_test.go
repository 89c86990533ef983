package agentcard_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentrpc/agentrpc/arpc"
	"github.com/agentrpc/agentrpc/arpcclient"
	"github.com/agentrpc/agentrpc/arpcclient/agentcard"
	"github.com/agentrpc/agentrpc/arpcsrv"
)

func TestResolveFromWellKnownPath(t *testing.T) {
	registry := arpcsrv.NewRegistry()
	registry.Register(arpcsrv.Capability{Method: "roll", Name: "Dice Roller"}, func(context.Context, json.RawMessage) (any, error) {
		return nil, nil
	})
	server := arpcsrv.NewServer(arpcsrv.AgentInfo{Name: "Dice Agent", Version: "1.2.0"}, registry)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	resolver := agentcard.Resolver{BaseURL: ts.URL}
	card, err := resolver.Resolve(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Dice Agent", card.Name)
	require.Len(t, card.Skills, 1)
	assert.Equal(t, "roll", card.Skills[0].ID)
}

func TestResolveWithPathAndHeader(t *testing.T) {
	var gotPath, gotHeader string
	ts := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		gotHeader = req.Header.Get("Authorization")
		rw.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(rw).Encode(arpc.AgentCard{Name: "Custom Agent", Version: "0.1.0"}))
	}))
	t.Cleanup(ts.Close)

	resolver := agentcard.Resolver{BaseURL: ts.URL}
	card, err := resolver.Resolve(context.Background(),
		agentcard.WithPath("/internal/card.json"),
		agentcard.WithRequestHeader("Authorization", "Bearer token-123"),
	)

	require.NoError(t, err)
	assert.Equal(t, "Custom Agent", card.Name)
	assert.Equal(t, "/internal/card.json", gotPath)
	assert.Equal(t, "Bearer token-123", gotHeader)
}

func TestResolveErrors(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
			http.Error(rw, "nothing here", http.StatusNotFound)
		}))
		t.Cleanup(ts.Close)

		resolver := agentcard.Resolver{BaseURL: ts.URL}
		_, err := resolver.Resolve(context.Background())
		var protocolErr *arpcclient.ProtocolError
		require.ErrorAs(t, err, &protocolErr)
	})

	t.Run("garbage body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(rw, "not a card")
		}))
		t.Cleanup(ts.Close)

		resolver := agentcard.Resolver{BaseURL: ts.URL}
		_, err := resolver.Resolve(context.Background())
		var protocolErr *arpcclient.ProtocolError
		require.ErrorAs(t, err, &protocolErr)
	})

	t.Run("unreachable server", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		ts.Close()

		resolver := agentcard.Resolver{BaseURL: ts.URL}
		_, err := resolver.Resolve(context.Background())
		var transportErr *arpcclient.TransportError
		require.ErrorAs(t, err, &transportErr)
	})
}
