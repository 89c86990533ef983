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
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agentrpc/agentrpc/internal/jsonrpc"
	"github.com/agentrpc/agentrpc/log"
)

// ErrAlreadyRunning is returned by Start when the server is already running.
var ErrAlreadyRunning = errors.New("arpcsrv: server already running")

// Server exposes a Registry over HTTP:
//
//	GET  /agent-card                    agent card (also at the well-known path)
//	POST /rpc                           JSON-RPC 2.0 endpoint
//	GET  /health                        liveness probe
//
// Non-POST requests to /rpc yield 405, unknown paths 404. The server has two
// lifecycle states, stopped and running: Start binds the listening socket,
// Stop closes it. Registration must complete before Start.
type Server struct {
	info       AgentInfo
	registry   *Registry
	dispatcher *Dispatcher
	logger     *slog.Logger

	mu         sync.Mutex
	listener   net.Listener
	httpServer *http.Server
}

// ServerOption configures optional Server behavior.
type ServerOption func(*Server)

// WithLogger sets the logger attached to every request context. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer composes a Server from agent identity info and a populated
// registry.
func NewServer(info AgentInfo, registry *Registry, opts ...ServerOption) *Server {
	s := &Server{
		info:       info,
		registry:   registry,
		dispatcher: NewDispatcher(registry),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatcher returns the dispatcher executing requests against the server's
// registry, for use outside the HTTP transport (e.g. tests).
func (s *Server) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// Handler returns the HTTP handler serving all server routes. It can be
// mounted into a host router instead of calling Start.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.contextLogger)

	r.Get("/agent-card", s.handleAgentCard)
	r.Get(WellKnownAgentCardPath, s.handleAgentCard)
	r.Post("/rpc", NewJSONRPCHandler(s.dispatcher).ServeHTTP)
	r.Get("/health", s.handleHealth)

	return r
}

// Start binds a listening socket on addr and begins serving in the
// background. It returns once the socket is bound.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return ErrAlreadyRunning
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.httpServer = &http.Server{Handler: s.Handler()}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server stopped", "error", err.Error())
		}
	}()

	s.logger.Info("agent server listening", "addr", listener.Addr().String(), "agent", s.info.Name)
	return nil
}

// Addr returns the bound listener address, or nil when stopped.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listening socket and transitions the server back to the
// stopped state. In-flight requests are given until ctx expires to complete.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.httpServer == nil {
		return nil
	}

	err := s.httpServer.Shutdown(ctx)
	s.httpServer = nil
	s.listener = nil
	return err
}

// contextLogger attaches the server logger to every request context so
// library code can log through the log package.
func (s *Server) contextLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		ctx := log.WithLogger(req.Context(), s.logger)
		next.ServeHTTP(rw, req.WithContext(ctx))
	})
}

func (s *Server) handleAgentCard(rw http.ResponseWriter, req *http.Request) {
	card, err := BuildAgentCard(s.info, s.registry.Capabilities())
	if err != nil {
		log.Error(req.Context(), "agent card generation failed", err)
		writeJSON(req, rw, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(req, rw, http.StatusOK, card)
}

func (s *Server) handleHealth(rw http.ResponseWriter, req *http.Request) {
	writeJSON(req, rw, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(req *http.Request, rw http.ResponseWriter, status int, body any) {
	rw.Header().Set("Content-Type", jsonrpc.ContentTypeJSON)
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(body); err != nil {
		log.Error(req.Context(), "failed to write response body", err)
	}
}
