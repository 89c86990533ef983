package arpcsrv

import (
	"io"
	"net/http"

	"github.com/agentrpc/agentrpc/internal/jsonrpc"
	"github.com/agentrpc/agentrpc/log"
)

// JSONRPCHandler serves JSON-RPC 2.0 over HTTP. Parse and invalid-request
// failures map to HTTP 400 with a JSON-RPC error envelope; every other
// outcome is HTTP 200, because JSON-RPC-level errors are payload-level, not
// transport-level. Requests consisting only of notifications produce
// HTTP 204 with no body.
type JSONRPCHandler struct {
	dispatcher *Dispatcher
}

// NewJSONRPCHandler creates an http.Handler executing requests against the
// provided dispatcher.
func NewJSONRPCHandler(dispatcher *Dispatcher) *JSONRPCHandler {
	return &JSONRPCHandler{dispatcher: dispatcher}
}

func (h *JSONRPCHandler) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	defer req.Body.Close()

	body, err := io.ReadAll(req.Body)
	if err != nil {
		writeResponse(req, rw, http.StatusBadRequest, jsonrpc.NewErrorResponse(nil, jsonrpc.NewError(jsonrpc.CodeParseError, "Parse error")))
		return
	}

	requests, batch, err := jsonrpc.DecodeRequests(body)
	if err != nil {
		writeResponse(req, rw, http.StatusBadRequest, jsonrpc.NewErrorResponse(nil, toError(err)))
		return
	}

	ctx := req.Context()
	if !batch {
		resp := h.dispatcher.Dispatch(ctx, requests[0])
		if resp == nil {
			rw.WriteHeader(http.StatusNoContent)
			return
		}
		writeResponse(req, rw, http.StatusOK, resp)
		return
	}

	responses := h.dispatcher.DispatchBatch(ctx, requests)
	payload, err := jsonrpc.EncodeBatch(responses)
	if err != nil {
		writeResponse(req, rw, http.StatusOK, jsonrpc.NewErrorResponse(nil, jsonrpc.NewError(jsonrpc.CodeInternalError, "Internal error")))
		return
	}
	if string(payload) == "[]" {
		// Batch of notifications only: nothing to return.
		rw.WriteHeader(http.StatusNoContent)
		return
	}

	rw.Header().Set("Content-Type", jsonrpc.ContentTypeJSON)
	rw.WriteHeader(http.StatusOK)
	if _, err := rw.Write(payload); err != nil {
		log.Error(req.Context(), "failed to write rpc batch response", err)
	}
}

func writeResponse(req *http.Request, rw http.ResponseWriter, status int, resp *jsonrpc.Response) {
	payload, err := jsonrpc.EncodeResponse(resp)
	if err != nil {
		// Result was not serializable. Degrade to an internal error envelope.
		payload, _ = jsonrpc.EncodeResponse(jsonrpc.NewErrorResponse(resp.ID, jsonrpc.NewError(jsonrpc.CodeInternalError, "Internal error")))
	}

	rw.Header().Set("Content-Type", jsonrpc.ContentTypeJSON)
	rw.WriteHeader(status)
	if _, err := rw.Write(payload); err != nil {
		log.Error(req.Context(), "failed to write rpc response", err)
	}
}
