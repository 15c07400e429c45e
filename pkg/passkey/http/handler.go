// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-passkey.
//
// go-passkey is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jeremyhahn/go-passkey/pkg/metrics"
	"github.com/jeremyhahn/go-passkey/pkg/passkey"
	"github.com/jeremyhahn/go-passkey/pkg/passkey/mockrp"
)

// Handler provides HTTP handlers for the four ceremony endpoints.
// These handlers can be mounted on any HTTP router.
//
// Protocol verdicts are written with status 200 and a success flag in the
// body; only malformed requests and internal faults produce error statuses.
type Handler struct {
	rp     *mockrp.RelyingParty
	logger *slog.Logger
}

// NewHandler creates a new ceremony HTTP handler.
func NewHandler(rp *mockrp.RelyingParty) *Handler {
	return &Handler{
		rp:     rp,
		logger: slog.Default(),
	}
}

// WithLogger sets a custom logger for the handler.
func (h *Handler) WithLogger(logger *slog.Logger) *Handler {
	h.logger = logger
	return h
}

// RegisterStart handles POST /register/start
//
// Request body:
//
//	{
//	    "username": "alice",
//	    "displayName": "Alice Example" // optional
//	}
//
// Response: PublicKeyCredentialCreationOptions
func (h *Handler) RegisterStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, ErrorCodeInvalidRequest, "method not allowed")
		return
	}

	var req passkey.RegisterStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid request body")
		return
	}

	start := time.Now()
	options, err := h.rp.RegisterStart(r.Context(), &req)
	if err != nil {
		metrics.RecordCeremony(metrics.OpRegisterStart, metrics.StatusError, time.Since(start).Seconds())
		h.handleServiceError(w, metrics.OpRegisterStart, err)
		return
	}

	metrics.RecordCeremony(metrics.OpRegisterStart, metrics.StatusSuccess, time.Since(start).Seconds())
	h.writeJSON(w, http.StatusOK, options)
}

// RegisterFinish handles POST /register/finish
//
// Request body: attestation response from the authenticator
// Response: RegisterResult with success flag and credential id
func (h *Handler) RegisterFinish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, ErrorCodeInvalidRequest, "method not allowed")
		return
	}

	var req passkey.AttestationResult
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid attestation response")
		return
	}

	start := time.Now()
	result, err := h.rp.RegisterFinish(r.Context(), &req)
	if err != nil {
		metrics.RecordCeremony(metrics.OpRegisterFinish, metrics.StatusError, time.Since(start).Seconds())
		h.handleServiceError(w, metrics.OpRegisterFinish, err)
		return
	}

	status := metrics.StatusSuccess
	if !result.Success {
		status = metrics.StatusRejected
	}
	metrics.RecordCeremony(metrics.OpRegisterFinish, status, time.Since(start).Seconds())
	h.writeJSON(w, http.StatusOK, result)
}

// AuthStart handles POST /auth/start
//
// Request body:
//
//	{
//	    "username": "alice" // optional, empty for discoverable mode
//	}
//
// An empty body is accepted and treated as discoverable mode.
// Response: PublicKeyCredentialRequestOptions
func (h *Handler) AuthStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, ErrorCodeInvalidRequest, "method not allowed")
		return
	}

	var req passkey.AuthStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body for discoverable credentials
		req = passkey.AuthStartRequest{}
	}

	start := time.Now()
	options, err := h.rp.AuthStart(r.Context(), &req)
	if err != nil {
		metrics.RecordCeremony(metrics.OpAuthStart, metrics.StatusError, time.Since(start).Seconds())
		h.handleServiceError(w, metrics.OpAuthStart, err)
		return
	}

	metrics.RecordCeremony(metrics.OpAuthStart, metrics.StatusSuccess, time.Since(start).Seconds())
	h.writeJSON(w, http.StatusOK, options)
}

// AuthFinish handles POST /auth/finish
//
// Request body: assertion response from the authenticator
// Response: AuthResult with success flag and username
func (h *Handler) AuthFinish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, ErrorCodeInvalidRequest, "method not allowed")
		return
	}

	var req passkey.AssertionResult
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, "invalid assertion response")
		return
	}

	start := time.Now()
	result, err := h.rp.AuthFinish(r.Context(), &req)
	if err != nil {
		metrics.RecordCeremony(metrics.OpAuthFinish, metrics.StatusError, time.Since(start).Seconds())
		h.handleServiceError(w, metrics.OpAuthFinish, err)
		return
	}

	status := metrics.StatusSuccess
	if !result.Success {
		status = metrics.StatusRejected
	}
	metrics.RecordCeremony(metrics.OpAuthFinish, status, time.Since(start).Seconds())
	h.writeJSON(w, http.StatusOK, result)
}

// handleServiceError maps relying party errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, passkey.ErrInvalidRequest):
		metrics.RecordError(op, "invalid_request")
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidRequest, passkey.UserMessage(err))
	case errors.Is(err, passkey.ErrMalformedEncoding):
		metrics.RecordError(op, "malformed_encoding")
		h.writeError(w, http.StatusBadRequest, ErrorCodeMalformedEncoding, passkey.UserMessage(err))
	case errors.Is(err, passkey.ErrChallengeInvalid):
		metrics.RecordError(op, "challenge_invalid")
		h.writeError(w, http.StatusBadRequest, ErrorCodeInvalidChallenge, passkey.UserMessage(err))
	default:
		metrics.RecordError(op, "internal")
		h.logger.Error("ceremony request failed",
			"operation", op,
			"error", err)
		h.writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal server error")
	}
}

// writeJSON writes a JSON response.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Response headers already written, can only log the error
		h.logger.Error("failed to encode JSON response",
			"error", err,
			"status", status)
	}
}

// writeError writes an error response.
func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}
