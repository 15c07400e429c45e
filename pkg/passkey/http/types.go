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

// Route paths relative to the mount point.
const (
	PathRegisterStart  = "/register/start"
	PathRegisterFinish = "/register/finish"
	PathAuthStart      = "/auth/start"
	PathAuthFinish     = "/auth/finish"
)

// ErrorResponse is the response format for errors.
type ErrorResponse struct {
	// Error is the error code.
	Error string `json:"error"`

	// Message is a human-readable error message.
	Message string `json:"message"`
}

// Error codes returned in ErrorResponse.
const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeInvalidChallenge  = "invalid_challenge"
	ErrorCodeMalformedEncoding = "malformed_encoding"
	ErrorCodeInternalError     = "internal_error"
)
