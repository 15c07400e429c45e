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

// Package http provides composable HTTP handlers for the passkey ceremony
// endpoints.
//
// This package exposes the mock relying party over HTTP so remote-mode
// clients and browser front ends can drive ceremonies against it without
// coupling to the server's internal wiring.
//
// # Usage
//
// Create a handler from a relying party and mount it on your router:
//
//	rp, _ := mockrp.New(...)
//	handler := passkeyhttp.NewHandler(rp)
//
//	// For chi router:
//	r.Route("/api/passkey", func(r chi.Router) {
//	    passkeyhttp.MountChi(r, handler)
//	})
//
//	// For stdlib http.ServeMux (Go 1.22+):
//	passkeyhttp.MountStdlib(mux, "/api/passkey", handler)
//
// # Endpoints
//
// The handler provides the following endpoints:
//
//	POST /register/start   - Start a registration ceremony
//	POST /register/finish  - Complete a registration
//	POST /auth/start       - Start an authentication ceremony
//	POST /auth/finish      - Complete an authentication
//
// # Response Format
//
// All responses are JSON. Start operations return the ceremony options
// directly. Finish operations always return status 200 with a success
// flag in the body; a false flag carries the relying party's verdict
// message. Error statuses are reserved for malformed requests and
// internal faults:
//
//	{
//	    "error": "error_code",
//	    "message": "Human-readable message"
//	}
package http
