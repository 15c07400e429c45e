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
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-passkey/pkg/passkey"
)

func startBody(t *testing.T) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(passkey.RegisterStartRequest{Username: "alice"})
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func TestMountChi(t *testing.T) {
	h := newTestHandler(t)

	r := chi.NewRouter()
	r.Route("/api/passkey", func(r chi.Router) {
		MountChi(r, h)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/passkey/register/start", startBody(t))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Unrouted paths 404.
	req = httptest.NewRequest(http.MethodPost, "/api/passkey/unknown", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMountStdlib(t *testing.T) {
	h := newTestHandler(t)

	mux := http.NewServeMux()
	MountStdlib(mux, "/api/passkey", h)

	req := httptest.NewRequest(http.MethodPost, "/api/passkey/auth/start", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes(t *testing.T) {
	h := newTestHandler(t)

	routes := h.Routes()
	require.Len(t, routes, 4)

	paths := make(map[string]bool)
	for _, route := range routes {
		assert.Equal(t, "POST", route.Method)
		assert.NotNil(t, route.Handler)
		paths[route.Path] = true
	}

	for _, want := range []string{PathRegisterStart, PathRegisterFinish, PathAuthStart, PathAuthFinish} {
		assert.True(t, paths[want], "missing route %s", want)
	}
}

func TestHandlerFunc(t *testing.T) {
	h := newTestHandler(t)

	mux := http.NewServeMux()
	mux.Handle("/api/passkey/", http.StripPrefix("/api/passkey", h.HandlerFunc()))

	req := httptest.NewRequest(http.MethodPost, "/api/passkey/register/start", startBody(t))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/passkey/nope", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
