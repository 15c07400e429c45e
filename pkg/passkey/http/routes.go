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
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountChi mounts the ceremony routes on a chi router.
//
// Example:
//
//	handler := passkeyhttp.NewHandler(rp)
//	r.Route("/api/passkey", func(r chi.Router) {
//	    passkeyhttp.MountChi(r, handler)
//	})
func MountChi(r chi.Router, h *Handler) {
	r.Post(PathRegisterStart, h.RegisterStart)
	r.Post(PathRegisterFinish, h.RegisterFinish)
	r.Post(PathAuthStart, h.AuthStart)
	r.Post(PathAuthFinish, h.AuthFinish)
}

// MountStdlib mounts the ceremony routes on a stdlib http.ServeMux.
// The prefix should not include a trailing slash.
//
// Example:
//
//	handler := passkeyhttp.NewHandler(rp)
//	passkeyhttp.MountStdlib(mux, "/api/passkey", handler)
func MountStdlib(mux *http.ServeMux, prefix string, h *Handler) {
	mux.HandleFunc(prefix+PathRegisterStart, h.RegisterStart)
	mux.HandleFunc(prefix+PathRegisterFinish, h.RegisterFinish)
	mux.HandleFunc(prefix+PathAuthStart, h.AuthStart)
	mux.HandleFunc(prefix+PathAuthFinish, h.AuthFinish)
}

// RouteEntry represents a single route with its method, path, and handler.
type RouteEntry struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Routes returns a slice of route entries for manual mounting.
// Useful for frameworks not directly supported.
//
// Example:
//
//	handler := passkeyhttp.NewHandler(rp)
//	for _, route := range handler.Routes() {
//	    router.Add(route.Method, "/passkey"+route.Path, route.Handler)
//	}
func (h *Handler) Routes() []RouteEntry {
	return []RouteEntry{
		{Method: "POST", Path: PathRegisterStart, Handler: h.RegisterStart},
		{Method: "POST", Path: PathRegisterFinish, Handler: h.RegisterFinish},
		{Method: "POST", Path: PathAuthStart, Handler: h.AuthStart},
		{Method: "POST", Path: PathAuthFinish, Handler: h.AuthFinish},
	}
}

// HandlerFunc returns a single http.HandlerFunc that routes based on path.
// This is useful when you want a single handler for a path prefix.
//
// Note: This requires the request path to have the prefix already stripped.
//
// Example:
//
//	handler := passkeyhttp.NewHandler(rp)
//	mux.Handle("/api/passkey/", http.StripPrefix("/api/passkey", handler.HandlerFunc()))
func (h *Handler) HandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathRegisterStart:
			h.RegisterStart(w, r)
		case PathRegisterFinish:
			h.RegisterFinish(w, r)
		case PathAuthStart:
			h.AuthStart(w, r)
		case PathAuthFinish:
			h.AuthFinish(w, r)
		default:
			http.NotFound(w, r)
		}
	}
}
