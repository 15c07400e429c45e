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

package client

import "time"

// DefaultRequestTimeout bounds remote relying party calls when the
// settings provider does not specify one.
const DefaultRequestTimeout = 30 * time.Second

// Settings supplies the facade's runtime configuration. The facade
// re-reads it on every call, so a live provider (viper, remote config)
// can flip the mock/remote mode or retarget the server between ceremonies
// without rebuilding the facade.
type Settings interface {
	// ServerURL is the remote relying party base URL, including the
	// ceremony route prefix (e.g. "https://rp.example.com/api/passkey").
	ServerURL() string

	// UseMockServer selects the in-process mock relying party instead of
	// the remote one.
	UseMockServer() bool

	// RequestTimeout bounds each remote call. Zero or negative means
	// DefaultRequestTimeout.
	RequestTimeout() time.Duration
}

// StaticSettings is a fixed-value Settings implementation.
type StaticSettings struct {
	// URL is the remote relying party base URL.
	URL string

	// Mock selects the in-process mock relying party.
	Mock bool

	// Timeout bounds each remote call. Zero means DefaultRequestTimeout.
	Timeout time.Duration
}

// ServerURL returns the configured server URL.
func (s *StaticSettings) ServerURL() string { return s.URL }

// UseMockServer returns whether the mock relying party is selected.
func (s *StaticSettings) UseMockServer() bool { return s.Mock }

// RequestTimeout returns the configured timeout.
func (s *StaticSettings) RequestTimeout() time.Duration { return s.Timeout }

// effectiveTimeout normalizes a settings-provided timeout.
func effectiveTimeout(s Settings) time.Duration {
	if t := s.RequestTimeout(); t > 0 {
		return t
	}
	return DefaultRequestTimeout
}
