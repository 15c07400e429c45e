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

package cli

import (
	"time"

	"github.com/spf13/viper"
)

// Viper keys backing the client settings. Each resolves through flag,
// PASSKEY_* environment variable and config file, in that order.
const (
	settingServerURL = "server.url"
	settingUseMock   = "mock"
	settingTimeout   = "timeout"
	settingOutput    = "output"
)

// ViperSettings adapts viper to the client Settings interface. Values
// are read on every call, so configuration changes take effect on the
// next ceremony without rebuilding the client.
type ViperSettings struct{}

// NewViperSettings creates a viper-backed settings provider.
func NewViperSettings() *ViperSettings {
	return &ViperSettings{}
}

// ServerURL returns the relying party base URL.
func (s *ViperSettings) ServerURL() string {
	return viper.GetString(settingServerURL)
}

// UseMockServer reports whether ceremonies run against the in-process
// mock relying party.
func (s *ViperSettings) UseMockServer() bool {
	return viper.GetBool(settingUseMock)
}

// RequestTimeout returns the per-request timeout for server calls.
func (s *ViperSettings) RequestTimeout() time.Duration {
	return viper.GetDuration(settingTimeout)
}
