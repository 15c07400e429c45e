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
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestViperSettings_ReadsCurrentValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set(settingServerURL, "http://rp.example:9000/api/passkey")
	viper.Set(settingUseMock, false)
	viper.Set(settingTimeout, 5*time.Second)

	s := NewViperSettings()

	if got := s.ServerURL(); got != "http://rp.example:9000/api/passkey" {
		t.Errorf("ServerURL() = %q, want http://rp.example:9000/api/passkey", got)
	}
	if s.UseMockServer() {
		t.Error("UseMockServer() = true, want false")
	}
	if got := s.RequestTimeout(); got != 5*time.Second {
		t.Errorf("RequestTimeout() = %v, want 5s", got)
	}
}

func TestViperSettings_ReevaluatedPerCall(t *testing.T) {
	t.Cleanup(viper.Reset)

	s := NewViperSettings()

	viper.Set(settingUseMock, true)
	if !s.UseMockServer() {
		t.Fatal("UseMockServer() = false after Set(true)")
	}

	// Flipping the value changes the very next read, no rebuild needed.
	viper.Set(settingUseMock, false)
	if s.UseMockServer() {
		t.Error("UseMockServer() = true after Set(false)")
	}
}

func TestCeremonyOrigin(t *testing.T) {
	tests := []struct {
		name    string
		server  string
		mock    bool
		want    string
		wantErr bool
	}{
		{"mock mode", "", true, "http://localhost:8080", false},
		{"https server", "https://rp.example/api/passkey", false, "https://rp.example", false},
		{"http with port", "http://localhost:8080/api/passkey", false, "http://localhost:8080", false},
		{"missing scheme", "rp.example/api", false, "", true},
		{"empty", "", false, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(viper.Reset)
			viper.Set(settingServerURL, tt.server)
			viper.Set(settingUseMock, tt.mock)

			got, err := ceremonyOrigin(NewViperSettings())
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ceremonyOrigin() error = nil, want error for %q", tt.server)
				}
				return
			}
			if err != nil {
				t.Fatalf("ceremonyOrigin() error = %v, want nil", err)
			}
			if got != tt.want {
				t.Errorf("ceremonyOrigin() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewLocalRelyingParty_ChallengeTTL(t *testing.T) {
	rp, err := newLocalRelyingParty()
	if err != nil {
		t.Fatalf("newLocalRelyingParty() error = %v, want nil", err)
	}

	// The store enforces the TTL; the config must advertise the same
	// window the store was handed.
	if got := rp.Config().ChallengeTTL; got != localChallengeTTL {
		t.Errorf("ChallengeTTL = %v, want %v", got, localChallengeTTL)
	}
}

func TestBuildClient_MockMode(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set(settingUseMock, true)

	c, err := buildClient()
	if err != nil {
		t.Fatalf("buildClient() error = %v, want nil", err)
	}
	if c == nil {
		t.Fatal("buildClient() returned nil client")
	}
}
