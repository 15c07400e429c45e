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
	"fmt"
	"net/url"
	"time"

	"github.com/jeremyhahn/go-passkey/pkg/passkey"
	"github.com/jeremyhahn/go-passkey/pkg/passkey/client"
	"github.com/jeremyhahn/go-passkey/pkg/passkey/mockrp"
)

// buildClient assembles the ceremony stack from the current settings: a
// software authenticator, a facade routed per the mock flag, and the
// client that drives both.
func buildClient() (*client.Client, error) {
	settings := NewViperSettings()

	params := client.FacadeParams{Settings: settings}
	if settings.UseMockServer() {
		rp, err := newLocalRelyingParty()
		if err != nil {
			return nil, err
		}
		params.Mock = rp
		printVerbose("Using in-process mock relying party")
	} else {
		params.Transport = client.NewHTTPTransport(nil)
		printVerbose("Using relying party server at %s", settings.ServerURL())
	}

	facade, err := client.NewFacade(params)
	if err != nil {
		return nil, err
	}

	origin, err := ceremonyOrigin(settings)
	if err != nil {
		return nil, err
	}

	authenticator, err := passkey.NewSoftAuthenticator(origin)
	if err != nil {
		return nil, err
	}

	adapter, err := passkey.NewAdapter(authenticator)
	if err != nil {
		return nil, err
	}

	return client.NewClient(facade, adapter)
}

// localChallengeTTL is the challenge validity window for mock mode.
const localChallengeTTL = 5 * time.Minute

// newLocalRelyingParty creates an in-memory relying party for mock mode.
// The challenge store enforces the TTL, so it gets the same value the
// config advertises.
func newLocalRelyingParty() (*mockrp.RelyingParty, error) {
	cfg := &mockrp.Config{
		RPID:         "localhost",
		RPName:       "go-passkey",
		ChallengeTTL: localChallengeTTL,
	}
	return mockrp.New(mockrp.Params{
		Config:      cfg,
		Challenges:  mockrp.NewMemoryChallengeStore(cfg.ChallengeTTL),
		Credentials: mockrp.NewMemoryCredentialStore(),
	})
}

// ceremonyOrigin derives the web origin the authenticator binds into
// client data. Mock mode uses a localhost origin; remote mode uses the
// scheme and host of the server URL.
func ceremonyOrigin(settings *ViperSettings) (string, error) {
	if settings.UseMockServer() {
		return "http://localhost:8080", nil
	}

	u, err := url.Parse(settings.ServerURL())
	if err != nil {
		return "", fmt.Errorf("invalid server URL %q: %w", settings.ServerURL(), err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid server URL %q: scheme and host are required", settings.ServerURL())
	}
	return u.Scheme + "://" + u.Host, nil
}
