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

// Package client provides the caller-facing ceremony surface: a Facade
// that routes each of the four ceremony endpoints to either an in-process
// mock relying party or a remote one over HTTP, and a Client that runs
// full register and login ceremonies through a platform Authenticator.
//
// Routing is decided per call from a Settings provider, so flipping a
// configuration flag retargets the very next ceremony:
//
//	facade, _ := client.NewFacade(client.FacadeParams{
//	    Settings:  settings,
//	    Transport: client.NewHTTPTransport(nil),
//	    Mock:      rp,
//	})
//	adapter, _ := passkey.NewAdapter(auth)
//	c, _ := client.NewClient(facade, adapter)
//
//	result, err := c.Register(ctx, "alice", "Alice Example")
//
// Remote calls are bounded by the settings-provided timeout
// (DefaultRequestTimeout when unset) and surface ErrRequestTimeout when
// the relying party does not answer in time.
package client
