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

import (
	"context"
	"fmt"

	"github.com/jeremyhahn/go-passkey/pkg/passkey"
)

// Client runs complete ceremonies end to end: it drives the facade for
// the relying party half and the adapter for the platform half, so a
// caller gets a single Register or Login call.
type Client struct {
	facade  *Facade
	adapter *passkey.Adapter
}

// NewClient creates a ceremony client.
func NewClient(facade *Facade, adapter *passkey.Adapter) (*Client, error) {
	if facade == nil {
		return nil, fmt.Errorf("facade is required")
	}
	if adapter == nil {
		return nil, fmt.Errorf("adapter is required")
	}
	return &Client{facade: facade, adapter: adapter}, nil
}

// Register runs a full registration ceremony for the given username.
// Typed errors report client-side failures; the returned result carries
// the relying party's verdict.
func (c *Client) Register(ctx context.Context, username, displayName string) (*passkey.RegisterResult, error) {
	options, err := c.facade.RegisterStart(ctx, &passkey.RegisterStartRequest{
		Username:    username,
		DisplayName: displayName,
	})
	if err != nil {
		return nil, err
	}

	platformOpts, err := passkey.ToPlatformCreateOptions(options)
	if err != nil {
		return nil, err
	}

	attestation, err := c.adapter.CreateCredential(ctx, platformOpts)
	if err != nil {
		return nil, err
	}

	return c.facade.RegisterFinish(ctx, attestation)
}

// Login runs a full authentication ceremony. An empty username requests
// discoverable-credential mode.
func (c *Client) Login(ctx context.Context, username string) (*passkey.AuthResult, error) {
	options, err := c.facade.AuthStart(ctx, &passkey.AuthStartRequest{Username: username})
	if err != nil {
		return nil, err
	}

	platformOpts, err := passkey.ToPlatformGetOptions(options)
	if err != nil {
		return nil, err
	}

	assertion, err := c.adapter.GetCredential(ctx, platformOpts)
	if err != nil {
		return nil, err
	}

	return c.facade.AuthFinish(ctx, assertion)
}
