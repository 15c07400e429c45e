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
	passkeyhttp "github.com/jeremyhahn/go-passkey/pkg/passkey/http"
	"github.com/jeremyhahn/go-passkey/pkg/passkey/mockrp"
)

// Facade presents one uniform surface for the four ceremony endpoints and
// routes each call to either the in-process mock relying party or a remote
// one over HTTP. The mock/remote decision is re-read from Settings on
// every call, never cached.
type Facade struct {
	settings  Settings
	transport Transport
	mock      *mockrp.RelyingParty
}

// FacadeParams contains dependencies for creating a facade.
type FacadeParams struct {
	// Settings supplies the routing configuration (required).
	Settings Settings

	// Transport posts to the remote relying party. Required unless every
	// call will be routed to the mock.
	Transport Transport

	// Mock is the in-process relying party. Required unless every call
	// will be routed to the remote server.
	Mock *mockrp.RelyingParty
}

// NewFacade creates a ceremony facade.
func NewFacade(params FacadeParams) (*Facade, error) {
	if params.Settings == nil {
		return nil, fmt.Errorf("settings provider is required")
	}
	if params.Transport == nil && params.Mock == nil {
		return nil, fmt.Errorf("transport or mock relying party is required")
	}

	return &Facade{
		settings:  params.Settings,
		transport: params.Transport,
		mock:      params.Mock,
	}, nil
}

// RegisterStart begins a registration ceremony.
func (f *Facade) RegisterStart(ctx context.Context, req *passkey.RegisterStartRequest) (*passkey.CreationOptions, error) {
	useMock, err := f.route()
	if err != nil {
		return nil, err
	}
	if useMock {
		return f.mock.RegisterStart(ctx, req)
	}

	var options passkey.CreationOptions
	if err := f.post(ctx, passkeyhttp.PathRegisterStart, req, &options); err != nil {
		return nil, err
	}
	return &options, nil
}

// RegisterFinish completes a registration ceremony.
func (f *Facade) RegisterFinish(ctx context.Context, result *passkey.AttestationResult) (*passkey.RegisterResult, error) {
	useMock, err := f.route()
	if err != nil {
		return nil, err
	}
	if useMock {
		return f.mock.RegisterFinish(ctx, result)
	}

	var verdict passkey.RegisterResult
	if err := f.post(ctx, passkeyhttp.PathRegisterFinish, result, &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}

// AuthStart begins an authentication ceremony.
func (f *Facade) AuthStart(ctx context.Context, req *passkey.AuthStartRequest) (*passkey.RequestOptions, error) {
	useMock, err := f.route()
	if err != nil {
		return nil, err
	}
	if useMock {
		return f.mock.AuthStart(ctx, req)
	}

	var options passkey.RequestOptions
	if err := f.post(ctx, passkeyhttp.PathAuthStart, req, &options); err != nil {
		return nil, err
	}
	return &options, nil
}

// AuthFinish completes an authentication ceremony.
func (f *Facade) AuthFinish(ctx context.Context, result *passkey.AssertionResult) (*passkey.AuthResult, error) {
	useMock, err := f.route()
	if err != nil {
		return nil, err
	}
	if useMock {
		return f.mock.AuthFinish(ctx, result)
	}

	var verdict passkey.AuthResult
	if err := f.post(ctx, passkeyhttp.PathAuthFinish, result, &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}

// route evaluates the routing decision for one call. Mock mode with no
// mock wired is a configuration error, never a silent fall-through to
// the network.
func (f *Facade) route() (bool, error) {
	if !f.settings.UseMockServer() {
		return false, nil
	}
	if f.mock == nil {
		return false, passkey.WrapError("facade",
			fmt.Errorf("mock mode requested but no mock relying party configured"))
	}
	return true, nil
}

// post sends one remote call bounded by the settings-provided timeout.
func (f *Facade) post(ctx context.Context, path string, in, out any) error {
	if f.transport == nil {
		return passkey.WrapError("facade", fmt.Errorf("no transport configured for remote mode"))
	}

	ctx, cancel := context.WithTimeout(ctx, effectiveTimeout(f.settings))
	defer cancel()

	return f.transport.Post(ctx, f.settings.ServerURL()+path, in, out)
}
