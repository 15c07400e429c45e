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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jeremyhahn/go-passkey/pkg/passkey"
	passkeyhttp "github.com/jeremyhahn/go-passkey/pkg/passkey/http"
)

// Transport posts JSON request bodies to a remote relying party endpoint
// and decodes the JSON response. Implementations translate transport-level
// failures into the passkey sentinel errors.
type Transport interface {
	// Post sends in as a JSON body to url and decodes the response into
	// out. A non-2xx response is returned as a typed error.
	Post(ctx context.Context, url string, in, out any) error
}

// HTTPTransport is the standard Transport over net/http.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates a transport using the given HTTP client.
// A nil client falls back to a plain http.Client; per-call deadlines come
// from the request context, not the client.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPTransport{client: client}
}

// Post implements Transport.
func (t *HTTPTransport) Post(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return passkey.WrapError("encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return passkey.WrapError("build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return passkey.WrapError("post", passkey.ErrRequestTimeout)
		}
		return passkey.WrapError("post", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeErrorResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return passkey.WrapError("decode response", err)
	}
	return nil
}

// decodeErrorResponse converts a relying party error body back into the
// typed error it was produced from, so remote-mode callers see the same
// sentinels as mock-mode callers.
func decodeErrorResponse(resp *http.Response) error {
	var errResp passkeyhttp.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return passkey.WrapError("post",
			fmt.Errorf("server returned status %d", resp.StatusCode))
	}

	switch errResp.Error {
	case passkeyhttp.ErrorCodeMalformedEncoding:
		return passkey.WrapError("post", passkey.ErrMalformedEncoding)
	case passkeyhttp.ErrorCodeInvalidChallenge:
		return passkey.WrapError("post", passkey.ErrChallengeInvalid)
	case passkeyhttp.ErrorCodeInvalidRequest:
		return passkey.WrapError("post",
			fmt.Errorf("%w: %s", passkey.ErrInvalidRequest, errResp.Message))
	default:
		return passkey.WrapError("post",
			fmt.Errorf("server error %s: %s", errResp.Error, errResp.Message))
	}
}
