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

// Package codec converts between raw byte buffers and the URL-safe,
// unpadded base64 text representation used by the WebAuthn wire protocol.
//
// Every byte-valued field that crosses the wire (challenges, credential
// ids, client data, attestation and authenticator data, signatures, user
// handles) is encoded with this alphabet. Decode is the exact inverse of
// Encode for every byte sequence, including empty buffers and buffers
// whose length is not a multiple of three.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrMalformedEncoding is returned when decoding input that contains
// characters outside the URL-safe base64 alphabet, including the padded
// alphabet characters '+', '/' and '='.
var ErrMalformedEncoding = errors.New("malformed base64url encoding")

// Encode returns the URL-safe, unpadded base64 representation of b.
func Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode restores the raw bytes encoded by Encode.
//
// Input carrying padding or standard-alphabet characters is rejected with
// ErrMalformedEncoding rather than silently accepted; relying parties and
// platforms must agree on a single alphabet.
func Decode(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	return b, nil
}
