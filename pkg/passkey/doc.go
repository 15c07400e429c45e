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

// Package passkey implements the client side of the WebAuthn/FIDO2
// ceremony model: registering and authenticating with public-key
// credentials (passkeys) instead of passwords.
//
// The package provides:
//   - Wire types for the four ceremony endpoints (register/auth, start/finish)
//   - An Adapter that converts relying-party wire options into platform
//     credential API calls and serializes the opaque results back
//   - A pluggable Authenticator interface for the platform capability,
//     with an in-process SoftAuthenticator implementation
//   - A stable error taxonomy plus UserMessage, the single place
//     user-facing failure strings are produced
//
// # Architecture
//
// A ceremony flows through the layers as:
//
//	caller -> client.Facade -> {mockrp.RelyingParty | remote relying party}
//	       -> Adapter -> Authenticator -> Adapter -> Facade finish -> caller
//
// All byte-valued fields are base64url unpadded text on the wire
// (pkg/codec) and raw bytes once decoded for platform use.
//
// # Error handling
//
// Codec and Adapter failures surface as typed errors carrying a stable
// sentinel; relying-party protocol verdicts (invalid challenge, unknown
// credential) are carried in RegisterResult/AuthResult with Success=false
// and are never thrown. Callers check both paths.
//
// This implementation follows the W3C Web Authentication specification:
//   - https://www.w3.org/TR/webauthn-2/
//   - https://www.w3.org/TR/webauthn-3/
package passkey
