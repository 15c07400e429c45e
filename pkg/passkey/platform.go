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

package passkey

import "context"

// PlatformUserEntity is the decoded form of UserEntity: the user handle is
// raw bytes, as the platform credential API expects.
type PlatformUserEntity struct {
	ID          []byte
	Name        string
	DisplayName string
}

// PlatformCredentialDescriptor is the decoded form of CredentialDescriptor.
type PlatformCredentialDescriptor struct {
	Type       string
	ID         []byte
	Transports []string
}

// PlatformCreateOptions are registration options with all byte-valued
// fields decoded to raw bytes for the platform credential API.
type PlatformCreateOptions struct {
	RP                     RelyingPartyEntity
	User                   PlatformUserEntity
	Challenge              []byte
	PubKeyCredParams       []CredentialParameter
	Timeout                uint64 // milliseconds
	ExcludeCredentials     []PlatformCredentialDescriptor
	AuthenticatorSelection *AuthenticatorSelection
	Attestation            string
}

// PlatformGetOptions are authentication options with all byte-valued
// fields decoded to raw bytes. An empty AllowCredentials list requests
// discoverable-credential mode and must be passed through as such.
type PlatformGetOptions struct {
	Challenge        []byte
	Timeout          uint64 // milliseconds
	RPID             string
	AllowCredentials []PlatformCredentialDescriptor
	UserVerification string
}

// PlatformCredential is the platform's opaque binary response to a
// credential creation request. Private key material never appears here; it
// stays inside the platform's secure storage.
type PlatformCredential struct {
	RawID                   []byte
	ClientDataJSON          []byte
	AttestationObject       []byte
	AuthenticatorAttachment string
	Extensions              map[string]any
}

// PlatformAssertion is the platform's opaque binary response to an
// assertion request. UserHandle is nil when the authenticator did not
// report one.
type PlatformAssertion struct {
	RawID                   []byte
	ClientDataJSON          []byte
	AuthenticatorData       []byte
	Signature               []byte
	UserHandle              []byte
	AuthenticatorAttachment string
}

// Authenticator is the platform credential capability. Both operations
// block on a user-mediated platform prompt (biometric, PIN, security key)
// and honor ctx for caller-driven cancellation. Implementations translate
// their native failures into the sentinel errors of this package.
type Authenticator interface {
	// Create asks the platform to mint a new credential.
	Create(ctx context.Context, opts *PlatformCreateOptions) (*PlatformCredential, error)

	// Get asks the platform to produce an assertion with an existing
	// credential.
	Get(ctx context.Context, opts *PlatformGetOptions) (*PlatformAssertion, error)
}
