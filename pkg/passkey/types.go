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

import (
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/protocol/webauthncose"
)

// CredentialTypePublicKey is the only credential type defined by WebAuthn.
const CredentialTypePublicKey = string(protocol.PublicKeyCredentialType)

// COSE algorithm identifiers accepted by the relying party: ECDSA with
// P-256/SHA-256 and RSASSA-PKCS1-v1_5 with SHA-256.
const (
	AlgES256 = int64(webauthncose.AlgES256)
	AlgRS256 = int64(webauthncose.AlgRS256)
)

// Client data type discriminators carried in the clientDataJSON payload.
const (
	ClientDataTypeCreate = "webauthn.create"
	ClientDataTypeGet    = "webauthn.get"
)

// RelyingPartyEntity identifies the relying party in creation options.
type RelyingPartyEntity struct {
	// ID is the relying party identifier, typically the domain name.
	ID string `json:"id"`

	// Name is the human-readable relying party name.
	Name string `json:"name"`
}

// UserEntity identifies the registering user in creation options. The ID
// is the base64url-encoded user handle.
type UserEntity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// CredentialParameter names one acceptable public-key algorithm.
type CredentialParameter struct {
	Type string `json:"type"`
	Alg  int64  `json:"alg"`
}

// CredentialDescriptor references a credential by its base64url-encoded id,
// used in exclude and allow lists.
type CredentialDescriptor struct {
	Type       string   `json:"type"`
	ID         string   `json:"id"`
	Transports []string `json:"transports,omitempty"`
}

// AuthenticatorSelection constrains which authenticators may participate
// in a registration ceremony.
type AuthenticatorSelection struct {
	// AuthenticatorAttachment is "platform", "cross-platform" or empty (any).
	AuthenticatorAttachment string `json:"authenticatorAttachment,omitempty"`

	// ResidentKey is "required", "preferred" or "discouraged".
	ResidentKey string `json:"residentKey,omitempty"`

	// UserVerification is "required", "preferred" or "discouraged".
	UserVerification string `json:"userVerification,omitempty"`
}

// CreationOptions is the relying party's wire-format description of a
// registration ceremony. Every byte-valued field is base64url text.
type CreationOptions struct {
	RP                     RelyingPartyEntity      `json:"rp"`
	User                   UserEntity              `json:"user"`
	Challenge              string                  `json:"challenge"`
	PubKeyCredParams       []CredentialParameter   `json:"pubKeyCredParams"`
	Timeout                uint64                  `json:"timeout,omitempty"` // milliseconds
	ExcludeCredentials     []CredentialDescriptor  `json:"excludeCredentials,omitempty"`
	AuthenticatorSelection *AuthenticatorSelection `json:"authenticatorSelection,omitempty"`
	Attestation            string                  `json:"attestation,omitempty"`
}

// RequestOptions is the relying party's wire-format description of an
// authentication ceremony. An absent or empty AllowCredentials list
// signals discoverable-credential mode.
type RequestOptions struct {
	Challenge        string                 `json:"challenge"`
	Timeout          uint64                 `json:"timeout,omitempty"` // milliseconds
	RPID             string                 `json:"rpId,omitempty"`
	AllowCredentials []CredentialDescriptor `json:"allowCredentials,omitempty"`
	UserVerification string                 `json:"userVerification,omitempty"`
}

// AttestationResponse carries the registration payload of a ceremony
// result: the serialized client data and the attestation object.
type AttestationResponse struct {
	ClientDataJSON    string `json:"clientDataJSON"`
	AttestationObject string `json:"attestationObject"`
}

// AttestationResult is the wire form of a completed credential creation.
type AttestationResult struct {
	ID                      string              `json:"id"`
	RawID                   string              `json:"rawId"`
	Type                    string              `json:"type"`
	AuthenticatorAttachment string              `json:"authenticatorAttachment,omitempty"`
	Response                AttestationResponse `json:"response"`
	ClientExtensionResults  map[string]any      `json:"clientExtensionResults,omitempty"`
}

// AssertionResponse carries the authentication payload of a ceremony
// result. UserHandle is omitted entirely when the authenticator did not
// report one; it is never encoded as an empty string.
type AssertionResponse struct {
	ClientDataJSON    string `json:"clientDataJSON"`
	AuthenticatorData string `json:"authenticatorData"`
	Signature         string `json:"signature"`
	UserHandle        string `json:"userHandle,omitempty"`
}

// AssertionResult is the wire form of a completed assertion.
type AssertionResult struct {
	ID                      string            `json:"id"`
	RawID                   string            `json:"rawId"`
	Type                    string            `json:"type"`
	AuthenticatorAttachment string            `json:"authenticatorAttachment,omitempty"`
	Response                AssertionResponse `json:"response"`
	ClientExtensionResults  map[string]any    `json:"clientExtensionResults,omitempty"`
}

// ClientData is the parsed form of the clientDataJSON payload produced by
// the platform during either ceremony.
type ClientData struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	Origin    string `json:"origin"`
}

// RegisterStartRequest starts a registration ceremony.
type RegisterStartRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
}

// AuthStartRequest starts an authentication ceremony. An empty username
// requests discoverable-credential mode.
type AuthStartRequest struct {
	Username string `json:"username,omitempty"`
}

// RegisterResult is the relying party's verdict on a finished registration.
// Protocol-level failures are reported through Success and Message rather
// than as errors.
type RegisterResult struct {
	Success      bool   `json:"success"`
	CredentialID string `json:"credentialId,omitempty"`
	Message      string `json:"message,omitempty"`
}

// AuthResult is the relying party's verdict on a finished authentication.
type AuthResult struct {
	Success  bool   `json:"success"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message,omitempty"`
}
