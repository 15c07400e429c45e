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
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"strings"
	"sync"

	"github.com/go-webauthn/webauthn/protocol/webauthncbor"
	"github.com/go-webauthn/webauthn/protocol/webauthncose"

	"github.com/jeremyhahn/go-passkey/pkg/codec"
)

// Authenticator data flag bits.
const (
	flagUserPresent    byte = 0x01
	flagUserVerified   byte = 0x04
	flagAttestedData   byte = 0x40
	softCredentialSize      = 32
	aaguidSize              = 16
)

// softCredential is one resident credential held by a SoftAuthenticator.
type softCredential struct {
	id         []byte
	userHandle []byte
	privateKey *ecdsa.PrivateKey
	rpID       string
	signCount  uint32
}

// SoftAuthenticator is an in-process implementation of the platform
// Authenticator capability. It produces structurally valid "none"-format
// attestation objects and ECDSA-P256 assertions without any user prompt,
// which makes it suitable for CLI demos and tests.
//
// Credentials are resident: each registration stores the user handle so
// discoverable-mode assertions can report it.
type SoftAuthenticator struct {
	mu     sync.Mutex
	aaguid []byte
	origin string
	creds  []*softCredential

	// UserVerified controls the UV flag on produced authenticator data.
	UserVerified bool
}

// SoftAuthenticatorOption is a functional option for NewSoftAuthenticator.
type SoftAuthenticatorOption func(*SoftAuthenticator)

// WithAAGUID sets a fixed AAGUID instead of a random one.
func WithAAGUID(aaguid []byte) SoftAuthenticatorOption {
	return func(s *SoftAuthenticator) {
		s.aaguid = aaguid
	}
}

// WithUserVerified controls whether the UV flag is set on responses.
func WithUserVerified(uv bool) SoftAuthenticatorOption {
	return func(s *SoftAuthenticator) {
		s.UserVerified = uv
	}
}

// NewSoftAuthenticator creates a software authenticator bound to the given
// web origin. The origin must be a secure context: https, or http on
// localhost for development.
func NewSoftAuthenticator(origin string, opts ...SoftAuthenticatorOption) (*SoftAuthenticator, error) {
	if !secureOrigin(origin) {
		return nil, WrapError("new soft authenticator", ErrSecurityContextViolation)
	}

	aaguid := make([]byte, aaguidSize)
	if _, err := rand.Read(aaguid); err != nil {
		return nil, WrapError("new soft authenticator", err)
	}

	s := &SoftAuthenticator{
		aaguid:       aaguid,
		origin:       origin,
		UserVerified: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create mints a new resident credential. It fails with
// ErrUnsupportedAlgorithm when the relying party does not accept ES256,
// and with ErrDuplicateCredential when one of this authenticator's
// credentials appears in the exclude list.
func (s *SoftAuthenticator) Create(ctx context.Context, opts *PlatformCreateOptions) (*PlatformCredential, error) {
	if err := ctx.Err(); err != nil {
		return nil, WrapError("soft create", ErrCeremonyAborted)
	}
	if opts == nil {
		return nil, WrapError("soft create", ErrInvalidRequest)
	}
	if !acceptsES256(opts.PubKeyCredParams) {
		return nil, WrapError("soft create", ErrUnsupportedAlgorithm)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, excluded := range opts.ExcludeCredentials {
		if s.holdsCredential(excluded.ID) {
			return nil, WrapError("soft create", ErrDuplicateCredential)
		}
	}

	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, WrapError("soft create", err)
	}

	credID := make([]byte, softCredentialSize)
	if _, err := rand.Read(credID); err != nil {
		return nil, WrapError("soft create", err)
	}

	cred := &softCredential{
		id:         credID,
		userHandle: bytes.Clone(opts.User.ID),
		privateKey: privateKey,
		rpID:       opts.RP.ID,
	}

	authData, err := s.buildAuthenticatorData(cred, true)
	if err != nil {
		return nil, WrapError("soft create", err)
	}

	attestationObject, err := webauthncbor.Marshal(map[string]any{
		"fmt":      "none",
		"attStmt":  map[string]any{},
		"authData": authData,
	})
	if err != nil {
		return nil, WrapError("soft create", err)
	}

	s.creds = append(s.creds, cred)

	return &PlatformCredential{
		RawID:                   credID,
		ClientDataJSON:          s.buildClientDataJSON(ClientDataTypeCreate, opts.Challenge),
		AttestationObject:       attestationObject,
		AuthenticatorAttachment: "platform",
	}, nil
}

// Get produces an assertion with an existing credential. With a non-empty
// allow list the first held credential in the list is used; with an empty
// list (discoverable mode) the most recent credential for the relying
// party is used. ErrCredentialNotFound is returned when nothing matches.
func (s *SoftAuthenticator) Get(ctx context.Context, opts *PlatformGetOptions) (*PlatformAssertion, error) {
	if err := ctx.Err(); err != nil {
		return nil, WrapError("soft get", ErrCeremonyAborted)
	}
	if opts == nil {
		return nil, WrapError("soft get", ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cred := s.selectCredential(opts)
	if cred == nil {
		return nil, WrapError("soft get", ErrCredentialNotFound)
	}

	cred.signCount++

	authData, err := s.buildAuthenticatorData(cred, false)
	if err != nil {
		return nil, WrapError("soft get", err)
	}

	clientDataJSON := s.buildClientDataJSON(ClientDataTypeGet, opts.Challenge)
	clientDataHash := sha256.Sum256(clientDataJSON)

	// WebAuthn signs over authData || SHA-256(clientDataJSON).
	signed := sha256.Sum256(append(bytes.Clone(authData), clientDataHash[:]...))
	signature, err := ecdsa.SignASN1(rand.Reader, cred.privateKey, signed[:])
	if err != nil {
		return nil, WrapError("soft get", err)
	}

	return &PlatformAssertion{
		RawID:                   cred.id,
		ClientDataJSON:          clientDataJSON,
		AuthenticatorData:       authData,
		Signature:               signature,
		UserHandle:              bytes.Clone(cred.userHandle),
		AuthenticatorAttachment: "platform",
	}, nil
}

// CredentialCount returns the number of resident credentials held.
func (s *SoftAuthenticator) CredentialCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.creds)
}

// holdsCredential reports whether the authenticator holds a credential
// with the given id. Callers must hold s.mu.
func (s *SoftAuthenticator) holdsCredential(id []byte) bool {
	for _, c := range s.creds {
		if bytes.Equal(c.id, id) {
			return true
		}
	}
	return false
}

// selectCredential picks the credential to assert with. Callers must hold
// s.mu.
func (s *SoftAuthenticator) selectCredential(opts *PlatformGetOptions) *softCredential {
	if len(opts.AllowCredentials) > 0 {
		for _, allowed := range opts.AllowCredentials {
			for _, c := range s.creds {
				if bytes.Equal(c.id, allowed.ID) {
					return c
				}
			}
		}
		return nil
	}

	// Discoverable mode: latest credential for the relying party.
	for i := len(s.creds) - 1; i >= 0; i-- {
		if s.creds[i].rpID == opts.RPID {
			return s.creds[i]
		}
	}
	return nil
}

// buildAuthenticatorData assembles the authenticator data structure:
// rpIdHash (32) || flags (1) || signCount (4) || attested credential data.
func (s *SoftAuthenticator) buildAuthenticatorData(cred *softCredential, attested bool) ([]byte, error) {
	rpIDHash := sha256.Sum256([]byte(cred.rpID))

	flags := flagUserPresent
	if s.UserVerified {
		flags |= flagUserVerified
	}
	if attested {
		flags |= flagAttestedData
	}

	var buf bytes.Buffer
	buf.Write(rpIDHash[:])
	buf.WriteByte(flags)

	signCount := make([]byte, 4)
	binary.BigEndian.PutUint32(signCount, cred.signCount)
	buf.Write(signCount)

	if attested {
		buf.Write(s.aaguid)

		credIDLen := make([]byte, 2)
		binary.BigEndian.PutUint16(credIDLen, uint16(len(cred.id)))
		buf.Write(credIDLen)
		buf.Write(cred.id)

		coseKey, err := marshalCOSEKey(&cred.privateKey.PublicKey)
		if err != nil {
			return nil, err
		}
		buf.Write(coseKey)
	}

	return buf.Bytes(), nil
}

// buildClientDataJSON assembles the collected client data payload. The
// challenge is echoed back in its wire (base64url) form.
func (s *SoftAuthenticator) buildClientDataJSON(ceremonyType string, challenge []byte) []byte {
	data, _ := json.Marshal(ClientData{
		Type:      ceremonyType,
		Challenge: codec.Encode(challenge),
		Origin:    s.origin,
	})
	return data
}

// marshalCOSEKey encodes a P-256 public key in COSE_Key form.
func marshalCOSEKey(pub *ecdsa.PublicKey) ([]byte, error) {
	return webauthncbor.Marshal(map[int]any{
		1:  2,                          // kty: EC2
		3:  int(webauthncose.AlgES256), // alg: ES256
		-1: 1,                          // crv: P-256
		-2: pub.X.Bytes(),
		-3: pub.Y.Bytes(),
	})
}

// acceptsES256 reports whether the relying party's algorithm list includes
// ES256, the only scheme this authenticator implements.
func acceptsES256(params []CredentialParameter) bool {
	for _, p := range params {
		if p.Alg == AlgES256 {
			return true
		}
	}
	return false
}

// secureOrigin reports whether the origin qualifies as a secure context.
func secureOrigin(origin string) bool {
	if strings.HasPrefix(origin, "https://") {
		return true
	}
	return strings.HasPrefix(origin, "http://localhost") ||
		strings.HasPrefix(origin, "http://127.0.0.1")
}
