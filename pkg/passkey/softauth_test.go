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
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/protocol/webauthncbor"
	"github.com/go-webauthn/webauthn/protocol/webauthncose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-passkey/pkg/codec"
)

func newSoftAuth(t *testing.T) *SoftAuthenticator {
	t.Helper()
	auth, err := NewSoftAuthenticator("https://example.com")
	require.NoError(t, err)
	return auth
}

func createOptions(challenge []byte) *PlatformCreateOptions {
	return &PlatformCreateOptions{
		RP: RelyingPartyEntity{ID: "example.com", Name: "Example"},
		User: PlatformUserEntity{
			ID:   []byte("user-handle"),
			Name: "alice",
		},
		Challenge: challenge,
		PubKeyCredParams: []CredentialParameter{
			{Type: CredentialTypePublicKey, Alg: AlgES256},
		},
	}
}

func TestNewSoftAuthenticator_OriginCheck(t *testing.T) {
	tests := []struct {
		origin string
		ok     bool
	}{
		{"https://example.com", true},
		{"http://localhost:8080", true},
		{"http://127.0.0.1:8080", true},
		{"http://example.com", false},
		{"ftp://example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			auth, err := NewSoftAuthenticator(tt.origin)
			if tt.ok {
				assert.NoError(t, err)
				assert.NotNil(t, auth)
			} else {
				assert.ErrorIs(t, err, ErrSecurityContextViolation)
			}
		})
	}
}

func TestSoftAuthenticator_Create(t *testing.T) {
	auth := newSoftAuth(t)
	challenge := []byte("0123456789abcdef0123456789abcdef")

	cred, err := auth.Create(context.Background(), createOptions(challenge))
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Len(t, cred.RawID, 32)
	assert.Equal(t, "platform", cred.AuthenticatorAttachment)
	assert.Equal(t, 1, auth.CredentialCount())

	// Client data echoes the ceremony type, wire challenge and origin.
	var clientData ClientData
	require.NoError(t, json.Unmarshal(cred.ClientDataJSON, &clientData))
	assert.Equal(t, ClientDataTypeCreate, clientData.Type)
	assert.Equal(t, codec.Encode(challenge), clientData.Challenge)
	assert.Equal(t, "https://example.com", clientData.Origin)

	// Attestation object is "none" format with an empty statement.
	var attObj protocol.AttestationObject
	require.NoError(t, webauthncbor.Unmarshal(cred.AttestationObject, &attObj))
	assert.Equal(t, "none", attObj.Format)
	assert.Empty(t, attObj.AttStatement)

	// Authenticator data carries the rp id hash, UP/UV/AT flags and the
	// attested credential with a parseable COSE key.
	require.NoError(t, attObj.AuthData.Unmarshal(attObj.RawAuthData))
	rpIDHash := sha256.Sum256([]byte("example.com"))
	assert.Equal(t, rpIDHash[:], attObj.AuthData.RPIDHash)
	assert.True(t, attObj.AuthData.Flags.UserPresent())
	assert.True(t, attObj.AuthData.Flags.UserVerified())
	assert.True(t, attObj.AuthData.Flags.HasAttestedCredentialData())
	assert.Equal(t, cred.RawID, attObj.AuthData.AttData.CredentialID)

	_, err = webauthncose.ParsePublicKey(attObj.AuthData.AttData.CredentialPublicKey)
	assert.NoError(t, err)
}

func TestSoftAuthenticator_Create_NoES256(t *testing.T) {
	auth := newSoftAuth(t)

	opts := createOptions([]byte("challenge"))
	opts.PubKeyCredParams = []CredentialParameter{
		{Type: CredentialTypePublicKey, Alg: AlgRS256},
	}

	_, err := auth.Create(context.Background(), opts)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestSoftAuthenticator_Create_Excluded(t *testing.T) {
	auth := newSoftAuth(t)
	ctx := context.Background()

	cred, err := auth.Create(ctx, createOptions([]byte("challenge-1")))
	require.NoError(t, err)

	// Re-registration with the held credential excluded is refused.
	opts := createOptions([]byte("challenge-2"))
	opts.ExcludeCredentials = []PlatformCredentialDescriptor{
		{Type: CredentialTypePublicKey, ID: cred.RawID},
	}
	_, err = auth.Create(ctx, opts)
	assert.ErrorIs(t, err, ErrDuplicateCredential)
	assert.Equal(t, 1, auth.CredentialCount())
}

func TestSoftAuthenticator_Create_CancelledContext(t *testing.T) {
	auth := newSoftAuth(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := auth.Create(ctx, createOptions([]byte("challenge")))
	assert.ErrorIs(t, err, ErrCeremonyAborted)
}

func TestSoftAuthenticator_Get_SignatureVerifies(t *testing.T) {
	auth := newSoftAuth(t)
	ctx := context.Background()

	cred, err := auth.Create(ctx, createOptions([]byte("register-challenge!")))
	require.NoError(t, err)

	var attObj protocol.AttestationObject
	require.NoError(t, webauthncbor.Unmarshal(cred.AttestationObject, &attObj))
	require.NoError(t, attObj.AuthData.Unmarshal(attObj.RawAuthData))
	publicKey, err := webauthncose.ParsePublicKey(attObj.AuthData.AttData.CredentialPublicKey)
	require.NoError(t, err)

	assertion, err := auth.Get(ctx, &PlatformGetOptions{
		Challenge: []byte("assert-challenge!!"),
		RPID:      "example.com",
		AllowCredentials: []PlatformCredentialDescriptor{
			{Type: CredentialTypePublicKey, ID: cred.RawID},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, cred.RawID, assertion.RawID)
	assert.Equal(t, []byte("user-handle"), assertion.UserHandle)

	// The signature covers authData || SHA-256(clientDataJSON) and must
	// verify against the registered public key.
	clientDataHash := sha256.Sum256(assertion.ClientDataJSON)
	signedData := append(assertion.AuthenticatorData, clientDataHash[:]...)
	valid, err := webauthncose.VerifySignature(publicKey, signedData, assertion.Signature)
	require.NoError(t, err)
	assert.True(t, valid)

	// Sign count increments with each assertion.
	count := binary.BigEndian.Uint32(assertion.AuthenticatorData[33:37])
	assert.Equal(t, uint32(1), count)
}

func TestSoftAuthenticator_Get_DiscoverableMode(t *testing.T) {
	auth := newSoftAuth(t)
	ctx := context.Background()

	first, err := auth.Create(ctx, createOptions([]byte("challenge-1")))
	require.NoError(t, err)
	second, err := auth.Create(ctx, createOptions([]byte("challenge-2")))
	require.NoError(t, err)

	// Empty allow list selects the most recent credential for the rp.
	assertion, err := auth.Get(ctx, &PlatformGetOptions{
		Challenge: []byte("assert-challenge"),
		RPID:      "example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, second.RawID, assertion.RawID)
	assert.NotEqual(t, first.RawID, assertion.RawID)
}

func TestSoftAuthenticator_Get_NoMatch(t *testing.T) {
	auth := newSoftAuth(t)
	ctx := context.Background()

	_, err := auth.Create(ctx, createOptions([]byte("challenge")))
	require.NoError(t, err)

	t.Run("unknown allow list id", func(t *testing.T) {
		_, err := auth.Get(ctx, &PlatformGetOptions{
			Challenge: []byte("assert"),
			RPID:      "example.com",
			AllowCredentials: []PlatformCredentialDescriptor{
				{Type: CredentialTypePublicKey, ID: []byte("unknown-id")},
			},
		})
		assert.ErrorIs(t, err, ErrCredentialNotFound)
	})

	t.Run("different relying party", func(t *testing.T) {
		_, err := auth.Get(ctx, &PlatformGetOptions{
			Challenge: []byte("assert"),
			RPID:      "other.example.org",
		})
		assert.ErrorIs(t, err, ErrCredentialNotFound)
	})
}

func TestSoftAuthenticator_UserVerifiedFlag(t *testing.T) {
	auth, err := NewSoftAuthenticator("https://example.com", WithUserVerified(false))
	require.NoError(t, err)

	cred, err := auth.Create(context.Background(), createOptions([]byte("challenge")))
	require.NoError(t, err)

	var attObj protocol.AttestationObject
	require.NoError(t, webauthncbor.Unmarshal(cred.AttestationObject, &attObj))
	require.NoError(t, attObj.AuthData.Unmarshal(attObj.RawAuthData))
	assert.True(t, attObj.AuthData.Flags.UserPresent())
	assert.False(t, attObj.AuthData.Flags.UserVerified())
}
