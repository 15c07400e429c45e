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

package mockrp

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jeremyhahn/go-passkey/pkg/codec"
	"github.com/jeremyhahn/go-passkey/pkg/passkey"
)

// RelyingParty is a local, non-networked FIDO2 server emulation providing
// the four ceremony endpoints: it issues challenges, tracks their validity
// window, stores credentials, and validates assertions.
//
// Protocol-level verdicts (invalid challenge, unknown credential) are
// returned inside RegisterResult/AuthResult with Success=false; only
// internal failures (store faults, malformed encodings) surface as errors.
type RelyingParty struct {
	config     *Config
	challenges ChallengeStore
	creds      CredentialStore
}

// Params contains dependencies for creating a mock relying party. Stores
// are injected so tests can instantiate isolated state per test case.
type Params struct {
	// Config is the relying party configuration (required).
	Config *Config

	// Challenges tracks outstanding challenges (required).
	Challenges ChallengeStore

	// Credentials persists registered credentials (required).
	Credentials CredentialStore
}

// New creates a mock relying party with the provided dependencies.
func New(params Params) (*RelyingParty, error) {
	if params.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if params.Challenges == nil {
		return nil, fmt.Errorf("challenge store is required")
	}
	if params.Credentials == nil {
		return nil, fmt.Errorf("credential store is required")
	}

	params.Config.SetDefaults()
	if err := params.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &RelyingParty{
		config:     params.Config,
		challenges: params.Challenges,
		creds:      params.Credentials,
	}, nil
}

// Config returns the relying party configuration.
func (rp *RelyingParty) Config() *Config {
	return rp.config
}

// RegisterStart begins a registration ceremony for the given username.
// Existing credentials for the username populate excludeCredentials so
// the platform avoids re-registering the same authenticator.
func (rp *RelyingParty) RegisterStart(ctx context.Context, req *passkey.RegisterStartRequest) (*passkey.CreationOptions, error) {
	if req == nil || req.Username == "" {
		return nil, passkey.WrapError("register start", passkey.ErrInvalidRequest)
	}

	// Expired challenges are swept lazily before each ceremony start.
	if _, err := rp.challenges.Sweep(ctx); err != nil {
		return nil, passkey.WrapError("register start", err)
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Username
	}

	challenge, err := rp.newChallengeValue()
	if err != nil {
		return nil, passkey.WrapError("register start", err)
	}

	// uuid.New is 16 bytes of cryptographically random data, the exact
	// size WebAuthn recommends for user handles.
	userID := uuid.New()
	userHandle := codec.Encode(userID[:])

	if err := rp.challenges.Put(ctx, &Challenge{
		Value:       challenge,
		Username:    req.Username,
		DisplayName: displayName,
		UserHandle:  userHandle,
		IssuedAt:    time.Now(),
	}); err != nil {
		return nil, passkey.WrapError("register start", err)
	}

	existing, err := rp.creds.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, passkey.WrapError("register start", err)
	}

	var exclude []passkey.CredentialDescriptor
	for _, cred := range existing {
		exclude = append(exclude, passkey.CredentialDescriptor{
			Type: passkey.CredentialTypePublicKey,
			ID:   cred.ID,
		})
	}

	return &passkey.CreationOptions{
		RP: passkey.RelyingPartyEntity{
			ID:   rp.config.RPID,
			Name: rp.config.RPName,
		},
		User: passkey.UserEntity{
			ID:          userHandle,
			Name:        req.Username,
			DisplayName: displayName,
		},
		Challenge: challenge,
		PubKeyCredParams: []passkey.CredentialParameter{
			{Type: passkey.CredentialTypePublicKey, Alg: passkey.AlgES256},
			{Type: passkey.CredentialTypePublicKey, Alg: passkey.AlgRS256},
		},
		Timeout:            uint64(rp.config.CeremonyTimeout.Milliseconds()),
		ExcludeCredentials: exclude,
		AuthenticatorSelection: &passkey.AuthenticatorSelection{
			AuthenticatorAttachment: rp.config.AuthenticatorAttachment,
			ResidentKey:             rp.config.ResidentKey,
			UserVerification:        rp.config.UserVerification,
		},
		Attestation: rp.config.Attestation,
	}, nil
}

// RegisterFinish completes a registration ceremony. The challenge that
// started the ceremony is recovered from the result's client data and
// consumed atomically; the credential is persisted under the username
// recorded on that challenge. Protocol failures are reported through the
// result's Success flag, never thrown.
func (rp *RelyingParty) RegisterFinish(ctx context.Context, result *passkey.AttestationResult) (*passkey.RegisterResult, error) {
	if result == nil || result.ID == "" {
		return nil, passkey.WrapError("register finish", passkey.ErrInvalidRequest)
	}

	clientData, err := rp.parseClientData(result.Response.ClientDataJSON, passkey.ClientDataTypeCreate)
	if err != nil {
		return nil, passkey.WrapError("register finish", err)
	}

	attestation, err := codec.Decode(result.Response.AttestationObject)
	if err != nil {
		return nil, passkey.WrapError("register finish", err)
	}

	ch, err := rp.challenges.Consume(ctx, clientData.Challenge)
	if err != nil {
		if passkey.IsChallengeInvalid(err) {
			return &passkey.RegisterResult{
				Success: false,
				Message: passkey.UserMessage(err),
			}, nil
		}
		return nil, passkey.WrapError("register finish", err)
	}
	if ch.Username == "" {
		// An authentication challenge cannot conclude a registration.
		return &passkey.RegisterResult{
			Success: false,
			Message: passkey.UserMessage(passkey.ErrChallengeInvalid),
		}, nil
	}

	// The mock persists the raw attestation payload in place of a parsed,
	// verified public key. Attestation chain validation is out of scope.
	saveErr := rp.creds.Save(ctx, &StoredCredential{
		ID:          result.ID,
		Attestation: attestation,
		Username:    ch.Username,
		DisplayName: ch.DisplayName,
		UserHandle:  ch.UserHandle,
		CreatedAt:   time.Now(),
	})
	if saveErr != nil {
		if passkey.IsDuplicateCredential(saveErr) {
			return &passkey.RegisterResult{
				Success: false,
				Message: passkey.UserMessage(saveErr),
			}, nil
		}
		return nil, passkey.WrapError("register finish", saveErr)
	}

	return &passkey.RegisterResult{
		Success:      true,
		CredentialID: result.ID,
		Message:      fmt.Sprintf("passkey registered for %s", ch.Username),
	}, nil
}

// AuthStart begins an authentication ceremony. With a username, the
// user's stored credential ids populate allowCredentials; a user with no
// credentials gets an empty list, which is the discoverable-mode fallback
// rather than an error. Without a username the list stays empty by design.
func (rp *RelyingParty) AuthStart(ctx context.Context, req *passkey.AuthStartRequest) (*passkey.RequestOptions, error) {
	if _, err := rp.challenges.Sweep(ctx); err != nil {
		return nil, passkey.WrapError("auth start", err)
	}

	var username string
	if req != nil {
		username = req.Username
	}

	challenge, err := rp.newChallengeValue()
	if err != nil {
		return nil, passkey.WrapError("auth start", err)
	}

	if err := rp.challenges.Put(ctx, &Challenge{
		Value:    challenge,
		Username: username,
		IssuedAt: time.Now(),
	}); err != nil {
		return nil, passkey.WrapError("auth start", err)
	}

	var allow []passkey.CredentialDescriptor
	if username != "" {
		creds, err := rp.creds.GetByUsername(ctx, username)
		if err != nil {
			return nil, passkey.WrapError("auth start", err)
		}
		for _, cred := range creds {
			allow = append(allow, passkey.CredentialDescriptor{
				Type: passkey.CredentialTypePublicKey,
				ID:   cred.ID,
			})
		}
	}

	return &passkey.RequestOptions{
		Challenge:        challenge,
		Timeout:          uint64(rp.config.CeremonyTimeout.Milliseconds()),
		RPID:             rp.config.RPID,
		AllowCredentials: allow,
		UserVerification: rp.config.UserVerification,
	}, nil
}

// AuthFinish completes an authentication ceremony. The challenge is
// consumed from the assertion's client data, the presented credential id
// must match a stored credential, and a client-reported user handle must
// match the one issued at registration. An unknown credential is a hard
// failure; presence of the stored credential is otherwise treated as
// sufficient proof (signature verification is out of scope for the mock).
func (rp *RelyingParty) AuthFinish(ctx context.Context, result *passkey.AssertionResult) (*passkey.AuthResult, error) {
	if result == nil || result.ID == "" {
		return nil, passkey.WrapError("auth finish", passkey.ErrInvalidRequest)
	}

	clientData, err := rp.parseClientData(result.Response.ClientDataJSON, passkey.ClientDataTypeGet)
	if err != nil {
		return nil, passkey.WrapError("auth finish", err)
	}

	ch, err := rp.challenges.Consume(ctx, clientData.Challenge)
	if err != nil {
		if passkey.IsChallengeInvalid(err) {
			return &passkey.AuthResult{
				Success: false,
				Message: passkey.UserMessage(err),
			}, nil
		}
		return nil, passkey.WrapError("auth finish", err)
	}

	cred, err := rp.creds.GetByID(ctx, result.ID)
	if err != nil {
		if passkey.IsCredentialNotFound(err) {
			return &passkey.AuthResult{
				Success: false,
				Message: passkey.UserMessage(err),
			}, nil
		}
		return nil, passkey.WrapError("auth finish", err)
	}

	// A username-scoped challenge must conclude with a credential owned
	// by that username.
	if ch.Username != "" && ch.Username != cred.Username {
		return &passkey.AuthResult{
			Success: false,
			Message: passkey.UserMessage(passkey.ErrCredentialNotFound),
		}, nil
	}

	// Discoverable-mode success requires the client-reported user handle
	// to match the handle issued at registration.
	if result.Response.UserHandle != "" && result.Response.UserHandle != cred.UserHandle {
		return &passkey.AuthResult{
			Success: false,
			Message: passkey.UserMessage(passkey.ErrCredentialNotFound),
		}, nil
	}

	return &passkey.AuthResult{
		Success:  true,
		Username: cred.Username,
		Message:  fmt.Sprintf("welcome back, %s", cred.Username),
	}, nil
}

// ClearAll empties both collections. Test and reset flows only; not part
// of the protocol surface.
func (rp *RelyingParty) ClearAll(ctx context.Context) error {
	if err := rp.challenges.Clear(ctx); err != nil {
		return passkey.WrapError("clear all", err)
	}
	if err := rp.creds.Clear(ctx); err != nil {
		return passkey.WrapError("clear all", err)
	}
	return nil
}

// SweepExpiredChallenges removes challenges past their validity window
// and reports how many were removed. Safe to run on a timer; *Start calls
// also sweep lazily.
func (rp *RelyingParty) SweepExpiredChallenges(ctx context.Context) (int, error) {
	return rp.challenges.Sweep(ctx)
}

// newChallengeValue generates a fresh base64url-encoded random challenge.
func (rp *RelyingParty) newChallengeValue() (string, error) {
	buf := make([]byte, rp.config.ChallengeSize)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return codec.Encode(buf), nil
}

// parseClientData decodes and parses a wire clientDataJSON payload and
// checks its ceremony type discriminator.
func (rp *RelyingParty) parseClientData(encoded, wantType string) (*passkey.ClientData, error) {
	raw, err := codec.Decode(encoded)
	if err != nil {
		return nil, err
	}

	var clientData passkey.ClientData
	if err := json.Unmarshal(raw, &clientData); err != nil {
		return nil, fmt.Errorf("%w: %v", passkey.ErrInvalidRequest, err)
	}
	if clientData.Type != wantType {
		return nil, fmt.Errorf("%w: unexpected client data type %q", passkey.ErrInvalidRequest, clientData.Type)
	}
	return &clientData, nil
}
