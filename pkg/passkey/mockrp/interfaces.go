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
	"time"
)

// Challenge is a single-use random token issued for one ceremony attempt.
// Registration challenges carry the username, display name and generated
// user handle so the finish operation can bind the resulting credential to
// the identity that started the ceremony. Authentication challenges for
// discoverable mode have an empty username.
type Challenge struct {
	// Value is the base64url-encoded random token; it keys the store.
	Value string `json:"value"`

	// Username is the account the ceremony is scoped to, empty for
	// discoverable-mode authentication.
	Username string `json:"username,omitempty"`

	// DisplayName accompanies registration challenges.
	DisplayName string `json:"display_name,omitempty"`

	// UserHandle is the base64url-encoded user id generated for a
	// registration ceremony.
	UserHandle string `json:"user_handle,omitempty"`

	// IssuedAt is when the challenge was generated.
	IssuedAt time.Time `json:"issued_at"`
}

// StoredCredential is a public-key credential record persisted after a
// successful registration. The mock stores the raw attestation payload in
// place of a parsed public key; private key material never appears here.
// Records are immutable once saved.
type StoredCredential struct {
	// ID is the base64url-encoded credential identifier; it keys the
	// store and is unique within the relying party.
	ID string `json:"id"`

	// Attestation is the raw attestation object payload from registration.
	Attestation []byte `json:"attestation"`

	// Username is the owning account.
	Username string `json:"username"`

	// DisplayName is the owning account's display name.
	DisplayName string `json:"display_name,omitempty"`

	// UserHandle is the base64url-encoded user id issued at registration.
	UserHandle string `json:"user_handle,omitempty"`

	// CreatedAt is when the credential was registered.
	CreatedAt time.Time `json:"created_at"`
}

// ChallengeStore tracks outstanding challenges keyed by their value.
// Consume must provide atomic check-and-delete semantics: no two finish
// operations may conclude the same challenge, even from concurrent
// callers sharing one store.
type ChallengeStore interface {
	// Put records a freshly issued challenge.
	Put(ctx context.Context, ch *Challenge) error

	// Consume atomically removes and returns the challenge with the given
	// value. Returns ErrChallengeInvalid when the challenge is missing,
	// already consumed, or older than the store's validity window.
	Consume(ctx context.Context, value string) (*Challenge, error)

	// Sweep removes challenges older than the validity window and returns
	// how many were removed. It is idempotent and has no side effects
	// beyond deletion.
	Sweep(ctx context.Context) (int, error)

	// Clear removes all challenges.
	Clear(ctx context.Context) error
}

// CredentialStore persists credentials keyed by their identifier, with a
// secondary lookup by owning username.
type CredentialStore interface {
	// Save stores a new credential. Returns ErrDuplicateCredential when
	// the identifier is already present.
	Save(ctx context.Context, cred *StoredCredential) error

	// GetByID retrieves a credential by its identifier. Returns
	// ErrCredentialNotFound when absent.
	GetByID(ctx context.Context, id string) (*StoredCredential, error)

	// GetByUsername retrieves all credentials owned by a username.
	// Returns an empty slice when the user has none.
	GetByUsername(ctx context.Context, username string) ([]*StoredCredential, error)

	// Clear removes all credentials.
	Clear(ctx context.Context) error
}
