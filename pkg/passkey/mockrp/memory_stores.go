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
	"sync"
	"time"

	"github.com/jeremyhahn/go-passkey/pkg/passkey"
)

// MemoryChallengeStore is an in-memory implementation of ChallengeStore.
// Construct one store per relying party instance; tests can instantiate
// isolated stores per test case.
type MemoryChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]*Challenge
	ttl        time.Duration
}

// NewMemoryChallengeStore creates an in-memory challenge store with the
// given validity window.
func NewMemoryChallengeStore(ttl time.Duration) *MemoryChallengeStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MemoryChallengeStore{
		challenges: make(map[string]*Challenge),
		ttl:        ttl,
	}
}

// Put records a freshly issued challenge keyed by its value.
func (s *MemoryChallengeStore) Put(ctx context.Context, ch *Challenge) error {
	if ch == nil || ch.Value == "" {
		return passkey.WrapError("put challenge", passkey.ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[ch.Value] = ch
	return nil
}

// Consume atomically removes and returns the challenge. A missing or
// expired entry yields ErrChallengeInvalid; expired entries are deleted on
// the way out so they can never be replayed.
func (s *MemoryChallengeStore) Consume(ctx context.Context, value string) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.challenges[value]
	if !ok {
		return nil, passkey.WrapError("consume challenge", passkey.ErrChallengeInvalid)
	}
	delete(s.challenges, value)

	if time.Since(ch.IssuedAt) > s.ttl {
		return nil, passkey.WrapError("consume challenge", passkey.ErrChallengeInvalid)
	}
	return ch, nil
}

// Sweep removes expired challenges and reports how many were removed.
func (s *MemoryChallengeStore) Sweep(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for value, ch := range s.challenges {
		if now.Sub(ch.IssuedAt) > s.ttl {
			delete(s.challenges, value)
			removed++
		}
	}
	return removed, nil
}

// Clear removes all challenges.
func (s *MemoryChallengeStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges = make(map[string]*Challenge)
	return nil
}

// Count returns the number of outstanding challenges.
func (s *MemoryChallengeStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.challenges)
}

// MemoryCredentialStore is an in-memory implementation of CredentialStore.
type MemoryCredentialStore struct {
	mu         sync.RWMutex
	byID       map[string]*StoredCredential
	byUsername map[string][]string
}

// NewMemoryCredentialStore creates an in-memory credential store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{
		byID:       make(map[string]*StoredCredential),
		byUsername: make(map[string][]string),
	}
}

// Save stores a new credential. Credential identifiers are unique within
// the store; a duplicate id is rejected.
func (s *MemoryCredentialStore) Save(ctx context.Context, cred *StoredCredential) error {
	if cred == nil || cred.ID == "" {
		return passkey.WrapError("save credential", passkey.ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[cred.ID]; ok {
		return passkey.WrapError("save credential", passkey.ErrDuplicateCredential)
	}

	s.byID[cred.ID] = cred
	s.byUsername[cred.Username] = append(s.byUsername[cred.Username], cred.ID)
	return nil
}

// GetByID retrieves a credential by its identifier.
func (s *MemoryCredentialStore) GetByID(ctx context.Context, id string) (*StoredCredential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.byID[id]
	if !ok {
		return nil, passkey.WrapError("get credential", passkey.ErrCredentialNotFound)
	}
	return cred, nil
}

// GetByUsername retrieves all credentials owned by a username.
func (s *MemoryCredentialStore) GetByUsername(ctx context.Context, username string) ([]*StoredCredential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUsername[username]
	creds := make([]*StoredCredential, 0, len(ids))
	for _, id := range ids {
		if cred, ok := s.byID[id]; ok {
			creds = append(creds, cred)
		}
	}
	return creds, nil
}

// Clear removes all credentials.
func (s *MemoryCredentialStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[string]*StoredCredential)
	s.byUsername = make(map[string][]string)
	return nil
}

// Count returns the total number of credentials in the store.
func (s *MemoryCredentialStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
