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
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-passkey/pkg/passkey"
)

func TestMemoryChallengeStore_ConsumeOnce(t *testing.T) {
	store := NewMemoryChallengeStore(5 * time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &Challenge{
		Value:    "challenge-1",
		Username: "alice",
		IssuedAt: time.Now(),
	}))
	assert.Equal(t, 1, store.Count())

	ch, err := store.Consume(ctx, "challenge-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", ch.Username)
	assert.Equal(t, 0, store.Count())

	_, err = store.Consume(ctx, "challenge-1")
	assert.ErrorIs(t, err, passkey.ErrChallengeInvalid)
}

func TestMemoryChallengeStore_ConsumeConcurrent(t *testing.T) {
	store := NewMemoryChallengeStore(5 * time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &Challenge{
		Value:    "contended",
		IssuedAt: time.Now(),
	}))

	// Exactly one of N concurrent consumers wins.
	const workers = 16
	var wg sync.WaitGroup
	wins := make(chan struct{}, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Consume(ctx, "contended"); err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	assert.Len(t, wins, 1)
}

func TestMemoryChallengeStore_Expiry(t *testing.T) {
	store := NewMemoryChallengeStore(10 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &Challenge{
		Value:    "short-lived",
		IssuedAt: time.Now().Add(-time.Second),
	}))

	// Expired entries fail consumption and are removed in the process.
	_, err := store.Consume(ctx, "short-lived")
	assert.ErrorIs(t, err, passkey.ErrChallengeInvalid)
	assert.Equal(t, 0, store.Count())
}

func TestMemoryChallengeStore_Sweep(t *testing.T) {
	store := NewMemoryChallengeStore(time.Minute)
	ctx := context.Background()

	for i := range 5 {
		require.NoError(t, store.Put(ctx, &Challenge{
			Value:    fmt.Sprintf("expired-%d", i),
			IssuedAt: time.Now().Add(-time.Hour),
		}))
	}
	require.NoError(t, store.Put(ctx, &Challenge{
		Value:    "fresh",
		IssuedAt: time.Now(),
	}))

	removed, err := store.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, removed)
	assert.Equal(t, 1, store.Count())

	// Fresh challenge survives and remains consumable.
	_, err = store.Consume(ctx, "fresh")
	assert.NoError(t, err)

	removed, err = store.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestMemoryChallengeStore_Clear(t *testing.T) {
	store := NewMemoryChallengeStore(0)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &Challenge{Value: "a", IssuedAt: time.Now()}))
	require.NoError(t, store.Put(ctx, &Challenge{Value: "b", IssuedAt: time.Now()}))
	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, 0, store.Count())
}

func TestMemoryChallengeStore_RejectsEmptyValue(t *testing.T) {
	store := NewMemoryChallengeStore(0)

	err := store.Put(context.Background(), &Challenge{IssuedAt: time.Now()})
	assert.ErrorIs(t, err, passkey.ErrInvalidRequest)

	err = store.Put(context.Background(), nil)
	assert.ErrorIs(t, err, passkey.ErrInvalidRequest)
}

func TestMemoryCredentialStore_SaveAndLookup(t *testing.T) {
	store := NewMemoryCredentialStore()
	ctx := context.Background()

	cred := &StoredCredential{
		ID:        "cred-1",
		Username:  "alice",
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.Save(ctx, cred))
	assert.Equal(t, 1, store.Count())

	got, err := store.GetByID(ctx, "cred-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	creds, err := store.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, "cred-1", creds[0].ID)
}

func TestMemoryCredentialStore_DuplicateID(t *testing.T) {
	store := NewMemoryCredentialStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &StoredCredential{ID: "cred-1", Username: "alice"}))

	err := store.Save(ctx, &StoredCredential{ID: "cred-1", Username: "bob"})
	assert.ErrorIs(t, err, passkey.ErrDuplicateCredential)
	assert.Equal(t, 1, store.Count())
}

func TestMemoryCredentialStore_NotFound(t *testing.T) {
	store := NewMemoryCredentialStore()

	_, err := store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, passkey.ErrCredentialNotFound)
}

func TestMemoryCredentialStore_GetByUsername_Empty(t *testing.T) {
	store := NewMemoryCredentialStore()

	creds, err := store.GetByUsername(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, creds)
	assert.Empty(t, creds)
}

func TestMemoryCredentialStore_MultiplePerUser(t *testing.T) {
	store := NewMemoryCredentialStore()
	ctx := context.Background()

	for i := range 3 {
		require.NoError(t, store.Save(ctx, &StoredCredential{
			ID:       fmt.Sprintf("cred-%d", i),
			Username: "alice",
		}))
	}

	creds, err := store.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, creds, 3)
}

func TestMemoryCredentialStore_Clear(t *testing.T) {
	store := NewMemoryCredentialStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &StoredCredential{ID: "cred-1", Username: "alice"}))
	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, 0, store.Count())

	creds, err := store.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, creds)
}
