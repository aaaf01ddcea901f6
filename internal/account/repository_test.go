package account

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	created, err := s.Insert(ctx, &Account{Name: "Ana", Email: "ana@x.com", PasswordHash: "h1"})
	require.NoError(t, err)
	assert.True(t, s.ValidID(created.ID))
	assert.False(t, created.CreatedAt.IsZero())

	byEmail, err := s.FindByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, created, byEmail)

	name := "Bia"
	require.NoError(t, s.UpdateFields(ctx, created.ID, Update{Name: &name}))
	byID, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bia", byID.Name)
	assert.Equal(t, "h1", byID.PasswordHash)

	// Returned accounts are copies.
	byID.Name = "mutated"
	again, _ := s.FindByID(ctx, created.ID)
	assert.Equal(t, "Bia", again.Name)

	require.NoError(t, s.DeleteByID(ctx, created.ID))
	_, err = s.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteByID(ctx, created.ID), ErrNotFound)

	// The email is free again.
	_, err = s.Insert(ctx, &Account{Name: "Ana", Email: "ana@x.com", PasswordHash: "h2"})
	assert.NoError(t, err)
}

func TestMemoryStore_InvalidID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.FindByID(ctx, "abc")
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.ErrorIs(t, s.UpdateFields(ctx, "abc", Update{}), ErrInvalidID)
	assert.ErrorIs(t, s.DeleteByID(ctx, "abc"), ErrInvalidID)
}

func TestMemoryStore_ConcurrentInsertsKeepEmailUnique(t *testing.T) {
	s := NewMemoryStore()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Insert(context.Background(), &Account{Name: "Ana", Email: "ana@x.com", PasswordHash: "h"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, ErrDuplicateEmail):
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 19, dup)
}

func TestAccount_JSONOmitsHash(t *testing.T) {
	acct := Account{ID: "1", Name: "Ana", Email: "ana@x.com", PasswordHash: "secret-hash"}

	assert.Equal(t, "1", acct.Profile().ID)
	assert.NotContains(t, mustJSON(t, acct), "secret-hash")
	assert.NotContains(t, mustJSON(t, acct.Profile()), "secret-hash")
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
