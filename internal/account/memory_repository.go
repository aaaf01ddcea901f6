package account

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps accounts in process memory. Used for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*Account
	byEmail map[string]string
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*Account),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (m *MemoryStore) ValidID(id string) bool {
	return uuid.Validate(id) == nil
}

func (m *MemoryStore) FindByEmail(_ context.Context, email string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return m.copyOf(id), nil
}

func (m *MemoryStore) FindByID(_ context.Context, id string) (*Account, error) {
	if !m.ValidID(id) {
		return nil, ErrInvalidID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.byID[id]; !ok {
		return nil, ErrNotFound
	}
	return m.copyOf(id), nil
}

func (m *MemoryStore) Insert(_ context.Context, a *Account) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byEmail[a.Email]; taken {
		return nil, ErrDuplicateEmail
	}

	now := m.now().UTC()
	stored := *a
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	m.byID[stored.ID] = &stored
	m.byEmail[stored.Email] = stored.ID

	return m.copyOf(stored.ID), nil
}

func (m *MemoryStore) UpdateFields(_ context.Context, id string, u Update) error {
	if !m.ValidID(id) {
		return ErrInvalidID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	if u.Name != nil {
		acct.Name = *u.Name
	}
	if u.PasswordHash != nil {
		acct.PasswordHash = *u.PasswordHash
	}
	acct.UpdatedAt = m.now().UTC()

	return nil
}

func (m *MemoryStore) DeleteByID(_ context.Context, id string) error {
	if !m.ValidID(id) {
		return ErrInvalidID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acct, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.byEmail, acct.Email)
	delete(m.byID, id)

	return nil
}

// copyOf must be called with m.mu held.
func (m *MemoryStore) copyOf(id string) *Account {
	acct := *m.byID[id]
	return &acct
}
