package flow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/secureauth/secureauth/account"
	"github.com/secureauth/secureauth/token"
)

// mockStore enforces email uniqueness under a single lock, mirroring the
// database unique index: concurrent creates for the same email yield exactly
// one success.
type mockStore struct {
	mu      sync.Mutex
	byEmail map[string]*account.Account
	byID    map[string]*account.Account
}

func newMockStore() *mockStore {
	return &mockStore{
		byEmail: make(map[string]*account.Account),
		byID:    make(map[string]*account.Account),
	}
}

func (m *mockStore) Create(ctx context.Context, a *account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[a.Email]; ok {
		return account.ErrDuplicateEmail
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt

	cp := *a
	m.byEmail[a.Email] = &cp
	m.byID[a.ID] = &cp
	return nil
}

func (m *mockStore) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byEmail[email]
	if !ok {
		return nil, account.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockStore) FindByID(ctx context.Context, id string) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, account.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockStore) delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.byID[id]; ok {
		delete(m.byEmail, a.Email)
		delete(m.byID, id)
	}
}

func newTestService(t *testing.T, store account.Store, limiter RateLimiter) *Service {
	t.Helper()
	tokens, err := token.NewService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return NewService(store, NewBcryptHasher(bcrypt.MinCost), tokens, limiter, nil)
}
