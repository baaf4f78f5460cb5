// Package account defines the Account model and the storage contract the
// authentication flows depend on. Storage implementations (see the gormstore
// package) must enforce email uniqueness at the database level; the flows
// treat the unique index as the single source of truth for duplicates.
package account

import (
	"context"
	"errors"
	"time"
)

// Account represents one registered principal. The password hash is a bcrypt
// digest and is never serialized or returned to clients.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Projection is the subset of Account fields safe to return to a client.
// UpdatedAt is only populated for profile responses.
type Projection struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Projection returns the client-safe view of the account.
func (a *Account) Projection() Projection {
	return Projection{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
	}
}

var (
	// ErrNotFound is returned by lookups when no account matches.
	ErrNotFound = errors.New("account: not found")

	// ErrDuplicateEmail is returned by Create when the email unique index
	// rejects the write.
	ErrDuplicateEmail = errors.New("account: email already registered")
)

// Store defines the persistence operations consumed by the auth flows.
// Create assigns the account ID when it is empty and must map a storage-level
// uniqueness violation on email to ErrDuplicateEmail.
type Store interface {
	Create(ctx context.Context, a *Account) error
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
}
