// Package gormstore is the GORM-backed implementation of account.Store.
// Email uniqueness is enforced by a database unique index, which makes it the
// single source of truth under concurrent registrations; the flows' upfront
// duplicate check is only an optimization.
package gormstore

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/secureauth/secureauth/account"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DB() *gorm.DB {
	return r.db
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&gormAccount{})
}

// Create inserts the account and assigns its ID when empty. A unique-index
// violation on email is reported as account.ErrDuplicateEmail.
func (r *Repository) Create(ctx context.Context, a *account.Account) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	rec := fromAccount(a)
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return account.ErrDuplicateEmail
		}
		return err
	}

	a.CreatedAt = rec.CreatedAt
	a.UpdatedAt = rec.UpdatedAt
	return nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	var rec gormAccount
	if err := r.db.WithContext(ctx).First(&rec, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrNotFound
		}
		return nil, err
	}
	return toAccount(&rec), nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*account.Account, error) {
	var rec gormAccount
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrNotFound
		}
		return nil, err
	}
	return toAccount(&rec), nil
}

// isUniqueViolation also matches on driver message text for dialects whose
// translator does not map constraint errors to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") || // sqlite
		strings.Contains(msg, "duplicate key") || // postgres
		strings.Contains(msg, "Duplicate entry") // mysql
}
