package flow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/secureauth/secureauth/account"
)

// Register creates a new account and issues a token for it. clientKey
// identifies the caller for rate limiting (typically the source IP).
//
// The upfront duplicate lookup is an optimization only: the store's unique
// email index is authoritative, and a uniqueness violation at write time
// (two concurrent registrations racing on the same email) maps to the same
// ErrDuplicateAccount outcome as the lookup.
func (s *Service) Register(ctx context.Context, clientKey string, in RegisterInput) (*Result, error) {
	if err := s.checkRateLimit(ctx, clientKey); err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.store.FindByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, account.ErrNotFound) {
		return nil, fmt.Errorf("register: lookup email: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateAccount
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	acct := &account.Account{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.store.Create(ctx, acct); err != nil {
		if errors.Is(err, account.ErrDuplicateEmail) {
			return nil, ErrDuplicateAccount
		}
		return nil, fmt.Errorf("register: create account: %w", err)
	}

	tok, err := s.tokens.Issue(acct.ID, acct.Name, acct.Email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info("account registered",
		zap.String("account_id", acct.ID),
		zap.String("email", acct.Email),
	)

	return &Result{Account: acct.Projection(), Token: tok}, nil
}
