package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/secureauth/secureauth/account"
)

// Profile returns the client-safe view of the account behind a verified token
// subject. The subject comes from the auth guard; Profile re-fetches the
// account so a token that outlived its account is caught here and reported as
// ErrAccountNotFound, which is a distinct outcome from invalid credentials.
func (s *Service) Profile(ctx context.Context, subject string) (*account.Projection, error) {
	acct, err := s.store.FindByID(ctx, subject)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("profile: lookup account: %w", err)
	}

	p := acct.Projection()
	p.UpdatedAt = acct.UpdatedAt
	return &p, nil
}
