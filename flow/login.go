package flow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/secureauth/secureauth/account"
)

// Login authenticates an email/password pair and issues a token. An unknown
// email and a wrong password return the identical ErrInvalidCredentials so the
// response cannot reveal whether the account exists.
func (s *Service) Login(ctx context.Context, clientKey string, in LoginInput) (*Result, error) {
	if err := s.checkRateLimit(ctx, clientKey); err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	acct, err := s.store.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			s.log.Debug("login rejected, unknown email", zap.String("email", in.Email))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: lookup email: %w", err)
	}

	match, err := s.hasher.Compare(in.Password, acct.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !match {
		s.log.Debug("login rejected, password mismatch", zap.String("account_id", acct.ID))
		return nil, ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(acct.ID, acct.Name, acct.Email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info("login succeeded", zap.String("account_id", acct.ID))

	return &Result{Account: acct.Projection(), Token: tok}, nil
}
