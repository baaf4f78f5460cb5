// Package flow implements the authentication state transitions: Register,
// Login, and Profile. A Service orchestrates input validation, rate limiting,
// the account store, password hashing, and token issuance. Everything the
// service depends on is injected, there is no package-level state.
package flow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/secureauth/secureauth/account"
	"github.com/secureauth/secureauth/token"
)

// Service wires the authentication flows together.
type Service struct {
	store   account.Store
	hasher  Hasher
	tokens  *token.Service
	limiter RateLimiter
	log     *zap.Logger
}

// NewService builds a Service. The limiter may be nil, in which case the
// public flows are not rate limited (useful for tests).
func NewService(store account.Store, hasher Hasher, tokens *token.Service, limiter RateLimiter, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:   store,
		hasher:  hasher,
		tokens:  tokens,
		limiter: limiter,
		log:     log,
	}
}

// Result is the success payload of Register and Login.
type Result struct {
	Account account.Projection
	Token   string
}

// checkRateLimit runs the fixed-window guard for a public flow. The limiter's
// increment-and-check is atomic per key; a limiter error denies the request.
func (s *Service) checkRateLimit(ctx context.Context, clientKey string) error {
	if s.limiter == nil {
		return nil
	}

	allowed, _, retryAfter, err := s.limiter.Allow(ctx, clientKey)
	if err != nil {
		return fmt.Errorf("rate limit check: %w", err)
	}
	if !allowed {
		s.log.Warn("rate limit exceeded",
			zap.String("client", clientKey),
			zap.Duration("retry_after", retryAfter),
		)
		return &RateLimitError{RetryAfter: retryAfter}
	}
	return nil
}
