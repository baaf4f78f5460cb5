// Package token issues and verifies the HS256 bearer tokens handed out by the
// register and login flows. Tokens are holder-side only: nothing is persisted
// server-side and there is no revocation or refresh mechanism, a token stays
// valid until the instant of expiry.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	Issuer   = "secureauth"
	Audience = "secureauth-frontend"

	// DefaultTTL applies when the configured TTL is zero.
	DefaultTTL = time.Hour
)

// ErrMissingSecret is returned by NewService when the signing secret is unset.
var ErrMissingSecret = errors.New("token: signing secret is not set")

// ErrInvalid covers every verification failure: malformed encoding, bad
// signature, expired, not yet valid, issuer or audience mismatch. Callers must
// not surface the underlying reason to clients; the wrapped detail is for
// server-side logging only.
var ErrInvalid = errors.New("token: invalid")

// Claims is the payload baked into issued tokens. Name and Email are
// informational only; authorization decisions use Subject alone.
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and verifies bearer tokens with a shared HMAC secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for the given account. Subject is the account id.
func (s *Service) Issue(subject, name, email string) (string, error) {
	now := s.now()
	claims := Claims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string. Any failure is reported as
// ErrInvalid; use errors.Is to detect it and log the full error internally.
func (s *Service) Verify(raw string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{},
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}
