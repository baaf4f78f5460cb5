package flow

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher defines the interface for password hashing and verification.
// Compare reports whether the password matches; it returns an error only for
// a malformed digest, never for a mismatch.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) (bool, error)
}

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 12

// BcryptHasher hashes passwords with bcrypt. Each call salts independently, so
// hashing the same password twice yields different digests, and the digest
// embeds salt and cost so Compare needs no out-of-band parameters.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("hasher: %w", err)
	}
	return string(bytes), nil
}

func (h *BcryptHasher) Compare(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("hasher: malformed digest: %w", err)
	}
}
