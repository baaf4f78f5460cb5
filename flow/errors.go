package flow

import "errors"

// Domain outcomes surfaced to callers. Messages are client-safe and never
// expose the internal cause.
var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. Both cases produce this exact error so responses cannot be
	// used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrDuplicateAccount is the conflict outcome for a registration whose
	// email is already taken, whether caught by the upfront lookup or by the
	// store's unique index at write time.
	ErrDuplicateAccount = errors.New("email is already registered")

	// ErrAccountNotFound is returned by Profile when a verified token
	// outlives its account.
	ErrAccountNotFound = errors.New("account not found")
)
