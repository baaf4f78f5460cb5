package flow

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter guards the public credential endpoints against brute force.
// Allow atomically increments and checks the counter for the key; retryAfter
// is the remaining window time when the request is denied.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, retryAfter time.Duration, err error)

	// Reset clears the counter for the given key.
	Reset(ctx context.Context, key string) error
}

// RateLimitError is returned by a flow when a request is rate limited.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %v", e.RetryAfter)
}

// AsRateLimitError extracts a RateLimitError from err if possible.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	e, ok := err.(*RateLimitError)
	return e, ok
}

type fixedWindowEntry struct {
	count     int
	expiresAt time.Time
}

// FixedWindowRateLimiter counts requests per key within wall-clock windows
// aligned to the first request in each window. Expired entries are replaced
// lazily on the next request for their key; Sweep reclaims the rest.
type FixedWindowRateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]*fixedWindowEntry
	now     func() time.Time
}

func NewFixedWindowRateLimiter(limit int, window time.Duration) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*fixedWindowEntry),
		now:     time.Now,
	}
}

func (r *FixedWindowRateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Duration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	entry, exists := r.entries[key]

	if !exists || !now.Before(entry.expiresAt) {
		r.entries[key] = &fixedWindowEntry{
			count:     1,
			expiresAt: now.Add(r.window),
		}
		return true, r.limit - 1, 0, nil
	}

	if entry.count >= r.limit {
		return false, 0, entry.expiresAt.Sub(now), nil
	}

	entry.count++
	return true, r.limit - entry.count, 0, nil
}

func (r *FixedWindowRateLimiter) Reset(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
	return nil
}

// Sweep removes entries whose window has elapsed. Callers that track many
// distinct keys can invoke it periodically to bound memory.
func (r *FixedWindowRateLimiter) Sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for key, entry := range r.entries {
		if !now.Before(entry.expiresAt) {
			delete(r.entries, key)
		}
	}
}
