package flow

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestRegisterThenLogin(t *testing.T) {
	store := newMockStore()
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "client", RegisterInput{
		Name:     "Ann Lee",
		Email:    "ann@example.com",
		Password: "correcthorse1",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if reg.Account.ID == "" {
		t.Fatal("expected a store-assigned account id")
	}
	if reg.Token == "" {
		t.Fatal("expected a token")
	}

	login, err := svc.Login(ctx, "client", LoginInput{
		Email:    "ann@example.com",
		Password: "correcthorse1",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if login.Account.ID != reg.Account.ID {
		t.Errorf("login returned account %q, registered %q", login.Account.ID, reg.Account.ID)
	}
}

func TestRegisterNormalizesEmailAndHidesPassword(t *testing.T) {
	store := newMockStore()
	svc := newTestService(t, store, nil)

	res, err := svc.Register(context.Background(), "client", RegisterInput{
		Name:     "Ann Lee",
		Email:    "Ann@Example.Com",
		Password: "correcthorse1",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if res.Account.Email != "ann@example.com" {
		t.Errorf("stored email not lowercased: %q", res.Account.Email)
	}

	stored, err := store.FindByEmail(context.Background(), "ann@example.com")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "correcthorse1" {
		t.Error("password hash must be set and must not equal the plaintext")
	}

	body, err := json.Marshal(res.Account)
	if err != nil {
		t.Fatalf("marshal projection: %v", err)
	}
	if strings.Contains(strings.ToLower(string(body)), "password") {
		t.Errorf("projection leaks a password field: %s", body)
	}
}

func TestRegisterDuplicateSequential(t *testing.T) {
	store := newMockStore()
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	in := RegisterInput{Name: "Ann Lee", Email: "ann@example.com", Password: "correcthorse1"}
	if _, err := svc.Register(ctx, "client", in); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := svc.Register(ctx, "client", in)
	if !errors.Is(err, ErrDuplicateAccount) {
		t.Errorf("expected ErrDuplicateAccount, got %v", err)
	}
}

func TestRegisterDuplicateConcurrent(t *testing.T) {
	store := newMockStore()
	svc := newTestService(t, store, nil)
	ctx := context.Background()

	const racers = 8
	var wg sync.WaitGroup
	results := make(chan error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, "client", RegisterInput{
				Name:     "Ann Lee",
				Email:    "ann@example.com",
				Password: "correcthorse1",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, duplicates := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrDuplicateAccount):
			duplicates++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("expected exactly 1 success, got %d", successes)
	}
	if duplicates != racers-1 {
		t.Errorf("expected %d duplicate outcomes, got %d", racers-1, duplicates)
	}
}

func TestRegisterValidationStopsFlow(t *testing.T) {
	store := newMockStore()
	svc := newTestService(t, store, nil)

	_, err := svc.Register(context.Background(), "client", RegisterInput{
		Name:     "A",
		Email:    "bad",
		Password: "short",
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(store.byEmail) != 0 {
		t.Error("no account must be created on validation failure")
	}
}

func TestRegisterRateLimited(t *testing.T) {
	store := newMockStore()
	limiter := NewFixedWindowRateLimiter(2, 15*time.Minute)
	svc := newTestService(t, store, limiter)
	ctx := context.Background()

	svc.Register(ctx, "198.51.100.7", RegisterInput{Name: "Ann Lee", Email: "a1@example.com", Password: "correcthorse1"})
	svc.Register(ctx, "198.51.100.7", RegisterInput{Name: "Ann Lee", Email: "a2@example.com", Password: "correcthorse1"})

	_, err := svc.Register(ctx, "198.51.100.7", RegisterInput{Name: "Ann Lee", Email: "a3@example.com", Password: "correcthorse1"})
	rle, ok := AsRateLimitError(err)
	if !ok {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rle.RetryAfter <= 0 || rle.RetryAfter > 15*time.Minute {
		t.Errorf("retry hint out of range: %v", rle.RetryAfter)
	}

	// Another client is unaffected.
	if _, err := svc.Register(ctx, "203.0.113.9", RegisterInput{Name: "Ann Lee", Email: "a4@example.com", Password: "correcthorse1"}); err != nil {
		t.Errorf("different client should not be limited: %v", err)
	}
}
