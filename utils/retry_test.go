package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
)

func recordingConfig(sleeps *[]time.Duration) RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		Delay:       2 * time.Second,
		Sleep:       func(d time.Duration) { *sleeps = append(*sleeps, d) },
	}
}

func TestWithLockRetry_SucceedsAfterContention(t *testing.T) {
	var sleeps []time.Duration
	attempts := 0

	err := WithLockRetry(context.Background(), "load customer data", recordingConfig(&sleeps), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after contention, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if len(sleeps) != 2 {
		t.Fatalf("expected 2 sleeps, got %d", len(sleeps))
	}
	for _, d := range sleeps {
		if d != 2*time.Second {
			t.Fatalf("expected fixed 2s delay, got %v", d)
		}
	}
}

func TestWithLockRetry_ExhaustsBudget(t *testing.T) {
	var sleeps []time.Duration
	attempts := 0

	err := WithLockRetry(context.Background(), "load customer data", recordingConfig(&sleeps), func() error {
		attempts++
		return errors.New("database is locked")
	})
	if err == nil {
		t.Fatal("expected terminal error after exhausting retries")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if !strings.Contains(err.Error(), "load customer data") || !strings.Contains(err.Error(), "3 attempts") {
		t.Fatalf("terminal error should name the operation and attempt count, got %q", err)
	}
	// No sleep after the final attempt.
	if len(sleeps) != 2 {
		t.Fatalf("expected 2 sleeps, got %d", len(sleeps))
	}
}

func TestWithLockRetry_NonLockErrorFailsFast(t *testing.T) {
	var sleeps []time.Duration
	attempts := 0
	boom := errors.New("UNIQUE constraint failed: customers.customer_id")

	err := WithLockRetry(context.Background(), "load customer data", recordingConfig(&sleeps), func() error {
		attempts++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected original error, got %v", err)
	}
	if attempts != 1 || len(sleeps) != 0 {
		t.Fatalf("non-lock error must not retry: %d attempts, %d sleeps", attempts, len(sleeps))
	}
}

func TestWithLockRetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithLockRetry(ctx, "load customer data", DefaultRetryConfig(), func() error {
		t.Fatal("fn must not run after cancellation")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestIsLockError(t *testing.T) {
	cases := []struct {
		err      error
		expected bool
	}{
		{nil, false},
		{errors.New("database is locked"), true},
		{errors.New("database table is locked"), true},
		{fmt.Errorf("create orders: %w", errors.New("database is locked")), true},
		{&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}, true},
		{&mysql.MySQLError{Number: 1213, Message: "Deadlock found"}, true},
		{&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, false},
		{errors.New("no such table: orders"), false},
	}
	for _, tc := range cases {
		if got := IsLockError(tc.err); got != tc.expected {
			t.Fatalf("IsLockError(%v) expected %v, got %v", tc.err, tc.expected, got)
		}
	}
}
