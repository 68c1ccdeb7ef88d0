package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
	Sleep       func(time.Duration)
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		Delay:       2 * time.Second,
		Sleep:       time.Sleep,
	}
}

// IsLockError reports whether err is transient lock contention:
// SQLite SQLITE_BUSY/SQLITE_LOCKED surfaced as "database is locked" /
// "database table is locked", or MySQL lock wait timeout / deadlock.
// Integrity and syntax errors are never retryable.
func IsLockError(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlErrLockWaitTimeout || myErr.Number == mysqlErrDeadlock
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// WithLockRetry runs fn, a complete write unit of work (transaction
// included), retrying only on lock contention. Any other failure aborts
// immediately. Exhausting the budget returns a terminal error naming the
// operation and the attempt count. Reads are never routed through here:
// they are idempotent and callers may simply re-issue them.
func WithLockRetry(ctx context.Context, op string, cfg RetryConfig, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}

	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = fn()
		if err == nil {
			return nil
		}
		if !IsLockError(err) {
			return err
		}
		if attempt < cfg.MaxAttempts {
			cfg.Sleep(cfg.Delay)
		}
	}
	return fmt.Errorf("%s: database still locked after %d attempts: %w", op, cfg.MaxAttempts, err)
}
