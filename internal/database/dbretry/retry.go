package dbretry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	maxElapsedTime  = 10 * time.Second
	initialInterval = 200 * time.Millisecond
	maxInterval     = 2 * time.Second
	maxRetries      = uint64(3)
)

// IsRetryableError checks if the given error is a transient connection or server error.
// Lock contention (lock_not_available, deadlock_detected, serialization_failure) is deliberately
// absent: callers decide whether to retry those.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var pgerr pgdriver.Error
	if errors.As(err, &pgerr) {
		switch pgerr.Field('C') {
		case "08000", // connection_exception
			"08003", // connection_does_not_exist
			"08006", // connection_failure
			"08001", // sqlclient_unable_to_establish_sqlconnection
			"08004", // sqlserver_rejected_establishment_of_sqlconnection
			"08P01", // protocol_violation
			"53000", // insufficient_resources
			"53300", // too_many_connections
			"57P01", // admin_shutdown
			"57P02", // crash_shutdown
			"57P03": // cannot_connect_now
			return true
		}
		return false
	}

	// Check for common network error strings
	errMsg := err.Error()
	if strings.Contains(errMsg, "connection reset by peer") ||
		strings.Contains(errMsg, "broken pipe") ||
		strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "no connection") ||
		strings.Contains(errMsg, "i/o timeout") ||
		strings.Contains(errMsg, "unexpected EOF") {
		return true
	}

	return false
}

// Operation wraps a read-only database operation with retry logic.
// Writes must not use it: a retried commit could apply twice.
func Operation[T any](ctx context.Context, operation func(context.Context) (T, error)) (T, error) {
	var result T

	err := NoResult(ctx, func(ctx context.Context) error {
		var err error
		result, err = operation(ctx)
		return err
	})

	return result, err
}

// NoResult wraps a read-only database operation that doesn't return a result.
func NoResult(ctx context.Context, operation func(context.Context) error) error {
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(maxElapsedTime),
		backoff.WithInitialInterval(initialInterval),
		backoff.WithMaxInterval(maxInterval),
	), maxRetries)

	var lastErr error
	err := backoff.Retry(func() error {
		err := operation(ctx)
		if err != nil {
			lastErr = err
			if !IsRetryableError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		if lastErr != nil {
			// Return the last actual database error instead of the retry error
			return lastErr
		}
		return fmt.Errorf("database operation failed: %w", err)
	}

	return nil
}
