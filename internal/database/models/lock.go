package models

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// SetLockTimeout bounds how long statements in tx wait for row and advisory locks.
// The setting is transaction-scoped and resets on commit or rollback.
func SetLockTimeout(ctx context.Context, tx bun.Tx, timeout time.Duration) error {
	if timeout <= 0 {
		return nil
	}

	_, err := tx.NewRaw("SELECT set_config('lock_timeout', ?, true)", fmt.Sprintf("%dms", timeout.Milliseconds())).
		Exec(ctx)
	if err != nil {
		return ClassifyError(err, "failed to set lock timeout")
	}
	return nil
}

// LockKey takes a transaction-scoped advisory lock on key.
// The lock is released when tx ends.
func LockKey(ctx context.Context, tx bun.Tx, key string) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", key).Exec(ctx)
	if err != nil {
		return ClassifyError(err, "failed to acquire lock "+key)
	}
	return nil
}
