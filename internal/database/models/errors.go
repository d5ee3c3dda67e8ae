package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robalyx/fotowettbewerb/internal/database/types"
	"github.com/uptrace/bun/driver/pgdriver"
)

// PostgreSQL error codes the core distinguishes.
const (
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgLockNotAvailable    = "55P03"
	pgDeadlockDetected    = "40P01"
	pgSerializationFailed = "40001"
)

// ClassifyError maps a raw storage error onto the core error taxonomy.
// Errors already carrying a core sentinel are returned unchanged.
func ClassifyError(err error, action string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrNotVotable),
		errors.Is(err, types.ErrContentionTimeout),
		errors.Is(err, types.ErrConstraintViolation),
		errors.Is(err, types.ErrPersistenceFailure),
		errors.Is(err, types.ErrSlotLimitReached),
		errors.Is(err, types.ErrSequenceExhausted),
		errors.Is(err, types.ErrInvalidSubmitter),
		errors.Is(err, types.ErrInvalidPublicID):
		return err
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", action, types.ErrNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", action, err)
	}

	var pgerr pgdriver.Error
	if errors.As(err, &pgerr) {
		switch pgerr.Field('C') {
		case pgLockNotAvailable, pgDeadlockDetected, pgSerializationFailed:
			return fmt.Errorf("%s: %w: %w", action, types.ErrContentionTimeout, err)
		case pgUniqueViolation, pgCheckViolation:
			return fmt.Errorf("%s: %w: %w", action, types.ErrConstraintViolation, err)
		}
	}

	return fmt.Errorf("%s: %w: %w", action, types.ErrPersistenceFailure, err)
}
