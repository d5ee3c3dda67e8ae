package service

import (
	"context"
	"time"

	"github.com/robalyx/fotowettbewerb/internal/database/models"
	"github.com/robalyx/fotowettbewerb/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// IdentifierService allocates year-scoped sequential public IDs.
type IdentifierService struct {
	db          *bun.DB
	model       *models.SubmissionModel
	lockTimeout time.Duration
	logger      *zap.Logger
}

// NewIdentifier creates a new identifier service.
func NewIdentifier(
	db *bun.DB,
	model *models.SubmissionModel,
	lockTimeout time.Duration,
	logger *zap.Logger,
) *IdentifierService {
	return &IdentifierService{
		db:          db,
		model:       model,
		lockTimeout: lockTimeout,
		logger:      logger.Named("identifier_service"),
	}
}

// Allocate reserves the next public ID of year and passes it to fn inside one transaction.
// The year lock is held until fn returns and the transaction commits, so fn must perform
// the insert that consumes the ID. Lock waits beyond the configured timeout fail with
// types.ErrContentionTimeout.
func (s *IdentifierService) Allocate(
	ctx context.Context, year int, fn func(ctx context.Context, tx bun.Tx, publicID string) error,
) (string, error) {
	var publicID string

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		publicID, err = s.AllocateWithTx(ctx, tx, year)
		if err != nil {
			return err
		}
		return fn(ctx, tx, publicID)
	})
	if err != nil {
		return "", models.ClassifyError(err, "failed to allocate public id")
	}

	return publicID, nil
}

// AllocateWithTx takes the year lock in tx and computes the next public ID.
// The ID is only reserved once the caller inserts it before tx commits.
func (s *IdentifierService) AllocateWithTx(ctx context.Context, tx bun.Tx, year int) (string, error) {
	if err := models.SetLockTimeout(ctx, tx, s.lockTimeout); err != nil {
		return "", err
	}

	prefix := types.PublicIDYearPrefix(year)
	if err := models.LockKey(ctx, tx, prefix); err != nil {
		return "", err
	}

	last, err := s.model.LastPublicIDWithTx(ctx, tx, year)
	if err != nil {
		return "", err
	}

	next, err := types.NextPublicID(last, year)
	if err != nil {
		return "", err
	}

	s.logger.Debug("Allocated public id",
		zap.String("last", last),
		zap.String("next", next))

	return next, nil
}
