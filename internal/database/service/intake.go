package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robalyx/fotowettbewerb/internal/database/models"
	"github.com/robalyx/fotowettbewerb/internal/database/types"
	"github.com/robalyx/fotowettbewerb/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// IntakeService handles submission creation and asset callbacks.
type IntakeService struct {
	submissionModel *models.SubmissionModel
	identifier      *IdentifierService
	dispatcher      ThumbnailDispatcher
	maxActive       int
	logger          *zap.Logger
}

// NewIntake creates a new intake service.
func NewIntake(
	submissionModel *models.SubmissionModel,
	identifier *IdentifierService,
	dispatcher ThumbnailDispatcher,
	maxActive int,
	logger *zap.Logger,
) *IntakeService {
	return &IntakeService{
		submissionModel: submissionModel,
		identifier:      identifier,
		dispatcher:      dispatcher,
		maxActive:       maxActive,
		logger:          logger.Named("intake_service"),
	}
}

// CreateSubmission stores a new submission with status new and a freshly allocated public ID.
// When a slot limit is configured the submitter's active submissions are counted under the
// same year lock as the allocation.
func (s *IntakeService) CreateSubmission(
	ctx context.Context, submitter types.Submitter, files types.FileRefs,
) (*types.Submission, error) {
	if err := submitter.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	submission := &types.Submission{
		SubmitterUserID: submitter.UserID,
		SubmitterToken:  submitter.VisitorToken,
		Status:          enum.SubmissionStatusNew,
		FilePath:        files.FilePath,
		ThumbnailPath:   files.ThumbnailPath,
		SubmittedAt:     now,
	}

	_, err := s.identifier.Allocate(ctx, now.Year(), func(ctx context.Context, tx bun.Tx, publicID string) error {
		if s.maxActive > 0 {
			active, err := s.submissionModel.CountActiveBySubmitterWithTx(ctx, tx, submitter)
			if err != nil {
				return err
			}
			if active >= s.maxActive {
				return fmt.Errorf("%w: %d of %d in use", types.ErrSlotLimitReached, active, s.maxActive)
			}
		}

		submission.PublicID = publicID
		return s.submissionModel.CreateWithTx(ctx, tx, submission)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Created submission",
		zap.Uint64("id", submission.ID),
		zap.String("publicID", submission.PublicID),
		zap.Stringer("submitter", submitter))

	if submission.FilePath != "" && submission.ThumbnailPath == "" {
		dispatchThumbnail(ctx, s.dispatcher, s.logger, submission, types.ThumbnailReasonIntake)
	}

	return submission, nil
}

// SetThumbnail records the thumbnail produced for a submission.
func (s *IntakeService) SetThumbnail(ctx context.Context, id uint64, thumbnailPath string) error {
	return s.submissionModel.SetThumbnail(ctx, id, thumbnailPath)
}

// ActiveSubmissionCount counts the submissions of submitter that are new or approved.
func (s *IntakeService) ActiveSubmissionCount(ctx context.Context, submitter types.Submitter) (int, error) {
	if err := submitter.Validate(); err != nil {
		return 0, err
	}
	return s.submissionModel.CountActiveBySubmitter(ctx, submitter)
}

// RemainingSlots returns how many more submissions submitter may enter, or -1 without a limit.
func (s *IntakeService) RemainingSlots(ctx context.Context, submitter types.Submitter) (int, error) {
	if s.maxActive <= 0 {
		return -1, nil
	}

	active, err := s.ActiveSubmissionCount(ctx, submitter)
	if err != nil {
		return 0, err
	}
	return max(s.maxActive-active, 0), nil
}

// ListBySubmitter returns the submissions of submitter, newest first.
func (s *IntakeService) ListBySubmitter(ctx context.Context, submitter types.Submitter) ([]*types.Submission, error) {
	if err := submitter.Validate(); err != nil {
		return nil, err
	}
	return s.submissionModel.ListBySubmitter(ctx, submitter)
}

// dispatchThumbnail queues a thumbnail job after the owning transaction committed.
// Failures are logged since the state change already took effect.
func dispatchThumbnail(
	ctx context.Context, dispatcher ThumbnailDispatcher, logger *zap.Logger,
	submission *types.Submission, reason string,
) {
	job := &types.ThumbnailJob{
		SubmissionID: submission.ID,
		FilePath:     submission.FilePath,
		Reason:       reason,
		QueuedAt:     time.Now(),
	}

	if err := dispatcher.Dispatch(ctx, job); err != nil {
		logger.Warn("Failed to dispatch thumbnail job",
			zap.Error(err),
			zap.Uint64("submissionID", submission.ID),
			zap.String("reason", reason))
	}
}
