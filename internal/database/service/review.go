package service

import (
	"context"
	"time"

	"github.com/robalyx/fotowettbewerb/internal/database/models"
	"github.com/robalyx/fotowettbewerb/internal/database/types"
	"github.com/robalyx/fotowettbewerb/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ReviewService handles moderator decisions on submissions.
type ReviewService struct {
	db              *bun.DB
	submissionModel *models.SubmissionModel
	audit           *AuditService
	dispatcher      ThumbnailDispatcher
	logger          *zap.Logger
}

// NewReview creates a new review service.
func NewReview(
	db *bun.DB,
	submissionModel *models.SubmissionModel,
	audit *AuditService,
	dispatcher ThumbnailDispatcher,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		db:              db,
		submissionModel: submissionModel,
		audit:           audit,
		dispatcher:      dispatcher,
		logger:          logger.Named("review_service"),
	}
}

// Approve marks a submission as approved and records the decision.
func (s *ReviewService) Approve(
	ctx context.Context, submissionID uint64, actor types.Principal, sourceAddress string,
) (*types.ReviewOutcome, error) {
	outcome, err := s.review(ctx, submissionID, enum.AuditActionApproved, actor, sourceAddress)
	if err != nil {
		return nil, err
	}

	if outcome.Submission.FilePath != "" && outcome.Submission.ThumbnailPath == "" {
		dispatchThumbnail(ctx, s.dispatcher, s.logger, outcome.Submission, types.ThumbnailReasonApproval)
	}

	return outcome, nil
}

// Decline marks a submission as declined and records the decision.
func (s *ReviewService) Decline(
	ctx context.Context, submissionID uint64, actor types.Principal, sourceAddress string,
) (*types.ReviewOutcome, error) {
	return s.review(ctx, submissionID, enum.AuditActionDeclined, actor, sourceAddress)
}

// review applies a decision. Any status may move to any target and concurrent decisions
// on the same submission resolve as last write wins, each leaving its own audit entry.
func (s *ReviewService) review(
	ctx context.Context,
	submissionID uint64,
	action enum.AuditActionType,
	actor types.Principal,
	sourceAddress string,
) (*types.ReviewOutcome, error) {
	var outcome types.ReviewOutcome

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		submission, err := s.submissionModel.GetByIDWithTx(ctx, tx, submissionID)
		if err != nil {
			return err
		}

		target := action.TargetStatus()
		snapshot := types.NewChangeSnapshot(submission, target)

		submission.Status = target
		submission.ReviewedAt = time.Now()
		submission.ReviewerID = actor.ID
		submission.ReviewerName = actor.Name

		if err := s.submissionModel.UpdateReviewWithTx(ctx, tx, submission); err != nil {
			return err
		}

		entry, err := s.audit.AppendWithTx(ctx, tx, submission, action, actor, snapshot, sourceAddress)
		if err != nil {
			return err
		}

		outcome.Submission = submission
		outcome.Entry = entry
		return nil
	})
	if err != nil {
		return nil, models.ClassifyError(err, "failed to review submission")
	}

	s.logger.Info("Reviewed submission",
		zap.Uint64("id", submissionID),
		zap.String("action", action.String()),
		zap.String("from", outcome.Entry.ChangeSnapshot.From.String()),
		zap.Uint64("actorID", actor.ID))

	return &outcome, nil
}
