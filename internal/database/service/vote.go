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

// VoteService handles anonymous visitor votes.
type VoteService struct {
	db              *bun.DB
	submissionModel *models.SubmissionModel
	voteModel       *models.VoteModel
	lockTimeout     time.Duration
	logger          *zap.Logger
}

// NewVote creates a new vote service.
func NewVote(
	db *bun.DB,
	submissionModel *models.SubmissionModel,
	voteModel *models.VoteModel,
	lockTimeout time.Duration,
	logger *zap.Logger,
) *VoteService {
	return &VoteService{
		db:              db,
		submissionModel: submissionModel,
		voteModel:       voteModel,
		lockTimeout:     lockTimeout,
		logger:          logger.Named("vote_service"),
	}
}

// CastVote records the visitor's vote on an approved submission and returns the new rate.
// Repeating the same vote leaves the rate unchanged. Votes on the same submission are
// serialized by its row lock; waits beyond the lock timeout fail with types.ErrContentionTimeout.
func (s *VoteService) CastVote(
	ctx context.Context, submissionID uint64, visitorToken string, voteType types.VoteType,
) (*types.VoteResult, error) {
	if visitorToken == "" {
		return nil, types.ErrMissingVisitor
	}

	var result types.VoteResult

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := models.SetLockTimeout(ctx, tx, s.lockTimeout); err != nil {
			return err
		}

		submission, err := s.submissionModel.GetByIDForUpdate(ctx, tx, submissionID)
		if err != nil {
			return err
		}

		if submission.Status != enum.SubmissionStatusApproved {
			return fmt.Errorf("submission %d is %s: %w", submissionID, submission.Status, types.ErrNotVotable)
		}

		existing, err := s.voteModel.GetWithTx(ctx, tx, submissionID, visitorToken)
		if err != nil {
			return err
		}

		var previous *types.VoteType
		if existing != nil {
			previous = &existing.VoteType
		}

		delta := types.VoteDelta(previous, voteType)

		vote := &types.Vote{
			SubmissionID: submissionID,
			VisitorToken: visitorToken,
			VoteType:     voteType,
		}
		if existing == nil {
			err = s.voteModel.InsertWithTx(ctx, tx, vote)
		} else {
			err = s.voteModel.UpsertWithTx(ctx, tx, vote)
		}
		if err != nil {
			return err
		}

		rate := types.ApplyVoteDelta(submission.Rate, delta)
		if rate != submission.Rate {
			if err := s.submissionModel.UpdateRateWithTx(ctx, tx, submissionID, rate); err != nil {
				return err
			}
		}

		result = types.VoteResult{
			SubmissionID: submissionID,
			VoteType:     voteType,
			Rate:         rate,
			Changed:      delta != 0,
		}
		return nil
	})
	if err != nil {
		return nil, models.ClassifyError(err, "failed to cast vote")
	}

	s.logger.Debug("Cast vote",
		zap.Uint64("submissionID", submissionID),
		zap.String("voteType", voteType.String()),
		zap.Int64("rate", result.Rate))

	return &result, nil
}

// GetVote returns the visitor's current vote on a submission, or nil if there is none.
func (s *VoteService) GetVote(ctx context.Context, submissionID uint64, visitorToken string) (*types.Vote, error) {
	if visitorToken == "" {
		return nil, types.ErrMissingVisitor
	}
	return s.voteModel.Get(ctx, submissionID, visitorToken)
}
