package models

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/robalyx/fotowettbewerb/internal/database/dbretry"
	"github.com/robalyx/fotowettbewerb/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// VoteModel handles database operations for visitor votes.
type VoteModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewVote creates a repository with database access for votes.
func NewVote(db *bun.DB, logger *zap.Logger) *VoteModel {
	return &VoteModel{
		db:     db,
		logger: logger.Named("db_vote"),
	}
}

// GetWithTx returns the visitor's vote on a submission, or nil if there is none.
func (r *VoteModel) GetWithTx(
	ctx context.Context, tx bun.Tx, submissionID uint64, visitorToken string,
) (*types.Vote, error) {
	return r.get(ctx, tx, submissionID, visitorToken)
}

// Get returns the visitor's vote on a submission, or nil if there is none.
func (r *VoteModel) Get(ctx context.Context, submissionID uint64, visitorToken string) (*types.Vote, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Vote, error) {
		return r.get(ctx, r.db, submissionID, visitorToken)
	})
}

func (r *VoteModel) get(ctx context.Context, db bun.IDB, submissionID uint64, visitorToken string) (*types.Vote, error) {
	var vote types.Vote
	err := db.NewSelect().
		Model(&vote).
		Where("vote.submission_id = ?", submissionID).
		Where("vote.visitor_token = ?", visitorToken).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil //nolint:nilnil // no vote yet is not an error
		}
		return nil, ClassifyError(err, "failed to get vote")
	}
	return &vote, nil
}

// UpsertWithTx inserts the vote or overwrites the existing vote type of the same visitor.
func (r *VoteModel) UpsertWithTx(ctx context.Context, tx bun.Tx, vote *types.Vote) error {
	now := time.Now()
	vote.CreatedAt = now
	vote.UpdatedAt = now

	_, err := tx.NewInsert().
		Model(vote).
		On("CONFLICT (submission_id, visitor_token) DO UPDATE").
		Set("vote_type = EXCLUDED.vote_type").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return ClassifyError(err, "failed to save vote")
	}
	return nil
}

// InsertWithTx inserts a new vote and fails with ErrConstraintViolation if the visitor already voted.
func (r *VoteModel) InsertWithTx(ctx context.Context, tx bun.Tx, vote *types.Vote) error {
	now := time.Now()
	vote.CreatedAt = now
	vote.UpdatedAt = now

	_, err := tx.NewInsert().
		Model(vote).
		Exec(ctx)
	if err != nil {
		return ClassifyError(err, "failed to insert vote")
	}
	return nil
}

// CountForSubmission counts the votes cast on a submission.
func (r *VoteModel) CountForSubmission(ctx context.Context, submissionID uint64) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := r.db.NewSelect().
			Model((*types.Vote)(nil)).
			Where("vote.submission_id = ?", submissionID).
			Count(ctx)
		if err != nil {
			return 0, ClassifyError(err, "failed to count votes")
		}
		return count, nil
	})
}

// CountRatedVisible counts gallery photos the visitor has voted on.
func (r *VoteModel) CountRatedVisible(ctx context.Context, visitorToken string) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := r.db.NewSelect().
			Model((*types.Vote)(nil)).
			Join("JOIN submissions AS submission ON submission.id = vote.submission_id").
			Where("vote.visitor_token = ?", visitorToken).
			Apply(visible).
			Count(ctx)
		if err != nil {
			return 0, ClassifyError(err, "failed to count rated photos")
		}
		return count, nil
	})
}
