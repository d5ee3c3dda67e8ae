package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robalyx/fotowettbewerb/internal/database/dbretry"
	"github.com/robalyx/fotowettbewerb/internal/database/types"
	"github.com/robalyx/fotowettbewerb/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// SubmissionModel handles database operations for photo submissions.
type SubmissionModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewSubmission creates a repository with database access for submissions.
func NewSubmission(db *bun.DB, logger *zap.Logger) *SubmissionModel {
	return &SubmissionModel{
		db:     db,
		logger: logger.Named("db_submission"),
	}
}

// visible restricts a query to submissions shown in the public gallery.
func visible(q *bun.SelectQuery) *bun.SelectQuery {
	return q.
		Where("submission.status = ?", enum.SubmissionStatusApproved).
		Where("submission.file_path IS NOT NULL").
		Where("submission.thumbnail_path IS NOT NULL")
}

// CreateWithTx inserts a new submission using the provided transaction.
func (r *SubmissionModel) CreateWithTx(ctx context.Context, tx bun.Tx, submission *types.Submission) error {
	_, err := tx.NewInsert().
		Model(submission).
		Returning("id, submitted_at").
		Exec(ctx)
	if err != nil {
		return ClassifyError(err, "failed to create submission")
	}

	r.logger.Debug("Created submission",
		zap.Uint64("id", submission.ID),
		zap.String("publicID", submission.PublicID))

	return nil
}

// GetByID retrieves a submission by its ID.
func (r *SubmissionModel) GetByID(ctx context.Context, id uint64) (*types.Submission, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Submission, error) {
		return r.getByID(ctx, r.db, id)
	})
}

// GetByIDWithTx retrieves a submission inside tx without locking it.
func (r *SubmissionModel) GetByIDWithTx(ctx context.Context, tx bun.Tx, id uint64) (*types.Submission, error) {
	return r.getByID(ctx, tx, id)
}

// GetByIDForUpdate retrieves a submission and holds its row lock until tx ends.
func (r *SubmissionModel) GetByIDForUpdate(ctx context.Context, tx bun.Tx, id uint64) (*types.Submission, error) {
	var submission types.Submission
	err := tx.NewSelect().
		Model(&submission).
		Where("submission.id = ?", id).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return nil, ClassifyError(err, fmt.Sprintf("failed to lock submission %d", id))
	}
	return &submission, nil
}

func (r *SubmissionModel) getByID(ctx context.Context, db bun.IDB, id uint64) (*types.Submission, error) {
	var submission types.Submission
	err := db.NewSelect().
		Model(&submission).
		Where("submission.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, ClassifyError(err, fmt.Sprintf("failed to get submission %d", id))
	}
	return &submission, nil
}

// GetByPublicID retrieves a submission by its human-readable identifier.
func (r *SubmissionModel) GetByPublicID(ctx context.Context, publicID string) (*types.Submission, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Submission, error) {
		var submission types.Submission
		err := r.db.NewSelect().
			Model(&submission).
			Where("submission.public_id = ?", publicID).
			Scan(ctx)
		if err != nil {
			return nil, ClassifyError(err, "failed to get submission "+publicID)
		}
		return &submission, nil
	})
}

// UpdateReviewWithTx stores the review fields of submission.
func (r *SubmissionModel) UpdateReviewWithTx(ctx context.Context, tx bun.Tx, submission *types.Submission) error {
	result, err := tx.NewUpdate().
		Model(submission).
		Column("status", "reviewed_at", "reviewer_id", "reviewer_name").
		WherePK().
		Exec(ctx)
	if err != nil {
		return ClassifyError(err, "failed to update submission review")
	}
	return requireAffected(result, submission.ID)
}

// UpdateRateWithTx stores a new aggregate rate for a submission.
func (r *SubmissionModel) UpdateRateWithTx(ctx context.Context, tx bun.Tx, id uint64, rate int64) error {
	result, err := tx.NewUpdate().
		Model((*types.Submission)(nil)).
		Set("rate = ?", rate).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return ClassifyError(err, "failed to update submission rate")
	}
	return requireAffected(result, id)
}

// SetThumbnail records the generated thumbnail of a submission.
func (r *SubmissionModel) SetThumbnail(ctx context.Context, id uint64, thumbnailPath string) error {
	result, err := r.db.NewUpdate().
		Model((*types.Submission)(nil)).
		Set("thumbnail_path = ?", thumbnailPath).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return ClassifyError(err, "failed to set thumbnail")
	}

	if err := requireAffected(result, id); err != nil {
		return err
	}

	r.logger.Debug("Set submission thumbnail",
		zap.Uint64("id", id),
		zap.String("thumbnailPath", thumbnailPath))

	return nil
}

// LastPublicIDWithTx returns the numerically highest public ID issued for year, or "" if none.
func (r *SubmissionModel) LastPublicIDWithTx(ctx context.Context, tx bun.Tx, year int) (string, error) {
	prefix := types.PublicIDYearPrefix(year) + "-"

	var last string
	err := tx.NewSelect().
		Model((*types.Submission)(nil)).
		Column("public_id").
		Where("public_id LIKE ?", prefix+"%").
		OrderExpr("CAST(SUBSTRING(public_id FROM ?) AS INTEGER) DESC", len(prefix)+1).
		Limit(1).
		Scan(ctx, &last)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", ClassifyError(err, "failed to get last public id")
	}

	return last, nil
}

// CountActiveBySubmitter counts submissions occupying a slot of submitter.
func (r *SubmissionModel) CountActiveBySubmitter(ctx context.Context, submitter types.Submitter) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		return r.countActive(ctx, r.db, submitter)
	})
}

// CountActiveBySubmitterWithTx counts submissions occupying a slot of submitter inside tx.
func (r *SubmissionModel) CountActiveBySubmitterWithTx(
	ctx context.Context, tx bun.Tx, submitter types.Submitter,
) (int, error) {
	return r.countActive(ctx, tx, submitter)
}

func (r *SubmissionModel) countActive(ctx context.Context, db bun.IDB, submitter types.Submitter) (int, error) {
	query := db.NewSelect().
		Model((*types.Submission)(nil)).
		Where("submission.status IN (?)", bun.In(enum.ActiveStatuses()))

	if submitter.UserID != 0 {
		query = query.Where("submission.submitter_user_id = ?", submitter.UserID)
	} else {
		query = query.Where("submission.submitter_token = ?", submitter.VisitorToken)
	}

	count, err := query.Count(ctx)
	if err != nil {
		return 0, ClassifyError(err, "failed to count active submissions")
	}
	return count, nil
}

// ListBySubmitter returns every submission of submitter, newest first.
func (r *SubmissionModel) ListBySubmitter(ctx context.Context, submitter types.Submitter) ([]*types.Submission, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Submission, error) {
		var submissions []*types.Submission
		query := r.db.NewSelect().Model(&submissions)

		if submitter.UserID != 0 {
			query = query.Where("submission.submitter_user_id = ?", submitter.UserID)
		} else {
			query = query.Where("submission.submitter_token = ?", submitter.VisitorToken)
		}

		err := query.OrderExpr("submission.submitted_at DESC, submission.id DESC").Scan(ctx)
		if err != nil {
			return nil, ClassifyError(err, "failed to list submissions")
		}
		return submissions, nil
	})
}

// ListByStatus returns submissions with status in review order (oldest first).
func (r *SubmissionModel) ListByStatus(
	ctx context.Context, status enum.SubmissionStatus, limit int,
) ([]*types.Submission, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Submission, error) {
		var submissions []*types.Submission
		err := r.db.NewSelect().
			Model(&submissions).
			Where("submission.status = ?", status).
			OrderExpr("submission.submitted_at ASC, submission.id ASC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, ClassifyError(err, "failed to list submissions by status")
		}
		return submissions, nil
	})
}

// ListMissingThumbnails returns submissions with a file but no thumbnail yet.
func (r *SubmissionModel) ListMissingThumbnails(ctx context.Context, limit int) ([]*types.Submission, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Submission, error) {
		var submissions []*types.Submission
		err := r.db.NewSelect().
			Model(&submissions).
			Where("submission.file_path IS NOT NULL").
			Where("submission.thumbnail_path IS NULL").
			Where("submission.status IN (?)", bun.In(enum.ActiveStatuses())).
			OrderExpr("submission.submitted_at ASC, submission.id ASC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, ClassifyError(err, "failed to list submissions without thumbnails")
		}
		return submissions, nil
	})
}

// ListVisible returns up to limit gallery photos strictly after cursor in gallery order.
func (r *SubmissionModel) ListVisible(
	ctx context.Context, cursor *types.GalleryCursor, limit int,
) ([]*types.Submission, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Submission, error) {
		var submissions []*types.Submission
		query := r.db.NewSelect().
			Model(&submissions).
			Apply(visible)

		if cursor != nil {
			query = query.Where("(submission.submitted_at, submission.id) > (?, ?)", cursor.SubmittedAt, cursor.ID)
		}

		err := query.
			OrderExpr("submission.submitted_at ASC, submission.id ASC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, ClassifyError(err, "failed to list gallery")
		}
		return submissions, nil
	})
}

// GetVisibleByID retrieves a submission only if it is shown in the gallery.
func (r *SubmissionModel) GetVisibleByID(ctx context.Context, id uint64) (*types.Submission, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Submission, error) {
		var submission types.Submission
		err := r.db.NewSelect().
			Model(&submission).
			Apply(visible).
			Where("submission.id = ?", id).
			Scan(ctx)
		if err != nil {
			return nil, ClassifyError(err, fmt.Sprintf("failed to get gallery photo %d", id))
		}
		return &submission, nil
	})
}

// VoteFilter narrows a neighbour lookup by the visitor's votes.
type VoteFilter int

const (
	// VoteFilterAny ignores votes.
	VoteFilterAny VoteFilter = iota
	// VoteFilterUnrated only matches photos the visitor has not voted on.
	VoteFilterUnrated
	// VoteFilterRated only matches photos the visitor has voted on.
	VoteFilterRated
)

const visitorVoteExists = "EXISTS (SELECT 1 FROM votes AS vote " +
	"WHERE vote.submission_id = submission.id AND vote.visitor_token = ?)"

// FindNeighbour returns the closest visible photo after (forward) or before the cursor position
// that satisfies filter for visitorToken. It returns nil when there is none.
func (r *SubmissionModel) FindNeighbour(
	ctx context.Context, from *types.GalleryCursor, forward bool, filter VoteFilter, visitorToken string,
) (*types.Submission, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Submission, error) {
		var submission types.Submission
		query := r.db.NewSelect().
			Model(&submission).
			Apply(visible)

		if forward {
			query = query.
				Where("(submission.submitted_at, submission.id) > (?, ?)", from.SubmittedAt, from.ID).
				OrderExpr("submission.submitted_at ASC, submission.id ASC")
		} else {
			query = query.
				Where("(submission.submitted_at, submission.id) < (?, ?)", from.SubmittedAt, from.ID).
				OrderExpr("submission.submitted_at DESC, submission.id DESC")
		}

		switch filter {
		case VoteFilterUnrated:
			query = query.Where("NOT "+visitorVoteExists, visitorToken)
		case VoteFilterRated:
			query = query.Where(visitorVoteExists, visitorToken)
		case VoteFilterAny:
		}

		err := query.Limit(1).Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil //nolint:nilnil // no neighbour is not an error
			}
			return nil, ClassifyError(err, "failed to find neighbouring photo")
		}
		return &submission, nil
	})
}

// CountVisible counts photos shown in the gallery.
func (r *SubmissionModel) CountVisible(ctx context.Context) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := r.db.NewSelect().
			Model((*types.Submission)(nil)).
			Apply(visible).
			Count(ctx)
		if err != nil {
			return 0, ClassifyError(err, "failed to count gallery photos")
		}
		return count, nil
	})
}

// requireAffected turns an update that matched no row into ErrNotFound.
func requireAffected(result sql.Result, id uint64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return ClassifyError(err, "failed to read affected rows")
	}
	if affected == 0 {
		return fmt.Errorf("submission %d: %w", id, types.ErrNotFound)
	}
	return nil
}
