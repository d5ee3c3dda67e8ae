package database

import (
	"github.com/robalyx/fotowettbewerb/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	submission *models.SubmissionModel
	vote       *models.VoteModel
	audit      *models.AuditModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		submission: models.NewSubmission(db, logger),
		vote:       models.NewVote(db, logger),
		audit:      models.NewAudit(db, logger),
	}
}

// Submission returns the submission model repository.
func (r *Repository) Submission() *models.SubmissionModel {
	return r.submission
}

// Vote returns the vote model repository.
func (r *Repository) Vote() *models.VoteModel {
	return r.vote
}

// Audit returns the audit model repository.
func (r *Repository) Audit() *models.AuditModel {
	return r.audit
}
