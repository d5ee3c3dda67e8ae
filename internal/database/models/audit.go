package models

import (
	"context"
	"time"

	"github.com/robalyx/fotowettbewerb/internal/database/dbretry"
	"github.com/robalyx/fotowettbewerb/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// AuditModel handles database operations for the review audit trail.
// Entries are only ever inserted; there is no update or delete.
type AuditModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewAudit creates a repository with database access for audit entries.
func NewAudit(db *bun.DB, logger *zap.Logger) *AuditModel {
	return &AuditModel{
		db:     db,
		logger: logger.Named("db_audit"),
	}
}

// AppendWithTx stores an audit entry as part of tx.
func (r *AuditModel) AppendWithTx(ctx context.Context, tx bun.Tx, entry *types.AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := tx.NewInsert().
		Model(entry).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return ClassifyError(err, "failed to append audit entry")
	}

	r.logger.Debug("Appended audit entry",
		zap.String("subjectType", entry.SubjectType.String()),
		zap.Uint64("subjectID", entry.SubjectID),
		zap.String("actionType", entry.ActionType.String()),
		zap.Uint64("actorID", entry.ActorID))

	return nil
}

// ListForSubject returns all entries of a subject ordered oldest first.
func (r *AuditModel) ListForSubject(ctx context.Context, subject types.Subject) ([]*types.AuditEntry, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.AuditEntry, error) {
		var entries []*types.AuditEntry
		err := r.db.NewSelect().
			Model(&entries).
			Where("audit_entry.subject_type = ?", subject.AuditSubjectType()).
			Where("audit_entry.subject_id = ?", subject.AuditSubjectID()).
			OrderExpr("audit_entry.created_at ASC, audit_entry.id ASC").
			Scan(ctx)
		if err != nil {
			return nil, ClassifyError(err, "failed to list audit entries")
		}
		return entries, nil
	})
}

// ListByActor returns the most recent entries recorded by a moderator, newest first.
func (r *AuditModel) ListByActor(ctx context.Context, actorID uint64, limit int) ([]*types.AuditEntry, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.AuditEntry, error) {
		var entries []*types.AuditEntry
		err := r.db.NewSelect().
			Model(&entries).
			Where("audit_entry.actor_id = ?", actorID).
			OrderExpr("audit_entry.created_at DESC, audit_entry.id DESC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, ClassifyError(err, "failed to list audit entries by actor")
		}
		return entries, nil
	})
}
