package migrations

import (
	"context"
	"fmt"

	"github.com/robalyx/fotowettbewerb/internal/database/types/enum"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			-- Gallery order over visible submissions
			CREATE INDEX IF NOT EXISTS idx_submissions_gallery
			ON submissions (submitted_at, id)
			WHERE status = ? AND file_path IS NOT NULL AND thumbnail_path IS NOT NULL;

			-- Moderation queues
			CREATE INDEX IF NOT EXISTS idx_submissions_status_time
			ON submissions (status, submitted_at, id);

			-- Slot accounting
			CREATE INDEX IF NOT EXISTS idx_submissions_submitter_user
			ON submissions (submitter_user_id, status)
			WHERE submitter_user_id IS NOT NULL;

			CREATE INDEX IF NOT EXISTS idx_submissions_submitter_token
			ON submissions (submitter_token, status)
			WHERE submitter_token IS NOT NULL;

			-- Thumbnail backfill
			CREATE INDEX IF NOT EXISTS idx_submissions_missing_thumbnail
			ON submissions (submitted_at, id)
			WHERE file_path IS NOT NULL AND thumbnail_path IS NULL;

			-- Visitor progress
			CREATE INDEX IF NOT EXISTS idx_votes_visitor
			ON votes (visitor_token, submission_id);

			-- Audit history
			CREATE INDEX IF NOT EXISTS idx_audit_entries_subject
			ON audit_entries (subject_type, subject_id, created_at, id);

			CREATE INDEX IF NOT EXISTS idx_audit_entries_actor
			ON audit_entries (actor_id, created_at DESC, id DESC);
		`, enum.SubmissionStatusApproved).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			DROP INDEX IF EXISTS idx_audit_entries_actor;
			DROP INDEX IF EXISTS idx_audit_entries_subject;
			DROP INDEX IF EXISTS idx_votes_visitor;
			DROP INDEX IF EXISTS idx_submissions_missing_thumbnail;
			DROP INDEX IF EXISTS idx_submissions_submitter_token;
			DROP INDEX IF EXISTS idx_submissions_submitter_user;
			DROP INDEX IF EXISTS idx_submissions_status_time;
			DROP INDEX IF EXISTS idx_submissions_gallery;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop indexes: %w", err)
		}

		return nil
	})
}
