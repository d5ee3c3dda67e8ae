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
			ALTER TABLE submissions
			ADD CONSTRAINT chk_submissions_rate_non_negative CHECK (rate >= 0);

			ALTER TABLE submissions
			ADD CONSTRAINT chk_submissions_status CHECK (status IN (?, ?, ?));

			ALTER TABLE submissions
			ADD CONSTRAINT chk_submissions_single_submitter
			CHECK ((submitter_user_id IS NULL) <> (submitter_token IS NULL));

			ALTER TABLE votes
			ADD CONSTRAINT fk_votes_submission
			FOREIGN KEY (submission_id) REFERENCES submissions (id) ON DELETE CASCADE;

			ALTER TABLE audit_entries
			ADD CONSTRAINT chk_audit_entries_action CHECK (action_type IN (?, ?));
		`,
			enum.SubmissionStatusNew, enum.SubmissionStatusApproved, enum.SubmissionStatusDeclined,
			enum.AuditActionApproved, enum.AuditActionDeclined,
		).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to add constraints: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewRaw(`
			ALTER TABLE audit_entries DROP CONSTRAINT IF EXISTS chk_audit_entries_action;
			ALTER TABLE votes DROP CONSTRAINT IF EXISTS fk_votes_submission;
			ALTER TABLE submissions DROP CONSTRAINT IF EXISTS chk_submissions_single_submitter;
			ALTER TABLE submissions DROP CONSTRAINT IF EXISTS chk_submissions_status;
			ALTER TABLE submissions DROP CONSTRAINT IF EXISTS chk_submissions_rate_non_negative;
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop constraints: %w", err)
		}

		return nil
	})
}
