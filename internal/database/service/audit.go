package service

import (
	"context"

	"github.com/robalyx/fotowettbewerb/internal/database/models"
	"github.com/robalyx/fotowettbewerb/internal/database/types"
	"github.com/robalyx/fotowettbewerb/internal/database/types/enum"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// AuditService handles the append-only review audit trail.
type AuditService struct {
	auditModel      *models.AuditModel
	submissionModel *models.SubmissionModel
	logger          *zap.Logger
}

// NewAudit creates a new audit service.
func NewAudit(auditModel *models.AuditModel, submissionModel *models.SubmissionModel, logger *zap.Logger) *AuditService {
	return &AuditService{
		auditModel:      auditModel,
		submissionModel: submissionModel,
		logger:          logger.Named("audit_service"),
	}
}

// AppendWithTx records a decision on subject as part of tx.
func (s *AuditService) AppendWithTx(
	ctx context.Context,
	tx bun.Tx,
	subject types.Subject,
	actionType enum.AuditActionType,
	actor types.Principal,
	snapshot types.ChangeSnapshot,
	sourceAddress string,
) (*types.AuditEntry, error) {
	entry := &types.AuditEntry{
		SubjectType:    subject.AuditSubjectType(),
		SubjectID:      subject.AuditSubjectID(),
		ActionType:     actionType,
		ActorID:        actor.ID,
		ActorName:      actor.Name,
		ChangeSnapshot: snapshot,
		SourceAddress:  sourceAddress,
	}

	if err := s.auditModel.AppendWithTx(ctx, tx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListForSubject returns the audit history of subject, oldest first.
func (s *AuditService) ListForSubject(ctx context.Context, subject types.Subject) ([]*types.AuditEntry, error) {
	return s.auditModel.ListForSubject(ctx, subject)
}

// ListAuditEntries returns the audit history of a submission, oldest first.
func (s *AuditService) ListAuditEntries(ctx context.Context, submissionID uint64) ([]*types.AuditEntry, error) {
	submission, err := s.submissionModel.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	return s.auditModel.ListForSubject(ctx, submission)
}

// ListByActor returns the latest decisions taken by a moderator.
func (s *AuditService) ListByActor(ctx context.Context, actorID uint64, limit int) ([]*types.AuditEntry, error) {
	return s.auditModel.ListByActor(ctx, actorID, limit)
}
