package enum

// AuditActionType represents the kind of review decision recorded in the audit trail.
//
//go:generate go tool enumer -type=AuditActionType -trimprefix=AuditAction -transform=snake -sql -json -text
type AuditActionType int

const (
	// AuditActionApproved records a moderator approving a subject.
	AuditActionApproved AuditActionType = iota
	// AuditActionDeclined records a moderator declining a subject.
	AuditActionDeclined
)

// TargetStatus returns the submission status the action moves a subject to.
func (a AuditActionType) TargetStatus() SubmissionStatus {
	if a == AuditActionApproved {
		return SubmissionStatusApproved
	}
	return SubmissionStatusDeclined
}

// AuditSubjectType identifies which kind of entity an audit entry refers to.
// New reviewable entities are added as new values here.
//
//go:generate go tool enumer -type=AuditSubjectType -trimprefix=AuditSubject -transform=snake -sql -json -text
type AuditSubjectType int

const (
	// AuditSubjectSubmission marks audit entries about photo submissions.
	AuditSubjectSubmission AuditSubjectType = iota
)
