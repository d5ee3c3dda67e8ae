package enum

// SubmissionStatus represents the review state of a photo submission.
//
//go:generate go tool enumer -type=SubmissionStatus -trimprefix=SubmissionStatus -transform=snake -sql -json -text
type SubmissionStatus int

const (
	// SubmissionStatusNew marks a submission that has not been reviewed yet.
	SubmissionStatusNew SubmissionStatus = iota
	// SubmissionStatusApproved marks a submission visible in the public gallery.
	SubmissionStatusApproved
	// SubmissionStatusDeclined marks a submission rejected by a moderator.
	SubmissionStatusDeclined
)

// IsActive reports whether the submission counts against the submitter's slots.
func (s SubmissionStatus) IsActive() bool {
	return s == SubmissionStatusNew || s == SubmissionStatusApproved
}

// ActiveStatuses lists the statuses that occupy a submission slot.
func ActiveStatuses() []SubmissionStatus {
	return []SubmissionStatus{SubmissionStatusNew, SubmissionStatusApproved}
}
