package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robalyx/fotowettbewerb/internal/database/types/enum"
	"github.com/uptrace/bun"
)

const (
	// PublicIDPrefix starts every human-readable submission identifier.
	PublicIDPrefix = "FWB"
	// PublicIDDigits is the zero-padded width of the yearly counter.
	PublicIDDigits = 5
	// MaxPublicIDCounter is the last counter value that fits in PublicIDDigits.
	MaxPublicIDCounter = 99999
)

// Submission represents a photo entered into the contest.
type Submission struct {
	bun.BaseModel `bun:"table:submissions,alias:submission"`

	ID              uint64                `bun:",pk,autoincrement"                           json:"id"`
	PublicID        string                `bun:",notnull,unique"                             json:"publicId"`
	SubmitterUserID uint64                `bun:",nullzero"                                   json:"submitterUserId,omitempty"`
	SubmitterToken  string                `bun:",nullzero"                                   json:"-"`
	Status          enum.SubmissionStatus `bun:"type:text,notnull,default:'new'"             json:"status"`
	Rate            int64                 `bun:",notnull,default:0"                          json:"rate"`
	FilePath        string                `bun:",nullzero"                                   json:"filePath,omitempty"`
	ThumbnailPath   string                `bun:",nullzero"                                   json:"thumbnailPath,omitempty"`
	SubmittedAt     time.Time             `bun:",nullzero,notnull,default:current_timestamp" json:"submittedAt"`
	ReviewedAt      time.Time             `bun:",nullzero"                                   json:"reviewedAt,omitempty"`
	ReviewerID      uint64                `bun:",nullzero"                                   json:"reviewerId,omitempty"`
	ReviewerName    string                `bun:",nullzero"                                   json:"reviewerName,omitempty"`
}

// AuditSubjectType implements Subject.
func (s *Submission) AuditSubjectType() enum.AuditSubjectType {
	return enum.AuditSubjectSubmission
}

// AuditSubjectID implements Subject.
func (s *Submission) AuditSubjectID() uint64 {
	return s.ID
}

func (s *Submission) auditSubject() {}

// IsVisible reports whether the submission appears in the public gallery.
func (s *Submission) IsVisible() bool {
	return s.Status == enum.SubmissionStatusApproved && s.FilePath != "" && s.ThumbnailPath != ""
}

// Submitter identifies who entered a submission.
// Exactly one of UserID or VisitorToken must be set.
type Submitter struct {
	UserID       uint64
	VisitorToken string
}

// Validate checks that exactly one identity is set.
func (s Submitter) Validate() error {
	hasUser := s.UserID != 0
	hasVisitor := s.VisitorToken != ""
	if hasUser == hasVisitor {
		return ErrInvalidSubmitter
	}
	return nil
}

// String returns a log-friendly description of the submitter.
func (s Submitter) String() string {
	if s.UserID != 0 {
		return "user:" + strconv.FormatUint(s.UserID, 10)
	}
	return "visitor"
}

// FileRefs holds the stored asset references handed over by intake.
type FileRefs struct {
	FilePath      string
	ThumbnailPath string
}

// PublicIDYearPrefix returns the "FWB-{year}" prefix shared by all IDs of a year.
func PublicIDYearPrefix(year int) string {
	return fmt.Sprintf("%s-%d", PublicIDPrefix, year)
}

// FormatPublicID builds the identifier for a year and counter.
func FormatPublicID(year, counter int) string {
	return fmt.Sprintf("%s-%0*d", PublicIDYearPrefix(year), PublicIDDigits, counter)
}

// ParsePublicIDCounter extracts the trailing counter of an identifier issued for year.
func ParsePublicIDCounter(publicID string, year int) (int, error) {
	prefix := PublicIDYearPrefix(year) + "-"
	if !strings.HasPrefix(publicID, prefix) {
		return 0, fmt.Errorf("%w: %q does not belong to %d", ErrInvalidPublicID, publicID, year)
	}

	digits := strings.TrimPrefix(publicID, prefix)
	if len(digits) != PublicIDDigits {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPublicID, publicID)
	}

	counter, err := strconv.Atoi(digits)
	if err != nil || counter < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPublicID, publicID)
	}

	return counter, nil
}

// NextPublicID returns the identifier following last within year.
// An empty last starts the sequence at 1.
func NextPublicID(last string, year int) (string, error) {
	counter := 0
	if last != "" {
		var err error
		counter, err = ParsePublicIDCounter(last, year)
		if err != nil {
			return "", err
		}
	}

	if counter >= MaxPublicIDCounter {
		return "", fmt.Errorf("%w: %d", ErrSequenceExhausted, year)
	}

	return FormatPublicID(year, counter+1), nil
}
