package database

import (
	"github.com/robalyx/fotowettbewerb/internal/database/service"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Service provides access to all business logic services.
type Service struct {
	identifier *service.IdentifierService
	intake     *service.IntakeService
	audit      *service.AuditService
	review     *service.ReviewService
	vote       *service.VoteService
	gallery    *service.GalleryService
}

// NewService creates a new service instance with all services.
func NewService(db *bun.DB, repository *Repository, opts service.Options, logger *zap.Logger) *Service {
	opts = opts.WithDefaults()

	identifier := service.NewIdentifier(db, repository.Submission(), opts.LockTimeout, logger)
	audit := service.NewAudit(repository.Audit(), repository.Submission(), logger)

	return &Service{
		identifier: identifier,
		intake: service.NewIntake(
			repository.Submission(), identifier, opts.Dispatcher, opts.MaxActiveSubmissions, logger,
		),
		audit:   audit,
		review:  service.NewReview(db, repository.Submission(), audit, opts.Dispatcher, logger),
		vote:    service.NewVote(db, repository.Submission(), repository.Vote(), opts.LockTimeout, logger),
		gallery: service.NewGallery(repository.Submission(), repository.Vote(), logger),
	}
}

// Identifier returns the public ID allocation service.
func (s *Service) Identifier() *service.IdentifierService {
	return s.identifier
}

// Intake returns the submission intake service.
func (s *Service) Intake() *service.IntakeService {
	return s.intake
}

// Audit returns the audit trail service.
func (s *Service) Audit() *service.AuditService {
	return s.audit
}

// Review returns the moderation service.
func (s *Service) Review() *service.ReviewService {
	return s.review
}

// Vote returns the voting service.
func (s *Service) Vote() *service.VoteService {
	return s.vote
}

// Gallery returns the gallery navigation service.
func (s *Service) Gallery() *service.GalleryService {
	return s.gallery
}
