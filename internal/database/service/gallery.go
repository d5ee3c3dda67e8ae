package service

import (
	"context"

	"github.com/robalyx/fotowettbewerb/internal/database/models"
	"github.com/robalyx/fotowettbewerb/internal/database/types"
	"go.uber.org/zap"
)

// GalleryService handles browsing the public gallery.
// Only approved submissions with both a file and a thumbnail are visible.
type GalleryService struct {
	submissionModel *models.SubmissionModel
	voteModel       *models.VoteModel
	logger          *zap.Logger
}

// NewGallery creates a new gallery service.
func NewGallery(
	submissionModel *models.SubmissionModel, voteModel *models.VoteModel, logger *zap.Logger,
) *GalleryService {
	return &GalleryService{
		submissionModel: submissionModel,
		voteModel:       voteModel,
		logger:          logger.Named("gallery_service"),
	}
}

// ListPage returns the page of visible photos following cursor.
// A pageSize of zero or less uses types.DefaultGalleryPageSize.
func (s *GalleryService) ListPage(ctx context.Context, cursor string, pageSize int) (*types.GalleryPage, error) {
	if pageSize <= 0 {
		pageSize = types.DefaultGalleryPageSize
	}

	after, err := types.DecodeGalleryCursor(cursor)
	if err != nil {
		return nil, err
	}

	// Fetch one extra row to learn whether another page exists
	photos, err := s.submissionModel.ListVisible(ctx, after, pageSize+1)
	if err != nil {
		return nil, err
	}

	page := &types.GalleryPage{Photos: photos}
	if len(photos) > pageSize {
		page.Photos = photos[:pageSize]
		page.HasMore = true

		next := types.CursorFor(page.Photos[pageSize-1]).Encode()
		page.NextCursor = &next
	}

	if page.Photos == nil {
		page.Photos = []*types.Submission{}
	}

	return page, nil
}

// NextUnratedFor returns the first later photo the visitor has not voted on.
// It falls back to the immediate successor and returns nil at the end of the gallery.
func (s *GalleryService) NextUnratedFor(
	ctx context.Context, current *types.Submission, visitorToken string,
) (*types.Submission, error) {
	from := types.CursorFor(current)

	next, err := s.submissionModel.FindNeighbour(ctx, from, true, models.VoteFilterUnrated, visitorToken)
	if err != nil || next != nil {
		return next, err
	}

	return s.submissionModel.FindNeighbour(ctx, from, true, models.VoteFilterAny, visitorToken)
}

// PreviousRatedFor returns the closest earlier photo the visitor has voted on.
// It falls back to the immediate predecessor and returns nil at the start of the gallery.
func (s *GalleryService) PreviousRatedFor(
	ctx context.Context, current *types.Submission, visitorToken string,
) (*types.Submission, error) {
	from := types.CursorFor(current)

	previous, err := s.submissionModel.FindNeighbour(ctx, from, false, models.VoteFilterRated, visitorToken)
	if err != nil || previous != nil {
		return previous, err
	}

	return s.submissionModel.FindNeighbour(ctx, from, false, models.VoteFilterAny, visitorToken)
}

// ProgressFor counts how many visible photos the visitor has rated.
func (s *GalleryService) ProgressFor(ctx context.Context, visitorToken string) (types.Progress, error) {
	total, err := s.submissionModel.CountVisible(ctx)
	if err != nil {
		return types.Progress{}, err
	}

	var rated int
	if visitorToken != "" {
		rated, err = s.voteModel.CountRatedVisible(ctx, visitorToken)
		if err != nil {
			return types.Progress{}, err
		}
	}

	return types.Progress{Rated: rated, Total: total}, nil
}

// ShowPhoto returns a visible photo together with its navigation targets and the visitor's progress.
func (s *GalleryService) ShowPhoto(ctx context.Context, id uint64, visitorToken string) (*types.PhotoView, error) {
	photo, err := s.submissionModel.GetVisibleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := s.NextUnratedFor(ctx, photo, visitorToken)
	if err != nil {
		return nil, err
	}

	previous, err := s.PreviousRatedFor(ctx, photo, visitorToken)
	if err != nil {
		return nil, err
	}

	progress, err := s.ProgressFor(ctx, visitorToken)
	if err != nil {
		return nil, err
	}

	view := &types.PhotoView{
		Photo:    photo,
		Progress: progress,
	}
	if next != nil {
		view.NextPhoto = &types.PhotoRef{ID: next.ID}
	}
	if previous != nil {
		view.PreviousPhoto = &types.PhotoRef{ID: previous.ID}
	}

	return view, nil
}
