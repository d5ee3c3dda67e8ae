package types

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// DefaultGalleryPageSize is the number of photos returned per gallery page.
const DefaultGalleryPageSize = 20

// GalleryCursor is the order key of the last photo on a gallery page.
type GalleryCursor struct {
	SubmittedAt time.Time `json:"t"`
	ID          uint64    `json:"i"`
}

// CursorFor returns the cursor positioned at submission.
func CursorFor(submission *Submission) *GalleryCursor {
	return &GalleryCursor{SubmittedAt: submission.SubmittedAt, ID: submission.ID}
}

// Encode returns the opaque string form of the cursor.
func (c *GalleryCursor) Encode() string {
	data, err := sonic.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeGalleryCursor parses an opaque cursor. An empty string yields a nil cursor.
func DecodeGalleryCursor(s string) (*GalleryCursor, error) {
	if s == "" {
		return nil, nil //nolint:nilnil // no cursor means the first page
	}

	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
	}

	var cursor GalleryCursor
	if err := sonic.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCursor, err)
	}

	if cursor.ID == 0 || cursor.SubmittedAt.IsZero() {
		return nil, ErrInvalidCursor
	}

	return &cursor, nil
}

// GalleryPage is one page of the public gallery listing.
type GalleryPage struct {
	Photos     []*Submission `json:"photos"`
	NextCursor *string       `json:"next_cursor"`
	HasMore    bool          `json:"has_more"`
}

// PhotoRef points at a neighbouring photo.
type PhotoRef struct {
	ID uint64 `json:"id"`
}

// Progress counts how many visible photos a visitor has rated.
type Progress struct {
	Rated int `json:"rated"`
	Total int `json:"total"`
}

// PhotoView is the gallery detail response for one photo and visitor.
type PhotoView struct {
	Photo         *Submission `json:"photo"`
	NextPhoto     *PhotoRef   `json:"nextPhoto"`
	PreviousPhoto *PhotoRef   `json:"previousPhoto"`
	Progress      Progress    `json:"progress"`
}
