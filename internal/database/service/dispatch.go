package service

import (
	"context"
	"time"

	"github.com/robalyx/fotowettbewerb/internal/database/types"
)

// ThumbnailDispatcher hands thumbnail jobs to the asynchronous image-processing collaborator.
type ThumbnailDispatcher interface {
	Dispatch(ctx context.Context, job *types.ThumbnailJob) error
}

// noopDispatcher drops jobs when no queue is configured.
type noopDispatcher struct{}

func (noopDispatcher) Dispatch(context.Context, *types.ThumbnailJob) error { return nil }

// Options tunes the business services.
type Options struct {
	// LockTimeout bounds waits on the public ID and vote locks.
	LockTimeout time.Duration
	// MaxActiveSubmissions caps new+approved submissions per submitter. Zero disables the cap.
	MaxActiveSubmissions int
	// Dispatcher receives thumbnail jobs. Nil drops them.
	Dispatcher ThumbnailDispatcher
}

// DefaultLockTimeout is used when Options.LockTimeout is not set.
const DefaultLockTimeout = 3 * time.Second

// WithDefaults fills unset options with their defaults.
func (o Options) WithDefaults() Options {
	if o.LockTimeout <= 0 {
		o.LockTimeout = DefaultLockTimeout
	}
	if o.Dispatcher == nil {
		o.Dispatcher = noopDispatcher{}
	}
	return o
}
