package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// QueryHook implements bun.QueryHook for logging queries with zap.
type QueryHook struct {
	logger *zap.Logger
	slow   time.Duration
}

// NewHook creates a query hook that logs through logger.
// Queries slower than slow are logged at warn level; zero disables that check.
func NewHook(logger *zap.Logger, slow time.Duration) *QueryHook {
	return &QueryHook{
		logger: logger.Named("db_query"),
		slow:   slow,
	}
}

// BeforeQuery implements bun.QueryHook.
func (h *QueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

// AfterQuery implements bun.QueryHook.
func (h *QueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)
	fields := []zap.Field{
		zap.String("operation", event.Operation()),
		zap.String("query", event.Query),
		zap.Duration("duration", duration),
	}

	switch {
	case event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows):
		h.logger.Error("Query failed", append(fields, zap.Error(event.Err))...)
	case h.slow > 0 && duration > h.slow:
		h.logger.Warn("Slow query", fields...)
	default:
		h.logger.Debug("Query executed", fields...)
	}
}
