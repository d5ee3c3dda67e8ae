package commands

import (
	"errors"

	"github.com/robalyx/fotowettbewerb/internal/database"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

var (
	ErrNameRequired    = errors.New("NAME argument required")
	ErrActorIDRequired = errors.New("ACTOR_ID argument required")
)

// CLIDependencies holds the common dependencies needed by CLI commands.
type CLIDependencies struct {
	DB       database.Client
	Migrator *migrate.Migrator
	Logger   *zap.Logger
}
