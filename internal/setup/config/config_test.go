package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalyx/fotowettbewerb/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const commonTOML = `
[common]
version = 1

[common.postgresql]
host = "db"
port = 5433

[common.contest]
lock_timeout = 1500
page_size = 20
max_active_submissions = 2
`

const workerTOML = `
[worker]
version = 1

[worker.thumbnail]
concurrency = 3
max_edge = 320
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadConfigFrom(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "common.toml", commonTOML)
	writeFile(t, dir, "worker.toml", workerTOML)

	cfg, used, err := config.LoadConfigFrom([]string{filepath.Join(dir, "missing"), dir})
	require.NoError(t, err)

	assert.Equal(t, dir, used)
	assert.Equal(t, "db", cfg.Common.PostgreSQL.Host)
	assert.Equal(t, 5433, cfg.Common.PostgreSQL.Port)
	assert.Equal(t, 2, cfg.Common.Contest.MaxActiveSubmissions)
	assert.Equal(t, 1500*time.Millisecond, cfg.Common.Contest.LockTimeoutDuration())
	assert.Equal(t, 3, cfg.Worker.Thumbnail.Concurrency)
	assert.Equal(t, 320, cfg.Worker.Thumbnail.MaxEdge)
}

func TestLoadConfigFromMissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "common.toml", commonTOML)

	_, _, err := config.LoadConfigFrom([]string{dir})
	require.ErrorIs(t, err, config.ErrConfigFileNotFound)
}

func TestLoadConfigFromVersionChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		common  string
		wantErr error
	}{
		{
			name:    "missing version",
			common:  "[common]\n[common.debug]\nlog_level = \"debug\"\n",
			wantErr: config.ErrConfigVersionMissing,
		},
		{
			name:    "version mismatch",
			common:  "[common]\nversion = 99\n",
			wantErr: config.ErrConfigVersionMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFile(t, dir, "common.toml", tt.common)
			writeFile(t, dir, "worker.toml", workerTOML)

			_, _, err := config.LoadConfigFrom([]string{dir})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
