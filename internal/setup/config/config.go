package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
)

// RepositoryVersion is the repository version tag for config file references.
const RepositoryVersion = "v0.1.0"

// Current version of the config file.
const (
	CurrentCommonVersion = 1
	CurrentWorkerVersion = 1
)

// Config represents the entire application configuration.
type Config struct {
	Common CommonConfig `koanf:"common"`
	Worker WorkerConfig `koanf:"worker"`
}

// CommonConfig contains configuration shared between the CLI and the worker.
type CommonConfig struct {
	// Version of the common config.
	Version    int        `koanf:"version"`
	Debug      Debug      `koanf:"debug"`
	Retry      Retry      `koanf:"retry"`
	PostgreSQL PostgreSQL `koanf:"postgresql"`
	Redis      Redis      `koanf:"redis"`
	Contest    Contest    `koanf:"contest"`
}

// WorkerConfig contains worker specific configuration.
type WorkerConfig struct {
	// Version of the worker config.
	Version int `koanf:"version"`
	// Startup delay in milliseconds.
	StartupDelay int `koanf:"startup_delay"`
	// Thumbnail generation settings.
	Thumbnail Thumbnail `koanf:"thumbnail"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log files to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Maximum lines per log file.
	MaxLogLines int `koanf:"max_log_lines"`
}

// Retry contains retry configuration for caller-side retries.
type Retry struct {
	// Maximum retry attempts.
	MaxRetries uint64 `koanf:"max_retries"`
	// Initial retry delay in milliseconds.
	Delay int `koanf:"delay"`
	// Maximum retry delay in milliseconds.
	MaxDelay int `koanf:"max_delay"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
	// Database hostname.
	Host string `koanf:"host"`
	// Database port.
	Port int `koanf:"port"`
	// Database username.
	User string `koanf:"user"`
	// Database password.
	Password string `koanf:"password"`
	// Database name.
	DBName string `koanf:"db_name"`
	// Maximum open connections.
	MaxOpenConns int `koanf:"max_open_conns"`
	// Maximum idle connections.
	MaxIdleConns int `koanf:"max_idle_conns"`
	// Connection lifetime in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
	// Idle timeout in minutes.
	MaxIdleTime int `koanf:"max_idle_time"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	// Redis hostname.
	Host string `koanf:"host"`
	// Redis port.
	Port int `koanf:"port"`
	// Redis username.
	Username string `koanf:"username"`
	// Redis password.
	Password string `koanf:"password"`
}

// Contest contains the business rules of the photo contest.
type Contest struct {
	// Lock wait bound in milliseconds for public ID allocation and vote casting.
	LockTimeout int `koanf:"lock_timeout"`
	// Gallery page size (0 uses the default).
	PageSize int `koanf:"page_size"`
	// Maximum new or approved submissions per submitter (0 disables the limit).
	MaxActiveSubmissions int `koanf:"max_active_submissions"`
	// Directory holding uploaded files and generated thumbnails.
	MediaRoot string `koanf:"media_root"`
}

// LockTimeoutDuration returns the configured lock timeout.
func (c Contest) LockTimeoutDuration() time.Duration {
	return time.Duration(c.LockTimeout) * time.Millisecond
}

// Thumbnail contains thumbnail worker configuration.
type Thumbnail struct {
	// Number of jobs popped from the queue per batch.
	BatchSize int `koanf:"batch_size"`
	// Maximum thumbnails rendered concurrently.
	Concurrency int `koanf:"concurrency"`
	// Longest edge of a generated thumbnail in pixels.
	MaxEdge int `koanf:"max_edge"`
	// Delay between queue polls in milliseconds.
	PollInterval int `koanf:"poll_interval"`
	// Number of submissions checked per backfill scan.
	BackfillLimit int `koanf:"backfill_limit"`
}

// LoadConfig loads the configuration from the standard search paths.
// Returns the config along with the used config directory.
func LoadConfig() (*Config, string, error) {
	// Get user's home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	// List search paths
	configPaths := []string{
		".fwb",
		homeDir + "/.fwb/config",
		"/etc/fwb/config",
		"/app/config",
		"config",
		".",
	}

	return LoadConfigFrom(configPaths)
}

// LoadConfigFrom loads common.toml and worker.toml from the first matching path for each file.
func LoadConfigFrom(configPaths []string) (*Config, string, error) {
	k := koanf.New(".")

	// Load all config files
	var usedConfigPath string

	configFiles := []string{"common", "worker"}
	for _, configName := range configFiles {
		configLoaded := false

		for _, path := range configPaths {
			configPath := fmt.Sprintf("%s/%s.toml", path, configName)
			if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
				configLoaded = true

				if usedConfigPath == "" {
					usedConfigPath = path
				}

				break
			}
		}

		if !configLoaded {
			return nil, "", fmt.Errorf("%w: %s.toml", ErrConfigFileNotFound, configName)
		}
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Check versions for each config file
	if err := checkConfigVersion("common", config.Common.Version, CurrentCommonVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("worker", config.Worker.Version, CurrentWorkerVersion); err != nil {
		return nil, "", err
	}

	return &config, usedConfigPath, nil
}

// checkConfigVersion checks if the config file version is correct.
func checkConfigVersion(name string, current, expected int) error {
	if current == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, name)
	}

	if current != expected {
		return fmt.Errorf(
			"%w: %s.toml (got: %d, expected: %d)\n"+
				"Please update your config file from: https://github.com/robalyx/fotowettbewerb/tree/%s/config/%s.toml",
			ErrConfigVersionMismatch,
			name,
			current,
			expected,
			RepositoryVersion,
			name,
		)
	}

	return nil
}
