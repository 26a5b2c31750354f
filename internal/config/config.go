// Package config loads application settings from defaults, an optional
// config.yaml, TRIVIA_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/kchang/trivia/internal/ingest"
	"github.com/kchang/trivia/internal/opentdb"
	"github.com/kchang/trivia/internal/questionstore"
	"github.com/kchang/trivia/internal/store"
)

// EnvPrefix prefixes every environment variable, e.g. TRIVIA_API_BASE_URL.
const EnvPrefix = "TRIVIA"

// Keys understood by Load.
const (
	KeyDataDir          = "data_dir"
	KeyQuestionsFile    = "questions_file"
	KeyDB               = "db"
	KeyAPIBaseURL       = "api.base_url"
	KeyAPITimeout       = "api.timeout"
	KeyIngestBatchSize  = "ingest.batch_size"
	KeyIngestDelay      = "ingest.delay"
	KeyIngestTotal      = "ingest.total"
	KeyLogFile          = "log.file"
	KeyLogLevel         = "log.level"
	KeyLeaderboardLimit = "leaderboard.limit"
)

// Config holds all application configuration.
type Config struct {
	// DataDir holds the question file, database and log unless overridden.
	DataDir string

	// QuestionsFile defaults to <DataDir>/questionsList.csv.
	QuestionsFile string

	// DB is the SQLite path. Default: <DataDir>/trivia.db.
	DB string

	API         APIConfig
	Ingest      IngestConfig
	Log         LogConfig
	Leaderboard LeaderboardConfig
}

// APIConfig configures the remote trivia service.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// IngestConfig configures question ingestion.
type IngestConfig struct {
	BatchSize int
	Delay     time.Duration

	// Total is the number of questions to fetch. 0 asks the service.
	Total int
}

// LogConfig configures the log file.
type LogConfig struct {
	// File defaults to <DataDir>/trivia.log.
	File  string
	Level string
}

// LeaderboardConfig configures leaderboard display.
type LeaderboardConfig struct {
	Limit int
}

// Default returns a Config with defaults. Paths are left empty here and
// derived from DataDir by Load.
func Default() Config {
	dataDir, err := store.DefaultDataDir()
	if err != nil {
		dataDir = ".trivia"
	}
	return Config{
		DataDir: dataDir,
		API: APIConfig{
			BaseURL: opentdb.DefaultBaseURL,
			Timeout: 30 * time.Second,
		},
		Ingest: IngestConfig{
			BatchSize: ingest.DefaultBatchSize,
			Delay:     ingest.DefaultDelay,
		},
		Log: LogConfig{
			Level: "info",
		},
		Leaderboard: LeaderboardConfig{
			Limit: store.DefaultTopN,
		},
	}
}

// New returns a viper instance with defaults, environment binding and the
// config file search path set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "trivia"))
	}
	return v
}

// SetDefaults registers d as the default value of every key.
func SetDefaults(v *viper.Viper, d Config) {
	v.SetDefault(KeyDataDir, d.DataDir)
	v.SetDefault(KeyQuestionsFile, d.QuestionsFile)
	v.SetDefault(KeyDB, d.DB)
	v.SetDefault(KeyAPIBaseURL, d.API.BaseURL)
	v.SetDefault(KeyAPITimeout, d.API.Timeout)
	v.SetDefault(KeyIngestBatchSize, d.Ingest.BatchSize)
	v.SetDefault(KeyIngestDelay, d.Ingest.Delay)
	v.SetDefault(KeyIngestTotal, d.Ingest.Total)
	v.SetDefault(KeyLogFile, d.Log.File)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLeaderboardLimit, d.Leaderboard.Limit)
}

// Load reads the config file if one exists, resolves derived paths and
// validates the result.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		DataDir:       v.GetString(KeyDataDir),
		QuestionsFile: v.GetString(KeyQuestionsFile),
		DB:            v.GetString(KeyDB),
		API: APIConfig{
			BaseURL: v.GetString(KeyAPIBaseURL),
			Timeout: v.GetDuration(KeyAPITimeout),
		},
		Ingest: IngestConfig{
			BatchSize: v.GetInt(KeyIngestBatchSize),
			Delay:     v.GetDuration(KeyIngestDelay),
			Total:     v.GetInt(KeyIngestTotal),
		},
		Log: LogConfig{
			File:  v.GetString(KeyLogFile),
			Level: strings.ToLower(v.GetString(KeyLogLevel)),
		},
		Leaderboard: LeaderboardConfig{
			Limit: v.GetInt(KeyLeaderboardLimit),
		},
	}
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) resolvePaths() {
	if c.QuestionsFile == "" {
		c.QuestionsFile = filepath.Join(c.DataDir, questionstore.FileName)
	}
	if c.DB == "" {
		c.DB = filepath.Join(c.DataDir, "trivia.db")
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(c.DataDir, "trivia.log")
	}
}

// Validate rejects settings the application cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", KeyDataDir))
	}
	if c.API.BaseURL == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", KeyAPIBaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %s", KeyAPITimeout, c.API.Timeout))
	}
	if c.Ingest.BatchSize <= 0 || c.Ingest.BatchSize > opentdb.MaxAmount {
		errs = append(errs, fmt.Errorf("%s must be between 1 and %d, got %d", KeyIngestBatchSize, opentdb.MaxAmount, c.Ingest.BatchSize))
	}
	if c.Ingest.Delay < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %s", KeyIngestDelay, c.Ingest.Delay))
	}
	if c.Ingest.Total < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %d", KeyIngestTotal, c.Ingest.Total))
	}
	if c.Leaderboard.Limit <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", KeyLeaderboardLimit, c.Leaderboard.Limit))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyLogLevel, err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
