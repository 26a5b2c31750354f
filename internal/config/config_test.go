package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return data
}

func TestLoad_Defaults(t *testing.T) {
	data := isolate(t)

	cfg, err := Load(New())
	require.NoError(t, err)

	dir := filepath.Join(data, "trivia")
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "questionsList.csv"), cfg.QuestionsFile)
	assert.Equal(t, filepath.Join(dir, "trivia.db"), cfg.DB)
	assert.Equal(t, filepath.Join(dir, "trivia.log"), cfg.Log.File)
	assert.Equal(t, "https://opentdb.com", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 50, cfg.Ingest.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.Ingest.Delay)
	assert.Equal(t, 0, cfg.Ingest.Total)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Leaderboard.Limit)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("TRIVIA_DATA_DIR", "/srv/trivia")
	t.Setenv("TRIVIA_INGEST_BATCH_SIZE", "20")
	t.Setenv("TRIVIA_INGEST_DELAY", "250ms")
	t.Setenv("TRIVIA_LOG_LEVEL", "DEBUG")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "/srv/trivia", cfg.DataDir)
	assert.Equal(t, filepath.Join("/srv/trivia", "trivia.db"), cfg.DB)
	assert.Equal(t, 20, cfg.Ingest.BatchSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Ingest.Delay)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
data_dir: /opt/trivia
questions_file: /opt/shared/questions.csv
api:
  base_url: http://localhost:8080
  timeout: 5s
ingest:
  total: 120
leaderboard:
  limit: 5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	v := New()
	v.SetConfigFile(path)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/opt/shared/questions.csv", cfg.QuestionsFile)
	assert.Equal(t, filepath.Join("/opt/trivia", "trivia.db"), cfg.DB)
	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 120, cfg.Ingest.Total)
	assert.Equal(t, 5, cfg.Leaderboard.Limit)
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unterminated"), 0o644))

	v := New()
	v.SetConfigFile(path)
	_, err := Load(v)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		c := Default()
		c.DataDir = "/tmp/trivia"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero batch", func(c *Config) { c.Ingest.BatchSize = 0 }, "ingest.batch_size"},
		{"batch too large", func(c *Config) { c.Ingest.BatchSize = 51 }, "ingest.batch_size"},
		{"negative delay", func(c *Config) { c.Ingest.Delay = -time.Second }, "ingest.delay"},
		{"negative total", func(c *Config) { c.Ingest.Total = -1 }, "ingest.total"},
		{"zero limit", func(c *Config) { c.Leaderboard.Limit = 0 }, "leaderboard.limit"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }, "api.timeout"},
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }, "api.base_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	isolate(t)
	v := New()
	v.Set(KeyIngestBatchSize, 0)

	_, err := Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest.batch_size")
}

