package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "trivia.log")
	logger, cleanup, err := New(Config{File: path, Level: "info"})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("ingestion complete", zap.Int("questions", 42))
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "ingestion complete", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.EqualValues(t, 42, entry["questions"])
}

func TestNew_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trivia.log")
	for i := 0; i < 2; i++ {
		logger, cleanup, err := New(Config{File: path, Level: "debug"})
		require.NoError(t, err)
		logger.Debug("run")
		cleanup()
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), `"msg":"run"`))
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New(Config{File: filepath.Join(t.TempDir(), "x.log"), Level: "chatty"})
	require.Error(t, err)
}

func TestNew_NoFile(t *testing.T) {
	logger, cleanup, err := New(Config{})
	require.NoError(t, err)
	logger.Info("discarded")
	cleanup()
}
