package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreLogger(t *testing.T) {
	t.Helper()
	original := logger
	t.Cleanup(func() { logger = original })
}

func TestInit(t *testing.T) {
	restoreLogger(t)

	t.Run("ParsesLevel", func(t *testing.T) {
		require.NoError(t, Init(Config{Level: "warn", Format: "text", Output: "stdout"}))
		assert.Equal(t, logrus.WarnLevel, logger.Level)
	})

	t.Run("InvalidLevelFallsBackToInfo", func(t *testing.T) {
		require.NoError(t, Init(Config{Level: "loud", Format: "text", Output: "stdout"}))
		assert.Equal(t, logrus.InfoLevel, logger.Level)
	})

	t.Run("JSONFormat", func(t *testing.T) {
		require.NoError(t, Init(Config{Level: "info", Format: "json", Output: "stdout"}))
		_, ok := logger.Formatter.(*logrus.JSONFormatter)
		assert.True(t, ok)
	})

	t.Run("TextFormat", func(t *testing.T) {
		require.NoError(t, Init(Config{Level: "info", Format: "text", Output: "stdout"}))
		_, ok := logger.Formatter.(*logrus.TextFormatter)
		assert.True(t, ok)
	})
}

func TestInit_StderrOutput(t *testing.T) {
	restoreLogger(t)

	// the watch command logs to stderr so event output on stdout stays clean
	require.NoError(t, Init(Config{Level: "info", Format: "text", Output: "stderr"}))
	assert.Equal(t, os.Stderr, logger.Out)
}

func TestInit_FileOutput(t *testing.T) {
	restoreLogger(t)

	logFile := filepath.Join(t.TempDir(), "nested", "app.log")
	require.NoError(t, Init(Config{
		Level:    "info",
		Format:   "text",
		Output:   "file",
		Filename: logFile,
	}))

	Info("rental feed started")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "rental feed started")
}

func TestFieldHelpers(t *testing.T) {
	restoreLogger(t)

	var buf bytes.Buffer
	logger = logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(&buf)

	t.Run("WithField", func(t *testing.T) {
		buf.Reset()
		WithField("rental_no", "RT42").Info("rental created")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "rental created", entry["msg"])
		assert.Equal(t, "RT42", entry["rental_no"])
	})

	t.Run("WithFields", func(t *testing.T) {
		buf.Reset()
		WithFields(map[string]interface{}{
			"rental_no": "RT42",
			"status":    "completed",
		}).Info("rental status updated")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "RT42", entry["rental_no"])
		assert.Equal(t, "completed", entry["status"])
	})

	t.Run("WithError", func(t *testing.T) {
		buf.Reset()
		WithError(assert.AnError).Error("broadcast failed")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, assert.AnError.Error(), entry["error"])
	})
}

func TestLevelFiltering(t *testing.T) {
	restoreLogger(t)

	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "error", Format: "text", Output: "stdout"}))
	logger.SetOutput(&buf)

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	assert.Empty(t, strings.TrimSpace(buf.String()))

	Error("error message")
	assert.Contains(t, buf.String(), "error message")
}

func TestGetLogger_LazyInit(t *testing.T) {
	restoreLogger(t)

	logger = nil
	l := GetLogger()
	require.NotNil(t, l)
	assert.Same(t, l, GetLogger())
}
