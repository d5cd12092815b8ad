package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewETLLogger(&buf, false)

	logger.Info("строк: %d", 3)
	logger.Error("сбой: %s", "диск")
	logger.Debug("скрыто")

	out := buf.String()
	assert.Contains(t, out, "INFO: ")
	assert.Contains(t, out, "строк: 3")
	assert.Contains(t, out, "ERROR: ")
	assert.Contains(t, out, "сбой: диск")
	assert.NotContains(t, out, "скрыто")
}

func TestLoggerVerboseDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewETLLogger(&buf, true)

	logger.Debug("видно %d", 1)
	logger.LogPhaseComplete("Merge", 42, time.Now())

	assert.True(t, logger.Verbose())
	assert.Contains(t, buf.String(), "DEBUG: ")
	assert.Contains(t, buf.String(), "Фаза Merge завершена. Строк: 42")
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowmap.log")
	logger, err := NewFileETLLogger(path, false)
	require.NoError(t, err)

	logger.Info("запись в файл")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "запись в файл")
}
