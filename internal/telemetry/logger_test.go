package telemetry

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_FileCopy(t *testing.T) {
	orig := slog.Default()
	defer slog.SetDefault(orig)

	logFile := filepath.Join(t.TempDir(), "upload.log")
	InitLogger(false, logFile)

	slog.Info("upload complete", "points", 5)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "upload complete")
	assert.Contains(t, string(data), `"points":5`)
}

func TestInitLogger_DebugLevel(t *testing.T) {
	orig := slog.Default()
	defer slog.SetDefault(orig)

	logFile := filepath.Join(t.TempDir(), "debug.log")
	InitLogger(true, logFile)
	slog.Debug("ledger loaded")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ledger loaded")

	// Info level drops debug lines.
	logFile2 := filepath.Join(t.TempDir(), "info.log")
	InitLogger(false, logFile2)
	slog.Debug("should not appear")

	data, err = os.ReadFile(logFile2)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "should not appear")
}
