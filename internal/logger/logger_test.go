package logger_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/kyson/cmdkit/internal/logger"
	"github.com/kyson/cmdkit/internal/manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ manager.Logger = (*logger.Leveled)(nil)

func TestLogger_Setup(t *testing.T) {
	logger.ResetForTest()

	logger.Setup(logger.Config{Debug: true})
	l := logger.Get()
	assert.NotNil(t, l, "logger instance should not be nil")
	assert.True(t, l.Enabled(context.Background(), slog.LevelDebug), "logger level should be debug")
}

func TestLogger_FileConfig(t *testing.T) {
	logger.ResetForTest()
	t.Cleanup(logger.ResetForTest)

	logPath := filepath.Join(t.TempDir(), "logs", "test.log")
	logger.Setup(logger.Config{FilePath: logPath})

	logger.Info("test file log content")

	assert.FileExists(t, logPath)
	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "test file log content")
}

func TestLeveled_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: logger.LevelVerbose}))
	lv := logger.NewLeveled(l)

	lv.Verbose("verbose line")
	lv.Warning("validation rejected", "command", "board.place")
	lv.Error("execution failed", errors.New("cell occupied"), "command", "board.place")
	lv.Fatal("fatal line", nil)

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG-4 msg=\"verbose line\"")
	assert.Contains(t, out, "level=WARN msg=\"validation rejected\" command=board.place")
	assert.Contains(t, out, "level=ERROR msg=\"execution failed\" error=\"cell occupied\" command=board.place")
	assert.Contains(t, out, "level=ERROR+4 msg=\"fatal line\"")
}

func TestLeveled_VerboseFilteredAtInfo(t *testing.T) {
	var buf bytes.Buffer
	lv := logger.NewLeveled(slog.New(slog.NewTextHandler(&buf, nil)))

	lv.Verbose("hidden")
	lv.Debug("hidden too")
	lv.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		n := logger.Nop()
		n.Info("x")
		n.Error("y", errors.New("z"))
	})
}
