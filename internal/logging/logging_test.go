package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

var testTime = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("boom") }

func TestMultiHandler(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	debug := slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug})
	warn := slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn})

	logger := slog.New(NewMultiHandler(debug, warn)).With("board", "alpha")
	logger.Debug("fetching")
	logger.Warn("refresh failed")

	assert.Contains(t, debugBuf.String(), "fetching")
	assert.Contains(t, debugBuf.String(), "refresh failed")
	assert.NotContains(t, warnBuf.String(), "fetching")
	assert.Contains(t, warnBuf.String(), "refresh failed")
	assert.Contains(t, warnBuf.String(), "board=alpha")
}

func TestMultiHandler_EnabledAndErrors(t *testing.T) {
	var buf bytes.Buffer
	warn := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	h := NewMultiHandler(warn, failingHandler{warn})

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))

	err := h.Handle(context.Background(), slog.NewRecord(testTime, slog.LevelError, "disk full", 0))
	assert.EqualError(t, err, "boom")
	assert.Contains(t, buf.String(), "disk full")
}

func TestSetupLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "perfdash.log")

	logger, err := SetupLogger(path, "debug", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseFile() })

	logger.Debug("snapshot applied", "members", 2)
	require.NoError(t, CloseFile())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "snapshot applied")
	assert.Contains(t, string(data), "members=2")
}

func TestSetupLogger_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perfdash.log")

	logger, err := SetupLogger(path, "warn", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseFile() })

	logger.Info("quiet")
	logger.Warn("loud")
	require.NoError(t, CloseFile())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "quiet")
	assert.Contains(t, string(data), "loud")
}
