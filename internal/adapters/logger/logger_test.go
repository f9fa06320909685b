package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/signet/internal/adapters/logger"
	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger with an injected bytes.Buffer for isolated testing.
// It also sets NO_COLOR=1 to ensure deterministic output without ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Info(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Info("some message")

	g := goldie.New(t)
	g.Assert(t, "info_basic", buf.Bytes())
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Warn("some warning")

	g := goldie.New(t)
	g.Assert(t, "warn_basic", buf.Bytes())
}

func TestLogger_Debug(t *testing.T) {
	t.Run("hidden by default", func(t *testing.T) {
		lg, buf := newTestLogger(t)
		lg.Debug("checking Core.dll")
		lg.Info("visible")

		g := goldie.New(t)
		g.Assert(t, "debug_hidden", buf.Bytes())
	})

	t.Run("shown when verbose", func(t *testing.T) {
		lg, buf := newTestLogger(t)
		lg.SetVerbose(true)
		lg.Debug("checking Core.dll")
		lg.Info("visible")

		g := goldie.New(t)
		g.Assert(t, "debug_verbose", buf.Bytes())
	})
}

func TestLogger_Error(t *testing.T) {
	t.Run("renders the chain", func(t *testing.T) {
		lg, buf := newTestLogger(t)
		err := zerr.With(zerr.Wrap(errors.New("permission denied"), "failed to write module"), "path", "bin/Core.dll")
		lg.Error(err)

		g := goldie.New(t)
		g.Assert(t, "error_chain", buf.Bytes())
	})

	t.Run("nil is ignored", func(t *testing.T) {
		lg, buf := newTestLogger(t)
		lg.Error(nil)
		assert.Empty(t, buf.String())
	})
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("signed Core.dll")
	lg.Error(zerr.Wrap(domain.ErrIO, "commit failed"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &info))
	assert.Equal(t, "INFO", info["level"])
	assert.Equal(t, "signed Core.dll", info["msg"])

	var failure map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &failure))
	assert.Equal(t, "ERROR", failure["level"])
	assert.Equal(t, "operation failed", failure["msg"])
	assert.Contains(t, failure, "error")
}

func TestLogger_Configure(t *testing.T) {
	lg, buf := newTestLogger(t)
	logFile := filepath.Join(t.TempDir(), "logs", "signet.log")

	lg.Configure(domain.LogSettings{Verbose: true, File: logFile, MaxSizeMB: 1})
	lg.Debug("probing lib")
	lg.Warn("skipping native.dll")
	require.NoError(t, lg.Close())

	assert.Contains(t, buf.String(), "probing lib")
	assert.Contains(t, buf.String(), "! skipping native.dll")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "skipping native.dll", record["msg"])
}

func TestNew(t *testing.T) {
	lg := logger.New()
	require.NotNil(t, lg)
}
