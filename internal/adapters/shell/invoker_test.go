package shell_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/signet/internal/adapters/shell"
	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o700))
	return path
}

func TestInvoker_Invoke_CapturesOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug("sn: verified -vf").Times(1)
	mockLogger.EXPECT().Debug("sn: Core.dll").Times(1)

	invoker := shell.NewInvoker(mockLogger)
	invoker.Configure(map[string]string{"sn": writeScript(t, `echo "verified $1"; echo "$2" >&2`)})

	out, err := invoker.Invoke(context.Background(), "sn", []string{"-vf", "Core.dll"})
	require.NoError(t, err)
	assert.Contains(t, out, "verified -vf")
	assert.Contains(t, out, "Core.dll")
}

func TestInvoker_Invoke_NotConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	invoker := shell.NewInvoker(mocks.NewMockLogger(ctrl))

	_, err := invoker.Invoke(context.Background(), "sn", nil)
	require.ErrorIs(t, err, domain.ErrToolNotConfigured)
}

func TestInvoker_Invoke_MissingExecutable(t *testing.T) {
	ctrl := gomock.NewController(t)
	invoker := shell.NewInvoker(mocks.NewMockLogger(ctrl))
	invoker.Configure(map[string]string{"sn": filepath.Join(t.TempDir(), "missing-sn")})

	_, err := invoker.Invoke(context.Background(), "sn", nil)
	require.ErrorIs(t, err, domain.ErrToolNotConfigured)
}

func TestInvoker_Invoke_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug("sn: signature invalid").Times(1)

	invoker := shell.NewInvoker(mockLogger)
	invoker.Configure(map[string]string{"sn": writeScript(t, "echo 'signature invalid'; exit 3")})

	out, err := invoker.Invoke(context.Background(), "sn", []string{"-vf", "Core.dll"})
	require.ErrorIs(t, err, domain.ErrToolFailed)
	assert.Contains(t, out, "signature invalid")
}

func TestInvoker_Invoke_ContextCanceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()

	invoker := shell.NewInvoker(mockLogger)
	invoker.Configure(map[string]string{"sn": writeScript(t, "sleep 5")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := invoker.Invoke(ctx, "sn", nil)
	require.ErrorIs(t, err, domain.ErrToolFailed)
}
