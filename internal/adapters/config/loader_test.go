package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/signet/internal/adapters/config"
	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return config.NewLoader(log)
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(content), 0o600))
}

func TestLoader_Defaults(t *testing.T) {
	t.Parallel()

	cwd := t.TempDir()
	settings, err := newLoader(t).Load(cwd)
	require.NoError(t, err)

	assert.Equal(t, cwd, settings.Root)
	assert.Equal(t, domain.PasswordEnv, settings.PasswordEnv)
	assert.Equal(t, domain.DefaultModuleExtensions(), settings.Extensions)
	assert.True(t, settings.Backup)
	assert.Empty(t, settings.KeyFile)
	assert.Equal(t, 10, settings.Log.MaxSizeMB)
}

func TestLoader_DiscoversParentConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeConfig(t, root, `
key: keys/release.snk
passwordEnv: RELEASE_PASSWORD
output: out
extensions: [.dll]
backup: false
log:
  json: true
  file: logs/signet.log
  maxSizeMB: 5
tools:
  sn: /opt/sdk/sn
`)
	nested := filepath.Join(root, "src", "app")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	settings, err := newLoader(t).Load(nested)
	require.NoError(t, err)

	assert.Equal(t, root, settings.Root)
	assert.Equal(t, filepath.Join(root, "keys", "release.snk"), settings.KeyFile)
	assert.Equal(t, "RELEASE_PASSWORD", settings.PasswordEnv)
	assert.Equal(t, filepath.Join(root, "out"), settings.OutputDir)
	assert.Equal(t, []string{".dll"}, settings.Extensions)
	assert.False(t, settings.Backup)
	assert.True(t, settings.Log.JSON)
	assert.Equal(t, filepath.Join(root, "logs", "signet.log"), settings.Log.File)
	assert.Equal(t, 5, settings.Log.MaxSizeMB)
	assert.Equal(t, "/opt/sdk/sn", settings.Tools["sn"])
}

func TestLoader_AbsolutePathsAreKept(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	keyPath := filepath.Join(t.TempDir(), "release.pfx")
	writeConfig(t, root, "key: "+keyPath+"\n")

	settings, err := newLoader(t).Load(root)
	require.NoError(t, err)
	assert.Equal(t, keyPath, settings.KeyFile)
}

func TestLoader_ParseError(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeConfig(t, root, "key: [unterminated\n")

	_, err := newLoader(t).Load(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

func TestLoader_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "extension without dot", content: "extensions: [dll]\n"},
		{name: "bad env name", content: "passwordEnv: 1-PASSWORD\n"},
		{name: "negative log size", content: "log:\n  maxSizeMB: -1\n"},
		{name: "empty tool path", content: "tools:\n  sn: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			writeConfig(t, root, tt.content)

			_, err := newLoader(t).Load(root)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfigInvalid)
		})
	}
}

func TestLoader_LoadsEnvFile(t *testing.T) {
	const name = "SIGNET_TEST_DOTENV_PASSWORD"
	t.Setenv(name, "")
	require.NoError(t, os.Unsetenv(name))

	cwd := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cwd, config.EnvFileName), []byte(name+"=from-dotenv\n"), 0o600))

	_, err := newLoader(t).Load(cwd)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", os.Getenv(name))
}
