package manifest_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/signet/internal/adapters/keys"
	"go.trai.ch/signet/internal/adapters/manifest"
	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
)

func sampleDocument() manifest.Document {
	return manifest.Document{
		Name:     "Core",
		Version:  "1.2.0.0",
		Runtime:  "v4.0.30319",
		Platform: "x64",
		ILOnly:   true,
		References: []manifest.ReferenceEntry{
			{Name: "Base", Version: "1.0.0.0", Culture: "neutral"},
			{Name: "mscorlib", Version: "4.0.0.0", PublicKeyToken: "b77a5c561934e089"},
		},
		Attributes: []manifest.AttributeEntry{
			{Type: domain.FriendAttributeType, Args: []string{"Core.Tests"}},
			{Type: "System.Reflection.AssemblyTitleAttribute", Args: []string{"Core"}},
		},
		Body: base64.StdEncoding.EncodeToString([]byte("il code")),
	}
}

func writeModule(t *testing.T, path string, doc manifest.Document, key *domain.KeyMaterial) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, manifest.NewProvider().Write(manifest.New(doc), path, key))
}

func TestProvider_OpenUnsigned(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "Core.dll")
	writeModule(t, path, sampleDocument(), nil)

	handle, err := manifest.NewProvider().Open(path, ports.ReadOptions{})
	require.NoError(t, err)

	id := handle.Identity()
	assert.Equal(t, path, id.Path)
	assert.Equal(t, "Core", id.Name)
	assert.Equal(t, "1.2.0.0", id.Version)
	assert.Equal(t, "v4.0.30319", id.RuntimeVersion)
	assert.Equal(t, domain.PlatformX64, id.Platform)
	assert.True(t, id.ILOnly)
	assert.Equal(t, domain.NotSigned, id.Signing)
	assert.True(t, id.PublicKeyToken.IsNull())
	assert.Equal(t, id, handle.Identity())

	refs := handle.References()
	require.Len(t, refs, 2)
	assert.Equal(t, "Base", refs[0].Name)
	assert.True(t, refs[0].PublicKeyToken.IsNull())
	assert.Equal(t, domain.PublicKeyToken("b77a5c561934e089"), refs[1].PublicKeyToken)

	attrs := handle.Attributes()
	require.Len(t, attrs, 2)
	assert.True(t, attrs[0].IsFriendDeclaration())
}

func TestProvider_WriteWithKeySigns(t *testing.T) {
	t.Parallel()

	store := keys.NewStore(0)
	key, err := store.Generate(0)
	require.NoError(t, err)
	want, err := store.PublicKeyToken(key)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "Core.dll")
	writeModule(t, path, sampleDocument(), &key)

	provider := manifest.NewProvider()
	handle, err := provider.Open(path, ports.ReadOptions{})
	require.NoError(t, err)

	id := handle.Identity()
	assert.Equal(t, domain.Signed, id.Signing)
	assert.Equal(t, want, id.PublicKeyToken)

	t.Run("modification invalidates the signature", func(t *testing.T) {
		require.NoError(t, handle.RemoveAttribute(1))
		assert.Equal(t, domain.DelaySigned, handle.Identity().Signing)
		assert.Equal(t, want, handle.Identity().PublicKeyToken)
	})

	t.Run("rewriting without a key keeps it delay signed", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "Core.dll")
		require.NoError(t, provider.Write(handle, out, nil))

		reopened, err := provider.Open(out, ports.ReadOptions{})
		require.NoError(t, err)
		assert.Equal(t, domain.DelaySigned, reopened.Identity().Signing)
	})
}

func TestProvider_WriteUnchangedRoundTrips(t *testing.T) {
	t.Parallel()

	key, err := keys.NewStore(0).Generate(0)
	require.NoError(t, err)

	tests := []struct {
		name string
		key  *domain.KeyMaterial
	}{
		{name: "unsigned", key: nil},
		{name: "signed", key: &key},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "Core.dll")
			writeModule(t, path, sampleDocument(), tt.key)

			provider := manifest.NewProvider()
			handle, err := provider.Open(path, ports.ReadOptions{})
			require.NoError(t, err)
			before := handle.Identity()

			require.NoError(t, provider.Write(handle, path, nil))

			reopened, err := provider.Open(path, ports.ReadOptions{})
			require.NoError(t, err)
			assert.Equal(t, before, reopened.Identity())
			assert.Equal(t, handle.References(), reopened.References())
		})
	}
}

func TestProvider_ResolvesReferences(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	appDir := filepath.Join(root, "app")
	libDir := filepath.Join(root, "lib")

	writeModule(t, filepath.Join(libDir, "Base.dll"), manifest.Document{Name: "Base", Version: "1.0.0.0"}, nil)
	writeModule(t, filepath.Join(appDir, "Core.dll"), sampleDocument(), nil)

	provider := manifest.NewProvider()

	handle, err := provider.Open(filepath.Join(appDir, "Core.dll"), ports.ReadOptions{})
	require.NoError(t, err)
	assert.Empty(t, handle.References()[0].Location)

	handle, err = provider.Open(filepath.Join(appDir, "Core.dll"), ports.ReadOptions{SearchDirs: []string{libDir}})
	require.NoError(t, err)
	refs := handle.References()
	assert.Equal(t, filepath.Join(libDir, "Base.dll"), refs[0].Location)
	assert.Empty(t, refs[1].Location)
}

func TestProvider_SetReference(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "Core.dll")
	writeModule(t, path, sampleDocument(), nil)

	provider := manifest.NewProvider()
	handle, err := provider.Open(path, ports.ReadOptions{})
	require.NoError(t, err)

	ref := handle.References()[0]
	ref.Version = "2.0.0.0"
	ref.PublicKeyToken = "0123456789abcdef"
	require.NoError(t, handle.SetReference(0, ref))
	require.NoError(t, provider.Write(handle, path, nil))

	reopened, err := provider.Open(path, ports.ReadOptions{})
	require.NoError(t, err)
	got := reopened.References()[0]
	assert.Equal(t, "2.0.0.0", got.Version)
	assert.Equal(t, domain.PublicKeyToken("0123456789abcdef"), got.PublicKeyToken)
	assert.Equal(t, "neutral", got.Culture)

	assert.ErrorIs(t, handle.SetReference(5, ref), domain.ErrUnexpected)
	assert.ErrorIs(t, handle.RemoveAttribute(-1), domain.ErrUnexpected)
}

func TestProvider_OpenErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	provider := manifest.NewProvider()

	_, err := provider.Open(filepath.Join(dir, "missing.dll"), ports.ReadOptions{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	files := map[string][]byte{
		"native.dll":   {0x4d, 0x5a, 0x90, 0x00, 0x03, 0x00, 0xff, 0xff},
		"other.dll":    []byte("format: something/else\nname: X\n"),
		"nameless.dll": []byte("format: signet.module/v1\nversion: 1.0.0.0\n"),
		"platform.dll": []byte("format: signet.module/v1\nname: X\nplatform: sparc\n"),
		"token.dll":    []byte("format: signet.module/v1\nname: X\nreferences:\n  - name: Y\n    version: 1.0.0.0\n    publicKeyToken: zz\n"),
	}
	for name, data := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o600))

		_, err := provider.Open(path, ports.ReadOptions{})
		assert.ErrorIs(t, err, domain.ErrUnreadableFormat, name)
	}
}

func TestProvider_WriteRejectsForeignHandles(t *testing.T) {
	t.Parallel()

	err := manifest.NewProvider().Write(nil, filepath.Join(t.TempDir(), "x.dll"), nil)
	assert.ErrorIs(t, err, domain.ErrUnexpected)
}
