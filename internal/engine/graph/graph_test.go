package graph_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/signet/internal/adapters/fs"
	"go.trai.ch/signet/internal/adapters/keys"
	"go.trai.ch/signet/internal/adapters/manifest"
	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
	"go.trai.ch/signet/internal/core/ports/mocks"
	"go.trai.ch/signet/internal/engine/graph"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

var testKey = sync.OnceValues(func() (domain.KeyMaterial, error) {
	return keys.NewStore(domain.DefaultKeyBits).Generate(0)
})

func key(t *testing.T) domain.KeyMaterial {
	t.Helper()
	k, err := testKey()
	require.NoError(t, err)
	return k
}

func module(name string, refs ...string) manifest.Document {
	doc := manifest.Document{
		Name:    name,
		Version: "1.0.0.0",
		Runtime: "v4.0.30319",
		ILOnly:  true,
		Body:    base64.StdEncoding.EncodeToString([]byte(name + " body")),
	}
	for _, ref := range refs {
		doc.References = append(doc.References, manifest.ReferenceEntry{Name: ref, Version: "1.0.0.0"})
	}
	return doc
}

func writeModule(t *testing.T, path string, doc manifest.Document) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, manifest.NewProvider().Write(manifest.New(doc), path, nil))
}

func open(t *testing.T, path string) ports.MetadataHandle {
	t.Helper()
	h, err := manifest.NewProvider().Open(path, ports.ReadOptions{})
	require.NoError(t, err)
	return h
}

func newGraph(t *testing.T, backup bool) *graph.Graph {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return graph.New(fs.NewWalker(), manifest.NewProvider(), fs.NewOSFS(), logger, graph.Options{Backup: backup})
}

func TestGraph_SignWorkingSet(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, filepath.Join(dir, "A.dll"), module("A", "B"))
	writeModule(t, filepath.Join(dir, "B.dll"), module("B"))

	g := newGraph(t, true)
	require.NoError(t, g.AddFromDirectory(dir, ""))

	stats, err := g.Sign(key(t))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Signed)
	assert.Equal(t, 1, stats.Fixed)
	assert.Empty(t, stats.Skipped)

	a := open(t, filepath.Join(dir, "A.dll"))
	b := open(t, filepath.Join(dir, "B.dll"))
	assert.Equal(t, domain.Signed, a.Identity().Signing)
	assert.Equal(t, domain.Signed, b.Identity().Signing)
	require.Len(t, a.References(), 1)
	assert.Equal(t, b.Identity().PublicKeyToken, a.References()[0].PublicKeyToken)
	assert.False(t, b.Identity().PublicKeyToken.IsNull())

	assert.FileExists(t, filepath.Join(dir, "A.dll"+domain.BackupSuffix))
	assert.Equal(t, domain.NotSigned, open(t, filepath.Join(dir, "A.dll"+domain.BackupSuffix)).Identity().Signing)
}

func TestGraph_SignIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, filepath.Join(dir, "A.dll"), module("A", "B"))
	writeModule(t, filepath.Join(dir, "B.dll"), module("B"))

	first := newGraph(t, false)
	require.NoError(t, first.AddFromDirectory(dir, ""))
	_, err := first.Sign(key(t))
	require.NoError(t, err)

	before, err := os.ReadFile(filepath.Join(dir, "A.dll"))
	require.NoError(t, err)

	second := newGraph(t, false)
	require.NoError(t, second.AddFromDirectory(dir, ""))
	stats, err := second.Sign(key(t))
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Signed)
	assert.Equal(t, 0, stats.Fixed)
	assert.True(t, stats.Empty())

	after, err := os.ReadFile(filepath.Join(dir, "A.dll"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGraph_SecondSignOnSameGraph(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, filepath.Join(dir, "A.dll"), module("A", "B"))
	writeModule(t, filepath.Join(dir, "B.dll"), module("B"))

	g := newGraph(t, false)
	require.NoError(t, g.AddFromDirectory(dir, ""))
	_, err := g.Sign(key(t))
	require.NoError(t, err)

	type snapshot struct {
		data    []byte
		modTime int64
	}
	take := func() map[string]snapshot {
		out := make(map[string]snapshot)
		for _, name := range []string{"A.dll", "B.dll"} {
			path := filepath.Join(dir, name)
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			info, err := os.Stat(path)
			require.NoError(t, err)
			out[name] = snapshot{data: data, modTime: info.ModTime().UnixNano()}
		}
		return out
	}
	before := take()

	stats, err := g.Sign(key(t))
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Signed)
	assert.Equal(t, 0, stats.Fixed)
	assert.True(t, stats.Empty())

	assert.Equal(t, before, take())
	for _, r := range g.Records() {
		assert.False(t, r.IsDirty(), r.TargetPath())
	}
}

func TestGraph_ReferencesAcrossDirectories(t *testing.T) {
	root := t.TempDir()
	app := filepath.Join(root, "app")
	lib := filepath.Join(root, "lib")
	writeModule(t, filepath.Join(app, "App.exe"), module("App", "Core", "Base"))
	writeModule(t, filepath.Join(lib, "Core.dll"), module("Core", "Base"))
	writeModule(t, filepath.Join(lib, "Base.dll"), module("Base"))

	g := newGraph(t, false)
	require.NoError(t, g.AddFromDirectory(app, ""))
	require.NoError(t, g.AddFromDirectory(lib, ""))
	assert.Equal(t, []string{app, lib}, g.ProbingPaths())

	stats, err := g.Sign(key(t))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Signed)
	assert.Equal(t, 3, stats.Fixed)

	base := open(t, filepath.Join(lib, "Base.dll")).Identity()
	core := open(t, filepath.Join(lib, "Core.dll")).Identity()
	for _, ref := range open(t, filepath.Join(app, "App.exe")).References() {
		switch ref.Name {
		case "Core":
			assert.Equal(t, core.PublicKeyToken, ref.PublicKeyToken)
		case "Base":
			assert.Equal(t, base.PublicKeyToken, ref.PublicKeyToken)
		}
	}
}

func TestGraph_RemovesFriendDeclarationsWithoutKey(t *testing.T) {
	dir := t.TempDir()
	doc := module("Core")
	doc.Attributes = []manifest.AttributeEntry{
		{Type: domain.FriendAttributeType, Args: []string{"Core.Tests"}},
		{Type: "System.Reflection.AssemblyTitleAttribute", Args: []string{"Core"}},
		{Type: domain.FriendAttributeType, Args: []string{"Core.Bench, PublicKey=0024000004800000"}},
	}
	writeModule(t, filepath.Join(dir, "Core.dll"), doc)

	g := newGraph(t, false)
	require.NoError(t, g.AddFromDirectory(dir, ""))
	stats, err := g.Sign(key(t))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FriendsRemoved)

	h := open(t, filepath.Join(dir, "Core.dll"))
	assert.Equal(t, domain.Signed, h.Identity().Signing)
	attrs := h.Attributes()
	require.Len(t, attrs, 2)
	assert.Equal(t, "System.Reflection.AssemblyTitleAttribute", attrs[0].Type)
	assert.True(t, attrs[1].HasPublicKey())
}

func TestGraph_SkipsUnreadableModules(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, filepath.Join(dir, "Core.dll"), module("Core"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "native.dll"), []byte("MZ\x90\x00"), domain.FilePerm))

	// Skipped files are reported by the caller, so the graph only logs at debug level.
	logger := mocks.NewMockLogger(gomock.NewController(t))
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	g := graph.New(fs.NewWalker(), manifest.NewProvider(), fs.NewOSFS(), logger, graph.Options{})
	require.NoError(t, g.AddFromDirectory(dir, ""))
	stats, err := g.Sign(key(t))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Signed)
	require.Len(t, stats.Skipped, 1)
	assert.Equal(t, filepath.Join(dir, "native.dll"), stats.Skipped[0].Path)
	assert.ErrorIs(t, stats.Skipped[0].Reason, domain.ErrUnreadableFormat)
}

func TestGraph_WritesIntoTargetDirectory(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	out := filepath.Join(root, "out")
	writeModule(t, filepath.Join(src, "A.dll"), module("A", "B"))
	writeModule(t, filepath.Join(src, "sub", "B.dll"), module("B"))
	require.NoError(t, os.WriteFile(filepath.Join(src, "A.pdb"), []byte("symbols"), domain.FilePerm))

	g := newGraph(t, true)
	require.NoError(t, g.AddFromDirectory(src, out))
	stats, err := g.Sign(key(t))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Signed)

	assert.Equal(t, domain.NotSigned, open(t, filepath.Join(src, "A.dll")).Identity().Signing)
	assert.Equal(t, domain.Signed, open(t, filepath.Join(out, "A.dll")).Identity().Signing)
	assert.Equal(t, domain.Signed, open(t, filepath.Join(out, "sub", "B.dll")).Identity().Signing)
	assert.FileExists(t, filepath.Join(out, "A.pdb"))
	assert.NoFileExists(t, filepath.Join(src, "A.dll"+domain.BackupSuffix))
	assert.NoFileExists(t, filepath.Join(out, "A.dll"+domain.BackupSuffix))
}

func TestGraph_AddErrors(t *testing.T) {
	g := newGraph(t, false)
	missing := filepath.Join(t.TempDir(), "missing")

	require.ErrorIs(t, g.Add(missing, "", "Core.dll"), domain.ErrNotFound)
	require.ErrorIs(t, g.AddFromDirectory(missing, ""), domain.ErrNotFound)
	require.ErrorIs(t, g.AddFromFile(filepath.Join(missing, "Core.dll"), ""), domain.ErrNotFound)
	assert.Empty(t, g.Records())
}

func TestGraph_ProbingPathsFollowAdds(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "first")
	second := filepath.Join(root, "second")
	writeModule(t, filepath.Join(first, "A.dll"), module("A"))
	writeModule(t, filepath.Join(first, "B.dll"), module("B"))
	writeModule(t, filepath.Join(second, "C.dll"), module("C"))

	g := newGraph(t, false)
	require.NoError(t, g.AddFromFile(filepath.Join(first, "A.dll"), ""))
	require.NoError(t, g.AddFromFile(filepath.Join(first, "B.dll"), ""))
	assert.Equal(t, []string{first}, g.ProbingPaths())

	require.NoError(t, g.AddFromFile(filepath.Join(second, "C.dll"), ""))
	assert.Equal(t, []string{first, second}, g.ProbingPaths())
	assert.Len(t, g.Records(), 3)
}

func TestGraph_AbortsOnUnexpectedFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := t.TempDir()
	writeModule(t, filepath.Join(dir, "Core.dll"), module("Core"))

	provider := mocks.NewMockMetadataProvider(ctrl)
	provider.EXPECT().Open(filepath.Join(dir, "Core.dll"), gomock.Any()).
		Return(nil, zerr.Wrap(domain.ErrIO, "disk on fire"))
	logger := mocks.NewMockLogger(ctrl)

	g := graph.New(fs.NewWalker(), provider, fs.NewOSFS(), logger, graph.Options{})
	require.NoError(t, g.AddFromDirectory(dir, ""))

	_, err := g.Sign(key(t))
	require.ErrorIs(t, err, domain.ErrBatchAborted)
	require.ErrorIs(t, err, domain.ErrIO)
}

func TestRecord_LoadFailuresDuringFixup(t *testing.T) {
	tests := []struct {
		name    string
		openErr error
		want    domain.OutcomeStatus
	}{
		{name: "unreadable format is left alone", openErr: zerr.Wrap(domain.ErrUnreadableFormat, "native image"), want: domain.OutcomeUnchanged},
		{name: "other failures abort", openErr: zerr.Wrap(domain.ErrIO, "disk on fire"), want: domain.OutcomeAborted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			dir := t.TempDir()
			writeModule(t, filepath.Join(dir, "Core.dll"), module("Core"))

			provider := mocks.NewMockMetadataProvider(ctrl)
			provider.EXPECT().Open(filepath.Join(dir, "Core.dll"), gomock.Any()).Return(nil, tt.openErr).Times(2)
			logger := mocks.NewMockLogger(ctrl)
			logger.EXPECT().Debug(gomock.Any()).AnyTimes()

			g := graph.New(fs.NewWalker(), provider, fs.NewOSFS(), logger, graph.Options{})
			require.NoError(t, g.AddFromDirectory(dir, ""))
			r := g.Records()[0]

			outcome := r.FixReferenceTo(domain.RetargetRule{Name: "Base", AnyFrom: true})
			assert.Equal(t, tt.want, outcome.Status)

			removed, outcome := r.RemoveInvalidFriendReferences()
			assert.Zero(t, removed)
			assert.Equal(t, tt.want, outcome.Status)
			if tt.want == domain.OutcomeAborted {
				require.ErrorIs(t, outcome.Err, domain.ErrIO)
			}
		})
	}
}
