package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/signet/internal/adapters/logger"
	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
		wantMetadata []map[string]any
	}{
		{
			name:         "plain error",
			err:          errors.New("permission denied"),
			wantMessages: []string{"permission denied"},
			wantMetadata: []map[string]any{nil},
		},
		{
			name:         "sentinel",
			err:          domain.ErrAlreadySigned,
			wantMessages: []string{"module is already strong-name signed"},
			wantMetadata: []map[string]any{{}},
		},
		{
			name:         "wrapped sentinel with path",
			err:          zerr.With(zerr.Wrap(domain.ErrNotFound, "module missing"), "path", "bin/App.dll"),
			wantMessages: []string{"module missing", "not found"},
			wantMetadata: []map[string]any{{"path": "bin/App.dll"}, {}},
		},
		{
			name:         "metadata on a plain cause",
			err:          zerr.With(errors.New("disk full"), "path", "bin/Core.dll"),
			wantMessages: []string{"disk full"},
			wantMetadata: []map[string]any{{"path": "bin/Core.dll"}},
		},
		{
			name:         "joined classification stops the walk",
			err:          zerr.Wrap(errors.Join(domain.ErrIO, errors.New("rename failed")), "commit failed"),
			wantMessages: []string{"commit failed", "file operation failed\nrename failed"},
			wantMetadata: []map[string]any{{}, nil},
		},
		{
			name: "nil",
			err:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntriesExported(tt.err)
			if tt.err == nil {
				assert.Empty(t, entries)
				return
			}

			assert.Len(t, entries, len(tt.wantMessages))
			for i, want := range tt.wantMessages {
				assert.Equal(t, want, entries[i].Message, "message %d", i)
				assert.Equal(t, tt.wantMetadata[i], entries[i].Metadata, "metadata %d", i)
			}
		})
	}
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "none",
			entries: nil,
			want:    "",
		},
		{
			name:    "single",
			entries: []logger.ErrorEntry{{Message: "invalid key material"}},
			want:    "Error: invalid key material",
		},
		{
			name: "cause chain",
			entries: []logger.ErrorEntry{
				{Message: "batch signing aborted"},
				{Message: "file operation failed"},
				{Message: "rename failed"},
			},
			want: "Error: batch signing aborted\n\n  Caused by:\n    → file operation failed\n    → rename failed",
		},
		{
			name: "sorted metadata on both levels",
			entries: []logger.ErrorEntry{
				{Message: "failed to sign", Metadata: map[string]any{"path": "a.dll", "key": "k.snk"}},
				{Message: "external tool failed", Metadata: map[string]any{"tool": "sn"}},
			},
			want: "Error: failed to sign\n       key: k.snk\n       path: a.dll\n\n" +
				"  Caused by:\n    → external tool failed\n      tool: sn",
		},
		{
			name: "multiline messages are indented",
			entries: []logger.ErrorEntry{
				{Message: "commit failed\nrolled back"},
				{Message: "file operation failed\nrename failed"},
			},
			want: "Error: commit failed\n       rolled back\n\n" +
				"  Caused by:\n    → file operation failed\n      rename failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntriesExported(tt.entries))
		})
	}
}

func TestFormatSigningFailure(t *testing.T) {
	err := zerr.With(zerr.Wrap(domain.ErrInvalidKey, "failed to load key"), "path", "keys/app.pfx")

	got := logger.FormatErrorEntriesExported(logger.CollectErrorEntriesExported(err))

	assert.Equal(t, "Error: failed to load key\n       path: keys/app.pfx\n\n"+
		"  Caused by:\n    → invalid key material", got)
}
