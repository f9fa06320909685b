package fs

import (
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes XXH64 content digests of module files.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// HashFile returns the 16 character hex digest of the file's content.
func (h *Hasher) HashFile(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", zerr.With(zerr.Wrap(domain.ErrNotFound, "cannot hash missing file"), "path", path)
		}
		return "", zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	d := xxhash.New()
	if _, err := io.Copy(d, f); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}
	return hex.EncodeToString(d.Sum(nil)), nil
}
