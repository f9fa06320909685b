package fs

import (
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"syscall"

	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*OSFS)(nil)

// OSFS implements ports.FileSystem using the standard library.
type OSFS struct{}

// NewOSFS creates a new OSFS instance.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// Stat returns file info for the given path.
func (o *OSFS) Stat(path string) (iofs.FileInfo, error) {
	return os.Stat(path)
}

// Exists reports whether path exists.
func (o *OSFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CopyFile copies src to dst through a temporary file in dst's directory,
// preserving src's permission bits.
func (o *OSFS) CopyFile(src, dst string) (err error) {
	in, err := os.Open(src) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open copy source"), "path", src)
	}
	defer in.Close() //nolint:errcheck // Read-only file

	info, err := in.Stat()
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat copy source"), "path", src)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create temporary file"), "path", dst)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, "failed to copy file content"), "path", dst)
	}
	if err = tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close temporary file"), "path", dst)
	}
	if err = os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to set file mode"), "path", dst)
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to move file into place"), "path", dst)
	}
	return nil
}

// Rename moves src to dst, replacing dst. Moves across devices fall back to a copy.
func (o *OSFS) Rename(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		if !errors.Is(err, syscall.EXDEV) {
			return zerr.With(zerr.Wrap(err, "failed to rename"), "path", src)
		}
		if err := o.CopyFile(src, dst); err != nil {
			return err
		}
		return o.Remove(src)
	}
	return nil
}

// Remove deletes a file. Missing files are not an error.
func (o *OSFS) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove file"), "path", path)
	}
	return nil
}

// RemoveAll deletes a directory tree.
func (o *OSFS) RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove directory"), "path", path)
	}
	return nil
}

// MkdirAll creates a directory and its parents.
func (o *OSFS) MkdirAll(path string) error {
	if err := os.MkdirAll(path, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", path)
	}
	return nil
}

// MkdirTemp creates a new uniquely named directory in the system temp directory.
func (o *OSFS) MkdirTemp(pattern string) (string, error) {
	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create temporary directory"), "pattern", pattern)
	}
	return dir, nil
}
