package ports

import "io/fs"

// FileSystem abstracts the file operations used by output transactions.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Stat returns file info for the given path.
	Stat(path string) (fs.FileInfo, error)
	// Exists reports whether path exists.
	Exists(path string) bool
	// CopyFile copies src to dst, replacing dst.
	CopyFile(src, dst string) error
	// Rename moves src to dst, replacing dst.
	Rename(src, dst string) error
	// Remove deletes a file. Missing files are not an error.
	Remove(path string) error
	// RemoveAll deletes a directory tree.
	RemoveAll(path string) error
	// MkdirAll creates a directory and its parents.
	MkdirAll(path string) error
	// MkdirTemp creates a new uniquely named directory.
	MkdirTemp(pattern string) (string, error)
}
