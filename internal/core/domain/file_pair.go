package domain

import "path/filepath"

// FilePair couples a module's input path with the path its signed copy is written to.
type FilePair struct {
	Input  string
	Output string
}

// NewFilePair builds a pair. An empty outputDir keeps the output next to the input.
func NewFilePair(input, outputDir string) FilePair {
	output := input
	if outputDir != "" {
		output = filepath.Join(outputDir, filepath.Base(input))
	}
	return FilePair{Input: filepath.Clean(input), Output: filepath.Clean(output)}
}

// InputBackup is the path the unsigned input is preserved at.
func (p FilePair) InputBackup() string {
	return BackupPath(p.Input)
}

// OutputBackup is the path an existing output is preserved at before being replaced.
func (p FilePair) OutputBackup() string {
	return BackupPath(p.Output)
}

// SamePath reports whether the module is rewritten in place.
func (p FilePair) SamePath() bool {
	return SamePath(p.Input, p.Output)
}

// SamePath reports whether two paths name the same file after cleaning and
// resolving them to absolute form.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// BackupPath returns the backup location for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// SymbolPath returns the debug symbol sidecar location for a module path.
func SymbolPath(path string) string {
	return path[:len(path)-len(filepath.Ext(path))] + SymbolExtension
}
