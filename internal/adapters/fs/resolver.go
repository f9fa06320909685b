package fs

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver turns command line arguments into module and directory paths.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveInputs expands inputs relative to root. Arguments containing glob
// metacharacters are expanded, literal arguments are kept as they are. The
// result is sorted and free of duplicates. A literal that does not exist or a
// pattern matching nothing fails with domain.ErrNotFound.
func (r *Resolver) ResolveInputs(inputs []string, root string) ([]string, error) {
	seen := make(map[string]struct{}, len(inputs))

	for _, input := range inputs {
		path := input
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, input)
		}

		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid input pattern"), "pattern", input)
		}

		if len(matches) == 0 {
			msg := "input does not exist"
			if isPattern(input) {
				msg = "input pattern matched no files"
			}
			return nil, zerr.With(zerr.Wrap(domain.ErrNotFound, msg), "path", path)
		}

		for _, match := range matches {
			seen[filepath.Clean(match)] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen)), nil
}

func isPattern(input string) bool {
	return strings.ContainsAny(input, `*?[`)
}
