package ports

// ModuleFinder enumerates module files in a directory tree.
//
//go:generate mockgen -source=discovery.go -destination=mocks/mock_discovery.go -package=mocks
type ModuleFinder interface {
	// ModuleFiles returns the paths, relative to root and sorted, of every file
	// below root with one of the given extensions.
	ModuleFiles(root string, extensions []string) ([]string, error)
}

// InputResolver expands command line inputs into concrete paths.
type InputResolver interface {
	// ResolveInputs expands glob patterns relative to root into a sorted list of existing paths.
	ResolveInputs(inputs []string, root string) ([]string, error)
}
