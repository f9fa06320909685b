package ports

// Hasher defines the interface for computing content digests.
//
//go:generate mockgen -destination=mocks/mock_hasher.go -package=mocks -source=hasher.go
type Hasher interface {
	// HashFile returns the hex digest of the file's content.
	HashFile(path string) (string, error)
}
