package ports

import "go.trai.ch/signet/internal/core/domain"

// KeySource produces strong name key material.
//
//go:generate mockgen -source=keys.go -destination=mocks/mock_keys.go -package=mocks
type KeySource interface {
	// Load reads a key file. Password-protected containers fail with
	// domain.ErrInvalidKey when the password is missing or incorrect.
	Load(path, password string) (domain.KeyMaterial, error)
	// Generate creates a fresh key pair that lives only in memory.
	// A non-positive bits selects the source's default modulus size.
	Generate(bits int) (domain.KeyMaterial, error)
	// PublicKeyToken derives the token the key's public half produces.
	PublicKeyToken(key domain.KeyMaterial) (domain.PublicKeyToken, error)
	// Save writes key to path. The container format follows the file extension;
	// PKCS#12 containers are protected with key.Password.
	Save(path string, key domain.KeyMaterial) error
}
