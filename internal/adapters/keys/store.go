package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
	"go.trai.ch/zerr"
)

// asn1Sequence is the first byte of every DER-encoded PKCS#12 container.
const asn1Sequence = 0x30

var _ ports.KeySource = (*Store)(nil)

// Store loads, generates and saves strong name keys.
// Key material handed to the rest of the program always holds a PRIVATEKEYBLOB,
// whatever container it was read from.
type Store struct {
	bits int
}

// NewStore creates a Store generating keys with the given modulus size.
// A non-positive size selects domain.DefaultKeyBits.
func NewStore(bits int) *Store {
	if bits <= 0 {
		bits = domain.DefaultKeyBits
	}
	return &Store{bits: bits}
}

// Load reads a .snk key pair or a PKCS#12 container.
func (s *Store) Load(path, password string) (domain.KeyMaterial, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.KeyMaterial{}, zerr.With(zerr.Wrap(domain.ErrNotFound, "key file"), "path", path)
		}
		return domain.KeyMaterial{}, zerr.With(zerr.Wrap(err, "failed to read key file"), "path", path)
	}
	if len(data) == 0 {
		return domain.KeyMaterial{}, zerr.With(zerr.Wrap(domain.ErrInvalidKey, "empty key file"), "path", path)
	}

	var key *rsa.PrivateKey
	if data[0] == asn1Sequence {
		key, err = DecodePFX(data, password)
	} else {
		key, err = DecodePrivateKey(data)
	}
	if err != nil {
		return domain.KeyMaterial{}, zerr.With(err, "path", path)
	}

	blob, err := EncodePrivateKey(key)
	if err != nil {
		return domain.KeyMaterial{}, zerr.With(err, "path", path)
	}
	return domain.KeyMaterial{Blob: blob, Password: password, Origin: path}, nil
}

// Generate creates an in-memory key pair.
func (s *Store) Generate(bits int) (domain.KeyMaterial, error) {
	if bits <= 0 {
		bits = s.bits
	}
	if bits%16 != 0 {
		return domain.KeyMaterial{}, zerr.With(zerr.Wrap(domain.ErrKeyGenerationFailed, "modulus size must be a multiple of 16 bits"), "bits", bits)
	}
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return domain.KeyMaterial{}, zerr.With(zerr.Wrap(err, domain.ErrKeyGenerationFailed.Error()), "bits", bits)
	}
	blob, err := EncodePrivateKey(key)
	if err != nil {
		return domain.KeyMaterial{}, zerr.Wrap(err, domain.ErrKeyGenerationFailed.Error())
	}
	return domain.KeyMaterial{Blob: blob}, nil
}

// PublicKeyToken derives the token of the key's public half.
func (s *Store) PublicKeyToken(key domain.KeyMaterial) (domain.PublicKeyToken, error) {
	private, err := DecodePrivateKey(key.Blob)
	if err != nil {
		return domain.NullToken, err
	}
	return Token(PublicKeyBlob(&private.PublicKey)), nil
}

// Save writes key to path. Paths ending in .pfx or .p12 receive a PKCS#12
// container protected by key.Password, everything else the raw key pair.
func (s *Store) Save(path string, key domain.KeyMaterial) error {
	data := key.Blob
	if IsContainerPath(path) {
		private, err := DecodePrivateKey(key.Blob)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if data, err = EncodePFX(private, name, key.Password); err != nil {
			return zerr.With(zerr.Wrap(errors.Join(domain.ErrKeyWriteFailed, err), "failed to write key file"), "path", path)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(errors.Join(domain.ErrKeyWriteFailed, err), "failed to write key file"), "path", path)
		}
	}
	if err := os.WriteFile(path, data, domain.PrivateFilePerm); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrKeyWriteFailed, err), "failed to write key file"), "path", path)
	}
	return nil
}

// IsContainerPath reports whether path names a PKCS#12 container.
func IsContainerPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pfx", ".p12":
		return true
	default:
		return false
	}
}
