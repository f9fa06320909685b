package manifest

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // Strong name signatures are defined over SHA-1.
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/signet/internal/adapters/keys"
	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.MetadataProvider = (*Provider)(nil)

// Provider reads and writes module documents.
type Provider struct {
	extensions []string
}

// NewProvider creates a Provider resolving references to files with the given
// extensions. No extensions selects domain.DefaultModuleExtensions.
func NewProvider(extensions ...string) *Provider {
	if len(extensions) == 0 {
		extensions = domain.DefaultModuleExtensions()
	}
	return &Provider{extensions: extensions}
}

// Open reads the module at path and resolves its references against the
// module's own directory followed by opts.SearchDirs.
func (p *Provider) Open(path string, opts ports.ReadOptions) (ports.MetadataHandle, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrNotFound, "module"), "path", path)
		}
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrIO, err), "failed to read module"), "path", path)
	}

	doc, err := decode(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	m := New(doc)
	m.path = path
	dirs := append([]string{filepath.Dir(path)}, opts.SearchDirs...)
	for i, ref := range doc.References {
		m.locations[i] = p.resolve(ref.Name, dirs)
	}
	return m, nil
}

// Write serializes handle to path, strong-name signing it when key is non-nil.
func (p *Provider) Write(handle ports.MetadataHandle, path string, key *domain.KeyMaterial) error {
	m, ok := handle.(*Module)
	if !ok {
		return zerr.Wrap(domain.ErrUnexpected, "handle was not opened by the manifest provider")
	}

	doc := m.doc.clone()
	if key != nil {
		if err := sign(&doc, *key); err != nil {
			return zerr.With(err, "path", path)
		}
	}

	data, err := encode(doc)
	if err != nil {
		return zerr.With(err, "path", path)
	}
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil { //nolint:gosec // Module files are world readable
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrIO, err), "failed to write module"), "path", path)
	}
	return nil
}

func sign(doc *Document, key domain.KeyMaterial) error {
	private, err := keys.DecodePrivateKey(key.Blob)
	if err != nil {
		return err
	}
	doc.PublicKey = hex.EncodeToString(keys.PublicKeyBlob(&private.PublicKey))

	content, err := signedContent(*doc)
	if err != nil {
		return err
	}
	digest := sha1.Sum(content) //nolint:gosec // see import
	sig, err := rsa.SignPKCS1v15(rand.Reader, private, crypto.SHA1, digest[:])
	if err != nil {
		return zerr.Wrap(errors.Join(domain.ErrInvalidKey, err), "failed to sign module")
	}
	doc.Signature = base64.StdEncoding.EncodeToString(sig)
	return nil
}

// resolve finds the first file named after the reference in dirs.
func (p *Provider) resolve(name string, dirs []string) string {
	for _, dir := range dirs {
		for _, ext := range p.extensions {
			candidate := filepath.Join(dir, name+ext)
			if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
				return candidate
			}
		}
	}
	return ""
}
