package manifest

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // Strong name signatures are defined over SHA-1.
	"encoding/base64"
	"encoding/hex"

	"go.trai.ch/signet/internal/adapters/keys"
	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.MetadataHandle = (*Module)(nil)

// Module is an opened module document. It implements ports.MetadataHandle.
type Module struct {
	path      string
	doc       Document
	locations []string

	// strongName caches the verified signing state until the next mutation.
	strongName *strongName
}

type strongName struct {
	state domain.SigningState
	token domain.PublicKeyToken
}

// New creates an in-memory module from doc. An empty format is set to FormatV1.
func New(doc Document) *Module {
	if doc.Format == "" {
		doc.Format = FormatV1
	}
	doc = doc.clone()
	return &Module{doc: doc, locations: make([]string, len(doc.References))}
}

// Document returns a copy of the module's serialized form.
func (m *Module) Document() Document {
	return m.doc.clone()
}

// Identity returns the module identity computed from the current contents.
func (m *Module) Identity() domain.AssemblyIdentity {
	sn := m.verify()
	platform, _ := domain.ParsePlatform(m.doc.Platform)
	return domain.AssemblyIdentity{
		Path:           m.path,
		Name:           m.doc.Name,
		Version:        m.doc.Version,
		RuntimeVersion: m.doc.Runtime,
		Platform:       platform,
		ILOnly:         m.doc.ILOnly,
		Signing:        sn.state,
		PublicKeyToken: sn.token,
	}
}

// References returns the reference table with resolved locations.
func (m *Module) References() []domain.Reference {
	refs := make([]domain.Reference, len(m.doc.References))
	for i, entry := range m.doc.References {
		token, _ := domain.ParsePublicKeyToken(entry.PublicKeyToken)
		refs[i] = domain.Reference{
			Name:           entry.Name,
			Version:        entry.Version,
			Culture:        entry.Culture,
			PublicKeyToken: token,
			Location:       m.locations[i],
		}
	}
	return refs
}

// SetReference replaces the reference at index. The resolved location is kept
// unless ref carries a new one.
func (m *Module) SetReference(index int, ref domain.Reference) error {
	if index < 0 || index >= len(m.doc.References) {
		return zerr.With(zerr.Wrap(domain.ErrUnexpected, "reference index out of range"), "index", index)
	}
	entry := ReferenceEntry{
		Name:    ref.Name,
		Version: ref.Version,
		Culture: ref.Culture,
	}
	if !ref.PublicKeyToken.IsNull() {
		entry.PublicKeyToken = string(ref.PublicKeyToken)
	}
	m.doc.References[index] = entry
	if ref.Location != "" {
		m.locations[index] = ref.Location
	}
	m.strongName = nil
	return nil
}

// Attributes returns the module-level custom attributes.
func (m *Module) Attributes() []domain.Attribute {
	attrs := make([]domain.Attribute, len(m.doc.Attributes))
	for i, entry := range m.doc.Attributes {
		attrs[i] = domain.Attribute{Type: entry.Type, Args: append([]string(nil), entry.Args...)}
	}
	return attrs
}

// RemoveAttribute deletes the attribute at index.
func (m *Module) RemoveAttribute(index int) error {
	if index < 0 || index >= len(m.doc.Attributes) {
		return zerr.With(zerr.Wrap(domain.ErrUnexpected, "attribute index out of range"), "index", index)
	}
	m.doc.Attributes = append(m.doc.Attributes[:index], m.doc.Attributes[index+1:]...)
	m.strongName = nil
	return nil
}

// verify derives the signing state: no public key means NotSigned, a public key
// with a matching signature means Signed, anything else DelaySigned.
func (m *Module) verify() strongName {
	if m.strongName != nil {
		return *m.strongName
	}

	sn := strongName{state: domain.NotSigned}
	if blob, err := hex.DecodeString(m.doc.PublicKey); err == nil && len(blob) > 0 {
		sn.state = domain.DelaySigned
		sn.token = keys.Token(blob)
		if verifySignature(m.doc, blob) {
			sn.state = domain.Signed
		}
	}
	m.strongName = &sn
	return sn
}

func verifySignature(doc Document, publicKeyBlob []byte) bool {
	if doc.Signature == "" {
		return false
	}
	sig, err := base64.StdEncoding.DecodeString(doc.Signature)
	if err != nil {
		return false
	}
	pub, err := keys.ParsePublicKeyBlob(publicKeyBlob)
	if err != nil {
		return false
	}
	content, err := signedContent(doc)
	if err != nil {
		return false
	}
	digest := sha1.Sum(content) //nolint:gosec // see import
	return rsa.VerifyPKCS1v15(pub, crypto.SHA1, digest[:], sig) == nil
}
