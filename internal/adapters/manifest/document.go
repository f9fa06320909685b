// Package manifest implements the metadata provider for portable managed modules.
//
// A module is a YAML document carrying the metadata tables the signing engine
// works with (identity, references, custom attributes, strong name) and an
// opaque base64 body with everything else.
package manifest

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FormatV1 identifies the current document format.
const FormatV1 = "signet.module/v1"

// Document is the serialized form of a module.
type Document struct {
	Format     string           `yaml:"format"`
	Name       string           `yaml:"name"`
	Version    string           `yaml:"version"`
	Runtime    string           `yaml:"runtime,omitempty"`
	Platform   string           `yaml:"platform,omitempty"`
	ILOnly     bool             `yaml:"ilOnly"`
	PublicKey  string           `yaml:"publicKey,omitempty"`
	Signature  string           `yaml:"signature,omitempty"`
	References []ReferenceEntry `yaml:"references,omitempty"`
	Attributes []AttributeEntry `yaml:"attributes,omitempty"`
	Body       string           `yaml:"body,omitempty"`
}

// ReferenceEntry is one row of the reference table.
type ReferenceEntry struct {
	Name           string `yaml:"name"`
	Version        string `yaml:"version"`
	Culture        string `yaml:"culture,omitempty"`
	PublicKeyToken string `yaml:"publicKeyToken,omitempty"`
}

// AttributeEntry is one module-level custom attribute.
type AttributeEntry struct {
	Type string   `yaml:"type"`
	Args []string `yaml:"args,omitempty"`
}

// decode parses and validates a document. Every failure is reported as
// domain.ErrUnreadableFormat.
func decode(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, zerr.Wrap(domain.ErrUnreadableFormat, "not a module document")
	}
	if doc.Format != FormatV1 {
		return Document{}, zerr.With(zerr.Wrap(domain.ErrUnreadableFormat, "unsupported module format"), "format", doc.Format)
	}
	if strings.TrimSpace(doc.Name) == "" {
		return Document{}, zerr.Wrap(domain.ErrUnreadableFormat, "module has no name")
	}
	if _, err := domain.ParsePlatform(doc.Platform); err != nil {
		return Document{}, zerr.Wrap(domain.ErrUnreadableFormat, err.Error())
	}
	if _, err := hex.DecodeString(doc.PublicKey); err != nil {
		return Document{}, zerr.Wrap(domain.ErrUnreadableFormat, "malformed public key")
	}
	if _, err := base64.StdEncoding.DecodeString(doc.Body); err != nil {
		return Document{}, zerr.Wrap(domain.ErrUnreadableFormat, "malformed module body")
	}
	for _, ref := range doc.References {
		if _, err := domain.ParsePublicKeyToken(ref.PublicKeyToken); err != nil {
			return Document{}, zerr.With(zerr.Wrap(domain.ErrUnreadableFormat, "malformed reference token"), "reference", ref.Name)
		}
	}
	return doc, nil
}

// encode renders the document as YAML.
func encode(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, zerr.Wrap(err, "failed to encode module document")
	}
	if err := enc.Close(); err != nil {
		return nil, zerr.Wrap(err, "failed to encode module document")
	}
	return buf.Bytes(), nil
}

// signedContent is the byte sequence covered by the strong name signature:
// the encoded document with an empty signature field.
func signedContent(doc Document) ([]byte, error) {
	doc.Signature = ""
	return encode(doc)
}

func (d Document) clone() Document {
	out := d
	out.References = append([]ReferenceEntry(nil), d.References...)
	out.Attributes = make([]AttributeEntry, len(d.Attributes))
	for i, attr := range d.Attributes {
		out.Attributes[i] = AttributeEntry{Type: attr.Type, Args: append([]string(nil), attr.Args...)}
	}
	if len(out.Attributes) == 0 {
		out.Attributes = nil
	}
	return out
}
