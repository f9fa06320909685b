package domain

import (
	"encoding/hex"
	"strings"

	"go.trai.ch/zerr"
)

// TokenSize is the length in bytes of a public key token.
const TokenSize = 8

// PublicKeyToken is the lowercase hex form of the 8-byte public key token.
// The zero value is the null token of an unsigned module.
type PublicKeyToken string

// NullToken is the token carried by references to unsigned modules.
const NullToken PublicKeyToken = ""

// TokenFromBytes builds a token from its raw bytes.
func TokenFromBytes(b []byte) PublicKeyToken {
	if len(b) == 0 {
		return NullToken
	}
	return PublicKeyToken(hex.EncodeToString(b))
}

// ParsePublicKeyToken parses a hex token. "null" and the empty string yield NullToken.
func ParsePublicKeyToken(s string) (PublicKeyToken, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "null" {
		return NullToken, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != TokenSize {
		return NullToken, zerr.With(zerr.New("malformed public key token"), "token", s)
	}
	return PublicKeyToken(s), nil
}

// IsNull reports whether the token is the null token.
func (t PublicKeyToken) IsNull() bool {
	return t == NullToken
}

// Bytes returns the raw token bytes, or nil for the null token.
func (t PublicKeyToken) Bytes() []byte {
	if t.IsNull() {
		return nil
	}
	b, err := hex.DecodeString(string(t))
	if err != nil {
		return nil
	}
	return b
}

// String returns the hex token or "null".
func (t PublicKeyToken) String() string {
	if t.IsNull() {
		return "null"
	}
	return string(t)
}
