// Package keys encodes and decodes strong name key material.
//
// Raw key pairs use the CryptoAPI PRIVATEKEYBLOB layout found in .snk files:
// an 8-byte BLOBHEADER, an RSAPUBKEY and the key components in little-endian order.
// Public keys embedded in module metadata use the strong name public key blob,
// a 12-byte algorithm header followed by a PUBLICKEYBLOB.
package keys

import (
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // SHA-1 defines the public key token.
	"encoding/binary"
	"math/big"

	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	blobTypePrivate = 0x07
	blobTypePublic  = 0x06
	blobVersion     = 0x02

	algRSASign = 0x00002400
	algSHA1    = 0x00008004

	magicRSA1 = 0x31415352 // "RSA1"
	magicRSA2 = 0x32415352 // "RSA2"

	blobHeaderSize   = 8
	rsaPubKeySize    = 12
	publicHeaderSize = 12
)

// EncodePrivateKey serializes key as a PRIVATEKEYBLOB.
func EncodePrivateKey(key *rsa.PrivateKey) ([]byte, error) {
	if len(key.Primes) != 2 {
		return nil, zerr.Wrap(domain.ErrInvalidKey, "multi-prime keys are not supported")
	}
	bits := key.N.BitLen()
	if bits%16 != 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidKey, "modulus size must be a multiple of 16 bits"), "bits", bits)
	}
	p, q := key.Primes[0], key.Primes[1]
	one := big.NewInt(1)
	dp := new(big.Int).Mod(key.D, new(big.Int).Sub(p, one))
	dq := new(big.Int).Mod(key.D, new(big.Int).Sub(q, one))
	qinv := new(big.Int).ModInverse(q, p)
	if qinv == nil {
		return nil, zerr.Wrap(domain.ErrInvalidKey, "prime factors are not coprime")
	}

	full := bits / 8
	half := bits / 16
	out := make([]byte, blobHeaderSize+rsaPubKeySize+full+5*half+full)
	writeHeader(out, blobTypePrivate, magicRSA2, bits, key.E)

	offset := blobHeaderSize + rsaPubKeySize
	parts := []struct {
		n    *big.Int
		size int
	}{
		{key.N, full},
		{p, half},
		{q, half},
		{dp, half},
		{dq, half},
		{qinv, half},
		{key.D, full},
	}
	for _, p := range parts {
		if err := putLittleEndian(out[offset:offset+p.size], p.n); err != nil {
			return nil, err
		}
		offset += p.size
	}
	return out, nil
}

// DecodePrivateKey parses a PRIVATEKEYBLOB.
func DecodePrivateKey(blob []byte) (*rsa.PrivateKey, error) {
	bits, exponent, err := readHeader(blob, blobTypePrivate, magicRSA2)
	if err != nil {
		return nil, err
	}

	full := bits / 8
	half := bits / 16
	if len(blob) < blobHeaderSize+rsaPubKeySize+2*full+5*half {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidKey, "truncated private key blob"), "size", len(blob))
	}

	offset := blobHeaderSize + rsaPubKeySize
	next := func(size int) *big.Int {
		n := littleEndianInt(blob[offset : offset+size])
		offset += size
		return n
	}
	n := next(full)
	p := next(half)
	q := next(half)
	_ = next(half) // dp
	_ = next(half) // dq
	_ = next(half) // qinv
	d := next(full)

	key := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: n, E: exponent},
		D:         d,
		Primes:    []*big.Int{p, q},
	}
	if err := key.Validate(); err != nil {
		return nil, zerr.Wrap(domain.ErrInvalidKey, err.Error())
	}
	key.Precompute()
	return key, nil
}

// PublicKeyBlob returns the strong name public key blob for key.
func PublicKeyBlob(key *rsa.PublicKey) []byte {
	bits := key.N.BitLen()
	if rem := bits % 8; rem != 0 {
		bits += 8 - rem
	}
	inner := blobHeaderSize + rsaPubKeySize + bits/8

	out := make([]byte, publicHeaderSize+inner)
	binary.LittleEndian.PutUint32(out[0:], algRSASign)
	binary.LittleEndian.PutUint32(out[4:], algSHA1)
	binary.LittleEndian.PutUint32(out[8:], uint32(inner)) //nolint:gosec // bounded by modulus size

	writeHeader(out[publicHeaderSize:], blobTypePublic, magicRSA1, bits, key.E)
	_ = putLittleEndian(out[publicHeaderSize+blobHeaderSize+rsaPubKeySize:], key.N)
	return out
}

// ParsePublicKeyBlob parses a strong name public key blob.
func ParsePublicKeyBlob(blob []byte) (*rsa.PublicKey, error) {
	if len(blob) < publicHeaderSize {
		return nil, zerr.Wrap(domain.ErrInvalidKey, "truncated public key blob")
	}
	inner := blob[publicHeaderSize:]
	if int(binary.LittleEndian.Uint32(blob[8:])) != len(inner) {
		return nil, zerr.Wrap(domain.ErrInvalidKey, "public key blob length mismatch")
	}
	bits, exponent, err := readHeader(inner, blobTypePublic, magicRSA1)
	if err != nil {
		return nil, err
	}
	modulus := inner[blobHeaderSize+rsaPubKeySize:]
	if len(modulus) != bits/8 {
		return nil, zerr.Wrap(domain.ErrInvalidKey, "public key modulus length mismatch")
	}
	return &rsa.PublicKey{N: littleEndianInt(modulus), E: exponent}, nil
}

// Token computes the public key token of a strong name public key blob:
// the last eight bytes of its SHA-1 digest in reverse order.
func Token(publicKeyBlob []byte) domain.PublicKeyToken {
	sum := sha1.Sum(publicKeyBlob) //nolint:gosec // see import
	token := make([]byte, domain.TokenSize)
	for i := range token {
		token[i] = sum[len(sum)-1-i]
	}
	return domain.TokenFromBytes(token)
}

func writeHeader(out []byte, blobType byte, magic uint32, bits, exponent int) {
	out[0] = blobType
	out[1] = blobVersion
	binary.LittleEndian.PutUint32(out[4:], algRSASign)
	binary.LittleEndian.PutUint32(out[8:], magic)
	binary.LittleEndian.PutUint32(out[12:], uint32(bits))     //nolint:gosec // modulus size
	binary.LittleEndian.PutUint32(out[16:], uint32(exponent)) //nolint:gosec // public exponent
}

func readHeader(blob []byte, blobType byte, magic uint32) (bits, exponent int, err error) {
	if len(blob) < blobHeaderSize+rsaPubKeySize {
		return 0, 0, zerr.With(zerr.Wrap(domain.ErrInvalidKey, "truncated key blob"), "size", len(blob))
	}
	if blob[0] != blobType {
		return 0, 0, zerr.With(zerr.Wrap(domain.ErrInvalidKey, "unexpected key blob type"), "type", blob[0])
	}
	if blob[1] != blobVersion {
		return 0, 0, zerr.With(zerr.Wrap(domain.ErrInvalidKey, "unsupported key blob version"), "version", blob[1])
	}
	if binary.LittleEndian.Uint32(blob[8:]) != magic {
		return 0, 0, zerr.Wrap(domain.ErrInvalidKey, "bad RSA key magic")
	}
	bits = int(binary.LittleEndian.Uint32(blob[12:]))
	exponent = int(binary.LittleEndian.Uint32(blob[16:]))
	if bits == 0 || bits%16 != 0 || exponent < 3 {
		return 0, 0, zerr.With(zerr.Wrap(domain.ErrInvalidKey, "malformed RSA key header"), "bits", bits)
	}
	return bits, exponent, nil
}

// putLittleEndian writes n into dst as a fixed width little-endian integer.
func putLittleEndian(dst []byte, n *big.Int) error {
	if (n.BitLen()+7)/8 > len(dst) {
		return zerr.Wrap(domain.ErrInvalidKey, "key component exceeds blob field")
	}
	n.FillBytes(dst)
	reverse(dst)
	return nil
}

func littleEndianInt(src []byte) *big.Int {
	be := make([]byte, len(src))
	copy(be, src)
	reverse(be)
	return new(big.Int).SetBytes(be)
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
