package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"math/big"
	"time"

	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/zerr"
	"software.sslmate.com/src/go-pkcs12"
)

const certificateLifetime = 10 * 365 * 24 * time.Hour

// DecodePFX extracts the RSA key pair from a PKCS#12 container.
// A missing or incorrect password yields domain.ErrInvalidKey.
func DecodePFX(data []byte, password string) (*rsa.PrivateKey, error) {
	privateKey, _, _, err := pkcs12.DecodeChain(data, password)
	if err != nil {
		if errors.Is(err, pkcs12.ErrIncorrectPassword) {
			return nil, zerr.Wrap(domain.ErrInvalidKey, "missing or incorrect key container password")
		}
		return nil, zerr.Wrap(errors.Join(domain.ErrInvalidKey, err), "failed to decode key container")
	}
	key, ok := privateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, zerr.Wrap(domain.ErrInvalidKey, "key container does not hold an RSA key")
	}
	return key, nil
}

// EncodePFX wraps key in a password-protected PKCS#12 container together with a
// self-signed certificate naming subject.
func EncodePFX(key *rsa.PrivateKey, subject, password string) ([]byte, error) {
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 64))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to generate certificate serial")
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: subject},
		NotBefore:             now.Add(-time.Hour),
		NotAfter:              now.Add(certificateLifetime),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create certificate")
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to parse certificate")
	}

	data, err := pkcs12.Modern.Encode(key, cert, nil, password)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode key container")
	}
	return data, nil
}
