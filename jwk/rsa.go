package jwk

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"math/big"

	"github.com/cloudwego/base64x"

	medallion "github.com/commandline/medallion-go"
)

// RsaParams holds the JWK parameters of an RSA key: the public modulus and
// exponent always, and the private exponent, primes, and CRT values for
// private keys. The six private fields are all-or-nothing; a partially
// populated private set is rejected everywhere it could be consumed.
//
// Every value is a base64url-encoded unsigned big-endian integer.
type RsaParams struct {
	N  string `json:"n"`
	E  string `json:"e"`
	D  string `json:"d,omitempty"`
	P  string `json:"p,omitempty"`
	Q  string `json:"q,omitempty"`
	Dp string `json:"dp,omitempty"`
	Dq string `json:"dq,omitempty"`
	Qi string `json:"qi,omitempty"`
}

// RsaParamsFromPrivateComponents derives full private parameters from the
// public modulus and exponent, the private exponent, and the two primes. The
// CRT values follow the standard definitions: dp = d mod (p-1),
// dq = d mod (q-1), qi = q^-1 mod p.
func RsaParamsFromPrivateComponents(n, e, d, p, q *big.Int) (*RsaParams, error) {
	one := big.NewInt(1)
	dp := new(big.Int).Mod(d, new(big.Int).Sub(p, one))
	dq := new(big.Int).Mod(d, new(big.Int).Sub(q, one))
	qi := new(big.Int).ModInverse(q, p)
	if qi == nil {
		return nil, fmt.Errorf("%w: primes are not coprime", medallion.ErrKeyFormat)
	}

	return &RsaParams{
		N:  encodeParam(n),
		E:  encodeParam(e),
		D:  encodeParam(d),
		P:  encodeParam(p),
		Q:  encodeParam(q),
		Dp: encodeParam(dp),
		Dq: encodeParam(dq),
		Qi: encodeParam(qi),
	}, nil
}

// RsaParamsFromPrivateKey derives full private parameters from an RSA private
// key. Only two-prime keys are supported.
func RsaParamsFromPrivateKey(key *rsa.PrivateKey) (*RsaParams, error) {
	if len(key.Primes) != 2 {
		return nil, fmt.Errorf("%w: multi-prime RSA keys are not supported", medallion.ErrKeyFormat)
	}
	return RsaParamsFromPrivateComponents(key.N, big.NewInt(int64(key.E)), key.D, key.Primes[0], key.Primes[1])
}

// RsaParamsFromPublicKey captures the public modulus and exponent of an RSA
// public key.
func RsaParamsFromPublicKey(key *rsa.PublicKey) *RsaParams {
	return &RsaParams{
		N: encodeParam(key.N),
		E: encodeParam(big.NewInt(int64(key.E))),
	}
}

// RsaParamsFromPrivateKeyPEM derives full private parameters from a
// PEM-encoded RSA private key.
func RsaParamsFromPrivateKeyPEM(pemBytes []byte) (*RsaParams, error) {
	key, err := medallion.ParseRSAPrivateKeyPEM(pemBytes)
	if err != nil {
		return nil, err
	}
	return RsaParamsFromPrivateKey(key)
}

// RsaParamsFromPublicKeyPEM captures the public parameters of a PEM-encoded
// RSA public key.
func RsaParamsFromPublicKeyPEM(pemBytes []byte) (*RsaParams, error) {
	key, err := medallion.ParseRSAPublicKeyPEM(pemBytes)
	if err != nil {
		return nil, err
	}
	return RsaParamsFromPublicKey(key), nil
}

// IsPrivateKey reports whether all six private fields are populated.
func (p *RsaParams) IsPrivateKey() bool {
	return p.D != "" && p.P != "" && p.Q != "" && p.Dp != "" && p.Dq != "" && p.Qi != ""
}

// hasPrivateField reports whether any private field is populated.
func (p *RsaParams) hasPrivateField() bool {
	return p.D != "" || p.P != "" || p.Q != "" || p.Dp != "" || p.Dq != "" || p.Qi != ""
}

// checkPrivateFields enforces the all-or-nothing invariant on the private
// field set.
func (p *RsaParams) checkPrivateFields() error {
	if p.hasPrivateField() && !p.IsPrivateKey() {
		return fmt.Errorf("%w: incomplete private-key parameter set", medallion.ErrKeyFormat)
	}
	return nil
}

// ToPrivateKey reconstructs an RSA private key. All six private fields must
// be present.
func (p *RsaParams) ToPrivateKey() (*rsa.PrivateKey, error) {
	if err := p.checkPrivateFields(); err != nil {
		return nil, err
	}
	if !p.IsPrivateKey() {
		return nil, fmt.Errorf("%w: missing private-key parameters", medallion.ErrKeyFormat)
	}

	n, err := decodeParam(p.N)
	if err != nil {
		return nil, err
	}
	e, err := decodeParam(p.E)
	if err != nil {
		return nil, err
	}
	exponent, err := exponentInt(e)
	if err != nil {
		return nil, err
	}
	d, err := decodeParam(p.D)
	if err != nil {
		return nil, err
	}
	prime1, err := decodeParam(p.P)
	if err != nil {
		return nil, err
	}
	prime2, err := decodeParam(p.Q)
	if err != nil {
		return nil, err
	}

	key := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{
			N: n,
			E: exponent,
		},
		D:      d,
		Primes: []*big.Int{prime1, prime2},
	}
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", medallion.ErrKeyFormat, err)
	}
	key.Precompute()
	return key, nil
}

// ToPublicKey reconstructs an RSA public key from the modulus and exponent.
func (p *RsaParams) ToPublicKey() (*rsa.PublicKey, error) {
	if err := p.checkPrivateFields(); err != nil {
		return nil, err
	}
	if p.N == "" || p.E == "" {
		return nil, fmt.Errorf("%w: missing n or e parameter", medallion.ErrKeyFormat)
	}

	n, err := decodeParam(p.N)
	if err != nil {
		return nil, err
	}
	e, err := decodeParam(p.E)
	if err != nil {
		return nil, err
	}
	exponent, err := exponentInt(e)
	if err != nil {
		return nil, err
	}
	return &rsa.PublicKey{N: n, E: exponent}, nil
}

// ToPrivateKeyPEM reconstructs the private key and renders it as PKCS#1 PEM,
// the byte form the signing dispatch consumes.
func (p *RsaParams) ToPrivateKeyPEM() ([]byte, error) {
	key, err := p.ToPrivateKey()
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}), nil
}

// ToPublicKeyPEM reconstructs the public key and renders it as PKIX PEM, the
// byte form the verification dispatch consumes.
func (p *RsaParams) ToPublicKeyPEM() ([]byte, error) {
	key, err := p.ToPublicKey()
	if err != nil {
		return nil, err
	}
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", medallion.ErrKeyFormat, err)
	}
	return pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: der,
	}), nil
}

// exponentInt narrows a decoded public exponent to the int the stdlib key
// types carry, rejecting values that would truncate.
func exponentInt(e *big.Int) (int, error) {
	if e.Sign() <= 0 || e.BitLen() > 31 {
		return 0, fmt.Errorf("%w: public exponent out of range", medallion.ErrKeyFormat)
	}
	return int(e.Int64()), nil
}

func encodeParam(v *big.Int) string {
	return base64x.RawURLEncoding.EncodeToString(v.Bytes())
}

func decodeParam(raw string) (*big.Int, error) {
	data, err := base64x.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", medallion.ErrKeyFormat, err)
	}
	return new(big.Int).SetBytes(data), nil
}
