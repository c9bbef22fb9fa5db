package medallion

import (
	"crypto"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"hash"
)

// Sign produces the base64url signature of data under key for the given
// algorithm. HMAC algorithms take the raw shared secret; RSA algorithms take
// a PEM-encoded private key.
func Sign(data string, key []byte, algorithm Algorithm) (string, error) {
	switch algorithm {
	case HS256:
		return signHMAC(data, key, sha256.New)
	case HS384:
		return signHMAC(data, key, sha512.New384)
	case HS512:
		return signHMAC(data, key, sha512.New)
	case RS256:
		return signRSA(data, key, crypto.SHA256)
	case RS384:
		return signRSA(data, key, crypto.SHA384)
	case RS512:
		return signRSA(data, key, crypto.SHA512)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, string(algorithm))
	}
}

// Verify checks a base64url signature over data under key for the given
// algorithm. HMAC algorithms take the raw shared secret; RSA algorithms take
// a PEM-encoded public key. A structurally valid but failed check returns
// false with a nil error; malformed signatures or keys return an error.
func Verify(signature, data string, key []byte, algorithm Algorithm) (bool, error) {
	switch algorithm {
	case HS256:
		return verifyHMAC(signature, data, key, sha256.New)
	case HS384:
		return verifyHMAC(signature, data, key, sha512.New384)
	case HS512:
		return verifyHMAC(signature, data, key, sha512.New)
	case RS256:
		return verifyRSA(signature, data, key, crypto.SHA256)
	case RS384:
		return verifyRSA(signature, data, key, crypto.SHA384)
	case RS512:
		return verifyRSA(signature, data, key, crypto.SHA512)
	default:
		return false, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, string(algorithm))
	}
}

func signHMAC(data string, key []byte, h func() hash.Hash) (string, error) {
	if len(key) == 0 {
		return "", fmt.Errorf("%w: empty HMAC secret", ErrKeyFormat)
	}
	mac := hmac.New(h, key)
	mac.Write([]byte(data))
	return encodeSegment(mac.Sum(nil)), nil
}

func verifyHMAC(signature, data string, key []byte, h func() hash.Hash) (bool, error) {
	target, err := decodeSegment(signature)
	if err != nil {
		return false, err
	}
	if len(key) == 0 {
		return false, fmt.Errorf("%w: empty HMAC secret", ErrKeyFormat)
	}
	mac := hmac.New(h, key)
	mac.Write([]byte(data))
	// hmac.Equal compares in constant time; a byte-wise compare would leak
	// the MAC through timing.
	return hmac.Equal(mac.Sum(nil), target), nil
}

func signRSA(data string, key []byte, h crypto.Hash) (string, error) {
	privateKey, err := ParseRSAPrivateKeyPEM(key)
	if err != nil {
		return "", err
	}

	sig, err := rsa.SignPKCS1v15(rand.Reader, privateKey, h, digest(h, data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	return encodeSegment(sig), nil
}

func verifyRSA(signature, data string, key []byte, h crypto.Hash) (bool, error) {
	sig, err := decodeSegment(signature)
	if err != nil {
		return false, err
	}
	publicKey, err := ParseRSAPublicKeyPEM(key)
	if err != nil {
		return false, err
	}

	err = rsa.VerifyPKCS1v15(publicKey, h, digest(h, data), sig)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, rsa.ErrVerification) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", ErrCrypto, err)
}

func digest(h crypto.Hash, data string) []byte {
	hasher := h.New()
	hasher.Write([]byte(data))
	return hasher.Sum(nil)
}

// ParseRSAPrivateKeyPEM parses a PEM-encoded RSA private key in either PKCS#1
// or PKCS#8 form.
func ParseRSAPrivateKeyPEM(key []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(key)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrKeyFormat)
	}

	if privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return privateKey, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFormat, err)
	}
	privateKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA private key", ErrKeyFormat)
	}
	return privateKey, nil
}

// ParseRSAPublicKeyPEM parses a PEM-encoded RSA public key in either PKIX or
// PKCS#1 form.
func ParseRSAPublicKeyPEM(key []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(key)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrKeyFormat)
	}

	if parsed, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		publicKey, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an RSA public key", ErrKeyFormat)
		}
		return publicKey, nil
	}

	publicKey, err := x509.ParsePKCS1PublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyFormat, err)
	}
	return publicKey, nil
}
