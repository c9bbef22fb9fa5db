package medallion

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Algorithm identifies a supported signature and digest combination. The set
// is closed: each value fixes both the digest and the signature family, and
// every dispatch site switches exhaustively over all six members.
type Algorithm string

const (
	// HS256 is HMAC with SHA-256.
	HS256 Algorithm = "HS256"
	// HS384 is HMAC with SHA-384.
	HS384 Algorithm = "HS384"
	// HS512 is HMAC with SHA-512.
	HS512 Algorithm = "HS512"
	// RS256 is RSASSA-PKCS1-v1_5 with SHA-256.
	RS256 Algorithm = "RS256"
	// RS384 is RSASSA-PKCS1-v1_5 with SHA-384.
	RS384 Algorithm = "RS384"
	// RS512 is RSASSA-PKCS1-v1_5 with SHA-512.
	RS512 Algorithm = "RS512"
)

// Valid reports whether a is one of the six supported algorithms.
func (a Algorithm) Valid() bool {
	switch a {
	case HS256, HS384, HS512, RS256, RS384, RS512:
		return true
	}
	return false
}

// String returns the algorithm name as it appears in the token header.
func (a Algorithm) String() string {
	return string(a)
}

// MarshalJSON encodes the algorithm name, rejecting values outside the
// supported set.
func (a Algorithm) MarshalJSON() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, string(a))
	}
	return json.Marshal(string(a))
}

// UnmarshalJSON decodes an algorithm name, rejecting values outside the
// supported set.
func (a *Algorithm) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("%w: %v", ErrDecoding, err)
	}
	alg := Algorithm(name)
	if !alg.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
	*a = alg
	return nil
}
