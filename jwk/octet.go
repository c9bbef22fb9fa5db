package jwk

import (
	"fmt"

	"github.com/cloudwego/base64x"

	medallion "github.com/commandline/medallion-go"
)

// OctetSequenceParams holds the JWK parameters of a symmetric key: the
// algorithm it is meant for and the base64url-encoded secret bytes.
type OctetSequenceParams struct {
	Alg medallion.Algorithm `json:"alg"`
	K   string              `json:"k,omitempty"`
}

// OctetSequenceParamsFromSecret wraps raw secret bytes in parameters for the
// given algorithm.
func OctetSequenceParamsFromSecret(alg medallion.Algorithm, secret []byte) OctetSequenceParams {
	return OctetSequenceParams{
		Alg: alg,
		K:   base64x.RawURLEncoding.EncodeToString(secret),
	}
}

// SecretBytes recovers the raw secret, the byte form the HMAC dispatch
// consumes.
func (p *OctetSequenceParams) SecretBytes() ([]byte, error) {
	if p.K == "" {
		return nil, fmt.Errorf("%w: missing k parameter", ErrNoParams)
	}
	data, err := base64x.RawURLEncoding.DecodeString(p.K)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", medallion.ErrKeyFormat, err)
	}
	return data, nil
}
