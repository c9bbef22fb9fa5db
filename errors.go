package medallion

import "errors"

var (
	// ErrMalformedToken reports a compact serialization with the wrong part
	// count or a segment that is not valid base64url.
	ErrMalformedToken = errors.New("malformed token")
	// ErrDecoding reports a JSON parse failure on a required field shape.
	ErrDecoding = errors.New("invalid token encoding")
	// ErrKeyFormat reports malformed PEM, a missing RSA parameter, or an
	// incomplete private-key field set.
	ErrKeyFormat = errors.New("invalid key format")
	// ErrCrypto reports that an underlying crypto primitive rejected the key
	// or the operation.
	ErrCrypto = errors.New("crypto operation failed")
	// ErrEncoding reports that serialization could not produce a flat JSON
	// object, e.g. an extension type that does not marshal to an object.
	ErrEncoding = errors.New("cannot encode segment")
	// ErrUnsupportedAlgorithm reports an algorithm outside the supported set.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
)
