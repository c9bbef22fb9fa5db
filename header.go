package medallion

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Header carries the mandatory signing algorithm plus an optional
// caller-defined extension type T whose fields are merged into the same JSON
// object on encoding. Unlike the payload there is no fixed shape beyond alg;
// headers vary too much across applications for one to be useful.
type Header[T any] struct {
	Alg   Algorithm `json:"alg"`
	Extra *T        `json:"-"`
}

// DefaultHeader is a header with no extension fields.
type DefaultHeader = Header[struct{}]

// NewHeader returns a header for the given algorithm with no extensions.
// A zero algorithm defaults to HS256.
func NewHeader[T any](alg Algorithm) Header[T] {
	if alg == "" {
		alg = HS256
	}
	return Header[T]{Alg: alg}
}

// Encode renders the header as a single flat JSON object, extension fields
// winning on key collision, and base64url-encodes it without padding.
func (h Header[T]) Encode() (string, error) {
	if !h.Alg.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, string(h.Alg))
	}

	var extra interface{}
	if h.Extra != nil {
		extra = h.Extra
	}
	body, err := marshalMerged(h, extra)
	if err != nil {
		return "", err
	}
	return encodeSegment(body), nil
}

// ParseHeader decodes a base64url header segment. The fixed shape must parse
// and carry a supported algorithm; the same bytes are then parsed a second
// time as the extension type T, and a failure there simply means no
// extensions.
func ParseHeader[T any](raw string) (Header[T], error) {
	var h Header[T]

	data, err := decodeSegment(raw)
	if err != nil {
		return h, err
	}

	if err := json.Unmarshal(data, &h); err != nil {
		return h, fmt.Errorf("%w: %w", ErrDecoding, err)
	}
	if !h.Alg.Valid() {
		return h, fmt.Errorf("%w: missing algorithm", ErrDecoding)
	}

	var extra T
	if err := json.Unmarshal(data, &extra); err == nil {
		h.Extra = &extra
	}

	return h, nil
}
