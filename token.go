package medallion

import (
	"fmt"
	"strings"
	"time"
)

// Token combines a header and a payload with the raw compact serialization
// they were parsed from. Raw is set only by Parse, never by New; it is the
// exact received string, sliced again during verification to recover the
// signing input byte-for-byte.
type Token[H, C any] struct {
	Raw     string
	Header  Header[H]
	Payload Payload[C]
}

// DefaultToken is a token whose custom claims slot is empty.
type DefaultToken[H any] = Token[H, struct{}]

// New constructs an unsigned token from a header and payload. The result has
// no raw form until it is signed and the output parsed back.
func New[H, C any](header Header[H], payload Payload[C]) *Token[H, C] {
	return &Token[H, C]{
		Header:  header,
		Payload: payload,
	}
}

// Parse splits a compact serialization on dots and decodes the header and
// payload segments. The signature is not validated here; it is retained
// implicitly inside Raw for Verify. Wrong part counts, bad base64, and bad
// JSON all surface as errors.
func Parse[H, C any](raw string) (*Token[H, C], error) {
	parts := strings.Split(raw, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: expected header.payload.signature", ErrMalformedToken)
	}

	header, err := ParseHeader[H](parts[0])
	if err != nil {
		return nil, err
	}
	payload, err := ParsePayload[C](parts[1])
	if err != nil {
		return nil, err
	}

	return &Token[H, C]{
		Raw:     raw,
		Header:  header,
		Payload: payload,
	}, nil
}

// Sign re-encodes the header and payload, signs the joined segments with the
// header's algorithm, and returns the full three-part serialization. It never
// consults Raw, so it works the same on fresh and parsed tokens.
func (t *Token[H, C]) Sign(key []byte) (string, error) {
	header, err := t.Header.Encode()
	if err != nil {
		return "", err
	}
	payload, err := t.Payload.Encode()
	if err != nil {
		return "", err
	}

	data := header + "." + payload
	signature, err := Sign(data, key, t.Header.Alg)
	if err != nil {
		return "", err
	}

	return data + "." + signature, nil
}

// Verify checks the token against the wall clock. See VerifyAt.
func (t *Token[H, C]) Verify(key []byte) (bool, error) {
	return t.VerifyAt(key, time.Now())
}

// VerifyAt reports whether the token's time window contains now and its
// signature checks out under key. A token that was never parsed has nothing
// to verify and yields false. An expired token and a forged one both yield a
// plain false; only structural failures (bad base64, bad key) are errors.
func (t *Token[H, C]) VerifyAt(key []byte, now time.Time) (bool, error) {
	if t.Raw == "" {
		return false, nil
	}

	// Split at the last dot, not the first, so any future multi-segment
	// signature encoding stays on the signature side.
	i := strings.LastIndexByte(t.Raw, '.')
	if i < 0 {
		return false, fmt.Errorf("%w: missing signature", ErrMalformedToken)
	}
	data, signature := t.Raw[:i], t.Raw[i+1:]

	if !t.Payload.TimeValid(now) {
		return false, nil
	}
	return Verify(signature, data, key, t.Header.Alg)
}

// Equal reports structural equality over header and payload via their
// canonical encodings. Raw is excluded, so a freshly built token compares
// equal to a parsed equivalent even when the received encoding differed in
// whitespace or key order.
func (t *Token[H, C]) Equal(other *Token[H, C]) bool {
	if other == nil {
		return false
	}
	th, err := t.Header.Encode()
	if err != nil {
		return false
	}
	oh, err := other.Header.Encode()
	if err != nil {
		return false
	}
	tp, err := t.Payload.Encode()
	if err != nil {
		return false
	}
	op, err := other.Payload.Encode()
	if err != nil {
		return false
	}
	return th == oh && tp == op
}
