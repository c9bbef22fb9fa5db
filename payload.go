package medallion

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Payload carries the standard registered claims plus an optional
// caller-defined claims type T. Standard and extension fields share one flat
// JSON namespace: on encoding the extension fields are merged over the
// standard ones, so an extension key equal to a standard key wins.
//
// Zero-valued standard fields are treated as absent and omitted from the
// serialized form. The zero value doubles as the absence sentinel on decode
// too: an explicit "exp":0 or "nbf":0 on the wire is indistinguishable from
// the field being missing and imposes no time constraint.
type Payload[T any] struct {
	Iss string `json:"iss,omitempty"`
	Sub string `json:"sub,omitempty"`
	Aud string `json:"aud,omitempty"`
	Exp int64  `json:"exp,omitempty"`
	Nbf int64  `json:"nbf,omitempty"`
	Iat int64  `json:"iat,omitempty"`
	Jti string `json:"jti,omitempty"`

	Claims *T `json:"-"`
}

// DefaultPayload is a payload with no custom claims.
type DefaultPayload = Payload[struct{}]

// NewPayload returns a payload stamped with an issued-at of now and a random
// token ID.
func NewPayload[T any](now time.Time) Payload[T] {
	return Payload[T]{
		Iat: now.Unix(),
		Jti: uuid.NewString(),
	}
}

// Encode renders the standard and custom claims as a single flat JSON object
// and base64url-encodes it without padding.
func (p Payload[T]) Encode() (string, error) {
	var claims interface{}
	if p.Claims != nil {
		claims = p.Claims
	}
	body, err := marshalMerged(p, claims)
	if err != nil {
		return "", err
	}
	return encodeSegment(body), nil
}

// ParsePayload decodes a base64url payload segment. The standard claim shape
// must parse; the same bytes are then parsed a second time as the custom
// claims type T, and a failure there simply means no custom claims.
func ParsePayload[T any](raw string) (Payload[T], error) {
	var p Payload[T]

	data, err := decodeSegment(raw)
	if err != nil {
		return p, err
	}

	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("%w: %w", ErrDecoding, err)
	}

	var claims T
	if err := json.Unmarshal(data, &claims); err == nil {
		p.Claims = &claims
	}

	return p, nil
}

// TimeValid reports whether now sits inside the payload's validity window:
// strictly after nbf and strictly before exp. An absent bound is no
// constraint, and a zero bound counts as absent. The instant is a parameter
// so callers and tests control the clock.
func (p Payload[T]) TimeValid(now time.Time) bool {
	sec := now.Unix()
	if p.Nbf != 0 && p.Nbf >= sec {
		return false
	}
	if p.Exp != 0 && sec >= p.Exp {
		return false
	}
	return true
}
