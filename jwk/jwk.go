// Package jwk models JSON Web Keys: a generic key envelope whose type-specific
// parameters are flattened into the same JSON object as kty and kid, plus a
// key set container holding a possibly heterogeneous collection of keys.
package jwk

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	medallion "github.com/commandline/medallion-go"
)

var (
	// ErrNoParams reports an attempt to serialize or use a key without
	// parameters.
	ErrNoParams = errors.New("key has no parameters")
	// ErrEmptyKeySet reports a pop from an empty key set.
	ErrEmptyKeySet = errors.New("key set is empty")
)

// KeyType identifies the family a key's parameters belong to.
type KeyType string

const (
	// RSA covers asymmetric RSA keys, public and private both.
	RSA KeyType = "RSA"
	// OCT covers simple symmetric byte-sequence keys, for instance HMAC
	// secrets.
	OCT KeyType = "OCT"
)

// Valid reports whether t is a supported key type.
func (t KeyType) Valid() bool {
	switch t {
	case RSA, OCT:
		return true
	}
	return false
}

// MarshalJSON encodes the key type name, rejecting unknown values.
func (t KeyType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown key type %q", medallion.ErrKeyFormat, string(t))
	}
	return json.Marshal(string(t))
}

// UnmarshalJSON decodes a key type name, rejecting unknown values.
func (t *KeyType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("%w: %v", medallion.ErrKeyFormat, err)
	}
	kt := KeyType(name)
	if !kt.Valid() {
		return fmt.Errorf("%w: unknown key type %q", medallion.ErrKeyFormat, name)
	}
	*t = kt
	return nil
}

// Key is a generic key envelope composing parameters for a specific type,
// like RSA or octet sequence. On the wire kty, kid, and the fields of Params
// share one flat JSON object; the nested Params grouping exists only in
// memory. Keys are never mutated in place: recovering a different parameter
// type means re-parsing into a different Key[T].
type Key[T any] struct {
	Kty    KeyType
	Kid    string
	Params *T
}

// keyEnvelope is the fixed part of the wire form.
type keyEnvelope struct {
	Kty KeyType `json:"kty"`
	Kid string  `json:"kid"`
}

// NewKey wraps params in an envelope, minting a random kid when none is
// given.
func NewKey[T any](kty KeyType, kid string, params T) Key[T] {
	if kid == "" {
		kid = uuid.NewString()
	}
	return Key[T]{
		Kty:    kty,
		Kid:    kid,
		Params: &params,
	}
}

// MarshalJSON renders the envelope and the parameter fields as one flat JSON
// object. A key without parameters cannot be represented.
func (k Key[T]) MarshalJSON() ([]byte, error) {
	if k.Params == nil {
		return nil, ErrNoParams
	}

	base, err := json.Marshal(keyEnvelope{Kty: k.Kty, Kid: k.Kid})
	if err != nil {
		return nil, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}

	paramsJSON, err := json.Marshal(k.Params)
	if err != nil {
		return nil, err
	}
	var paramsMap map[string]json.RawMessage
	if err := json.Unmarshal(paramsJSON, &paramsMap); err != nil {
		return nil, fmt.Errorf("%w: parameters are not a JSON object", medallion.ErrEncoding)
	}
	for name, value := range paramsMap {
		merged[name] = value
	}

	return json.Marshal(merged)
}

// UnmarshalJSON reads the envelope and then re-parses the same object as the
// parameter type. Unlike header and payload extensions, parameters that do
// not decode as T are an error: a key without usable parameters is unusable.
func (k *Key[T]) UnmarshalJSON(data []byte) error {
	var envelope keyEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("%w: %v", medallion.ErrKeyFormat, err)
	}
	if !envelope.Kty.Valid() {
		return fmt.Errorf("%w: missing key type", medallion.ErrKeyFormat)
	}

	var params T
	if err := json.Unmarshal(data, &params); err != nil {
		return fmt.Errorf("%w: %v", medallion.ErrKeyFormat, err)
	}

	k.Kty = envelope.Kty
	k.Kid = envelope.Kid
	k.Params = &params
	return nil
}

// KeySet is an ordered collection of keys in their wire form. Entries stay
// opaque until popped, so one set can hold keys of different parameter types.
type KeySet struct {
	Keys []json.RawMessage `json:"keys"`
}

// NewKeySet returns an empty key set.
func NewKeySet() *KeySet {
	return &KeySet{}
}

// Len returns the number of keys in the set.
func (ks *KeySet) Len() int {
	return len(ks.Keys)
}

// Push appends a key to the set.
func Push[T any](ks *KeySet, key Key[T]) error {
	data, err := json.Marshal(key)
	if err != nil {
		return err
	}
	ks.Keys = append(ks.Keys, data)
	return nil
}

// Pop removes the most recently pushed key and decodes it as a Key[T].
// Callers are responsible for knowing or probing the right parameter type per
// entry; kty is the only persisted discriminant.
func Pop[T any](ks *KeySet) (Key[T], error) {
	var key Key[T]
	if len(ks.Keys) == 0 {
		return key, ErrEmptyKeySet
	}

	last := ks.Keys[len(ks.Keys)-1]
	if err := json.Unmarshal(last, &key); err != nil {
		return key, err
	}
	ks.Keys = ks.Keys[:len(ks.Keys)-1]
	return key, nil
}
