package jwk

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	medallion "github.com/commandline/medallion-go"
)

func generateRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func TestKey_MarshalFlat(t *testing.T) {
	key := NewKey(OCT, "baz", OctetSequenceParamsFromSecret(medallion.HS512, []byte("super secret key")))

	data, err := json.Marshal(key)
	require.NoError(t, err)

	// kty, kid, and the parameter fields all live in one flat object.
	var flat map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, "OCT", flat["kty"])
	assert.Equal(t, "baz", flat["kid"])
	assert.Equal(t, "HS512", flat["alg"])
	assert.Contains(t, flat, "k")
	assert.NotContains(t, flat, "params")
	assert.NotContains(t, flat, "Params")
}

func TestKey_Roundtrip(t *testing.T) {
	key := NewKey(OCT, "baz", OctetSequenceParamsFromSecret(medallion.HS512, []byte("super secret key")))

	data, err := json.Marshal(key)
	require.NoError(t, err)

	var recovered Key[OctetSequenceParams]
	require.NoError(t, json.Unmarshal(data, &recovered))
	assert.Equal(t, key.Kty, recovered.Kty)
	assert.Equal(t, key.Kid, recovered.Kid)
	require.NotNil(t, recovered.Params)
	assert.Equal(t, *key.Params, *recovered.Params)
}

func TestKey_RSARoundtrip(t *testing.T) {
	rsaKey := generateRSAKey(t)

	params, err := RsaParamsFromPrivateKey(rsaKey)
	require.NoError(t, err)
	key := NewKey(RSA, "foo", *params)

	data, err := json.Marshal(key)
	require.NoError(t, err)

	var recovered Key[RsaParams]
	require.NoError(t, json.Unmarshal(data, &recovered))
	assert.Equal(t, RSA, recovered.Kty)
	assert.Equal(t, "foo", recovered.Kid)
	require.NotNil(t, recovered.Params)
	assert.Equal(t, *params, *recovered.Params)
}

func TestKey_MarshalWithoutParams(t *testing.T) {
	key := Key[OctetSequenceParams]{Kty: OCT, Kid: "naked"}

	_, err := json.Marshal(key)
	require.Error(t, err)
	assert.ErrorContains(t, err, ErrNoParams.Error())
}

func TestKey_UnmarshalUnknownKeyType(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "unknown kty", raw: `{"kty":"EC","kid":"x","alg":"HS256"}`},
		{name: "missing kty", raw: `{"kid":"x","alg":"HS256","k":"c2VjcmV0"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var key Key[OctetSequenceParams]
			err := json.Unmarshal([]byte(tt.raw), &key)
			require.Error(t, err)
			assert.ErrorContains(t, err, medallion.ErrKeyFormat.Error())
		})
	}
}

func TestNewKey_MintsKid(t *testing.T) {
	params := OctetSequenceParamsFromSecret(medallion.HS256, []byte("secret"))

	key := NewKey(OCT, "", params)
	assert.NotEmpty(t, key.Kid)

	other := NewKey(OCT, "", params)
	assert.NotEqual(t, key.Kid, other.Kid)
}

func TestKeySet_PushPopHeterogeneous(t *testing.T) {
	octKey := NewKey(OCT, "baz", OctetSequenceParamsFromSecret(medallion.HS512, []byte("super secret key")))

	rsaKey := generateRSAKey(t)
	params := RsaParamsFromPublicKey(&rsaKey.PublicKey)
	pubKey := NewKey(RSA, "bar", *params)

	set := NewKeySet()
	require.NoError(t, Push(set, octKey))
	require.NoError(t, Push(set, pubKey))
	assert.Equal(t, 2, set.Len())

	// Round-trip the whole set through its wire form.
	data, err := json.Marshal(set)
	require.NoError(t, err)

	var recovered KeySet
	require.NoError(t, json.Unmarshal(data, &recovered))

	// Pop returns most-recently-pushed first, decoded as the caller's type.
	poppedRSA, err := Pop[RsaParams](&recovered)
	require.NoError(t, err)
	assert.Equal(t, "bar", poppedRSA.Kid)
	assert.Equal(t, *params, *poppedRSA.Params)

	poppedOct, err := Pop[OctetSequenceParams](&recovered)
	require.NoError(t, err)
	assert.Equal(t, "baz", poppedOct.Kid)
	assert.Equal(t, *octKey.Params, *poppedOct.Params)

	_, err = Pop[OctetSequenceParams](&recovered)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyKeySet)
}

func TestKeySet_WireFormat(t *testing.T) {
	set := NewKeySet()
	require.NoError(t, Push(set, NewKey(OCT, "a", OctetSequenceParamsFromSecret(medallion.HS256, []byte("x")))))

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"keys":[`)
}
