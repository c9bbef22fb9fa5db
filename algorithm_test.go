package medallion

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlgorithm_JSONRoundtrip(t *testing.T) {
	for _, alg := range []Algorithm{HS256, HS384, HS512, RS256, RS384, RS512} {
		t.Run(alg.String(), func(t *testing.T) {
			data, err := json.Marshal(alg)
			require.NoError(t, err)
			assert.Equal(t, `"`+alg.String()+`"`, string(data))

			var back Algorithm
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, alg, back)
		})
	}
}

func TestAlgorithm_RejectsUnknown(t *testing.T) {
	for _, raw := range []string{`"none"`, `"ES256"`, `"hs256"`, `""`, `42`} {
		t.Run(raw, func(t *testing.T) {
			var alg Algorithm
			err := json.Unmarshal([]byte(raw), &alg)
			require.Error(t, err)
		})
	}

	_, err := json.Marshal(Algorithm("none"))
	require.Error(t, err)
}

func TestAlgorithm_Valid(t *testing.T) {
	assert.True(t, HS256.Valid())
	assert.True(t, RS512.Valid())
	assert.False(t, Algorithm("").Valid())
	assert.False(t, Algorithm("PS256").Valid())
}
