package medallion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customHeaders struct {
	Kid string `json:"kid"`
	Typ string `json:"typ"`
}

func TestHeader_Encode(t *testing.T) {
	header := NewHeader[struct{}](HS256)

	enc, err := header.Encode()
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOiJIUzI1NiJ9", enc)
}

func TestHeader_EncodeCustom(t *testing.T) {
	header := Header[customHeaders]{
		Alg: HS256,
		Extra: &customHeaders{
			Kid: "1KSF3g",
			Typ: "JWT",
		},
	}

	enc, err := header.Encode()
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOiJIUzI1NiIsImtpZCI6IjFLU0YzZyIsInR5cCI6IkpXVCJ9", enc)
}

func TestParseHeader(t *testing.T) {
	header, err := ParseHeader[struct{}]("eyJhbGciOiJIUzI1NiJ9")
	require.NoError(t, err)
	assert.Equal(t, HS256, header.Alg)
}

func TestParseHeader_Custom(t *testing.T) {
	header, err := ParseHeader[customHeaders]("eyJhbGciOiJIUzI1NiIsImtpZCI6IjFLU0YzZyIsInR5cCI6IkpXVCJ9")
	require.NoError(t, err)

	assert.Equal(t, HS256, header.Alg)
	require.NotNil(t, header.Extra)
	assert.Equal(t, "1KSF3g", header.Extra.Kid)
	assert.Equal(t, "JWT", header.Extra.Typ)
}

func TestParseHeader_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{
			name: "invalid base64 alphabet",
			raw:  "not/valid+base64!",
			want: ErrMalformedToken,
		},
		{
			name: "padded base64",
			raw:  "eyJhbGciOiJIUzI1NiJ9==",
			want: ErrMalformedToken,
		},
		{
			name: "not json",
			// base64url of "alg"
			raw:  "YWxn",
			want: ErrDecoding,
		},
		{
			name: "missing alg",
			// base64url of {"typ":"JWT"}
			raw:  "eyJ0eXAiOiJKV1QifQ",
			want: ErrDecoding,
		},
		{
			name: "unknown alg",
			// base64url of {"alg":"none"}
			raw:  "eyJhbGciOiJub25lIn0",
			want: ErrDecoding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader[struct{}](tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHeader_EncodeRejectsUnknownAlgorithm(t *testing.T) {
	header := Header[struct{}]{Alg: "none"}

	_, err := header.Encode()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestHeader_Roundtrip(t *testing.T) {
	header := Header[customHeaders]{
		Alg: RS512,
		Extra: &customHeaders{
			Kid: "1KSF3g",
			Typ: "JWT",
		},
	}

	enc, err := header.Encode()
	require.NoError(t, err)

	parsed, err := ParseHeader[customHeaders](enc)
	require.NoError(t, err)
	assert.Equal(t, header.Alg, parsed.Alg)
	assert.Equal(t, header.Extra, parsed.Extra)
}

func TestHeader_ExtensionParseFailureIsNotFatal(t *testing.T) {
	type strictExtra struct {
		Kid int `json:"kid"`
	}

	// kid is a string on the wire, so the extension parse fails while the
	// fixed shape still decodes.
	header, err := ParseHeader[strictExtra]("eyJhbGciOiJIUzI1NiIsImtpZCI6IjFLU0YzZyIsInR5cCI6IkpXVCJ9")
	require.NoError(t, err)
	assert.Equal(t, HS256, header.Alg)
	assert.Nil(t, header.Extra)
}
