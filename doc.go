// Package medallion implements JSON Web Tokens with extensible headers and
// claims, signed and verified with HMAC (HS256/384/512) or RSA (RS256/384/512),
// plus a JSON Web Key representation for the key material in the jwk
// subpackage.
//
// A token is built from a Header and a Payload, each of which carries a fixed
// standard part and an optional caller-defined extension type that is merged
// into the same flat JSON object on encoding:
//
//	header := medallion.NewHeader[struct{}](medallion.HS256)
//	payload := medallion.Payload[struct{}]{Sub: "user-1"}
//	token := medallion.New(header, payload)
//	signed, err := token.Sign([]byte("secret"))
//
// On the receiving side, Parse recovers the token and Verify checks both the
// signature and the nbf/exp time window:
//
//	token, err := medallion.Parse[struct{}, struct{}](signed)
//	ok, err := token.Verify([]byte("secret"))
package medallion
