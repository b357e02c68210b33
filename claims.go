package edgetrust

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// UnverifiedClaims decodes the payload segment of a three-part dot-delimited
// token (header.body.signature) into T.
//
// CAUTION: the signature segment is deliberately never inspected. The result
// carries no claim of authenticity; callers must verify the token elsewhere
// before trusting any field. Intended for low-stakes pre-inspection, such as
// reading a subject or issuer before full verification, or diagnostics.
//
// The body is decoded as URL-safe unpadded base64 and interpreted as UTF-8,
// with invalid byte sequences replaced rather than rejected, then
// unmarshaled as JSON. Failures return a *TokenError wrapping one of
// ErrMalformedToken, ErrMalformedTokenBody, or ErrMalformedTokenClaims
// together with the offending segment and underlying cause; arbitrary input
// never panics.
func UnverifiedClaims[T any](token string) (T, error) {
	var zero T

	// Discard the header segment, then isolate body from body.signature.
	_, rest, ok := strings.Cut(token, ".")
	if !ok {
		return zero, &TokenError{Err: ErrMalformedToken}
	}
	body, _, ok := strings.Cut(rest, ".")
	if !ok {
		return zero, &TokenError{Err: ErrMalformedToken}
	}

	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return zero, &TokenError{Err: ErrMalformedTokenBody, Segment: body, Cause: err}
	}

	text := strings.ToValidUTF8(string(raw), string(utf8.RuneError))

	var claims T
	if err := json.Unmarshal([]byte(text), &claims); err != nil {
		return zero, &TokenError{Err: ErrMalformedTokenClaims, Cause: err}
	}

	return claims, nil
}
