// Package auth validates the opaque bearer/API-key credential an SSE
// client presents on connect. This stops at "is this token acceptable" —
// no token issuance, refresh, scopes, or JWKS discovery; a full OAuth
// flow is explicitly out of scope.
package auth

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Validator decides whether a bearer token is acceptable. Implementations
// must be safe for concurrent use; the SSE HTTP handler calls Validate on
// every GET to the event stream and every POST to the message endpoint.
type Validator interface {
	Validate(token string) error
}

// ValidatorFunc adapts a plain function to Validator.
type ValidatorFunc func(token string) error

func (f ValidatorFunc) Validate(token string) error { return f(token) }

// StaticKeyValidator accepts a token if and only if it matches Key
// exactly, compared in constant time so a timing side-channel can't leak
// the key byte by byte.
type StaticKeyValidator struct {
	Key string
}

// NewStaticKeyValidator builds a Validator that only accepts key.
func NewStaticKeyValidator(key string) *StaticKeyValidator {
	return &StaticKeyValidator{Key: key}
}

func (v *StaticKeyValidator) Validate(token string) error {
	if subtle.ConstantTimeCompare([]byte(token), []byte(v.Key)) != 1 {
		return fmt.Errorf("auth: invalid api key")
	}
	return nil
}

// JWTValidator accepts an HMAC-signed JWT if it verifies against Secret,
// has not expired, and (when Audience is set) carries a matching "aud"
// claim. This validates self-contained tokens a trusted issuer handed
// out; it does not fetch keys from a JWKS endpoint or manage an
// authorization-code flow.
type JWTValidator struct {
	Secret    []byte
	Audience  string
	ClockSkew time.Duration
}

// NewJWTValidator builds a Validator for HS256-signed tokens.
func NewJWTValidator(secret []byte, audience string) *JWTValidator {
	return &JWTValidator{Secret: secret, Audience: audience, ClockSkew: 30 * time.Second}
}

func (v *JWTValidator) Validate(token string) error {
	claims := jwt.MapClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return v.Secret, nil
	}, jwt.WithLeeway(v.ClockSkew))
	if err != nil {
		return fmt.Errorf("auth: invalid token: %w", err)
	}
	if !parsed.Valid {
		return fmt.Errorf("auth: token failed validation")
	}

	if v.Audience != "" {
		ok, err := claims.GetAudience()
		if err != nil {
			return fmt.Errorf("auth: missing audience claim")
		}
		if !containsString(ok, v.Audience) {
			return fmt.Errorf("auth: audience mismatch")
		}
	}

	return nil
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
