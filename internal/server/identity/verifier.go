// Package identity is the client side of the external identity provider:
// it turns an opaque bearer credential into a stable subject id. Nothing
// outside this package knows or cares that the credential is a JWT.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature,
// expiry, malformed token, missing subject. Callers branch on this with
// errors.Is and surface a single "invalid token" condition.
var ErrInvalidToken = errors.New("invalid token")

// Verifier validates a bearer credential and yields the subject id.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// TokenVerifier validates HS256-signed provider tokens against a shared
// secret, with optional issuer and audience checks.
type TokenVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

func NewTokenVerifier(secret, issuer, audience string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), issuer: issuer, audience: audience}
}

func (v *TokenVerifier) Verify(_ context.Context, token string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return sub, nil
}
