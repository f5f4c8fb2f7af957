// Package token issues and verifies the signed bearer tokens handed out by
// the auth endpoints.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload. The user id travels under the `id` key, which is
// what the web client decodes.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Issuer signs and parses tokens with a process-wide HS256 secret.
type Issuer struct {
	secret []byte
}

// NewIssuer constructs an Issuer from the configured signing secret.
func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret)}
}

// Sign issues a token for the given user id. A ttl of zero produces a token
// without an expiry claim; the signin flow relies on that.
func (i *Issuer) Sign(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.secret)
}

// Parse validates a token's signature and expiry and extracts its claims.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
