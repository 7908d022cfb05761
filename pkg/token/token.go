// Package token issues and verifies the signed bearer tokens that carry a
// user's identity and role between requests. Tokens are stateless: nothing is
// persisted, and verification is pure.
package token

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prensprays-byte/library-inventory-system/pkg/config"
)

var signingMethod = jwt.SigningMethodHS256

// ErrInvalid is returned for any token that fails verification: bad
// signature, malformed input, or past expiry.
var ErrInvalid = fmt.Errorf("invalid token")

// Claims is the payload embedded in every issued token.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Issue signs a token for the given identity, valid for the configured TTL.
func Issue(cfg config.JWTConfig, now time.Time, userID, role, email, name string) (string, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return "", fmt.Errorf("jwt secret is required")
	}

	claims := Claims{
		UserID: userID,
		Role:   role,
		Email:  email,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL())),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// Verify validates the token string and returns its typed claims. Every
// failure mode collapses into ErrInvalid; callers never see parser internals.
func Verify(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != signingMethod {
				return nil, fmt.Errorf("unexpected signing method %s", t.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return claims, nil
}
