// Package jwtmw issues and verifies the bearer tokens that protect the HTTP API.
package jwtmw

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EnvKeyJWTSecret is the environment variable holding the HMAC secret.
const EnvKeyJWTSecret = "JWT_SECRET"

// Generator defines the interface for API token generation.
type Generator interface {
	// GenerateToken creates a signed token for an API client.
	GenerateToken(subject string, scopes []string) (string, error)
}

// generator implements the Generator interface.
type generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
func NewGenerator(secret string, expiration time.Duration) *generator {
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken creates a signed HS256 token with sub, scope, iat and exp claims.
func (g *generator) GenerateToken(subject string, scopes []string) (string, error) {
	if len(g.secret) == 0 {
		return "", fmt.Errorf("empty signing secret")
	}
	now := g.now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"scope": scopes,
		"iat":   now.Unix(),
		"exp":   now.Add(g.expiration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
