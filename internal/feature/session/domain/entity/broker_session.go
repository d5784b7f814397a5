// Package entity defines the broker session model.
package entity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// BrokerSession is an authenticated session against the market-data provider.
// The login handshake that produces the tokens happens outside this service.
type BrokerSession struct {
	ID           string     `json:"id"`            // local identifier (uuid)
	JWTToken     string     `json:"jwt_token"`     // bearer token for data calls
	RefreshToken string     `json:"refresh_token"` // provider refresh token
	FeedToken    string     `json:"feed_token"`    // streaming feed token
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"` // set when the provider rejected the session
}

// IsExpired returns true if the session has passed its expiration time.
func (s *BrokerSession) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// IsRevoked returns true if the session has been marked invalid.
func (s *BrokerSession) IsRevoked() bool {
	return s.RevokedAt != nil
}

// IsValid returns true if the session has a token and is neither expired nor revoked.
func (s *BrokerSession) IsValid(now time.Time) bool {
	return s != nil && s.JWTToken != "" && !s.IsExpired(now) && !s.IsRevoked()
}

// ExpiryFromJWT reads the exp claim of token without verifying its signature.
// The provider signs its own tokens; we only need to know when they lapse.
func ExpiryFromJWT(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
