package entity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerSession_IsValid(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	revoked := now.Add(-time.Minute)

	tests := []struct {
		name string
		s    *BrokerSession
		want bool
	}{
		{name: "nil", s: nil, want: false},
		{name: "no token", s: &BrokerSession{ExpiresAt: now.Add(time.Hour)}, want: false},
		{name: "valid", s: &BrokerSession{JWTToken: "t", ExpiresAt: now.Add(time.Hour)}, want: true},
		{name: "no expiry known", s: &BrokerSession{JWTToken: "t"}, want: true},
		{name: "expired", s: &BrokerSession{JWTToken: "t", ExpiresAt: now}, want: false},
		{name: "revoked", s: &BrokerSession{JWTToken: "t", ExpiresAt: now.Add(time.Hour), RevokedAt: &revoked}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.s.IsValid(now))
		})
	}
}

func TestExpiryFromJWT(t *testing.T) {
	t.Parallel()

	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "A123",
		"exp": exp.Unix(),
	}).SignedString([]byte("provider-secret"))
	require.NoError(t, err)

	got, ok := ExpiryFromJWT(signed)
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "A123"}).SignedString([]byte("k"))
	require.NoError(t, err)
	_, ok = ExpiryFromJWT(noExp)
	assert.False(t, ok)

	_, ok = ExpiryFromJWT("not-a-jwt")
	assert.False(t, ok)
}
