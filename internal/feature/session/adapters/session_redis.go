// Package adapters provides storage and login implementations for broker sessions.
package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trademaster/internal/feature/session/domain/entity"
	"trademaster/internal/feature/session/usecase"
)

// revokedTTL keeps a revoked session around briefly so other processes see the revocation.
const revokedTTL = 10 * time.Minute

// defaultTTL is used for sessions whose expiry is unknown.
const defaultTTL = 12 * time.Hour

// SessionRedis implements usecase.SessionStore using Redis.
type SessionRedis struct {
	client *redis.Client
	prefix string
}

var _ usecase.SessionStore = (*SessionRedis)(nil)

// NewSessionRedis creates a new SessionRedis instance.
func NewSessionRedis(client *redis.Client, prefix string) *SessionRedis {
	if prefix == "" {
		prefix = "broker_session"
	}
	return &SessionRedis{
		client: client,
		prefix: prefix,
	}
}

// currentKey returns the Redis key of the shared session.
func (r *SessionRedis) currentKey() string {
	return fmt.Sprintf("%s:current", r.prefix)
}

// Save stores s as the shared session until it expires.
func (r *SessionRedis) Save(ctx context.Context, s *entity.BrokerSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := defaultTTL
	if !s.ExpiresAt.IsZero() {
		ttl = time.Until(s.ExpiresAt)
	}
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	return r.client.Set(ctx, r.currentKey(), data, ttl).Err()
}

// Load returns the shared session.
func (r *SessionRedis) Load(ctx context.Context) (*entity.BrokerSession, error) {
	data, err := r.client.Get(ctx, r.currentKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}

	var s entity.BrokerSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// Revoke marks the shared session as revoked when its ID matches.
// A session already replaced by another process is left alone.
func (r *SessionRedis) Revoke(ctx context.Context, id string) error {
	s, err := r.Load(ctx)
	if err != nil {
		return err
	}
	if s.ID != id {
		return nil
	}

	now := time.Now()
	s.RevokedAt = &now

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.client.Set(ctx, r.currentKey(), data, revokedTTL).Err()
}
