package adapters

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"trademaster/internal/feature/session/domain/entity"
	"trademaster/internal/feature/session/usecase"
	"trademaster/internal/platform/cache"
)

// EnvConfig holds pre-generated broker tokens.
type EnvConfig struct {
	JWTToken     string
	RefreshToken string
	FeedToken    string
}

// LoadEnvConfig reads broker tokens from environment variables.
func LoadEnvConfig() EnvConfig {
	return EnvConfig{
		JWTToken:     os.Getenv("BROKER_JWT_TOKEN"),
		RefreshToken: os.Getenv("BROKER_REFRESH_TOKEN"),
		FeedToken:    os.Getenv("BROKER_FEED_TOKEN"),
	}
}

// EnvAuthenticator は外部で生成済みのトークンを環境変数から読み込むAuthenticatorです。
// TOTPを使ったログイン処理はこのサービスの外で行います。
type EnvAuthenticator struct {
	load func() EnvConfig
	now  func() time.Time
}

var _ usecase.Authenticator = (*EnvAuthenticator)(nil)

// NewEnvAuthenticator creates an authenticator that reads the environment on every login.
// Credentials changed in the process environment (os.Setenv) apply to the next login;
// values changed outside the process need a restart.
func NewEnvAuthenticator() *EnvAuthenticator {
	return &EnvAuthenticator{load: LoadEnvConfig, now: time.Now}
}

// Login builds a session from the configured tokens.
// Expiry comes from the token's exp claim, or the next midnight IST when it has none.
func (a *EnvAuthenticator) Login(_ context.Context) (*entity.BrokerSession, error) {
	cfg := a.load()
	if cfg.JWTToken == "" {
		return nil, usecase.ErrNoSession
	}

	now := a.now()
	exp, ok := entity.ExpiryFromJWT(cfg.JWTToken)
	if !ok {
		exp = now.Add(cache.TimeUntilNext(0, 0, cache.IST()))
	}

	s := &entity.BrokerSession{
		ID:           uuid.NewString(),
		JWTToken:     cfg.JWTToken,
		RefreshToken: cfg.RefreshToken,
		FeedToken:    cfg.FeedToken,
		CreatedAt:    now,
		ExpiresAt:    exp,
	}
	slog.Info("broker session loaded from environment", "session_id", s.ID, "expires_at", s.ExpiresAt)
	return s, nil
}
