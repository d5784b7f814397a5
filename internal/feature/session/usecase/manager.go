// Package usecase manages the broker session used for candle requests.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	candles "trademaster/internal/feature/candles/usecase"
	"trademaster/internal/feature/session/domain/entity"
)

// Authenticator performs the broker login handshake and returns a fresh session.
type Authenticator interface {
	Login(ctx context.Context) (*entity.BrokerSession, error)
}

// SessionStore shares the current broker session between processes.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SessionStore interface {
	Load(ctx context.Context) (*entity.BrokerSession, error)
	Save(ctx context.Context, s *entity.BrokerSession) error
	Revoke(ctx context.Context, id string) error
}

// refreshTimeout bounds a shared re-authentication, which runs detached from
// the cancellation of whichever caller started it.
const refreshTimeout = 30 * time.Second

// SourceFactory binds a candle source to a session.
type SourceFactory func(s *entity.BrokerSession) candles.CandleSource

// Manager owns the current broker session. Only one re-authentication is in flight
// at a time; concurrent Refresh callers share its result.
type Manager struct {
	auth    Authenticator
	store   SessionStore // optional
	factory SourceFactory
	now     func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	current *entity.BrokerSession
}

// ManagerがSessionProviderを実装していることをコンパイル時に検証します。
var _ candles.SessionProvider = (*Manager)(nil)

// NewManager creates a Manager. store may be nil for a process-local session.
func NewManager(auth Authenticator, store SessionStore, factory SourceFactory) *Manager {
	return &Manager{auth: auth, store: store, factory: factory, now: time.Now}
}

// Session returns the current session, if any.
func (m *Manager) Session() *entity.BrokerSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Source returns a candle source bound to a valid session, reusing the current
// or shared session when possible and logging in otherwise.
func (m *Manager) Source(ctx context.Context) (candles.CandleSource, error) {
	if s := m.Session(); s.IsValid(m.now()) {
		return m.factory(s), nil
	}
	if s := m.loadShared(ctx, ""); s != nil {
		m.setCurrent(s)
		return m.factory(s), nil
	}
	return m.Refresh(ctx)
}

// Refresh discards the current session and obtains a new one.
// If another process already stored a newer valid session, that one is adopted.
// Cancelling ctx stops this caller's wait but not the shared login.
func (m *Manager) Refresh(ctx context.Context) (candles.CandleSource, error) {
	ch := m.group.DoChan("refresh", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		return m.refresh(rctx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			slog.Debug("joined in-flight broker re-authentication")
		}
		return m.factory(res.Val.(*entity.BrokerSession)), nil
	}
}

func (m *Manager) refresh(ctx context.Context) (*entity.BrokerSession, error) {
	stale := m.Session()
	staleID := ""
	if stale != nil {
		staleID = stale.ID
		m.revokeShared(ctx, staleID)
	}

	if s := m.loadShared(ctx, staleID); s != nil {
		slog.Info("adopted broker session refreshed elsewhere", "session_id", s.ID)
		m.setCurrent(s)
		return s, nil
	}

	slog.Info("re-authenticating broker session")
	s, err := m.auth.Login(ctx)
	if err != nil {
		return nil, fmt.Errorf("broker login: %w", err)
	}
	if !s.IsValid(m.now()) {
		return nil, ErrNoSession
	}
	m.setCurrent(s)

	if m.store != nil {
		if err := m.store.Save(ctx, s); err != nil {
			slog.Warn("failed to share broker session", "session_id", s.ID, "error", err)
		}
	}
	slog.Info("broker session ready", "session_id", s.ID, "expires_at", s.ExpiresAt)
	return s, nil
}

// loadShared returns the stored session when it is valid and is not skipID.
func (m *Manager) loadShared(ctx context.Context, skipID string) *entity.BrokerSession {
	if m.store == nil {
		return nil
	}
	s, err := m.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			slog.Warn("failed to load shared broker session", "error", err)
		}
		return nil
	}
	if s.ID == skipID || !s.IsValid(m.now()) {
		return nil
	}
	return s
}

func (m *Manager) revokeShared(ctx context.Context, id string) {
	if m.store == nil {
		return
	}
	if err := m.store.Revoke(ctx, id); err != nil && !errors.Is(err, ErrSessionNotFound) {
		slog.Warn("failed to revoke shared broker session", "session_id", id, "error", err)
	}
}

func (m *Manager) setCurrent(s *entity.BrokerSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s
}
