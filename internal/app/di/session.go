package di

import (
	"sync"

	"github.com/redis/go-redis/v9"

	"trademaster/internal/feature/candles/adapters/httpsource"
	candlesusecase "trademaster/internal/feature/candles/usecase"
	sessionadapters "trademaster/internal/feature/session/adapters"
	"trademaster/internal/feature/session/domain/entity"
	sessionusecase "trademaster/internal/feature/session/usecase"
	infrahttp "trademaster/internal/platform/http"
)

// CatalogResetter is notified when a new broker session starts.
type CatalogResetter interface {
	Reset()
}

// NewSessionManager wires the broker session manager.
// If Redis is available the session is shared across processes; otherwise it stays process-local.
// The catalog is reset whenever a different session is adopted, since it is loaded once per session.
func NewSessionManager(rdb *redis.Client, catalog CatalogResetter) *sessionusecase.Manager {
	cfg := httpsource.LoadConfig()
	client := infrahttp.NewHTTPClient(cfg.Timeout)

	var (
		mu     sync.Mutex
		lastID string
	)
	factory := func(s *entity.BrokerSession) candlesusecase.CandleSource {
		mu.Lock()
		if lastID != "" && lastID != s.ID && catalog != nil {
			catalog.Reset()
		}
		lastID = s.ID
		mu.Unlock()
		return httpsource.NewClient(cfg, client, s.JWTToken)
	}

	// nil の *SessionRedis をインターフェースに入れないよう分岐する
	var store sessionusecase.SessionStore
	if rdb != nil {
		store = sessionadapters.NewSessionRedis(rdb, "")
	}
	return sessionusecase.NewManager(sessionadapters.NewEnvAuthenticator(), store, factory)
}
