package di

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	instrumentsadapters "trademaster/internal/feature/instruments/adapters"
	"trademaster/internal/feature/instruments/adapters/scripmaster"
	instrumentsuc "trademaster/internal/feature/instruments/usecase"
	"trademaster/internal/platform/cache"
	infradb "trademaster/internal/platform/db"
	infrahttp "trademaster/internal/platform/http"
)

// カタログ取得元
const (
	CatalogSourceHTTP = "http"
	CatalogSourceDB   = "db"
)

// CatalogRefreshHour はブローカーがスクリップマスターを更新する時刻（IST）です。
const CatalogRefreshHour = 8

// NewCatalogRepository creates the instrument catalog source selected by INSTRUMENT_SOURCE.
// With Redis available the source is wrapped in a cache that expires at the next refresh.
// The returned close function releases the database when one was opened.
func NewCatalogRepository(rdb *redis.Client) (instrumentsuc.CatalogRepository, func() error, error) {
	var (
		repo    instrumentsuc.CatalogRepository
		closeFn = func() error { return nil }
	)

	switch src := os.Getenv("INSTRUMENT_SOURCE"); src {
	case "", CatalogSourceHTTP:
		cfg := scripmaster.LoadConfig()
		repo = scripmaster.NewClient(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
	case CatalogSourceDB:
		db, err := infradb.OpenDB(infradb.LoadConfigFromEnv())
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		closeFn = sqlDB.Close
		repo = instrumentsadapters.NewInstrumentRepository(db)
	default:
		return nil, nil, fmt.Errorf("unknown INSTRUMENT_SOURCE %q", src)
	}

	if rdb == nil {
		slog.Warn("Redis unavailable; instrument catalog is not cached")
		return repo, closeFn, nil
	}
	// 次回のカタログ更新時刻までをキャッシュ書き込みごとに計算する
	untilRefresh := func() time.Duration {
		return cache.TimeUntilNext(CatalogRefreshHour, 0, cache.IST())
	}
	return cache.NewCachingCatalogRepository(rdb, time.Hour, repo, "instruments").WithTTLFunc(untilRefresh), closeFn, nil
}
