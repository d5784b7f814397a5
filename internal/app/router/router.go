package router

import (
	"github.com/gin-gonic/gin"

	candleshandler "trademaster/internal/feature/candles/transport/handler"
	instrumentshandler "trademaster/internal/feature/instruments/transport/handler"
	orbhandler "trademaster/internal/feature/orb/transport/handler"
	simulationhandler "trademaster/internal/feature/simulation/transport/handler"
	platformhandler "trademaster/internal/platform/http/handler"
	jwtmw "trademaster/internal/platform/jwt"
)

// APIトークンのスコープ
const (
	ScopeRead    = "read"    // 参照系
	ScopeCollect = "collect" // ブローカーAPIを呼び出す収集系
	ScopeAdmin   = "admin"   // カタログ再読み込み
)

// Handlers は各フィーチャーのHTTPハンドラーをまとめたものです。
type Handlers struct {
	Health      *platformhandler.HealthHandler
	Instruments *instrumentshandler.InstrumentsHandler
	Candles     *candleshandler.CandlesHandler
	ORB         *orbhandler.ORBHandler
	Simulation  *simulationhandler.SimulationHandler
}

// NewRouter builds the gin engine. secret signs the API bearer tokens.
func NewRouter(h Handlers, secret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health.Live)
	r.HEAD("/healthz", h.Health.Live)
	r.OPTIONS("/healthz", h.Health.Live)
	r.GET("/readyz", h.Health.Ready)

	// 参照系
	read := r.Group("/")
	read.Use(jwtmw.AuthRequired(secret, ScopeRead))
	{
		read.GET("/instruments/resolve", h.Instruments.Resolve)
		read.GET("/instruments/equities", h.Instruments.Equities)
		read.GET("/corpora/:id", h.Candles.Get)
		read.GET("/corpora/:id/series/:ticker", h.Candles.Series)
		read.POST("/corpora/:id/orb", h.ORB.Scan)
		read.POST("/simulations", h.Simulation.Simulate)
	}

	// ブローカーへのリクエストを伴うルート
	collect := r.Group("/")
	collect.Use(jwtmw.AuthRequired(secret, ScopeCollect))
	{
		collect.POST("/corpora", h.Candles.Collect)
		collect.POST("/training-frame", h.Candles.TrainingFrame)
	}

	admin := r.Group("/")
	admin.Use(jwtmw.AuthRequired(secret, ScopeAdmin))
	{
		admin.POST("/instruments/reload", h.Instruments.Reload)
	}

	return r
}
