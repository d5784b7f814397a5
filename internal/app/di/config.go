package di

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	candlesusecase "trademaster/internal/feature/candles/usecase"
	simulationusecase "trademaster/internal/feature/simulation/usecase"
)

// MinRequestSpacing is the smallest allowed gap between two broker calls.
const MinRequestSpacing = 400 * time.Millisecond

// CollectConfig holds the collection settings read from the environment.
type CollectConfig struct {
	Exchange    string        // COLLECT_EXCHANGE (default NSE)
	MinSpacing  time.Duration // COLLECT_MIN_SPACING (default and floor 400ms)
	MaxAttempts int           // COLLECT_MAX_ATTEMPTS (default and cap 3)
	StoreLimit  int           // CORPUS_STORE_LIMIT (default 16)
}

// LoadCollectConfig reads CollectConfig from environment variables.
func LoadCollectConfig() CollectConfig {
	cfg := CollectConfig{
		Exchange:    os.Getenv("COLLECT_EXCHANGE"),
		MinSpacing:  envDuration("COLLECT_MIN_SPACING", MinRequestSpacing),
		MaxAttempts: envInt("COLLECT_MAX_ATTEMPTS", candlesusecase.MaxAttemptsPerTicker),
		StoreLimit:  envInt("CORPUS_STORE_LIMIT", 16),
	}
	if cfg.Exchange == "" {
		cfg.Exchange = "NSE"
	}
	if cfg.MinSpacing < MinRequestSpacing {
		slog.Warn("COLLECT_MIN_SPACING below broker limit; raising", "value", cfg.MinSpacing, "min", MinRequestSpacing)
		cfg.MinSpacing = MinRequestSpacing
	}
	if cfg.MaxAttempts > candlesusecase.MaxAttemptsPerTicker {
		slog.Warn("COLLECT_MAX_ATTEMPTS above limit; capping", "value", cfg.MaxAttempts, "max", candlesusecase.MaxAttemptsPerTicker)
		cfg.MaxAttempts = candlesusecase.MaxAttemptsPerTicker
	}
	return cfg
}

// SimulationConfig holds the simulation settings read from the environment.
type SimulationConfig struct {
	Engine      simulationusecase.Config
	Parallelism int // SIM_PARALLELISM (default 4)
}

// LoadSimulationConfig reads SimulationConfig from environment variables.
// SIM_INITIAL_BALANCE and SIM_COST_AWARE_SIZING override the engine defaults.
func LoadSimulationConfig() SimulationConfig {
	eng := simulationusecase.DefaultConfig()
	if v, err := strconv.ParseFloat(os.Getenv("SIM_INITIAL_BALANCE"), 64); err == nil && v > 0 {
		eng.InitialBalance = v
	}
	if v, err := strconv.ParseBool(os.Getenv("SIM_COST_AWARE_SIZING")); err == nil {
		eng.CostAwareSizing = v
	}
	return SimulationConfig{Engine: eng, Parallelism: envInt("SIM_PARALLELISM", 4)}
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		slog.Warn("ignoring invalid integer setting", "key", key, "value", raw)
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		slog.Warn("ignoring invalid duration setting", "key", key, "value", raw)
		return def
	}
	return v
}
