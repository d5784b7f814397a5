// Package usecase implements candle acquisition: throttled fetching, the resilient
// per-ticker collector, series assembly and the training-frame builder.
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"trademaster/internal/feature/candles/domain/entity"
	"trademaster/internal/shared/ratelimiter"
)

// CandleSource abstracts the remote historical-data provider.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type CandleSource interface {
	// GetCandles returns the provider reply decoded into a typed variant.
	// Transport problems (timeouts, 5xx, connection resets) are returned as errors.
	GetCandles(ctx context.Context, req entity.FetchRequest) (entity.FetchResponse, error)
}

// ErrNoSource is returned when the fetcher has no candle source attached.
var ErrNoSource = errors.New("candle source is not configured")

// Fetcher issues one candle request at a time and keeps a minimum spacing between calls.
// It has no retry logic; it surfaces the raw provider reply.
type Fetcher struct {
	limiter ratelimiter.RateLimiterInterface

	callMu sync.Mutex // serializes outbound calls

	mu     sync.RWMutex
	source CandleSource
}

// NewFetcher creates a Fetcher. The limiter must be shared by every caller that
// talks to the same provider.
func NewFetcher(source CandleSource, limiter ratelimiter.RateLimiterInterface) *Fetcher {
	return &Fetcher{source: source, limiter: limiter}
}

// SetSource swaps the candle source, e.g. after the broker session was refreshed.
func (f *Fetcher) SetSource(source CandleSource) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.source = source
}

func (f *Fetcher) currentSource() CandleSource {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.source
}

// FetchCandles blocks until the spacing gate opens and then asks the current source for candles.
func (f *Fetcher) FetchCandles(ctx context.Context, ticker string, req entity.FetchRequest) (entity.FetchResponse, error) {
	f.callMu.Lock()
	defer f.callMu.Unlock()

	if err := f.limiter.Wait(ctx); err != nil {
		return entity.FetchResponse{}, err
	}

	src := f.currentSource()
	if src == nil {
		return entity.FetchResponse{}, ErrNoSource
	}

	slog.Debug("fetching candles",
		"ticker", ticker,
		"token", req.Token,
		"exchange", req.Exchange,
		"interval", req.Interval,
		"from", req.From.Format(WindowLayout),
		"to", req.To.Format(WindowLayout),
	)
	return src.GetCandles(ctx, req)
}
