package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"trademaster/internal/feature/candles/domain/entity"
	ientity "trademaster/internal/feature/instruments/domain/entity"
	instruments "trademaster/internal/feature/instruments/usecase"
)

// ErrInvalidCollectRequest wraps rejected collection parameters.
var ErrInvalidCollectRequest = errors.New("invalid collect request")

// SessionProvider re-authenticates against the broker and returns a candle
// source bound to the fresh session. Concurrent callers should converge on one refresh.
type SessionProvider interface {
	Refresh(ctx context.Context) (CandleSource, error)
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// MaxAttemptsPerTicker is the upper bound on attempts per ticker, including the first.
const MaxAttemptsPerTicker = 3

// CollectorConfig holds the retry policy of a Collector.
type CollectorConfig struct {
	Exchange    string           // exchange segment used for resolution and requests (default NSE)
	MaxAttempts int              // attempts per ticker including the first (default and cap 3)
	BaseBackoff time.Duration    // delay before attempt n+1 is BaseBackoff * 2^n (default 1s)
	Location    *time.Location   // calendar used for the fetch window (default time.Local)
	Now         func() time.Time // clock (default time.Now)
	Sleep       Sleeper          // backoff sleeper (default SleepContext)
}

func (c CollectorConfig) withDefaults() CollectorConfig {
	if c.Exchange == "" {
		c.Exchange = instruments.DefaultExchange
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = MaxAttemptsPerTicker
	}
	if c.MaxAttempts > MaxAttemptsPerTicker {
		slog.Warn("max attempts per ticker capped", "requested", c.MaxAttempts, "max", MaxAttemptsPerTicker)
		c.MaxAttempts = MaxAttemptsPerTicker
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = time.Second
	}
	if c.Location == nil {
		c.Location = time.Local
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Sleep == nil {
		c.Sleep = SleepContext
	}
	return c
}

// Collector fetches a historical window for a batch of tickers. A failure of one
// ticker never aborts the batch; every ticker ends up with an outcome in the report.
type Collector struct {
	fetcher  *Fetcher
	sessions SessionProvider
	cfg      CollectorConfig
}

// NewCollector creates a Collector. sessions may be nil, in which case an expired
// session counts as a failed attempt and the next attempt starts without backoff.
func NewCollector(fetcher *Fetcher, sessions SessionProvider, cfg CollectorConfig) *Collector {
	return &Collector{fetcher: fetcher, sessions: sessions, cfg: cfg.withDefaults()}
}

// Exchange returns the exchange segment the collector resolves against.
func (c *Collector) Exchange() string {
	return c.cfg.Exchange
}

// Collect fetches durationDays of interval candles for every ticker and returns the
// assembled corpus plus a per-ticker report.
//
// エラーを返すのはカタログが空の場合（前提条件違反）とctxのキャンセル時のみです。
// キャンセル時もそれまでに収集したデータは失われません。
func (c *Collector) Collect(ctx context.Context, tickers []string, durationDays int, interval string, catalog []ientity.Instrument) (*entity.Corpus, *entity.CollectReport, error) {
	if len(catalog) == 0 {
		slog.Error("instrument catalog is empty; aborting collection")
		return nil, nil, instruments.ErrEmptyCatalog
	}
	if durationDays <= 0 {
		return nil, nil, fmt.Errorf("%w: duration must be positive, got %d days", ErrInvalidCollectRequest, durationDays)
	}
	iv, err := entity.ParseInterval(interval)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidCollectRequest, err)
	}

	runID := uuid.NewString()
	from, to := FetchWindow(c.cfg.Now().In(c.cfg.Location), durationDays)
	idx := instruments.NewIndex(catalog, c.cfg.Exchange)

	corpus := entity.NewCorpus(runID)
	report := &entity.CollectReport{
		RunID:     runID,
		Exchange:  c.cfg.Exchange,
		Interval:  string(iv),
		From:      from,
		To:        to,
		StartedAt: c.cfg.Now(),
		Outcomes:  make([]entity.TickerOutcome, 0, len(tickers)),
	}

	slog.Info("collection started",
		"run_id", runID,
		"tickers", len(tickers),
		"interval", iv,
		"from", from.Format(WindowLayout),
		"to", to.Format(WindowLayout),
	)

	seen := make(map[string]struct{}, len(tickers))
	for i, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			for _, rest := range tickers[i:] {
				report.Outcomes = append(report.Outcomes, entity.TickerOutcome{Ticker: rest, Status: entity.StatusCancelled})
			}
			report.FinishedAt = c.cfg.Now()
			slog.Warn("collection cancelled", "run_id", runID, "collected", corpus.Len(), "remaining", len(tickers)-i)
			return corpus, report, err
		}

		if _, dup := seen[ticker]; dup {
			report.Outcomes = append(report.Outcomes, entity.TickerOutcome{Ticker: ticker, Status: entity.StatusDuplicate})
			continue
		}
		seen[ticker] = struct{}{}

		token, ok := idx.Lookup(ticker)
		if !ok {
			slog.Warn("token not found; skipping ticker", "ticker", ticker, "exchange", c.cfg.Exchange)
			report.Outcomes = append(report.Outcomes, entity.TickerOutcome{Ticker: ticker, Status: entity.StatusNotFound})
			continue
		}

		req := entity.FetchRequest{
			Exchange: c.cfg.Exchange,
			Token:    token,
			Interval: string(iv),
			From:     from,
			To:       to,
		}
		outcome, series := c.collectOne(ctx, ticker, req)
		outcome.Token = token
		if series != nil {
			corpus.Add(series)
			slog.Info("ticker collected",
				"ticker", ticker,
				"rows", series.Len(),
				"attempts", outcome.Attempts,
				"corpus_mb", fmt.Sprintf("%.2f", corpus.SizeMB()),
			)
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	report.FinishedAt = c.cfg.Now()
	slog.Info("collection finished",
		"run_id", runID,
		"requested", len(tickers),
		"collected", corpus.Len(),
		"failed", len(report.Failed()),
		"total_mb", fmt.Sprintf("%.2f", corpus.SizeMB()),
	)
	return corpus, report, nil
}

// collectOne runs the retry loop for one resolved ticker.
func (c *Collector) collectOne(ctx context.Context, ticker string, req entity.FetchRequest) (entity.TickerOutcome, *entity.TickerSeries) {
	out := entity.TickerOutcome{Ticker: ticker}

	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		out.Attempts = attempt + 1

		resp, err := c.fetcher.FetchCandles(ctx, ticker, req)

		// ソース未設定（起動時にログインできなかった場合）も期限切れと同様に扱う
		noSource := errors.Is(err, ErrNoSource) && c.sessions != nil
		if noSource || (err == nil && resp.IsSessionExpired()) {
			slog.Warn("broker session expired; re-authenticating", "ticker", ticker, "attempt", out.Attempts)
			resp, err = c.retryWithFreshSession(ctx, ticker, req)
			if err == nil && resp.Kind == entity.ResponseFailure {
				err = fmt.Errorf("after session refresh: %s (%s)", resp.Message, resp.ErrorCode)
			}
			if err != nil {
				if ctx.Err() != nil {
					out.Status, out.Error = entity.StatusCancelled, ctx.Err().Error()
					return out, nil
				}
				// 再認証後も失敗した場合は通常の失敗として数え、バックオフはしない
				out.Error = err.Error()
				slog.Warn("retry after session refresh failed", "ticker", ticker, "attempt", out.Attempts, "error", err)
				continue
			}
		}

		if err != nil {
			if ctx.Err() != nil {
				out.Status, out.Error = entity.StatusCancelled, ctx.Err().Error()
				return out, nil
			}
			out.Error = err.Error()
			slog.Warn("candle fetch raised", "ticker", ticker, "attempt", out.Attempts, "error", err)
			if err := c.backoff(ctx, attempt); err != nil {
				out.Status, out.Error = entity.StatusCancelled, err.Error()
				return out, nil
			}
			continue
		}

		switch resp.Kind {
		case entity.ResponseMalformed:
			slog.Warn("malformed candle response; abandoning ticker", "ticker", ticker, "detail", resp.Detail)
			out.Status, out.Error = entity.StatusMalformed, resp.Detail
			return out, nil

		case entity.ResponseFailure:
			out.Error = fmt.Sprintf("%s (%s)", resp.Message, resp.ErrorCode)
			slog.Warn("candle fetch failed", "ticker", ticker, "attempt", out.Attempts, "message", resp.Message, "errorcode", resp.ErrorCode)
			if err := c.backoff(ctx, attempt); err != nil {
				out.Status, out.Error = entity.StatusCancelled, err.Error()
				return out, nil
			}
			continue

		case entity.ResponseSuccess:
			if len(resp.Rows) == 0 {
				slog.Warn("empty candle payload; skipping ticker", "ticker", ticker)
				out.Status, out.Error = entity.StatusEmpty, ""
				return out, nil
			}
			series, err := Assemble(ticker, req.Interval, resp.Rows)
			if err != nil {
				slog.Error("failed to convert candle rows", "ticker", ticker, "error", err)
				out.Status, out.Error = entity.StatusRejected, err.Error()
				return out, nil
			}
			out.Status, out.Rows, out.Error = entity.StatusCollected, series.Len(), ""
			return out, series
		}
	}

	slog.Error("retries exhausted; dropping ticker", "ticker", ticker, "attempts", out.Attempts, "error", out.Error)
	out.Status = entity.StatusExhausted
	return out, nil
}

// retryWithFreshSession refreshes the broker session, swaps the fetcher's source
// and repeats the request once without delay.
func (c *Collector) retryWithFreshSession(ctx context.Context, ticker string, req entity.FetchRequest) (entity.FetchResponse, error) {
	if c.sessions == nil {
		return entity.FetchResponse{}, errors.New("session expired and no session provider is configured")
	}
	src, err := c.sessions.Refresh(ctx)
	if err != nil {
		return entity.FetchResponse{}, fmt.Errorf("refresh session: %w", err)
	}
	c.fetcher.SetSource(src)
	return c.fetcher.FetchCandles(ctx, ticker, req)
}

// backoff sleeps BaseBackoff * 2^attempt before the next attempt. No delay follows
// the last attempt.
func (c *Collector) backoff(ctx context.Context, attempt int) error {
	if attempt >= c.cfg.MaxAttempts-1 {
		return nil
	}
	delay := c.cfg.BaseBackoff << attempt
	slog.Debug("backing off", "attempt", attempt+1, "delay", delay)
	return c.cfg.Sleep(ctx, delay)
}
