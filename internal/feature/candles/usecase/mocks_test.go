package usecase_test

import (
	"context"
	"sync"
	"time"

	"trademaster/internal/feature/candles/domain/entity"
	"trademaster/internal/feature/candles/usecase"
	ientity "trademaster/internal/feature/instruments/domain/entity"
)

// mockCandleSource はCandleSourceインターフェースのモック実装です。
type mockCandleSource struct {
	mu             sync.Mutex
	GetCandlesFunc func(ctx context.Context, req entity.FetchRequest) (entity.FetchResponse, error)
	Requests       []entity.FetchRequest
}

func (m *mockCandleSource) GetCandles(ctx context.Context, req entity.FetchRequest) (entity.FetchResponse, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()
	if m.GetCandlesFunc != nil {
		return m.GetCandlesFunc(ctx, req)
	}
	return entity.Success(nil), nil
}

func (m *mockCandleSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// mockSessionProvider はSessionProviderインターフェースのモック実装です。
type mockSessionProvider struct {
	RefreshFunc  func(ctx context.Context) (usecase.CandleSource, error)
	RefreshCalls int
}

func (m *mockSessionProvider) Refresh(ctx context.Context) (usecase.CandleSource, error) {
	m.RefreshCalls++
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx)
	}
	return nil, nil
}

// mockLimiter は待機回数を記録するだけのRateLimiterです。
type mockLimiter struct {
	WaitFunc  func(ctx context.Context) error
	WaitCalls int
}

func (m *mockLimiter) Wait(ctx context.Context) error {
	m.WaitCalls++
	if m.WaitFunc != nil {
		return m.WaitFunc(ctx)
	}
	return nil
}

// sleepRecorder は実際には眠らずにバックオフ時間を記録します。
type sleepRecorder struct {
	delays []time.Duration
}

func (s *sleepRecorder) Sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

var fixedNow = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

var testCatalog = []ientity.Instrument{
	{Token: "2885", Symbol: "RELIANCE-EQ", Name: "RELIANCE", Exchange: "NSE"},
	{Token: "1594", Symbol: "INFY-EQ", Name: "INFY", Exchange: "NSE"},
	{Token: "3045", Symbol: "SBIN-EQ", Name: "SBIN", Exchange: "NSE"},
	{Token: "500325", Symbol: "RELIANCE", Name: "RELIANCE", Exchange: "BSE"},
}

func rows(closes ...float64) []entity.RawRow {
	out := make([]entity.RawRow, 0, len(closes))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		out = append(out, entity.RawRow{
			Timestamp: base.AddDate(0, 0, i).Format("2006-01-02T15:04:05") + "+05:30",
			Open:      ftoa(c - 1),
			High:      ftoa(c + 2),
			Low:       ftoa(c - 2),
			Close:     ftoa(c),
			Volume:    "1000",
		})
	}
	return out
}
