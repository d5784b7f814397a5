// Package entity defines the domain models for the candles feature.
package entity

import (
	"math"
	"sort"
	"time"
	"unsafe"
)

// Candle represents one OHLCV observation for a fixed time interval.
// Time is timezone-naive: the exchange wall clock stored with time.UTC.
type Candle struct {
	Time   time.Time // Start of the candle period
	Open   float64   // Opening price
	High   float64   // Highest price during this period
	Low    float64   // Lowest price during this period
	Close  float64   // Closing price
	Volume float64   // Traded volume
}

// RawRow is one candle row exactly as the provider sent it, before numeric conversion.
type RawRow struct {
	Timestamp string
	Open      string
	High      string
	Low       string
	Close     string
	Volume    string
}

// TickerSeries is the assembled, time-ordered candle sequence of one ticker.
// Gap[i] = (Open[i]/Close[i-1] - 1) * 100 and Gap[0] is NaN.
type TickerSeries struct {
	Ticker    string
	Interval  string
	Candles   []Candle
	Gap       []float64
	SizeBytes int64 // approximate in-memory footprint
}

// Len returns the number of candles.
func (s *TickerSeries) Len() int {
	return len(s.Candles)
}

// HasGap reports whether row i has a comparable gap value.
func (s *TickerSeries) HasGap(i int) bool {
	return i > 0 && i < len(s.Gap) && !math.IsNaN(s.Gap[i])
}

// approxSize estimates the bytes held by a series.
func approxSize(ticker string, n int) int64 {
	perRow := int64(unsafe.Sizeof(Candle{})) + 8
	return int64(n)*perRow + int64(len(ticker))
}

// NewTickerSeries builds a series and computes its derived fields.
// candles must already be sorted by time.
func NewTickerSeries(ticker, interval string, candles []Candle) *TickerSeries {
	gap := make([]float64, len(candles))
	for i := range candles {
		if i == 0 {
			gap[i] = math.NaN()
			continue
		}
		gap[i] = ((candles[i].Open / candles[i-1].Close) - 1) * 100
	}
	return &TickerSeries{
		Ticker:    ticker,
		Interval:  interval,
		Candles:   candles,
		Gap:       gap,
		SizeBytes: approxSize(ticker, len(candles)),
	}
}

// Corpus maps each ticker to its series. It lives only in process memory.
type Corpus struct {
	ID        string
	Series    map[string]*TickerSeries
	SizeBytes int64
}

// NewCorpus creates an empty corpus.
func NewCorpus(id string) *Corpus {
	return &Corpus{ID: id, Series: make(map[string]*TickerSeries)}
}

// Add stores s under its ticker, replacing any previous series, and keeps SizeBytes current.
func (c *Corpus) Add(s *TickerSeries) {
	if old, ok := c.Series[s.Ticker]; ok {
		c.SizeBytes -= old.SizeBytes
	}
	c.Series[s.Ticker] = s
	c.SizeBytes += s.SizeBytes
}

// Get returns the series of ticker.
func (c *Corpus) Get(ticker string) (*TickerSeries, bool) {
	s, ok := c.Series[ticker]
	return s, ok
}

// Len returns the number of tickers held.
func (c *Corpus) Len() int {
	return len(c.Series)
}

// Tickers returns the held tickers in sorted order. This is the canonical
// fixed order used wherever per-ticker vectors are laid out.
func (c *Corpus) Tickers() []string {
	out := make([]string, 0, len(c.Series))
	for t := range c.Series {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Missing returns the requested tickers that the corpus does not hold.
func (c *Corpus) Missing(requested []string) []string {
	var out []string
	for _, t := range requested {
		if _, ok := c.Series[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}

// SizeMB returns SizeBytes in mebibytes.
func (c *Corpus) SizeMB() float64 {
	return float64(c.SizeBytes) / (1024 * 1024)
}
