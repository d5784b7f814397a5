// Package dto はcandlesフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"math"
	"time"

	"trademaster/internal/feature/candles/domain/entity"
)

// CollectReq は POST /corpora のリクエストボディです。
type CollectReq struct {
	Tickers      []string `json:"tickers" binding:"required,min=1,dive,required"`
	DurationDays int      `json:"duration_days" binding:"required,min=1"`
	Interval     string   `json:"interval" binding:"required"`
}

// CorpusResponse はコーパスの概要と収集レポートです。
type CorpusResponse struct {
	ID      string                `json:"id"`
	Tickers []string              `json:"tickers"`
	Missing []string              `json:"missing"`
	SizeMB  float64               `json:"size_mb"`
	Report  *entity.CollectReport `json:"report"`
}

// CandleItem は1本のローソク足です。Gapは先頭行でnullになります。
type CandleItem struct {
	Time   string   `json:"time"`
	Open   float64  `json:"open"`
	High   float64  `json:"high"`
	Low    float64  `json:"low"`
	Close  float64  `json:"close"`
	Volume float64  `json:"volume"`
	Gap    *float64 `json:"gap"`
}

// SeriesResponse は1銘柄分の系列です。
type SeriesResponse struct {
	Ticker   string       `json:"ticker"`
	Interval string       `json:"interval"`
	Candles  []CandleItem `json:"candles"`
}

// TrainingFrameReq は POST /training-frame のリクエストボディです。
type TrainingFrameReq struct {
	Tickers []string `json:"tickers" binding:"required,min=1,dive,required"`
}

// TrainingFrameResponse は学習用の特徴量テーブルです。NaNはnullで表します。
type TrainingFrameResponse struct {
	Columns  []string              `json:"columns"`
	Tickers  []string              `json:"tickers"`
	Features [][]*float64          `json:"features"`
	Labels   []int                 `json:"labels"`
	Report   *entity.CollectReport `json:"report"`
}

// NewCorpusResponse converts a corpus and its report.
func NewCorpusResponse(c *entity.Corpus, r *entity.CollectReport) CorpusResponse {
	var requested []string
	if r != nil {
		for _, o := range r.Outcomes {
			if o.Status == entity.StatusDuplicate {
				continue
			}
			requested = append(requested, o.Ticker)
		}
	}
	missing := c.Missing(requested)
	if missing == nil {
		missing = []string{}
	}
	return CorpusResponse{
		ID:      c.ID,
		Tickers: c.Tickers(),
		Missing: missing,
		SizeMB:  c.SizeMB(),
		Report:  r,
	}
}

// NewSeriesResponse converts a ticker series. Times use the exchange wall clock without offset.
func NewSeriesResponse(s *entity.TickerSeries) SeriesResponse {
	out := SeriesResponse{Ticker: s.Ticker, Interval: s.Interval, Candles: make([]CandleItem, 0, s.Len())}
	for i, c := range s.Candles {
		out.Candles = append(out.Candles, CandleItem{
			Time:   c.Time.Format(time.DateTime),
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: c.Volume,
			Gap:    finite(s.Gap[i]),
		})
	}
	return out
}

// NewTrainingFrameResponse converts a training frame.
func NewTrainingFrameResponse(f *entity.TrainingFrame, r *entity.CollectReport) TrainingFrameResponse {
	out := TrainingFrameResponse{
		Columns:  f.Columns,
		Tickers:  f.Tickers,
		Features: make([][]*float64, 0, len(f.Features)),
		Labels:   f.Labels,
		Report:   r,
	}
	if out.Tickers == nil {
		out.Tickers = []string{}
	}
	if out.Labels == nil {
		out.Labels = []int{}
	}
	for _, row := range f.Features {
		vals := make([]*float64, len(row))
		for i, v := range row {
			vals[i] = finite(v)
		}
		out.Features = append(out.Features, vals)
	}
	return out
}

// finite returns nil for NaN and infinities, which JSON cannot carry.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
