// Package usecase implements the opening range breakout scan over collected candles.
package usecase

import (
	"log/slog"

	"github.com/markcheno/go-talib"

	candles "trademaster/internal/feature/candles/domain/entity"
	"trademaster/internal/feature/orb/domain/entity"
)

// DefaultVolumePeriod is the look-back of the average volume.
const DefaultVolumePeriod = 10

// Scanner evaluates breakout conditions for a set of tickers.
type Scanner struct {
	volumePeriod int
}

// NewScanner creates a Scanner. period <= 0 uses DefaultVolumePeriod.
func NewScanner(period int) *Scanner {
	if period <= 0 {
		period = DefaultVolumePeriod
	}
	return &Scanner{volumePeriod: period}
}

// OpeningRange takes the high/low of the latest candle of an opening-window series.
func OpeningRange(s *candles.TickerSeries) (entity.OpeningRange, bool) {
	if s == nil || s.Len() == 0 {
		return entity.OpeningRange{}, false
	}
	last := s.Candles[s.Len()-1]
	return entity.OpeningRange{High: last.High, Low: last.Low}, true
}

// averageVolume returns the mean volume of the period candles before the last one.
func (sc *Scanner) averageVolume(s *candles.TickerSeries) (float64, bool) {
	n := s.Len()
	if n < sc.volumePeriod+1 {
		return 0, false
	}
	vols := make([]float64, n)
	for i, c := range s.Candles {
		vols[i] = c.Volume
	}
	sma := talib.Sma(vols, sc.volumePeriod)
	return sma[n-2], true
}

// Evaluate scores one ticker's intraday series against its opening range.
//
// 直近の出来高が平均以上のときのみブレイクアウトを判定します。
//   - BUY:  close >= range high かつ low >= range low
//   - SELL: close <= range low かつ high <= range high
func (sc *Scanner) Evaluate(ticker string, rng entity.OpeningRange, s *candles.TickerSeries) entity.Signal {
	sig := entity.Signal{Ticker: ticker, Side: entity.SideNoTrade, Range: rng}
	if s == nil || s.Len() == 0 {
		sig.Reason = "no intraday candles"
		return sig
	}
	last := s.Candles[s.Len()-1]
	sig.Close, sig.Volume = last.Close, last.Volume

	avg, ok := sc.averageVolume(s)
	if !ok {
		sig.Reason = "not enough history for average volume"
		return sig
	}
	sig.AvgVolume = &avg

	if last.Volume < avg {
		sig.Reason = "volume below average"
		return sig
	}

	switch {
	case last.Close >= rng.High && last.Low >= rng.Low:
		sig.Side, sig.Reason = entity.SideBuy, "closed above opening range high"
	case last.Close <= rng.Low && last.High <= rng.High:
		sig.Side, sig.Reason = entity.SideSell, "closed below opening range low"
	default:
		sig.Reason = "volume breakout inside opening range"
	}
	return sig
}

// Scan evaluates every ticker in request order. Tickers present in exclude
// (open positions or pending orders) are skipped.
func (sc *Scanner) Scan(tickers []string, opening, intraday *candles.Corpus, exclude map[string]bool) []entity.Signal {
	out := make([]entity.Signal, 0, len(tickers))
	for _, t := range tickers {
		if exclude[t] {
			continue
		}
		op, _ := opening.Get(t)
		rng, ok := OpeningRange(op)
		if !ok {
			out = append(out, entity.Signal{Ticker: t, Side: entity.SideNoTrade, Reason: "no opening range"})
			continue
		}
		is, _ := intraday.Get(t)
		sig := sc.Evaluate(t, rng, is)
		if sig.Side != entity.SideNoTrade {
			slog.Info("breakout signal", "ticker", t, "side", sig.Side, "close", sig.Close, "volume", sig.Volume)
		} else {
			slog.Debug("no trade", "ticker", t, "reason", sig.Reason)
		}
		out = append(out, sig)
	}
	return out
}
