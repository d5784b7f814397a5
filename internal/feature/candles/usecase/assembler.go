package usecase

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"trademaster/internal/feature/candles/domain/entity"
)

// timestampLayouts are tried in order when parsing a row timestamp.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTimestamp parses s and drops its zone, keeping the wall clock as UTC.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func parseField(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, s, err)
	}
	return v, nil
}

// Assemble converts raw provider rows into a time-ordered TickerSeries and
// computes the opening gap. Any unparsable field rejects the whole ticker.
func Assemble(ticker, interval string, rows []entity.RawRow) (*entity.TickerSeries, error) {
	candles := make([]entity.Candle, 0, len(rows))
	for i, r := range rows {
		ts, err := parseTimestamp(r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", ticker, i, err)
		}
		var c entity.Candle
		c.Time = ts
		fields := []struct {
			name string
			raw  string
			dst  *float64
		}{
			{"open", r.Open, &c.Open},
			{"high", r.High, &c.High},
			{"low", r.Low, &c.Low},
			{"close", r.Close, &c.Close},
			{"volume", r.Volume, &c.Volume},
		}
		for _, f := range fields {
			v, err := parseField(f.name, f.raw)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", ticker, i, err)
			}
			*f.dst = v
		}
		candles = append(candles, c)
	}

	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})

	return entity.NewTickerSeries(ticker, interval, candles), nil
}
