package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trademaster/internal/feature/instruments/domain/entity"
)

func testCatalog() []entity.Instrument {
	return []entity.Instrument{
		{Token: "500325", Symbol: "RELIANCE", Name: "RELIANCE", Exchange: "BSE"},
		{Token: "2885", Symbol: "RELIANCE-EQ", Name: "RELIANCE", Exchange: "NSE"},
		{Token: "99926000", Symbol: "Nifty 50", Name: "NIFTY", Exchange: "NSE"},
		{Token: "35001", Symbol: "RELIANCE24JUNFUT", Name: "RELIANCE", Exchange: "NFO"},
		{Token: "1594", Symbol: "INFY-EQ", Name: "INFY", Exchange: "NSE"},
		{Token: "3045", Symbol: "SBIN-EQ", Name: "SBIN", Exchange: "NSE"},
		{Token: "7777", Symbol: "M&M-EQ", Name: "MAHINDRA", Exchange: "NSE"},
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ticker    string
		exchange  string
		wantToken string
		wantOK    bool
	}{
		{name: "plain ticker matches -EQ symbol", ticker: "RELIANCE", exchange: "NSE", wantToken: "2885", wantOK: true},
		{name: "suffixed ticker matches same token", ticker: "RELIANCE-EQ", exchange: "NSE", wantToken: "2885", wantOK: true},
		{name: "match on name", ticker: "MAHINDRA", exchange: "NSE", wantToken: "7777", wantOK: true},
		{name: "match on symbol with special chars", ticker: "M&M", exchange: "NSE", wantToken: "7777", wantOK: true},
		{name: "segment must match", ticker: "INFY", exchange: "BSE", wantOK: false},
		{name: "non equity symbols never match", ticker: "NIFTY", exchange: "NSE", wantOK: false},
		{name: "unknown ticker", ticker: "DOESNOTEXIST", exchange: "NSE", wantOK: false},
		{name: "empty ticker", ticker: "", exchange: "NSE", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tok, ok := Resolve(tt.ticker, testCatalog(), tt.exchange)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantToken, tok)
		})
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	t.Parallel()

	catalog := []entity.Instrument{
		{Token: "1", Symbol: "ABC-EQ", Name: "XYZ", Exchange: "NSE"},
		{Token: "2", Symbol: "XYZ-EQ", Name: "XYZ", Exchange: "NSE"},
	}

	tok, ok := Resolve("XYZ", catalog, "NSE")
	assert.True(t, ok)
	assert.Equal(t, "1", tok, "name match on the earlier entry wins over symbol match on a later one")
}

func TestResolve_EmptyCatalog(t *testing.T) {
	t.Parallel()

	tok, ok := Resolve("RELIANCE", nil, "NSE")
	assert.False(t, ok)
	assert.Empty(t, tok)
}

func TestIndex_AgreesWithResolve(t *testing.T) {
	t.Parallel()

	catalog := append(testCatalog(),
		entity.Instrument{Token: "1", Symbol: "ABC-EQ", Name: "XYZ", Exchange: "NSE"},
		entity.Instrument{Token: "2", Symbol: "XYZ-EQ", Name: "XYZ", Exchange: "NSE"},
		entity.Instrument{Token: "3", Symbol: "SBIN-EQ", Name: "SBI", Exchange: "NSE"},
	)
	idx := NewIndex(catalog, "NSE")
	assert.Equal(t, "NSE", idx.Exchange())

	for _, ticker := range []string{"RELIANCE", "RELIANCE-EQ", "MAHINDRA", "M&M", "XYZ", "XYZ-EQ", "SBIN", "SBI", "NIFTY", "INFY", "nope", ""} {
		wantTok, wantOK := Resolve(ticker, catalog, "NSE")
		gotTok, gotOK := idx.Lookup(ticker)
		assert.Equal(t, wantOK, gotOK, "ticker %q", ticker)
		assert.Equal(t, wantTok, gotTok, "ticker %q", ticker)
	}
}
