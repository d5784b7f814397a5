// Package entity defines opening-range-breakout signals.
package entity

// Side is the direction of a breakout signal.
type Side string

const (
	SideBuy     Side = "BUY"
	SideSell    Side = "SELL"
	SideNoTrade Side = "NO_TRADE"
)

// OpeningRange is the high/low of a ticker's opening window.
type OpeningRange struct {
	High float64 `json:"high"`
	Low  float64 `json:"low"`
}

// Signal is the scan result for one ticker. It is advisory; no order is placed.
type Signal struct {
	Ticker    string       `json:"ticker"`
	Side      Side         `json:"side"`
	Range     OpeningRange `json:"range"`
	Close     float64      `json:"close"`
	Volume    float64      `json:"volume"`
	AvgVolume *float64     `json:"avg_volume"` // nil when there is not enough history
	Reason    string       `json:"reason"`
}
