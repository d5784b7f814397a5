// Package dto defines the wire shape of scrip-master entries.
package dto

import "encoding/json"

// Scrip is one element of the scrip-master JSON array.
// Tokens are published as strings but older dumps use numbers, hence json.Number.
type Scrip struct {
	Token          json.Number `json:"token"`
	Symbol         string      `json:"symbol"`
	Name           string      `json:"name"`
	Expiry         string      `json:"expiry"`
	Strike         string      `json:"strike"`
	LotSize        string      `json:"lotsize"`
	InstrumentType string      `json:"instrumenttype"`
	ExchSeg        string      `json:"exch_seg"`
	TickSize       string      `json:"tick_size"`
}
