// Package dto holds wire payloads of the candle endpoint.
package dto

// CandleRequest is the JSON body of a historical candle request.
type CandleRequest struct {
	Exchange    string `json:"exchange"`
	SymbolToken string `json:"symboltoken"`
	Interval    string `json:"interval"`
	FromDate    string `json:"fromdate"` // "2006-01-02 15:04"
	ToDate      string `json:"todate"`
}
