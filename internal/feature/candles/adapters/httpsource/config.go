// Package httpsource implements CandleSource over a JSON-over-HTTP historical-data endpoint.
package httpsource

import (
	"os"
	"time"
)

// DefaultCandlePath is used when BROKER_CANDLE_PATH is not set.
const DefaultCandlePath = "/rest/secure/angelbroking/historical/v1/getCandleData"

// Config holds configuration for the candle endpoint.
type Config struct {
	BaseURL    string        // e.g. "https://apiconnect.angelbroking.com"
	CandlePath string        // path of the historical candle endpoint
	APIKey     string        // application key sent with every request
	Timeout    time.Duration // HTTP request timeout
}

// LoadConfig loads candle endpoint configuration from environment variables.
func LoadConfig() Config {
	path := os.Getenv("BROKER_CANDLE_PATH")
	if path == "" {
		path = DefaultCandlePath
	}
	timeout := 10 * time.Second
	if v, err := time.ParseDuration(os.Getenv("BROKER_TIMEOUT")); err == nil && v > 0 {
		timeout = v
	}
	return Config{
		BaseURL:    os.Getenv("BROKER_BASE_URL"),
		CandlePath: path,
		APIKey:     os.Getenv("BROKER_API_KEY"),
		Timeout:    timeout,
	}
}
