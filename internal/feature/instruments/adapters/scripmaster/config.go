// Package scripmaster loads the broker's instrument catalog ("scrip master") over HTTP.
package scripmaster

import (
	"os"
	"time"
)

// DefaultURL is the public location of the scrip-master JSON file.
const DefaultURL = "https://margincalculator.angelbroking.com/OpenAPI_File/files/OpenAPIScripMaster.json"

// Config holds configuration for the scrip-master client.
type Config struct {
	URL     string        // Location of the catalog JSON array
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads scrip-master configuration from environment variables.
func LoadConfig() Config {
	url := os.Getenv("INSTRUMENT_CATALOG_URL")
	if url == "" {
		url = DefaultURL
	}
	return Config{
		URL:     url,
		Timeout: 10 * time.Second,
	}
}
