package scripmaster

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_ListInstruments_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"token": "2885", "symbol": "RELIANCE-EQ", "name": "RELIANCE", "expiry": "", "strike": "-1.000000", "lotsize": "1", "instrumenttype": "", "exch_seg": "NSE", "tick_size": "5.000000"},
			{"token": 500325, "symbol": "RELIANCE", "name": "RELIANCE", "exch_seg": "BSE"},
			{"symbol": "BROKEN", "name": "BROKEN", "exch_seg": "NSE"}
		]`))
	}))
	defer server.Close()

	c := NewClient(Config{URL: server.URL, Timeout: time.Second}, server.Client())

	list, err := c.ListInstruments(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 instruments, got %d", len(list))
	}
	if list[0].Token != "2885" || list[0].Symbol != "RELIANCE-EQ" || list[0].Exchange != "NSE" {
		t.Errorf("unexpected first instrument: %+v", list[0])
	}
	if list[1].Token != "500325" {
		t.Errorf("expected numeric token to be stringified, got %q", list[1].Token)
	}
}

func TestClient_ListInstruments_HTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient(Config{URL: server.URL}, server.Client())

	_, err := c.ListInstruments(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "scripmaster http 503") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClient_ListInstruments_InvalidJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	}))
	defer server.Close()

	c := NewClient(Config{URL: server.URL}, server.Client())

	_, err := c.ListInstruments(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "decode scripmaster") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfig_Default(t *testing.T) {
	t.Setenv("INSTRUMENT_CATALOG_URL", "")

	cfg := LoadConfig()
	if cfg.URL != DefaultURL {
		t.Errorf("expected default URL, got %q", cfg.URL)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Timeout)
	}
}
