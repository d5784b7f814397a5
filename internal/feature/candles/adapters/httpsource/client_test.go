package httpsource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trademaster/internal/feature/candles/adapters/httpsource/dto"
	"trademaster/internal/feature/candles/domain/entity"
)

func testRequest() entity.FetchRequest {
	return entity.FetchRequest{
		Exchange: "NSE",
		Token:    "2885",
		Interval: "ONE_DAY",
		From:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC),
	}
}

func TestClient_GetCandles_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/candles", r.URL.Path)
		assert.Equal(t, "Bearer jwt-abc", r.Header.Get("Authorization"))
		assert.Equal(t, "key-1", r.Header.Get("X-PrivateKey"))

		var body dto.CandleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, dto.CandleRequest{
			Exchange:    "NSE",
			SymbolToken: "2885",
			Interval:    "ONE_DAY",
			FromDate:    "2024-01-01 00:00",
			ToDate:      "2024-01-31 23:59",
		}, body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": true,
			"message": "SUCCESS",
			"errorcode": "",
			"data": [
				["2024-01-01T00:00:00+05:30", 2580.5, 2600, 2570.25, 2595, 1234567],
				["2024-01-02T00:00:00+05:30", "2595", "2610", "2590", "2605.75", "987654"]
			]
		}`))
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL, CandlePath: "/candles", APIKey: "key-1"}, server.Client(), "jwt-abc")
	resp, err := c.GetCandles(context.Background(), testRequest())

	require.NoError(t, err)
	require.Equal(t, entity.ResponseSuccess, resp.Kind)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, entity.RawRow{
		Timestamp: "2024-01-01T00:00:00+05:30",
		Open:      "2580.5",
		High:      "2600",
		Low:       "2570.25",
		Close:     "2595",
		Volume:    "1234567",
	}, resp.Rows[0])
	assert.Equal(t, "2605.75", resp.Rows[1].Close)
}

func TestClient_GetCandles_HTTPErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
		want    entity.ResponseKind
	}{
		{name: "server error", status: http.StatusBadGateway, body: "bad gateway", wantErr: true},
		{name: "too many requests", status: http.StatusTooManyRequests, body: `{"status":false}`, wantErr: true},
		{name: "4xx without json", status: http.StatusForbidden, body: "<html>forbidden</html>", wantErr: true},
		{
			name:   "4xx with failure envelope",
			status: http.StatusUnauthorized,
			body:   `{"status":false,"message":"Invalid session. Please login","errorcode":"AG8001","data":null}`,
			want:   entity.ResponseFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewClient(Config{BaseURL: server.URL}, server.Client(), "t")
			resp, err := c.GetCandles(context.Background(), testRequest())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Kind)
			assert.True(t, resp.IsSessionExpired())
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		wantKind entity.ResponseKind
		wantRows int
		wantMsg  string
	}{
		{name: "not json", body: `not json`, wantKind: entity.ResponseMalformed},
		{name: "array root", body: `[1,2]`, wantKind: entity.ResponseMalformed},
		{name: "missing status", body: `{"data":[]}`, wantKind: entity.ResponseMalformed},
		{name: "string status", body: `{"status":"ok","data":[]}`, wantKind: entity.ResponseMalformed},
		{name: "failure", body: `{"status":false,"message":"Something Went Wrong","errorcode":"AB1004"}`, wantKind: entity.ResponseFailure, wantMsg: "Something Went Wrong"},
		{name: "null data", body: `{"status":true,"data":null}`, wantKind: entity.ResponseSuccess},
		{name: "no data key", body: `{"status":true}`, wantKind: entity.ResponseSuccess},
		{name: "empty data", body: `{"status":true,"data":[]}`, wantKind: entity.ResponseSuccess},
		{name: "object data", body: `{"status":true,"data":{"rows":[]}}`, wantKind: entity.ResponseMalformed},
		{name: "short row", body: `{"status":true,"data":[["2024-01-01",1,2,3]]}`, wantKind: entity.ResponseMalformed},
		{name: "scalar row", body: `{"status":true,"data":[5]}`, wantKind: entity.ResponseMalformed},
		{name: "rows", body: `{"status":true,"data":[["2024-01-01",1,2,0.5,1.5,100]]}`, wantKind: entity.ResponseSuccess, wantRows: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Classify([]byte(tt.body))
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Len(t, got.Rows, tt.wantRows)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, got.Message)
			}
			if tt.wantKind == entity.ResponseMalformed {
				assert.NotEmpty(t, got.Detail)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("BROKER_BASE_URL", "https://broker.example")
	t.Setenv("BROKER_API_KEY", "k")
	t.Setenv("BROKER_CANDLE_PATH", "")
	t.Setenv("BROKER_TIMEOUT", "3s")

	cfg := LoadConfig()
	assert.Equal(t, "https://broker.example", cfg.BaseURL)
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, DefaultCandlePath, cfg.CandlePath)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
}
