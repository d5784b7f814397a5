package httpsource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/tidwall/gjson"

	"trademaster/internal/feature/candles/adapters/httpsource/dto"
	"trademaster/internal/feature/candles/domain/entity"
	"trademaster/internal/feature/candles/usecase"
)

// rowWidth is the number of elements in one candle row: [ts, open, high, low, close, volume].
const rowWidth = 6

// Client はセッションのアクセストークンに紐づいたCandleSource実装です。
// セッションが更新されたら新しいClientを作り直します。
type Client struct {
	cfg         Config
	client      *http.Client
	accessToken string
}

// ClientがCandleSourceを実装していることをコンパイル時に検証します。
var _ usecase.CandleSource = (*Client)(nil)

// NewClient creates a Client that authenticates with accessToken.
func NewClient(cfg Config, client *http.Client, accessToken string) *Client {
	return &Client{cfg: cfg, client: client, accessToken: accessToken}
}

// GetCandles posts the request and classifies the reply.
// HTTP 5xx and transport failures are returned as errors so the collector retries them.
func (c *Client) GetCandles(ctx context.Context, r entity.FetchRequest) (entity.FetchResponse, error) {
	payload, err := json.Marshal(dto.CandleRequest{
		Exchange:    r.Exchange,
		SymbolToken: r.Token,
		Interval:    r.Interval,
		FromDate:    r.From.Format(usecase.WindowLayout),
		ToDate:      r.To.Format(usecase.WindowLayout),
	})
	if err != nil {
		return entity.FetchResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+c.cfg.CandlePath, bytes.NewReader(payload))
	if err != nil {
		return entity.FetchResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("X-PrivateKey", c.cfg.APIKey)

	res, err := c.client.Do(req)
	if err != nil {
		return entity.FetchResponse{}, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return entity.FetchResponse{}, fmt.Errorf("read candle response: %w", err)
	}

	if res.StatusCode >= 500 || res.StatusCode == http.StatusTooManyRequests {
		return entity.FetchResponse{}, fmt.Errorf("candle source http %d", res.StatusCode)
	}
	if res.StatusCode >= 400 && !gjson.ValidBytes(body) {
		return entity.FetchResponse{}, fmt.Errorf("candle source http %d", res.StatusCode)
	}

	return Classify(body), nil
}

// Classify decodes a reply body into a typed FetchResponse.
//
//	{"status": true,  "data": [[ts, o, h, l, c, v], ...]}        -> Success
//	{"status": true,  "data": null}                              -> Success (no rows)
//	{"status": false, "message": "...", "errorcode": "..."}      -> Failure
//	anything else                                                -> Malformed
func Classify(body []byte) entity.FetchResponse {
	if !gjson.ValidBytes(body) {
		return entity.Malformed("body is not valid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return entity.Malformed("body is not a JSON object")
	}

	status := root.Get("status")
	if status.Type != gjson.True && status.Type != gjson.False {
		return entity.Malformed("status field is missing or not a boolean")
	}
	if !status.Bool() {
		return entity.Failure(root.Get("message").String(), root.Get("errorcode").String())
	}

	data := root.Get("data")
	if !data.Exists() || data.Type == gjson.Null {
		return entity.Success(nil)
	}
	if !data.IsArray() {
		return entity.Malformed("data is not an array")
	}

	items := data.Array()
	rows := make([]entity.RawRow, 0, len(items))
	for i, item := range items {
		cols := item.Array()
		if !item.IsArray() || len(cols) < rowWidth {
			return entity.Malformed(fmt.Sprintf("row %d is not a %d-element array", i, rowWidth))
		}
		rows = append(rows, entity.RawRow{
			Timestamp: cols[0].String(),
			Open:      cols[1].String(),
			High:      cols[2].String(),
			Low:       cols[3].String(),
			Close:     cols[4].String(),
			Volume:    cols[5].String(),
		})
	}
	return entity.Success(rows)
}
