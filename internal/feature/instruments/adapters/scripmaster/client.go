package scripmaster

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"trademaster/internal/feature/instruments/adapters/scripmaster/dto"
	"trademaster/internal/feature/instruments/domain/entity"
	"trademaster/internal/feature/instruments/usecase"
)

// Client はスクリップマスター(銘柄カタログ)JSONを取得するCatalogRepository実装です。
type Client struct {
	cfg    Config
	client *http.Client
}

// ClientがCatalogRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.CatalogRepository = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// ListInstruments はカタログ全体をダウンロードしてドメインエンティティに変換します。
func (c *Client) ListInstruments(ctx context.Context) ([]entity.Instrument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("scripmaster http %d", res.StatusCode)
	}

	var body []dto.Scrip
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode scripmaster: %w", err)
	}

	out := make([]entity.Instrument, 0, len(body))
	for _, s := range body {
		// トークンが無いエントリは解決に使えないので捨てる
		if s.Token == "" {
			continue
		}
		out = append(out, entity.Instrument{
			Token:    s.Token.String(),
			Symbol:   s.Symbol,
			Name:     s.Name,
			Exchange: s.ExchSeg,
		})
	}
	slog.Info("loaded instruments", "count", len(out), "url", c.cfg.URL)
	return out, nil
}
