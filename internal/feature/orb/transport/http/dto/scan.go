// Package dto はorbフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "trademaster/internal/feature/orb/domain/entity"

// ScanReq は POST /corpora/:id/orb のリクエストボディです。
// パスのIDは当日の足、OpeningCorpusIDは09:20までの始値レンジ用コーパスを指します。
type ScanReq struct {
	OpeningCorpusID string   `json:"opening_corpus_id" binding:"required"`
	Tickers         []string `json:"tickers"` // 空の場合は当日コーパスの全銘柄
	Exclude         []string `json:"exclude"`
}

// ScanResponse はスキャン結果です。
type ScanResponse struct {
	Signals []entity.Signal `json:"signals"`
	Buy     int             `json:"buy"`
	Sell    int             `json:"sell"`
}
