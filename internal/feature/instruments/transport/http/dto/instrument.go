// Package dto はinstrumentsフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// ResolveQuery は GET /instruments/resolve のクエリです。
type ResolveQuery struct {
	Ticker   string `form:"ticker" binding:"required"`
	Exchange string `form:"exchange"`
}

// ResolveResponse は解決されたトークンです。
type ResolveResponse struct {
	Ticker   string `json:"ticker"`
	Exchange string `json:"exchange"`
	Token    string `json:"token"`
}

// EquityListResponse は取引所セグメントの現物株シンボル一覧です。
type EquityListResponse struct {
	Exchange string   `json:"exchange"`
	Symbols  []string `json:"symbols"`
}
