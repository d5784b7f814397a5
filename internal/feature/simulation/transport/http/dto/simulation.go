// Package dto はsimulationフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "trademaster/internal/feature/simulation/domain/entity"

// SimulateReq は POST /simulations のリクエストボディです。
// Scriptsの各要素が1エピソード分の行動列で、各ステップは銘柄順（ソート済み）の行動ベクトルです。
type SimulateReq struct {
	CorpusID string              `json:"corpus_id" binding:"required"`
	Scripts  [][][]entity.Action `json:"scripts" binding:"required,min=1"`
}

// EpisodeSummary は1エピソードの結果です。
type EpisodeSummary struct {
	*entity.Episode
	FinalReward float64 `json:"final_reward"`
	FinalCash   float64 `json:"final_cash"`
	Bankrupt    bool    `json:"bankrupt"`
}

// SimulateResponse はスクリプトと同じ順序のエピソード結果です。
type SimulateResponse struct {
	CorpusID string           `json:"corpus_id"`
	Episodes []EpisodeSummary `json:"episodes"`
}

// NewSimulateResponse converts episode traces.
func NewSimulateResponse(corpusID string, eps []*entity.Episode) SimulateResponse {
	out := SimulateResponse{CorpusID: corpusID, Episodes: make([]EpisodeSummary, 0, len(eps))}
	for _, ep := range eps {
		out.Episodes = append(out.Episodes, EpisodeSummary{
			Episode:     ep,
			FinalReward: ep.FinalReward(),
			FinalCash:   ep.Final.Cash,
			Bankrupt:    ep.Bankrupt(),
		})
	}
	return out
}
