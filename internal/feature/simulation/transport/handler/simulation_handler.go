package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"trademaster/internal/api"
	candles "trademaster/internal/feature/candles/domain/entity"
	candlesuc "trademaster/internal/feature/candles/usecase"
	"trademaster/internal/feature/simulation/domain/entity"
	"trademaster/internal/feature/simulation/transport/http/dto"
	"trademaster/internal/feature/simulation/usecase"
)

// CorpusFinder は保存済みコーパスを参照します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type CorpusFinder interface {
	Corpus(id string) (*candles.Corpus, *candles.CollectReport, error)
}

// EpisodeRunner はポリシーごとに独立したエピソードを実行します。
type EpisodeRunner interface {
	RunAll(ctx context.Context, corpus *candles.Corpus, policies []usecase.Policy) ([]*entity.Episode, error)
}

// SimulationHandler はスクリプト化された行動列によるシミュレーションを処理します。
type SimulationHandler struct {
	corpora CorpusFinder
	runner  EpisodeRunner
}

// NewSimulationHandler は新しい SimulationHandler を作成します。
func NewSimulationHandler(corpora CorpusFinder, runner EpisodeRunner) *SimulationHandler {
	return &SimulationHandler{corpora: corpora, runner: runner}
}

// Simulate は POST /simulations を処理します。
// スクリプトが尽きた後は全銘柄Holdでエピソード終了まで進めます。
func (h *SimulationHandler) Simulate(c *gin.Context) {
	var req dto.SimulateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("simulation validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	corpus, _, err := h.corpora.Corpus(req.CorpusID)
	if err != nil {
		c.JSON(statusOf(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	policies := make([]usecase.Policy, 0, len(req.Scripts))
	for _, script := range req.Scripts {
		policies = append(policies, &usecase.ScriptedPolicy{Script: script, Tickers: corpus.Len()})
	}

	eps, err := h.runner.RunAll(c.Request.Context(), corpus, policies)
	if err != nil {
		c.JSON(statusOf(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.NewSimulateResponse(req.CorpusID, eps))
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, candlesuc.ErrCorpusNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrActionCount), errors.Is(err, usecase.ErrInvalidAction):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
