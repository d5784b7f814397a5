package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"trademaster/internal/api"
	"trademaster/internal/feature/candles/domain/entity"
	"trademaster/internal/feature/candles/transport/http/dto"
	"trademaster/internal/feature/candles/usecase"
	instruments "trademaster/internal/feature/instruments/usecase"
)

// CollectionUsecase はコーパス収集と参照のユースケースです。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type CollectionUsecase interface {
	Collect(ctx context.Context, tickers []string, durationDays int, interval string) (*entity.Corpus, *entity.CollectReport, error)
	Corpus(id string) (*entity.Corpus, *entity.CollectReport, error)
}

// TrainingUsecase は学習用フレームを構築します。
type TrainingUsecase interface {
	BuildTrainingFrame(ctx context.Context, tickers []string) (*entity.TrainingFrame, *entity.CollectReport, error)
}

// CandlesHandler はローソク足コーパスに関するHTTPリクエストを処理します。
type CandlesHandler struct {
	collection CollectionUsecase
	training   TrainingUsecase
}

// NewCandlesHandler は新しい CandlesHandler を作成します。
func NewCandlesHandler(collection CollectionUsecase, training TrainingUsecase) *CandlesHandler {
	return &CandlesHandler{collection: collection, training: training}
}

// Collect は POST /corpora を処理します。
// 一部の銘柄が失敗しても201を返し、失敗内容はレポートに含めます。
func (h *CandlesHandler) Collect(c *gin.Context) {
	var req dto.CollectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("collect validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	corpus, report, err := h.collection.Collect(c.Request.Context(), req.Tickers, req.DurationDays, req.Interval)
	if err != nil {
		status := statusOf(err)
		if corpus != nil {
			// 中断されたが部分的なコーパスは保存済み
			slog.Warn("collection interrupted", "corpus_id", corpus.ID, "error", err)
			c.JSON(status, gin.H{"error": err.Error(), "corpus": dto.NewCorpusResponse(corpus, report)})
			return
		}
		c.JSON(status, api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.NewCorpusResponse(corpus, report))
}

// Get は GET /corpora/:id を処理します。
func (h *CandlesHandler) Get(c *gin.Context) {
	corpus, report, err := h.collection.Corpus(c.Param("id"))
	if err != nil {
		c.JSON(statusOf(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.NewCorpusResponse(corpus, report))
}

// Series は GET /corpora/:id/series/:ticker を処理します。
func (h *CandlesHandler) Series(c *gin.Context) {
	corpus, _, err := h.collection.Corpus(c.Param("id"))
	if err != nil {
		c.JSON(statusOf(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	s, ok := corpus.Get(c.Param("ticker"))
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "ticker not in corpus"})
		return
	}
	c.JSON(http.StatusOK, dto.NewSeriesResponse(s))
}

// TrainingFrame は POST /training-frame を処理します。
func (h *CandlesHandler) TrainingFrame(c *gin.Context) {
	var req dto.TrainingFrameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("training frame validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	frame, report, err := h.training.BuildTrainingFrame(c.Request.Context(), req.Tickers)
	if err != nil && frame == nil {
		c.JSON(statusOf(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		slog.Warn("training frame built from partial corpus", "error", err)
	}
	c.JSON(http.StatusOK, dto.NewTrainingFrameResponse(frame, report))
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidCollectRequest):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrCorpusNotFound):
		return http.StatusNotFound
	case errors.Is(err, instruments.ErrEmptyCatalog):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
