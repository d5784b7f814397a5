package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"trademaster/internal/api"
	"trademaster/internal/feature/instruments/transport/http/dto"
	"trademaster/internal/feature/instruments/usecase"
)

// CatalogUsecase は銘柄カタログの参照ユースケースです。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type CatalogUsecase interface {
	Resolve(ctx context.Context, ticker, exchange string) (string, error)
	EquitySymbols(ctx context.Context, exchange string) ([]string, error)
	Reset()
}

// InstrumentsHandler は銘柄カタログに関するHTTPリクエストを処理します。
type InstrumentsHandler struct {
	uc CatalogUsecase
}

// NewInstrumentsHandler は新しい InstrumentsHandler を作成します。
func NewInstrumentsHandler(uc CatalogUsecase) *InstrumentsHandler {
	return &InstrumentsHandler{uc: uc}
}

// Resolve はティッカーをブローカーのトークンに変換します。
// 見つからない場合は404、カタログが空の場合は503を返します。
func (h *InstrumentsHandler) Resolve(c *gin.Context) {
	var q dto.ResolveQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "ticker is required"})
		return
	}
	if q.Exchange == "" {
		q.Exchange = usecase.DefaultExchange
	}

	token, err := h.uc.Resolve(c.Request.Context(), q.Ticker, q.Exchange)
	if err != nil {
		c.JSON(statusOf(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ResolveResponse{Ticker: q.Ticker, Exchange: q.Exchange, Token: token})
}

// Equities は取引所セグメントの現物株シンボル一覧を返します。
func (h *InstrumentsHandler) Equities(c *gin.Context) {
	exchange := c.DefaultQuery("exchange", usecase.DefaultExchange)
	symbols, err := h.uc.EquitySymbols(c.Request.Context(), exchange)
	if err != nil {
		c.JSON(statusOf(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.EquityListResponse{Exchange: exchange, Symbols: symbols})
}

// Reload は読み込み済みカタログを破棄します。次の参照で再取得されます。
func (h *InstrumentsHandler) Reload(c *gin.Context) {
	h.uc.Reset()
	slog.Info("instrument catalog reset", "remote_addr", c.ClientIP())
	c.Status(http.StatusNoContent)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrTokenNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrEmptyCatalog):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
