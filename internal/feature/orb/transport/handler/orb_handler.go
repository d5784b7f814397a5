package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trademaster/internal/api"
	candles "trademaster/internal/feature/candles/domain/entity"
	candlesuc "trademaster/internal/feature/candles/usecase"
	"trademaster/internal/feature/orb/domain/entity"
	"trademaster/internal/feature/orb/transport/http/dto"
)

// CorpusFinder は保存済みコーパスを参照します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type CorpusFinder interface {
	Corpus(id string) (*candles.Corpus, *candles.CollectReport, error)
}

// BreakoutScanner はORBシグナルを評価します。
type BreakoutScanner interface {
	Scan(tickers []string, opening, intraday *candles.Corpus, exclude map[string]bool) []entity.Signal
}

// ORBHandler はオープニングレンジブレイクアウトのスキャンを処理します。
type ORBHandler struct {
	corpora CorpusFinder
	scanner BreakoutScanner
}

// NewORBHandler は新しい ORBHandler を作成します。
func NewORBHandler(corpora CorpusFinder, scanner BreakoutScanner) *ORBHandler {
	return &ORBHandler{corpora: corpora, scanner: scanner}
}

// Scan は POST /corpora/:id/orb を処理します。発注は行わずシグナルのみ返します。
func (h *ORBHandler) Scan(c *gin.Context) {
	var req dto.ScanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	intraday, _, err := h.corpora.Corpus(c.Param("id"))
	if err != nil {
		c.JSON(statusOf(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	opening, _, err := h.corpora.Corpus(req.OpeningCorpusID)
	if err != nil {
		c.JSON(statusOf(err), api.ErrorResponse{Error: "opening corpus: " + err.Error()})
		return
	}

	tickers := req.Tickers
	if len(tickers) == 0 {
		tickers = intraday.Tickers()
	}
	exclude := make(map[string]bool, len(req.Exclude))
	for _, t := range req.Exclude {
		exclude[t] = true
	}

	res := dto.ScanResponse{Signals: h.scanner.Scan(tickers, opening, intraday, exclude)}
	for _, s := range res.Signals {
		switch s.Side {
		case entity.SideBuy:
			res.Buy++
		case entity.SideSell:
			res.Sell++
		}
	}
	c.JSON(http.StatusOK, res)
}

func statusOf(err error) int {
	if errors.Is(err, candlesuc.ErrCorpusNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
