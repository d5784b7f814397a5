package handler

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trademaster/internal/feature/candles/domain/entity"
	"trademaster/internal/feature/candles/usecase"
	instruments "trademaster/internal/feature/instruments/usecase"
)

// mockCollectionUsecase はCollectionUsecaseのモック実装です。
type mockCollectionUsecase struct {
	CollectFunc func(ctx context.Context, tickers []string, days int, interval string) (*entity.Corpus, *entity.CollectReport, error)
	CorpusFunc  func(id string) (*entity.Corpus, *entity.CollectReport, error)
}

func (m *mockCollectionUsecase) Collect(ctx context.Context, tickers []string, days int, interval string) (*entity.Corpus, *entity.CollectReport, error) {
	return m.CollectFunc(ctx, tickers, days, interval)
}

func (m *mockCollectionUsecase) Corpus(id string) (*entity.Corpus, *entity.CollectReport, error) {
	return m.CorpusFunc(id)
}

// mockTrainingUsecase はTrainingUsecaseのモック実装です。
type mockTrainingUsecase struct {
	BuildFunc func(ctx context.Context, tickers []string) (*entity.TrainingFrame, *entity.CollectReport, error)
}

func (m *mockTrainingUsecase) BuildTrainingFrame(ctx context.Context, tickers []string) (*entity.TrainingFrame, *entity.CollectReport, error) {
	return m.BuildFunc(ctx, tickers)
}

func sampleCorpus() *entity.Corpus {
	c := entity.NewCorpus("run-1")
	t0 := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	c.Add(entity.NewTickerSeries("INFY", "ONE_DAY", []entity.Candle{
		{Time: t0, Open: 100, High: 110, Low: 95, Close: 100, Volume: 1000},
		{Time: t0.AddDate(0, 0, 1), Open: 150, High: 160, Low: 140, Close: 155, Volume: 1200},
	}))
	return c
}

func sampleReport() *entity.CollectReport {
	return &entity.CollectReport{RunID: "run-1", Outcomes: []entity.TickerOutcome{
		{Ticker: "INFY", Status: entity.StatusCollected, Attempts: 1, Rows: 2},
		{Ticker: "NOPE", Status: entity.StatusNotFound},
	}}
}

func newCandlesRouter(h *CandlesHandler) *gin.Engine {
	r := gin.New()
	r.POST("/corpora", h.Collect)
	r.GET("/corpora/:id", h.Get)
	r.GET("/corpora/:id/series/:ticker", h.Series)
	r.POST("/training-frame", h.TrainingFrame)
	return r
}

func TestCandlesHandler_Collect(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		collect        func(ctx context.Context, tickers []string, days int, interval string) (*entity.Corpus, *entity.CollectReport, error)
		expectedStatus int
		contains       []string
	}{
		{
			name: "success: returns corpus summary",
			body: `{"tickers":["INFY","NOPE"],"duration_days":30,"interval":"ONE_DAY"}`,
			collect: func(_ context.Context, tickers []string, days int, interval string) (*entity.Corpus, *entity.CollectReport, error) {
				assert.Equal(t, []string{"INFY", "NOPE"}, tickers)
				assert.Equal(t, 30, days)
				assert.Equal(t, "ONE_DAY", interval)
				return sampleCorpus(), sampleReport(), nil
			},
			expectedStatus: http.StatusCreated,
			contains:       []string{`"id":"run-1"`, `"missing":["NOPE"]`, `"status":"not_found"`},
		},
		{
			name:           "error: missing tickers",
			body:           `{"duration_days":30,"interval":"ONE_DAY"}`,
			expectedStatus: http.StatusBadRequest,
			contains:       []string{"invalid request"},
		},
		{
			name:           "error: malformed json",
			body:           `{"tickers":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "error: invalid interval",
			body: `{"tickers":["INFY"],"duration_days":30,"interval":"WEEKLY"}`,
			collect: func(context.Context, []string, int, string) (*entity.Corpus, *entity.CollectReport, error) {
				return nil, nil, usecase.ErrInvalidCollectRequest
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "error: empty catalog",
			body: `{"tickers":["INFY"],"duration_days":30,"interval":"ONE_DAY"}`,
			collect: func(context.Context, []string, int, string) (*entity.Corpus, *entity.CollectReport, error) {
				return nil, nil, instruments.ErrEmptyCatalog
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name: "error: cancelled keeps partial corpus",
			body: `{"tickers":["INFY"],"duration_days":30,"interval":"ONE_DAY"}`,
			collect: func(context.Context, []string, int, string) (*entity.Corpus, *entity.CollectReport, error) {
				return sampleCorpus(), sampleReport(), context.Canceled
			},
			expectedStatus: http.StatusGatewayTimeout,
			contains:       []string{`"corpus":{`, `"id":"run-1"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockCollectionUsecase{CollectFunc: tt.collect}
			r := newCandlesRouter(NewCandlesHandler(uc, nil))

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/corpora", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			for _, s := range tt.contains {
				assert.Contains(t, w.Body.String(), s)
			}
		})
	}
}

func TestCandlesHandler_GetAndSeries(t *testing.T) {
	gin.SetMode(gin.TestMode)

	uc := &mockCollectionUsecase{CorpusFunc: func(id string) (*entity.Corpus, *entity.CollectReport, error) {
		if id != "run-1" {
			return nil, nil, usecase.ErrCorpusNotFound
		}
		return sampleCorpus(), sampleReport(), nil
	}}
	r := newCandlesRouter(NewCandlesHandler(uc, nil))

	do := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
		return w
	}

	w := do("/corpora/run-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tickers":["INFY"]`)

	assert.Equal(t, http.StatusNotFound, do("/corpora/other").Code)
	assert.Equal(t, http.StatusNotFound, do("/corpora/run-1/series/TCS").Code)

	w = do("/corpora/run-1/series/INFY")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"ticker":"INFY","interval":"ONE_DAY",
		"candles":[
			{"time":"2024-06-10 00:00:00","open":100,"high":110,"low":95,"close":100,"volume":1000,"gap":null},
			{"time":"2024-06-11 00:00:00","open":150,"high":160,"low":140,"close":155,"volume":1200,"gap":50}
		]}`, w.Body.String())
}

func TestCandlesHandler_TrainingFrame(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tr := &mockTrainingUsecase{BuildFunc: func(_ context.Context, tickers []string) (*entity.TrainingFrame, *entity.CollectReport, error) {
		assert.Equal(t, []string{"INFY"}, tickers)
		return &entity.TrainingFrame{
			Columns:  entity.FeatureColumns,
			Tickers:  []string{"INFY"},
			Features: [][]float64{{100, 110, 95, 100, 1000, math.NaN()}},
			Labels:   []int{0},
		}, &entity.CollectReport{RunID: "r"}, nil
	}}
	r := newCandlesRouter(NewCandlesHandler(nil, tr))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/training-frame", strings.NewReader(`{"tickers":["INFY"]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"features":[[100,110,95,100,1000,null]]`)
	assert.Contains(t, w.Body.String(), `"labels":[0]`)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/training-frame", strings.NewReader(`{"tickers":[]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
