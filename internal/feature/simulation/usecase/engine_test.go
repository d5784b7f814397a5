package usecase_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	candles "trademaster/internal/feature/candles/domain/entity"
	"trademaster/internal/feature/simulation/domain/entity"
	"trademaster/internal/feature/simulation/usecase"
)

// series builds a daily series whose open equals the previous close.
func series(ticker string, closes ...float64) *candles.TickerSeries {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cs := make([]candles.Candle, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		cs[i] = candles.Candle{Time: base.AddDate(0, 0, i), Open: open, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	return candles.NewTickerSeries(ticker, "ONE_DAY", cs)
}

func corpusOf(ss ...*candles.TickerSeries) *candles.Corpus {
	c := candles.NewCorpus("test")
	for _, s := range ss {
		c.Add(s)
	}
	return c
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	_, err := usecase.NewEngine(candles.NewCorpus("empty"), usecase.DefaultConfig())
	assert.ErrorIs(t, err, usecase.ErrInsufficientData)

	_, err = usecase.NewEngine(corpusOf(series("A", 100)), usecase.DefaultConfig())
	assert.ErrorIs(t, err, usecase.ErrInsufficientData)

	cfg := usecase.DefaultConfig()
	cfg.InitialBalance = 0
	_, err = usecase.NewEngine(corpusOf(series("A", 1, 2)), cfg)
	assert.Error(t, err)

	e, err := usecase.NewEngine(corpusOf(series("B", 1, 2, 3, 4), series("A", 1, 2, 3)), usecase.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, e.MaxSteps(), "shortest series length minus one")
	assert.Equal(t, []string{"A", "B"}, e.Tickers())
}

func TestEngine_Reset_Observation(t *testing.T) {
	t.Parallel()

	e, err := usecase.NewEngine(corpusOf(series("B", 10, 11), series("A", 100, 110, 120)), usecase.DefaultConfig())
	require.NoError(t, err)

	obs := e.Reset()
	require.Len(t, obs, 1+2*usecase.FeaturesPerTicker)
	assert.Equal(t, 100000.0, obs[0])
	// A: shares, open, high, low, close, volume, gap
	assert.Equal(t, []float64{0, 100, 101, 99, 100, 1000}, obs[1:7])
	assert.True(t, math.IsNaN(obs[7]))
	// B
	assert.Equal(t, []float64{0, 10, 11, 9, 10, 1000}, obs[8:14])

	st := e.State()
	assert.Equal(t, 0, st.Step)
	assert.Equal(t, map[string]int64{"A": 0, "B": 0}, st.Shares)
}

// TestEngine_LiteralBuyOverdraws はコスト込みの買いで現金がマイナスになり破産することを検証します。
func TestEngine_LiteralBuyOverdraws(t *testing.T) {
	t.Parallel()

	e, err := usecase.NewEngine(corpusOf(series("A", 100, 110, 120)), usecase.DefaultConfig())
	require.NoError(t, err)
	e.Reset()

	res, err := e.Step([]entity.Action{entity.Buy})
	require.NoError(t, err)

	st := e.State()
	assert.Equal(t, int64(1000), st.Shares["A"], "floor(100000/100)")
	assert.InDelta(t, -100.0, st.Cash, 1e-9, "1000*100*1.001 = 100100 overdraws by the cost")
	assert.True(t, res.Bankrupt)
	assert.True(t, res.Done)
	assert.False(t, res.Truncated)
	// value = -100 + 1000*110 = 109900; level 9900; minus the 1000 penalty
	assert.InDelta(t, 109900.0, res.Value, 1e-9)
	assert.InDelta(t, 8900.0, res.Reward, 1e-9)
	assert.InDelta(t, 8900.0, res.Delta, 1e-9)

	_, err = e.Step([]entity.Action{entity.Hold})
	assert.ErrorIs(t, err, usecase.ErrEpisodeDone)
	assert.Equal(t, 1, e.State().Step, "rejected step does not mutate state")
}

// TestEngine_CostAwareBuyThenSell は1銘柄で買い→売りの2ステップの報酬を数値で検証します。
func TestEngine_CostAwareBuyThenSell(t *testing.T) {
	t.Parallel()

	cfg := usecase.DefaultConfig()
	cfg.CostAwareSizing = true
	e, err := usecase.NewEngine(corpusOf(series("A", 100, 110, 120)), cfg)
	require.NoError(t, err)
	e.Reset()

	r1, err := e.Step([]entity.Action{entity.Buy})
	require.NoError(t, err)
	st := e.State()
	assert.Equal(t, int64(999), st.Shares["A"], "floor(100000/100.1)")
	assert.InDelta(t, 0.1, st.Cash, 1e-6)
	assert.False(t, r1.Done)
	assert.False(t, r1.Bankrupt)
	assert.InDelta(t, 9890.1, r1.Reward, 1e-6)
	assert.Equal(t, float64(999), r1.Observation[1], "shares in observation")

	r2, err := e.Step([]entity.Action{entity.Sell})
	require.NoError(t, err)
	st = e.State()
	assert.Equal(t, int64(0), st.Shares["A"])
	// 0.1 + 999*110*0.999
	assert.InDelta(t, 109780.21, st.Cash, 1e-6)
	assert.True(t, r2.Done, "step index reached max steps")
	assert.False(t, r2.Bankrupt)
	assert.InDelta(t, 9780.21, r2.Reward, 1e-6)
	assert.InDelta(t, 9780.21-9890.1, r2.Delta, 1e-6)
	assert.InDelta(t, r2.Reward, r1.Delta+r2.Delta, 1e-9, "deltas sum to the final level")
}

func TestEngine_SellWithoutPositionAndHold(t *testing.T) {
	t.Parallel()

	e, err := usecase.NewEngine(corpusOf(series("A", 100, 90, 80)), usecase.DefaultConfig())
	require.NoError(t, err)
	e.Reset()

	res, err := e.Step([]entity.Action{entity.Sell})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Reward)
	assert.InDelta(t, 100000.0, e.State().Cash, 1e-9)

	res, err = e.Step([]entity.Action{entity.Hold})
	require.NoError(t, err)
	assert.True(t, res.Done)
	assert.Equal(t, 0.0, res.Reward)
}

func TestEngine_Step_Validation(t *testing.T) {
	t.Parallel()

	e, err := usecase.NewEngine(corpusOf(series("A", 1, 2, 3), series("B", 1, 2, 3)), usecase.DefaultConfig())
	require.NoError(t, err)

	_, err = e.Step([]entity.Action{entity.Buy})
	assert.ErrorIs(t, err, usecase.ErrActionCount)

	_, err = e.Step([]entity.Action{entity.Buy, entity.Action(7)})
	assert.ErrorIs(t, err, usecase.ErrInvalidAction)

	st := e.State()
	assert.Equal(t, 0, st.Step)
	assert.Equal(t, 100000.0, st.Cash, "invalid input leaves state untouched")
}

func TestEngine_MultiTickerFixedOrder(t *testing.T) {
	t.Parallel()

	// A を先に買うので B を買う現金は残らない
	e, err := usecase.NewEngine(corpusOf(series("B", 50, 50, 50), series("A", 100, 100, 100)), usecase.DefaultConfig())
	require.NoError(t, err)
	e.Reset()

	res, err := e.Step([]entity.Action{entity.Buy, entity.Buy})
	require.NoError(t, err)
	st := e.State()
	assert.Equal(t, int64(1000), st.Shares["A"])
	assert.Equal(t, int64(0), st.Shares["B"], "cash is already negative when B is evaluated")
	assert.True(t, res.Bankrupt)
}

func TestEngine_ResetAfterDone(t *testing.T) {
	t.Parallel()

	e, err := usecase.NewEngine(corpusOf(series("A", 1, 2)), usecase.DefaultConfig())
	require.NoError(t, err)
	e.Reset()
	res, err := e.Step([]entity.Action{entity.Hold})
	require.NoError(t, err)
	require.True(t, res.Done)

	obs := e.Reset()
	assert.False(t, e.Done())
	assert.Equal(t, 100000.0, obs[0])
	_, err = e.Step([]entity.Action{entity.Hold})
	assert.NoError(t, err)
}
