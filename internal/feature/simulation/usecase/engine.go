// Package usecase implements the portfolio simulation: a step-indexed state machine
// over an assembled corpus, and a runner that drives it with a decision policy.
package usecase

import (
	"fmt"
	"log/slog"
	"math"

	candles "trademaster/internal/feature/candles/domain/entity"
	"trademaster/internal/feature/simulation/domain/entity"
)

// FeaturesPerTicker is the number of observation values per ticker:
// shares held, open, high, low, close, volume, gap.
const FeaturesPerTicker = 7

// Config holds simulation parameters.
type Config struct {
	InitialBalance    float64 // starting cash
	CostRate          float64 // transaction cost per trade as a fraction
	BankruptcyPenalty float64 // subtracted from the reward on the bankrupt step
	// CostAwareSizing sizes buys as floor(cash / (price*(1+cost))) so cash never goes negative.
	// When false a buy takes floor(cash/price) shares and the cost can overdraw cash.
	CostAwareSizing bool
}

// DefaultConfig returns the standard parameters.
func DefaultConfig() Config {
	return Config{
		InitialBalance:    100000,
		CostRate:          0.001,
		BankruptcyPenalty: 1000,
	}
}

// StepResult is the outcome of one Step.
type StepResult struct {
	Observation []float64
	// Reward is the net P&L level (portfolio value minus initial balance) at the new step,
	// less the bankruptcy penalty on a bankrupt step. It is not a per-step increment.
	Reward float64
	// Delta is Reward minus the previous step's Reward; summing Delta over an episode
	// yields the final Reward.
	Delta     float64
	Value     float64 // cash plus positions valued at the new step's close
	Done      bool
	Truncated bool
	Bankrupt  bool
}

// Engine is a single-episode portfolio simulator. It is not safe for concurrent use;
// run concurrent episodes on separate Engines.
type Engine struct {
	cfg      Config
	tickers  []string
	series   []*candles.TickerSeries
	maxSteps int

	state      entity.PortfolioState
	lastReward float64
	done       bool
}

// NewEngine creates an engine over every series in corpus. Tickers are laid out in
// sorted order. The episode length is the shortest series length minus one.
func NewEngine(corpus *candles.Corpus, cfg Config) (*Engine, error) {
	if corpus == nil || corpus.Len() == 0 {
		return nil, ErrInsufficientData
	}
	tickers := corpus.Tickers()
	series := make([]*candles.TickerSeries, len(tickers))
	minLen := math.MaxInt
	for i, t := range tickers {
		s, _ := corpus.Get(t)
		series[i] = s
		minLen = min(minLen, s.Len())
	}
	if minLen < 2 {
		return nil, ErrInsufficientData
	}
	if cfg.InitialBalance <= 0 {
		return nil, fmt.Errorf("initial balance must be positive, got %v", cfg.InitialBalance)
	}

	e := &Engine{cfg: cfg, tickers: tickers, series: series, maxSteps: minLen - 1}
	e.Reset()
	slog.Debug("simulation engine ready", "tickers", len(tickers), "max_steps", e.maxSteps)
	return e, nil
}

// Tickers returns the fixed ticker order used for actions and observations.
func (e *Engine) Tickers() []string {
	return append([]string(nil), e.tickers...)
}

// MaxSteps returns the episode length.
func (e *Engine) MaxSteps() int {
	return e.maxSteps
}

// Done reports whether the episode has terminated.
func (e *Engine) Done() bool {
	return e.done
}

// State returns a copy of the portfolio state.
func (e *Engine) State() entity.PortfolioState {
	return e.state.Clone()
}

// Reset starts a new episode and returns the initial observation.
func (e *Engine) Reset() []float64 {
	e.state = entity.NewPortfolioState(e.cfg.InitialBalance, e.tickers)
	e.lastReward = 0
	e.done = false
	return e.observation()
}

// Step applies one action per ticker at the current close, advances the step index
// and scores the new state.
func (e *Engine) Step(actions []entity.Action) (StepResult, error) {
	if e.done {
		return StepResult{}, ErrEpisodeDone
	}
	if len(actions) != len(e.tickers) {
		return StepResult{}, fmt.Errorf("%w: got %d, want %d", ErrActionCount, len(actions), len(e.tickers))
	}
	for i, a := range actions {
		if !a.Valid() {
			return StepResult{}, fmt.Errorf("%w: %d for %s", ErrInvalidAction, int(a), e.tickers[i])
		}
	}

	for i, a := range actions {
		ticker := e.tickers[i]
		price := e.series[i].Candles[e.state.Step].Close
		switch a {
		case entity.Buy:
			e.buy(ticker, price)
		case entity.Sell:
			e.sell(ticker, price)
		}
	}

	e.state.Step++

	res := StepResult{Value: e.value()}
	res.Reward = res.Value - e.cfg.InitialBalance
	if e.state.Step >= e.maxSteps {
		res.Done = true
	}
	if e.state.Cash <= 0 {
		res.Done = true
		res.Bankrupt = true
		res.Reward -= e.cfg.BankruptcyPenalty
		slog.Info("episode ended in bankruptcy", "step", e.state.Step, "cash", e.state.Cash)
	}
	res.Delta = res.Reward - e.lastReward
	res.Observation = e.observation()

	e.lastReward = res.Reward
	e.done = res.Done
	return res, nil
}

func (e *Engine) buy(ticker string, price float64) {
	if price <= 0 || e.state.Cash <= 0 {
		return
	}
	unit := price
	if e.cfg.CostAwareSizing {
		unit = price * (1 + e.cfg.CostRate)
	}
	n := int64(math.Floor(e.state.Cash / unit))
	if n <= 0 {
		return
	}
	e.state.Cash -= float64(n) * price * (1 + e.cfg.CostRate)
	e.state.Shares[ticker] += n
}

func (e *Engine) sell(ticker string, price float64) {
	n := e.state.Shares[ticker]
	if n <= 0 {
		return
	}
	e.state.Cash += float64(n) * price * (1 - e.cfg.CostRate)
	e.state.Shares[ticker] = 0
}

// value marks positions to the close at the current step.
func (e *Engine) value() float64 {
	v := e.state.Cash
	for i, t := range e.tickers {
		v += float64(e.state.Shares[t]) * e.series[i].Candles[e.state.Step].Close
	}
	return v
}

// observation lays out [cash, then per ticker: shares, open, high, low, close, volume, gap].
func (e *Engine) observation() []float64 {
	obs := make([]float64, 0, 1+FeaturesPerTicker*len(e.tickers))
	obs = append(obs, e.state.Cash)
	for i, t := range e.tickers {
		s := e.series[i]
		c := s.Candles[e.state.Step]
		obs = append(obs, float64(e.state.Shares[t]), c.Open, c.High, c.Low, c.Close, c.Volume, s.Gap[e.state.Step])
	}
	return obs
}
