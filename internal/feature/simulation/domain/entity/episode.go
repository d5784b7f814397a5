package entity

import "time"

// StepRecord is one transition of an episode trace.
type StepRecord struct {
	Step     int      `json:"step"` // step index after the transition
	Actions  []Action `json:"actions"`
	Reward   float64  `json:"reward"`
	Delta    float64  `json:"delta"`
	Value    float64  `json:"value"`
	Cash     float64  `json:"cash"`
	Done     bool     `json:"done"`
	Bankrupt bool     `json:"bankrupt"`
}

// Episode is the trace of one run from reset to terminal state.
type Episode struct {
	ID         string         `json:"id"`
	Tickers    []string       `json:"tickers"`
	MaxSteps   int            `json:"max_steps"`
	Steps      []StepRecord   `json:"steps"`
	Final      PortfolioState `json:"-"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}

// FinalReward returns the reward of the last step, which is the net P&L level at the end.
func (e *Episode) FinalReward() float64 {
	if len(e.Steps) == 0 {
		return 0
	}
	return e.Steps[len(e.Steps)-1].Reward
}

// Bankrupt reports whether the episode ended by bankruptcy.
func (e *Episode) Bankrupt() bool {
	return len(e.Steps) > 0 && e.Steps[len(e.Steps)-1].Bankrupt
}
