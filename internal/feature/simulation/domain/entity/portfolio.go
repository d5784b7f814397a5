package entity

// PortfolioState is the mutable state of one episode.
// Cash may go negative for one step before the episode ends as bankrupt.
type PortfolioState struct {
	Cash   float64
	Shares map[string]int64
	Step   int
}

// NewPortfolioState returns the initial state: all cash, no positions, step 0.
func NewPortfolioState(cash float64, tickers []string) PortfolioState {
	shares := make(map[string]int64, len(tickers))
	for _, t := range tickers {
		shares[t] = 0
	}
	return PortfolioState{Cash: cash, Shares: shares}
}

// Clone returns a deep copy.
func (p PortfolioState) Clone() PortfolioState {
	shares := make(map[string]int64, len(p.Shares))
	for k, v := range p.Shares {
		shares[k] = v
	}
	return PortfolioState{Cash: p.Cash, Shares: shares, Step: p.Step}
}
