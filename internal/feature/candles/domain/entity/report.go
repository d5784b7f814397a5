package entity

import "time"

// FetchStatus is the final outcome of one ticker in a collection run.
type FetchStatus string

const (
	StatusCollected FetchStatus = "collected" // series assembled and stored
	StatusNotFound  FetchStatus = "not_found" // ticker absent from the catalog
	StatusExhausted FetchStatus = "exhausted" // every attempt failed
	StatusMalformed FetchStatus = "malformed" // provider body did not conform
	StatusEmpty     FetchStatus = "empty"     // provider returned no rows
	StatusRejected  FetchStatus = "rejected"  // rows could not be converted
	StatusCancelled FetchStatus = "cancelled" // run aborted before this ticker finished
	StatusDuplicate FetchStatus = "duplicate" // ticker repeated in the request
)

// TickerOutcome records what happened to one requested ticker.
type TickerOutcome struct {
	Ticker   string      `json:"ticker"`
	Token    string      `json:"token,omitempty"`
	Status   FetchStatus `json:"status"`
	Attempts int         `json:"attempts"`
	Rows     int         `json:"rows,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// CollectReport lists a per-ticker outcome for every requested ticker, in request order.
type CollectReport struct {
	RunID      string          `json:"run_id"`
	Exchange   string          `json:"exchange"`
	Interval   string          `json:"interval"`
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Outcomes   []TickerOutcome `json:"outcomes"`
}

// Collected returns the number of tickers that made it into the corpus.
func (r *CollectReport) Collected() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusCollected {
			n++
		}
	}
	return n
}

// Failed returns the outcomes of tickers that were not collected.
func (r *CollectReport) Failed() []TickerOutcome {
	var out []TickerOutcome
	for _, o := range r.Outcomes {
		if o.Status != StatusCollected && o.Status != StatusDuplicate {
			out = append(out, o)
		}
	}
	return out
}

// Outcome returns the outcome recorded for ticker.
func (r *CollectReport) Outcome(ticker string) (TickerOutcome, bool) {
	for _, o := range r.Outcomes {
		if o.Ticker == ticker {
			return o, true
		}
	}
	return TickerOutcome{}, false
}
