package usecase

import "errors"

var (
	// ErrEpisodeDone is returned by Step once the episode has terminated.
	ErrEpisodeDone = errors.New("episode is done; call Reset")
	// ErrActionCount is returned when the number of actions differs from the number of tickers.
	ErrActionCount = errors.New("action count does not match ticker count")
	// ErrInvalidAction is returned for an action outside Buy/Sell/Hold.
	ErrInvalidAction = errors.New("invalid action")
	// ErrInsufficientData is returned when the corpus cannot support a single step.
	ErrInsufficientData = errors.New("corpus needs at least two candles per ticker")
)
