// Package entity defines the simulation domain models.
package entity

import (
	"fmt"
	"strings"
)

// Action is one discrete trading choice for one ticker.
type Action int

const (
	Buy  Action = 0 // spend all available cash on whole shares
	Sell Action = 1 // liquidate the entire position
	Hold Action = 2 // no change
)

// Valid reports whether a is one of Buy, Sell or Hold.
func (a Action) Valid() bool {
	return a == Buy || a == Sell || a == Hold
}

func (a Action) String() string {
	switch a {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	case Hold:
		return "hold"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseAction parses "buy", "sell" or "hold" (case-insensitive).
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	case "hold":
		return Hold, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// MarshalText encodes the action by name so traces read "buy" instead of 0.
func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid action %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText accepts the names understood by ParseAction.
func (a *Action) UnmarshalText(b []byte) error {
	v, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
