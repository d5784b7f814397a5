// Package universe reads the ticker universe file used by the batch collector.
//
// 例:
//
//	duration_days: 365
//	interval: ONE_DAY
//	groups:
//	  orb: [RELIANCE, INFY]
//	  swing: [TCS, SBIN]
package universe

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"trademaster/internal/feature/candles/domain/entity"
)

// Universe is a named set of ticker groups plus the collection window.
type Universe struct {
	DurationDays int                 `yaml:"duration_days"`
	Interval     string              `yaml:"interval"`
	Groups       map[string][]string `yaml:"groups"`
}

// Load reads and validates a universe file.
func Load(path string) (*Universe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open universe: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Parse decodes a universe document. Unknown keys are rejected.
func Parse(r io.Reader) (*Universe, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var u Universe
	if err := dec.Decode(&u); err != nil {
		return nil, fmt.Errorf("decode universe: %w", err)
	}
	if u.DurationDays <= 0 {
		return nil, fmt.Errorf("duration_days must be positive, got %d", u.DurationDays)
	}
	if u.Interval == "" {
		u.Interval = string(entity.OneDay)
	}
	if _, err := entity.ParseInterval(u.Interval); err != nil {
		return nil, err
	}
	if len(u.Groups) == 0 {
		return nil, fmt.Errorf("universe has no groups")
	}
	return &u, nil
}

// GroupNames returns the group names in sorted order.
func (u *Universe) GroupNames() []string {
	out := make([]string, 0, len(u.Groups))
	for name := range u.Groups {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Tickers returns the tickers of the named group, or of every group when name is empty.
// Tickers listed in several groups appear once, at their first position.
func (u *Universe) Tickers(name string) ([]string, error) {
	names := []string{name}
	if name == "" {
		names = u.GroupNames()
	} else if _, ok := u.Groups[name]; !ok {
		return nil, fmt.Errorf("unknown group %q", name)
	}

	seen := make(map[string]struct{})
	var out []string
	for _, n := range names {
		for _, t := range u.Groups[n] {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out, nil
}
