// Package pivots loads per-symbol pivot levels and trading settings from an
// external configuration source. Data is read once at startup and treated as
// immutable for the lifetime of the run.
package pivots

import (
	"context"
	"sort"
)

// Pivot is a historically significant price level with the measured success
// probabilities of trades initiated at it.
type Pivot struct {
	Level          float64 `yaml:"level"`
	SupportProb    float64 `yaml:"support"`
	ResistanceProb float64 `yaml:"resistance"`
}

// Settings carries the per-symbol trade gating configuration.
type Settings struct {
	MinProbability float64 `yaml:"min_probability"`
	Enabled        bool    `yaml:"enabled"`
}

// Book is the ordered pivot set of one symbol. Order carries no meaning;
// every pivot is checked on each evaluation.
type Book []Pivot

// Source produces the pivot books and settings for all configured symbols.
type Source interface {
	Load(ctx context.Context) (map[string]Book, map[string]Settings, error)
}

// EnabledSymbols filters the settings table down to tradable symbols,
// sorted so startup logging and subscriptions stay deterministic.
func EnabledSymbols(settings map[string]Settings) []string {
	out := make([]string, 0, len(settings))
	for sym, s := range settings {
		if s.Enabled {
			out = append(out, sym)
		}
	}
	sort.Strings(out)
	return out
}
