package pivots

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileSource reads pivot books and settings from a local YAML document,
// mirroring the spreadsheet layout for offline and paper runs.
type FileSource struct {
	Path string
}

type fileSymbol struct {
	MinProbability float64 `yaml:"min_probability"`
	Enabled        bool    `yaml:"enabled"`
	Pivots         []Pivot `yaml:"pivots"`
}

type fileDoc struct {
	Symbols map[string]fileSymbol `yaml:"symbols"`
}

// Load parses the YAML file and returns the pivot and settings tables.
func (f FileSource) Load(_ context.Context) (map[string]Book, map[string]Settings, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("read pivots file: %w", err)
	}
	var doc fileDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("decode pivots yaml: %w", err)
	}
	if len(doc.Symbols) == 0 {
		return nil, nil, fmt.Errorf("pivots file %s defines no symbols", f.Path)
	}

	books := make(map[string]Book, len(doc.Symbols))
	settings := make(map[string]Settings, len(doc.Symbols))
	for sym, entry := range doc.Symbols {
		if err := validateSymbol(sym, entry.MinProbability, entry.Pivots); err != nil {
			return nil, nil, err
		}
		books[sym] = Book(entry.Pivots)
		settings[sym] = Settings{MinProbability: entry.MinProbability, Enabled: entry.Enabled}
	}
	return books, settings, nil
}

func validateSymbol(sym string, minProb float64, book []Pivot) error {
	if minProb < 0 || minProb > 1 {
		return fmt.Errorf("symbol %s: min_probability %g outside [0, 1]", sym, minProb)
	}
	for i, p := range book {
		if p.Level <= 0 {
			return fmt.Errorf("symbol %s: pivot %d has non-positive level %g", sym, i, p.Level)
		}
		if p.SupportProb < 0 || p.SupportProb > 1 || p.ResistanceProb < 0 || p.ResistanceProb > 1 {
			return fmt.Errorf("symbol %s: pivot %d has probability outside [0, 1]", sym, i)
		}
	}
	return nil
}
