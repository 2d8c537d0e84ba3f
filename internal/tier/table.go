package tier

import (
	"errors"
	"fmt"
	"os"
	"sync"

	sigsyaml "sigs.k8s.io/yaml"
)

// ErrConfig is returned (wrapped) when the tier configuration file is missing
// or malformed. Callers that only need cap lookups may keep serving with an
// unloaded table; lookups then report "not found" and payouts are uncapped.
var ErrConfig = errors.New("invalid tier configuration")

// Table maps asset categories to payout tiers. It is read-mostly: Load
// replaces the whole mapping under a writer lock, lookups take a reader lock.
type Table struct {
	mu         sync.RWMutex
	loaded     bool
	byCategory map[string]Definition
	defs       []Definition
}

// NewTable creates an empty, unloaded Table.
func NewTable() *Table {
	return &Table{byCategory: map[string]Definition{}}
}

// Load reads and parses the tier configuration file at path and replaces the
// current mapping wholesale. It is safe to call again to reload; on error the
// previous mapping is kept.
func (t *Table) Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrConfig, path, err)
	}

	var file File
	if err := sigsyaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", ErrConfig, path, err)
	}
	if len(file.Tiers) == 0 {
		return fmt.Errorf("%w: %s defines no tiers", ErrConfig, path)
	}

	byCategory := make(map[string]Definition)
	for i, def := range file.Tiers {
		if def.Name == "" {
			return fmt.Errorf("%w: tier %d has no name", ErrConfig, i)
		}
		if def.PayoutCap < 0 {
			return fmt.Errorf("%w: tier %q has a negative payout cap", ErrConfig, def.Name)
		}
		// Duplicate categories across tiers resolve last-wins, so a reload
		// with the same file always produces the same mapping.
		for _, cat := range def.Categories {
			byCategory[cat] = def
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.byCategory = byCategory
	t.defs = file.Tiers
	t.loaded = true
	return nil
}

// IsLoaded reports whether a configuration has been loaded successfully.
func (t *Table) IsLoaded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loaded
}

// MaxPayout returns the payout cap for a category. The second return value is
// false when the category belongs to no tier; uncatalogued categories are a
// normal outcome, not an error.
func (t *Table) MaxPayout(category string) (int64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	def, ok := t.byCategory[category]
	if !ok {
		return 0, false
	}
	return def.PayoutCap, true
}

// TierName returns the name of the tier a category belongs to, if any.
func (t *Table) TierName(category string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	def, ok := t.byCategory[category]
	if !ok {
		return "", false
	}
	return def.Name, true
}

// Definitions returns the loaded tier definitions in file order. The result
// is a snapshot; mutating it does not touch the table.
func (t *Table) Definitions() []Definition {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Definition, len(t.defs))
	for i, def := range t.defs {
		def.Categories = append([]string(nil), def.Categories...)
		out[i] = def
	}
	return out
}
