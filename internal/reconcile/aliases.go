package reconcile

import (
	"os"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
)

// AliasTable maps known supplier spellings of a club name to the
// canonical display name stored locally. Lookups fall back to the
// normalized form of the key, so "Bayer 04 Leverkusen" and
// "bayer leverkusen" hit the same entry.
type AliasTable struct {
	exact      map[string]string
	normalized map[string]string
}

// DefaultAliases covers feed quirks observed across suppliers. A
// deployment extends or overrides these via LoadAliases.
func DefaultAliases() *AliasTable {
	return NewAliasTable(map[string]string{
		"Bayer 04 Leverkusen":      "Bayer Leverkusen",
		"Sport-Club Freiburg":      "SC Freiburg",
		"Werden Bremen":            "Werder Bremen",
		"FC Bayern München":        "Bayern Munich",
		"Borussia Mönchengladbach": "Borussia Monchengladbach",
		"1. FSV Mainz 05":          "Mainz 05",
		"Wolverhampton Wanderers":  "Wolves",
	})
}

func NewAliasTable(entries map[string]string) *AliasTable {
	t := &AliasTable{
		exact:      make(map[string]string, len(entries)),
		normalized: make(map[string]string, len(entries)),
	}
	for from, to := range entries {
		t.exact[from] = to
		if key := Normalize(from); key != "" {
			t.normalized[key] = to
		}
	}

	return t
}

// LoadAliases reads a JSON object of supplier-name to canonical-name
// pairs and merges it over the defaults. File entries win on conflict.
func LoadAliases(path string) (*AliasTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read alias file %s", path)
	}

	var entries map[string]string
	if err := sonic.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrapf(err, "parse alias file %s", path)
	}

	merged := DefaultAliases()
	for from, to := range entries {
		merged.exact[from] = to
		if key := Normalize(from); key != "" {
			merged.normalized[key] = to
		}
	}

	return merged, nil
}

// Merge adds entries on top of the table. New entries win on conflict.
func (t *AliasTable) Merge(entries map[string]string) {
	if t == nil {
		return
	}
	for from, to := range entries {
		t.exact[from] = to
		if key := Normalize(from); key != "" {
			t.normalized[key] = to
		}
	}
}

// Canonical resolves a supplier spelling to its canonical display name.
func (t *AliasTable) Canonical(raw string) (string, bool) {
	if t == nil {
		return "", false
	}
	if to, ok := t.exact[raw]; ok {
		return to, true
	}
	if to, ok := t.normalized[Normalize(raw)]; ok {
		return to, true
	}

	return "", false
}
