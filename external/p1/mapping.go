package p1

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// LoadTeamMapping reads the supplier's CSV of its own team spellings to
// our canonical display names. The file has a header row followed by
// supplier_name,canonical_name records. The result feeds the alias
// table used during reconciliation.
func LoadTeamMapping(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mapping file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse mapping file %s: %w", path, err)
	}
	if len(records) == 0 {
		return map[string]string{}, nil
	}

	out := make(map[string]string, len(records)-1)
	for i, record := range records {
		if i == 0 && strings.EqualFold(strings.TrimSpace(record[0]), "supplier_name") {
			continue
		}
		from := strings.TrimSpace(record[0])
		to := strings.TrimSpace(record[1])
		if from == "" || to == "" {
			return nil, fmt.Errorf("mapping file %s line %d: empty name", path, i+1)
		}
		out[from] = to
	}

	return out, nil
}
