// Package report writes the JSON audit artifacts produced by every bulk
// sync run: a per-run report under data/<source>/ and a resume
// checkpoint so an interrupted run can skip completed work.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
)

// Run is one bulk-sync execution summary.
type Run struct {
	Source         string           `json:"source"`
	GeneratedAt    time.Time        `json:"generated_at"`
	Counters       Counters         `json:"counters"`
	Unresolved     []UnresolvedItem `json:"unresolved,omitempty"`
	DateMismatches []DateMismatch   `json:"date_mismatches,omitempty"`
}

type Counters struct {
	Processed int `json:"processed"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Reversed  int `json:"reversed"`
	Errors    int `json:"errors"`
}

// UnresolvedItem is a feed record that matched no local entity.
type UnresolvedItem struct {
	RecordIndex     int    `json:"record_index"`
	SupplierEventID string `json:"supplier_event_id,omitempty"`
	HomeTeamName    string `json:"home_team_name"`
	AwayTeamName    string `json:"away_team_name"`
	Reason          string `json:"reason"`
}

// DateMismatch is a team-pair match whose kickoff fell outside the
// tolerance window. Surfaced for manual review, never auto-applied.
type DateMismatch struct {
	SupplierEventID string  `json:"supplier_event_id,omitempty"`
	FixtureID       string  `json:"fixture_id"`
	DeltaHours      float64 `json:"delta_hours"`
	Reversed        bool    `json:"reversed"`
}

type checkpoint struct {
	Source    string    `json:"source"`
	LastIndex int       `json:"last_index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Writer persists reports and checkpoints under one base directory.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "data"
	}
	return &Writer{dir: dir}
}

// Write stores the run report and returns the file path.
func (w *Writer) Write(run Run) (string, error) {
	if run.Source == "" {
		return "", errors.New("report source is required")
	}
	if run.GeneratedAt.IsZero() {
		run.GeneratedAt = time.Now().UTC()
	}

	dir := filepath.Join(w.dir, run.Source)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create report dir %s", dir)
	}

	raw, err := sonic.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encode report")
	}

	path := filepath.Join(dir, fmt.Sprintf("report-%s.json", run.GeneratedAt.Format("20060102T150405Z")))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", errors.Wrapf(err, "write report %s", path)
	}

	return path, nil
}

// LoadCheckpoint returns the last processed record index for a source,
// or -1 when no checkpoint exists.
func (w *Writer) LoadCheckpoint(source string) (int, error) {
	raw, err := os.ReadFile(w.checkpointPath(source))
	if err != nil {
		if os.IsNotExist(err) {
			return -1, nil
		}
		return -1, errors.Wrapf(err, "read checkpoint for %s", source)
	}

	var cp checkpoint
	if err := sonic.Unmarshal(raw, &cp); err != nil {
		return -1, errors.Wrapf(err, "parse checkpoint for %s", source)
	}

	return cp.LastIndex, nil
}

// SaveCheckpoint records the last processed record index. The write
// goes through a temp file so a crash never leaves a torn checkpoint.
func (w *Writer) SaveCheckpoint(source string, lastIndex int) error {
	dir := filepath.Join(w.dir, source)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create report dir %s", dir)
	}

	raw, err := sonic.Marshal(checkpoint{Source: source, LastIndex: lastIndex, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return errors.Wrap(err, "encode checkpoint")
	}

	path := w.checkpointPath(source)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return errors.Wrapf(err, "write checkpoint %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "replace checkpoint %s", path)
	}

	return nil
}

// ClearCheckpoint removes the checkpoint after a run completes, so the
// next run starts from the top.
func (w *Writer) ClearCheckpoint(source string) error {
	err := os.Remove(w.checkpointPath(source))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove checkpoint for %s", source)
	}
	return nil
}

func (w *Writer) checkpointPath(source string) string {
	return filepath.Join(w.dir, source, "checkpoint.json")
}
