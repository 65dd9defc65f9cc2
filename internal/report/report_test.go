package report

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestWriteReport(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir())
	run := Run{
		Source:      "hellotickets",
		GeneratedAt: time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC),
		Counters:    Counters{Processed: 10, Updated: 3, Skipped: 6, Errors: 1},
		Unresolved: []UnresolvedItem{
			{RecordIndex: 4, HomeTeamName: "Unknown FC", AwayTeamName: "Mystery United", Reason: "team not resolved"},
		},
	}

	path, err := w.Write(run)
	if err != nil {
		t.Fatalf("write report: %v", err)
	}
	if !strings.Contains(path, "hellotickets") || !strings.HasSuffix(path, ".json") {
		t.Fatalf("unexpected report path %q", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report back: %v", err)
	}
	for _, want := range []string{`"generated_at"`, `"processed": 10`, `"team not resolved"`} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("report missing %s:\n%s", want, raw)
		}
	}
}

func TestWriteReportRequiresSource(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir())
	if _, err := w.Write(Run{}); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir())

	idx, err := w.LoadCheckpoint("p1-travel")
	if err != nil {
		t.Fatalf("load missing checkpoint: %v", err)
	}
	if idx != -1 {
		t.Fatalf("missing checkpoint index = %d, want -1", idx)
	}

	if err := w.SaveCheckpoint("p1-travel", 42); err != nil {
		t.Fatalf("save checkpoint: %v", err)
	}
	idx, err = w.LoadCheckpoint("p1-travel")
	if err != nil {
		t.Fatalf("load checkpoint: %v", err)
	}
	if idx != 42 {
		t.Fatalf("checkpoint index = %d, want 42", idx)
	}

	if err := w.ClearCheckpoint("p1-travel"); err != nil {
		t.Fatalf("clear checkpoint: %v", err)
	}
	idx, err = w.LoadCheckpoint("p1-travel")
	if err != nil {
		t.Fatalf("load cleared checkpoint: %v", err)
	}
	if idx != -1 {
		t.Fatalf("cleared checkpoint index = %d, want -1", idx)
	}
}
