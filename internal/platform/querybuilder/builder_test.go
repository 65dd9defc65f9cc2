package querybuilder

import (
	"testing"
	"time"
)

func TestSelect_WithWindowConditions(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 3, 13, 18, 30, 0, 0, time.UTC)
	to := from.Add(48 * time.Hour)

	query, args, err := Select("*").From("fixtures").
		Where(
			Eq("league_public_id", "bundesliga"),
			Gte("kickoff_at", from),
			Lte("kickoff_at", to),
			IsNull("deleted_at"),
		).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}

	want := "SELECT * FROM fixtures WHERE league_public_id = $1 AND kickoff_at >= $2 AND kickoff_at <= $3 AND deleted_at IS NULL ORDER BY kickoff_at, id"
	if query != want {
		t.Fatalf("unexpected query:\n got=%s\nwant=%s", query, want)
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
}

func TestUpdate_GuardedWrite(t *testing.T) {
	t.Parallel()

	query, args, err := Update("fixtures").
		Set("home_team_public_id", "team-b").
		Set("away_team_public_id", "team-a").
		SetExpr("updated_at", "NOW()").
		Where(
			Eq("public_id", "fx-1"),
			Eq("home_team_public_id", "team-a"),
			Eq("away_team_public_id", "team-b"),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}

	want := "UPDATE fixtures SET home_team_public_id = $1, away_team_public_id = $2, updated_at = NOW() WHERE public_id = $3 AND home_team_public_id = $4 AND away_team_public_id = $5"
	if query != want {
		t.Fatalf("unexpected query:\n got=%s\nwant=%s", query, want)
	}
	if len(args) != 5 {
		t.Fatalf("expected 5 args, got %d", len(args))
	}
}

func TestInsertModel_UsesDBTags(t *testing.T) {
	t.Parallel()

	row := struct {
		PublicID string `db:"public_id"`
		Price    int    `db:"price"`
		Skipped  string `db:"-"`
	}{PublicID: "offer-1", Price: 120, Skipped: "x"}

	query, args, err := InsertModel("offers", row, "ON CONFLICT DO NOTHING")
	if err != nil {
		t.Fatalf("InsertModel error: %v", err)
	}

	want := "INSERT INTO offers (public_id, price) VALUES ($1, $2) ON CONFLICT DO NOTHING"
	if query != want {
		t.Fatalf("unexpected query:\n got=%s\nwant=%s", query, want)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(args))
	}
}

func TestIn_EmptyValuesNeverMatches(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id").From("teams").
		Where(In("public_id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}
	if query != "SELECT id FROM teams WHERE 1=0" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %d", len(args))
	}
}
