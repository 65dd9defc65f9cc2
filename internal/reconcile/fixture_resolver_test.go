package reconcile

import (
	"testing"
	"time"

	"github.com/ticketagent/marketplace/internal/domain/fixture"
)

func TestFixtureResolverStraightMatch(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	r := NewFixtureResolver([]fixture.Fixture{
		{ID: "fx-1", HomeTeamID: "team-a", AwayTeamID: "team-b", KickoffAt: kickoff},
	})

	match, miss := r.Resolve("team-a", "team-b", kickoff.Add(2*time.Hour), 24*time.Hour)
	if match == nil {
		t.Fatalf("expected a match, got miss %+v", miss)
	}
	if match.Fixture.ID != "fx-1" || match.Reversed {
		t.Fatalf("match = %+v, want fx-1 non-reversed", match)
	}
}

func TestFixtureResolverReversedMatch(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, 10, 24, 20, 0, 0, 0, time.UTC)
	// Stored with Barcelona at home; the feed says Real Madrid hosts.
	r := NewFixtureResolver([]fixture.Fixture{
		{ID: "fx-clasico", HomeTeamID: "team-barcelona", AwayTeamID: "team-real-madrid", KickoffAt: kickoff},
	})

	match, _ := r.Resolve("team-real-madrid", "team-barcelona", kickoff, 24*time.Hour)
	if match == nil {
		t.Fatal("expected a match")
	}
	if !match.Reversed {
		t.Fatal("expected reversed = true")
	}
}

func TestFixtureResolverToleranceBoundary(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	window := 24 * time.Hour
	r := NewFixtureResolver([]fixture.Fixture{
		{ID: "fx-1", HomeTeamID: "team-a", AwayTeamID: "team-b", KickoffAt: kickoff},
	})

	inside := kickoff.Add(window - time.Minute)
	if match, _ := r.Resolve("team-a", "team-b", inside, window); match == nil {
		t.Fatal("one minute inside the window must match")
	}

	outside := kickoff.Add(window + time.Minute)
	match, miss := r.Resolve("team-a", "team-b", outside, window)
	if match != nil {
		t.Fatalf("one minute outside the window must not match, got %+v", match)
	}
	if miss == nil || miss.Fixture.ID != "fx-1" {
		t.Fatalf("expected a near-miss report for fx-1, got %+v", miss)
	}
	if miss.Delta != window+time.Minute {
		t.Fatalf("miss delta = %v, want %v", miss.Delta, window+time.Minute)
	}
}

func TestFixtureResolverPicksClosestKickoff(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 5, 2, 15, 0, 0, 0, time.UTC)
	r := NewFixtureResolver([]fixture.Fixture{
		{ID: "fx-far", HomeTeamID: "team-a", AwayTeamID: "team-b", KickoffAt: base.Add(-20 * time.Hour)},
		{ID: "fx-near", HomeTeamID: "team-a", AwayTeamID: "team-b", KickoffAt: base.Add(3 * time.Hour)},
	})

	match, _ := r.Resolve("team-a", "team-b", base, 24*time.Hour)
	if match == nil || match.Fixture.ID != "fx-near" {
		t.Fatalf("match = %+v, want fx-near", match)
	}
}

func TestFixtureResolverNoTeamPair(t *testing.T) {
	t.Parallel()

	r := NewFixtureResolver([]fixture.Fixture{
		{ID: "fx-1", HomeTeamID: "team-a", AwayTeamID: "team-b", KickoffAt: time.Now()},
	})

	match, miss := r.Resolve("team-x", "team-y", time.Now(), 24*time.Hour)
	if match != nil || miss != nil {
		t.Fatalf("expected nothing, got match=%+v miss=%+v", match, miss)
	}
}
