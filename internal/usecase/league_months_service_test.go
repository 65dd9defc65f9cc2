package usecase

import (
	"testing"
	"time"

	"github.com/ticketagent/marketplace/internal/infrastructure/repository/memory"
	"github.com/ticketagent/marketplace/internal/platform/logging"
)

func TestLeagueMonthsService_RecomputeAll(t *testing.T) {
	leagueRepo := memory.NewLeagueRepository(memory.SeedLeagues())
	fixtureRepo := memory.NewFixtureRepository(memory.SeedFixtures())

	svc := NewLeagueMonthsService(leagueRepo, fixtureRepo, logging.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC) }

	updated, err := svc.RecomputeAll(t.Context())
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if updated != 3 {
		t.Fatalf("unexpected updated count: %d", updated)
	}

	pl, _, _ := leagueRepo.GetByID(t.Context(), memory.LeagueIDPremierLeague)
	if len(pl.Months) != 1 || pl.Months[0] != "2026-10" {
		t.Fatalf("unexpected premier league months: %v", pl.Months)
	}
	il, _, _ := leagueRepo.GetByID(t.Context(), memory.LeagueIDLigatHaAl)
	if len(il.Months) != 1 || il.Months[0] != "2026-11" {
		t.Fatalf("unexpected ligat haal months: %v", il.Months)
	}
}

func TestLeagueMonthsService_RecomputeAll_SecondRunIsNoop(t *testing.T) {
	leagueRepo := memory.NewLeagueRepository(memory.SeedLeagues())
	fixtureRepo := memory.NewFixtureRepository(memory.SeedFixtures())

	svc := NewLeagueMonthsService(leagueRepo, fixtureRepo, logging.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC) }

	if _, err := svc.RecomputeAll(t.Context()); err != nil {
		t.Fatalf("first recompute: %v", err)
	}
	updated, err := svc.RecomputeAll(t.Context())
	if err != nil {
		t.Fatalf("second recompute: %v", err)
	}
	if updated != 0 {
		t.Fatalf("second run must change nothing, updated=%d", updated)
	}
}

func TestLeagueMonthsService_RecomputeAll_PastFixturesExcluded(t *testing.T) {
	leagueRepo := memory.NewLeagueRepository(memory.SeedLeagues())
	fixtureRepo := memory.NewFixtureRepository(memory.SeedFixtures())

	svc := NewLeagueMonthsService(leagueRepo, fixtureRepo, logging.NewNop())
	// Everything seeded has kicked off by now.
	svc.now = func() time.Time { return time.Date(2027, 7, 1, 0, 0, 0, 0, time.UTC) }

	if _, err := svc.RecomputeAll(t.Context()); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	pl, _, _ := leagueRepo.GetByID(t.Context(), memory.LeagueIDPremierLeague)
	if len(pl.Months) != 0 {
		t.Fatalf("finished fixtures must not produce months: %v", pl.Months)
	}
}
