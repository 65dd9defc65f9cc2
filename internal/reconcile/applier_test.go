package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ticketagent/marketplace/internal/domain/fixture"
)

type stubFixtureWriter struct {
	takenSlugs map[string]string
	failGuard  bool

	writes int
	last   fixture.Fixture
}

func (w *stubFixtureWriter) SlugTaken(_ context.Context, slug, excludeID string) (bool, error) {
	owner, ok := w.takenSlugs[slug]
	return ok && owner != excludeID, nil
}

func (w *stubFixtureWriter) UpdateGuarded(_ context.Context, _, next fixture.Fixture) (bool, error) {
	if w.failGuard {
		return false, nil
	}
	w.writes++
	w.last = next
	return true, nil
}

func baseFixture() fixture.Fixture {
	return fixture.Fixture{
		ID:         "fx-1",
		LeagueID:   "league-bundesliga",
		HomeTeamID: "team-leverkusen",
		AwayTeamID: "team-bayern",
		VenueID:    "venue-bayarena",
		KickoffAt:  time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC),
		Slug:       "bundesliga-bayer-leverkusen-vs-bayern-munich-2026-03-14",
	}
}

func TestApplierIdempotent(t *testing.T) {
	t.Parallel()

	w := &stubFixtureWriter{}
	a := NewApplier(w, nil)
	f := baseFixture()

	externalID := int64(987)
	patch := FixturePatch{ExternalID: &externalID}

	res, err := a.ApplyFixtureUpdate(context.Background(), f, patch)
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if !res.Updated || w.writes != 1 {
		t.Fatalf("first apply: updated=%v writes=%d, want one write", res.Updated, w.writes)
	}
	if w.last.ExternalID != 987 {
		t.Fatalf("external id = %d, want 987", w.last.ExternalID)
	}

	res, err = a.ApplyFixtureUpdate(context.Background(), w.last, patch)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if res.Updated || w.writes != 1 {
		t.Fatalf("second apply: updated=%v writes=%d, want no-op", res.Updated, w.writes)
	}
}

func TestApplierKickoffWithinToleranceIgnored(t *testing.T) {
	t.Parallel()

	w := &stubFixtureWriter{}
	a := NewApplier(w, nil)
	f := baseFixture()

	drifted := f.KickoffAt.Add(45 * time.Second)
	res, err := a.ApplyFixtureUpdate(context.Background(), f, FixturePatch{KickoffAt: &drifted})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if res.Updated || w.writes != 0 {
		t.Fatalf("sub-minute drift must not write, got updated=%v writes=%d", res.Updated, w.writes)
	}
}

func TestApplierSwapsTeamsAndSlugAtomically(t *testing.T) {
	t.Parallel()

	w := &stubFixtureWriter{}
	a := NewApplier(w, nil)
	f := baseFixture()

	home, away := f.AwayTeamID, f.HomeTeamID
	res, err := a.ApplyFixtureUpdate(context.Background(), f, FixturePatch{
		HomeTeamID: &home,
		AwayTeamID: &away,
		LeagueSlug: "bundesliga",
		HomeSlug:   "bayern-munich",
		AwaySlug:   "bayer-leverkusen",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !res.Updated || w.writes != 1 {
		t.Fatalf("swap must happen in one write, got updated=%v writes=%d", res.Updated, w.writes)
	}
	if w.last.HomeTeamID != "team-bayern" || w.last.AwayTeamID != "team-leverkusen" {
		t.Fatalf("teams not swapped: %+v", w.last)
	}
	want := "bundesliga-bayern-munich-vs-bayer-leverkusen-2026-03-14"
	if w.last.Slug != want {
		t.Fatalf("slug = %q, want %q", w.last.Slug, want)
	}
}

func TestApplierRetainsSlugOnCollision(t *testing.T) {
	t.Parallel()

	f := baseFixture()
	w := &stubFixtureWriter{takenSlugs: map[string]string{
		"bundesliga-bayern-munich-vs-bayer-leverkusen-2026-03-14": "fx-other",
	}}
	a := NewApplier(w, nil)

	home, away := f.AwayTeamID, f.HomeTeamID
	res, err := a.ApplyFixtureUpdate(context.Background(), f, FixturePatch{
		HomeTeamID: &home,
		AwayTeamID: &away,
		LeagueSlug: "bundesliga",
		HomeSlug:   "bayern-munich",
		AwaySlug:   "bayer-leverkusen",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !res.Updated || w.writes != 1 {
		t.Fatalf("team swap must still be written, got updated=%v writes=%d", res.Updated, w.writes)
	}
	if w.last.Slug != f.Slug {
		t.Fatalf("slug = %q, want original %q retained", w.last.Slug, f.Slug)
	}
	if w.last.HomeTeamID != "team-bayern" {
		t.Fatalf("teams not swapped: %+v", w.last)
	}
}

func TestApplierConcurrentUpdateSurfaced(t *testing.T) {
	t.Parallel()

	w := &stubFixtureWriter{failGuard: true}
	a := NewApplier(w, nil)
	f := baseFixture()

	venue := "venue-allianz"
	_, err := a.ApplyFixtureUpdate(context.Background(), f, FixturePatch{VenueID: &venue})
	if !errors.Is(err, ErrConcurrentUpdate) {
		t.Fatalf("err = %v, want ErrConcurrentUpdate", err)
	}
}

func TestApplierMinPriceComparedByValue(t *testing.T) {
	t.Parallel()

	w := &stubFixtureWriter{}
	a := NewApplier(w, nil)
	f := baseFixture()
	f.MinPrice = &fixture.PriceSnapshot{Amount: 120, Currency: "EUR", UpdatedAt: time.Now().Add(-time.Hour)}

	same := &fixture.PriceSnapshot{Amount: 120, Currency: "EUR", UpdatedAt: time.Now()}
	res, err := a.ApplyFixtureUpdate(context.Background(), f, FixturePatch{MinPrice: same})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if res.Updated {
		t.Fatal("equal amount and currency must not count as a change")
	}

	cheaper := &fixture.PriceSnapshot{Amount: 99.5, Currency: "EUR", UpdatedAt: time.Now()}
	res, err = a.ApplyFixtureUpdate(context.Background(), f, FixturePatch{MinPrice: cheaper})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !res.Updated || w.last.MinPrice == nil || w.last.MinPrice.Amount != 99.5 {
		t.Fatalf("price change not applied: %+v", w.last.MinPrice)
	}
}

// Full pipeline pass: feed record through resolver and applier, then a
// second identical run that must write nothing.
func TestReconcileRoundTrip(t *testing.T) {
	t.Parallel()

	teams := testTeams()
	resolver := NewTeamResolver(teams, nil)

	kickoff := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	stored := baseFixture()
	fixtures := NewFixtureResolver([]fixture.Fixture{stored})

	home, method := resolver.Resolve(TeamQuery{Name: "Bayer 04 Leverkusen"})
	if home == nil || home.ID != "team-leverkusen" {
		t.Fatalf("home resolved %+v via %q", home, method)
	}
	away, _ := resolver.Resolve(TeamQuery{Name: "FC Bayern München"})
	if away == nil || away.ID != "team-bayern" {
		t.Fatalf("away resolved %+v", away)
	}

	match, miss := fixtures.Resolve(home.ID, away.ID, kickoff, 24*time.Hour)
	if match == nil {
		t.Fatalf("fixture not resolved, miss=%+v", miss)
	}
	if match.Reversed {
		t.Fatal("expected non-reversed match")
	}

	w := &stubFixtureWriter{}
	a := NewApplier(w, nil)
	externalID := int64(987)
	patch := FixturePatch{ExternalID: &externalID, KickoffAt: &kickoff}

	res, err := a.ApplyFixtureUpdate(context.Background(), match.Fixture, patch)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !res.Updated || w.last.ExternalID != 987 {
		t.Fatalf("external id not applied: %+v", w.last)
	}

	res, err = a.ApplyFixtureUpdate(context.Background(), w.last, patch)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if res.Updated || w.writes != 1 {
		t.Fatalf("second run must be a no-op, got updated=%v writes=%d", res.Updated, w.writes)
	}
}
