package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/ticketagent/marketplace/internal/domain/fixture"
	"github.com/ticketagent/marketplace/internal/infrastructure/repository/memory"
	"github.com/ticketagent/marketplace/internal/platform/logging"
)

type stubOfferPrices struct {
	byFixture map[string][]OfferPrice
}

func (s *stubOfferPrices) ListAvailableByFixture(_ context.Context, fixtureID string) ([]OfferPrice, error) {
	return s.byFixture[fixtureID], nil
}

var testRates = map[string]float64{"USD": 1.08, "ILS": 4.0, "GBP": 0.85}

func TestMinPriceService_RecomputeFixture_PicksCheapestInEUR(t *testing.T) {
	fixtureRepo := memory.NewFixtureRepository(memory.SeedFixtures())
	offers := &stubOfferPrices{byFixture: map[string][]OfferPrice{
		"fix-liv-mci": {
			{Price: 216, Currency: "USD"},
			{Price: 150, Currency: "EUR"},
			{Price: 1000, Currency: "ILS"},
		},
	}}
	svc := NewMinPriceService(fixtureRepo, offers, testRates, logging.NewNop())

	changed, err := svc.RecomputeFixture(t.Context(), "fix-liv-mci")
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if !changed {
		t.Fatal("expected snapshot to change")
	}

	f, _, _ := fixtureRepo.GetByID(t.Context(), "fix-liv-mci")
	if f.MinPrice == nil {
		t.Fatal("snapshot missing")
	}
	// 216 USD is 200 EUR; 150 EUR wins.
	if f.MinPrice.Amount != 150 || f.MinPrice.Currency != "EUR" {
		t.Fatalf("unexpected snapshot: %+v", f.MinPrice)
	}
}

func TestMinPriceService_RecomputeFixture_ConvertsWhenOnlyForeign(t *testing.T) {
	fixtureRepo := memory.NewFixtureRepository(memory.SeedFixtures())
	offers := &stubOfferPrices{byFixture: map[string][]OfferPrice{
		"fix-liv-mci": {{Price: 216, Currency: "usd"}},
	}}
	svc := NewMinPriceService(fixtureRepo, offers, testRates, logging.NewNop())

	if _, err := svc.RecomputeFixture(t.Context(), "fix-liv-mci"); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	f, _, _ := fixtureRepo.GetByID(t.Context(), "fix-liv-mci")
	if f.MinPrice == nil || f.MinPrice.Amount != 200 {
		t.Fatalf("unexpected snapshot: %+v", f.MinPrice)
	}
}

func TestMinPriceService_RecomputeFixture_NoChangeNoWrite(t *testing.T) {
	fixtureRepo := memory.NewFixtureRepository(memory.SeedFixtures())
	offers := &stubOfferPrices{byFixture: map[string][]OfferPrice{
		"fix-liv-mci": {{Price: 150, Currency: "EUR"}},
	}}
	svc := NewMinPriceService(fixtureRepo, offers, testRates, logging.NewNop())

	changed, err := svc.RecomputeFixture(t.Context(), "fix-liv-mci")
	if err != nil || !changed {
		t.Fatalf("first recompute: changed=%v err=%v", changed, err)
	}
	changed, err = svc.RecomputeFixture(t.Context(), "fix-liv-mci")
	if err != nil {
		t.Fatalf("second recompute: %v", err)
	}
	if changed {
		t.Fatal("equal snapshot must not rewrite")
	}
}

func TestMinPriceService_RecomputeFixture_ClearsWhenNoOffers(t *testing.T) {
	fixtures := memory.SeedFixtures()
	fixtures[0].MinPrice = &fixture.PriceSnapshot{Amount: 99, Currency: "EUR"}
	fixtureRepo := memory.NewFixtureRepository(fixtures)
	svc := NewMinPriceService(fixtureRepo, &stubOfferPrices{}, testRates, logging.NewNop())

	changed, err := svc.RecomputeFixture(t.Context(), fixtures[0].ID)
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if !changed {
		t.Fatal("stale snapshot must be cleared")
	}

	f, _, _ := fixtureRepo.GetByID(t.Context(), fixtures[0].ID)
	if f.MinPrice != nil {
		t.Fatalf("snapshot not cleared: %+v", f.MinPrice)
	}
}

func TestMinPriceService_RecomputeFixture_SkipsUnknownCurrency(t *testing.T) {
	fixtureRepo := memory.NewFixtureRepository(memory.SeedFixtures())
	offers := &stubOfferPrices{byFixture: map[string][]OfferPrice{
		"fix-liv-mci": {
			{Price: 10, Currency: "XAU"},
			{Price: 180, Currency: "EUR"},
		},
	}}
	svc := NewMinPriceService(fixtureRepo, offers, testRates, logging.NewNop())

	if _, err := svc.RecomputeFixture(t.Context(), "fix-liv-mci"); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	f, _, _ := fixtureRepo.GetByID(t.Context(), "fix-liv-mci")
	if f.MinPrice == nil || f.MinPrice.Amount != 180 {
		t.Fatalf("unknown currency must be skipped, got %+v", f.MinPrice)
	}
}

func TestMinPriceService_RecomputeUpcoming_CountsChanges(t *testing.T) {
	fixtureRepo := memory.NewFixtureRepository(memory.SeedFixtures())
	offers := &stubOfferPrices{byFixture: map[string][]OfferPrice{
		"fix-liv-mci": {{Price: 120, Currency: "EUR"}},
		"fix-bvb-fcb": {{Price: 85, Currency: "GBP"}},
	}}
	svc := NewMinPriceService(fixtureRepo, offers, testRates, logging.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC) }

	updated, err := svc.RecomputeUpcoming(t.Context())
	if err != nil {
		t.Fatalf("recompute upcoming failed: %v", err)
	}
	if updated != 2 {
		t.Fatalf("unexpected updated count: %d", updated)
	}

	f, _, _ := fixtureRepo.GetByID(t.Context(), "fix-bvb-fcb")
	if f.MinPrice == nil || f.MinPrice.Amount != 100 {
		t.Fatalf("unexpected converted snapshot: %+v", f.MinPrice)
	}
}
