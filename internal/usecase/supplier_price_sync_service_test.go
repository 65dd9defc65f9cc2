package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/ticketagent/marketplace/internal/domain/offer"
	"github.com/ticketagent/marketplace/internal/infrastructure/repository/memory"
	"github.com/ticketagent/marketplace/internal/platform/id"
	"github.com/ticketagent/marketplace/internal/platform/logging"
	"github.com/ticketagent/marketplace/internal/reconcile"
	"github.com/ticketagent/marketplace/internal/report"
)

type stubOfferSource struct {
	offers []ExternalOffer
	err    error
}

func (s *stubOfferSource) FetchOffers(_ context.Context) ([]ExternalOffer, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.offers, nil
}

type supplierSyncFixture struct {
	svc          *SupplierPriceSyncService
	supplierRepo *memory.SupplierRepository
	fixtureRepo  *memory.FixtureRepository
	offerRepo    *memory.OfferRepository
}

func newSupplierSyncFixture(t *testing.T, source SupplierOfferSource, windows map[string]time.Duration) supplierSyncFixture {
	t.Helper()

	supplierRepo := memory.NewSupplierRepository(memory.SeedSuppliers())
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	fixtureRepo := memory.NewFixtureRepository(memory.SeedFixtures())
	offerRepo := memory.NewOfferRepository(nil)

	svc := NewSupplierPriceSyncService(
		supplierRepo, teamRepo, fixtureRepo, offerRepo,
		reconcile.DefaultAliases(), report.NewWriter(t.TempDir()),
		map[string]SupplierOfferSource{"hellotickets": source},
		windows,
		id.NewRandomGenerator(), logging.NewNop(),
	)
	svc.now = func() time.Time { return time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC) }

	return supplierSyncFixture{svc: svc, supplierRepo: supplierRepo, fixtureRepo: fixtureRepo, offerRepo: offerRepo}
}

func TestSupplierPriceSyncService_Sync_StoresOfferAndRef(t *testing.T) {
	source := &stubOfferSource{offers: []ExternalOffer{{
		SupplierEventID: "ht-ev-1",
		HomeTeamName:    "Liverpool",
		AwayTeamName:    "Manchester City",
		KickoffAt:       time.Date(2026, 10, 17, 19, 0, 0, 0, time.UTC),
		Price:           240,
		Currency:        "USD",
		URL:             "https://hellotickets.example/ev/1",
		Available:       true,
	}}}
	f := newSupplierSyncFixture(t, source, nil)

	run, err := f.svc.Sync(t.Context(), "hellotickets")
	if err != nil {
		t.Fatalf("supplier sync failed: %v", err)
	}
	if run.Counters.Updated != 1 {
		t.Fatalf("unexpected updated count: %d", run.Counters.Updated)
	}

	fx, _, _ := f.fixtureRepo.GetByID(t.Context(), "fix-liv-mci")
	ref, ok := fx.SupplierRefFor("sup-hellotickets")
	if !ok {
		t.Fatal("fixture supplier ref not stored")
	}
	if ref.ExternalEventID != "ht-ev-1" {
		t.Fatalf("unexpected event id: %s", ref.ExternalEventID)
	}

	offers, err := f.offerRepo.ListByFixture(t.Context(), "fix-liv-mci")
	if err != nil {
		t.Fatalf("list offers: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("unexpected offer count: %d", len(offers))
	}
	if offers[0].OwnerType != offer.OwnerTypeSupplier || offers[0].OwnerID != "sup-hellotickets" {
		t.Fatalf("unexpected offer owner: %s %s", offers[0].OwnerType, offers[0].OwnerID)
	}
	if offers[0].TicketType != offer.TicketTypeStandard {
		t.Fatalf("blank ticket type must default to standard, got %s", offers[0].TicketType)
	}

	// Touched last sync time.
	sup, _, _ := f.supplierRepo.GetBySlug(t.Context(), "hellotickets")
	if sup.LastSyncAt == nil {
		t.Fatal("supplier last sync not touched")
	}
}

func TestSupplierPriceSyncService_Sync_RerunDoesNotDuplicateOffers(t *testing.T) {
	source := &stubOfferSource{offers: []ExternalOffer{{
		SupplierEventID: "ht-ev-1",
		HomeTeamName:    "Liverpool",
		AwayTeamName:    "Manchester City",
		KickoffAt:       time.Date(2026, 10, 17, 16, 30, 0, 0, time.UTC),
		Price:           240,
		Currency:        "USD",
		Available:       true,
	}}}
	f := newSupplierSyncFixture(t, source, nil)

	for i := 0; i < 2; i++ {
		if _, err := f.svc.Sync(t.Context(), "hellotickets"); err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
	}

	offers, _ := f.offerRepo.ListByFixture(t.Context(), "fix-liv-mci")
	if len(offers) != 1 {
		t.Fatalf("rerun duplicated offers: %d", len(offers))
	}
}

func TestSupplierPriceSyncService_Sync_VanishedListingsGoUnavailable(t *testing.T) {
	source := &stubOfferSource{offers: []ExternalOffer{{
		SupplierEventID: "ht-ev-1",
		HomeTeamName:    "Liverpool",
		AwayTeamName:    "Manchester City",
		KickoffAt:       time.Date(2026, 10, 17, 16, 30, 0, 0, time.UTC),
		Price:           240,
		Currency:        "USD",
		Available:       true,
	}}}
	f := newSupplierSyncFixture(t, source, nil)

	if _, err := f.svc.Sync(t.Context(), "hellotickets"); err != nil {
		t.Fatalf("first sync failed: %v", err)
	}

	// The Liverpool listing drops out of the feed, Dortmund appears.
	source.offers = []ExternalOffer{{
		SupplierEventID: "ht-ev-2",
		HomeTeamName:    "Borussia Dortmund",
		AwayTeamName:    "Bayern Munich",
		KickoffAt:       time.Date(2026, 10, 24, 16, 30, 0, 0, time.UTC),
		Price:           180,
		Currency:        "EUR",
		Available:       true,
	}}
	if _, err := f.svc.Sync(t.Context(), "hellotickets"); err != nil {
		t.Fatalf("second sync failed: %v", err)
	}

	listings, err := f.offerRepo.ListByOwner(t.Context(), offer.OwnerTypeSupplier, "sup-hellotickets")
	if err != nil {
		t.Fatalf("list supplier offers: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("unexpected listing count: %d", len(listings))
	}
	for _, o := range listings {
		switch o.FixtureID {
		case "fix-liv-mci":
			if o.IsAvailable {
				t.Fatal("vanished listing must go unavailable")
			}
		case "fix-bvb-fcb":
			if !o.IsAvailable {
				t.Fatal("listed fixture must stay available")
			}
		default:
			t.Fatalf("unexpected offer fixture: %s", o.FixtureID)
		}
	}
}

func TestSupplierPriceSyncService_Sync_WiderWindowMatchesSkewedFeed(t *testing.T) {
	// The feed reports the date 30 hours off the stored kickoff. The
	// default window refuses it; the per-supplier one accepts it.
	skewed := []ExternalOffer{{
		SupplierEventID: "ht-ev-2",
		HomeTeamName:    "Liverpool",
		AwayTeamName:    "Manchester City",
		KickoffAt:       time.Date(2026, 10, 18, 22, 30, 0, 0, time.UTC),
		Price:           199,
		Currency:        "GBP",
		Available:       true,
	}}

	tight := newSupplierSyncFixture(t, &stubOfferSource{offers: skewed}, nil)
	run, err := tight.svc.Sync(t.Context(), "hellotickets")
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if len(run.DateMismatches) != 1 {
		t.Fatalf("default window must report a mismatch, got %d", len(run.DateMismatches))
	}

	wide := newSupplierSyncFixture(t, &stubOfferSource{offers: skewed},
		map[string]time.Duration{"hellotickets": 36 * time.Hour})
	run, err = wide.svc.Sync(t.Context(), "hellotickets")
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if run.Counters.Updated != 1 {
		t.Fatalf("wider window must match, updated=%d", run.Counters.Updated)
	}
}

func TestSupplierPriceSyncService_Sync_ZeroPriceStoresRefOnly(t *testing.T) {
	source := &stubOfferSource{offers: []ExternalOffer{{
		SupplierEventID: "ht-ev-3",
		HomeTeamName:    "Liverpool",
		AwayTeamName:    "Manchester City",
		KickoffAt:       time.Date(2026, 10, 17, 16, 30, 0, 0, time.UTC),
		Price:           0,
		Currency:        "USD",
	}}}
	f := newSupplierSyncFixture(t, source, nil)

	run, err := f.svc.Sync(t.Context(), "hellotickets")
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if run.Counters.Skipped != 1 {
		t.Fatalf("unexpected skipped count: %d", run.Counters.Skipped)
	}

	fx, _, _ := f.fixtureRepo.GetByID(t.Context(), "fix-liv-mci")
	if _, ok := fx.SupplierRefFor("sup-hellotickets"); !ok {
		t.Fatal("ref must be stored even without a usable price")
	}
	offers, _ := f.offerRepo.ListByFixture(t.Context(), "fix-liv-mci")
	if len(offers) != 0 {
		t.Fatalf("no offer expected, got %d", len(offers))
	}
}

func TestSupplierPriceSyncService_Sync_UnknownSupplier(t *testing.T) {
	f := newSupplierSyncFixture(t, &stubOfferSource{}, nil)

	if _, err := f.svc.Sync(t.Context(), "ticketorama"); err == nil {
		t.Fatal("expected error for unknown supplier")
	}
}

func TestSupplierPriceSyncService_Sync_InactiveSupplierRefused(t *testing.T) {
	f := newSupplierSyncFixture(t, &stubOfferSource{}, nil)

	sup, _, _ := f.supplierRepo.GetBySlug(t.Context(), "hellotickets")
	sup.IsActive = false
	if err := f.supplierRepo.Create(t.Context(), sup); err != nil {
		t.Fatalf("deactivate supplier: %v", err)
	}

	if _, err := f.svc.Sync(t.Context(), "hellotickets"); err == nil {
		t.Fatal("expected error for inactive supplier")
	}
}
