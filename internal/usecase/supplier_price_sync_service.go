package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ticketagent/marketplace/internal/domain/fixture"
	"github.com/ticketagent/marketplace/internal/domain/offer"
	"github.com/ticketagent/marketplace/internal/domain/supplier"
	"github.com/ticketagent/marketplace/internal/domain/team"
	idgen "github.com/ticketagent/marketplace/internal/platform/id"
	"github.com/ticketagent/marketplace/internal/platform/logging"
	"github.com/ticketagent/marketplace/internal/reconcile"
	"github.com/ticketagent/marketplace/internal/report"
)

// SupplierOfferSource yields the current listings of one supplier.
type SupplierOfferSource interface {
	FetchOffers(ctx context.Context) ([]ExternalOffer, error)
}

// SupplierPriceSyncService matches supplier listings to fixtures and
// refreshes the supplier's offers and fixture references. Each supplier
// gets its own tolerance window since feed clock skew differs between
// them.
type SupplierPriceSyncService struct {
	supplierRepo supplier.Repository
	teamRepo     team.Repository
	fixtureRepo  fixture.Repository
	offerRepo    offer.Repository
	aliases      *reconcile.AliasTable
	reports      *report.Writer

	sources map[string]SupplierOfferSource
	windows map[string]time.Duration

	idGen  idgen.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewSupplierPriceSyncService(
	supplierRepo supplier.Repository,
	teamRepo team.Repository,
	fixtureRepo fixture.Repository,
	offerRepo offer.Repository,
	aliases *reconcile.AliasTable,
	reports *report.Writer,
	sources map[string]SupplierOfferSource,
	windows map[string]time.Duration,
	idGen idgen.Generator,
	logger *logging.Logger,
) *SupplierPriceSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SupplierPriceSyncService{
		supplierRepo: supplierRepo,
		teamRepo:     teamRepo,
		fixtureRepo:  fixtureRepo,
		offerRepo:    offerRepo,
		aliases:      aliases,
		reports:      reports,
		sources:      sources,
		windows:      windows,
		idGen:        idGen,
		logger:       logger,
		now:          time.Now,
	}
}

// Sync pulls one supplier's listings and reconciles them. Listings that
// match no fixture end up in the run report for manual mapping.
func (s *SupplierPriceSyncService) Sync(ctx context.Context, supplierSlug string) (report.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "SupplierPriceSyncService.Sync")
	defer span.End()

	supplierSlug = strings.TrimSpace(supplierSlug)
	if supplierSlug == "" {
		return report.Run{}, fmt.Errorf("%w: supplier slug is required", ErrInvalidInput)
	}

	sup, ok, err := s.supplierRepo.GetBySlug(ctx, supplierSlug)
	if err != nil {
		return report.Run{}, fmt.Errorf("get supplier for sync: %w", err)
	}
	if !ok {
		return report.Run{}, fmt.Errorf("%w: supplier %s", ErrNotFound, supplierSlug)
	}
	if !sup.IsActive {
		return report.Run{}, fmt.Errorf("%w: supplier %s is inactive", ErrInvalidInput, supplierSlug)
	}

	source, ok := s.sources[supplierSlug]
	if !ok {
		return report.Run{}, fmt.Errorf("%w: supplier %s has no configured source", ErrInvalidInput, supplierSlug)
	}

	offers, err := source.FetchOffers(ctx)
	if err != nil {
		return report.Run{}, fmt.Errorf("fetch supplier offers: %w", err)
	}

	teams, err := s.teamRepo.ListAll(ctx)
	if err != nil {
		return report.Run{}, fmt.Errorf("list teams for supplier sync: %w", err)
	}
	fixtures, err := s.fixtureRepo.ListUpcoming(ctx, s.now().UTC().Add(-24*time.Hour))
	if err != nil {
		return report.Run{}, fmt.Errorf("list fixtures for supplier sync: %w", err)
	}

	teamResolver := reconcile.NewTeamResolver(teams, s.aliases)
	fixtureResolver := reconcile.NewFixtureResolver(fixtures)
	window := s.windows[supplierSlug]
	if window <= 0 {
		window = 24 * time.Hour
	}

	resumeFrom, err := s.reports.LoadCheckpoint(supplierSlug)
	if err != nil {
		s.logger.WarnContext(ctx, "checkpoint unreadable, starting from the top",
			"source", supplierSlug, "error", err)
		resumeFrom = -1
	}

	run := report.Run{Source: supplierSlug, GeneratedAt: s.now().UTC()}

	// A fresh pass re-activates every listing still in the feed, so
	// anything the feed dropped stays sold out. Resumed runs continue
	// the pass that already retired the old listings.
	if resumeFrom < 0 {
		if err := s.offerRepo.MarkUnavailableByOwner(ctx, offer.OwnerTypeSupplier, sup.ID); err != nil {
			return run, fmt.Errorf("retire previous supplier offers: %w", err)
		}
	}

	for i, ext := range offers {
		if i <= resumeFrom {
			continue
		}
		if err := ctx.Err(); err != nil {
			return run, err
		}
		run.Counters.Processed++

		s.syncOffer(ctx, &run, i, sup, teamResolver, fixtureResolver, window, ext)

		if err := s.reports.SaveCheckpoint(supplierSlug, i); err != nil {
			s.logger.WarnContext(ctx, "save checkpoint failed", "source", supplierSlug, "error", err)
		}
	}

	if err := s.reports.ClearCheckpoint(supplierSlug); err != nil {
		s.logger.WarnContext(ctx, "clear checkpoint failed", "source", supplierSlug, "error", err)
	}
	if _, err := s.reports.Write(run); err != nil {
		s.logger.WarnContext(ctx, "write run report failed", "source", supplierSlug, "error", err)
	}
	if err := s.supplierRepo.TouchLastSync(ctx, sup.ID, s.now().UTC()); err != nil {
		s.logger.WarnContext(ctx, "touch supplier last sync failed", "supplier_id", sup.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "supplier sync finished",
		"supplier", supplierSlug,
		"processed", run.Counters.Processed,
		"updated", run.Counters.Updated,
		"skipped", run.Counters.Skipped,
		"errors", run.Counters.Errors)

	return run, nil
}

func (s *SupplierPriceSyncService) syncOffer(
	ctx context.Context,
	run *report.Run,
	index int,
	sup supplier.Supplier,
	teamResolver *reconcile.TeamResolver,
	fixtureResolver *reconcile.FixtureResolver,
	window time.Duration,
	ext ExternalOffer,
) {
	home, _ := teamResolver.Resolve(reconcile.TeamQuery{Name: ext.HomeTeamName, SupplierID: sup.ID})
	away, _ := teamResolver.Resolve(reconcile.TeamQuery{Name: ext.AwayTeamName, SupplierID: sup.ID})
	if home == nil || away == nil {
		run.Counters.Skipped++
		run.Unresolved = append(run.Unresolved, report.UnresolvedItem{
			RecordIndex:     index,
			SupplierEventID: ext.SupplierEventID,
			HomeTeamName:    ext.HomeTeamName,
			AwayTeamName:    ext.AwayTeamName,
			Reason:          "team not resolved",
		})
		return
	}

	match, miss := fixtureResolver.Resolve(home.ID, away.ID, ext.KickoffAt, window)
	if match == nil {
		run.Counters.Skipped++
		if miss != nil {
			run.DateMismatches = append(run.DateMismatches, report.DateMismatch{
				SupplierEventID: ext.SupplierEventID,
				FixtureID:       miss.Fixture.ID,
				DeltaHours:      miss.Delta.Hours(),
				Reversed:        miss.Reversed,
			})
			return
		}
		run.Unresolved = append(run.Unresolved, report.UnresolvedItem{
			RecordIndex:     index,
			SupplierEventID: ext.SupplierEventID,
			HomeTeamName:    ext.HomeTeamName,
			AwayTeamName:    ext.AwayTeamName,
			Reason:          "fixture not found",
		})
		return
	}
	if match.Reversed {
		run.Counters.Reversed++
	}

	if err := s.fixtureRepo.UpsertSupplierRef(ctx, match.Fixture.ID, fixture.SupplierRef{
		SupplierID:      sup.ID,
		ExternalEventID: ext.SupplierEventID,
		EventURL:        ext.URL,
	}); err != nil {
		run.Counters.Errors++
		s.logger.ErrorContext(ctx, "store fixture supplier ref failed",
			"fixture_id", match.Fixture.ID, "supplier_id", sup.ID, "error", err)
		return
	}

	if ext.Price <= 0 {
		run.Counters.Skipped++
		return
	}

	id, err := s.idGen.NewID()
	if err != nil {
		run.Counters.Errors++
		s.logger.ErrorContext(ctx, "generate offer id failed", "error", err)
		return
	}

	ticketType := ext.TicketType
	if ticketType == "" {
		ticketType = offer.TicketTypeStandard
	}
	o := offer.Offer{
		ID:          id,
		FixtureID:   match.Fixture.ID,
		OwnerType:   offer.OwnerTypeSupplier,
		OwnerID:     sup.ID,
		TicketType:  ticketType,
		Price:       ext.Price,
		Currency:    ext.Currency,
		URL:         ext.URL,
		IsAvailable: ext.Available,
		UpdatedAt:   s.now().UTC(),
	}
	if err := o.Validate(); err != nil {
		run.Counters.Errors++
		s.logger.WarnContext(ctx, "skip invalid supplier offer",
			"supplier_event_id", ext.SupplierEventID, "error", err)
		return
	}
	if err := s.offerRepo.Upsert(ctx, o); err != nil {
		run.Counters.Errors++
		s.logger.ErrorContext(ctx, "upsert supplier offer failed",
			"fixture_id", match.Fixture.ID, "supplier_id", sup.ID, "error", err)
		return
	}

	run.Counters.Updated++
}
