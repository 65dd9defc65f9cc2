package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ticketagent/marketplace/internal/domain/fixture"
	"github.com/ticketagent/marketplace/internal/platform/logging"
)

// MinPriceService keeps the cached cheapest-offer snapshot on each
// fixture current. All prices are compared in EUR; other currencies are
// converted with configured rates.
type MinPriceService struct {
	fixtureRepo fixture.Repository
	offers      OfferReader
	rates       map[string]float64
	logger      *logging.Logger
	now         func() time.Time
}

// OfferReader is the slice of the offer repository this service needs.
type OfferReader interface {
	ListAvailableByFixture(ctx context.Context, fixtureID string) ([]OfferPrice, error)
}

// OfferPrice is a priced offer as seen by the min-price computation.
type OfferPrice struct {
	Price    float64
	Currency string
}

func NewMinPriceService(fixtureRepo fixture.Repository, offers OfferReader, rates map[string]float64, logger *logging.Logger) *MinPriceService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MinPriceService{
		fixtureRepo: fixtureRepo,
		offers:      offers,
		rates:       rates,
		logger:      logger,
		now:         time.Now,
	}
}

// RecomputeFixture refreshes one fixture's snapshot. A fixture with no
// available offers gets its snapshot cleared.
func (s *MinPriceService) RecomputeFixture(ctx context.Context, fixtureID string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "MinPriceService.RecomputeFixture")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return false, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	f, ok, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return false, fmt.Errorf("get fixture for min price: %w", err)
	}
	if !ok {
		return false, fmt.Errorf("%w: fixture %s", ErrNotFound, fixtureID)
	}

	offers, err := s.offers.ListAvailableByFixture(ctx, fixtureID)
	if err != nil {
		return false, fmt.Errorf("list offers for min price: %w", err)
	}

	var cheapest *fixture.PriceSnapshot
	for _, o := range offers {
		eur, ok := s.toEUR(o.Price, o.Currency)
		if !ok {
			s.logger.WarnContext(ctx, "skip offer with unknown currency",
				"fixture_id", fixtureID, "currency", o.Currency)
			continue
		}
		if cheapest == nil || eur < cheapest.Amount {
			cheapest = &fixture.PriceSnapshot{Amount: eur, Currency: "EUR"}
		}
	}

	if !minPriceChanged(f.MinPrice, cheapest) {
		return false, nil
	}

	if cheapest != nil {
		cheapest.UpdatedAt = s.now().UTC()
	}
	if err := s.fixtureRepo.UpdateMinPrice(ctx, fixtureID, cheapest); err != nil {
		return false, fmt.Errorf("update fixture min price: %w", err)
	}

	return true, nil
}

// RecomputeUpcoming refreshes every fixture that has not kicked off yet
// and returns how many snapshots changed.
func (s *MinPriceService) RecomputeUpcoming(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "MinPriceService.RecomputeUpcoming")
	defer span.End()

	fixtures, err := s.fixtureRepo.ListUpcoming(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("list upcoming fixtures: %w", err)
	}

	updated := 0
	for _, f := range fixtures {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		changed, err := s.RecomputeFixture(ctx, f.ID)
		if err != nil {
			s.logger.ErrorContext(ctx, "recompute min price failed", "fixture_id", f.ID, "error", err)
			continue
		}
		if changed {
			updated++
		}
	}

	return updated, nil
}

func (s *MinPriceService) toEUR(amount float64, currency string) (float64, bool) {
	if amount <= 0 {
		return 0, false
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "EUR" {
		return amount, true
	}
	rate, ok := s.rates[currency]
	if !ok || rate <= 0 {
		return 0, false
	}
	return roundCents(amount / rate), true
}

func minPriceChanged(current, next *fixture.PriceSnapshot) bool {
	if current == nil || next == nil {
		return (current == nil) != (next == nil)
	}
	return current.Amount != next.Amount || current.Currency != next.Currency
}

func roundCents(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
