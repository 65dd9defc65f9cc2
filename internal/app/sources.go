package app

import (
	"context"

	"github.com/ticketagent/marketplace/external/hellotickets"
	"github.com/ticketagent/marketplace/external/p1"
	"github.com/ticketagent/marketplace/internal/domain/offer"
	"github.com/ticketagent/marketplace/internal/usecase"
)

// helloTicketsSource pins one search term for the supplier sync. The
// API paginates per search, football covers every listing we resell.
type helloTicketsSource struct {
	client *hellotickets.Client
	search string
}

func (s *helloTicketsSource) FetchOffers(ctx context.Context) ([]usecase.ExternalOffer, error) {
	return s.client.FetchOffers(ctx, s.search)
}

type p1Source struct {
	client *p1.Client
}

func (s *p1Source) FetchOffers(ctx context.Context) ([]usecase.ExternalOffer, error) {
	return s.client.FetchAvailability(ctx)
}

// offerPriceReader narrows the offer repository to the price pairs the
// min-price computation wants.
type offerPriceReader struct {
	repo offer.Repository
}

func (r *offerPriceReader) ListAvailableByFixture(ctx context.Context, fixtureID string) ([]usecase.OfferPrice, error) {
	offers, err := r.repo.ListAvailableByFixture(ctx, fixtureID)
	if err != nil {
		return nil, err
	}

	out := make([]usecase.OfferPrice, 0, len(offers))
	for _, o := range offers {
		out = append(out, usecase.OfferPrice{Price: o.Price, Currency: o.Currency})
	}

	return out, nil
}
