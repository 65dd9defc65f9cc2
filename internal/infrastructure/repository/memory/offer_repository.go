package memory

import (
	"context"
	"sync"

	"github.com/ticketagent/marketplace/internal/domain/offer"
)

type OfferRepository struct {
	mu     sync.RWMutex
	offers []offer.Offer
}

func NewOfferRepository(offers []offer.Offer) *OfferRepository {
	return &OfferRepository{offers: append([]offer.Offer(nil), offers...)}
}

func (r *OfferRepository) ListByFixture(_ context.Context, fixtureID string) ([]offer.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]offer.Offer, 0, len(r.offers))
	for _, item := range r.offers {
		if item.FixtureID == fixtureID {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *OfferRepository) ListAvailableByFixture(_ context.Context, fixtureID string) ([]offer.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]offer.Offer, 0, len(r.offers))
	for _, item := range r.offers {
		if item.FixtureID == fixtureID && item.IsAvailable {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *OfferRepository) ListByOwner(_ context.Context, ownerType, ownerID string) ([]offer.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]offer.Offer, 0, len(r.offers))
	for _, item := range r.offers {
		if item.OwnerType == ownerType && item.OwnerID == ownerID {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *OfferRepository) Upsert(_ context.Context, o offer.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.offers {
		existing := r.offers[idx]
		if existing.FixtureID == o.FixtureID && existing.OwnerType == o.OwnerType &&
			existing.OwnerID == o.OwnerID && existing.TicketType == o.TicketType {
			o.ID = existing.ID
			r.offers[idx] = o
			return nil
		}
	}
	r.offers = append(r.offers, o)

	return nil
}

func (r *OfferRepository) MarkUnavailableByOwner(_ context.Context, ownerType, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.offers {
		if r.offers[idx].OwnerType == ownerType && r.offers[idx].OwnerID == ownerID {
			r.offers[idx].IsAvailable = false
		}
	}

	return nil
}
