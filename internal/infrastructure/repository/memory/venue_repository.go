package memory

import (
	"context"
	"sync"

	"github.com/ticketagent/marketplace/internal/domain/venue"
)

type VenueRepository struct {
	mu     sync.RWMutex
	venues map[string]venue.Venue
	order  []string
}

func NewVenueRepository(venues []venue.Venue) *VenueRepository {
	r := &VenueRepository{venues: make(map[string]venue.Venue, len(venues))}
	for _, item := range venues {
		if item.ID == "" {
			continue
		}
		r.venues[item.ID] = item
		r.order = append(r.order, item.ID)
	}

	return r
}

func (r *VenueRepository) GetByID(_ context.Context, id string) (venue.Venue, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.venues[id]
	return item, ok, nil
}

func (r *VenueRepository) GetByExternalID(_ context.Context, externalID int64) (venue.Venue, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if r.venues[id].ExternalID == externalID {
			return r.venues[id], true, nil
		}
	}

	return venue.Venue{}, false, nil
}

func (r *VenueRepository) ListAll(_ context.Context) ([]venue.Venue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]venue.Venue, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.venues[id])
	}

	return out, nil
}

func (r *VenueRepository) Create(_ context.Context, v venue.Venue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v.ID == "" {
		return nil
	}
	if _, ok := r.venues[v.ID]; !ok {
		r.order = append(r.order, v.ID)
	}
	r.venues[v.ID] = v

	return nil
}

func (r *VenueRepository) Update(_ context.Context, v venue.Venue) error {
	return r.Create(context.Background(), v)
}
