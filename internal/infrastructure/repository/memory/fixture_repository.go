package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ticketagent/marketplace/internal/domain/fixture"
)

type FixtureRepository struct {
	mu       sync.RWMutex
	fixtures map[string]fixture.Fixture
	order    []string
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	r := &FixtureRepository{fixtures: make(map[string]fixture.Fixture, len(fixtures))}
	for _, item := range fixtures {
		if item.ID == "" {
			continue
		}
		r.fixtures[item.ID] = item
		r.order = append(r.order, item.ID)
	}

	return r
}

func (r *FixtureRepository) GetByID(_ context.Context, id string) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.fixtures[id]
	return item, ok, nil
}

func (r *FixtureRepository) GetBySlug(_ context.Context, slug string) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if r.fixtures[id].Slug == slug {
			return r.fixtures[id], true, nil
		}
	}

	return fixture.Fixture{}, false, nil
}

func (r *FixtureRepository) GetByExternalID(_ context.Context, externalID int64) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if externalID == 0 {
		return fixture.Fixture{}, false, nil
	}
	for _, id := range r.order {
		if r.fixtures[id].ExternalID == externalID {
			return r.fixtures[id], true, nil
		}
	}

	return fixture.Fixture{}, false, nil
}

func (r *FixtureRepository) ListByLeague(_ context.Context, leagueID string) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0, len(r.order))
	for _, id := range r.order {
		if r.fixtures[id].LeagueID == leagueID {
			out = append(out, r.fixtures[id])
		}
	}

	return out, nil
}

func (r *FixtureRepository) ListUpcoming(_ context.Context, from time.Time) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0, len(r.order))
	for _, id := range r.order {
		if !r.fixtures[id].KickoffAt.Before(from) {
			out = append(out, r.fixtures[id])
		}
	}

	return out, nil
}

func (r *FixtureRepository) ListUpcomingByLeague(_ context.Context, leagueID string, from time.Time) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0, len(r.order))
	for _, id := range r.order {
		item := r.fixtures[id]
		if item.LeagueID == leagueID && !item.KickoffAt.Before(from) {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *FixtureRepository) ListByKickoffWindow(_ context.Context, leagueID string, from, to time.Time) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0, len(r.order))
	for _, id := range r.order {
		item := r.fixtures[id]
		if item.LeagueID != leagueID {
			continue
		}
		if item.KickoffAt.Before(from) || item.KickoffAt.After(to) {
			continue
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *FixtureRepository) SlugTaken(_ context.Context, slug, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if id != excludeID && r.fixtures[id].Slug == slug {
			return true, nil
		}
	}

	return false, nil
}

func (r *FixtureRepository) Create(_ context.Context, f fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f.ID == "" {
		return nil
	}
	if _, ok := r.fixtures[f.ID]; !ok {
		r.order = append(r.order, f.ID)
	}
	r.fixtures[f.ID] = f

	return nil
}

func (r *FixtureRepository) UpdateGuarded(_ context.Context, prev, next fixture.Fixture) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.fixtures[prev.ID]
	if !ok {
		return false, nil
	}
	if !guardHolds(stored, prev) {
		return false, nil
	}
	next.SupplierRefs = stored.SupplierRefs
	r.fixtures[prev.ID] = next

	return true, nil
}

func guardHolds(stored, prev fixture.Fixture) bool {
	if !stored.KickoffAt.Equal(prev.KickoffAt) {
		return false
	}
	if stored.HomeTeamID != prev.HomeTeamID || stored.AwayTeamID != prev.AwayTeamID {
		return false
	}
	if stored.VenueID != prev.VenueID || stored.Slug != prev.Slug || stored.ExternalID != prev.ExternalID {
		return false
	}

	return samePrice(stored.MinPrice, prev.MinPrice)
}

func samePrice(a, b *fixture.PriceSnapshot) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Amount == b.Amount && a.Currency == b.Currency
}

func (r *FixtureRepository) UpsertSupplierRef(_ context.Context, fixtureID string, ref fixture.SupplierRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.fixtures[fixtureID]
	if !ok {
		return nil
	}
	replaced := false
	for idx := range item.SupplierRefs {
		if item.SupplierRefs[idx].SupplierID == ref.SupplierID {
			item.SupplierRefs[idx] = ref
			replaced = true
			break
		}
	}
	if !replaced {
		item.SupplierRefs = append(item.SupplierRefs, ref)
	}
	r.fixtures[fixtureID] = item

	return nil
}

func (r *FixtureRepository) UpdateMinPrice(_ context.Context, fixtureID string, snapshot *fixture.PriceSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.fixtures[fixtureID]
	if !ok {
		return nil
	}
	item.MinPrice = snapshot
	r.fixtures[fixtureID] = item

	return nil
}
