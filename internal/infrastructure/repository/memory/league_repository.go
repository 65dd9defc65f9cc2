package memory

import (
	"context"
	"sync"

	"github.com/ticketagent/marketplace/internal/domain/league"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	leagues map[string]league.League
	order   []string
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	r := &LeagueRepository{leagues: make(map[string]league.League, len(leagues))}
	for _, item := range leagues {
		if item.ID == "" {
			continue
		}
		r.leagues[item.ID] = item
		r.order = append(r.order, item.ID)
	}

	return r
}

func (r *LeagueRepository) GetByID(_ context.Context, id string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.leagues[id]
	return item, ok, nil
}

func (r *LeagueRepository) GetBySlug(_ context.Context, slug string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if r.leagues[id].Slug == slug {
			return r.leagues[id], true, nil
		}
	}

	return league.League{}, false, nil
}

func (r *LeagueRepository) GetByExternalID(_ context.Context, externalID int64) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if r.leagues[id].ExternalID == externalID {
			return r.leagues[id], true, nil
		}
	}

	return league.League{}, false, nil
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.leagues[id])
	}

	return out, nil
}

func (r *LeagueRepository) ListPopular(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.order))
	for _, id := range r.order {
		if r.leagues[id].IsPopular {
			out = append(out, r.leagues[id])
		}
	}

	return out, nil
}

func (r *LeagueRepository) Create(_ context.Context, l league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l.ID == "" {
		return nil
	}
	if _, ok := r.leagues[l.ID]; !ok {
		r.order = append(r.order, l.ID)
	}
	r.leagues[l.ID] = l

	return nil
}

func (r *LeagueRepository) UpdateMonths(_ context.Context, leagueID string, months []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.leagues[leagueID]
	if !ok {
		return nil
	}
	item.Months = append([]string(nil), months...)
	r.leagues[leagueID] = item

	return nil
}
