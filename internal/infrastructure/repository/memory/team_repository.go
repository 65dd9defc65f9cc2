package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/ticketagent/marketplace/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams map[string]team.Team
	order []string
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	r := &TeamRepository{teams: make(map[string]team.Team, len(teams))}
	for _, item := range teams {
		if item.ID == "" {
			continue
		}
		r.teams[item.ID] = item
		r.order = append(r.order, item.ID)
	}

	return r
}

func (r *TeamRepository) GetByID(_ context.Context, id string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[id]
	return item, ok, nil
}

func (r *TeamRepository) GetBySlug(_ context.Context, slug string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if r.teams[id].Slug == slug {
			return r.teams[id], true, nil
		}
	}

	return team.Team{}, false, nil
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.order))
	for _, id := range r.order {
		if r.teams[id].InLeague(leagueID) {
			out = append(out, r.teams[id])
		}
	}

	return out, nil
}

func (r *TeamRepository) ListAll(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.teams[id])
	}

	return out, nil
}

func (r *TeamRepository) Create(_ context.Context, t team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(t.ID) == "" {
		return nil
	}
	if _, ok := r.teams[t.ID]; !ok {
		r.order = append(r.order, t.ID)
	}
	r.teams[t.ID] = t

	return nil
}

func (r *TeamRepository) Update(_ context.Context, t team.Team) error {
	return r.Create(context.Background(), t)
}

func (r *TeamRepository) UpsertSupplierRef(_ context.Context, teamID string, ref team.SupplierRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.teams[teamID]
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
	r.teams[teamID] = item

	return nil
}
