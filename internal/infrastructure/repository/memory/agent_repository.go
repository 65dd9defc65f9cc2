package memory

import (
	"context"
	"sync"

	"github.com/ticketagent/marketplace/internal/domain/agent"
)

type AgentRepository struct {
	mu     sync.RWMutex
	agents map[string]agent.Agent
	order  []string
}

func NewAgentRepository(agents []agent.Agent) *AgentRepository {
	r := &AgentRepository{agents: make(map[string]agent.Agent, len(agents))}
	for _, item := range agents {
		if item.ID == "" {
			continue
		}
		r.agents[item.ID] = item
		r.order = append(r.order, item.ID)
	}

	return r
}

func (r *AgentRepository) GetByID(_ context.Context, id string) (agent.Agent, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.agents[id]
	return item, ok, nil
}

func (r *AgentRepository) GetBySlug(_ context.Context, slug string) (agent.Agent, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if r.agents[id].Slug == slug {
			return r.agents[id], true, nil
		}
	}

	return agent.Agent{}, false, nil
}

func (r *AgentRepository) ListActive(_ context.Context) ([]agent.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]agent.Agent, 0, len(r.order))
	for _, id := range r.order {
		if r.agents[id].IsActive {
			out = append(out, r.agents[id])
		}
	}

	return out, nil
}

func (r *AgentRepository) Create(_ context.Context, a agent.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return nil
	}
	if _, ok := r.agents[a.ID]; !ok {
		r.order = append(r.order, a.ID)
	}
	r.agents[a.ID] = a

	return nil
}
