package agent

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Agent, bool, error)
	GetBySlug(ctx context.Context, slug string) (Agent, bool, error)
	ListActive(ctx context.Context) ([]Agent, error)
	Create(ctx context.Context, a Agent) error
}
