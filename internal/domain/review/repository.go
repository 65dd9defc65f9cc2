package review

import "context"

type Repository interface {
	ListByAgent(ctx context.Context, agentID string) ([]Review, error)
	Create(ctx context.Context, r Review) error
}
