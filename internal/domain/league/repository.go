package league

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (League, bool, error)
	GetBySlug(ctx context.Context, slug string) (League, bool, error)
	GetByExternalID(ctx context.Context, externalID int64) (League, bool, error)
	List(ctx context.Context) ([]League, error)
	ListPopular(ctx context.Context) ([]League, error)
	Create(ctx context.Context, l League) error
	UpdateMonths(ctx context.Context, leagueID string, months []string) error
}
