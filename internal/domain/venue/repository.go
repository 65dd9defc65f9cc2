package venue

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Venue, bool, error)
	GetByExternalID(ctx context.Context, externalID int64) (Venue, bool, error)
	ListAll(ctx context.Context) ([]Venue, error)
	Create(ctx context.Context, v Venue) error
	Update(ctx context.Context, v Venue) error
}
