package supplier

import (
	"context"
	"time"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (Supplier, bool, error)
	GetBySlug(ctx context.Context, slug string) (Supplier, bool, error)
	ListActive(ctx context.Context) ([]Supplier, error)
	Create(ctx context.Context, s Supplier) error
	TouchLastSync(ctx context.Context, id string, at time.Time) error
}
