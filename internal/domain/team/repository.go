package team

import "context"

// Repository stores teams and their supplier references.
type Repository interface {
	GetByID(ctx context.Context, id string) (Team, bool, error)
	GetBySlug(ctx context.Context, slug string) (Team, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Team, error)
	ListAll(ctx context.Context) ([]Team, error)
	Create(ctx context.Context, t Team) error
	Update(ctx context.Context, t Team) error

	// UpsertSupplierRef stores a supplier reference, replacing any existing
	// reference for the same (team, supplier) pair.
	UpsertSupplierRef(ctx context.Context, teamID string, ref SupplierRef) error
}
