package fixture

import (
	"context"
	"time"
)

// Repository stores fixtures and their supplier references.
type Repository interface {
	GetByID(ctx context.Context, id string) (Fixture, bool, error)
	GetBySlug(ctx context.Context, slug string) (Fixture, bool, error)
	GetByExternalID(ctx context.Context, externalID int64) (Fixture, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Fixture, error)
	ListUpcoming(ctx context.Context, from time.Time) ([]Fixture, error)
	ListUpcomingByLeague(ctx context.Context, leagueID string, from time.Time) ([]Fixture, error)
	ListByKickoffWindow(ctx context.Context, leagueID string, from, to time.Time) ([]Fixture, error)

	// SlugTaken reports whether another fixture already owns the slug.
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)

	Create(ctx context.Context, f Fixture) error

	// UpdateGuarded writes next only when the stored row still carries
	// prev's mutable field values. It returns false when the guard
	// failed because a concurrent writer got there first.
	UpdateGuarded(ctx context.Context, prev, next Fixture) (bool, error)

	// UpsertSupplierRef stores a supplier reference, replacing any
	// existing reference for the same (fixture, supplier) pair.
	UpsertSupplierRef(ctx context.Context, fixtureID string, ref SupplierRef) error

	UpdateMinPrice(ctx context.Context, fixtureID string, snapshot *PriceSnapshot) error
}
