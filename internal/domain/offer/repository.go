package offer

import "context"

type Repository interface {
	ListByFixture(ctx context.Context, fixtureID string) ([]Offer, error)
	ListAvailableByFixture(ctx context.Context, fixtureID string) ([]Offer, error)
	ListByOwner(ctx context.Context, ownerType, ownerID string) ([]Offer, error)

	// Upsert stores an offer, replacing any existing offer for the same
	// (fixture, owner, ticket type) combination.
	Upsert(ctx context.Context, o Offer) error

	// MarkUnavailableByOwner flags every offer of one owner as sold out.
	MarkUnavailableByOwner(ctx context.Context, ownerType, ownerID string) error
}
