package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ticketagent/marketplace/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the starter catalogue into an empty database.
// Populated databases are left untouched.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM leagues WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count leagues for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	leagueRepo := NewLeagueRepository(db)
	for _, l := range memory.SeedLeagues() {
		if err := leagueRepo.Create(ctx, l); err != nil {
			return fmt.Errorf("seed league %s: %w", l.ID, err)
		}
	}

	venueRepo := NewVenueRepository(db)
	for _, v := range memory.SeedVenues() {
		if err := venueRepo.Create(ctx, v); err != nil {
			return fmt.Errorf("seed venue %s: %w", v.ID, err)
		}
	}

	teamRepo := NewTeamRepository(db)
	for _, t := range memory.SeedTeams() {
		if err := teamRepo.Create(ctx, t); err != nil {
			return fmt.Errorf("seed team %s: %w", t.ID, err)
		}
	}

	fixtureRepo := NewFixtureRepository(db)
	for _, f := range memory.SeedFixtures() {
		if err := fixtureRepo.Create(ctx, f); err != nil {
			return fmt.Errorf("seed fixture %s: %w", f.ID, err)
		}
	}

	supplierRepo := NewSupplierRepository(db)
	for _, s := range memory.SeedSuppliers() {
		if err := supplierRepo.Create(ctx, s); err != nil {
			return fmt.Errorf("seed supplier %s: %w", s.ID, err)
		}
	}

	agentRepo := NewAgentRepository(db)
	for _, a := range memory.SeedAgents() {
		if err := agentRepo.Create(ctx, a); err != nil {
			return fmt.Errorf("seed agent %s: %w", a.ID, err)
		}
	}

	reviewRepo := NewReviewRepository(db)
	for _, rv := range memory.SeedReviews() {
		if err := reviewRepo.Create(ctx, rv); err != nil {
			return fmt.Errorf("seed review %s: %w", rv.ID, err)
		}
	}

	return nil
}
