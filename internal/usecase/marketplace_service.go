package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ticketagent/marketplace/internal/domain/agent"
	"github.com/ticketagent/marketplace/internal/domain/fixture"
	"github.com/ticketagent/marketplace/internal/domain/league"
	"github.com/ticketagent/marketplace/internal/domain/offer"
	"github.com/ticketagent/marketplace/internal/domain/review"
	"github.com/ticketagent/marketplace/internal/domain/supplier"
	"github.com/ticketagent/marketplace/internal/domain/team"
)

// FixtureDetail is a fixture joined with its teams and offers for the
// storefront detail page.
type FixtureDetail struct {
	Fixture  fixture.Fixture
	HomeTeam team.Team
	AwayTeam team.Team
	Offers   []offer.Offer
}

// AgentProfile is an agent joined with its reviews and current
// listings.
type AgentProfile struct {
	Agent   agent.Agent
	Reviews []review.Review
	Offers  []offer.Offer
}

// MarketplaceService serves the public read API.
type MarketplaceService struct {
	leagueRepo   league.Repository
	teamRepo     team.Repository
	fixtureRepo  fixture.Repository
	offerRepo    offer.Repository
	agentRepo    agent.Repository
	reviewRepo   review.Repository
	supplierRepo supplier.Repository
	now          func() time.Time
}

func NewMarketplaceService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	fixtureRepo fixture.Repository,
	offerRepo offer.Repository,
	agentRepo agent.Repository,
	reviewRepo review.Repository,
	supplierRepo supplier.Repository,
) *MarketplaceService {
	return &MarketplaceService{
		leagueRepo:   leagueRepo,
		teamRepo:     teamRepo,
		fixtureRepo:  fixtureRepo,
		offerRepo:    offerRepo,
		agentRepo:    agentRepo,
		reviewRepo:   reviewRepo,
		supplierRepo: supplierRepo,
		now:          time.Now,
	}
}

func (s *MarketplaceService) ListLeagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "MarketplaceService.ListLeagues")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	sort.SliceStable(leagues, func(i, j int) bool {
		if leagues[i].IsPopular != leagues[j].IsPopular {
			return leagues[i].IsPopular
		}
		return leagues[i].NameEn < leagues[j].NameEn
	})

	return leagues, nil
}

// ListPopularLeagues returns only the leagues flagged for the
// storefront landing page.
func (s *MarketplaceService) ListPopularLeagues(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "MarketplaceService.ListPopularLeagues")
	defer span.End()

	leagues, err := s.leagueRepo.ListPopular(ctx)
	if err != nil {
		return nil, fmt.Errorf("list popular leagues: %w", err)
	}
	sort.SliceStable(leagues, func(i, j int) bool { return leagues[i].NameEn < leagues[j].NameEn })

	return leagues, nil
}

func (s *MarketplaceService) GetLeagueBySlug(ctx context.Context, slug string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "MarketplaceService.GetLeagueBySlug")
	defer span.End()

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return league.League{}, fmt.Errorf("%w: league slug is required", ErrInvalidInput)
	}

	lg, ok, err := s.leagueRepo.GetBySlug(ctx, slug)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by slug: %w", err)
	}
	if !ok {
		return league.League{}, fmt.Errorf("%w: league %s", ErrNotFound, slug)
	}

	return lg, nil
}

// ListTeamsByLeague returns the teams of one league sorted by English
// name, popular clubs first.
func (s *MarketplaceService) ListTeamsByLeague(ctx context.Context, leagueSlug string) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "MarketplaceService.ListTeamsByLeague")
	defer span.End()

	lg, err := s.GetLeagueBySlug(ctx, leagueSlug)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByLeague(ctx, lg.ID)
	if err != nil {
		return nil, fmt.Errorf("list teams by league: %w", err)
	}
	sort.SliceStable(teams, func(i, j int) bool {
		if teams[i].IsPopular != teams[j].IsPopular {
			return teams[i].IsPopular
		}
		return teams[i].NameEn < teams[j].NameEn
	})

	return teams, nil
}

// ListSuppliers returns the active ticket suppliers ordered by sync
// priority.
func (s *MarketplaceService) ListSuppliers(ctx context.Context) ([]supplier.Supplier, error) {
	ctx, span := startUsecaseSpan(ctx, "MarketplaceService.ListSuppliers")
	defer span.End()

	suppliers, err := s.supplierRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	sort.SliceStable(suppliers, func(i, j int) bool { return suppliers[i].Priority < suppliers[j].Priority })

	return suppliers, nil
}

// ListFixtures returns the upcoming fixtures of one league, optionally
// narrowed to a "2006-01" month key.
func (s *MarketplaceService) ListFixtures(ctx context.Context, leagueSlug, month string) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "MarketplaceService.ListFixtures")
	defer span.End()

	lg, err := s.GetLeagueBySlug(ctx, leagueSlug)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var fixtures []fixture.Fixture
	month = strings.TrimSpace(month)
	if month != "" {
		start, err := time.Parse("2006-01", month)
		if err != nil {
			return nil, fmt.Errorf("%w: month must look like 2026-03", ErrInvalidInput)
		}
		from := start
		if now.After(from) {
			from = now
		}
		// The window bounds are inclusive.
		to := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
		fixtures, err = s.fixtureRepo.ListByKickoffWindow(ctx, lg.ID, from, to)
		if err != nil {
			return nil, fmt.Errorf("list league fixtures by month: %w", err)
		}
	} else {
		var err error
		fixtures, err = s.fixtureRepo.ListUpcomingByLeague(ctx, lg.ID, now)
		if err != nil {
			return nil, fmt.Errorf("list league fixtures: %w", err)
		}
	}

	sort.SliceStable(fixtures, func(i, j int) bool { return fixtures[i].KickoffAt.Before(fixtures[j].KickoffAt) })

	return fixtures, nil
}

func (s *MarketplaceService) GetFixtureBySlug(ctx context.Context, slug string) (FixtureDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "MarketplaceService.GetFixtureBySlug")
	defer span.End()

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return FixtureDetail{}, fmt.Errorf("%w: fixture slug is required", ErrInvalidInput)
	}

	f, ok, err := s.fixtureRepo.GetBySlug(ctx, slug)
	if err != nil {
		return FixtureDetail{}, fmt.Errorf("get fixture by slug: %w", err)
	}
	if !ok {
		return FixtureDetail{}, fmt.Errorf("%w: fixture %s", ErrNotFound, slug)
	}

	home, ok, err := s.teamRepo.GetByID(ctx, f.HomeTeamID)
	if err != nil {
		return FixtureDetail{}, fmt.Errorf("get home team: %w", err)
	}
	if !ok {
		return FixtureDetail{}, fmt.Errorf("%w: home team %s", ErrNotFound, f.HomeTeamID)
	}
	away, ok, err := s.teamRepo.GetByID(ctx, f.AwayTeamID)
	if err != nil {
		return FixtureDetail{}, fmt.Errorf("get away team: %w", err)
	}
	if !ok {
		return FixtureDetail{}, fmt.Errorf("%w: away team %s", ErrNotFound, f.AwayTeamID)
	}

	offers, err := s.offerRepo.ListAvailableByFixture(ctx, f.ID)
	if err != nil {
		return FixtureDetail{}, fmt.Errorf("list fixture offers: %w", err)
	}
	sort.SliceStable(offers, func(i, j int) bool { return offers[i].Price < offers[j].Price })

	return FixtureDetail{Fixture: f, HomeTeam: home, AwayTeam: away, Offers: offers}, nil
}

func (s *MarketplaceService) GetAgentBySlug(ctx context.Context, slug string) (AgentProfile, error) {
	ctx, span := startUsecaseSpan(ctx, "MarketplaceService.GetAgentBySlug")
	defer span.End()

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return AgentProfile{}, fmt.Errorf("%w: agent slug is required", ErrInvalidInput)
	}

	a, ok, err := s.agentRepo.GetBySlug(ctx, slug)
	if err != nil {
		return AgentProfile{}, fmt.Errorf("get agent by slug: %w", err)
	}
	if !ok {
		return AgentProfile{}, fmt.Errorf("%w: agent %s", ErrNotFound, slug)
	}

	reviews, err := s.reviewRepo.ListByAgent(ctx, a.ID)
	if err != nil {
		return AgentProfile{}, fmt.Errorf("list agent reviews: %w", err)
	}
	sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].CreatedAt.After(reviews[j].CreatedAt) })

	listings, err := s.offerRepo.ListByOwner(ctx, offer.OwnerTypeAgent, a.ID)
	if err != nil {
		return AgentProfile{}, fmt.Errorf("list agent offers: %w", err)
	}
	active := make([]offer.Offer, 0, len(listings))
	for _, o := range listings {
		if o.IsAvailable {
			active = append(active, o)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Price < active[j].Price })

	return AgentProfile{Agent: a, Reviews: reviews, Offers: active}, nil
}
