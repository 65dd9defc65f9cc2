package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ticketagent/marketplace/internal/domain/fixture"
	"github.com/ticketagent/marketplace/internal/domain/league"
	"github.com/ticketagent/marketplace/internal/platform/logging"
)

// LeagueMonthsService recomputes the derived per-league month list: the
// distinct "2006-01" keys with at least one upcoming fixture. The list
// drives the calendar filter in the storefront.
type LeagueMonthsService struct {
	leagueRepo  league.Repository
	fixtureRepo fixture.Repository
	logger      *logging.Logger
	now         func() time.Time
}

func NewLeagueMonthsService(leagueRepo league.Repository, fixtureRepo fixture.Repository, logger *logging.Logger) *LeagueMonthsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeagueMonthsService{
		leagueRepo:  leagueRepo,
		fixtureRepo: fixtureRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// RecomputeAll refreshes the month list of every league and returns how
// many leagues changed.
func (s *LeagueMonthsService) RecomputeAll(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueMonthsService.RecomputeAll")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list leagues for month recompute: %w", err)
	}

	updated := 0
	for _, lg := range leagues {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		months, err := s.monthsForLeague(ctx, lg.ID)
		if err != nil {
			s.logger.ErrorContext(ctx, "compute league months failed", "league_id", lg.ID, "error", err)
			continue
		}
		if equalMonths(lg.Months, months) {
			continue
		}
		if err := s.leagueRepo.UpdateMonths(ctx, lg.ID, months); err != nil {
			s.logger.ErrorContext(ctx, "update league months failed", "league_id", lg.ID, "error", err)
			continue
		}
		updated++
	}

	return updated, nil
}

func (s *LeagueMonthsService) monthsForLeague(ctx context.Context, leagueID string) ([]string, error) {
	fixtures, err := s.fixtureRepo.ListUpcomingByLeague(ctx, leagueID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, 12)
	months := make([]string, 0, 12)
	for _, f := range fixtures {
		key := f.KickoffAt.UTC().Format("2006-01")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		months = append(months, key)
	}
	sort.Strings(months)

	return months, nil
}

func equalMonths(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
