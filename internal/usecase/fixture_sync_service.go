package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ticketagent/marketplace/internal/domain/fixture"
	"github.com/ticketagent/marketplace/internal/domain/league"
	"github.com/ticketagent/marketplace/internal/domain/team"
	"github.com/ticketagent/marketplace/internal/domain/venue"
	"github.com/ticketagent/marketplace/internal/platform/logging"
	"github.com/ticketagent/marketplace/internal/reconcile"
	"github.com/ticketagent/marketplace/internal/report"
)

// FixtureSyncService reconciles stored fixtures against the sports-data
// provider: kickoff drift, venue changes, missing external IDs and
// reversed home/away assignments. It never creates fixtures; that is
// the ingestion service's job.
type FixtureSyncService struct {
	leagueRepo  league.Repository
	teamRepo    team.Repository
	venueRepo   venue.Repository
	fixtureRepo fixture.Repository
	provider    SportDataProvider
	applier     *reconcile.Applier
	aliases     *reconcile.AliasTable
	reports     *report.Writer

	leagueExternalIDs map[string]int64
	season            int
	matchWindow       time.Duration

	logger *logging.Logger
	now    func() time.Time
}

func NewFixtureSyncService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	venueRepo venue.Repository,
	fixtureRepo fixture.Repository,
	provider SportDataProvider,
	applier *reconcile.Applier,
	aliases *reconcile.AliasTable,
	reports *report.Writer,
	leagueExternalIDs map[string]int64,
	season int,
	matchWindow time.Duration,
	logger *logging.Logger,
) *FixtureSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if matchWindow <= 0 {
		matchWindow = 24 * time.Hour
	}
	return &FixtureSyncService{
		leagueRepo:        leagueRepo,
		teamRepo:          teamRepo,
		venueRepo:         venueRepo,
		fixtureRepo:       fixtureRepo,
		provider:          provider,
		applier:           applier,
		aliases:           aliases,
		reports:           reports,
		leagueExternalIDs: leagueExternalIDs,
		season:            season,
		matchWindow:       matchWindow,
		logger:            logger,
		now:               time.Now,
	}
}

// SyncLeague reconciles one league and writes a run report. A resume
// checkpoint is kept per league, so a rerun after an interruption skips
// records already applied.
func (s *FixtureSyncService) SyncLeague(ctx context.Context, leagueID string) (report.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "FixtureSyncService.SyncLeague")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return report.Run{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	lg, ok, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return report.Run{}, fmt.Errorf("get league for sync: %w", err)
	}
	if !ok {
		return report.Run{}, fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}

	externalID, ok := s.leagueExternalIDs[leagueID]
	if !ok {
		return report.Run{}, fmt.Errorf("%w: league %s has no provider mapping", ErrInvalidInput, leagueID)
	}

	bundle, err := s.provider.FetchLeagueBundle(ctx, externalID, s.season)
	if err != nil {
		return report.Run{}, fmt.Errorf("fetch league bundle: %w", err)
	}

	teams, err := s.teamRepo.ListAll(ctx)
	if err != nil {
		return report.Run{}, fmt.Errorf("list teams for sync: %w", err)
	}
	fixtures, err := s.fixtureRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return report.Run{}, fmt.Errorf("list fixtures for sync: %w", err)
	}

	teamResolver := reconcile.NewTeamResolver(teams, s.aliases)
	fixtureResolver := reconcile.NewFixtureResolver(fixtures)

	source := "api-football-" + lg.Slug
	resumeFrom, err := s.reports.LoadCheckpoint(source)
	if err != nil {
		s.logger.WarnContext(ctx, "checkpoint unreadable, starting from the top",
			"source", source, "error", err)
		resumeFrom = -1
	}

	run := report.Run{Source: source, GeneratedAt: s.now().UTC()}

	for i, ext := range bundle.Fixtures {
		if i <= resumeFrom {
			continue
		}
		if err := ctx.Err(); err != nil {
			// Keep the checkpoint; the next run resumes here.
			return run, err
		}
		run.Counters.Processed++

		s.syncFixture(ctx, &run, i, lg, teamResolver, fixtureResolver, ext)

		if err := s.reports.SaveCheckpoint(source, i); err != nil {
			s.logger.WarnContext(ctx, "save checkpoint failed", "source", source, "error", err)
		}
	}

	if err := s.reports.ClearCheckpoint(source); err != nil {
		s.logger.WarnContext(ctx, "clear checkpoint failed", "source", source, "error", err)
	}
	if _, err := s.reports.Write(run); err != nil {
		s.logger.WarnContext(ctx, "write run report failed", "source", source, "error", err)
	}

	s.logger.InfoContext(ctx, "league sync finished",
		"league_id", leagueID,
		"processed", run.Counters.Processed,
		"updated", run.Counters.Updated,
		"reversed", run.Counters.Reversed,
		"skipped", run.Counters.Skipped,
		"errors", run.Counters.Errors)

	return run, nil
}

func (s *FixtureSyncService) syncFixture(
	ctx context.Context,
	run *report.Run,
	index int,
	lg league.League,
	teamResolver *reconcile.TeamResolver,
	fixtureResolver *reconcile.FixtureResolver,
	ext ExternalFixture,
) {
	home, _ := teamResolver.Resolve(reconcile.TeamQuery{
		Name:       ext.HomeTeamName,
		ExternalID: strconv.FormatInt(ext.HomeTeamExternalID, 10),
		SupplierID: SportDataRefID,
		LeagueID:   lg.ID,
	})
	away, _ := teamResolver.Resolve(reconcile.TeamQuery{
		Name:       ext.AwayTeamName,
		ExternalID: strconv.FormatInt(ext.AwayTeamExternalID, 10),
		SupplierID: SportDataRefID,
		LeagueID:   lg.ID,
	})
	if home == nil || away == nil {
		run.Counters.Skipped++
		run.Unresolved = append(run.Unresolved, report.UnresolvedItem{
			RecordIndex:     index,
			SupplierEventID: strconv.FormatInt(ext.ExternalID, 10),
			HomeTeamName:    ext.HomeTeamName,
			AwayTeamName:    ext.AwayTeamName,
			Reason:          "team not resolved",
		})
		return
	}

	match, miss := fixtureResolver.Resolve(home.ID, away.ID, ext.KickoffAt, s.matchWindow)
	if match == nil {
		run.Counters.Skipped++
		if miss != nil {
			run.DateMismatches = append(run.DateMismatches, report.DateMismatch{
				SupplierEventID: strconv.FormatInt(ext.ExternalID, 10),
				FixtureID:       miss.Fixture.ID,
				DeltaHours:      miss.Delta.Hours(),
				Reversed:        miss.Reversed,
			})
			return
		}
		run.Unresolved = append(run.Unresolved, report.UnresolvedItem{
			RecordIndex:     index,
			SupplierEventID: strconv.FormatInt(ext.ExternalID, 10),
			HomeTeamName:    ext.HomeTeamName,
			AwayTeamName:    ext.AwayTeamName,
			Reason:          "fixture not found",
		})
		return
	}

	patch := reconcile.FixturePatch{
		LeagueSlug: lg.Slug,
		HomeSlug:   home.Slug,
		AwaySlug:   away.Slug,
	}
	if !ext.KickoffAt.IsZero() {
		kickoff := ext.KickoffAt
		patch.KickoffAt = &kickoff
	}
	if ext.ExternalID > 0 {
		externalID := ext.ExternalID
		patch.ExternalID = &externalID
	}
	if ext.VenueExternalID > 0 {
		if v, ok, err := s.venueRepo.GetByExternalID(ctx, ext.VenueExternalID); err == nil && ok {
			venueID := v.ID
			patch.VenueID = &venueID
		}
	}
	if match.Reversed {
		homeID, awayID := home.ID, away.ID
		patch.HomeTeamID = &homeID
		patch.AwayTeamID = &awayID
	}

	result, err := s.applier.ApplyFixtureUpdate(ctx, match.Fixture, patch)
	if err != nil {
		run.Counters.Errors++
		if errors.Is(err, reconcile.ErrConcurrentUpdate) {
			s.logger.WarnContext(ctx, "fixture changed under sync, will retry next run",
				"fixture_id", match.Fixture.ID)
			return
		}
		s.logger.ErrorContext(ctx, "apply fixture update failed",
			"fixture_id", match.Fixture.ID, "error", err)
		return
	}

	if result.Updated {
		run.Counters.Updated++
		if match.Reversed {
			run.Counters.Reversed++
		}
		return
	}
	run.Counters.Skipped++
}
