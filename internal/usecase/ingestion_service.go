package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ticketagent/marketplace/internal/domain/fixture"
	"github.com/ticketagent/marketplace/internal/domain/league"
	"github.com/ticketagent/marketplace/internal/domain/team"
	"github.com/ticketagent/marketplace/internal/domain/venue"
	idgen "github.com/ticketagent/marketplace/internal/platform/id"
	"github.com/ticketagent/marketplace/internal/platform/logging"
	"github.com/ticketagent/marketplace/internal/report"
)

// SportDataRefID keys the external references written for the
// sports-data provider on teams and fixtures.
const SportDataRefID = "api-football"

// SportDataProvider feeds league snapshots from the truth source.
type SportDataProvider interface {
	FetchLeagueBundle(ctx context.Context, leagueExternalID int64, season int) (ExternalFixtureBundle, error)
}

// IngestionService performs the initial import of a league: venues,
// teams and fixtures that do not exist locally yet. Existing records
// are left alone; the sync services reconcile those.
type IngestionService struct {
	leagueRepo  league.Repository
	teamRepo    team.Repository
	venueRepo   venue.Repository
	fixtureRepo fixture.Repository
	provider    SportDataProvider

	leagueExternalIDs map[string]int64
	season            int

	idGen  idgen.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewIngestionService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	venueRepo venue.Repository,
	fixtureRepo fixture.Repository,
	provider SportDataProvider,
	leagueExternalIDs map[string]int64,
	season int,
	idGen idgen.Generator,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestionService{
		leagueRepo:        leagueRepo,
		teamRepo:          teamRepo,
		venueRepo:         venueRepo,
		fixtureRepo:       fixtureRepo,
		provider:          provider,
		leagueExternalIDs: leagueExternalIDs,
		season:            season,
		idGen:             idGen,
		logger:            logger,
		now:               time.Now,
	}
}

// ImportLeague pulls one league snapshot and creates anything missing.
func (s *IngestionService) ImportLeague(ctx context.Context, leagueID string) (report.Counters, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestionService.ImportLeague")
	defer span.End()

	var counters report.Counters

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return counters, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	lg, ok, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return counters, fmt.Errorf("get league for import: %w", err)
	}
	if !ok {
		return counters, fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}

	externalID, ok := s.leagueExternalIDs[leagueID]
	if !ok {
		return counters, fmt.Errorf("%w: league %s has no provider mapping", ErrInvalidInput, leagueID)
	}

	bundle, err := s.provider.FetchLeagueBundle(ctx, externalID, s.season)
	if err != nil {
		return counters, fmt.Errorf("fetch league bundle: %w", err)
	}

	venueIDByExternal, created, err := s.importVenues(ctx, bundle.Venues)
	if err != nil {
		return counters, err
	}
	counters.Created += created

	teamIDByExternal, created, err := s.importTeams(ctx, lg, bundle.Teams, venueIDByExternal)
	if err != nil {
		return counters, err
	}
	counters.Created += created

	for _, ext := range bundle.Fixtures {
		counters.Processed++

		_, exists, err := s.fixtureRepo.GetByExternalID(ctx, ext.ExternalID)
		if err != nil {
			counters.Errors++
			s.logger.ErrorContext(ctx, "lookup fixture during import failed",
				"external_id", ext.ExternalID, "error", err)
			continue
		}
		if exists {
			counters.Skipped++
			continue
		}

		homeID := teamIDByExternal[ext.HomeTeamExternalID]
		awayID := teamIDByExternal[ext.AwayTeamExternalID]
		if homeID == "" || awayID == "" || homeID == awayID {
			counters.Errors++
			s.logger.WarnContext(ctx, "skip fixture with unresolved teams",
				"external_id", ext.ExternalID,
				"home_team", ext.HomeTeamName, "away_team", ext.AwayTeamName)
			continue
		}

		created, err := s.createFixture(ctx, lg, ext, homeID, awayID, venueIDByExternal[ext.VenueExternalID])
		if err != nil {
			counters.Errors++
			s.logger.ErrorContext(ctx, "create fixture failed",
				"external_id", ext.ExternalID, "error", err)
			continue
		}
		if created {
			counters.Created++
		} else {
			counters.Skipped++
		}
	}

	s.logger.InfoContext(ctx, "league import finished",
		"league_id", leagueID,
		"created", counters.Created, "skipped", counters.Skipped, "errors", counters.Errors)

	return counters, nil
}

func (s *IngestionService) importVenues(ctx context.Context, venues []ExternalVenue) (map[int64]string, int, error) {
	byExternal := make(map[int64]string, len(venues))
	created := 0

	for _, ext := range venues {
		if ext.ExternalID <= 0 {
			continue
		}
		existing, ok, err := s.venueRepo.GetByExternalID(ctx, ext.ExternalID)
		if err != nil {
			return nil, created, fmt.Errorf("lookup venue external_id=%d: %w", ext.ExternalID, err)
		}
		if ok {
			byExternal[ext.ExternalID] = existing.ID
			continue
		}

		id, err := s.idGen.NewID()
		if err != nil {
			return nil, created, fmt.Errorf("generate venue id: %w", err)
		}
		v := venue.Venue{
			ID:         id,
			NameEn:     ext.Name,
			CityEn:     ext.City,
			CountryEn:  ext.Country,
			Capacity:   ext.Capacity,
			ImageURL:   ext.ImageURL,
			ExternalID: ext.ExternalID,
		}
		if err := v.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skip invalid venue", "external_id", ext.ExternalID, "error", err)
			continue
		}
		if err := s.venueRepo.Create(ctx, v); err != nil {
			return nil, created, fmt.Errorf("create venue external_id=%d: %w", ext.ExternalID, err)
		}
		byExternal[ext.ExternalID] = id
		created++
	}

	return byExternal, created, nil
}

func (s *IngestionService) importTeams(ctx context.Context, lg league.League, teams []ExternalTeam, venueIDByExternal map[int64]string) (map[int64]string, int, error) {
	existing, err := s.teamRepo.ListAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list teams for import: %w", err)
	}

	byRef := make(map[string]team.Team, len(existing))
	byName := make(map[string]team.Team, len(existing))
	for _, t := range existing {
		if ref, ok := t.SupplierRefFor(SportDataRefID); ok {
			byRef[ref.ExternalTeamID] = t
		}
		byName[strings.ToLower(t.NameEn)] = t
	}

	byExternal := make(map[int64]string, len(teams))
	created := 0

	for _, ext := range teams {
		if ext.ExternalID <= 0 {
			continue
		}
		extKey := fmt.Sprintf("%d", ext.ExternalID)

		if t, ok := byRef[extKey]; ok {
			byExternal[ext.ExternalID] = t.ID
			continue
		}
		if t, ok := byName[strings.ToLower(ext.Name)]; ok {
			byExternal[ext.ExternalID] = t.ID
			if err := s.teamRepo.UpsertSupplierRef(ctx, t.ID, team.SupplierRef{
				SupplierID:       SportDataRefID,
				ExternalTeamID:   extKey,
				ExternalTeamName: ext.Name,
			}); err != nil {
				return nil, created, fmt.Errorf("backfill team ref external_id=%d: %w", ext.ExternalID, err)
			}
			continue
		}

		id, err := s.idGen.NewID()
		if err != nil {
			return nil, created, fmt.Errorf("generate team id: %w", err)
		}
		t := team.Team{
			ID:        id,
			NameEn:    ext.Name,
			Code:      ext.Code,
			Slug:      Slugify(ext.Name),
			CountryEn: ext.Country,
			LogoURL:   ext.LogoURL,
			VenueID:   venueIDByExternal[ext.VenueExternalID],
			LeagueIDs: []string{lg.ID},
		}
		if err := t.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skip invalid team", "external_id", ext.ExternalID, "error", err)
			continue
		}
		if err := s.teamRepo.Create(ctx, t); err != nil {
			return nil, created, fmt.Errorf("create team external_id=%d: %w", ext.ExternalID, err)
		}
		if err := s.teamRepo.UpsertSupplierRef(ctx, t.ID, team.SupplierRef{
			SupplierID:       SportDataRefID,
			ExternalTeamID:   extKey,
			ExternalTeamName: ext.Name,
		}); err != nil {
			return nil, created, fmt.Errorf("store team ref external_id=%d: %w", ext.ExternalID, err)
		}
		byExternal[ext.ExternalID] = id
		created++
	}

	return byExternal, created, nil
}

func (s *IngestionService) createFixture(ctx context.Context, lg league.League, ext ExternalFixture, homeID, awayID, venueID string) (bool, error) {
	homeTeam, ok, err := s.teamRepo.GetByID(ctx, homeID)
	if err != nil {
		return false, fmt.Errorf("load home team %s: %w", homeID, err)
	}
	if !ok {
		return false, fmt.Errorf("%w: home team %s", ErrNotFound, homeID)
	}
	awayTeam, ok, err := s.teamRepo.GetByID(ctx, awayID)
	if err != nil {
		return false, fmt.Errorf("load away team %s: %w", awayID, err)
	}
	if !ok {
		return false, fmt.Errorf("%w: away team %s", ErrNotFound, awayID)
	}

	slug := fixture.BuildSlug(lg.Slug, homeTeam.Slug, awayTeam.Slug, ext.KickoffAt)
	taken, err := s.fixtureRepo.SlugTaken(ctx, slug, "")
	if err != nil {
		return false, fmt.Errorf("check fixture slug: %w", err)
	}
	if taken {
		s.logger.WarnContext(ctx, "skip fixture with colliding slug",
			"slug", slug, "external_id", ext.ExternalID)
		return false, nil
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return false, fmt.Errorf("generate fixture id: %w", err)
	}
	f := fixture.Fixture{
		ID:         id,
		LeagueID:   lg.ID,
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		VenueID:    venueID,
		KickoffAt:  ext.KickoffAt,
		Status:     ext.Status,
		Round:      ext.Round,
		Slug:       slug,
		ExternalID: ext.ExternalID,
		UpdatedAt:  s.now().UTC(),
	}
	if err := f.Validate(); err != nil {
		return false, fmt.Errorf("validate fixture external_id=%d: %w", ext.ExternalID, err)
	}
	if err := s.fixtureRepo.Create(ctx, f); err != nil {
		return false, fmt.Errorf("create fixture external_id=%d: %w", ext.ExternalID, err)
	}

	return true, nil
}

var slugFoldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify builds a URL-safe slug from a display name.
func Slugify(name string) string {
	folded, _, err := transform.String(slugFoldMarks, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
