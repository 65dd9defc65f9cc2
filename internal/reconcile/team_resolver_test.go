package reconcile

import (
	"testing"

	"github.com/ticketagent/marketplace/internal/domain/team"
)

func testTeams() []team.Team {
	return []team.Team{
		{
			ID:        "team-leverkusen",
			NameEn:    "Bayer Leverkusen",
			Slug:      "bayer-leverkusen",
			LeagueIDs: []string{"league-bundesliga"},
		},
		{
			ID:        "team-bayern",
			NameEn:    "Bayern Munich",
			NameLocal: "באיירן מינכן",
			Slug:      "bayern-munich",
			LeagueIDs: []string{"league-bundesliga"},
			SupplierRefs: []team.SupplierRef{
				{SupplierID: "supplier-ht", ExternalTeamID: "ht-157", ExternalTeamName: "Bayern Munchen"},
			},
		},
		{
			ID:        "team-dortmund",
			NameEn:    "Borussia Dortmund",
			Slug:      "borussia-dortmund",
			LeagueIDs: []string{"league-bundesliga"},
		},
		{
			ID:        "team-man-united",
			NameEn:    "Manchester United",
			Slug:      "manchester-united",
			LeagueIDs: []string{"league-premier"},
		},
		{
			ID:        "team-man-city",
			NameEn:    "Manchester City",
			Slug:      "manchester-city",
			LeagueIDs: []string{"league-premier"},
		},
	}
}

func TestTeamResolverSupplierRefWinsOverExactName(t *testing.T) {
	t.Parallel()

	teams := testTeams()
	// A decoy whose display name equals the query exactly. The supplier
	// reference on the Bayern record must still win.
	teams = append(teams, team.Team{
		ID:     "team-decoy",
		NameEn: "Bayern Munchen",
		Slug:   "decoy",
	})
	r := NewTeamResolver(teams, nil)

	got, method := r.Resolve(TeamQuery{
		Name:       "Bayern Munchen",
		ExternalID: "ht-157",
		SupplierID: "supplier-ht",
	})
	if got == nil || got.ID != "team-bayern" {
		t.Fatalf("resolved %+v, want team-bayern", got)
	}
	if method != MatchSupplierRef {
		t.Fatalf("method = %q, want %q", method, MatchSupplierRef)
	}
}

func TestTeamResolverExactNameEitherLocale(t *testing.T) {
	t.Parallel()

	r := NewTeamResolver(testTeams(), nil)

	got, method := r.Resolve(TeamQuery{Name: "באיירן מינכן"})
	if got == nil || got.ID != "team-bayern" {
		t.Fatalf("resolved %+v, want team-bayern", got)
	}
	if method != MatchExactName {
		t.Fatalf("method = %q, want %q", method, MatchExactName)
	}
}

func TestTeamResolverNormalizedName(t *testing.T) {
	t.Parallel()

	r := NewTeamResolver(testTeams(), nil)

	got, method := r.Resolve(TeamQuery{Name: "Bayer 04 Leverkusen"})
	if got == nil || got.ID != "team-leverkusen" {
		t.Fatalf("resolved %+v, want team-leverkusen", got)
	}
	if method != MatchNormalizedName {
		t.Fatalf("method = %q, want %q", method, MatchNormalizedName)
	}
}

func TestTeamResolverAlias(t *testing.T) {
	t.Parallel()

	r := NewTeamResolver(testTeams(), nil)

	// Normalization alone gives "bayern munchen" vs "bayern munich", so
	// this only resolves through the alias table.
	got, method := r.Resolve(TeamQuery{Name: "FC Bayern München"})
	if got == nil || got.ID != "team-bayern" {
		t.Fatalf("resolved %+v, want team-bayern", got)
	}
	if method != MatchAlias {
		t.Fatalf("method = %q, want %q", method, MatchAlias)
	}
}

func TestTeamResolverPartialScopedToLeague(t *testing.T) {
	t.Parallel()

	r := NewTeamResolver(testTeams(), nil)

	got, method := r.Resolve(TeamQuery{Name: "Dortmund", LeagueID: "league-bundesliga"})
	if got == nil || got.ID != "team-dortmund" {
		t.Fatalf("resolved %+v, want team-dortmund", got)
	}
	if method != MatchPartial {
		t.Fatalf("method = %q, want %q", method, MatchPartial)
	}

	if got, _ := r.Resolve(TeamQuery{Name: "Dortmund", LeagueID: "league-premier"}); got != nil {
		t.Fatalf("resolved %+v outside its league, want nil", got)
	}
}

func TestTeamResolverAmbiguousNormalizedKeyRefused(t *testing.T) {
	t.Parallel()

	r := NewTeamResolver(testTeams(), nil)

	// Both Manchester clubs normalize to "manchester"; neither the
	// normalized nor the partial strategy may pick one of them.
	if got, _ := r.Resolve(TeamQuery{Name: "Manchester"}); got != nil {
		t.Fatalf("resolved %+v for ambiguous name, want nil", got)
	}
}

func TestTeamResolverNoMatch(t *testing.T) {
	t.Parallel()

	r := NewTeamResolver(testTeams(), nil)

	got, method := r.Resolve(TeamQuery{Name: "Ajax"})
	if got != nil {
		t.Fatalf("resolved %+v, want nil", got)
	}
	if method != MatchNone {
		t.Fatalf("method = %q, want %q", method, MatchNone)
	}
}
