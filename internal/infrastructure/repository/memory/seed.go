package memory

import (
	"time"

	"github.com/ticketagent/marketplace/internal/domain/agent"
	"github.com/ticketagent/marketplace/internal/domain/fixture"
	"github.com/ticketagent/marketplace/internal/domain/league"
	"github.com/ticketagent/marketplace/internal/domain/review"
	"github.com/ticketagent/marketplace/internal/domain/supplier"
	"github.com/ticketagent/marketplace/internal/domain/team"
	"github.com/ticketagent/marketplace/internal/domain/venue"
)

const (
	LeagueIDPremierLeague = "eng-premier-league"
	LeagueIDBundesliga    = "deu-bundesliga"
	LeagueIDLigatHaAl     = "isr-ligat-haal"
)

func SeedLeagues() []league.League {
	return []league.League{
		{
			ID:         LeagueIDPremierLeague,
			NameEn:     "Premier League",
			Slug:       "premier-league",
			Type:       league.TypeLeague,
			CountryEn:  "England",
			IsPopular:  true,
			ExternalID: 39,
		},
		{
			ID:         LeagueIDBundesliga,
			NameEn:     "Bundesliga",
			Slug:       "bundesliga",
			Type:       league.TypeLeague,
			CountryEn:  "Germany",
			IsPopular:  true,
			ExternalID: 78,
		},
		{
			ID:           LeagueIDLigatHaAl,
			NameEn:       "Ligat ha'Al",
			NameLocal:    "ליגת העל",
			Slug:         "ligat-haal",
			Type:         league.TypeLeague,
			CountryEn:    "Israel",
			CountryLocal: "ישראל",
			ExternalID:   383,
		},
	}
}

func SeedVenues() []venue.Venue {
	return []venue.Venue{
		{ID: "ven-anfield", NameEn: "Anfield", CityEn: "Liverpool", CountryEn: "England", Capacity: 61276, ExternalID: 550},
		{ID: "ven-etihad", NameEn: "Etihad Stadium", CityEn: "Manchester", CountryEn: "England", Capacity: 53400, ExternalID: 555},
		{ID: "ven-signal-iduna", NameEn: "Signal Iduna Park", CityEn: "Dortmund", CountryEn: "Germany", Capacity: 81365, ExternalID: 700},
		{ID: "ven-allianz", NameEn: "Allianz Arena", CityEn: "Munich", CountryEn: "Germany", Capacity: 75024, ExternalID: 701},
		{ID: "ven-bloomfield", NameEn: "Bloomfield Stadium", NameLocal: "אצטדיון בלומפילד", CityEn: "Tel Aviv", CountryEn: "Israel", Capacity: 29400, ExternalID: 1320},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{
			ID: "team-liverpool", NameEn: "Liverpool", Code: "LIV", Slug: "liverpool",
			CountryEn: "England", VenueID: "ven-anfield",
			LeagueIDs: []string{LeagueIDPremierLeague}, IsPopular: true,
		},
		{
			ID: "team-man-city", NameEn: "Manchester City", Code: "MCI", Slug: "manchester-city",
			CountryEn: "England", VenueID: "ven-etihad",
			LeagueIDs: []string{LeagueIDPremierLeague}, IsPopular: true,
		},
		{
			ID: "team-dortmund", NameEn: "Borussia Dortmund", Code: "BVB", Slug: "borussia-dortmund",
			CountryEn: "Germany", VenueID: "ven-signal-iduna",
			LeagueIDs: []string{LeagueIDBundesliga}, IsPopular: true,
		},
		{
			ID: "team-bayern", NameEn: "Bayern Munich", NameLocal: "FC Bayern München", Code: "FCB", Slug: "bayern-munich",
			CountryEn: "Germany", VenueID: "ven-allianz",
			LeagueIDs: []string{LeagueIDBundesliga}, IsPopular: true,
		},
		{
			ID: "team-maccabi-ta", NameEn: "Maccabi Tel Aviv", NameLocal: "מכבי תל אביב", Code: "MTA", Slug: "maccabi-tel-aviv",
			CountryEn: "Israel", CountryLocal: "ישראל", VenueID: "ven-bloomfield",
			LeagueIDs: []string{LeagueIDLigatHaAl}, IsPopular: true,
		},
		{
			ID: "team-hapoel-ta", NameEn: "Hapoel Tel Aviv", NameLocal: "הפועל תל אביב", Code: "HTA", Slug: "hapoel-tel-aviv",
			CountryEn: "Israel", CountryLocal: "ישראל", VenueID: "ven-bloomfield",
			LeagueIDs: []string{LeagueIDLigatHaAl},
		},
	}
}

func SeedFixtures() []fixture.Fixture {
	return []fixture.Fixture{
		{
			ID:         "fix-liv-mci",
			LeagueID:   LeagueIDPremierLeague,
			HomeTeamID: "team-liverpool",
			AwayTeamID: "team-man-city",
			VenueID:    "ven-anfield",
			KickoffAt:  time.Date(2026, 10, 17, 16, 30, 0, 0, time.UTC),
			Status:     fixture.StatusNotStarted,
			Round:      "Regular Season - 8",
			Slug:       "premier-league-liverpool-vs-manchester-city-2026-10-17",
			ExternalID: 1208021,
			IsHot:      true,
		},
		{
			ID:         "fix-bvb-fcb",
			LeagueID:   LeagueIDBundesliga,
			HomeTeamID: "team-dortmund",
			AwayTeamID: "team-bayern",
			VenueID:    "ven-signal-iduna",
			KickoffAt:  time.Date(2026, 10, 24, 16, 30, 0, 0, time.UTC),
			Status:     fixture.StatusNotStarted,
			Round:      "Regular Season - 8",
			Slug:       "bundesliga-borussia-dortmund-vs-bayern-munich-2026-10-24",
			ExternalID: 1302114,
			IsHot:      true,
		},
		{
			ID:         "fix-mta-hta",
			LeagueID:   LeagueIDLigatHaAl,
			HomeTeamID: "team-maccabi-ta",
			AwayTeamID: "team-hapoel-ta",
			VenueID:    "ven-bloomfield",
			KickoffAt:  time.Date(2026, 11, 2, 18, 0, 0, 0, time.UTC),
			Status:     fixture.StatusNotStarted,
			Round:      "Regular Season - 10",
			Slug:       "ligat-haal-maccabi-tel-aviv-vs-hapoel-tel-aviv-2026-11-02",
			ExternalID: 1405230,
		},
	}
}

func SeedSuppliers() []supplier.Supplier {
	return []supplier.Supplier{
		{ID: "sup-hellotickets", Name: "HelloTickets", Slug: supplier.SlugHelloTickets, SyncMethod: supplier.SyncMethodAPI, Priority: 1, IsActive: true},
		{ID: "sup-p1-travel", Name: "P1 Travel", Slug: supplier.SlugP1Travel, SyncMethod: supplier.SyncMethodFeed, Priority: 2, IsActive: true},
	}
}

func SeedAgents() []agent.Agent {
	return []agent.Agent{
		{ID: "agent-goalside", Name: "Goalside Tickets", Slug: "goalside-tickets", Email: "sales@goalside.example", ExternalRating: 4.6, IsActive: true},
	}
}

func SeedReviews() []review.Review {
	return []review.Review{
		{
			ID:        "rev-001",
			AgentID:   "agent-goalside",
			Author:    "Dana",
			Rating:    5,
			Comment:   "Tickets arrived two days before the match, seats as described.",
			CreatedAt: time.Date(2026, 5, 12, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:        "rev-002",
			AgentID:   "agent-goalside",
			Author:    "Tom",
			Rating:    4,
			Comment:   "Good price, slow email support.",
			CreatedAt: time.Date(2026, 6, 3, 18, 12, 0, 0, time.UTC),
		},
	}
}
