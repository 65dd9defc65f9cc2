package apifootball

import (
	"sort"
	"strings"
	"time"

	"github.com/ticketagent/marketplace/internal/usecase"
)

// Wire shapes for the two endpoints the sync uses. Only the fields the
// mapping reads are declared.

type fixturesEnvelope struct {
	Response []fixtureItem `json:"response"`
}

type fixtureItem struct {
	Fixture struct {
		ID     int64  `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Long string `json:"long"`
		} `json:"status"`
		Venue struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
			City string `json:"city"`
		} `json:"venue"`
	} `json:"fixture"`
	League struct {
		ID    int64  `json:"id"`
		Round string `json:"round"`
	} `json:"league"`
	Teams struct {
		Home teamRef `json:"home"`
		Away teamRef `json:"away"`
	} `json:"teams"`
}

type teamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type teamsEnvelope struct {
	Response []teamItem `json:"response"`
}

type teamItem struct {
	Team struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Code    string `json:"code"`
		Country string `json:"country"`
		Logo    string `json:"logo"`
	} `json:"team"`
	Venue venueItem `json:"venue"`
}

type venueItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Capacity int    `json:"capacity"`
	Image    string `json:"image"`
}

func mapFixturesToExternal(items []fixtureItem, leagueExternalID int64) []usecase.ExternalFixture {
	out := make([]usecase.ExternalFixture, 0, len(items))
	for _, item := range items {
		if item.Fixture.ID <= 0 {
			continue
		}
		fx := usecase.ExternalFixture{
			ExternalID:         item.Fixture.ID,
			LeagueExternalID:   leagueExternalID,
			HomeTeamName:       strings.TrimSpace(item.Teams.Home.Name),
			AwayTeamName:       strings.TrimSpace(item.Teams.Away.Name),
			HomeTeamExternalID: item.Teams.Home.ID,
			AwayTeamExternalID: item.Teams.Away.ID,
			VenueExternalID:    item.Fixture.Venue.ID,
			Status:             strings.TrimSpace(item.Fixture.Status.Long),
			Round:              strings.TrimSpace(item.League.Round),
		}
		if parsed := parseProviderDateTime(item.Fixture.Date); parsed != nil {
			fx.KickoffAt = *parsed
		}
		out = append(out, fx)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExternalID < out[j].ExternalID })

	return out
}

func mapTeamToExternal(item teamItem) usecase.ExternalTeam {
	return usecase.ExternalTeam{
		ExternalID:      item.Team.ID,
		Name:            strings.TrimSpace(item.Team.Name),
		Code:            strings.TrimSpace(item.Team.Code),
		Country:         strings.TrimSpace(item.Team.Country),
		LogoURL:         strings.TrimSpace(item.Team.Logo),
		VenueExternalID: item.Venue.ID,
	}
}

func mapVenueToExternal(item venueItem) usecase.ExternalVenue {
	return usecase.ExternalVenue{
		ExternalID: item.ID,
		Name:       strings.TrimSpace(item.Name),
		City:       strings.TrimSpace(item.City),
		Capacity:   item.Capacity,
		ImageURL:   strings.TrimSpace(item.Image),
	}
}

// parseProviderDateTime accepts the ISO-8601 variants the provider emits.
func parseProviderDateTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-07:00", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}
