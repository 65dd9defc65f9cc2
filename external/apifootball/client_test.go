package apifootball

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ticketagent/marketplace/internal/platform/logging"
)

const fixturesPayload = `{
  "response": [
    {
      "fixture": {
        "id": 987,
        "date": "2026-03-14T18:30:00+00:00",
        "status": {"long": "Not Started"},
        "venue": {"id": 700, "name": "BayArena", "city": "Leverkusen"}
      },
      "league": {"id": 78, "round": "Regular Season - 26"},
      "teams": {
        "home": {"id": 168, "name": "Bayer Leverkusen"},
        "away": {"id": 157, "name": "Bayern Munich"}
      }
    },
    {
      "fixture": {"id": 0, "date": ""},
      "league": {"id": 78},
      "teams": {"home": {}, "away": {}}
    }
  ]
}`

const teamsPayload = `{
  "response": [
    {
      "team": {"id": 168, "name": "Bayer Leverkusen", "code": "LEV", "country": "Germany", "logo": "https://cdn/168.png"},
      "venue": {"id": 700, "name": "BayArena", "city": "Leverkusen", "capacity": 30210}
    },
    {
      "team": {"id": 157, "name": "Bayern Munich", "code": "BAY", "country": "Germany", "logo": "https://cdn/157.png"},
      "venue": {"id": 700, "name": "BayArena", "city": "Leverkusen", "capacity": 30210}
    }
  ]
}`

func TestFetchLeagueBundle(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-apisports-key") != "token-123" {
			t.Errorf("missing api key header")
		}
		switch r.URL.Path {
		case "/fixtures":
			_, _ = w.Write([]byte(fixturesPayload))
		case "/teams":
			_, _ = w.Write([]byte(teamsPayload))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, Token: "token-123", Logger: logging.NewNop()})

	bundle, err := c.FetchLeagueBundle(context.Background(), 78, 2026)
	if err != nil {
		t.Fatalf("fetch bundle: %v", err)
	}

	if len(bundle.Fixtures) != 1 {
		t.Fatalf("expected the zero-id fixture dropped, got %d fixtures", len(bundle.Fixtures))
	}
	fx := bundle.Fixtures[0]
	if fx.ExternalID != 987 || fx.HomeTeamName != "Bayer Leverkusen" || fx.AwayTeamName != "Bayern Munich" {
		t.Fatalf("unexpected fixture: %+v", fx)
	}
	want := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	if !fx.KickoffAt.Equal(want) {
		t.Fatalf("kickoff = %s, want %s", fx.KickoffAt, want)
	}
	if fx.Status != "Not Started" || fx.Round != "Regular Season - 26" {
		t.Fatalf("unexpected fixture meta: %+v", fx)
	}

	if len(bundle.Teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(bundle.Teams))
	}
	if len(bundle.Venues) != 1 {
		t.Fatalf("expected shared venue deduplicated, got %d", len(bundle.Venues))
	}
	if bundle.Venues[0].ExternalID != 700 || bundle.Venues[0].Capacity != 30210 {
		t.Fatalf("unexpected venue: %+v", bundle.Venues[0])
	}
}

func TestFetchLeagueBundleRetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fixtures" {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(fixturesPayload))
			return
		}
		_, _ = w.Write([]byte(teamsPayload))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, Token: "t", MaxRetries: 1, Logger: logging.NewNop()})

	if _, err := c.FetchLeagueBundle(context.Background(), 78, 2026); err != nil {
		t.Fatalf("fetch bundle after retry: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected one retry, got %d calls", calls)
	}
}

func TestFetchLeagueBundleFailsFastOnClientError(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, Token: "t", MaxRetries: 3, Logger: logging.NewNop()})

	if _, err := c.FetchLeagueBundle(context.Background(), 78, 2026); err == nil {
		t.Fatal("expected error for 403 response")
	}
	if calls != 1 {
		t.Fatalf("4xx must not be retried, got %d calls", calls)
	}
}

func TestParseProviderDateTime(t *testing.T) {
	t.Parallel()

	if parseProviderDateTime("") != nil {
		t.Fatal("empty input must yield nil")
	}
	parsed := parseProviderDateTime("2026-03-14T19:30:00+01:00")
	if parsed == nil {
		t.Fatal("expected offset timestamp to parse")
	}
	want := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	if !parsed.Equal(want) {
		t.Fatalf("parsed = %s, want %s", parsed, want)
	}
}
