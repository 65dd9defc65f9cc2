package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/ticketagent/marketplace/internal/domain/offer"
	"github.com/ticketagent/marketplace/internal/infrastructure/repository/memory"
	"github.com/ticketagent/marketplace/internal/platform/logging"
	"github.com/ticketagent/marketplace/internal/usecase"
)

const testJobToken = "sync-secret"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	offers := []offer.Offer{
		{
			ID:          "of-goalside-liv",
			FixtureID:   "fix-liv-mci",
			OwnerType:   offer.OwnerTypeAgent,
			OwnerID:     "agent-goalside",
			TicketType:  offer.TicketTypeStandard,
			Price:       185,
			Currency:    "EUR",
			URL:         "https://goalside.example/liv-mci",
			IsAvailable: true,
			UpdatedAt:   time.Date(2026, 9, 20, 10, 0, 0, 0, time.UTC),
		},
	}

	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	venueRepo := memory.NewVenueRepository(memory.SeedVenues())
	marketplaceService := usecase.NewMarketplaceService(
		memory.NewLeagueRepository(memory.SeedLeagues()),
		teamRepo,
		memory.NewFixtureRepository(memory.SeedFixtures()),
		memory.NewOfferRepository(offers),
		memory.NewAgentRepository(memory.SeedAgents()),
		memory.NewReviewRepository(memory.SeedReviews()),
		memory.NewSupplierRepository(memory.SeedSuppliers()),
	)

	handler := NewHandler(marketplaceService, nil, nil, nil, nil, nil, teamRepo, venueRepo, logging.NewNop())
	return NewRouter(handler, logging.NewNop(), []string{"*"}, testJobToken)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestRouter_ListLeagues(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	items, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %T", body["data"])
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 leagues, got %d", len(items))
	}

	first, _ := items[0].(map[string]any)
	if popular, _ := first["isPopular"].(bool); !popular {
		t.Fatalf("expected popular league first, got %v", first)
	}
}

func TestRouter_ListPopularLeagues(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues/popular", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	items, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %T", body["data"])
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 popular leagues, got %d", len(items))
	}
	for _, item := range items {
		lg, _ := item.(map[string]any)
		if popular, _ := lg["isPopular"].(bool); !popular {
			t.Fatalf("unexpected non-popular league: %v", lg)
		}
	}
}

func TestRouter_ListTeamsByLeague(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues/premier-league/teams", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	items, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %T", body["data"])
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(items))
	}

	first, _ := items[0].(map[string]any)
	if name, _ := first["name"].(string); name != "Liverpool" {
		t.Fatalf("expected Liverpool first, got %v", first)
	}
}

func TestRouter_ListSuppliers(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/suppliers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	items, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %T", body["data"])
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 suppliers, got %d", len(items))
	}

	first, _ := items[0].(map[string]any)
	if slug, _ := first["slug"].(string); slug != "hellotickets" {
		t.Fatalf("expected hellotickets first by priority, got %v", first)
	}
}

func TestRouter_GetLeagueBySlug_NotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues/serie-a", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestRouter_GetFixtureBySlug(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/fixtures/premier-league-liverpool-vs-manchester-city-2026-10-17", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	fixtureObj, _ := data["fixture"].(map[string]any)
	if got, _ := fixtureObj["homeTeam"].(string); got != "Liverpool" {
		t.Fatalf("expected home team Liverpool, got %q", got)
	}
	if got, _ := fixtureObj["awayTeam"].(string); got != "Manchester City" {
		t.Fatalf("expected away team Manchester City, got %q", got)
	}

	venueObj, _ := data["venue"].(map[string]any)
	if got, _ := venueObj["name"].(string); got != "Anfield" {
		t.Fatalf("expected venue Anfield, got %q", got)
	}

	offers, _ := data["offers"].([]any)
	if len(offers) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(offers))
	}
	offerObj, _ := offers[0].(map[string]any)
	if got, _ := offerObj["ownerType"].(string); got != "agent" {
		t.Fatalf("expected agent offer, got %q", got)
	}
}

func TestRouter_GetAgentBySlug(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/agents/goalside-tickets", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	agentObj, _ := data["agent"].(map[string]any)
	if got, _ := agentObj["name"].(string); got != "Goalside Tickets" {
		t.Fatalf("expected agent Goalside Tickets, got %q", got)
	}

	reviews, _ := data["reviews"].([]any)
	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}
	first, _ := reviews[0].(map[string]any)
	second, _ := reviews[1].(map[string]any)
	firstAt, _ := first["createdAt"].(string)
	secondAt, _ := second["createdAt"].(string)
	if firstAt < secondAt {
		t.Fatalf("expected newest review first, got %q before %q", firstAt, secondAt)
	}
}

func TestRouter_InternalJobRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/min-price", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRouter_SyncLeagueJob_MissingLeagueID(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync-league", strings.NewReader(`{}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503 for unconfigured sync service, got %d", rec.Code)
	}
}
