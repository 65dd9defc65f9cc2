package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ticketagent/marketplace/internal/domain/agent"
	"github.com/ticketagent/marketplace/internal/domain/fixture"
	"github.com/ticketagent/marketplace/internal/domain/league"
	"github.com/ticketagent/marketplace/internal/domain/offer"
	"github.com/ticketagent/marketplace/internal/domain/review"
	"github.com/ticketagent/marketplace/internal/domain/supplier"
	"github.com/ticketagent/marketplace/internal/domain/team"
	"github.com/ticketagent/marketplace/internal/domain/venue"
	"github.com/ticketagent/marketplace/internal/platform/logging"
	"github.com/ticketagent/marketplace/internal/usecase"
)

type Handler struct {
	marketplaceService  *usecase.MarketplaceService
	ingestionService    *usecase.IngestionService
	fixtureSyncService  *usecase.FixtureSyncService
	supplierSyncService *usecase.SupplierPriceSyncService
	minPriceService     *usecase.MinPriceService
	leagueMonthsService *usecase.LeagueMonthsService
	teamRepo            team.Repository
	venueRepo           venue.Repository
	logger              *logging.Logger
	validator           *validator.Validate
}

func NewHandler(
	marketplaceService *usecase.MarketplaceService,
	ingestionService *usecase.IngestionService,
	fixtureSyncService *usecase.FixtureSyncService,
	supplierSyncService *usecase.SupplierPriceSyncService,
	minPriceService *usecase.MinPriceService,
	leagueMonthsService *usecase.LeagueMonthsService,
	teamRepo team.Repository,
	venueRepo venue.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		marketplaceService:  marketplaceService,
		ingestionService:    ingestionService,
		fixtureSyncService:  fixtureSyncService,
		supplierSyncService: supplierSyncService,
		minPriceService:     minPriceService,
		leagueMonthsService: leagueMonthsService,
		teamRepo:            teamRepo,
		venueRepo:           venueRepo,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	leagues, err := h.marketplaceService.ListLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaguePublicDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToPublicDTO(ctx, l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListPopularLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPopularLeagues")
	defer span.End()

	leagues, err := h.marketplaceService.ListPopularLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list popular leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaguePublicDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToPublicDTO(ctx, l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLeagueBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueBySlug")
	defer span.End()

	leagueSlug := r.PathValue("leagueSlug")
	lg, err := h.marketplaceService.GetLeagueBySlug(ctx, leagueSlug)
	if err != nil {
		h.logger.WarnContext(ctx, "get league failed", "league_slug", leagueSlug, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToPublicDTO(ctx, lg))
}

func (h *Handler) ListTeamsByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamsByLeague")
	defer span.End()

	leagueSlug := r.PathValue("leagueSlug")
	teams, err := h.marketplaceService.ListTeamsByLeague(ctx, leagueSlug)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "league_slug", leagueSlug, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamPublicDTO, 0, len(teams))
	for _, tm := range teams {
		items = append(items, teamToPublicDTO(ctx, tm))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSuppliers")
	defer span.End()

	suppliers, err := h.marketplaceService.ListSuppliers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list suppliers failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]supplierDTO, 0, len(suppliers))
	for _, sp := range suppliers {
		items = append(items, supplierToDTO(ctx, sp))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListFixturesByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixturesByLeague")
	defer span.End()

	leagueSlug := r.PathValue("leagueSlug")
	month := r.URL.Query().Get("month")
	fixtures, err := h.marketplaceService.ListFixtures(ctx, leagueSlug, month)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "league_slug", leagueSlug, "month", month, "error", err)
		writeError(ctx, w, err)
		return
	}

	teamByID := h.lookupTeams(ctx, fixtures)
	items := make([]fixtureDTO, 0, len(fixtures))
	for _, f := range fixtures {
		items = append(items, fixtureToDTO(ctx, f, teamByID[f.HomeTeamID], teamByID[f.AwayTeamID]))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetFixtureBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFixtureBySlug")
	defer span.End()

	fixtureSlug := r.PathValue("fixtureSlug")
	detail, err := h.marketplaceService.GetFixtureBySlug(ctx, fixtureSlug)
	if err != nil {
		h.logger.WarnContext(ctx, "get fixture failed", "fixture_slug", fixtureSlug, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := fixtureDetailDTO{
		Fixture: fixtureToDTO(ctx, detail.Fixture, detail.HomeTeam, detail.AwayTeam),
		Offers:  make([]offerDTO, 0, len(detail.Offers)),
	}
	for _, o := range detail.Offers {
		dto.Offers = append(dto.Offers, offerToDTO(ctx, o))
	}

	if h.venueRepo != nil && detail.Fixture.VenueID != "" {
		v, ok, err := h.venueRepo.GetByID(ctx, detail.Fixture.VenueID)
		if err != nil {
			h.logger.WarnContext(ctx, "venue lookup failed", "venue_id", detail.Fixture.VenueID, "error", err)
		} else if ok {
			vd := venueToDTO(ctx, v)
			dto.Venue = &vd
		}
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

func (h *Handler) GetAgentBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAgentBySlug")
	defer span.End()

	agentSlug := r.PathValue("agentSlug")
	profile, err := h.marketplaceService.GetAgentBySlug(ctx, agentSlug)
	if err != nil {
		h.logger.WarnContext(ctx, "get agent failed", "agent_slug", agentSlug, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := agentProfileDTO{
		Agent:   agentToDTO(ctx, profile.Agent),
		Reviews: make([]reviewDTO, 0, len(profile.Reviews)),
		Offers:  make([]offerDTO, 0, len(profile.Offers)),
	}
	for _, rv := range profile.Reviews {
		dto.Reviews = append(dto.Reviews, reviewToDTO(ctx, rv))
	}
	for _, o := range profile.Offers {
		dto.Offers = append(dto.Offers, offerToDTO(ctx, o))
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

// lookupTeams resolves the home and away teams of a fixture page in one
// pass. Missing teams map to the zero Team, the DTO then carries empty
// names rather than failing the whole listing.
func (h *Handler) lookupTeams(ctx context.Context, fixtures []fixture.Fixture) map[string]team.Team {
	out := make(map[string]team.Team, len(fixtures)*2)
	if h.teamRepo == nil {
		return out
	}

	for _, f := range fixtures {
		for _, id := range []string{f.HomeTeamID, f.AwayTeamID} {
			if _, seen := out[id]; seen {
				continue
			}
			t, ok, err := h.teamRepo.GetByID(ctx, id)
			if err != nil {
				h.logger.WarnContext(ctx, "team lookup failed", "team_id", id, "error", err)
				continue
			}
			if ok {
				out[id] = t
			}
		}
	}

	return out
}

type leaguePublicDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	NameLocal string   `json:"nameLocal,omitempty"`
	Slug      string   `json:"slug"`
	Type      string   `json:"type"`
	Country   string   `json:"country"`
	LogoURL   string   `json:"logoUrl"`
	IsPopular bool     `json:"isPopular"`
	Months    []string `json:"months,omitempty"`
}

type teamPublicDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	NameLocal string `json:"nameLocal,omitempty"`
	Code      string `json:"code,omitempty"`
	Slug      string `json:"slug"`
	Country   string `json:"country,omitempty"`
	LogoURL   string `json:"logoUrl"`
	IsPopular bool   `json:"isPopular"`
}

type supplierDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	SyncMethod string `json:"syncMethod"`
	Priority   int    `json:"priority"`
	LastSyncAt string `json:"lastSyncAt,omitempty"`
}

type fixtureDTO struct {
	ID           string       `json:"id"`
	LeagueID     string       `json:"leagueId"`
	Slug         string       `json:"slug"`
	HomeTeam     string       `json:"homeTeam"`
	HomeTeamSlug string       `json:"homeTeamSlug,omitempty"`
	AwayTeam     string       `json:"awayTeam"`
	AwayTeamSlug string       `json:"awayTeamSlug,omitempty"`
	KickoffAt    string       `json:"kickoffAt"`
	Status       string       `json:"status"`
	Round        string       `json:"round,omitempty"`
	IsHot        bool         `json:"isHot"`
	MinPrice     *minPriceDTO `json:"minPrice,omitempty"`
}

type minPriceDTO struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	UpdatedAt string  `json:"updatedAt"`
}

type venueDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city,omitempty"`
	Country  string `json:"country,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type offerDTO struct {
	ID         string  `json:"id"`
	FixtureID  string  `json:"fixtureId"`
	OwnerType  string  `json:"ownerType"`
	OwnerID    string  `json:"ownerId"`
	TicketType string  `json:"ticketType"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
	URL        string  `json:"url,omitempty"`
	Notes      string  `json:"notes,omitempty"`
	UpdatedAt  string  `json:"updatedAt,omitempty"`
}

type fixtureDetailDTO struct {
	Fixture fixtureDTO `json:"fixture"`
	Venue   *venueDTO  `json:"venue,omitempty"`
	Offers  []offerDTO `json:"offers"`
}

type agentDTO struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Slug    string  `json:"slug"`
	LogoURL string  `json:"logoUrl,omitempty"`
	Rating  float64 `json:"rating"`
}

type reviewDTO struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"createdAt"`
}

type agentProfileDTO struct {
	Agent   agentDTO    `json:"agent"`
	Reviews []reviewDTO `json:"reviews"`
	Offers  []offerDTO  `json:"offers"`
}

func leagueToPublicDTO(ctx context.Context, l league.League) leaguePublicDTO {
	ctx, span := startSpan(ctx, "httpapi.leagueToPublicDTO")
	defer span.End()

	return leaguePublicDTO{
		ID:        l.ID,
		Name:      l.NameEn,
		NameLocal: l.NameLocal,
		Slug:      l.Slug,
		Type:      l.Type,
		Country:   l.CountryEn,
		LogoURL:   l.LogoURL,
		IsPopular: l.IsPopular,
		Months:    l.Months,
	}
}

func teamToPublicDTO(ctx context.Context, tm team.Team) teamPublicDTO {
	ctx, span := startSpan(ctx, "httpapi.teamToPublicDTO")
	defer span.End()

	return teamPublicDTO{
		ID:        tm.ID,
		Name:      tm.NameEn,
		NameLocal: tm.NameLocal,
		Code:      tm.Code,
		Slug:      tm.Slug,
		Country:   tm.CountryEn,
		LogoURL:   tm.LogoURL,
		IsPopular: tm.IsPopular,
	}
}

func supplierToDTO(ctx context.Context, sp supplier.Supplier) supplierDTO {
	ctx, span := startSpan(ctx, "httpapi.supplierToDTO")
	defer span.End()

	dto := supplierDTO{
		ID:         sp.ID,
		Name:       sp.Name,
		Slug:       sp.Slug,
		SyncMethod: sp.SyncMethod,
		Priority:   sp.Priority,
	}
	if sp.LastSyncAt != nil {
		dto.LastSyncAt = sp.LastSyncAt.UTC().Format(time.RFC3339)
	}

	return dto
}

func fixtureToDTO(ctx context.Context, f fixture.Fixture, home, away team.Team) fixtureDTO {
	ctx, span := startSpan(ctx, "httpapi.fixtureToDTO")
	defer span.End()

	dto := fixtureDTO{
		ID:           f.ID,
		LeagueID:     f.LeagueID,
		Slug:         f.Slug,
		HomeTeam:     home.DisplayName(),
		HomeTeamSlug: home.Slug,
		AwayTeam:     away.DisplayName(),
		AwayTeamSlug: away.Slug,
		KickoffAt:    f.KickoffAt.UTC().Format(time.RFC3339),
		Status:       f.Status,
		Round:        f.Round,
		IsHot:        f.IsHot,
	}
	if f.MinPrice != nil {
		dto.MinPrice = &minPriceDTO{
			Amount:    f.MinPrice.Amount,
			Currency:  f.MinPrice.Currency,
			UpdatedAt: f.MinPrice.UpdatedAt.UTC().Format(time.RFC3339),
		}
	}

	return dto
}

func venueToDTO(ctx context.Context, v venue.Venue) venueDTO {
	ctx, span := startSpan(ctx, "httpapi.venueToDTO")
	defer span.End()

	name := v.NameEn
	if name == "" {
		name = v.NameLocal
	}

	return venueDTO{
		ID:       v.ID,
		Name:     name,
		City:     v.CityEn,
		Country:  v.CountryEn,
		Capacity: v.Capacity,
		ImageURL: v.ImageURL,
	}
}

func offerToDTO(ctx context.Context, o offer.Offer) offerDTO {
	ctx, span := startSpan(ctx, "httpapi.offerToDTO")
	defer span.End()

	dto := offerDTO{
		ID:         o.ID,
		FixtureID:  o.FixtureID,
		OwnerType:  o.OwnerType,
		OwnerID:    o.OwnerID,
		TicketType: o.TicketType,
		Price:      o.Price,
		Currency:   o.Currency,
		URL:        o.URL,
		Notes:      o.Notes,
	}
	if !o.UpdatedAt.IsZero() {
		dto.UpdatedAt = o.UpdatedAt.UTC().Format(time.RFC3339)
	}

	return dto
}

func agentToDTO(ctx context.Context, a agent.Agent) agentDTO {
	ctx, span := startSpan(ctx, "httpapi.agentToDTO")
	defer span.End()

	return agentDTO{
		ID:      a.ID,
		Name:    a.Name,
		Slug:    a.Slug,
		LogoURL: a.LogoURL,
		Rating:  a.ExternalRating,
	}
}

func reviewToDTO(ctx context.Context, rv review.Review) reviewDTO {
	ctx, span := startSpan(ctx, "httpapi.reviewToDTO")
	defer span.End()

	return reviewDTO{
		ID:        rv.ID,
		Author:    rv.Author,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt.UTC().Format(time.RFC3339),
	}
}
