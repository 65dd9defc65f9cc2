package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/popular", handler.ListPopularLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueSlug}", handler.GetLeagueBySlug)
	mux.HandleFunc("GET /v1/leagues/{leagueSlug}/teams", handler.ListTeamsByLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueSlug}/fixtures", handler.ListFixturesByLeague)
	mux.HandleFunc("GET /v1/suppliers", handler.ListSuppliers)
	mux.HandleFunc("GET /v1/fixtures/{fixtureSlug}", handler.GetFixtureBySlug)
	mux.HandleFunc("GET /v1/agents/{agentSlug}", handler.GetAgentBySlug)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/import-league", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunImportLeagueJob)))
	mux.Handle("POST /v1/internal/jobs/sync-league", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncLeagueJob)))
	mux.Handle("POST /v1/internal/jobs/supplier-sync/{supplierSlug}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSupplierSyncJob)))
	mux.Handle("POST /v1/internal/jobs/min-price", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunMinPriceJob)))
	mux.Handle("POST /v1/internal/jobs/league-months", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunLeagueMonthsJob)))
}
