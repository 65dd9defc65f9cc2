package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ticketagent/marketplace/external/apifootball"
	"github.com/ticketagent/marketplace/external/hellotickets"
	"github.com/ticketagent/marketplace/external/p1"
	"github.com/ticketagent/marketplace/internal/config"
	"github.com/ticketagent/marketplace/internal/domain/league"
	"github.com/ticketagent/marketplace/internal/domain/supplier"
	"github.com/ticketagent/marketplace/internal/domain/team"
	"github.com/ticketagent/marketplace/internal/domain/venue"
	"github.com/ticketagent/marketplace/internal/infrastructure/repository/postgres"
	"github.com/ticketagent/marketplace/internal/interfaces/httpapi"
	idgen "github.com/ticketagent/marketplace/internal/platform/id"
	"github.com/ticketagent/marketplace/internal/platform/logging"
	"github.com/ticketagent/marketplace/internal/platform/resilience"
	"github.com/ticketagent/marketplace/internal/reconcile"
	"github.com/ticketagent/marketplace/internal/report"
	"github.com/ticketagent/marketplace/internal/usecase"
)

// Services holds every wired usecase plus the repositories the HTTP
// layer and the sync worker reach for directly.
type Services struct {
	DB *sqlx.DB

	Marketplace  *usecase.MarketplaceService
	Ingestion    *usecase.IngestionService
	FixtureSync  *usecase.FixtureSyncService
	SupplierSync *usecase.SupplierPriceSyncService
	MinPrice     *usecase.MinPriceService
	LeagueMonths *usecase.LeagueMonthsService

	LeagueRepo   league.Repository
	TeamRepo     team.Repository
	VenueRepo    venue.Repository
	SupplierRepo supplier.Repository
}

func (s *Services) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

func BuildServices(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := OpenDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.AppEnv == config.EnvDev {
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrap seed: %w", err)
		}
	}

	leagueRepo := postgres.NewLeagueRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	venueRepo := postgres.NewVenueRepository(db)
	fixtureRepo := postgres.NewFixtureRepository(db)
	offerRepo := postgres.NewOfferRepository(db)
	supplierRepo := postgres.NewSupplierRepository(db)
	agentRepo := postgres.NewAgentRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)

	aliases, err := buildAliasTable(cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	reports := report.NewWriter(cfg.ReportDir)
	idGen := idgen.NewRandomGenerator()

	services := &Services{
		DB: db,
		Marketplace: usecase.NewMarketplaceService(
			leagueRepo, teamRepo, fixtureRepo, offerRepo, agentRepo, reviewRepo, supplierRepo,
		),
		MinPrice: usecase.NewMinPriceService(
			fixtureRepo, &offerPriceReader{repo: offerRepo}, cfg.EURRateByCurrency, logger,
		),
		LeagueMonths: usecase.NewLeagueMonthsService(leagueRepo, fixtureRepo, logger),
		LeagueRepo:   leagueRepo,
		TeamRepo:     teamRepo,
		VenueRepo:    venueRepo,
		SupplierRepo: supplierRepo,
	}

	if cfg.APIFootballEnabled {
		provider := apifootball.NewClient(apifootball.ClientConfig{
			HTTPClient: newExternalHTTPClient(cfg.APIFootballTimeout),
			BaseURL:    cfg.APIFootballBaseURL,
			Token:      cfg.APIFootballToken,
			Timeout:    cfg.APIFootballTimeout,
			MaxRetries: cfg.APIFootballMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.APIFootballCircuitEnabled,
				FailureThreshold: cfg.APIFootballCircuitFailureCount,
				OpenTimeout:      cfg.APIFootballCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.APIFootballCircuitHalfOpenMaxReq,
			},
		})
		services.Ingestion = usecase.NewIngestionService(
			leagueRepo, teamRepo, venueRepo, fixtureRepo, provider,
			cfg.APIFootballLeagueIDByLeague, cfg.APIFootballSeason, idGen, logger,
		)
		services.FixtureSync = usecase.NewFixtureSyncService(
			leagueRepo, teamRepo, venueRepo, fixtureRepo, provider,
			reconcile.NewApplier(fixtureRepo, logger), aliases, reports,
			cfg.APIFootballLeagueIDByLeague, cfg.APIFootballSeason,
			cfg.APIFootballMatchWindow, logger,
		)
	}

	sources := make(map[string]usecase.SupplierOfferSource)
	windows := make(map[string]time.Duration)
	if cfg.HelloTicketsEnabled {
		client := hellotickets.NewClient(hellotickets.ClientConfig{
			HTTPClient: newExternalHTTPClient(cfg.HelloTicketsTimeout),
			BaseURL:    cfg.HelloTicketsBaseURL,
			Token:      cfg.HelloTicketsToken,
			Timeout:    cfg.HelloTicketsTimeout,
			MaxRetries: cfg.HelloTicketsMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.HelloTicketsCircuitEnabled,
				FailureThreshold: cfg.HelloTicketsCircuitFailureCount,
				OpenTimeout:      cfg.HelloTicketsCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.HelloTicketsCircuitHalfOpenMaxReq,
			},
		})
		sources[supplier.SlugHelloTickets] = &helloTicketsSource{client: client, search: "football"}
		windows[supplier.SlugHelloTickets] = cfg.HelloTicketsMatchWindow
	}
	if cfg.P1Enabled {
		client := p1.NewClient(p1.ClientConfig{
			HTTPClient: newExternalHTTPClient(cfg.P1Timeout),
			FeedURL:    cfg.P1FeedURL,
			MaxRetries: cfg.P1MaxRetries,
			Logger:     logger,
		})
		sources[supplier.SlugP1Travel] = &p1Source{client: client}
		windows[supplier.SlugP1Travel] = cfg.P1MatchWindow
	}
	if len(sources) > 0 {
		services.SupplierSync = usecase.NewSupplierPriceSyncService(
			supplierRepo, teamRepo, fixtureRepo, offerRepo,
			aliases, reports, sources, windows, idGen, logger,
		)
	}

	return services, nil
}

// newExternalHTTPClient builds the client the provider and supplier
// integrations share: outbound spans via otelhttp on top of the default
// transport.
func newExternalHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func buildAliasTable(cfg config.Config) (*reconcile.AliasTable, error) {
	aliases := reconcile.DefaultAliases()
	if cfg.ReconcileAliasFile != "" {
		loaded, err := reconcile.LoadAliases(cfg.ReconcileAliasFile)
		if err != nil {
			return nil, fmt.Errorf("load alias file: %w", err)
		}
		aliases = loaded
	}
	if cfg.P1Enabled && cfg.P1MappingFile != "" {
		mapping, err := p1.LoadTeamMapping(cfg.P1MappingFile)
		if err != nil {
			return nil, fmt.Errorf("load p1 team mapping: %w", err)
		}
		aliases.Merge(mapping)
	}

	return aliases, nil
}

func NewHTTPServer(cfg config.Config, services *Services, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	handler := httpapi.NewHandler(
		services.Marketplace,
		services.Ingestion,
		services.FixtureSync,
		services.SupplierSync,
		services.MinPrice,
		services.LeagueMonths,
		services.TeamRepo,
		services.VenueRepo,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
