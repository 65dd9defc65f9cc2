package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_APIFootballRequiresTokenWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("API_FOOTBALL_ENABLED", "true")
	t.Setenv("API_FOOTBALL_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when API_FOOTBALL_ENABLED=true without API_FOOTBALL_TOKEN")
	}
}

func TestLoad_APIFootballRequiresLeagueMapWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("API_FOOTBALL_ENABLED", "true")
	t.Setenv("API_FOOTBALL_TOKEN", "token-123")
	t.Setenv("API_FOOTBALL_LEAGUE_ID_MAP", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when API_FOOTBALL_ENABLED=true without API_FOOTBALL_LEAGUE_ID_MAP")
	}
}

func TestLoad_LeagueIDMapParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("API_FOOTBALL_ENABLED", "true")
	t.Setenv("API_FOOTBALL_TOKEN", "token-123")
	t.Setenv("API_FOOTBALL_LEAGUE_ID_MAP", "league-bundesliga:78, league-premier:39")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.APIFootballLeagueIDByLeague["league-bundesliga"] != 78 {
		t.Fatalf("unexpected league map: %v", cfg.APIFootballLeagueIDByLeague)
	}
	if cfg.APIFootballLeagueIDByLeague["league-premier"] != 39 {
		t.Fatalf("unexpected league map: %v", cfg.APIFootballLeagueIDByLeague)
	}
}

func TestLoad_InvalidLeagueIDMapRejected(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("API_FOOTBALL_LEAGUE_ID_MAP", "league-bundesliga")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed API_FOOTBALL_LEAGUE_ID_MAP")
	}
}

func TestLoad_P1RequiresFeedURLWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("P1_ENABLED", "true")
	t.Setenv("P1_FEED_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when P1_ENABLED=true without P1_FEED_URL")
	}
}

func TestLoad_MatchWindowDefaultsPerSupplier(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.APIFootballMatchWindow != 24*time.Hour {
		t.Fatalf("unexpected API_FOOTBALL_MATCH_WINDOW default: %s", cfg.APIFootballMatchWindow)
	}
	if cfg.HelloTicketsMatchWindow != 36*time.Hour {
		t.Fatalf("unexpected HELLOTICKETS_MATCH_WINDOW default: %s", cfg.HelloTicketsMatchWindow)
	}
	if cfg.P1MatchWindow != 48*time.Hour {
		t.Fatalf("unexpected P1_MATCH_WINDOW default: %s", cfg.P1MatchWindow)
	}
}

func TestLoad_EURRateMapParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("EUR_RATE_MAP", "usd:1.10, ils:3.9")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.EURRateByCurrency["USD"] != 1.10 {
		t.Fatalf("unexpected rate map: %v", cfg.EURRateByCurrency)
	}
	if cfg.EURRateByCurrency["ILS"] != 3.9 {
		t.Fatalf("unexpected rate map: %v", cfg.EURRateByCurrency)
	}
}

func TestLoad_SyncDefaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SyncInterval != 6*time.Hour {
		t.Fatalf("unexpected SYNC_INTERVAL default: %s", cfg.SyncInterval)
	}
	if cfg.SyncWorkers != 4 {
		t.Fatalf("unexpected SYNC_WORKERS default: %d", cfg.SyncWorkers)
	}
	if cfg.RequestPace != 100*time.Millisecond {
		t.Fatalf("unexpected SYNC_REQUEST_PACE default: %s", cfg.RequestPace)
	}
}
