package p1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ticketagent/marketplace/internal/platform/logging"
)

const feedPayload = `<?xml version="1.0" encoding="UTF-8"?>
<products>
  <product>
    <id>P1-555</id>
    <name>Bayer Leverkusen - Bayern Munich</name>
    <home_team>Bayer Leverkusen</home_team>
    <away_team>Bayern Munich</away_team>
    <event_date>2026-03-14 18:30</event_date>
    <price currency="EUR">110.00</price>
    <url>https://p1.example/p/555</url>
    <in_stock>true</in_stock>
  </product>
  <product>
    <id>P1-556</id>
    <name>Ajax - PSV</name>
    <event_date>2026-04-02 19:00</event_date>
    <price currency="eur">75.50</price>
    <in_stock>false</in_stock>
  </product>
  <product>
    <id>P1-557</id>
    <name>Hospitality Upgrade</name>
  </product>
</products>`

func TestFetchAvailability(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(feedPayload))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{FeedURL: srv.URL, Logger: logging.NewNop()})

	offers, err := c.FetchAvailability(context.Background())
	if err != nil {
		t.Fatalf("fetch availability: %v", err)
	}
	if len(offers) != 2 {
		t.Fatalf("expected the unparsable product dropped, got %d offers", len(offers))
	}

	first := offers[0]
	if first.SupplierEventID != "P1-555" || first.HomeTeamName != "Bayer Leverkusen" || first.AwayTeamName != "Bayern Munich" {
		t.Fatalf("unexpected first offer: %+v", first)
	}
	if first.Price != 110 || first.Currency != "EUR" || !first.Available {
		t.Fatalf("unexpected first offer pricing: %+v", first)
	}
	want := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	if !first.KickoffAt.Equal(want) {
		t.Fatalf("kickoff = %s, want %s", first.KickoffAt, want)
	}

	// The second product has no explicit team elements; the name split
	// must fill them in.
	second := offers[1]
	if second.HomeTeamName != "Ajax" || second.AwayTeamName != "PSV" || second.Available {
		t.Fatalf("unexpected second offer: %+v", second)
	}
}

func TestFetchAvailabilityRejectsBadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{FeedURL: srv.URL, Logger: logging.NewNop()})

	if _, err := c.FetchAvailability(context.Background()); err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestFetchAvailabilityRetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(feedPayload))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{FeedURL: srv.URL, MaxRetries: 1, Logger: logging.NewNop()})

	offers, err := c.FetchAvailability(context.Background())
	if err != nil {
		t.Fatalf("fetch availability after retry: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected one retry, got %d calls", calls)
	}
	if len(offers) != 2 {
		t.Fatalf("unexpected offer count: %d", len(offers))
	}
}

func TestFetchAvailabilityFailsFastOnClientError(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{FeedURL: srv.URL, MaxRetries: 3, Logger: logging.NewNop()})

	if _, err := c.FetchAvailability(context.Background()); err == nil {
		t.Fatal("expected error for 403 response")
	}
	if calls != 1 {
		t.Fatalf("4xx must not be retried, got %d calls", calls)
	}
}

func TestLoadTeamMapping(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mapping.csv")
	content := "supplier_name,canonical_name\nBayern Munchen,Bayern Munich\nLeverkusen,Bayer Leverkusen\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write mapping file: %v", err)
	}

	mapping, err := LoadTeamMapping(path)
	if err != nil {
		t.Fatalf("load mapping: %v", err)
	}
	if len(mapping) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(mapping))
	}
	if mapping["Bayern Munchen"] != "Bayern Munich" {
		t.Fatalf("unexpected mapping: %v", mapping)
	}
}

func TestLoadTeamMappingRejectsEmptyNames(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mapping.csv")
	if err := os.WriteFile(path, []byte("supplier_name,canonical_name\n,Bayern Munich\n"), 0o600); err != nil {
		t.Fatalf("write mapping file: %v", err)
	}

	if _, err := LoadTeamMapping(path); err == nil {
		t.Fatal("expected error for empty supplier name")
	}
}
