// Package p1 reads the P1 Travel availability feed, an XML export
// polled over HTTP, plus the CSV team-mapping file the supplier ships
// alongside it.
package p1

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/ticketagent/marketplace/internal/platform/logging"
	"github.com/ticketagent/marketplace/internal/usecase"
)

const maxFeedBytes = 32 << 20

var errFeedTransient = crerr.New("p1 feed transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	FeedURL    string
	Timeout    time.Duration
	MaxRetries int
	Logger     *logging.Logger
}

type Client struct {
	httpClient *http.Client
	feedURL    string
	maxRetries int
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	return &Client{
		httpClient: httpClient,
		feedURL:    strings.TrimSpace(cfg.FeedURL),
		maxRetries: maxInt(cfg.MaxRetries, 0),
		logger:     logger,
	}
}

type feedEnvelope struct {
	XMLName  xml.Name      `xml:"products"`
	Products []productItem `xml:"product"`
}

type productItem struct {
	ID        string    `xml:"id"`
	Name      string    `xml:"name"`
	HomeTeam  string    `xml:"home_team"`
	AwayTeam  string    `xml:"away_team"`
	EventDate string    `xml:"event_date"`
	Price     priceItem `xml:"price"`
	URL       string    `xml:"url"`
	InStock   string    `xml:"in_stock"`
}

type priceItem struct {
	Currency string `xml:"currency,attr"`
	Value    string `xml:",chardata"`
}

// FetchAvailability downloads and parses the full feed. Products
// without an id or a recognizable team pair are skipped and logged.
func (c *Client) FetchAvailability(ctx context.Context) ([]usecase.ExternalOffer, error) {
	raw, err := c.downloadFeed(ctx)
	if err != nil {
		return nil, err
	}

	var envelope feedEnvelope
	if err := xml.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("parse feed xml: %w", err)
	}

	offers := make([]usecase.ExternalOffer, 0, len(envelope.Products))
	for _, item := range envelope.Products {
		offer, ok := mapProductToOffer(item)
		if !ok {
			c.logger.WarnContext(ctx, "skip p1 product without parsable teams",
				"product_id", item.ID, "product_name", item.Name)
			continue
		}
		offers = append(offers, offer)
	}

	return offers, nil
}

func (c *Client) downloadFeed(ctx context.Context) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build feed request: %w", err)
		}
		req.Header.Set("accept", "application/xml")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: download feed: %v", errFeedTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read feed body: %v", errFeedTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: feed status=%d", errFeedTransient, resp.StatusCode)
			} else {
				return nil, fmt.Errorf("feed status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "p1 feed download failed", "url", c.feedURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func mapProductToOffer(item productItem) (usecase.ExternalOffer, bool) {
	id := strings.TrimSpace(item.ID)
	if id == "" {
		return usecase.ExternalOffer{}, false
	}

	home := strings.TrimSpace(item.HomeTeam)
	away := strings.TrimSpace(item.AwayTeam)
	if home == "" || away == "" {
		parts := strings.SplitN(item.Name, " - ", 2)
		if len(parts) != 2 {
			return usecase.ExternalOffer{}, false
		}
		home = strings.TrimSpace(parts[0])
		away = strings.TrimSpace(parts[1])
	}
	if home == "" || away == "" {
		return usecase.ExternalOffer{}, false
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(item.Price.Value), 64)
	if err != nil {
		price = 0
	}

	offer := usecase.ExternalOffer{
		SupplierEventID: id,
		EventName:       strings.TrimSpace(item.Name),
		HomeTeamName:    home,
		AwayTeamName:    away,
		Price:           price,
		Currency:        strings.ToUpper(strings.TrimSpace(item.Price.Currency)),
		URL:             strings.TrimSpace(item.URL),
		Available:       strings.EqualFold(strings.TrimSpace(item.InStock), "true"),
	}
	if parsed := parseFeedDate(item.EventDate); parsed != nil {
		offer.KickoffAt = *parsed
	}

	return offer, true
}

// parseFeedDate accepts the layouts seen in supplier exports. Dates are
// taken as UTC since the feed carries no zone information.
func parseFeedDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 15:04:05", time.RFC3339, "2006-01-02"} {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}
