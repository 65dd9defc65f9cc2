// Package hellotickets pulls ticket listings from the HelloTickets
// supplier API.
package hellotickets

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/ticketagent/marketplace/internal/platform/logging"
	"github.com/ticketagent/marketplace/internal/platform/resilience"
	"github.com/ticketagent/marketplace/internal/usecase"
)

const defaultBaseURL = "https://api.hellotickets.com/v1"

const maxResponseBytes = 6 << 20

// maxPages bounds the pagination loop against a provider that keeps
// reporting more pages.
const maxPages = 50

var errHelloTicketsTransient = crerr.New("hellotickets transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
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
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type eventsEnvelope struct {
	Events     []eventItem `json:"events"`
	Pagination struct {
		Page       int `json:"page"`
		TotalPages int `json:"total_pages"`
	} `json:"pagination"`
}

type eventItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	StartsAt string `json:"starts_at"`
	URL      string `json:"url"`
	MinPrice struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	} `json:"min_price"`
	Available bool `json:"available"`
}

// FetchOffers walks every result page for one search term and returns
// the listings as raw external offers.
func (c *Client) FetchOffers(ctx context.Context, search string) ([]usecase.ExternalOffer, error) {
	offers := make([]usecase.ExternalOffer, 0, 64)

	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		query := map[string]string{"page": strconv.Itoa(page)}
		if search != "" {
			query["q"] = search
		}

		var envelope eventsEnvelope
		if err := c.doJSON(ctx, "/events", query, &envelope); err != nil {
			return nil, fmt.Errorf("fetch events page=%d: %w", page, err)
		}

		for _, item := range envelope.Events {
			offer, ok := mapEventToOffer(item)
			if !ok {
				c.logger.WarnContext(ctx, "skip hellotickets event without parsable teams",
					"event_id", item.ID, "event_name", item.Name)
				continue
			}
			offers = append(offers, offer)
		}

		if envelope.Pagination.TotalPages <= page {
			break
		}
	}

	return offers, nil
}

func mapEventToOffer(item eventItem) (usecase.ExternalOffer, bool) {
	home, away, ok := splitEventName(item.Name)
	if !ok || item.ID == "" {
		return usecase.ExternalOffer{}, false
	}

	offer := usecase.ExternalOffer{
		SupplierEventID: item.ID,
		EventName:       strings.TrimSpace(item.Name),
		HomeTeamName:    home,
		AwayTeamName:    away,
		Price:           item.MinPrice.Amount,
		Currency:        strings.ToUpper(strings.TrimSpace(item.MinPrice.Currency)),
		URL:             strings.TrimSpace(item.URL),
		Available:       item.Available,
	}
	if parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(item.StartsAt)); err == nil {
		offer.KickoffAt = parsed.UTC()
	}

	return offer, true
}

// splitEventName extracts home and away from listing titles such as
// "Bayer Leverkusen vs Bayern Munich" or "Ajax - PSV".
func splitEventName(name string) (string, string, bool) {
	name = strings.TrimSpace(name)
	for _, sep := range []string{" vs ", " vs. ", " v ", " - "} {
		idx := strings.Index(strings.ToLower(name), sep)
		if idx <= 0 {
			continue
		}
		home := strings.TrimSpace(name[:idx])
		away := strings.TrimSpace(name[idx+len(sep):])
		if home == "" || away == "" {
			continue
		}
		return home, away, true
	}
	return "", "", false
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "hellotickets circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: ticket supplier is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errHelloTicketsTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode supplier payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("x-api-key", c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errHelloTicketsTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errHelloTicketsTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else {
				if isRetryableStatus(resp.StatusCode) {
					lastErr = fmt.Errorf("%w: supplier status=%d body=%s", errHelloTicketsTransient, resp.StatusCode, abbreviateBody(raw))
				} else {
					return nil, fmt.Errorf("supplier status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
				}
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
		lastErr = fmt.Errorf("supplier request failed")
	}
	c.logger.WarnContext(ctx, "hellotickets request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" || token == "" {
		return value
	}
	return strings.ReplaceAll(value, token, "REDACTED")
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
