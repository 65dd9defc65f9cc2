// Package apifootball talks to the API-Football v3 REST API, the truth
// source for leagues, teams, venues and fixture schedules.
package apifootball

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/ticketagent/marketplace/internal/platform/logging"
	"github.com/ticketagent/marketplace/internal/platform/resilience"
	"github.com/ticketagent/marketplace/internal/usecase"
)

const defaultBaseURL = "https://v3.football.api-sports.io"

const maxResponseBytes = 6 << 20

var apiKeyHeaderRegex = regexp.MustCompile(`x-apisports-key:\s*\S+`)
var errAPIFootballTransient = crerr.New("api-football transient failure")

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

// FetchLeagueBundle pulls the full schedule for one league and season
// together with the teams and venues it references.
func (c *Client) FetchLeagueBundle(ctx context.Context, leagueExternalID int64, season int) (usecase.ExternalFixtureBundle, error) {
	if leagueExternalID <= 0 {
		return usecase.ExternalFixtureBundle{}, fmt.Errorf("league id must be greater than zero")
	}

	query := map[string]string{
		"league": strconv.FormatInt(leagueExternalID, 10),
		"season": strconv.Itoa(season),
	}

	var fixturesEnv fixturesEnvelope
	if err := c.doJSON(ctx, "/fixtures", query, &fixturesEnv); err != nil {
		return usecase.ExternalFixtureBundle{}, fmt.Errorf("fetch fixtures league_id=%d: %w", leagueExternalID, err)
	}

	var teamsEnv teamsEnvelope
	if err := c.doJSON(ctx, "/teams", query, &teamsEnv); err != nil {
		return usecase.ExternalFixtureBundle{}, fmt.Errorf("fetch teams league_id=%d: %w", leagueExternalID, err)
	}

	bundle := usecase.ExternalFixtureBundle{
		Fixtures: mapFixturesToExternal(fixturesEnv.Response, leagueExternalID),
		Teams:    make([]usecase.ExternalTeam, 0, len(teamsEnv.Response)),
		Venues:   make([]usecase.ExternalVenue, 0, len(teamsEnv.Response)),
	}

	seenVenues := make(map[int64]struct{}, len(teamsEnv.Response))
	for _, item := range teamsEnv.Response {
		bundle.Teams = append(bundle.Teams, mapTeamToExternal(item))
		if item.Venue.ID > 0 {
			if _, ok := seenVenues[item.Venue.ID]; ok {
				continue
			}
			seenVenues[item.Venue.ID] = struct{}{}
			bundle.Venues = append(bundle.Venues, mapVenueToExternal(item.Venue))
		}
	}
	sort.SliceStable(bundle.Venues, func(i, j int) bool {
		return bundle.Venues[i].ExternalID < bundle.Venues[j].ExternalID
	})

	return bundle, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: sports data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
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
			if reqErr != nil && isCircuitFailure(reqErr) {
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
		return fmt.Errorf("decode provider payload: %w", err)
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
		req.Header.Set("x-apisports-key", c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errAPIFootballTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errAPIFootballTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else {
				if isRetryableStatus(resp.StatusCode) {
					lastErr = fmt.Errorf("%w: provider status=%d body=%s", errAPIFootballTransient, resp.StatusCode, abbreviateBody(raw))
				} else {
					return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
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
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "api-football request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return apiKeyHeaderRegex.ReplaceAllString(value, "x-apisports-key: REDACTED")
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errAPIFootballTransient)
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
