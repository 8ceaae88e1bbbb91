package footballdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/odds-resolver/internal/domain/feed"
	"github.com/riskibarqy/odds-resolver/internal/platform/cache"
	"github.com/riskibarqy/odds-resolver/internal/platform/logging"
	"github.com/riskibarqy/odds-resolver/internal/platform/resilience"
	"github.com/riskibarqy/odds-resolver/internal/usecase"
)

// DefaultFeedURL points at the published odds snapshot regenerated by the
// feed pipeline. FEED_URL overrides it.
const DefaultFeedURL = "https://raw.githubusercontent.com/riskibarqy/odds-feed/main/data/odds.json"

const (
	maxBodyBytes = 6 << 20
	cacheKeyFeed = "footballdata:feed"
)

var errFeedTransient = crerr.New("odds feed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	FeedURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig

	// Snapshot keeps the last decoded document for its TTL so bursts of
	// lookups do not refetch the feed; nil disables caching entirely.
	Snapshot *cache.Store
}

// Client fetches the odds feed document over HTTP. It implements
// feed.Provider.
type Client struct {
	httpClient     *http.Client
	feedURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	snapshot       *cache.Store
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

	feedURL := strings.TrimSpace(cfg.FeedURL)
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		feedURL:        feedURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		snapshot:       cfg.Snapshot,
	}
}

// FetchDocument downloads and decodes the current feed. Concurrent calls
// share one request, and a cached snapshot is served while its TTL holds.
func (c *Client) FetchDocument(ctx context.Context) (*feed.Document, error) {
	if c.snapshot != nil {
		if cached, ok := c.snapshot.Get(ctx, cacheKeyFeed); ok {
			if doc, ok := cached.(*feed.Document); ok {
				return doc, nil
			}
		}
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "odds feed circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: odds feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	out, err, _ := c.flight.Do(cacheKeyFeed, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errFeedTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	var doc feed.Document
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode odds feed payload: %w", err)
	}

	if c.snapshot != nil {
		c.snapshot.Set(ctx, cacheKeyFeed, &doc)
	}

	return &doc, nil
}

func (c *Client) executeRequest(ctx context.Context) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errFeedTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errFeedTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: feed status=%d body=%s", errFeedTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
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
	c.logger.WarnContext(ctx, "odds feed request failed", "url", c.feedURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests,
		http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
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
