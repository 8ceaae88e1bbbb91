package footballdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/odds-resolver/internal/platform/cache"
	"github.com/riskibarqy/odds-resolver/internal/platform/logging"
	"github.com/riskibarqy/odds-resolver/internal/platform/resilience"
	"github.com/riskibarqy/odds-resolver/internal/usecase"
)

const feedFixture = `{
	"matches": [
		{
			"home_team": "Liverpool",
			"away_team": "Arsenal",
			"commence_time": "2026-03-07T15:00:00Z",
			"league": "Premier League",
			"league_code": "E0",
			"markets": {
				"h2h": {"home": 1.85, "draw": 3.40, "away": 4.20},
				"totals": {"over": 1.90, "under": 1.90, "line": 2.5}
			}
		}
	],
	"last_updated": "2026-03-06T12:00:00Z",
	"source": "football-data.co.uk",
	"match_count": 1
}`

func newTestClient(t *testing.T, serverURL string, cfg ClientConfig) *Client {
	t.Helper()
	cfg.FeedURL = serverURL
	cfg.Logger = logging.NewNop()
	return NewClient(cfg)
}

func TestClient_FetchDocument_DecodesFeed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("accept") != "application/json" {
			t.Errorf("missing accept header")
		}
		_, _ = w.Write([]byte(feedFixture))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{})

	doc, err := client.FetchDocument(context.Background())
	if err != nil {
		t.Fatalf("FetchDocument: %v", err)
	}
	if len(doc.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(doc.Matches))
	}
	match := doc.Matches[0]
	if match.HomeTeam != "Liverpool" || match.AwayTeam != "Arsenal" {
		t.Fatalf("unexpected teams %q / %q", match.HomeTeam, match.AwayTeam)
	}
	if match.Markets.H2H.Home != 1.85 {
		t.Fatalf("unexpected home odds %v", match.Markets.H2H.Home)
	}
	if doc.Source != "football-data.co.uk" || doc.MatchCount != 1 {
		t.Fatalf("unexpected metadata source=%q count=%d", doc.Source, doc.MatchCount)
	}
}

func TestClient_FetchDocument_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{MaxRetries: 3})

	if _, err := client.FetchDocument(context.Background()); err == nil {
		t.Fatalf("expected error on 404")
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("404 must not be retried, got %d requests", got)
	}
}

func TestClient_FetchDocument_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "flaky upstream", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(feedFixture))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{MaxRetries: 1})

	doc, err := client.FetchDocument(context.Background())
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if doc.IsEmpty() {
		t.Fatalf("expected decoded document after retry")
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("expected 2 requests, got %d", got)
	}
}

func TestClient_FetchDocument_MalformedPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"matches": [`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{})

	if _, err := client.FetchDocument(context.Background()); err == nil {
		t.Fatalf("expected decode error for truncated payload")
	}
}

func TestClient_FetchDocument_ServesSnapshotWithinTTL(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(feedFixture))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{
		Snapshot: cache.NewStore(time.Minute),
	})

	ctx := context.Background()
	if _, err := client.FetchDocument(ctx); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if _, err := client.FetchDocument(ctx); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("snapshot must serve the second call, got %d requests", got)
	}
}

func TestClient_FetchDocument_CircuitOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Hour,
			HalfOpenMaxReq:   1,
		},
	})

	ctx := context.Background()
	if _, err := client.FetchDocument(ctx); err == nil {
		t.Fatalf("expected transient failure")
	}

	_, err := client.FetchDocument(ctx)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected circuit rejection after threshold, got %v", err)
	}
}
