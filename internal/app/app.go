package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/riskibarqy/odds-resolver/external/footballdata"
	"github.com/riskibarqy/odds-resolver/internal/config"
	"github.com/riskibarqy/odds-resolver/internal/domain/matching"
	"github.com/riskibarqy/odds-resolver/internal/interfaces/httpapi"
	"github.com/riskibarqy/odds-resolver/internal/platform/cache"
	"github.com/riskibarqy/odds-resolver/internal/platform/logging"
	"github.com/riskibarqy/odds-resolver/internal/platform/resilience"
	"github.com/riskibarqy/odds-resolver/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var snapshot *cache.Store
	if cfg.FeedCacheEnabled {
		snapshot = cache.NewStore(cfg.FeedCacheTTL)
	}

	feedClient := footballdata.NewClient(footballdata.ClientConfig{
		HTTPClient: &http.Client{Timeout: cfg.FeedTimeout},
		FeedURL:    cfg.FeedURL,
		Timeout:    cfg.FeedTimeout,
		MaxRetries: cfg.FeedMaxRetries,
		Logger:     logging.Default(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FeedCircuitEnabled,
			FailureThreshold: cfg.FeedCircuitFailureCount,
			OpenTimeout:      cfg.FeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
		},
		Snapshot: snapshot,
	})

	oddsSvc := usecase.NewOddsService(feedClient, matching.NewLinearMatcher(), logger, cfg.BatchWorkerCount)

	handler := httpapi.NewHandler(oddsSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return server, nil
}
