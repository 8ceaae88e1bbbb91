package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/odds-resolver/internal/usecase"
)

type Handler struct {
	oddsService *usecase.OddsService
	logger      *slog.Logger
	validator   *validator.Validate
}

func NewHandler(oddsService *usecase.OddsService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		oddsService: oddsService,
		logger:      logger,
		validator:   validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ResolveOdds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveOdds")
	defer span.End()

	query := r.URL.Query()
	home := strings.TrimSpace(query.Get("home"))
	away := strings.TrimSpace(query.Get("away"))
	if home == "" || away == "" {
		writeError(ctx, w, fmt.Errorf("%w: home and away query params are required", usecase.ErrInvalidInput))
		return
	}

	matchDate, err := parseMatchDate(query.Get("date"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	payload, found := h.oddsService.ResolveFixture(ctx, usecase.FixtureQuery{
		HomeTeam:  home,
		AwayTeam:  away,
		MatchDate: matchDate,
	})
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: no odds for %s vs %s", usecase.ErrNotFound, home, away))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, payload)
}

type batchFixtureDTO struct {
	HomeTeam  string `json:"home_team" validate:"required"`
	AwayTeam  string `json:"away_team" validate:"required"`
	MatchDate string `json:"match_date,omitempty"`
}

type batchResolveRequest struct {
	Fixtures []batchFixtureDTO `json:"fixtures" validate:"required,min=1,max=200,dive"`
}

func (h *Handler) ResolveOddsBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveOddsBatch")
	defer span.End()

	var req batchResolveRequest
	decoder := jsoniter.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validator.StructCtx(ctx, req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	queries := make([]usecase.FixtureQuery, 0, len(req.Fixtures))
	for _, item := range req.Fixtures {
		matchDate, err := parseMatchDate(item.MatchDate)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: fixture %q vs %q: %v", usecase.ErrInvalidInput, item.HomeTeam, item.AwayTeam, err))
			return
		}
		queries = append(queries, usecase.FixtureQuery{
			HomeTeam:  item.HomeTeam,
			AwayTeam:  item.AwayTeam,
			MatchDate: matchDate,
		})
	}

	resolved := h.oddsService.ResolveFixtures(ctx, queries)

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"odds":  resolved,
		"count": len(resolved),
	})
}

var matchDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseMatchDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range matchDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected RFC3339 or YYYY-MM-DD", value)
}
