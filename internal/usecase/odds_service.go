package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/odds-resolver/internal/domain/feed"
	"github.com/riskibarqy/odds-resolver/internal/domain/matching"
	"github.com/riskibarqy/odds-resolver/internal/domain/odds"
)

const defaultBatchWorkers = 4

// FixtureQuery identifies one fixture a caller wants odds for.
// A zero MatchDate skips kickoff disambiguation.
type FixtureQuery struct {
	HomeTeam  string
	AwayTeam  string
	MatchDate time.Time
}

// Key is the batch result key. It preserves the caller's raw team strings,
// so two queries with identical home/away collide and the later one wins.
func (q FixtureQuery) Key() string {
	return q.HomeTeam + " vs " + q.AwayTeam
}

// OddsService resolves market odds for fixtures against the external feed.
// Every failure mode collapses into "no match": a fetch error, an empty
// feed, an empty team name and a below-threshold candidate all look the
// same to the caller.
type OddsService struct {
	provider     feed.Provider
	matcher      matching.Matcher
	logger       *slog.Logger
	batchWorkers int
}

func NewOddsService(provider feed.Provider, matcher matching.Matcher, logger *slog.Logger, batchWorkers int) *OddsService {
	if matcher == nil {
		matcher = matching.NewLinearMatcher()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if batchWorkers < 1 {
		batchWorkers = defaultBatchWorkers
	}

	return &OddsService{
		provider:     provider,
		matcher:      matcher,
		logger:       logger,
		batchWorkers: batchWorkers,
	}
}

// ResolveFixture finds the best feed candidate for one fixture and returns
// its flattened odds. The second return value is false when nothing
// qualified; that is a normal outcome, never an error.
func (s *OddsService) ResolveFixture(ctx context.Context, query FixtureQuery) (odds.FixtureOdds, bool) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsService.ResolveFixture")
	defer span.End()

	doc := s.fetchDocument(ctx)
	if doc.IsEmpty() {
		return odds.FixtureOdds{}, false
	}

	return s.resolveAgainst(doc, query)
}

// ResolveFixtures fetches the feed once and resolves every query against
// it independently. Queries without a qualifying candidate are omitted
// from the result map.
func (s *OddsService) ResolveFixtures(ctx context.Context, queries []FixtureQuery) map[string]odds.FixtureOdds {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsService.ResolveFixtures")
	defer span.End()

	results := make(map[string]odds.FixtureOdds)
	if len(queries) == 0 {
		return results
	}

	doc := s.fetchDocument(ctx)
	if doc.IsEmpty() {
		return results
	}

	type resolved struct {
		payload odds.FixtureOdds
		found   bool
	}
	rows := make([]resolved, len(queries))

	pool, err := ants.NewPool(s.batchWorkers)
	if err != nil {
		s.logger.WarnContext(ctx, "batch worker pool unavailable, resolving sequentially", "error", err)
		for i, query := range queries {
			rows[i].payload, rows[i].found = s.resolveAgainst(doc, query)
		}
	} else {
		defer pool.Release()

		var workers sync.WaitGroup
		for i := range queries {
			i := i
			workers.Add(1)
			if submitErr := pool.Submit(func() {
				defer workers.Done()
				rows[i].payload, rows[i].found = s.resolveAgainst(doc, queries[i])
			}); submitErr != nil {
				workers.Done()
				rows[i].payload, rows[i].found = s.resolveAgainst(doc, queries[i])
			}
		}
		workers.Wait()
	}

	// Map assembly stays sequential in input order so duplicate keys keep
	// deterministic last-write-wins behavior.
	for i, query := range queries {
		if rows[i].found {
			results[query.Key()] = rows[i].payload
		}
	}

	return results
}

func (s *OddsService) resolveAgainst(doc *feed.Document, query FixtureQuery) (odds.FixtureOdds, bool) {
	home := strings.TrimSpace(query.HomeTeam)
	away := strings.TrimSpace(query.AwayTeam)
	if home == "" || away == "" {
		return odds.FixtureOdds{}, false
	}

	match, found := s.matcher.FindMatch(doc, matching.Target{
		HomeTeam:  home,
		AwayTeam:  away,
		MatchDate: query.MatchDate,
	})
	if !found {
		return odds.FixtureOdds{}, false
	}

	return odds.FromMatch(match, doc), true
}

// fetchDocument absorbs provider failures: a fetch error degrades to an
// empty feed so every lookup answers "not found" instead of raising.
func (s *OddsService) fetchDocument(ctx context.Context) *feed.Document {
	if s.provider == nil {
		return nil
	}

	doc, err := s.provider.FetchDocument(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "odds feed unavailable, lookups degrade to not-found", "error", err)
		return nil
	}

	return doc
}
