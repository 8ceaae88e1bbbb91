package matching

import (
	"time"

	"github.com/riskibarqy/odds-resolver/internal/domain/feed"
)

const (
	// MinCombinedScore is the minimum averaged home/away similarity for a
	// candidate to count as the same fixture. The comparison is strict:
	// exactly 0.7 is rejected.
	MinCombinedScore = 0.7

	// MaxKickoffDelta bounds how far a candidate's kickoff may sit from a
	// requested match date. Same-named teams meet repeatedly across a
	// season; only temporal proximity disambiguates those fixtures, so
	// the window is a hard filter rather than part of the blended score.
	MaxKickoffDelta = 48 * time.Hour
)

// Target identifies the fixture a caller wants odds for. A zero MatchDate
// disables the kickoff proximity filter.
type Target struct {
	HomeTeam  string
	AwayTeam  string
	MatchDate time.Time
}

// Matcher selects the feed candidate that best matches a target fixture.
// The linear implementation below fits feeds in the low hundreds; a
// normalized-name index can replace it behind this interface if feeds grow.
type Matcher interface {
	FindMatch(doc *feed.Document, target Target) (*feed.Match, bool)
}

// LinearMatcher scans every candidate in feed order, keeping the first
// candidate with the strictly highest combined similarity.
type LinearMatcher struct{}

func NewLinearMatcher() *LinearMatcher {
	return &LinearMatcher{}
}

func (m *LinearMatcher) FindMatch(doc *feed.Document, target Target) (*feed.Match, bool) {
	if doc.IsEmpty() || target.HomeTeam == "" || target.AwayTeam == "" {
		return nil, false
	}

	var best *feed.Match
	bestScore := MinCombinedScore

	for i := range doc.Matches {
		candidate := &doc.Matches[i]

		homeScore := Similarity(target.HomeTeam, candidate.HomeTeam)
		awayScore := Similarity(target.AwayTeam, candidate.AwayTeam)
		combined := (homeScore + awayScore) / 2
		if combined <= bestScore {
			continue
		}

		if !target.MatchDate.IsZero() && !withinKickoffWindow(candidate, target.MatchDate) {
			continue
		}

		best = candidate
		bestScore = combined
	}

	return best, best != nil
}

func withinKickoffWindow(candidate *feed.Match, matchDate time.Time) bool {
	kickoff, ok := candidate.KickoffAt()
	if !ok {
		// cannot confirm proximity, so the date filter rejects it
		return false
	}

	delta := kickoff.Sub(matchDate)
	if delta < 0 {
		delta = -delta
	}
	return delta <= MaxKickoffDelta
}
