package odds

import "github.com/riskibarqy/odds-resolver/internal/domain/feed"

// FixtureOdds is the flat payload handed to downstream scoring consumers.
// Nil pointers mean the book did not publish that market field; how a
// consumer weighs an unknown value is its own contract.
type FixtureOdds struct {
	Home        *float64 `json:"home"`
	Draw        *float64 `json:"draw"`
	Away        *float64 `json:"away"`
	Over25      *float64 `json:"over_2_5"`
	Under25     *float64 `json:"under_2_5"`
	Source      string   `json:"source"`
	LastUpdated string   `json:"last_updated"`
}

// FromMatch flattens a feed candidate's markets, carrying the document's
// provenance. Each missing market field degrades to nil independently.
func FromMatch(match *feed.Match, doc *feed.Document) FixtureOdds {
	out := FixtureOdds{}
	if doc != nil {
		out.Source = doc.Source
		out.LastUpdated = doc.LastUpdated
	}
	if match == nil {
		return out
	}

	out.Home = quote(match.Markets.H2H.Home)
	out.Draw = quote(match.Markets.H2H.Draw)
	out.Away = quote(match.Markets.H2H.Away)
	out.Over25 = quote(match.Markets.Totals.Over)
	out.Under25 = quote(match.Markets.Totals.Under)

	return out
}

func quote(value float64) *float64 {
	if value <= 0 {
		return nil
	}
	return &value
}
