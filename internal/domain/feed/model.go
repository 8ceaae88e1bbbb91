package feed

import (
	"strings"
	"time"
)

// TotalsLine is the goals line the feed publishes totals odds at.
const TotalsLine = 2.5

// Document is one refresh of the external odds feed.
type Document struct {
	Matches     []Match `json:"matches"`
	LastUpdated string  `json:"last_updated"`
	Source      string  `json:"source"`
	MatchCount  int     `json:"match_count"`
}

// Match is one upcoming fixture with its published markets.
type Match struct {
	HomeTeam     string  `json:"home_team"`
	AwayTeam     string  `json:"away_team"`
	CommenceTime string  `json:"commence_time"`
	League       string  `json:"league,omitempty"`
	LeagueCode   string  `json:"league_code,omitempty"`
	Markets      Markets `json:"markets"`
}

type Markets struct {
	H2H    H2HOdds    `json:"h2h"`
	Totals TotalsOdds `json:"totals"`
}

// H2HOdds carries decimal 1X2 odds. Zero means the book did not publish
// that outcome.
type H2HOdds struct {
	Home float64 `json:"home,omitempty"`
	Draw float64 `json:"draw,omitempty"`
	Away float64 `json:"away,omitempty"`
}

// TotalsOdds carries decimal over/under odds at Line goals.
type TotalsOdds struct {
	Over  float64 `json:"over,omitempty"`
	Under float64 `json:"under,omitempty"`
	Line  float64 `json:"line,omitempty"`
}

// IsEmpty reports whether the document has no usable candidates.
func (d *Document) IsEmpty() bool {
	return d == nil || len(d.Matches) == 0
}

var kickoffLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// KickoffAt parses the feed's commence_time. The generator emits RFC3339
// UTC timestamps, but older snapshots carry naive datetimes or bare dates.
// Returns false when the value is missing or unparseable.
func (m Match) KickoffAt() (time.Time, bool) {
	value := strings.TrimSpace(m.CommenceTime)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range kickoffLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}
