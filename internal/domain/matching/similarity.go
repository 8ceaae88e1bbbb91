package matching

import "strings"

const (
	scoreExact       = 1.0
	scoreContainment = 0.9
)

// Similarity scores how likely two raw team names refer to the same club,
// in [0, 1]. Rules apply in priority order and are not blended:
// equal normalized forms score 1.0, containment of one normalized form in
// the other scores 0.9 ("Manchester United" vs "Man United"), otherwise
// the score is the Jaccard similarity of the normalized token sets.
func Similarity(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)

	if na == nb {
		return scoreExact
	}
	if na != "" && nb != "" && (strings.Contains(na, nb) || strings.Contains(nb, na)) {
		return scoreContainment
	}

	return jaccard(tokenSet(na), tokenSet(nb))
}

func tokenSet(normalized string) map[string]struct{} {
	if normalized == "" {
		return nil
	}
	set := make(map[string]struct{})
	for _, token := range strings.Split(normalized, " ") {
		set[token] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}
