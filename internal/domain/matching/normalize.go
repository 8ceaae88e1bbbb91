package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// clubSuffixes are short club-form tokens that differ between naming
// conventions ("Liverpool FC" vs "Liverpool") and carry no identity.
// Only trailing tokens are stripped so clubs named by their abbreviation
// ("AS" in "AS Roma") survive.
var clubSuffixes = map[string]struct{}{
	"fc": {}, "cf": {}, "sc": {}, "afc": {}, "ac": {}, "as": {},
	"ss": {}, "us": {}, "cd": {}, "ud": {}, "rc": {}, "sd": {},
	"fk": {}, "sk": {}, "bk": {}, "if": {}, "bf": {}, "nk": {},
	"rsc": {}, "kv": {}, "sv": {}, "tsv": {}, "vfb": {}, "vfl": {},
	"1.": {},
}

var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var punctReplacer = strings.NewReplacer(
	"'", "",
	"`", "",
	"´", "",
	"’", "",
	"-", " ",
	"_", " ",
)

// Normalize canonicalizes a raw team name for comparison: lowercase,
// diacritics folded, apostrophes dropped, hyphens/underscores spaced,
// whitespace collapsed, recognized trailing club-suffix tokens removed.
// Normalize is idempotent and never fails; empty input yields "".
func Normalize(name string) string {
	value := strings.TrimSpace(strings.ToLower(name))
	if value == "" {
		return ""
	}

	if folded, _, err := transform.String(foldDiacritics, value); err == nil {
		value = folded
	}
	value = punctReplacer.Replace(value)
	value = strings.Join(strings.Fields(value), " ")

	for {
		idx := strings.LastIndexByte(value, ' ')
		if idx < 0 {
			// single token: never strip, a club may be named by its suffix
			break
		}
		if _, ok := clubSuffixes[value[idx+1:]]; !ok {
			break
		}
		value = value[:idx]
	}

	return value
}
