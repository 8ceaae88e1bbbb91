package matching

import "testing"

func TestNormalize_CanonicalForms(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"lowercases and trims", "  Liverpool  ", "liverpool"},
		{"strips trailing fc", "Liverpool FC", "liverpool"},
		{"strips trailing afc", "Sunderland AFC", "sunderland"},
		{"keeps leading suffix token", "FC Barcelona", "fc barcelona"},
		{"keeps abbreviation-only name", "AS", "as"},
		{"strips stacked suffixes", "Palermo FC SC", "palermo"},
		{"numeric club prefix form", "Koln 1.", "koln"},
		{"folds diacritics", "Atlético Madrid", "atletico madrid"},
		{"drops apostrophes", "M'gladbach", "mgladbach"},
		{"hyphens become spaces", "Saint-Étienne", "saint etienne"},
		{"underscores become spaces", "west_ham", "west ham"},
		{"collapses inner whitespace", "Real   Sociedad", "real sociedad"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"Liverpool FC",
		"FC Barcelona",
		"Atlético Madrid",
		"Borussia M'gladbach",
		"Saint-Étienne",
		"Palermo FC SC",
		"AS",
		"  Real   Sociedad  ",
	}

	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalize_CaseAndAccentInsensitive(t *testing.T) {
	t.Parallel()

	if Normalize("FC Barcelona") != Normalize("fc barcelona") {
		t.Fatalf("expected case-insensitive normalization")
	}
	if Normalize("Atlético Madrid") != Normalize("atletico madrid") {
		t.Fatalf("expected accent-insensitive normalization")
	}
}
