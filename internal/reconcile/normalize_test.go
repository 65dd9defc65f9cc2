package reconcile

import "testing"

func TestNormalizeStripsDecorations(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Bayer 04 Leverkusen", "bayer leverkusen"},
		{"FC Bayern München", "bayern munchen"},
		{"1. FSV Mainz 05", "mainz"},
		{"TSG 1899 Hoffenheim", "hoffenheim"},
		{"VfB Stuttgart 1893", "stuttgart"},
		{"Manchester United", "manchester"},
		{"Real Madrid", "real madrid"},
		{"  Borussia   Dortmund ", "borussia dortmund"},
		{"Atlético Madrid", "atletico madrid"},
		{"", ""},
		{"   ", ""},
		{"FC", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Bayer 04 Leverkusen",
		"FC Bayern München",
		"1. FSV Mainz 05",
		"Sport-Club Freiburg",
		"Wolverhampton Wanderers",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
