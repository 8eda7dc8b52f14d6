package coach

import "testing"

func TestPositionFromMoves(t *testing.T) {
	cases := []struct {
		moves      string
		wantMove   int
		wantActive string
	}{
		{"", 1, "w"},
		{"e4", 1, "b"},
		{"e4 e5", 1, "w"},
		{"e4 e5 Nf3", 2, "b"},
		{"e4 e5 Nf3 Nc6", 2, "w"},
		{"e4 e5 Nf3 Nc6 Bb5", 3, "b"},
	}
	for _, tc := range cases {
		pos := PositionFromMoves(tc.moves)
		if pos.MoveNumber != tc.wantMove || pos.ActiveColor != tc.wantActive {
			t.Fatalf("PositionFromMoves(%q) = {%d %s}, want {%d %s}",
				tc.moves, pos.MoveNumber, pos.ActiveColor, tc.wantMove, tc.wantActive)
		}
	}
}

func TestIsUsersTurn(t *testing.T) {
	cases := []struct {
		active string
		user   Color
		want   bool
	}{
		{"w", ColorWhite, true},
		{"b", ColorWhite, false},
		{"w", ColorBlack, false},
		{"b", ColorBlack, true},
	}
	for _, tc := range cases {
		if got := IsUsersTurn(tc.active, tc.user); got != tc.want {
			t.Fatalf("IsUsersTurn(%q, %q) = %v, want %v", tc.active, tc.user, got, tc.want)
		}
	}
}

// An uncertain user color is treated as White. The default is a policy,
// not an accident; this test pins it so changing it is a visible decision.
func TestIsUsersTurn_UncertainDefaultsToWhite(t *testing.T) {
	if !IsUsersTurn("w", ColorUncertain) {
		t.Fatalf("uncertain user on white's turn should count as the user's turn")
	}
	if IsUsersTurn("b", ColorUncertain) {
		t.Fatalf("uncertain user on black's turn should count as the opponent's turn")
	}
}
