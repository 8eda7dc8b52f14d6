package coach

import (
	"strings"
	"testing"

	"github.com/park285/chess-coach-api/internal/engine"
)

func TestSkillTier(t *testing.T) {
	cases := []struct {
		elo  *int
		want Difficulty
	}{
		{nil, DifficultyIntermediate},
		{intPtr(326), DifficultyBeginner},
		{intPtr(999), DifficultyBeginner},
		{intPtr(1000), DifficultyIntermediate},
		{intPtr(1799), DifficultyIntermediate},
		{intPtr(1800), DifficultyAdvanced},
		{intPtr(2400), DifficultyAdvanced},
	}
	for _, tc := range cases {
		if got := SkillTier(tc.elo); got != tc.want {
			t.Fatalf("SkillTier(%v) = %q, want %q", tc.elo, got, tc.want)
		}
	}
}

// SkillTier and DepthFor intentionally use different thresholds; they
// must not drift into one shared bucket table.
func TestSkillTierAndDepthDisagreeByDesign(t *testing.T) {
	elo := intPtr(1000)
	if SkillTier(elo) != DifficultyIntermediate {
		t.Fatalf("1000 should be intermediate")
	}
	if DepthFor(elo) != 10 {
		t.Fatalf("1000 should still search at depth 10, not the intermediate default")
	}
}

func TestBuildCoachingPrompt_MoverFraming(t *testing.T) {
	analysis := &engine.Analysis{Eval: 0.4, BestMoveSAN: "Nf3", Depth: 12, WinChance: 55.2}
	info := UserInfo{Color: ColorWhite, Elo: intPtr(1500)}
	pos := PositionContext{MoveNumber: 3, ActiveColor: "w"}

	prompt := BuildCoachingPrompt(info, pos, analysis, boardFacts{Opening: "Queen's Gambit"}, true)

	for _, want := range []string{
		"It is the player's turn",
		"Nf3",
		"Queen's Gambit",
		"1500 ELO",
		"never claim a rook attacks along a diagonal",
		"suggestedMove",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("mover prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "opponent's turn") {
		t.Fatalf("mover prompt must not use the responder framing")
	}
}

func TestBuildCoachingPrompt_ResponderFraming(t *testing.T) {
	info := UserInfo{Color: ColorWhite}
	pos := PositionContext{MoveNumber: 4, ActiveColor: "b"}

	prompt := BuildCoachingPrompt(info, pos, nil, boardFacts{}, false)

	if !strings.Contains(prompt, "It is the opponent's turn") {
		t.Fatalf("responder prompt missing opponent framing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "No engine analysis is available") {
		t.Fatalf("prompt should flag missing engine analysis:\n%s", prompt)
	}
}

func TestBuildCoachingPrompt_SetsRequestedDifficulty(t *testing.T) {
	prompt := BuildCoachingPrompt(UserInfo{Elo: intPtr(2000)}, PositionContext{MoveNumber: 1, ActiveColor: "w"}, nil, boardFacts{}, true)
	if !strings.Contains(prompt, `"advanced"`) {
		t.Fatalf("prompt should pin difficulty to the skill tier:\n%s", prompt)
	}
}
