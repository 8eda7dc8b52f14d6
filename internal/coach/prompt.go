package coach

import (
	"fmt"
	"strings"

	"github.com/park285/chess-coach-api/internal/engine"
)

// SkillTier maps a rating to an explanation tier. Unknown ratings get
// intermediate. The thresholds differ from DepthFor's buckets; the two
// scales serve different concerns and stay separate.
func SkillTier(elo *int) Difficulty {
	if elo == nil {
		return DifficultyIntermediate
	}
	switch {
	case *elo < 1000:
		return DifficultyBeginner
	case *elo < 1800:
		return DifficultyIntermediate
	default:
		return DifficultyAdvanced
	}
}

const coachSystemPrompt = `You are a patient chess coach. You explain one concrete move in plain language tailored to the player's skill level. You never invent tactics you cannot verify from the given engine analysis.`

// Fixed correctness constraints embedded in every coaching prompt. The
// model must not contradict basic piece geometry.
const ruleGuardrails = `Chess-rule constraints you must respect:
- Piece movement: knights move in an L shape and can jump; bishops move diagonally only; rooks move along ranks and files only; queens combine rook and bishop; kings move one square; pawns move forward and capture diagonally.
- Never claim a bishop attacks along a file or rank, and never claim a rook attacks along a diagonal.
- Only state that a piece attacks or defends a square if the geometry above allows it from its current square.
- If you cannot verify a tactical claim from the engine line, prefer vague positional language ("improves piece activity", "fights for the center") over a concrete claim.`

const openingHints = `Common opening patterns for reference:
- e4 e5 Nf3 -> King's Knight Opening territory (Italian/Spanish setups follow)
- d4 d5 c4 -> Queen's Gambit
- e4 c5 -> Sicilian Defence
- d4 Nf6 c4 -> Indian Defence systems`

// BuildCoachingPrompt assembles the user prompt for the structured
// coaching call. Two mutually exclusive framings: advise the mover when
// it is the user's turn, otherwise predict the opponent's reply and
// prepare the response.
func BuildCoachingPrompt(info UserInfo, pos PositionContext, analysis *engine.Analysis, facts boardFacts, usersTurn bool) string {
	var sb strings.Builder

	sb.WriteString("Player profile:\n")
	if info.Elo != nil {
		fmt.Fprintf(&sb, "- Rating: %d ELO (%s)\n", *info.Elo, SkillTier(info.Elo))
	} else {
		fmt.Fprintf(&sb, "- Rating: unknown (%s assumed)\n", SkillTier(nil))
	}
	fmt.Fprintf(&sb, "- Plays: %s\n", playerColorLabel(info.Color))

	sb.WriteString("\nPosition:\n")
	fmt.Fprintf(&sb, "- Move number: %d, %s to move\n", pos.MoveNumber, sideLabel(pos.ActiveColor))
	if facts.FEN != "" {
		fmt.Fprintf(&sb, "- FEN: %s\n", facts.FEN)
	}
	if facts.Opening != "" {
		fmt.Fprintf(&sb, "- Opening: %s\n", facts.Opening)
	}

	if analysis != nil {
		sb.WriteString("\nEngine analysis (treat as ground truth):\n")
		fmt.Fprintf(&sb, "- Best move: %s\n", bestMoveLabel(analysis))
		fmt.Fprintf(&sb, "- Evaluation: %+.2f\n", analysis.Eval)
		if analysis.Depth > 0 {
			fmt.Fprintf(&sb, "- Search depth: %d\n", analysis.Depth)
		}
		if analysis.WinChance > 0 {
			fmt.Fprintf(&sb, "- Win chance: %.1f%%\n", analysis.WinChance)
		}
		if analysis.MatePlies != nil {
			fmt.Fprintf(&sb, "- Forced mate in %d plies\n", *analysis.MatePlies)
		}
	} else {
		sb.WriteString("\nNo engine analysis is available; keep all claims positional and generic.\n")
	}

	sb.WriteString("\n")
	sb.WriteString(ruleGuardrails)
	sb.WriteString("\n\n")
	sb.WriteString(openingHints)
	sb.WriteString("\n\n")

	if usersTurn {
		sb.WriteString("It is the player's turn. Recommend the single best move for the player (use the engine best move when present) and explain it at the player's level.\n")
	} else {
		sb.WriteString("It is the opponent's turn. Predict the opponent's most likely move (use the engine best move when present) and explain how the player should respond to it.\n")
	}

	sb.WriteString(`Respond with a JSON object: {"suggestedMove": string, "explanation": string, "reasoning": string, "difficulty": "beginner"|"intermediate"|"advanced", "confidence": "high"|"medium"|"low"}. `)
	fmt.Fprintf(&sb, "Set difficulty to %q.", SkillTier(info.Elo))

	return sb.String()
}

func bestMoveLabel(a *engine.Analysis) string {
	if a.BestMoveSAN != "" {
		return a.BestMoveSAN
	}
	if a.BestMoveUCI != "" {
		return a.BestMoveUCI
	}
	return "unknown"
}

func playerColorLabel(c Color) string {
	switch c {
	case ColorWhite:
		return "White"
	case ColorBlack:
		return "Black"
	default:
		return "unknown color"
	}
}

func sideLabel(active string) string {
	if normalized(active) == "b" {
		return "Black"
	}
	return "White"
}
