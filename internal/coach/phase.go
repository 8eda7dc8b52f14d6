package coach

// Game phases for the deterministic fallback path.
const (
	PhaseOpening    = "opening"
	PhaseMiddlegame = "middlegame"
	PhaseEndgame    = "endgame"
)

// PhaseFor classifies a position by move number and piece count. The
// bands overlap on purpose; both conditions are checked so a malformed
// input still lands somewhere sensible. An empty string means no band
// matched cleanly.
func PhaseFor(moveNumber, pieceCount int) string {
	switch {
	case moveNumber <= 10 && pieceCount > 24:
		return PhaseOpening
	case moveNumber >= 11 && moveNumber <= 25 && pieceCount > 12:
		return PhaseMiddlegame
	case moveNumber > 25 || pieceCount <= 12:
		return PhaseEndgame
	default:
		return ""
	}
}

// PhaseAdvice synthesizes advice from move count and piece count alone,
// with no AI or engine involvement. It serves both as the last-resort
// fallback and as the only path for sub-600 rated players, where vague
// but solid principles beat unreliable tactical claims.
func PhaseAdvice(moveNumber, pieceCount int) CoachingAdvice {
	advice := CoachingAdvice{
		Difficulty: DifficultyBeginner,
		Confidence: ConfidenceLow,
	}
	switch PhaseFor(moveNumber, pieceCount) {
	case PhaseOpening:
		advice.SuggestedMove = "Develop a knight or bishop"
		advice.Explanation = "In the opening, bring your pieces out toward the center and castle early to keep your king safe."
		advice.Reasoning = "Development and king safety decide most games at this stage; material grabs can wait."
	case PhaseMiddlegame:
		advice.SuggestedMove = "Improve your worst-placed piece"
		advice.Explanation = "Look for undefended pieces on both sides, and find a better square for your least active piece."
		advice.Reasoning = "Middlegame advantages usually come from piece activity and avoiding simple tactics."
	case PhaseEndgame:
		advice.SuggestedMove = "Activate your king"
		advice.Explanation = "With few pieces left, the king becomes a fighting piece. Push passed pawns and support them with your king."
		advice.Reasoning = "Endgames are won by king activity and pawn promotion, not by attacks on the enemy king."
	default:
		advice.SuggestedMove = "Play carefully"
		advice.Explanation = "Take your time, check for checks, captures, and threats before every move."
		advice.Reasoning = "When the position is unclear, avoiding blunders is worth more than finding the best move."
	}
	return advice
}
