package coach

// Color is the side a player controls, as inferred from the screenshot.
type Color string

const (
	ColorWhite     Color = "white"
	ColorBlack     Color = "black"
	ColorUncertain Color = "uncertain"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// UserInfo is produced once per request by the vision step. Never
// persisted; Elo is nil when the rating is missing or unreadable.
type UserInfo struct {
	Color           Color      `json:"color"`
	Elo             *int       `json:"elo"`
	ColorConfidence Confidence `json:"color_confidence,omitempty"`
	EloConfidence   Confidence `json:"elo_confidence,omitempty"`
}

// PositionContext is derived from the move string's token count only; it
// is not validated against chess legality.
type PositionContext struct {
	MoveNumber  int    // full moves, ≥1
	ActiveColor string // "w" | "b"
}

// CoachingAdvice is the structured output of the coaching AI call, or a
// synthesized fallback when upstreams fail.
type CoachingAdvice struct {
	SuggestedMove string     `json:"suggestedMove"`
	Explanation   string     `json:"explanation"`
	Reasoning     string     `json:"reasoning"`
	Difficulty    Difficulty `json:"difficulty"`
	Confidence    Confidence `json:"confidence"`
}

// ParseColor normalizes free-form color text from the vision model.
func ParseColor(s string) Color {
	switch normalized(s) {
	case "white", "w":
		return ColorWhite
	case "black", "b":
		return ColorBlack
	default:
		return ColorUncertain
	}
}
