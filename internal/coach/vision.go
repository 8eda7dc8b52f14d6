package coach

import (
	"context"

	"github.com/park285/chess-coach-api/internal/ai"
	"go.uber.org/zap"
)

const visionSystemPrompt = `You read chessboard screenshots from chess sites. Extract only what is visibly certain:
- The player's color follows from board orientation: the side rendered at the bottom belongs to the player.
- Report the player's ELO rating only if a rating number is clearly readable; if it is missing or blurry, use null.
- Confidence values must reflect image clarity. Never guess.`

const visionUserPrompt = `Extract the player's information from this screenshot. Respond with a JSON object: {"color": "white"|"black"|"uncertain", "elo": number|null, "color_confidence": "high"|"medium"|"low", "elo_confidence": "high"|"medium"|"low"}.`

// Completer is the slice of the AI client the coach package needs.
type Completer interface {
	Complete(ctx context.Context, req ai.ChatRequest) (string, error)
	CompleteInto(ctx context.Context, req ai.ChatRequest, dst any) error
}

// VisionExtractor pulls structured user info out of a board screenshot.
type VisionExtractor struct {
	ai     Completer
	model  string
	logger *zap.Logger
}

func NewVisionExtractor(client Completer, model string, logger *zap.Logger) *VisionExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VisionExtractor{ai: client, model: model, logger: logger}
}

// ExtractUserInfo never fails: any AI error collapses into the single
// fallback value of an uncertain color with no rating.
func (v *VisionExtractor) ExtractUserInfo(ctx context.Context, image []byte, mimeType string) UserInfo {
	fallback := UserInfo{Color: ColorUncertain}
	if v == nil || v.ai == nil || len(image) == 0 {
		return fallback
	}

	req := ai.ChatRequest{
		Model: v.model,
		Messages: []ai.Message{
			ai.TextMessage("system", visionSystemPrompt),
			ai.VisionMessage(visionUserPrompt, ai.DataURL(mimeType, image)),
		},
	}

	var raw struct {
		Color           string `json:"color"`
		Elo             *int   `json:"elo"`
		ColorConfidence string `json:"color_confidence"`
		EloConfidence   string `json:"elo_confidence"`
	}
	if err := v.ai.CompleteInto(ctx, req, &raw); err != nil {
		v.logger.Warn("vision extraction failed, using uncertain defaults", zap.Error(err))
		return fallback
	}

	return UserInfo{
		Color:           ParseColor(raw.Color),
		Elo:             raw.Elo,
		ColorConfidence: parseConfidence(raw.ColorConfidence),
		EloConfidence:   parseConfidence(raw.EloConfidence),
	}
}

func parseConfidence(s string) Confidence {
	switch normalized(s) {
	case "high":
		return ConfidenceHigh
	case "medium":
		return ConfidenceMedium
	case "low":
		return ConfidenceLow
	default:
		return ""
	}
}
