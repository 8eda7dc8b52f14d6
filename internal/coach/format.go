package coach

import (
	"fmt"
	"strings"

	"github.com/park285/chess-coach-api/internal/msgcat"
)

// Greeting/footer thresholds for the final user-facing message.
const (
	casualGreetingMinElo = 1000
	formalGreetingMinElo = 1801
)

// Formatter renders a CoachingAdvice into the final chat-style message.
// Templates come from the message catalog; a nil catalog falls back to
// the built-in strings.
type Formatter struct {
	catalog *msgcat.Catalog
}

func NewFormatter(catalog *msgcat.Catalog) *Formatter {
	return &Formatter{catalog: catalog}
}

// FormatFinalMessage produces the literal message contract: greeting
// tier, suggested move, explanation, reasoning unless the advice is
// beginner-level, and an ELO footer when the rating is known.
func (f *Formatter) FormatFinalMessage(advice CoachingAdvice, info UserInfo) string {
	var sb strings.Builder

	sb.WriteString(f.greeting(info.Elo))
	sb.WriteString(" ")
	sb.WriteString(f.render("coach.suggestion",
		map[string]any{"Move": advice.SuggestedMove},
		"I suggest: "+advice.SuggestedMove))
	sb.WriteString("\n\n")
	sb.WriteString(advice.Explanation)

	if advice.Difficulty != DifficultyBeginner && strings.TrimSpace(advice.Reasoning) != "" {
		sb.WriteString("\n\n")
		sb.WriteString(f.render("coach.reasoning",
			map[string]any{"Reasoning": advice.Reasoning},
			"Why: "+advice.Reasoning))
	}

	if info.Elo != nil {
		sb.WriteString("\n\n")
		sb.WriteString(f.render("coach.footer",
			map[string]any{"Elo": *info.Elo},
			fmt.Sprintf("(Advice tuned for ~%d ELO play.)", *info.Elo)))
	}

	return sb.String()
}

func (f *Formatter) greeting(elo *int) string {
	switch {
	case elo != nil && *elo < casualGreetingMinElo:
		return f.render("coach.greeting.novice", nil, "Hi there!")
	case elo != nil && *elo >= formalGreetingMinElo:
		return f.render("coach.greeting.formal", nil, "Hello,")
	default:
		return f.render("coach.greeting.casual", nil, "Hello!")
	}
}

func (f *Formatter) render(key string, data any, def string) string {
	if f == nil || f.catalog == nil {
		return def
	}
	return f.catalog.RenderOr(key, data, def)
}
