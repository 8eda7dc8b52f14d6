package coach

import (
	"context"
	"time"

	"github.com/park285/chess-coach-api/internal/ai"
	"github.com/park285/chess-coach-api/internal/engine"
	"go.uber.org/zap"
)

// Below this rating the LLM is bypassed entirely: absolute beginners get
// deterministic phase advice instead of possibly-wrong tactical claims.
const beginnerEloCutoff = 600

// Analyzer is the slice of the engine client the orchestrator needs.
type Analyzer interface {
	Analyze(ctx context.Context, req engine.Request) (*engine.Analysis, error)
}

type Config struct {
	CoachModel    string
	Variants      int
	MaxThinkingMS int
	EngineTimeout time.Duration
	AITimeout     time.Duration
}

// Service runs the request pipeline: vision extraction, depth selection,
// engine analysis, prompt assembly, structured AI call, and the fallback
// formatting. All state is request-scoped.
type Service struct {
	engine    Analyzer
	ai        Completer
	vision    *VisionExtractor
	cache     *AnalysisCache
	formatter *Formatter
	cfg       Config
	logger    *zap.Logger
}

func NewService(analyzer Analyzer, completer Completer, vision *VisionExtractor, cache *AnalysisCache, formatter *Formatter, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Variants <= 0 {
		cfg.Variants = 1
	}
	if cfg.MaxThinkingMS <= 0 {
		cfg.MaxThinkingMS = 50
	}
	if cfg.EngineTimeout <= 0 {
		cfg.EngineTimeout = 8 * time.Second
	}
	if cfg.AITimeout <= 0 {
		cfg.AITimeout = 20 * time.Second
	}
	if formatter == nil {
		formatter = NewFormatter(nil)
	}
	return &Service{
		engine:    analyzer,
		ai:        completer,
		vision:    vision,
		cache:     cache,
		formatter: formatter,
		cfg:       cfg,
		logger:    logger,
	}
}

// AdviceResult is what the HTTP layer needs to build the envelope.
type AdviceResult struct {
	BestMove *string
	Message  string
	Advice   CoachingAdvice
	UserInfo UserInfo
	Position PositionContext
}

// Advise runs the whole pipeline for one request. Upstream failures are
// recovered at the lowest layer; the result always carries some advice.
func (s *Service) Advise(ctx context.Context, image []byte, mimeType, moves string) *AdviceResult {
	pos := PositionFromMoves(moves)
	facts := factsFromMoves(moves)

	vctx, vcancel := context.WithTimeout(ctx, s.cfg.AITimeout)
	info := s.vision.ExtractUserInfo(vctx, image, mimeType)
	vcancel()

	result := &AdviceResult{UserInfo: info, Position: pos}

	if info.Elo != nil && *info.Elo < beginnerEloCutoff {
		s.logger.Info("beginner path, skipping engine and coaching model",
			zap.Int("elo", *info.Elo),
			zap.Int("move_number", pos.MoveNumber))
		result.Advice = PhaseAdvice(pos.MoveNumber, facts.PieceCount)
		result.Message = s.formatter.FormatFinalMessage(result.Advice, info)
		return result
	}

	analysis := s.analyze(ctx, moves, facts, info)
	if analysis != nil {
		if mv := bestMoveLabel(analysis); mv != "unknown" {
			result.BestMove = &mv
		}
	}

	usersTurn := IsUsersTurn(pos.ActiveColor, info.Color)
	result.Advice = s.generateAdvice(ctx, info, pos, analysis, facts, usersTurn)
	result.Message = s.formatter.FormatFinalMessage(result.Advice, info)
	return result
}

func (s *Service) analyze(ctx context.Context, moves string, facts boardFacts, info UserInfo) *engine.Analysis {
	req := engine.Request{
		Moves:         moves,
		FEN:           facts.FEN,
		Depth:         DepthFor(info.Elo),
		Variants:      s.cfg.Variants,
		MaxThinkingMS: s.cfg.MaxThinkingMS,
	}

	if cached := s.cache.Get(ctx, req); cached != nil {
		s.logger.Debug("engine analysis cache hit", zap.Int("depth", req.Depth))
		return cached
	}

	ectx, cancel := context.WithTimeout(ctx, s.cfg.EngineTimeout)
	defer cancel()
	analysis, err := s.engine.Analyze(ectx, req)
	if err != nil {
		s.logger.Warn("engine analysis unavailable", zap.Error(err), zap.Int("depth", req.Depth))
		return nil
	}
	s.cache.Set(ctx, req, analysis)
	return analysis
}

// generateAdvice runs the structured coaching call, with two fallback
// layers beneath it: engine-only advice, then phase-based advice.
func (s *Service) generateAdvice(ctx context.Context, info UserInfo, pos PositionContext, analysis *engine.Analysis, facts boardFacts, usersTurn bool) CoachingAdvice {
	prompt := BuildCoachingPrompt(info, pos, analysis, facts, usersTurn)
	req := ai.ChatRequest{
		Model: s.cfg.CoachModel,
		Messages: []ai.Message{
			ai.TextMessage("system", coachSystemPrompt),
			ai.TextMessage("user", prompt),
		},
	}

	cctx, cancel := context.WithTimeout(ctx, s.cfg.AITimeout)
	defer cancel()

	var advice CoachingAdvice
	if err := s.ai.CompleteInto(cctx, req, &advice); err != nil {
		s.logger.Warn("coaching model unavailable, falling back", zap.Error(err))
		return s.fallbackAdvice(info, pos, analysis, facts)
	}
	return s.normalizeAdvice(advice, info, analysis)
}

func (s *Service) fallbackAdvice(info UserInfo, pos PositionContext, analysis *engine.Analysis, facts boardFacts) CoachingAdvice {
	if analysis == nil {
		return PhaseAdvice(pos.MoveNumber, facts.PieceCount)
	}
	move := bestMoveLabel(analysis)
	if move == "unknown" {
		move = "See position"
	}
	return CoachingAdvice{
		SuggestedMove: move,
		Explanation:   "This is the engine's preferred continuation in the current position.",
		Reasoning:     "",
		Difficulty:    SkillTier(info.Elo),
		Confidence:    ConfidenceLow,
	}
}

// normalizeAdvice fills holes an over-creative model may leave.
func (s *Service) normalizeAdvice(advice CoachingAdvice, info UserInfo, analysis *engine.Analysis) CoachingAdvice {
	if normalized(advice.SuggestedMove) == "" {
		if analysis != nil {
			advice.SuggestedMove = bestMoveLabel(analysis)
		}
		if normalized(advice.SuggestedMove) == "" || advice.SuggestedMove == "unknown" {
			advice.SuggestedMove = "See position"
		}
	}
	switch advice.Difficulty {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
	default:
		advice.Difficulty = SkillTier(info.Elo)
	}
	switch advice.Confidence {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
	default:
		advice.Confidence = ConfidenceMedium
	}
	return advice
}
