package coach

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/park285/chess-coach-api/internal/engine"
)

type stubAnalyzer struct {
	analysis *engine.Analysis
	err      error
	requests []engine.Request
}

func (s *stubAnalyzer) Analyze(_ context.Context, req engine.Request) (*engine.Analysis, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.analysis, nil
}

func newTestService(analyzer *stubAnalyzer, coachAI, visionAI *stubCompleter) *Service {
	vision := NewVisionExtractor(visionAI, "vision-model", nil)
	return NewService(analyzer, coachAI, vision, nil, nil, Config{CoachModel: "coach-model"}, nil)
}

func TestAdvise_HappyPath(t *testing.T) {
	analyzer := &stubAnalyzer{analysis: &engine.Analysis{Eval: 0.25, BestMoveSAN: "Nf3", Depth: 10}}
	coachAI := &stubCompleter{payload: `{"suggestedMove":"Nf3","explanation":"Develops the knight.","reasoning":"It controls e5 and d4.","difficulty":"intermediate","confidence":"high"}`}
	visionAI := &stubCompleter{payload: `{"color":"white","elo":1200,"color_confidence":"high","elo_confidence":"high"}`}
	svc := newTestService(analyzer, coachAI, visionAI)

	res := svc.Advise(context.Background(), []byte{0x01}, "image/png", "e4 e5")

	if res.BestMove == nil || *res.BestMove != "Nf3" {
		t.Fatalf("BestMove = %v, want Nf3", res.BestMove)
	}
	if res.Advice.SuggestedMove != "Nf3" || res.Advice.Confidence != ConfidenceHigh {
		t.Fatalf("advice = %+v", res.Advice)
	}
	if !strings.Contains(res.Message, "Nf3") || !strings.Contains(res.Message, "Develops the knight.") {
		t.Fatalf("message missing advice content: %q", res.Message)
	}
	if len(analyzer.requests) != 1 {
		t.Fatalf("engine calls = %d, want 1", len(analyzer.requests))
	}
	if analyzer.requests[0].Depth != 10 {
		t.Fatalf("depth = %d, want 10 for a 1200 rating", analyzer.requests[0].Depth)
	}
}

func TestAdvise_AbsoluteBeginnerSkipsUpstreams(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.New("should not be called")}
	coachAI := &stubCompleter{err: errors.New("should not be called")}
	visionAI := &stubCompleter{payload: `{"color":"white","elo":326,"color_confidence":"high","elo_confidence":"high"}`}
	svc := newTestService(analyzer, coachAI, visionAI)

	res := svc.Advise(context.Background(), []byte{0x01}, "image/png", "e4 e5 Nf3 Nc6")

	if len(analyzer.requests) != 0 {
		t.Fatalf("engine must not be called below the beginner cutoff")
	}
	if len(coachAI.requests) != 0 {
		t.Fatalf("coaching model must not be called below the beginner cutoff")
	}
	if res.Advice.Difficulty != DifficultyBeginner {
		t.Fatalf("difficulty = %q, want beginner", res.Advice.Difficulty)
	}
	if res.BestMove != nil {
		t.Fatalf("BestMove = %v, want nil without engine analysis", res.BestMove)
	}
	if !strings.HasPrefix(res.Message, "Hi there!") {
		t.Fatalf("message should greet a novice: %q", res.Message)
	}
}

func TestAdvise_EngineFailureFallsBackToModel(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.New("engine down")}
	coachAI := &stubCompleter{payload: `{"suggestedMove":"d4","explanation":"Take the center.","reasoning":"","difficulty":"intermediate","confidence":"medium"}`}
	visionAI := &stubCompleter{payload: `{"color":"white","elo":1500,"color_confidence":"high","elo_confidence":"high"}`}
	svc := newTestService(analyzer, coachAI, visionAI)

	res := svc.Advise(context.Background(), []byte{0x01}, "image/png", "e4 e5")

	if res.BestMove != nil {
		t.Fatalf("BestMove = %v, want nil when the engine fails", res.BestMove)
	}
	if res.Advice.SuggestedMove != "d4" {
		t.Fatalf("advice should still come from the model: %+v", res.Advice)
	}
}

func TestAdvise_ModelFailureUsesEngineFallback(t *testing.T) {
	analyzer := &stubAnalyzer{analysis: &engine.Analysis{Eval: 0.4, BestMoveSAN: "Nf3"}}
	coachAI := &stubCompleter{err: errors.New("model down")}
	visionAI := &stubCompleter{payload: `{"color":"white","elo":1500,"color_confidence":"high","elo_confidence":"high"}`}
	svc := newTestService(analyzer, coachAI, visionAI)

	res := svc.Advise(context.Background(), []byte{0x01}, "image/png", "e4 e5")

	if res.Advice.SuggestedMove != "Nf3" {
		t.Fatalf("fallback advice should suggest the engine move: %+v", res.Advice)
	}
	if res.Advice.Confidence != ConfidenceLow {
		t.Fatalf("fallback advice confidence = %q, want low", res.Advice.Confidence)
	}
	if res.Advice.Difficulty != DifficultyIntermediate {
		t.Fatalf("fallback advice difficulty = %q, want the skill tier", res.Advice.Difficulty)
	}
}

func TestAdvise_BothUpstreamsDownUsesPhaseAdvice(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.New("engine down")}
	coachAI := &stubCompleter{err: errors.New("model down")}
	visionAI := &stubCompleter{err: errors.New("vision down")}
	svc := newTestService(analyzer, coachAI, visionAI)

	res := svc.Advise(context.Background(), []byte{0x01}, "image/png", "e4 e5")

	if res.UserInfo.Color != ColorUncertain || res.UserInfo.Elo != nil {
		t.Fatalf("vision failure should yield uncertain defaults: %+v", res.UserInfo)
	}
	if res.Advice.Difficulty != DifficultyBeginner || res.Advice.Confidence != ConfidenceLow {
		t.Fatalf("phase advice = %+v", res.Advice)
	}
	if res.Message == "" {
		t.Fatalf("a message must always be produced")
	}
}

func TestNormalizeAdvice_FillsHoles(t *testing.T) {
	svc := newTestService(&stubAnalyzer{}, &stubCompleter{}, &stubCompleter{})

	got := svc.normalizeAdvice(CoachingAdvice{}, UserInfo{Elo: intPtr(1500)}, &engine.Analysis{BestMoveSAN: "e4"})
	if got.SuggestedMove != "e4" {
		t.Fatalf("SuggestedMove = %q, want the engine move", got.SuggestedMove)
	}
	if got.Difficulty != DifficultyIntermediate || got.Confidence != ConfidenceMedium {
		t.Fatalf("normalized defaults = %+v", got)
	}

	got = svc.normalizeAdvice(CoachingAdvice{Difficulty: "guru"}, UserInfo{}, nil)
	if got.SuggestedMove != "See position" {
		t.Fatalf("SuggestedMove = %q, want placeholder without any move", got.SuggestedMove)
	}
	if got.Difficulty != DifficultyIntermediate {
		t.Fatalf("invalid difficulty should fall back to the skill tier")
	}
}
