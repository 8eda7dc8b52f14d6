package coach

import (
	"strings"
	"testing"
)

func TestFactsFromMoves_SAN(t *testing.T) {
	facts := factsFromMoves("e4 e5 Nf3")
	if facts.FEN == "" {
		t.Fatalf("expected a FEN from a legal move list")
	}
	if !strings.Contains(facts.FEN, " b ") {
		t.Fatalf("FEN should have Black to move: %q", facts.FEN)
	}
	if facts.PieceCount != 32 {
		t.Fatalf("PieceCount = %d, want 32 before any capture", facts.PieceCount)
	}
}

func TestFactsFromMoves_CaptureLowersPieceCount(t *testing.T) {
	facts := factsFromMoves("e4 d5 exd5")
	if facts.PieceCount != 31 {
		t.Fatalf("PieceCount = %d, want 31 after one capture", facts.PieceCount)
	}
}

func TestFactsFromMoves_UCITokens(t *testing.T) {
	facts := factsFromMoves("e2e4 e7e5")
	if facts.FEN == "" {
		t.Fatalf("UCI tokens should replay")
	}
}

func TestFactsFromMoves_IllegalListFallsBack(t *testing.T) {
	facts := factsFromMoves("e4 Zz9")
	if facts.FEN != "" {
		t.Fatalf("unparseable list must not produce a FEN: %q", facts.FEN)
	}
	if facts.PieceCount != fullBoardPieceCount {
		t.Fatalf("PieceCount = %d, want the full-board default", facts.PieceCount)
	}
}

func TestFactsFromMoves_NamesTheOpening(t *testing.T) {
	facts := factsFromMoves("d4 d5 c4")
	if !strings.Contains(facts.Opening, "Gambit") {
		t.Fatalf("Opening = %q, want a Queen's Gambit title", facts.Opening)
	}
}

func TestReplayMoves_EmptyList(t *testing.T) {
	game := replayMoves("")
	if game == nil {
		t.Fatalf("empty list should yield the start position")
	}
	if got := len(game.Position().Board().SquareMap()); got != 32 {
		t.Fatalf("start position piece count = %d", got)
	}
}
