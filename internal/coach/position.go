package coach

import (
	"strings"

	nchess "github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"
)

const fullBoardPieceCount = 32

// replayMoves reconstructs a game from a space-separated move list. Each
// token is tried as SAN first and UCI second, matching what players
// paste from chess sites. Returns nil when any token fails both.
func replayMoves(moves string) *nchess.Game {
	game := nchess.NewGame()
	for _, token := range strings.Fields(moves) {
		if err := game.PushNotationMove(token, nchess.AlgebraicNotation{}, nil); err == nil {
			continue
		}
		if err := game.PushNotationMove(strings.ToLower(token), nchess.UCINotation{}, nil); err != nil {
			return nil
		}
	}
	return game
}

// boardFacts carries what the fallback and prompt paths need from a
// replayed position.
type boardFacts struct {
	FEN        string
	PieceCount int
	Opening    string // ECO title, "" when unknown
}

// factsFromMoves replays the move list and extracts position facts. An
// unparseable list yields conservative defaults: full board, no FEN.
func factsFromMoves(moves string) boardFacts {
	facts := boardFacts{PieceCount: fullBoardPieceCount}
	game := replayMoves(moves)
	if game == nil {
		return facts
	}
	facts.FEN = game.FEN()
	if pos := game.Position(); pos != nil {
		facts.PieceCount = len(pos.Board().SquareMap())
	}
	book := opening.NewBookECO()
	if book != nil {
		if eco := book.Find(game.Moves()); eco != nil {
			facts.Opening = eco.Title()
		}
	}
	return facts
}
