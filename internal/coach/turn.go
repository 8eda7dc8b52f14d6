package coach

import "strings"

// PositionFromMoves derives a position context from a space-separated
// move list. Only token counts are used; the moves are not checked for
// legality here.
func PositionFromMoves(moves string) PositionContext {
	ply := len(strings.Fields(moves))
	moveNumber := (ply + 1) / 2
	if moveNumber < 1 {
		moveNumber = 1
	}
	active := "w"
	if ply%2 == 1 {
		active = "b"
	}
	return PositionContext{MoveNumber: moveNumber, ActiveColor: active}
}

// IsUsersTurn reports whether the side to move belongs to the user.
// An uncertain user color is treated as White; the screenshot flow
// overwhelmingly comes from the player who just faced a White-oriented
// board, and the policy is pinned by tests so a future caller can make
// the color a required input instead.
func IsUsersTurn(activeColor string, userColor Color) bool {
	user := userColor
	if user != ColorWhite && user != ColorBlack {
		user = ColorWhite
	}
	active := ColorWhite
	if normalized(activeColor) == "b" || normalized(activeColor) == "black" {
		active = ColorBlack
	}
	return active == user
}

func normalized(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
