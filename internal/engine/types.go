package engine

// Analysis is the typed result of one engine call. Only Eval is always
// present; the upstream service omits the rest inconsistently, so every
// other field may be zero.
type Analysis struct {
	Eval        float64
	BestMoveSAN string
	BestMoveUCI string
	Piece       string
	FromSquare  string
	ToSquare    string
	Depth       int
	WinChance   float64
	MatePlies   *int
	FEN         string
	SideToMove  string // "w" | "b" after the best move
}

// Request describes a single analysis call. FEN wins over Moves when both
// are set.
type Request struct {
	Moves         string
	FEN           string
	Depth         int
	Variants      int
	MaxThinkingMS int
}

// wireResponse mirrors the upstream JSON. Everything except text/eval is
// optional.
type wireResponse struct {
	Text            string   `json:"text"`
	Eval            float64  `json:"eval"`
	Move            string   `json:"move"`
	FEN             string   `json:"fen"`
	Depth           int      `json:"depth"`
	WinChance       float64  `json:"winChance"`
	ContinuationArr []string `json:"continuationArr"`
	Mate            *int     `json:"mate"`
	SAN             string   `json:"san"`
	Turn            string   `json:"turn"`
	Piece           string   `json:"piece"`
	From            string   `json:"from"`
	To              string   `json:"to"`
}

type wireRequest struct {
	Input           string `json:"input,omitempty"`
	FEN             string `json:"fen,omitempty"`
	Depth           int    `json:"depth"`
	Variants        int    `json:"variants"`
	MaxThinkingTime int    `json:"maxThinkingTime"`
}
