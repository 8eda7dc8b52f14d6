package coachdto

// CoachResponse is the wire envelope for every /api/coach reply,
// success or failure. BestMove and Error are pointers so the JSON
// carries an explicit null rather than an empty string.
type CoachResponse struct {
	Success  bool    `json:"success"`
	BestMove *string `json:"bestMove"`
	Advice   string  `json:"advice"`
	Error    *string `json:"error"`
}

func OK(bestMove *string, advice string) *CoachResponse {
	return &CoachResponse{Success: true, BestMove: bestMove, Advice: advice}
}

func Fail(message string) *CoachResponse {
	msg := message
	return &CoachResponse{Success: false, Error: &msg}
}

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}
