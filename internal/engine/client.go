package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Bounds the upstream service documents for its parameters. Out-of-range
// values are clamped before the request goes out.
const (
	MinDepth       = 1
	MaxDepth       = 18
	MinVariants    = 1
	MaxVariants    = 5
	MinThinkingMS  = 1
	MaxThinkingMS  = 100
	analysisPath   = "/v1"
	defaultTimeout = 8 * time.Second
)

var (
	ErrUpstreamOpen  = errors.New("engine circuit open")
	ErrEmptyResponse = errors.New("engine returned empty body")
)

type Client struct {
	baseURL string
	http    *fasthttp.Client
	logger  *zap.Logger

	defaultTimeout time.Duration
	inFlight       chan struct{}
	breaker        *breaker
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.defaultTimeout = d }
}

func WithMaxInFlight(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.inFlight = make(chan struct{}, n)
		}
	}
}

func WithBreaker(threshold int, cooldown time.Duration) Option {
	return func(c *Client) { c.breaker = newBreaker(threshold, cooldown) }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 64},
		logger:         zap.NewNop(),
		defaultTimeout: defaultTimeout,
		inFlight:       make(chan struct{}, 8),
		breaker:        newBreaker(5, 30*time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze issues one POST to the engine service and converts the reply.
// Transport failures and undecodable bodies surface as errors; a body that
// fails JSON decoding is first run through a best-effort text rescue.
func (c *Client) Analyze(ctx context.Context, req Request) (*Analysis, error) {
	if !c.breaker.Allow() {
		return nil, ErrUpstreamOpen
	}

	select {
	case c.inFlight <- struct{}{}:
		defer func() { <-c.inFlight }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	body := wireRequest{
		Depth:           clamp(req.Depth, MinDepth, MaxDepth),
		Variants:        clamp(req.Variants, MinVariants, MaxVariants),
		MaxThinkingTime: clamp(req.MaxThinkingMS, MinThinkingMS, MaxThinkingMS),
	}
	if strings.TrimSpace(req.FEN) != "" {
		body.FEN = strings.TrimSpace(req.FEN)
	} else {
		body.Input = strings.TrimSpace(req.Moves)
	}

	raw, err := c.post(ctx, analysisPath, body)
	if err != nil {
		c.breaker.Failure()
		c.logger.Warn("engine request failed", zap.Error(err))
		return nil, err
	}
	c.breaker.Success()

	if len(raw) == 0 {
		c.logger.Warn("engine returned empty body")
		return nil, ErrEmptyResponse
	}

	var wire wireResponse
	if err := json.Unmarshal(raw, &wire); err != nil {
		rescued := rescueFromText(string(raw))
		if rescued == nil {
			c.logger.Warn("engine response undecodable", zap.Error(err))
			return nil, fmt.Errorf("decode engine response: %w", err)
		}
		c.logger.Info("engine response rescued from text",
			zap.String("move", rescued.BestMoveSAN),
			zap.Float64("eval", rescued.Eval))
		return rescued, nil
	}

	return fromWire(wire), nil
}

func (c *Client) post(ctx context.Context, path string, in any) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetContentType("application/json")

	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req.SetBody(payload)

	if err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx)); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("engine api error: status=%d body=%s", status, truncate(string(resp.Body()), 512))
	}
	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())
	return out, nil
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func fromWire(w wireResponse) *Analysis {
	return &Analysis{
		Eval:        w.Eval,
		BestMoveSAN: strings.TrimSpace(w.SAN),
		BestMoveUCI: strings.TrimSpace(w.Move),
		Piece:       strings.TrimSpace(w.Piece),
		FromSquare:  strings.TrimSpace(w.From),
		ToSquare:    strings.TrimSpace(w.To),
		Depth:       w.Depth,
		WinChance:   w.WinChance,
		MatePlies:   w.Mate,
		FEN:         strings.TrimSpace(w.FEN),
		SideToMove:  strings.ToLower(strings.TrimSpace(w.Turn)),
	}
}

// Text-rescue patterns for bodies that are not valid JSON. UCI must be
// tried before SAN so "e2e4" does not half-match as "e2".
var (
	rescueMoveRe = regexp.MustCompile(`(?i)move\W*\s*(O-O-O|O-O|[a-h][1-8][a-h][1-8][qrbn]?|[KQRBN]?[a-h]?[1-8]?x?[a-h][1-8](?:=[QRBN])?[+#]?)`)
	rescueEvalRe = regexp.MustCompile(`(?i)(?:eval[^0-9+-]{0,4}|\[)([-+]?\d+(?:\.\d+)?)`)
)

// rescueFromText scrapes a move and an eval out of free text. Returns nil
// when neither token can be found.
func rescueFromText(body string) *Analysis {
	var (
		move  string
		eval  float64
		found bool
	)
	if m := rescueMoveRe.FindStringSubmatch(body); len(m) == 2 {
		move = m[1]
		found = true
	}
	if m := rescueEvalRe.FindStringSubmatch(body); len(m) == 2 {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			eval = v
			found = true
		}
	}
	if !found {
		return nil
	}
	a := &Analysis{Eval: eval}
	if isUCIMove(move) {
		a.BestMoveUCI = move
	} else {
		a.BestMoveSAN = move
	}
	return a
}

func isUCIMove(s string) bool {
	if len(s) != 4 && len(s) != 5 {
		return false
	}
	ok := func(f, r byte) bool { return f >= 'a' && f <= 'h' && r >= '1' && r <= '8' }
	if !ok(s[0], s[1]) || !ok(s[2], s[3]) {
		return false
	}
	if len(s) == 5 {
		switch s[4] {
		case 'q', 'r', 'b', 'n':
		default:
			return false
		}
	}
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
