package server

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/google/uuid"
	"github.com/park285/chess-coach-api/internal/board"
	"github.com/park285/chess-coach-api/internal/coach"
	"github.com/park285/chess-coach-api/internal/msgcat"
	"github.com/park285/chess-coach-api/pkg/coachdto"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const requestBodySlack = 1 << 20

type Server struct {
	coach     *coach.Service
	renderer  *board.Renderer
	catalog   *msgcat.Catalog
	logger    *zap.Logger
	maxUpload int
	startedAt time.Time

	httpServer *fasthttp.Server
}

func New(coachSvc *coach.Service, renderer *board.Renderer, catalog *msgcat.Catalog, maxUpload int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	s := &Server{
		coach:     coachSvc,
		renderer:  renderer,
		catalog:   catalog,
		logger:    logger,
		maxUpload: maxUpload,
		startedAt: time.Now(),
	}
	s.httpServer = &fasthttp.Server{
		Handler:            s.route,
		Name:               "chess-coach-api",
		MaxRequestBodySize: maxUpload + requestBodySlack,
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("http server listening", zap.String("addr", addr))
	return s.httpServer.ListenAndServe(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.ShutdownWithContext(ctx)
}

// Handler exposes the routing entrypoint for tests.
func (s *Server) Handler() fasthttp.RequestHandler { return s.route }

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	requestID := uuid.NewString()
	start := time.Now()
	path := string(ctx.Path())
	method := string(ctx.Method())

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in request handler",
				zap.Any("panic", r),
				zap.String("request_id", requestID),
				zap.String("path", path))
			s.writeEnvelope(ctx, fasthttp.StatusInternalServerError,
				coachdto.Fail(s.message("server.error.internal", "coaching pipeline failed, please try again")))
		}
		s.logger.Info("http request",
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", ctx.Response.StatusCode()),
			zap.Duration("duration", time.Since(start)))
	}()

	switch {
	case path == "/api/coach" && method == fasthttp.MethodPost:
		s.handleCoach(ctx)
	case path == "/api/test" && method == fasthttp.MethodGet:
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString(s.message("server.liveness", "This is a test"))
	case path == "/api/board" && method == fasthttp.MethodGet:
		s.handleBoard(ctx)
	case path == "/healthz" && method == fasthttp.MethodGet:
		s.handleHealth(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}

func (s *Server) handleCoach(ctx *fasthttp.RequestCtx) {
	form, err := ctx.MultipartForm()
	if err != nil {
		s.writeEnvelope(ctx, fasthttp.StatusBadRequest, coachdto.Fail("malformed multipart form: "+err.Error()))
		return
	}

	moves := ""
	if vals := form.Value["moves"]; len(vals) > 0 {
		moves = strings.TrimSpace(vals[0])
	}
	if moves == "" {
		s.writeEnvelope(ctx, fasthttp.StatusBadRequest,
			coachdto.Fail(s.message("server.error.moves_required", "moves field is required")))
		return
	}

	files := form.File["screenshot"]
	if len(files) == 0 {
		s.writeEnvelope(ctx, fasthttp.StatusBadRequest,
			coachdto.Fail(s.message("server.error.screenshot_required", "screenshot file is required")))
		return
	}
	fh := files[0]
	if fh.Size > int64(s.maxUpload) {
		s.writeEnvelope(ctx, fasthttp.StatusRequestEntityTooLarge,
			coachdto.Fail(s.message("server.error.upload_too_large", "uploaded file is too large")))
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.writeEnvelope(ctx, fasthttp.StatusBadRequest, coachdto.Fail("cannot read screenshot upload"))
		return
	}
	image, err := io.ReadAll(io.LimitReader(f, int64(s.maxUpload)+1))
	_ = f.Close()
	if err != nil {
		s.writeEnvelope(ctx, fasthttp.StatusBadRequest, coachdto.Fail("cannot read screenshot upload"))
		return
	}
	if len(image) > s.maxUpload {
		s.writeEnvelope(ctx, fasthttp.StatusRequestEntityTooLarge,
			coachdto.Fail(s.message("server.error.upload_too_large", "uploaded file is too large")))
		return
	}

	mimeType := fh.Header.Get("Content-Type")
	result := s.coach.Advise(ctx, image, mimeType, moves)
	s.writeEnvelope(ctx, fasthttp.StatusOK, coachdto.OK(result.BestMove, result.Message))
}

func (s *Server) handleBoard(ctx *fasthttp.RequestCtx) {
	if s.renderer == nil {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		return
	}
	fen := strings.TrimSpace(string(ctx.QueryArgs().Peek("fen")))
	flip := ctx.QueryArgs().GetBool("flip")

	game := nchess.NewGame()
	if fen != "" && fen != "startpos" {
		fenOpt, err := nchess.FEN(fen)
		if err != nil {
			s.writeEnvelope(ctx, fasthttp.StatusBadRequest, coachdto.Fail("invalid fen: "+err.Error()))
			return
		}
		game = nchess.NewGame(fenOpt)
	}

	png, err := s.renderer.RenderPNG(ctx, game.Position().Board(), board.Options{Flipped: flip})
	if err != nil {
		s.writeEnvelope(ctx, fasthttp.StatusInternalServerError, coachdto.Fail("board render failed"))
		return
	}
	ctx.SetContentType("image/png")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(png)
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	resp := coachdto.HealthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	}
	payload, _ := json.Marshal(resp)
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(payload)
}

func (s *Server) writeEnvelope(ctx *fasthttp.RequestCtx, status int, resp *coachdto.CoachResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(payload)
}

func (s *Server) message(key, def string) string {
	if s.catalog == nil {
		return def
	}
	return s.catalog.RenderOr(key, nil, def)
}
