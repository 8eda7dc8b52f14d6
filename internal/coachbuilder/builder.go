package coachbuilder

import (
	"fmt"
	"time"

	"github.com/park285/chess-coach-api/internal/ai"
	"github.com/park285/chess-coach-api/internal/board"
	"github.com/park285/chess-coach-api/internal/coach"
	"github.com/park285/chess-coach-api/internal/config"
	"github.com/park285/chess-coach-api/internal/engine"
	"github.com/park285/chess-coach-api/internal/msgcat"
	"go.uber.org/zap"
)

// Deps holds the wired pipeline. Clients are constructed once at startup
// and injected; nothing here is a hidden singleton.
type Deps struct {
	Service  *coach.Service
	Engine   *engine.Client
	AI       *ai.Client
	Cache    *coach.AnalysisCache
	Catalog  *msgcat.Catalog
	Renderer *board.Renderer
}

func New(cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog, err := msgcat.New(cfg.MessageTemplateDir)
	if err != nil {
		return nil, fmt.Errorf("load message catalog: %w", err)
	}

	engineClient := engine.NewClient(cfg.EngineBaseURL,
		engine.WithTimeout(time.Duration(cfg.EngineTimeoutSec)*time.Second),
		engine.WithMaxInFlight(cfg.EngineMaxInFlight),
		engine.WithBreaker(cfg.EngineBreakerThreshold, time.Duration(cfg.EngineBreakerCooldownSec)*time.Second),
		engine.WithLogger(logger.Named("engine")),
	)

	aiClient := ai.NewClient(cfg.AIBaseURL, cfg.AIAPIKey,
		ai.WithTimeout(time.Duration(cfg.AITimeoutSec)*time.Second),
		ai.WithLogger(logger.Named("ai")),
	)

	vision := coach.NewVisionExtractor(aiClient, cfg.AIVisionModel, logger.Named("vision"))

	// Cache is optional: without REDIS_URL every request re-hits the engine.
	var cache *coach.AnalysisCache
	if cfg.RedisURL != "" {
		cache, err = coach.NewAnalysisCache(cfg.RedisURL,
			time.Duration(cfg.AnalysisCacheTTLSec)*time.Second, logger.Named("cache"))
		if err != nil {
			return nil, fmt.Errorf("init analysis cache: %w", err)
		}
	}

	svcCfg := coach.Config{
		CoachModel:    cfg.AIModel,
		Variants:      cfg.EngineVariants,
		MaxThinkingMS: cfg.EngineMaxThinkingMS,
		EngineTimeout: time.Duration(cfg.EngineTimeoutSec) * time.Second,
		AITimeout:     time.Duration(cfg.AITimeoutSec) * time.Second,
	}
	service := coach.NewService(engineClient, aiClient, vision, cache,
		coach.NewFormatter(catalog), svcCfg, logger.Named("coach"))

	return &Deps{
		Service:  service,
		Engine:   engineClient,
		AI:       aiClient,
		Cache:    cache,
		Catalog:  catalog,
		Renderer: board.NewRenderer(),
	}, nil
}

func (d *Deps) Close() error {
	if d == nil {
		return nil
	}
	return d.Cache.Close()
}
