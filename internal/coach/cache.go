package coach

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/park285/chess-coach-api/internal/engine"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const analysisKeyPrefix = "coach:analysis:"

// AnalysisCache is an optional Redis-backed cache for engine analyses.
// It only exists when REDIS_URL is configured; without it every request
// re-hits the engine service, which matches the historical behavior.
type AnalysisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewAnalysisCache(redisURL string, ttl time.Duration, logger *zap.Logger) (*AnalysisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisCache{rdb: rdb, ttl: ttl, logger: logger}, nil
}

func (c *AnalysisCache) key(req engine.Request) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d|%d", req.Moves, req.FEN, req.Depth, req.Variants)))
	return analysisKeyPrefix + hex.EncodeToString(sum[:16])
}

func (c *AnalysisCache) Get(ctx context.Context, req engine.Request) *engine.Analysis {
	if c == nil || c.rdb == nil {
		return nil
	}
	raw, err := c.rdb.Get(ctx, c.key(req)).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		c.logger.Debug("analysis cache get failed", zap.Error(err))
		return nil
	}
	var a engine.Analysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil
	}
	return &a
}

func (c *AnalysisCache) Set(ctx context.Context, req engine.Request, a *engine.Analysis) {
	if c == nil || c.rdb == nil || a == nil {
		return
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(req), raw, c.ttl).Err(); err != nil {
		c.logger.Debug("analysis cache set failed", zap.Error(err))
	}
}

func (c *AnalysisCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
