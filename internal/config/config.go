package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	ListenAddr string

	EngineBaseURL            string
	EngineVariants           int
	EngineMaxThinkingMS      int
	EngineTimeoutSec         int
	EngineMaxInFlight        int
	EngineBreakerThreshold   int
	EngineBreakerCooldownSec int

	AIBaseURL     string
	AIAPIKey      string
	AIModel       string
	AIVisionModel string
	AITimeoutSec  int

	MaxUploadBytes int

	RedisURL            string
	AnalysisCacheTTLSec int

	MessageTemplateDir string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		ListenAddr:               ":8080",
		EngineVariants:           1,
		EngineMaxThinkingMS:      50,
		EngineTimeoutSec:         8,
		EngineMaxInFlight:        8,
		EngineBreakerThreshold:   5,
		EngineBreakerCooldownSec: 30,
		AIModel:                  "gpt-4o-mini",
		AITimeoutSec:             20,
		MaxUploadBytes:           5 << 20,
		AnalysisCacheTTLSec:      300,
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}

	cfg.EngineBaseURL = strings.TrimSpace(os.Getenv("ENGINE_BASE_URL"))
	setPositiveInt(&cfg.EngineVariants, "ENGINE_VARIANTS")
	setPositiveInt(&cfg.EngineMaxThinkingMS, "ENGINE_MAX_THINKING_MS")
	setPositiveInt(&cfg.EngineTimeoutSec, "ENGINE_TIMEOUT_SEC")
	setPositiveInt(&cfg.EngineMaxInFlight, "ENGINE_MAX_IN_FLIGHT")
	setPositiveInt(&cfg.EngineBreakerThreshold, "ENGINE_BREAKER_THRESHOLD")
	setPositiveInt(&cfg.EngineBreakerCooldownSec, "ENGINE_BREAKER_COOLDOWN_SEC")

	cfg.AIBaseURL = strings.TrimSpace(os.Getenv("AI_BASE_URL"))
	cfg.AIAPIKey = strings.TrimSpace(os.Getenv("AI_API_KEY"))
	if v := strings.TrimSpace(os.Getenv("AI_MODEL")); v != "" {
		cfg.AIModel = v
	}
	cfg.AIVisionModel = strings.TrimSpace(os.Getenv("AI_VISION_MODEL"))
	if cfg.AIVisionModel == "" {
		cfg.AIVisionModel = cfg.AIModel
	}
	setPositiveInt(&cfg.AITimeoutSec, "AI_TIMEOUT_SEC")

	setPositiveInt(&cfg.MaxUploadBytes, "MAX_UPLOAD_BYTES")

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	setPositiveInt(&cfg.AnalysisCacheTTLSec, "ANALYSIS_CACHE_TTL_SEC")

	cfg.MessageTemplateDir = strings.TrimSpace(os.Getenv("MESSAGE_TEMPLATE_DIR"))

	if cfg.EngineBaseURL == "" {
		return nil, errors.New("ENGINE_BASE_URL is required")
	}
	if cfg.AIBaseURL == "" {
		return nil, errors.New("AI_BASE_URL is required")
	}
	if cfg.AIAPIKey == "" {
		return nil, errors.New("AI_API_KEY is required")
	}

	return cfg, nil
}

// setPositiveInt overrides *dst when the env var holds a positive integer;
// malformed values keep the default.
func setPositiveInt(dst *int, key string) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		*dst = n
	}
}
