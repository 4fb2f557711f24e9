package cache

import (
	"go.uber.org/zap"

	"dompet/internal/config"
)

// Backend names accepted in CACHE_BACKEND.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// New builds the configured store. When Redis is selected but unreachable
// it logs a warning and falls back to an in-memory store.
func New(cfg *config.Config, logger *zap.Logger) Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.CacheBackend != BackendRedis {
		logger.Info("using in-memory view cache")
		return NewMemoryStore()
	}

	store, err := NewRedisStore(RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Warn("redis unavailable, falling back to in-memory view cache", zap.Error(err))
		return NewMemoryStore()
	}

	logger.Info("using redis view cache",
		zap.String("host", cfg.RedisHost),
		zap.Int("port", cfg.RedisPort),
		zap.Int("db", cfg.RedisDB))
	return store
}
