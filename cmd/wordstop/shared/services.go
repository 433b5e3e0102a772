package shared

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/lox/wordstop/internal/answers"
	"github.com/lox/wordstop/internal/config"
	"github.com/lox/wordstop/internal/dictionary"
)

// LoadConfig loads and validates the configuration file.
func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadAnswers returns the configured curated answer database, or the
// embedded one.
func LoadAnswers(cfg *config.Config) (*answers.Database, error) {
	if cfg.Game.AnswersFile == "" {
		return answers.Default(), nil
	}
	db, err := answers.LoadFile(cfg.Game.AnswersFile)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	return db, nil
}

// BuildLookup assembles the dictionary stack from cfg: the HTTP client,
// Prometheus instrumentation when reg is set and a Redis cache when an
// address is configured. An unreachable Redis is logged and skipped. The
// returned close function releases the Redis connection.
func BuildLookup(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, logger zerolog.Logger) (dictionary.Lookup, func(), error) {
	noop := func() {}
	if cfg.Dictionary.Offline {
		logger.Info().Msg("Dictionary offline, only curated answers are valid")
		return dictionary.Offline{}, noop, nil
	}

	var lookup dictionary.Lookup = dictionary.NewHTTPClient(cfg.Dictionary.URL,
		dictionary.WithLanguage(cfg.Dictionary.Language),
		dictionary.WithTimeout(cfg.DictionaryTimeout()))
	if reg != nil {
		lookup = dictionary.NewMetrics(reg).Instrument(lookup)
	}

	if cfg.Dictionary.RedisAddr == "" {
		return lookup, noop, nil
	}
	client, err := dictionary.DialRedis(ctx, cfg.Dictionary.RedisAddr, cfg.Dictionary.RedisPassword, cfg.Dictionary.RedisDB)
	if err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Dictionary.RedisAddr).Msg("Redis unavailable, running without dictionary cache")
		return lookup, noop, nil
	}
	logger.Info().Str("addr", cfg.Dictionary.RedisAddr).Dur("ttl", cfg.CacheTTL()).Msg("Dictionary cache enabled")
	cached := dictionary.NewRedisCache(lookup, client, cfg.CacheTTL(), logger)
	return cached, func() { _ = client.Close() }, nil
}
