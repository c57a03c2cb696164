package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aretw0/labtour"
	"github.com/aretw0/labtour/internal/config"
	"github.com/aretw0/labtour/pkg/adapters/file"
	"github.com/aretw0/labtour/pkg/adapters/memory"
	"github.com/aretw0/labtour/pkg/adapters/redis"
	"github.com/aretw0/labtour/pkg/domain"
	"github.com/aretw0/labtour/pkg/observability"
	"github.com/aretw0/labtour/pkg/persistence/middleware"
	"github.com/aretw0/labtour/pkg/ports"
)

// Closer releases resources held by the engine's backends.
type Closer func() error

func noopCloser() error { return nil }

// NewEngine initializes a labtour engine with standard CLI conventions:
// store chosen by cfg.Store, PII masking and encryption middlewares when
// configured, a Redis lock for the redis store and debug hooks when
// cfg.Debug is set.
func NewEngine(cfg config.Config, logger *slog.Logger, extra ...labtour.Option) (*labtour.Engine, Closer, error) {
	store, locker, closer, err := NewStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	mws, err := storeMiddlewares(cfg, logger)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}

	opts := []labtour.Option{
		labtour.WithLogger(logger),
		labtour.WithStore(store),
		labtour.WithStoreMiddleware(mws...),
	}
	if locker != nil {
		opts = append(opts, labtour.WithLocker(locker))
	}
	if cfg.Debug {
		opts = append(opts, labtour.WithLifecycleHooks(observability.LoggingHooks(logger)))
	}
	opts = append(opts, extra...)

	engine, err := labtour.New(cfg.Dir, opts...)
	if err != nil {
		_ = closer()
		return nil, nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, closer, nil
}

// NewStore builds the raw session store selected by cfg.Store. The locker is
// only set for the redis backend.
func NewStore(cfg config.Config, logger *slog.Logger) (ports.StateStore, ports.DistributedLocker, Closer, error) {
	switch strings.ToLower(cfg.Store) {
	case config.StoreMemory:
		return memory.NewStore(), nil, noopCloser, nil
	case config.StoreFile, "":
		dir := cfg.SessionsDir
		if dir == "" {
			dir = filepath.Join(".labtour", "sessions")
		}
		logger.Debug("using file store", "path", dir)
		return file.New(dir), nil, noopCloser, nil
	case config.StoreRedis:
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			redis.WithTTL(cfg.SessionTTL),
			redis.WithPrefix(cfg.RedisPrefix),
		)
		logger.Debug("using redis store", "addr", cfg.RedisAddr, "prefix", cfg.RedisPrefix)
		return store, redis.NewLocker(store.Client(), cfg.RedisPrefix), store.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownStore, cfg.Store)
	}
}

// storeMiddlewares returns PII masking (outermost) followed by encryption.
// A PII pattern covering a typed choice is allowed but logged, since the
// choice reads back as the mask.
func storeMiddlewares(cfg config.Config, logger *slog.Logger) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware

	if len(cfg.PIIKeys) > 0 {
		patterns := make([]string, 0, len(cfg.PIIKeys))
		for _, key := range cfg.PIIKeys {
			if key = strings.TrimSpace(key); key != "" {
				patterns = append(patterns, key)
			}
		}
		pii, err := middleware.NewPIIMiddleware(patterns)
		if err != nil {
			return nil, err
		}
		masked, err := middleware.MaskedKeys(patterns, domain.TypedKeys())
		if err != nil {
			return nil, err
		}
		for _, key := range masked {
			logger.Warn("pii pattern masks a typed choice; its stored value will read back as the mask", "key", key)
		}
		mws = append(mws, pii)
	}

	active, fallback, err := cfg.EncryptionKeys()
	if err != nil {
		return nil, err
	}
	if active != nil {
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		})
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}

	return mws, nil
}
