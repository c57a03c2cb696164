// Package config loads runtime settings for the labtour binaries from
// LABTOUR_* environment variables. Command line flags are applied on top by
// the caller.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// ErrUnknownStore is returned by Validate for an unsupported store backend.
var ErrUnknownStore = errors.New("unknown store")

// Config holds the settings shared by every command.
type Config struct {
	// Dir is the catalog source: a .yaml/.json file or a scene directory.
	// Empty selects the built-in lab catalog.
	Dir string `env:"LABTOUR_DIR"`

	Store       string        `env:"LABTOUR_STORE" envDefault:"file"`
	SessionsDir string        `env:"LABTOUR_SESSIONS_DIR" envDefault:".labtour/sessions"`
	SessionTTL  time.Duration `env:"LABTOUR_SESSION_TTL" envDefault:"24h"`

	RedisAddr     string `env:"LABTOUR_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"LABTOUR_REDIS_PASSWORD"`
	RedisDB       int    `env:"LABTOUR_REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"LABTOUR_REDIS_PREFIX" envDefault:"labtour:"`

	Port    int  `env:"LABTOUR_PORT" envDefault:"8080"`
	Debug   bool `env:"LABTOUR_DEBUG"`
	LogJSON bool `env:"LABTOUR_LOG_JSON"`
	Metrics bool `env:"LABTOUR_METRICS" envDefault:"true"`

	// EncryptionKey is a base64 encoded 32 byte AES key. When set, session
	// snapshots are encrypted at rest.
	EncryptionKey string `env:"LABTOUR_ENCRYPTION_KEY"`
	// FallbackKeys are older keys still accepted for decryption.
	FallbackKeys []string `env:"LABTOUR_ENCRYPTION_FALLBACK_KEYS" envSeparator:","`

	// PIIKeys are regular expressions matched against global state keys whose
	// values are masked before saving. Masked values are loaded back as the
	// mask, so a pattern that matches a typed choice such as applicationMethod
	// discards that choice on the next update.
	PIIKeys []string `env:"LABTOUR_PII_KEYS" envSeparator:","`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that env cannot check on its own.
func (c Config) Validate() error {
	switch strings.ToLower(c.Store) {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("%w: %q (expected memory, file or redis)", ErrUnknownStore, c.Store)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if _, _, err := c.EncryptionKeys(); err != nil {
		return err
	}
	return nil
}

// Encrypted reports whether session encryption is configured.
func (c Config) Encrypted() bool {
	return c.EncryptionKey != ""
}

// EncryptionKeys decodes the active and fallback keys. Both are nil when
// encryption is not configured.
func (c Config) EncryptionKeys() ([]byte, [][]byte, error) {
	if c.EncryptionKey == "" {
		return nil, nil, nil
	}
	active, err := decodeKey(c.EncryptionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("LABTOUR_ENCRYPTION_KEY: %w", err)
	}
	var fallback [][]byte
	for i, raw := range c.FallbackKeys {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		key, err := decodeKey(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("LABTOUR_ENCRYPTION_FALLBACK_KEYS[%d]: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(raw string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("key is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}
