package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Cache backends understood by the index store provider.
const (
	CacheBackendFile     = "file"
	CacheBackendValkey   = "valkey"
	CacheBackendR2       = "r2"
	CacheBackendPostgres = "postgres"
	CacheBackendMemory   = "memory"
	CacheBackendNone     = "none"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP   HTTPConfig   `yaml:"http"`
	FAQ    FAQConfig    `yaml:"faq"`
	Corpus CorpusConfig `yaml:"corpus"`
	Cache  CacheConfig  `yaml:"cache"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// FAQConfig controls matching and trending behavior.
type FAQConfig struct {
	Threshold          float64     `yaml:"threshold"`
	FallbackMessage    string      `yaml:"fallbackMessage"`
	TopRecommendations int         `yaml:"topRecommendations"`
	Redis              RedisConfig `yaml:"redis"`
}

// RedisConfig contains connection information for a Valkey/Redis server.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// CorpusConfig selects where the FAQ corpus is read from.
type CorpusConfig struct {
	Path     string         `yaml:"path"`
	Sheet    string         `yaml:"sheet"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	Table    string `yaml:"table"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// CacheConfig selects where built indexes are persisted.
type CacheConfig struct {
	Backend  string         `yaml:"backend"`
	Path     string         `yaml:"path"`
	Valkey   RedisConfig    `yaml:"valkey"`
	R2       R2Config       `yaml:"r2"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// R2Config holds S3-compatible object storage credentials.
type R2Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("FAQ_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FAQ.Threshold = parsed
		}
	}
	if v := os.Getenv("FAQ_FALLBACK_MESSAGE"); v != "" {
		cfg.FAQ.FallbackMessage = v
	}
	if v := os.Getenv("FAQ_RECOMMENDATIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.TopRecommendations = parsed
		}
	}
	if v := os.Getenv("FAQ_REDIS_ENABLED"); v != "" {
		cfg.FAQ.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("FAQ_REDIS_ADDR"); v != "" {
		cfg.FAQ.Redis.Addr = v
	}
	if v := os.Getenv("FAQ_CORPUS_PATH"); v != "" {
		cfg.Corpus.Path = v
	}
	if v := os.Getenv("FAQ_CORPUS_SHEET"); v != "" {
		cfg.Corpus.Sheet = v
	}
	if v := os.Getenv("FAQ_CORPUS_POSTGRES_DSN"); v != "" {
		cfg.Corpus.Postgres.DSN = v
	}
	if v := os.Getenv("FAQ_CORPUS_POSTGRES_TABLE"); v != "" {
		cfg.Corpus.Postgres.Table = v
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}
	if v := os.Getenv("CACHE_VALKEY_ADDR"); v != "" {
		cfg.Cache.Valkey.Addr = v
	}
	if v := os.Getenv("CACHE_R2_ENDPOINT"); v != "" {
		cfg.Cache.R2.Endpoint = v
	}
	if v := os.Getenv("CACHE_R2_ACCESS_KEY"); v != "" {
		cfg.Cache.R2.AccessKey = v
	}
	if v := os.Getenv("CACHE_R2_SECRET_KEY"); v != "" {
		cfg.Cache.R2.SecretKey = v
	}
	if v := os.Getenv("CACHE_R2_BUCKET"); v != "" {
		cfg.Cache.R2.Bucket = v
	}
	if v := os.Getenv("CACHE_POSTGRES_DSN"); v != "" {
		cfg.Cache.Postgres.DSN = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             20,
			},
		},
		FAQ: FAQConfig{
			Threshold:          0.6,
			FallbackMessage:    "Sorry, I couldn't understand that. Please rephrase.",
			TopRecommendations: 5,
			Redis:              RedisConfig{Prefix: "faq"},
		},
		Corpus: CorpusConfig{
			Path: "data/faq.csv",
			Postgres: PostgresConfig{
				Table:    "faq_entries",
				MaxConns: 4,
			},
		},
		Cache: CacheConfig{
			Backend: CacheBackendFile,
			Path:    "data/faq-index.bin",
			Valkey:  RedisConfig{Prefix: "faq"},
			R2:      R2Config{Region: "auto", Prefix: "faq"},
			Postgres: PostgresConfig{
				MaxConns: 2,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.FAQ.Threshold <= 0 || c.FAQ.Threshold > 1 {
		return errors.New("faq.threshold must be in (0, 1]")
	}
	if strings.TrimSpace(c.FAQ.FallbackMessage) == "" {
		return errors.New("faq.fallbackMessage cannot be empty")
	}
	if c.FAQ.TopRecommendations < 0 {
		return errors.New("faq.topRecommendations cannot be negative")
	}
	if c.FAQ.Redis.Enabled && strings.TrimSpace(c.FAQ.Redis.Addr) == "" {
		return errors.New("faq.redis.addr cannot be empty when redis is enabled")
	}
	if strings.TrimSpace(c.Corpus.Path) == "" && strings.TrimSpace(c.Corpus.Postgres.DSN) == "" {
		return errors.New("corpus.path or corpus.postgres.dsn must be set")
	}
	switch c.Cache.Backend {
	case CacheBackendFile:
		if strings.TrimSpace(c.Cache.Path) == "" {
			return errors.New("cache.path cannot be empty for the file backend")
		}
	case CacheBackendValkey:
		if strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
			return errors.New("cache.valkey.addr cannot be empty for the valkey backend")
		}
	case CacheBackendR2:
		if c.Cache.R2.Endpoint == "" || c.Cache.R2.Bucket == "" {
			return errors.New("cache.r2.endpoint and cache.r2.bucket are required for the r2 backend")
		}
	case CacheBackendPostgres:
		if strings.TrimSpace(c.Cache.Postgres.DSN) == "" {
			return errors.New("cache.postgres.dsn cannot be empty for the postgres backend")
		}
	case CacheBackendMemory, CacheBackendNone:
	default:
		return fmt.Errorf("cache.backend %q is not supported", c.Cache.Backend)
	}
	return nil
}
