package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
	"github.com/yanqian/faq-matcher/internal/infra/config"
	"github.com/yanqian/faq-matcher/internal/infra/corpus"
	"github.com/yanqian/faq-matcher/internal/infra/indexcache"
)

const indexLoadTimeout = 30 * time.Second

// LoadOrBuildIndex loads the corpus file at corpusPath and returns the index cached at
// cachePath, building and persisting it when the cache is missing, stale or corrupt.
func LoadOrBuildIndex(ctx context.Context, corpusPath, cachePath string, logger *slog.Logger) (*faq.Index, error) {
	var store faq.IndexStore = indexcache.NoopStore{}
	if cachePath != "" {
		store = indexcache.NewFileStore(cachePath)
	}
	return faq.LoadOrBuild(ctx, corpus.NewFileSource(corpusPath, ""), store, logger)
}

// BuildIndex assembles the configured corpus source and index store and loads the index.
func BuildIndex(cfg *config.Config, logger *slog.Logger) (*faq.Index, error) {
	ctx, cancel := context.WithTimeout(context.Background(), indexLoadTimeout)
	defer cancel()

	source, closeSource, err := NewCorpusSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	store, closeStore, err := NewIndexStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	return faq.LoadOrBuild(ctx, source, store, logger)
}

// NewCorpusSource picks the Postgres table when a DSN is configured and the corpus file otherwise.
// The returned func releases any connection pool.
func NewCorpusSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (faq.CorpusSource, func(), error) {
	dsn := strings.TrimSpace(cfg.Corpus.Postgres.DSN)
	if dsn == "" {
		logger.Info("faq corpus file source", "path", cfg.Corpus.Path)
		return corpus.NewFileSource(cfg.Corpus.Path, cfg.Corpus.Sheet), func() {}, nil
	}
	pool, err := newPool(ctx, cfg.Corpus.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("faq corpus postgres: %w", err)
	}
	logger.Info("faq corpus postgres source", "table", cfg.Corpus.Postgres.Table)
	return corpus.NewPostgresSource(pool, cfg.Corpus.Postgres.Table), pool.Close, nil
}

// NewIndexStore builds the configured cache backend. Backends that cannot be reached
// degrade to a no-op store so the index is still built from the corpus.
func NewIndexStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (faq.IndexStore, func(), error) {
	noop := func() {}
	switch cfg.Cache.Backend {
	case config.CacheBackendFile:
		return indexcache.NewFileStore(cfg.Cache.Path), noop, nil
	case config.CacheBackendMemory:
		return indexcache.NewMemoryStore(), noop, nil
	case config.CacheBackendNone:
		return indexcache.NoopStore{}, noop, nil
	case config.CacheBackendValkey:
		client, err := NewValkeyClient(ctx, cfg.Cache.Valkey.Addr)
		if err != nil {
			logger.Error("valkey index cache unavailable, caching disabled", "error", err)
			return indexcache.NoopStore{}, noop, nil
		}
		return indexcache.NewValkeyStore(client, cfg.Cache.Valkey.Prefix), client.Close, nil
	case config.CacheBackendR2:
		r2 := cfg.Cache.R2
		store, err := indexcache.NewR2Store(indexcache.R2Options{
			Endpoint:  r2.Endpoint,
			AccessKey: r2.AccessKey,
			SecretKey: r2.SecretKey,
			Bucket:    r2.Bucket,
			Region:    r2.Region,
			Prefix:    r2.Prefix,
		}, logger)
		if err != nil {
			logger.Error("r2 index cache unavailable, caching disabled", "error", err)
			return indexcache.NoopStore{}, noop, nil
		}
		return store, noop, nil
	case config.CacheBackendPostgres:
		pool, err := newPool(ctx, cfg.Cache.Postgres)
		if err != nil {
			logger.Error("postgres index cache unavailable, caching disabled", "error", err)
			return indexcache.NoopStore{}, noop, nil
		}
		store := indexcache.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Error("postgres index cache schema failed, caching disabled", "error", err)
			pool.Close()
			return indexcache.NoopStore{}, noop, nil
		}
		return store, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache backend %q", cfg.Cache.Backend)
	}
}

// NewValkeyClient connects to addr, which may be a host:port or a redis:// URL, and pings it.
func NewValkeyClient(ctx context.Context, addr string) (valkey.Client, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(addr, "://") {
		opt, err = valkey.ParseURL(addr)
		if err != nil {
			return nil, err
		}
	} else {
		opt = valkey.ClientOption{InitAddress: []string{addr}}
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func newPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
