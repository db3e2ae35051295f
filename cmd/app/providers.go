package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/yanqian/faq-matcher/internal/bootstrap"
	"github.com/yanqian/faq-matcher/internal/domain/faq"
	"github.com/yanqian/faq-matcher/internal/infra/config"
	"github.com/yanqian/faq-matcher/internal/infra/faqstore"
)

func provideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{
		Threshold:          cfg.FAQ.Threshold,
		FallbackMessage:    cfg.FAQ.FallbackMessage,
		TopRecommendations: cfg.FAQ.TopRecommendations,
	}
}

func provideIndex(cfg *config.Config, logger *slog.Logger) (*faq.Index, error) {
	return bootstrap.BuildIndex(cfg, logger)
}

func provideFAQStore(cfg *config.Config, logger *slog.Logger) faq.Store {
	if !cfg.FAQ.Redis.Enabled {
		return faqstore.NewMemoryStore()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	client, err := bootstrap.NewValkeyClient(ctx, cfg.FAQ.Redis.Addr)
	if err != nil {
		logger.Error("valkey unavailable, falling back to memory store", "error", err)
		return faqstore.NewMemoryStore()
	}
	logger.Info("faq valkey store enabled", "addr", cfg.FAQ.Redis.Addr)
	return faqstore.NewValkeyStore(client, cfg.FAQ.Redis.Prefix)
}
