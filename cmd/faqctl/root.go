package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanqian/faq-matcher/internal/bootstrap"
	"github.com/yanqian/faq-matcher/internal/domain/faq"
	"github.com/yanqian/faq-matcher/internal/infra/config"
	"github.com/yanqian/faq-matcher/internal/infra/faqstore"
	"github.com/yanqian/faq-matcher/pkg/logger"
)

type rootOptions struct {
	corpusPath string
	sheet      string
	cachePath  string
	noCache    bool
	threshold  float64
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "faqctl",
		Short: "Build and query the FAQ matching index",
		Long: `faqctl loads the FAQ corpus configured for the server (or the one given
by --corpus), warms the index cache and answers one-off questions.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.corpusPath, "corpus", "", "corpus file (.csv, .tsv or .xlsx); overrides config")
	flags.StringVar(&opts.sheet, "sheet", "", "worksheet to read from an .xlsx corpus")
	flags.StringVar(&opts.cachePath, "cache", "", "index cache file; overrides config")
	flags.BoolVar(&opts.noCache, "no-cache", false, "build the index without reading or writing a cache")
	flags.Float64Var(&opts.threshold, "threshold", 0, "similarity threshold in (0, 1]; overrides config")

	root.AddCommand(newBuildCmd(opts), newMatchCmd(opts), newStatsCmd(opts))
	return root
}

// loadConfig resolves the server config and applies command line overrides on top.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.corpusPath != "" {
		cfg.Corpus.Path = o.corpusPath
		cfg.Corpus.Postgres.DSN = ""
	}
	if o.sheet != "" {
		cfg.Corpus.Sheet = o.sheet
	}
	if o.cachePath != "" {
		cfg.Cache.Backend = config.CacheBackendFile
		cfg.Cache.Path = o.cachePath
	}
	if o.noCache {
		cfg.Cache.Backend = config.CacheBackendNone
	}
	if o.threshold != 0 {
		cfg.FAQ.Threshold = o.threshold
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newService loads the index and wraps it in an in-process FAQ service.
func (o *rootOptions) newService(cmd *cobra.Command) (faq.Service, *config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := commandLogger(cmd)
	index, err := bootstrap.BuildIndex(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("load index: %w", err)
	}
	svc := faq.NewService(faq.Config{
		Threshold:          cfg.FAQ.Threshold,
		FallbackMessage:    cfg.FAQ.FallbackMessage,
		TopRecommendations: cfg.FAQ.TopRecommendations,
	}, index, faqstore.NewMemoryStore(), log)
	return svc, cfg, nil
}

func commandLogger(cmd *cobra.Command) *slog.Logger {
	return logger.NewWithWriter(cmd.ErrOrStderr()).With("component", "faqctl."+cmd.Name())
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
