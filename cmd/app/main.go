package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

func main() {
	if err := applyFlags(os.Args[1:]); err != nil {
		log.Fatalf("invalid arguments: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := initializeApp()
	if err != nil {
		log.Fatalf("failed to build faq server: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("faq server stopped with error: %v", err)
	}
}

// applyFlags maps command line flags onto the environment read by config.Load.
func applyFlags(args []string) error {
	fs := pflag.NewFlagSet("faq-server", pflag.ContinueOnError)
	configPath := fs.String("config", "", "path to the YAML config file (overrides CONFIG_PATH)")
	corpusPath := fs.String("corpus", "", "FAQ corpus file (overrides FAQ_CORPUS_PATH)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath != "" {
		if err := os.Setenv("CONFIG_PATH", *configPath); err != nil {
			return err
		}
	}
	if *corpusPath != "" {
		if err := os.Setenv("FAQ_CORPUS_PATH", *corpusPath); err != nil {
			return err
		}
	}
	return nil
}
