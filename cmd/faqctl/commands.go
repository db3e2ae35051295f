package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
	"github.com/yanqian/faq-matcher/internal/infra/config"
)

func newBuildCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Load the corpus and warm the index cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cfg, err := opts.newService(cmd)
			if err != nil {
				return err
			}
			stats := svc.Stats(commandContext(cmd))
			out := cmd.OutOrStdout()
			color.New(color.FgGreen).Fprintf(out, "✓ Indexed %d questions (%d terms)\n", stats.Entries, stats.VocabularySize)
			fmt.Fprintf(out, "  fingerprint: %s\n", stats.Fingerprint)
			fmt.Fprintf(out, "  cache:       %s\n", describeCache(cfg.Cache.Backend, cfg.Cache.Path))
			return nil
		},
	}
}

func newMatchCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "match [question...]",
		Short: "Answer a single question from the corpus",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := joinArgs(args)
			if question == "" {
				return errors.New("question cannot be empty")
			}
			svc, _, err := opts.newService(cmd)
			if err != nil {
				return err
			}
			resp, err := svc.Match(commandContext(cmd), faq.Request{Question: question})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(resp, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal response: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			if !resp.Matched {
				color.New(color.FgYellow).Fprintf(out, "%s\n", resp.Fallback)
				fmt.Fprintf(out, "  best score: %.3f\n", resp.Score)
				return nil
			}
			color.New(color.FgCyan).Fprintf(out, "Q: %s\n", resp.MatchedQuestion)
			color.New(color.FgGreen).Fprintf(out, "A: %s\n", resp.Answer)
			fmt.Fprintf(out, "  score: %.3f\n", resp.Score)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the match response as JSON")
	return cmd
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Describe the loaded index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, err := opts.newService(cmd)
			if err != nil {
				return err
			}
			stats := svc.Stats(commandContext(cmd))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "entries:     %d\n", stats.Entries)
			fmt.Fprintf(out, "vocabulary:  %d\n", stats.VocabularySize)
			fmt.Fprintf(out, "threshold:   %.2f\n", stats.Threshold)
			fmt.Fprintf(out, "fingerprint: %s\n", stats.Fingerprint)
			return nil
		},
	}
}

func describeCache(backend, path string) string {
	if backend == config.CacheBackendFile {
		return "file " + path
	}
	return backend
}
