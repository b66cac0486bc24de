package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/ideaboard/internal/model"
	"github.com/ppiankov/ideaboard/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	sourceRoot string
	outputDir  string
	pattern    string
	timeout    time.Duration
	runTimeout time.Duration
	noCache    bool
	cacheDir   string
	llmEnabled bool
	llmModel   string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the ideas dashboard",
	Long: `Generate loads every idea document, enriches it with contributors,
computes the overlap matrix and writes one static HTML page.

GITHUB_TOKEN enables discussion participants and pull request authors;
without it those columns fall back to commit history only.

Example:
  ideaboard generate
  ideaboard generate --root ../BLT-Ideas --out ../BLT-Ideas/docs
  ideaboard generate --llm --llm-model gpt-4o-mini`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addGenerateFlags(generateCmd)
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sourceRoot, "root", ".", "repository root holding the idea documents")
	cmd.Flags().StringVar(&outputDir, "out", "docs", "output directory for the page")
	cmd.Flags().StringVar(&pattern, "pattern", "Idea-*.md", "document glob relative to --root")

	// HTTP flags
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "timeout for each outbound call")
	cmd.Flags().DurationVar(&runTimeout, "run-timeout", 10*time.Minute, "overall run timeout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the API response cache")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "persist API responses in this directory across runs; reused results may be up to cache.ttl (default 1h) old")

	// LLM flags
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "generate missing one-liners with an LLM (needs OPENAI_API_KEY)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyGenerateFlags(cmd, cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "Source:  %s (%s)\n", cfg.Source.Root, cfg.Source.Pattern)
		fmt.Fprintf(os.Stderr, "Output:  %s\n", cfg.Output.Dir)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", cfg.HTTP.Timeout)
		fmt.Fprintf(os.Stderr, "Cache:   %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg, newLogger(cfg.Verbose), os.Stderr)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	result, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}

	printRunSummary(os.Stdout, result)
	return nil
}

// applyGenerateFlags overrides configuration values with explicitly set flags
func applyGenerateFlags(cmd *cobra.Command, cfg *model.Config) error {
	flags := cmd.Flags()

	if flags.Changed("root") {
		cfg.Source.Root = sourceRoot
	}
	if flags.Changed("out") {
		cfg.Output.Dir = outputDir
	}
	if flags.Changed("pattern") {
		cfg.Source.Pattern = pattern
	}
	if flags.Changed("timeout") {
		cfg.HTTP.Timeout = timeout
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if flags.Changed("cache-dir") {
		cfg.Cache.Dir = cacheDir
	}

	if llmEnabled {
		cfg.LLM.Provider = "openai"
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}

	return nil
}
