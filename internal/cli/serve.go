package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dshills/reviewhook/internal/aggregate"
	"github.com/dshills/reviewhook/internal/analysis"
	"github.com/dshills/reviewhook/internal/codectx"
	"github.com/dshills/reviewhook/internal/config"
	"github.com/dshills/reviewhook/internal/github"
	"github.com/dshills/reviewhook/internal/pipeline"
	"github.com/dshills/reviewhook/internal/providers"
	"github.com/dshills/reviewhook/internal/scanner"
	"github.com/dshills/reviewhook/internal/server"
	"github.com/spf13/cobra"
)

// Shared flags
var (
	flagProvider      string
	flagModel         string
	flagRules         string
	flagMaxConcurrent int
	flagMaxFiles      int
	flagMaxFileBytes  int
	flagListen        string
)

func addStackFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (anthropic, openai, gemini, ollama)")
	cmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	cmd.Flags().StringVar(&flagRules, "rules", "", "Rules file path (YAML)")
	cmd.Flags().IntVar(&flagMaxConcurrent, "max-concurrent", 0, "Maximum concurrent file reviews")
	cmd.Flags().IntVar(&flagMaxFiles, "max-files", 0, "Maximum files fetched per review")
	cmd.Flags().IntVar(&flagMaxFileBytes, "max-file-bytes", 0, "Per-file size cap in bytes")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagRules != "" {
		m["rulesFile"] = flagRules
	}
	if flagMaxConcurrent > 0 {
		m["maxConcurrent"] = fmt.Sprintf("%d", flagMaxConcurrent)
	}
	if flagMaxFiles > 0 {
		m["maxFiles"] = fmt.Sprintf("%d", flagMaxFiles)
	}
	if flagMaxFileBytes > 0 {
		m["maxFileBytes"] = fmt.Sprintf("%d", flagMaxFileBytes)
	}
	if flagListen != "" {
		m["listenAddr"] = flagListen
	}
	return m
}

// buildReviewFn assembles the per-file review pipeline from config: rules,
// provider, and structural context extraction. The returned cleanup releases
// the tree-sitter parsers.
func buildReviewFn(cfg config.Config) (aggregate.ReviewFn, func(), error) {
	provider, err := providers.New(cfg.Provider, cfg.Model)
	if err != nil {
		return nil, nil, err
	}

	analyzer := analysis.New()
	if cfg.RulesFile != "" {
		pack, err := analysis.LoadPack(cfg.RulesFile)
		if err != nil {
			return nil, nil, fmt.Errorf("loading rules file: %w", err)
		}
		analyzer = analysis.NewWithPack(pack)
	}

	extractor := codectx.New()
	if err := extractor.Init(); err != nil {
		// Reviews still work without structural context.
		fmt.Fprintf(os.Stderr, "Warning: structural context disabled: %v\n", err)
	}

	reviewer := pipeline.New(analyzer, pipeline.ProviderAI(provider, extractor))
	return reviewer.ReviewFile, extractor.Close, nil
}

func aggregateOptions(cfg config.Config) aggregate.Options {
	return aggregate.Options{
		MaxConcurrent: cfg.MaxConcurrent,
		FileTimeout:   time.Duration(cfg.FileTimeoutSeconds) * time.Second,
	}
}

func scannerOptions(cfg config.Config) scanner.Options {
	opts := scanner.DefaultOptions()
	if cfg.MaxFiles > 0 {
		opts.MaxFiles = cfg.MaxFiles
	}
	if cfg.MaxFileBytes > 0 {
		opts.MaxFileBytes = cfg.MaxFileBytes
	}
	return opts
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}

		client, err := github.NewClient()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitAuthError
			return nil
		}

		reviewFn, cleanup, err := buildReviewFn(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		defer cleanup()

		sc := scanner.New(client, scannerOptions(cfg))
		srv := server.New(sc, client, reviewFn, aggregateOptions(cfg))

		fmt.Fprintf(os.Stderr, "reviewhook listening on %s (provider=%s model=%s)\n",
			cfg.ListenAddr, cfg.Provider, cfg.Model)
		if err := http.ListenAndServe(cfg.ListenAddr, srv.Handler()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
		}
		return nil
	},
}

func init() {
	addStackFlags(serveCmd)
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (default :8080)")
}
