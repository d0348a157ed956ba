package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dshills/reviewhook/internal/aggregate"
	"github.com/dshills/reviewhook/internal/config"
	"github.com/dshills/reviewhook/internal/github"
	"github.com/dshills/reviewhook/internal/providers"
	"github.com/dshills/reviewhook/internal/report"
	"github.com/dshills/reviewhook/internal/scanner"
	"github.com/dshills/reviewhook/internal/webhook"
	"github.com/spf13/cobra"
)

var (
	flagOwner  string
	flagRepo   string
	flagBranch string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review a repository branch once and print the report",
	Long:  "Run the full review flow against a repository branch without a webhook delivery and print the composed Markdown report to stdout. Nothing is posted to GitHub.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagOwner == "" || flagRepo == "" {
			return fmt.Errorf("--owner and --repo are required")
		}

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

		ctx := context.Background()
		sc := scanner.New(client, scannerOptions(cfg))
		files, err := sc.Fetch(ctx, flagOwner, flagRepo, flagBranch)
		if err != nil {
			if providers.IsAuthError(err) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				exitCode = ExitAuthError
				return nil
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		rctx := aggregate.Context{
			Repository: flagOwner + "/" + flagRepo,
			Branch:     flagBranch,
			EventType:  webhook.EventPush,
		}
		review := aggregate.Run(ctx, files, rctx, reviewFn, aggregateOptions(cfg))

		fmt.Fprintln(os.Stdout, report.Compose(review, time.Now()))
		fmt.Fprintf(os.Stderr, "Reviewed %d files: %d issues, %d errors\n",
			review.TotalFiles, review.TotalIssues, review.TotalErrors)
		return nil
	},
}

func init() {
	addStackFlags(reviewCmd)
	reviewCmd.Flags().StringVar(&flagOwner, "owner", "", "Repository owner")
	reviewCmd.Flags().StringVar(&flagRepo, "repo", "", "Repository name")
	reviewCmd.Flags().StringVar(&flagBranch, "branch", "main", "Branch to review")
}
