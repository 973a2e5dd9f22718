package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/go-github/v73/github"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/skyeshanohan/rulesync/internal/config"
	"github.com/skyeshanohan/rulesync/internal/engine"
	"github.com/skyeshanohan/rulesync/internal/inventory"
	"github.com/skyeshanohan/rulesync/internal/lifecycle"
	"github.com/skyeshanohan/rulesync/internal/logger"
	"github.com/skyeshanohan/rulesync/internal/policy"
	"github.com/skyeshanohan/rulesync/internal/report"
	rulesyncerrors "github.com/skyeshanohan/rulesync/pkg/errors"
)

type runOptions struct {
	ConfigPath string
	Org        string
	DryRun     bool
	Verbose    bool
}

var runCmdRunner = runReconciliation

func newRunCmd(root *rootFlags) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one reconciliation pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DryRun = root.dryRun
			opts.Verbose = root.verbose
			return runCmdRunner(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&opts.Org, "org", "", "Override the configured organization scope")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func runReconciliation(opts runOptions) error {
	cfg, err := config.ParseConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	scope := cfg.Org
	if opts.Org != "" {
		scope = opts.Org
	}

	level := cfg.Logging.Level
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{
		Level:         level,
		HumanReadable: term.IsTerminal(int(os.Stderr.Fd())),
		Writer:        os.Stderr,
	})
	if err != nil {
		return err
	}

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return rulesyncerrors.NewValidationError("GITHUB_TOKEN", "environment variable is not set", nil)
	}

	client, err := newClient(token, cfg.Run.BaseURL)
	if err != nil {
		return err
	}

	timeout := time.Duration(cfg.Run.RequestTimeoutSeconds) * time.Second
	lister := inventory.NewGitHubLister(client, timeout, log)
	fetcher := lifecycle.NewGitHubFetcher(client, cfg.Classifier.DocumentPath, timeout, cfg.Run.MaxFetchRetries)
	classifier := lifecycle.NewClassifier(fetcher, cfg.Classifier.APIVersionPrefix, cfg.Classifier.ProductionValues, log)
	store := policy.NewGitHubStore(client, timeout, log)

	reconciler := engine.New(lister, classifier, store,
		cfg.Run.BatchSize, time.Duration(cfg.Run.BatchDelayMS)*time.Millisecond, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, runErr := reconciler.Run(ctx, engine.Options{
		Scope:    scope,
		PolicyID: cfg.Policy.ID,
		DryRun:   opts.DryRun,
	})
	if rep != nil {
		report.Dispatch(context.Background(), log, rep, report.NewJSONNotifier(os.Stdout))
	}

	return runErr
}

func newClient(token, baseURL string) (*github.Client, error) {
	client := github.NewClient(nil).WithAuthToken(token)
	if baseURL == "" {
		return client, nil
	}
	return client.WithEnterpriseURLs(baseURL, baseURL)
}
