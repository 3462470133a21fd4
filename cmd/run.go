package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxsaver/internal/attachments"
	"github.com/teemow/inboxsaver/internal/config"
	"github.com/teemow/inboxsaver/internal/gmail"
	"github.com/teemow/inboxsaver/internal/google"
	"github.com/teemow/inboxsaver/internal/instrumentation"
	"github.com/teemow/inboxsaver/internal/logging"
	"github.com/teemow/inboxsaver/internal/processor"
	"github.com/teemow/inboxsaver/internal/scheduler"
	"github.com/teemow/inboxsaver/internal/server"
)

// runOptions holds the flags of the run command.
type runOptions struct {
	configFile  string
	checkEvery  int
	once        bool
	verbose     bool
	metricsAddr string
}

// apply overrides file values with flags that were set.
func (o runOptions) apply(cfg *config.Config, changed func(string) bool) error {
	if changed("check-every") {
		if o.checkEvery < 0 {
			return &config.ConfigError{Key: "check-every", Reason: "must not be negative"}
		}
		cfg.PollInterval = time.Duration(o.checkEvery) * time.Second
	}
	if o.once {
		cfg.PollInterval = 0
	}
	if o.verbose {
		cfg.Verbose = true
	}
	return nil
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [config-file]",
		Short: "Save attachments of labeled unread messages",
		Long: `Scan the mailbox for unread messages with the configured label, save the
attachments whose content type starts with the configured prefix and apply the
configured disposition.

With checkEverySeconds set to 0 (or --once) a single pass runs. Otherwise the
mailbox is checked periodically until interrupted. When stdin is a terminal,
'q' quits and 'n' checks immediately.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configFile = configPath(opts.configFile, args)
			return runRun(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", fmt.Sprintf("Configuration file (default %q)", config.DefaultFile))
	cmd.Flags().IntVar(&opts.checkEvery, "check-every", 0, "Seconds between checks, overrides checkEverySeconds (0 runs once)")
	cmd.Flags().BoolVar(&opts.once, "once", false, "Run a single pass and exit")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve /metrics, /healthz and /readyz on this address (e.g. :9090)")

	return cmd
}

func runRun(cmd *cobra.Command, opts runOptions) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}
	if err := opts.apply(cfg, cmd.Flags().Changed); err != nil {
		return err
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)
	if !cfg.DispositionRecognized() {
		logger.Warn("unrecognized dispose value, messages with attachments will be left unchanged",
			slog.String("dispose", cfg.RawDispose))
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if opts.metricsAddr != "" {
		instrConfig.Enabled = true
		instrConfig.MetricsExporter = instrumentation.ExporterPrometheus
	}
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()
	metrics := provider.Metrics()

	store := &attachments.Store{
		Dir:         cfg.DownloadDirectory,
		CaptureRaw:  cfg.CaptureRawEncoded,
		CaptureDir:  cfg.CaptureDirectory,
		AllowUnsafe: cfg.AllowUnsafeFilenames,
		Logger:      logger,
	}
	if err := store.Prepare(); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Downloading %s attachments to %s", cfg.ContentTypePrefix, cfg.DownloadDirectory))

	if !google.NewTokenStore(cfg.TokenPath()).Exists() && isTerminal() {
		if err := authorize(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("authorization failed: %w", err)
		}
	}

	auth := gmail.NewAuthorizer(newConnector(cfg, metrics), metrics)
	proc := processor.NewFromConfig(cfg, store, logger, metrics)
	runner := processor.NewRunner(auth, proc, cfg.Label, cfg.Disposition, logger, metrics)

	health := server.NewHealthChecker()
	pass := func(ctx context.Context) error {
		_, err := runner.RunPass(ctx)
		health.RecordPass(err)
		return err
	}

	if opts.metricsAddr != "" {
		metricsServer, err := startMetricsServer(opts.metricsAddr, provider, health, logger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("error during metrics server shutdown", logging.Err(err))
			}
		}()
	}

	sched := scheduler.New(pass, cfg.PollInterval,
		scheduler.WithLogger(logging.NewSlogAdapter(logger)))

	if cfg.OneShot() {
		return sched.Start(ctx)
	}

	logger.Info("checking periodically", slog.Duration("interval", cfg.PollInterval))
	if err := sched.Start(ctx); err != nil {
		return err
	}
	if isTerminal() {
		go runInteractive(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), sched)
	}

	select {
	case <-ctx.Done():
		logger.Info("stopping")
		sched.Stop()
	case <-sched.Done():
	}
	logger.Info("stopped", slog.Int64("passes", sched.Passes()))
	return nil
}

func startMetricsServer(addr string, provider *instrumentation.Provider, health *server.HealthChecker, logger *slog.Logger) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		InstrumentationProvider: provider,
		Health:                  health,
		Logger:                  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}
	if err := metricsServer.Listen(); err != nil {
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	}
	go func() {
		if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", logging.Err(err))
		}
	}()
	return metricsServer, nil
}
