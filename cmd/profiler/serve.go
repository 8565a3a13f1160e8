package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/strategy-profiler/internal/config"
	"github.com/jonathan/strategy-profiler/internal/observability"
	"github.com/jonathan/strategy-profiler/internal/pipeline"
	"github.com/jonathan/strategy-profiler/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server that serves the questionnaire, accepts submissions,
and exposes the JWT-protected admin dashboard and Prometheus metrics.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if servePort != 0 {
		cfg.Server.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	metrics := observability.NewMetrics(observability.WithGoCollectors())
	c, err := buildCore(metrics)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to open results store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close results store", zap.Error(err))
		}
	}()

	if !cfg.SMTP.Configured() {
		logger.Warn("SMTP is not configured, results emails will only be backed up",
			zap.String("backup_dir", cfg.SMTP.BackupDir))
	}
	service := pipeline.NewService(c.evaluator, pipeline.ServiceOptions{
		Store:   store,
		Mailer:  newMailer(),
		Logger:  logger,
		Metrics: metrics,
	})

	opts := server.Options{
		Addr:            cfg.Addr(),
		Catalog:         c.catalog,
		Service:         service,
		Store:           store,
		RateLimit:       cfg.RateLimit,
		Metrics:         metrics,
		Logger:          logger,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}
	opts.JWT, opts.Admin = adminAuth(cfg)

	srv, err := server.New(opts)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start(cmd.Context())
}

// adminAuth returns nil settings, disabling the dashboard, when auth is
// incomplete. The public API works either way.
func adminAuth(c *config.Config) (*config.JWTConfig, *config.AdminConfig) {
	jwtCfg, err := c.JWT()
	if err != nil {
		logger.Warn("admin dashboard disabled", zap.Error(err))
		return nil, nil
	}
	adminCfg, err := c.Admin()
	if err != nil {
		logger.Warn("admin dashboard disabled", zap.Error(err))
		return nil, nil
	}
	return jwtCfg, adminCfg
}
