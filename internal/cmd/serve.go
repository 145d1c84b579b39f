package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ozgur/shipmate/internal/adapters/docker"
	"github.com/ozgur/shipmate/internal/adapters/files"
	apphttp "github.com/ozgur/shipmate/internal/adapters/http"
	"github.com/ozgur/shipmate/internal/config"
	"github.com/ozgur/shipmate/internal/metrics"
	"github.com/ozgur/shipmate/internal/registry"
)

// NewServeCommand creates the serve subcommand, the normal way to run
// the service.
func NewServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build the file registry and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(config.Path(configPath))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the config document")

	return cmd
}

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Server.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// The registry must build cleanly before the server accepts traffic.
	snap, err := registry.Build(cfg, logger)
	if err != nil {
		return fmt.Errorf("build registry: %w", err)
	}
	provider := registry.NewProvider(snap, logger)

	stop := make(chan struct{})
	defer close(stop)
	if err := provider.Watch(configPath, stop); err != nil {
		logger.Warn("config watch unavailable, reload requires restart", zap.Error(err))
	}

	m := metrics.New()
	configService := files.NewService(provider, logger)
	containerService := docker.NewAdapter(logger)

	app := apphttp.NewApp(cfg.Server, configService, containerService, m, logger)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("server starting",
		zap.String("addr", addr),
		zap.Int("registry_entries", snap.Len()))

	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
