package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apiserver "github.com/docflow/docflow/internal/api_server"
	"github.com/docflow/docflow/internal/config"
	"github.com/docflow/docflow/internal/store"
	"github.com/docflow/docflow/pkg/log"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the docflow api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		logger := log.InitLog(log.Level(cfg.Service.LogLevel))
		defer func() { _ = logger.Sync() }()
		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Named("docflow_api").Info("Starting API service")
		defer zap.S().Named("docflow_api").Info("API service stopped")

		zap.S().Named("docflow_api").Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Named("docflow_api").Fatalf("initializing data store: %v", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		if err := s.InitialMigration(); err != nil {
			zap.S().Named("docflow_api").Fatalf("running initial migration: %v", err)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Named("docflow_api").Fatalf("creating listener: %s", err)
			}

			server := apiserver.New(cfg, s, listener)
			if err := server.Run(ctx); err != nil {
				zap.S().Named("docflow_api").Fatalf("Error running server: %s", err)
			}
		}()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				zap.S().Named("metrics_server").Fatalf("creating listener: %s", err)
			}

			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Named("metrics_server").Fatalf("Error running metrics server: %s", err)
			}
		}()

		<-ctx.Done()
		return nil
	},
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
