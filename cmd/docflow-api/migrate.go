package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/docflow/docflow/internal/config"
	"github.com/docflow/docflow/internal/store"
	"github.com/docflow/docflow/pkg/log"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		logger := log.InitLog(log.Level(cfg.Service.LogLevel))
		defer func() { _ = logger.Sync() }()
		undo := zap.ReplaceGlobals(logger)
		defer undo()

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

		zap.S().Named("docflow_api").Info("Db migrated")
		return nil
	},
}
