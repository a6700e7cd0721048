package cmd

import (
	"context"
	"fmt"

	"github.com/adalundhe/freeflow/core/config"
	"github.com/adalundhe/freeflow/core/store"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Bring the sqlite schema up to the current version.`,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := store.Open(cfg.Database.Path, store.DefaultPoolConfig())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer pool.Close()

	migrator := store.NewMigrator(pool, store.Migrations())
	if err := migrator.Migrate(context.Background()); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, err := migrator.CurrentVersion()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	fmt.Printf("schema at version %d\n", version)
	return nil
}
