// Command sitectl is the operator tool for the site database: schema
// migrations, catalog content import and admin accounts.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/lorrc/ventsite/internal/config"
	"github.com/lorrc/ventsite/internal/infrastructure/logging"
)

var (
	databaseURL    string
	migrationsPath string
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:           "sitectl",
	Short:         "Manage the site database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL (default: DATABASE_URL env)")
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "migrations", "migrations", "Directory with SQL migrations")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newCreateAdminCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig applies the --database-url override on top of the environment.
func loadConfig() (*config.Config, *slog.Logger, error) {
	if databaseURL != "" {
		if err := os.Setenv("DATABASE_URL", databaseURL); err != nil {
			return nil, nil, err
		}
	}

	cfg, err := config.LoadTool()
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger := logging.NewLogger(logging.Config{
		Level:       level,
		Format:      "text",
		Output:      os.Stderr,
		ServiceName: "sitectl",
		Environment: cfg.App.Environment,
	})
	return cfg, logger, nil
}

func openPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
