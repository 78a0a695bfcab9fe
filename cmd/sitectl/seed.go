package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lorrc/ventsite/internal/adapters/secondary/postgres"
	"github.com/lorrc/ventsite/internal/adapters/secondary/seed"
	"github.com/lorrc/ventsite/internal/core/domain"
	"github.com/lorrc/ventsite/internal/core/services"
)

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import services and works from a YAML content file",
		Long: `Import catalog content. Services are matched by name and works by
title; existing rows are replaced. The whole file is imported in one
transaction.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			bundle, err := seed.LoadFile(file)
			if err != nil {
				return err
			}

			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			catalog := services.NewCatalogService(
				postgres.NewServiceRepository(pool),
				postgres.NewWorkRepository(pool),
				postgres.NewTransactionManager(pool),
			)

			result, err := catalog.ImportContent(ctx, domain.SystemPrincipal, bundle)
			if err != nil {
				return fmt.Errorf("import %s: %w", file, err)
			}

			logger.Info("content imported", "file", file, "services", result.Services, "works", result.Works)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "content.yaml", "Content file to import")
	return cmd
}
