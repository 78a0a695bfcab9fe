package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lorrc/ventsite/internal/adapters/secondary/postgres"
	apperrors "github.com/lorrc/ventsite/internal/core/errors"
	"github.com/lorrc/ventsite/internal/core/services"
)

func newCreateAdminCmd() *cobra.Command {
	var email, name, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			authService := services.NewAuthServiceWithLogger(postgres.NewUserRepository(pool), logger)
			user, err := authService.CreateAdmin(ctx, name, email, password)
			if errors.Is(err, apperrors.ErrUserExists) {
				return fmt.Errorf("a user with email %s already exists", email)
			}
			if err != nil {
				return err
			}

			logger.Info("admin created", "user_id", user.ID, "email", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
