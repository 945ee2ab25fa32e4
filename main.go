package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mralligator/appointment-scheduler/auth"
	"github.com/mralligator/appointment-scheduler/config"
	"github.com/mralligator/appointment-scheduler/db"
	"github.com/mralligator/appointment-scheduler/logging"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "scheduler",
		Short:         "Appointment scheduling back office",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	})
	cmd.AddCommand(migrateCmd())
	cmd.AddCommand(adminCmd())
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := config.Load()
			logger := logging.New(cfg.LogLevel)

			conn, err := db.Open(cfg.DatabaseURL, logger)
			if err != nil {
				return err
			}
			if err := db.Migrate(conn); err != nil {
				return err
			}
			logger.Info("migrations applied successfully")
			return nil
		},
	}
}

func adminCmd() *cobra.Command {
	var email, password string

	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage the administrator login",
	}

	setup := &cobra.Command{
		Use:   "setup",
		Short: "Create the administrator login (one time only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := config.Load()
			if err := auth.NewCredentialFile(cfg.AdminFile).Create(email, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created in %s\n", email, cfg.AdminFile)
			return nil
		},
	}
	setup.Flags().StringVar(&email, "email", "", "Administrator email")
	setup.Flags().StringVar(&password, "password", "", "Administrator password (at least 8 characters)")
	_ = setup.MarkFlagRequired("email")
	_ = setup.MarkFlagRequired("password")

	admin.AddCommand(setup)
	return admin
}
