package main

import (
	"fmt"
	"os"

	config "github.com/anjiri1684/pkl_sertifikasi/configs"
	"github.com/anjiri1684/pkl_sertifikasi/database"
	"github.com/anjiri1684/pkl_sertifikasi/logger"
	"github.com/spf13/cobra"
)

const appName = "PKL & Sertifikasi"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "api",
		Short: "PKL internship and Sertifikasi certification backend",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logger.Config{
				Level:    logLevel,
				Format:   config.ConfigDefault("LOG_FORMAT", "text"),
				FilePath: config.Config("LOG_FILE"),
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", config.ConfigDefault("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, websocket hub and scheduled jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			database.ConnectDB()
			return database.Migrate(database.DB)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin account from ADMIN_EMAIL and ADMIN_PASSWORD",
		RunE: func(cmd *cobra.Command, args []string) error {
			database.ConnectDB()
			if err := database.Migrate(database.DB); err != nil {
				return err
			}
			return database.SeedAdmin(database.DB, database.AdminSeedFromEnv())
		},
	})

	return cmd
}
