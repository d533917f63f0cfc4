package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yigit/alumnihub/internal/bootstrap"
	"github.com/yigit/alumnihub/internal/server"
)

var configPath string

// rootCmd runs the HTTP server when no subcommand is given
var rootCmd = &cobra.Command{
	Use:           "api",
	Short:         "Alumni association portal",
	Long:          `Serves the alumni portal web pages and its JSON API, and manages the database schema.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// serveCmd starts the HTTP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Load configuration, migrate the database, create the default admin
when missing, and serve HTTP until SIGINT or SIGTERM.`,
	RunE: runServe,
}

// migrateCmd applies pending migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

// initDBCmd prepares a fresh database
var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the schema and the default admin account",
	Long: `Apply pending migrations, then create the admin account configured by
ADMIN_EMAIL and ADMIN_PASSWORD unless a user with that email exists.`,
	RunE: runInitDB,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", filepath.Join("configs", "config.yaml"), "path to the YAML config file (optional)")
	rootCmd.AddCommand(serveCmd, migrateCmd, initDBCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(cmd.Context(), cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize server")
		return err
	}

	if err := srv.Run(cmd.Context()); err != nil {
		lgr.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		return err
	}

	lgr.Info().Msg("Application finished gracefully.")
	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := bootstrap.OpenDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	defer database.Close()

	return bootstrap.RunMigrations(ctx, database, lgr)
}

func runInitDB(cmd *cobra.Command, _ []string) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := bootstrap.OpenDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := bootstrap.RunMigrations(ctx, database, lgr); err != nil {
		return err
	}

	created, err := bootstrap.SeedAdmin(ctx, cfg, database, lgr)
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "Database initialized. Admin account created: %s\n", cfg.Admin.Email)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Database initialized. Admin account already exists: %s\n", cfg.Admin.Email)
	}
	return nil
}
