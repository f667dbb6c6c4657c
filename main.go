package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/catalog"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/services"
)

// envFile is set by the --env-file flag
var envFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "portfolio",
	Short:         "Portfolio catalog backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load environment variables from .env file
		if err := godotenv.Load(envFile); err != nil {
			fmt.Printf("Warning: Error loading %s file: %v\n", envFile, err)
		}
		setupLogging(config.New())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load before reading configuration")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(hashPasswordCmd)
}

// setupLogging configures the global zerolog logger from LOG_LEVEL and ENVIRONMENT
func setupLogging(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetString(c, "ENVIRONMENT", "dev") == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// loadConfig snapshots the environment and fills gaps from SSM when a prefix is configured
func loadConfig(ctx context.Context) (map[string]string, error) {
	c := config.New()
	if prefix := config.GetString(c, "SSM_PARAMETER_PREFIX", ""); prefix != "" {
		if err := config.LoadSSM(ctx, c, prefix); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// application is everything a command needs to work on the catalog
type application struct {
	config   map[string]string
	store    *catalog.Store
	importer *services.Importer
	close    func() error
}

// newApplication opens the configured backend, loads the catalog and applies the seed file
func newApplication(ctx context.Context) (*application, error) {
	c, err := loadConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	persister, closeFn, err := database.NewPersister(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("open catalog backend: %w", err)
	}

	store, err := catalog.NewStore(ctx, persister)
	if err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	if seedFile := config.GetString(c, "SEED_FILE", ""); seedFile != "" {
		seed, err := catalog.LoadSeedFile(seedFile)
		if err != nil {
			_ = closeFn()
			return nil, fmt.Errorf("load seed file: %w", err)
		}
		seeded, err := store.SeedIfEmpty(ctx, seed)
		if err != nil {
			_ = closeFn()
			return nil, fmt.Errorf("apply seed file: %w", err)
		}
		if seeded {
			log.Info().Str("file", seedFile).Msg("Catalog seeded")
		}
	}

	app := &application{config: c, store: store, close: closeFn}
	if account := config.GetString(c, "GITHUB_USERNAME", ""); account != "" {
		app.importer = services.NewImporter(services.NewGitHubClientFromConfig(c), store, account)
	}
	return app, nil
}

// adminCredentials reads the single admin identity
func adminCredentials(c map[string]string) auth.AdminCredentials {
	return auth.AdminCredentials{
		Username:     config.GetString(c, "ADMIN_USERNAME", "admin"),
		Password:     config.GetString(c, "ADMIN_PASSWORD", ""),
		PasswordHash: config.GetString(c, "ADMIN_PASSWORD_HASH", ""),
	}
}
