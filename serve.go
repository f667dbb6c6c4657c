package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Initializing app...")

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		app, err := newApplication(ctx)
		if err != nil {
			return err
		}
		defer app.close()

		tokens, err := auth.NewTokenService(
			config.GetString(app.config, "AUTH_STRATEGY", auth.StrategySession),
			config.GetString(app.config, "TOKEN_SECRET", ""),
			nil,
		)
		if err != nil {
			return fmt.Errorf("init token service: %w", err)
		}

		deps := api.Dependencies{
			Store:       app.store,
			Tokens:      tokens,
			Credentials: adminCredentials(app.config),
		}
		if app.importer != nil {
			deps.Importer = app.importer
		}

		server, err := api.NewServer(deps, app.config)
		if err != nil {
			return fmt.Errorf("init server: %w", err)
		}

		if app.importer != nil && config.GetBool(app.config, "GITHUB_IMPORT_ON_STARTUP", false) {
			go func() {
				if _, err := app.importer.Refresh(ctx); err != nil {
					log.Error().Err(err).Msg("Startup GitHub import failed")
				}
			}()
		}

		errChannel := make(chan error, 2)

		go server.Start(errChannel)

		// Listen for interrupt signals to gracefully shutdown the server
		go listenToInterrupt(errChannel)

		fatalErr := <-errChannel
		log.Info().Msgf("Closing server: %v", fatalErr)

		cancel()
		server.ShutdownGracefully(30 * time.Second)
		return nil
	},
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
