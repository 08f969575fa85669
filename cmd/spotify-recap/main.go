// Command spotify-recap runs the listening dashboard server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/replaylab/spotify-recap/internal/config"
	"github.com/replaylab/spotify-recap/internal/db"
	"github.com/replaylab/spotify-recap/internal/logging"
	"github.com/replaylab/spotify-recap/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	server, err := web.NewServer(web.ServerConfig{
		Addr:         cfg.Addr,
		RedirectURI:  cfg.RedirectURI,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		SessionStore: cfg.SessionStore,
	}, database, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return server.Run()
}
