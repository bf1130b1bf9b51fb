package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/tunedeck/tunedeck/internal/api"
	"github.com/tunedeck/tunedeck/internal/session"
	"github.com/tunedeck/tunedeck/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	client, err := api.NewClient(config.Server.BaseURL, nil)
	if err != nil {
		logger.Fatalf("failed to create API client: %v", err)
	}
	client.SetRateLimit(config.Server.RequestsPerSecond)

	sessionPath := config.Session.Path
	if sessionPath == "" {
		if home, err := shared.HomeDir(); err == nil {
			sessionPath = filepath.Join(home, "session.json")
		} else {
			logger.Warnf("failed to resolve session path: %v", err)
			sessionPath = "session.json"
		}
	}
	sessions := session.NewManager(sessionPath, logger)

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Client:   client,
		Sessions: sessions,
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "tunedeck",
		Usage:    "Browse and manage your music library from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Error("not signed in, run 'tunedeck auth login' first")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
