/*
Package main is the entry point for the ULibrary terminal client.

It is responsible for loading configuration, initializing the global logging system,
opening the persisted session state, and running the command tree under a context that
is cancelled on operating system interrupt signals (SIGINT, SIGTERM).
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/cli"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/configs"
	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/logx"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		return 1
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Debug().
		Str("environment", cfg.Environment).
		Str("api_url", cfg.APIURL).
		Str("auth_scheme", cfg.AuthScheme).
		Str("storage", cfg.Storage).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := cli.NewAppDeps(ctx, cfg)
	if err != nil {
		logx.Error(err, "Failed to initialize client")
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logx.Error(err, "Failed to close state storage")
		}
	}()

	return cli.Execute(ctx, cli.NewRootCommand(deps))
}
