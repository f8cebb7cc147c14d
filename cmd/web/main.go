// Command web runs the safety analytics dashboard API server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"salama/internal/app"
	"salama/internal/config"
)

func main() {
	configFile := flag.String("config", "config.yml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadFrom(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	application, err := app.NewApplication(cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		application.Logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
