package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/timetab/internal/errs"
	"github.com/desertthunder/timetab/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	if level, err := log.ParseLevel(config.App.LogLevel); err == nil {
		shared.SetLogLevel(logger, level)
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "timetab",
		Usage:    "Data access and baseline seeding for the timetab scheduling backend",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	errs.Exit(logger, func() error {
		return app.Run(context.Background(), os.Args)
	})
}
