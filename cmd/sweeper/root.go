package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/sweeper/internal/app"
	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/database"
	"github.com/vancomm/sweeper/internal/handlers"
	"github.com/vancomm/sweeper/internal/host"
	"github.com/vancomm/sweeper/internal/logging"
	"github.com/vancomm/sweeper/internal/middleware"
	"github.com/vancomm/sweeper/internal/mines"
)

var (
	log        = logrus.New()
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "sweeper",
	Short: "Host countdown Minesweeper games over HTTP",
	Long: `sweeper hosts single-player Minesweeper games with a countdown
timer. Every game is played through a small HTTP API or a WebSocket.

Start the server
	sweeper serve

Apply database migrations
	sweeper migrate
`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loggers() []*logrus.Logger {
	return []*logrus.Logger{
		log, app.Log, database.Log, handlers.Log, host.Log, middleware.Log, mines.Log,
	}
}

// load reads the configuration and sets up logging from it.
func load() (*config.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	err = logging.Configure(logging.Options{
		Development: cfg.Development,
		LogFile:     cfg.LogFile,
	}, loggers()...)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}
