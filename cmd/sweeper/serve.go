package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vancomm/sweeper"
	"github.com/vancomm/sweeper/internal/app"
)

var serveFlags struct {
	addr   string
	width  int
	height int
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the game server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := load()
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("addr") {
			cfg.Addr = serveFlags.addr
		}
		if flags.Changed("width") {
			cfg.Game.Width = serveFlags.width
		}
		if flags.Changed("height") {
			cfg.Game.Height = serveFlags.height
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := app.New(cfg, sweeper.Migrations).Start(ctx); err != nil {
			log.WithError(err).Error("server stopped")
			return err
		}
		return nil
	},
}

func init() {
	// No shorthand for height, -h is help.
	serveCmd.Flags().StringVarP(&serveFlags.addr, "addr", "a", "", "Listen address, overrides APP_ADDR")
	serveCmd.Flags().IntVarP(&serveFlags.width, "width", "w", 0, "Default board width, in cells")
	serveCmd.Flags().IntVar(&serveFlags.height, "height", 0, "Default board height, in cells")
}
