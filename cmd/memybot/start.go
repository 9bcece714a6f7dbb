package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/memybot/pkg/log"
	"github.com/sandevgo/memybot/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the MeMyBot services",
	Long:  `Loads the persona and starts every enabled transport (web chat, Telegram).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting memybot")

		// Define services using the setup.go logic
		services, webCfg := NewServices(ctx)

		// Start services
		srv.StartServices(ctx, services)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services, webCfg.ShutdownTimeout)
		logger.Info().Msg("memybot has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
