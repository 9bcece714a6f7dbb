package main

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/memybot/internal/config"
	"github.com/sandevgo/memybot/internal/service/installer"
	"github.com/sandevgo/memybot/pkg/log"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:           "setup",
	Short:         "Create the MeMyBot configuration interactively",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting setup")

		runtimePath := config.GetRuntimePath()

		// run wizard (includes save step)
		if _, err := installer.RunWizard(runtimePath); err != nil {
			return err
		}

		envPath := filepath.Join(runtimePath, ".env")
		if _, err := godotenv.Read(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to read back .env file")
		}

		logger.Info().Msgf("configuration written to: %s", envPath)
		logger.Info().Msg("Setup complete! You can now run 'memybot start'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
