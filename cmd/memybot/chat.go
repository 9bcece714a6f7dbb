package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/sandevgo/memybot/internal/config"
	"github.com/sandevgo/memybot/internal/transport/cli"
	"github.com/sandevgo/memybot/pkg/log"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with your persona in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// the terminal belongs to the chat, logs go to a file
		runtimePath := config.GetRuntimePath()
		if err := os.MkdirAll(runtimePath, 0755); err != nil {
			return fmt.Errorf("failed to create runtime directory: %w", err)
		}
		logPath := filepath.Join(runtimePath, "chat.log")
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer logFile.Close()

		var flushLog func()
		ctx, flushLog = setupLoggerWithOptions(ctx, log.Options{Out: logFile})
		defer flushLog()

		d := newChatDeps(ctx)
		defer d.close(ctx)

		history := cli.NewMemoryHistory()
		chat := cli.NewChat(d.agent, newCLIRouter(d, history), history, d.persona.Name)

		return chat.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
