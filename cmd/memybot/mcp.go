package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/memybot/internal/transport/mcpserver"
	"github.com/sandevgo/memybot/pkg/log"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the recording tools over MCP (stdio)",
	Long: `Runs an MCP server on stdin/stdout exposing record_user_details and
record_unknown_question, so other assistants can send you leads.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// stdout carries the protocol
		var flushLog func()
		ctx, flushLog = setupLoggerWithOptions(ctx, log.Options{Out: os.Stderr})
		defer flushLog()

		d := newDeps(ctx)
		defer d.close(ctx)

		return mcpserver.New(d.registry).Serve(ctx, os.Stdin, os.Stdout, os.Stderr)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
