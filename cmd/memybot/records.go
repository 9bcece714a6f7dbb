package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sandevgo/memybot/internal/service/ui"
	"github.com/spf13/cobra"
)

var recordsLimit int

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Show recorded leads and unanswered questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		d := newDeps(ctx)
		defer d.close(ctx)

		if d.records == nil {
			return errors.New("the store is disabled (ENABLE_STORE=false)")
		}

		leads, err := d.records.ListLeads(ctx, recordsLimit)
		if err != nil {
			return err
		}
		questions, err := d.records.ListUnknownQuestions(ctx, recordsLimit)
		if err != nil {
			return err
		}

		out := os.Stdout
		fmt.Fprintln(out, ui.TitleStyle.Render("LEADS"))
		if len(leads) == 0 {
			fmt.Fprintln(out, ui.DescStyle.Render("  none yet"))
		}
		for _, l := range leads {
			fmt.Fprintf(out, "  %s  %s %s\n    %s\n",
				ui.DescStyle.Render(l.CreatedAt.Format("2006-01-02 15:04")),
				ui.UsageStyle.Render(l.Email), l.Name, ui.DescStyle.Render(l.Notes))
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.TitleStyle.Render("UNANSWERED QUESTIONS"))
		if len(questions) == 0 {
			fmt.Fprintln(out, ui.DescStyle.Render("  none yet"))
		}
		for _, q := range questions {
			fmt.Fprintf(out, "  %s  %s\n",
				ui.DescStyle.Render(q.CreatedAt.Format("2006-01-02 15:04")), q.Question)
		}
		return nil
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models the configured provider serves",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		d := newChatDeps(ctx)
		defer d.close(ctx)

		models, err := d.provider.Models(ctx)
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}

		fmt.Fprintln(os.Stdout, ui.TitleStyle.Render(fmt.Sprintf("MODELS (%s)", d.providerCfg.Provider)))
		for _, m := range models {
			marker := " "
			if m.ID == d.provider.Model() {
				marker = "*"
			}
			fmt.Fprintf(os.Stdout, " %s %s\n", ui.FlagStyle.Render(marker), m.ID)
		}
		return nil
	},
}

func init() {
	recordsCmd.Flags().IntVarP(&recordsLimit, "limit", "n", 20, "number of entries to show")
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(modelsCmd)
}
