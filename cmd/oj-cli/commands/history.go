package commands

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"judgetools/lib/history"
)

func init() {
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Shows past submissions, newest first.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()

		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			fatal("could not open submission history", err)
		}
		defer store.Close()

		entries, err := store.List(cmd.Context())
		if err != nil {
			fatal("could not read submission history", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"When", "Judge", "Problem", "Language", "Result"})
		for _, e := range entries {
			t.AppendRow(table.Row{
				e.SubmittedAt.Local().Format(time.DateTime),
				e.Judge,
				e.ProblemURL,
				e.Language,
				e.ResultURL,
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
