package commands

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(urlCmd)
}

var urlCmd = &cobra.Command{
	Use:   "url <url>",
	Short: "Resolves what a URL points at and prints its canonical form.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		raw := args[0]

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Kind", "Judge", "Canonical URL"})

		matched := false
		if p, err := registry.Problem(raw); err == nil {
			t.AppendRow(table.Row{"problem", p.Service().Name(), p.URL()})
			matched = true
		}
		if sub, err := registry.Submission(raw); err == nil {
			t.AppendRow(table.Row{"submission", sub.Service().Name(), sub.URL()})
			matched = true
		}
		if svc, err := registry.Service(raw); err == nil {
			t.AppendRow(table.Row{"judge", svc.Name(), svc.URL()})
			matched = true
		}

		if !matched {
			_, err := registry.Service(raw)
			if hint := dispatchHint(err); hint != "" {
				fatal(hint, err)
			}
			fatal("unrecognized URL", err)
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
