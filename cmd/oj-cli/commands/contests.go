package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"judgetools/lib/scrapers/atcoder"
)

var (
	contestsLimit *int
	contestsLang  *string
)

func init() {
	contestsLimit = contestsCmd.Flags().IntP("limit", "n", 30, "Stop after this many contests; 0 lists everything.")
	contestsLang = contestsCmd.Flags().String("lang", "en", "Listing language (en or ja).")
	rootCmd.AddCommand(contestsCmd)
}

var contestsCmd = &cobra.Command{
	Use:   "contests <url>",
	Short: "Lists the judge's contests, newest first.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := registry.Service(args[0])
		if err != nil {
			if hint := dispatchHint(err); hint != "" {
				fatal(hint, err)
			}
			fatal("unrecognized judge", err)
		}
		lister, ok := svc.(atcoder.Service)
		if !ok {
			fatal("no contest listing", fmt.Errorf("%s does not publish a contest archive", svc.Name()))
		}

		cfg := readConfig()
		s, release := acquireSession(cfg)
		defer release()

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Contest", "Name", "Start", "Length", "Rated"})

		// the iterator is lazy: stopping at the limit means later
		// archive pages are never fetched
		count := 0
		it := lister.Contests(cmd.Context(), s, *contestsLang)
		for it.Next() {
			c := it.Contest()

			name, _ := c.Name(*contestsLang)
			start := ""
			if st, err := c.StartTime(); err == nil {
				start = st.Format(time.RFC3339)
			}
			length := ""
			if d, err := c.Duration(); err == nil {
				length = d.String()
			}
			rated, _ := c.RatedRange()

			t.AppendRow(table.Row{c.ID, name, start, length, rated})

			count++
			if *contestsLimit > 0 && count >= *contestsLimit {
				break
			}
		}
		if err := it.Err(); err != nil {
			fatal("listing failed", err)
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
