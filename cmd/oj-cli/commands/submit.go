package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"judgetools/lib/history"
)

var submitLanguage *string

func init() {
	submitLanguage = submitCmd.Flags().StringP("language", "l", "", "Language id the judge knows the source as.")
	submitCmd.MarkFlagRequired("language")
	rootCmd.AddCommand(submitCmd)
}

var submitCmd = &cobra.Command{
	Use:   "submit <url> <file>",
	Short: "Submits source code to a problem.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		problem, err := registry.Problem(args[0])
		if err != nil {
			if hint := dispatchHint(err); hint != "" {
				fatal(hint, err)
			}
			fatal("unrecognized problem url", err)
		}

		code, err := os.ReadFile(args[1])
		if err != nil {
			fatal("failed to read source file", err)
		}

		cfg := readConfig()
		s, release := acquireSession(cfg)
		defer release()

		resultURL, err := problem.Submit(cmd.Context(), s, code, *submitLanguage)
		if err != nil {
			fatal("submission failed", err)
		}
		fmt.Printf("submitted: %s\n", resultURL)

		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			slog.Warn("failed to open history db", "err", err)
			return
		}
		defer store.Close()
		err = store.Record(cmd.Context(), history.Entry{
			Judge:       problem.Service().Name(),
			ProblemURL:  problem.URL(),
			Language:    *submitLanguage,
			ResultURL:   resultURL,
			SubmittedAt: time.Now(),
		})
		if err != nil {
			slog.Warn("failed to record submission", "err", err)
		}
	},
}
