package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"judgetools/lib/judge"
	"judgetools/lib/scrapers/yukicoder"
)

var (
	downloadDir *string
	downloadAll *bool
)

func init() {
	downloadDir = downloadCmd.Flags().StringP("dir", "d", "test", "Directory to write sample files into.")
	downloadAll = downloadCmd.Flags().Bool("system", false, "Download the full testcase archive where the judge offers one.")
	rootCmd.AddCommand(downloadCmd)
}

var unsafeFilename = regexp.MustCompile(`[^\w\-.]+`)

func caseFilename(c judge.TestCase, index int) string {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = fmt.Sprintf("sample-%d", index+1)
	}
	return unsafeFilename.ReplaceAllString(name, "_")
}

var downloadCmd = &cobra.Command{
	Use:   "download <url>",
	Short: "Downloads a problem's sample cases into input/output files.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		problem, err := registry.Problem(args[0])
		if err != nil {
			if hint := dispatchHint(err); hint != "" {
				fatal(hint, err)
			}
			fatal("unrecognized problem url", err)
		}

		cfg := readConfig()
		s, release := acquireSession(cfg)
		defer release()

		var cases []judge.TestCase
		if *downloadAll {
			archival, ok := problem.(*yukicoder.Problem)
			if !ok {
				fatal("no testcase archive", fmt.Errorf("%s does not offer one", problem.Service().Name()))
			}
			cases, err = archival.DownloadAllCases(cmd.Context(), s)
		} else {
			cases, err = problem.DownloadSampleCases(cmd.Context(), s)
		}
		if err != nil {
			fatal("download failed", err)
		}
		if len(cases) == 0 {
			fatal("no sample cases found", fmt.Errorf("the statement may be restricted, try logging in"))
		}

		err = os.MkdirAll(*downloadDir, 0o755)
		if err != nil {
			fatal("failed to create output directory", err)
		}
		for i, c := range cases {
			base := filepath.Join(*downloadDir, caseFilename(c, i))
			err = os.WriteFile(base+".in", []byte(c.Input), 0o644)
			if err == nil {
				err = os.WriteFile(base+".out", []byte(c.Output), 0o644)
			}
			if err != nil {
				fatal("failed to write sample", err)
			}
			fmt.Printf("%s.in / %s.out\n", base, base)
		}
	},
}
