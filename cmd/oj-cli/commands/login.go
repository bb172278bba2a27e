package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkOnly *bool

func init() {
	checkOnly = loginCmd.Flags().Bool("check", false, "Only report the current login state.")
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login <url>",
	Short: "Logs in to the judge the URL belongs to.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := registry.Service(args[0])
		if err != nil {
			if hint := dispatchHint(err); hint != "" {
				fatal(hint, err)
			}
			fatal("unrecognized judge", err)
		}

		cfg := readConfig()
		s, release := acquireSession(cfg)
		defer release()

		if *checkOnly {
			loggedIn, err := svc.IsLoggedIn(cmd.Context(), s)
			if err != nil {
				fatal("probe failed", err)
			}
			fmt.Printf("%s: logged %s\n", svc.Name(), map[bool]string{true: "in", false: "out"}[loggedIn])
			return
		}

		ok, err := svc.Login(cmd.Context(), credentials(cfg), s)
		if err != nil {
			fatal("login failed", err)
		}
		if !ok {
			fatal("login failed", fmt.Errorf("the judge rejected the credentials"))
		}
		fmt.Printf("%s: logged in\n", svc.Name())
	},
}
