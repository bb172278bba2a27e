package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"judgetools/lib/configutil"
	"judgetools/lib/dispatch"
	"judgetools/lib/judge"
	"judgetools/lib/session"
	"judgetools/lib/sites"
)

var rootCmd = &cobra.Command{
	Use:   "oj-cli",
	Short: "oj-cli talks to online judges: samples, submissions, logins.",
}

var verbose *bool

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every HTTP exchange.")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *verbose {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}

type Config struct {
	CookieJar string `json:"cookie_jar"`
	HistoryDB string `json:"history_db"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".oj-cli"
	}
	return filepath.Join(home, ".local", "share", "oj-cli")
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("oj.json5")
	if err != nil && !os.IsNotExist(err) {
		fatal("failed to read config", err)
	}
	if cfg.CookieJar == "" {
		cfg.CookieJar = filepath.Join(dataDir(), "cookie.jar")
	}
	if cfg.HistoryDB == "" {
		cfg.HistoryDB = filepath.Join(dataDir(), "history.db")
	}
	return cfg
}

// acquireSession opens the persistent session; the returned cleanup
// writes the cookie jar back and must run on every exit path.
func acquireSession(cfg Config) (*session.Session, func()) {
	s, err := session.Acquire(cfg.CookieJar)
	if err != nil {
		fatal("failed to open session", err)
	}
	return s, func() {
		err := s.Release()
		if err != nil {
			slog.Warn("failed to save cookie jar", "err", err)
		}
	}
}

// credentials prompts on the terminal unless the config carries a pair.
func credentials(cfg Config) judge.CredentialsProvider {
	if cfg.Username != "" && cfg.Password != "" {
		return judge.StaticCredentials(cfg.Username, cfg.Password)
	}
	return func() (string, string, error) {
		reader := bufio.NewReader(os.Stdin)
		fmt.Fprint(os.Stderr, "username: ")
		username, err := reader.ReadString('\n')
		if err != nil {
			return "", "", err
		}
		fmt.Fprint(os.Stderr, "password: ")
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", "", err
		}
		return strings.TrimSpace(username), strings.TrimSpace(password), nil
	}
}

var registry = sites.NewRegistry()

func dispatchHint(err error) string {
	var de *dispatch.DispatchError
	if !errors.As(err, &de) {
		return ""
	}
	if suggestion := sites.SuggestDomain(de.URL); suggestion != "" {
		return fmt.Sprintf("did you mean %s?", suggestion)
	}
	return ""
}
