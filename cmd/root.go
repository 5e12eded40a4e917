package cmd

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/porthole-sh/porthole/internal/api"
	"github.com/porthole-sh/porthole/internal/app"
	"github.com/porthole-sh/porthole/internal/config"
	"github.com/porthole-sh/porthole/internal/logger"
	"github.com/porthole-sh/porthole/internal/route"
)

var (
	serverFlag            string
	sessionFlag           string
	debugMode             bool
	quietMode             bool
	clearState            bool
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "porthole",
	Short: "TUI client for watching remote terminal sessions",
	Long: `Porthole is a TUI client for a session server. It shows the server's
session directory, streams the live output of any session, and keeps the
view reconciled as sessions come and go.`,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initLogging)
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "Server URL (overrides the saved one)")
	rootCmd.PersistentFlags().StringVar(&sessionFlag, "session", "", "Open a session directly (ID or pasted link)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().BoolVar(&clearState, "clear", false, "Forget the saved token and remove log files, then exit")
}

func initLogging() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	// Set version dynamically
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("porthole %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("porthole %s\n", version)
}

// deepLinkSessionID extracts a session ID from the --session value, which
// may be a bare ID or a pasted location like "/?session=abc".
func deepLinkSessionID(arg string) string {
	if strings.ContainsAny(arg, "/?") {
		return route.Parse(arg).SessionID
	}
	return arg
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if clearState {
		cfg.SetToken("")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("error saving config: %w", err)
		}
		logsCleared, err := logger.ClearLogs()
		if err != nil {
			fmt.Printf("Warning: error clearing logs: %v\n", err)
		}
		fmt.Println("Saved token cleared.")
		if logsCleared > 0 {
			fmt.Printf("Removed %d log file(s).\n", logsCleared)
		}
		return nil
	}

	// A server given on the command line overrides the saved one
	if serverFlag != "" {
		cfg.SetServerURL(serverFlag)
	}

	// Ensure logger is closed on exit
	defer logger.Close()

	m := app.New(cfg, api.NewClient(cfg.GetServerURL()), version)
	defer m.Close()

	// A pasted link may arrive as a bare argument instead of --session
	deepLink := sessionFlag
	if deepLink == "" && len(args) > 0 {
		deepLink = args[0]
	}
	if deepLink != "" {
		m.SetDeepLink(deepLinkSessionID(deepLink))
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
