// ABOUTME: Root command for the kost CLI
// ABOUTME: Handles global flags, exit codes and the shared command runner

package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sultankost/kost/internal/config"
)

var (
	apiURL     string
	jsonOutput bool
)

// Exit codes shared by every command
const (
	exitOK             = 0
	exitCheckFailed    = 1
	exitError          = 2
	exitSessionExpired = 3
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "kost",
	Short: "Admin client for the kost management backend",
	Long: `kost manages rooms, tenants and payments of a boarding house from the terminal.

Run "kost login" once; the session is kept in the config directory and
renewed automatically while the refresh token is valid.

Exit codes:
  0 - Success
  1 - Check failed
  2 - Error (connectivity, validation, backend error)
  3 - Not logged in or session expired

Environment Variables:
  KOST_API_URL     Backend API URL (default: http://localhost:8000/api/)
  KOST_OAUTH_URL   Origin serving social login (default: API origin)
  KOST_CONFIG_DIR  Session and log directory (default: ~/.config/kost)
  KOST_TIMEOUT     Request timeout in seconds (default: 30)
  KOST_CACHE_TTL   List cache lifetime in seconds (default: 30)
  KOST_ALL_PROXY   ssh+socks5://user@host:port?private-key=/path
  LOG_LEVEL        debug, info, warn, error (default: warn)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides KOST_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("KOST_API_URL"); envURL != "" {
		return envURL
	}
	return config.DefaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// runFunc is the testable body of a command. It returns the exit code.
type runFunc func(ctx context.Context, w io.Writer, args []string) int

// run adapts a runFunc to cobra, cancelling on SIGINT/SIGTERM and exiting
// with the returned code
func run(fn runFunc) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		exitCode := fn(ctx, cmd.OutOrStdout(), args)
		cancel()
		if exitCode != exitOK {
			os.Exit(exitCode)
		}
	}
}
