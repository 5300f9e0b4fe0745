// ABOUTME: Dashboard command launching the interactive terminal UI
// ABOUTME: Logs go to a debug file so they do not corrupt the screen

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sultankost/kost/internal/logger"
	"github.com/sultankost/kost/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive dashboard",
	Long: `Open the interactive dashboard.

Keys: 1-4 switch screens, r refresh, / filter, ←/→ page, c check-in,
p record payment, x log out, q quit.

Logs are written to <config dir>/debug.log.`,
	Args: cobra.NoArgs,
	Run:  run(runDashboard),
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(ctx context.Context, w io.Writer, _ []string) int {
	e, err := newEnv(ctx)
	if err != nil {
		return fail(w, nil, err)
	}

	if err := logger.InitFile(e.cfg.ConfigDir, e.cfg.LogLevel, e.cfg.LogFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug log disabled: %v\n", err)
	}
	defer logger.Close()

	err = tui.Run(ctx, tui.Options{
		Store:    e.store,
		Client:   e.api,
		OAuthURL: e.cfg.OAuthURL,
		Expired:  e.expiredCh,
	})
	if err != nil {
		return fail(w, e, err)
	}
	return exitOK
}
