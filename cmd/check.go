// ABOUTME: Check command for the kost CLI
// ABOUTME: Fails when occupancy is too low or tenants are past their rent period

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sultankost/kost/internal/client"
	"github.com/sultankost/kost/internal/kost"
)

var (
	minOccupancy int
	maxOverdue   int
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check occupancy and overdue rent",
	Long: `Check occupancy and overdue rent and exit non-zero if a check fails.

Exit codes:
  0 - All checks passed
  1 - One or more checks failed
  2 - Error (connectivity, invalid input)
  3 - Not logged in or session expired`,
	Args: cobra.NoArgs,
	Run:  run(runCheck),
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().IntVar(&minOccupancy, "min-occupancy", 0, "Minimum occupancy percentage")
	checkCmd.Flags().IntVar(&maxOverdue, "max-overdue", 0, "Maximum number of tenants past their rent period")
}

// checkResult represents the result of a single check
type checkResult struct {
	name      string
	value     float64
	threshold float64
	unit      string
	passed    bool
	details   []string
}

// runCheck executes the checks and returns exit code
func runCheck(ctx context.Context, w io.Writer, _ []string) int {
	if err := validateCheckFlags(minOccupancy, maxOverdue); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	e, err := authenticated(ctx)
	if err != nil {
		return fail(w, e, err)
	}

	var (
		rooms   []client.Room
		tenants []client.Tenant
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rooms, err = e.api.ListRooms(gctx, client.RoomFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		tenants, err = e.api.ListTenants(gctx, client.TenantFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return fail(w, e, err)
	}

	results := performChecks(rooms, tenants)

	if IsJSONOutput() {
		fmt.Fprintln(w, formatCheckJSON(results))
	} else {
		fmt.Fprintln(w, formatCheckHuman(results))
	}

	_, failed := countResults(results)
	if failed > 0 {
		return exitCheckFailed
	}
	return exitOK
}

// validateCheckFlags ensures threshold values are valid
func validateCheckFlags(occupancy, overdue int) error {
	if occupancy < 0 || occupancy > 100 {
		return fmt.Errorf("--min-occupancy must be between 0 and 100")
	}
	if overdue < 0 {
		return fmt.Errorf("--max-overdue must not be negative")
	}
	return nil
}

// performChecks runs all checks against the current rooms and tenants
func performChecks(rooms []client.Room, tenants []client.Tenant) []checkResult {
	counts := kost.CountRooms(rooms)
	occupancy := counts.Occupancy()

	overdue := kost.OverdueTenants(tenants, now())
	var details []string
	for _, s := range overdue {
		details = append(details, fmt.Sprintf("%s (kamar %s) %s", s.Tenant.FullName, s.Tenant.RoomNumber(), kost.DescribeDaysLeft(s.DaysLeft)))
	}

	return []checkResult{
		{
			name:      "Occupancy",
			value:     occupancy,
			threshold: float64(minOccupancy),
			unit:      "%",
			passed:    occupancy >= float64(minOccupancy),
		},
		{
			name:      "Overdue tenants",
			value:     float64(len(overdue)),
			threshold: float64(maxOverdue),
			passed:    len(overdue) <= maxOverdue,
			details:   details,
		},
	}
}

// countResults returns the count of passed and failed checks
func countResults(results []checkResult) (passed, failed int) {
	for _, r := range results {
		if r.passed {
			passed++
		} else {
			failed++
		}
	}
	return
}

// formatCheckHuman formats check results for human readability
func formatCheckHuman(results []checkResult) string {
	var output string

	for _, r := range results {
		symbol := "✓"
		if !r.passed {
			symbol = "✗"
		}
		output += fmt.Sprintf("%s %s: %.0f%s (threshold: %.0f%s)\n",
			symbol, r.name, r.value, r.unit, r.threshold, r.unit)
		for _, d := range r.details {
			output += "    " + d + "\n"
		}
	}

	passed, failed := countResults(results)
	if failed > 0 {
		output += fmt.Sprintf("\nFAILED: %d check(s) failed", failed)
	} else {
		output += fmt.Sprintf("\nPASSED: All %d check(s) passed", passed)
	}

	return output
}

// formatCheckJSON formats check results as JSON
func formatCheckJSON(results []checkResult) string {
	_, failed := countResults(results)

	checks := make([]map[string]interface{}, len(results))
	for i, r := range results {
		check := map[string]interface{}{
			"name":      r.name,
			"value":     r.value,
			"threshold": r.threshold,
			"unit":      r.unit,
			"passed":    r.passed,
		}
		if len(r.details) > 0 {
			check["details"] = r.details
		}
		checks[i] = check
	}

	status := "passed"
	if failed > 0 {
		status = "failed"
	}

	output := map[string]interface{}{
		"status": status,
		"checks": checks,
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
