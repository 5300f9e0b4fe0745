// ABOUTME: Summary command for the kost CLI
// ABOUTME: Shows revenue, occupancy and recent transactions in one view

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sultankost/kost/internal/client"
	"github.com/sultankost/kost/internal/kost"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show revenue and occupancy",
	Args:  cobra.NoArgs,
	Run:   run(runSummary),
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

// overview is what the summary command prints
type overview struct {
	Summary *client.FinancialSummary `json:"summary"`
	Rooms   kost.RoomCounts          `json:"rooms"`
	// Occupancy is the share of occupied rooms in percent
	Occupancy float64 `json:"occupancy"`
}

// loadOverview fetches the financial summary and the room list in parallel
func loadOverview(ctx context.Context, api *client.Client) (*overview, error) {
	var (
		summary *client.FinancialSummary
		rooms   []client.Room
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = api.FinancialSummary(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rooms, err = api.ListRooms(gctx, client.RoomFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := kost.CountRooms(rooms)
	return &overview{Summary: summary, Rooms: counts, Occupancy: counts.Occupancy()}, nil
}

func runSummary(ctx context.Context, w io.Writer, _ []string) int {
	e, err := authenticated(ctx)
	if err != nil {
		return fail(w, e, err)
	}

	ov, err := loadOverview(ctx, e.api)
	if err != nil {
		return fail(w, e, err)
	}

	if IsJSONOutput() {
		return printJSON(w, ov)
	}
	fmt.Fprintln(w, formatSummaryHuman(ov))
	return exitOK
}

// formatSummaryHuman formats the overview for human readability
func formatSummaryHuman(ov *overview) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Total revenue:     %s\n", kost.Rupiah(ov.Summary.TotalRevenue))
	fmt.Fprintf(&sb, "This month:        %s\n", kost.Rupiah(ov.Summary.RevenueThisMonth))
	fmt.Fprintf(&sb, "Rooms:             %d (%d occupied, %d vacant, %d maintenance)\n",
		ov.Rooms.Total, ov.Rooms.Occupied, ov.Rooms.Vacant, ov.Rooms.Maintenance)
	fmt.Fprintf(&sb, "Occupancy:         %.0f%%", ov.Occupancy)

	if len(ov.Summary.RecentTransactions) > 0 {
		rows := make([][]string, 0, len(ov.Summary.RecentTransactions))
		for _, t := range ov.Summary.RecentTransactions {
			rows = append(rows, []string{kost.BackendDate(t.Date), t.TenantName, kost.Rupiah(t.Amount), t.Note})
		}
		sb.WriteString("\n\nRecent transactions\n")
		sb.WriteString(renderTable([]string{"Tanggal", "Penyewa", "Jumlah", "Keterangan"}, rows))
	}

	return sb.String()
}
