// ABOUTME: Tenant commands (penyewa): list, check-in, check-out and rent extension
// ABOUTME: Rent end dates and overdue state are derived locally from the start date

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sultankost/kost/internal/client"
	"github.com/sultankost/kost/internal/kost"
)

var (
	tenantRoomID  int
	tenantSearch  string
	tenantOverdue bool

	checkinName   string
	checkinPhone  string
	checkinStart  string
	checkinMonths int

	extendMonths int
)

// now is replaced in tests
var now = time.Now

var penyewaCmd = &cobra.Command{
	Use:     "penyewa",
	Aliases: []string{"tenants"},
	Short:   "Manage tenants",
}

var penyewaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tenants",
	Args:  cobra.NoArgs,
	Run:   run(runTenantList),
}

var penyewaCheckinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Check a tenant into a vacant room",
	Args:  cobra.NoArgs,
	Run:   run(runCheckIn),
}

var penyewaCheckoutCmd = &cobra.Command{
	Use:   "checkout ID",
	Short: "Check a tenant out, freeing the room",
	Long:  "Check a tenant out. The room becomes vacant and the tenant's payment history is removed.",
	Args:  cobra.ExactArgs(1),
	Run:   run(runCheckOut),
}

var penyewaExtendCmd = &cobra.Command{
	Use:   "extend ID",
	Short: "Change the rent duration of a tenant",
	Args:  cobra.ExactArgs(1),
	Run:   run(runExtend),
}

func init() {
	rootCmd.AddCommand(penyewaCmd)
	penyewaCmd.AddCommand(penyewaListCmd, penyewaCheckinCmd, penyewaCheckoutCmd, penyewaExtendCmd)

	penyewaListCmd.Flags().IntVar(&tenantRoomID, "kamar", 0, "Only the tenant of this room ID")
	penyewaListCmd.Flags().StringVar(&tenantSearch, "search", "", "Search names and phone numbers")
	penyewaListCmd.Flags().BoolVar(&tenantOverdue, "overdue", false, "Only tenants whose rent period has ended")
	penyewaListCmd.Flags().IntVar(&listPage, "page", 1, "Page to show")
	penyewaListCmd.Flags().IntVar(&listPerPage, "per-page", kost.DefaultPageSize, "Rows per page")

	penyewaCheckinCmd.Flags().StringVar(&checkinName, "nama", "", "Full name")
	penyewaCheckinCmd.Flags().StringVar(&checkinPhone, "hp", "", "Phone number")
	penyewaCheckinCmd.Flags().IntVar(&tenantRoomID, "kamar", 0, "Room ID")
	penyewaCheckinCmd.Flags().StringVar(&checkinStart, "mulai", "", "Start date YYYY-MM-DD (default today)")
	penyewaCheckinCmd.Flags().IntVar(&checkinMonths, "durasi", 1, "Rent duration in months")

	penyewaExtendCmd.Flags().IntVar(&extendMonths, "bulan", 0, "New rent duration in months")
}

func runTenantList(ctx context.Context, w io.Writer, _ []string) int {
	e, err := authenticated(ctx)
	if err != nil {
		return fail(w, e, err)
	}

	tenants, err := e.api.ListTenants(ctx, client.TenantFilter{RoomID: tenantRoomID, Search: tenantSearch})
	if err != nil {
		return fail(w, e, err)
	}

	today := now()
	if tenantOverdue {
		tenants = kost.Filter(tenants, func(t client.Tenant) bool { return kost.Overdue(t, today) })
	}

	if IsJSONOutput() {
		return printJSON(w, tenants)
	}

	writePage(w, tenants, "tenants", []string{"ID", "Nama", "No. HP", "Kamar", "Masuk", "Sampai", "Sisa"}, func(t client.Tenant) []string {
		end, left := "-", "-"
		if d, err := kost.RentEnd(t); err == nil {
			end = kost.DateShort(d)
		}
		if days, err := kost.DaysLeft(t, today); err == nil {
			left = kost.DescribeDaysLeft(days)
		}
		return []string{strconv.Itoa(t.ID), t.FullName, t.Phone, t.RoomNumber(), kost.BackendDate(t.StartDate), end, left}
	})
	return exitOK
}

func runCheckIn(ctx context.Context, w io.Writer, _ []string) int {
	if checkinName == "" || checkinPhone == "" || tenantRoomID < 1 {
		return fail(w, nil, fmt.Errorf("--nama, --hp and --kamar are required"))
	}
	if checkinStart != "" {
		if _, err := kost.ParseDate(checkinStart); err != nil {
			return fail(w, nil, err)
		}
	}

	e, err := authenticated(ctx)
	if err != nil {
		return fail(w, e, err)
	}

	tenant, err := e.api.CheckIn(ctx, client.CheckIn{
		FullName:  checkinName,
		Phone:     checkinPhone,
		RoomID:    tenantRoomID,
		StartDate: checkinStart,
		Months:    checkinMonths,
	})
	if err != nil {
		return fail(w, e, err)
	}

	if IsJSONOutput() {
		return printJSON(w, tenant)
	}
	fmt.Fprintf(w, "%s checked in (ID %d)\n", tenant.FullName, tenant.ID)
	return exitOK
}

func runCheckOut(ctx context.Context, w io.Writer, args []string) int {
	id, err := parseID(args[0])
	if err != nil {
		return fail(w, nil, err)
	}

	e, err := authenticated(ctx)
	if err != nil {
		return fail(w, e, err)
	}
	if err := e.api.CheckOut(ctx, id); err != nil {
		return fail(w, e, err)
	}
	fmt.Fprintf(w, "Tenant %d checked out\n", id)
	return exitOK
}

func runExtend(ctx context.Context, w io.Writer, args []string) int {
	id, err := parseID(args[0])
	if err != nil {
		return fail(w, nil, err)
	}
	if extendMonths < 1 {
		return fail(w, nil, fmt.Errorf("--bulan must be at least 1"))
	}

	e, err := authenticated(ctx)
	if err != nil {
		return fail(w, e, err)
	}

	tenant, err := e.api.ExtendRent(ctx, id, extendMonths)
	if err != nil {
		return fail(w, e, err)
	}

	if IsJSONOutput() {
		return printJSON(w, tenant)
	}
	msg := fmt.Sprintf("%s now rents for %d month(s)", tenant.FullName, tenant.Months)
	if end, err := kost.RentEnd(*tenant); err == nil {
		msg += ", until " + kost.DateLong(end)
	}
	fmt.Fprintln(w, msg)
	return exitOK
}
