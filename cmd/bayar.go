// ABOUTME: Payment commands (bayar): list history and record a payment
// ABOUTME: Amounts accept Rupiah notation such as "Rp 1.500.000"

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sultankost/kost/internal/client"
	"github.com/sultankost/kost/internal/kost"
)

var (
	paymentTenantID int
	paymentAll      bool
	paymentAmount   string
	paymentNote     string
)

var bayarCmd = &cobra.Command{
	Use:     "bayar",
	Aliases: []string{"payments"},
	Short:   "Manage payments",
}

var bayarListCmd = &cobra.Command{
	Use:   "list",
	Short: "List payment history, newest first",
	Args:  cobra.NoArgs,
	Run:   run(runPaymentList),
}

var bayarAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a payment",
	Args:  cobra.NoArgs,
	Run:   run(runPaymentAdd),
}

func init() {
	rootCmd.AddCommand(bayarCmd)
	bayarCmd.AddCommand(bayarListCmd, bayarAddCmd)

	bayarListCmd.Flags().IntVar(&paymentTenantID, "penyewa", 0, "Only payments of this tenant ID")
	bayarListCmd.Flags().IntVar(&listPage, "page", 1, "Backend page to show")
	bayarListCmd.Flags().BoolVar(&paymentAll, "all", false, "Fetch every page")

	bayarAddCmd.Flags().IntVar(&paymentTenantID, "penyewa", 0, "Tenant ID")
	bayarAddCmd.Flags().StringVar(&paymentAmount, "jumlah", "", "Amount, e.g. 1500000 or \"Rp 1.500.000\"")
	bayarAddCmd.Flags().StringVar(&paymentNote, "keterangan", "", "Note (default \"Bayar Kost <month year>\")")
}

func runPaymentList(ctx context.Context, w io.Writer, _ []string) int {
	e, err := authenticated(ctx)
	if err != nil {
		return fail(w, e, err)
	}

	var (
		payments []client.Payment
		footer   string
	)
	if paymentAll {
		payments, err = e.api.AllPayments(ctx, paymentTenantID)
		if err != nil {
			return fail(w, e, err)
		}
		footer = fmt.Sprintf("%d payments, total %s (%s this month)", len(payments),
			kost.Rupiah(kost.TotalRevenue(payments)), kost.Rupiah(kost.RevenueInMonth(payments, now())))
	} else {
		page, err := e.api.ListPayments(ctx, client.PaymentFilter{TenantID: paymentTenantID, Page: listPage})
		if err != nil {
			return fail(w, e, err)
		}
		payments = page.Results
		footer = fmt.Sprintf("%d of %d payments", len(payments), page.Count)
		if page.HasNext() {
			footer += fmt.Sprintf(". Use --page %d or --all to see more.", max(listPage, 1)+1)
		}
	}

	if IsJSONOutput() {
		return printJSON(w, payments)
	}
	if len(payments) == 0 {
		fmt.Fprintln(w, "No payments found")
		return exitOK
	}

	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, []string{strconv.Itoa(p.ID), kost.BackendDate(p.PaidAt), p.TenantName, kost.Rupiah(p.Amount), p.Note})
	}
	fmt.Fprintln(w, renderTable([]string{"ID", "Tanggal", "Penyewa", "Jumlah", "Keterangan"}, rows))
	fmt.Fprintln(w, footer)
	return exitOK
}

func runPaymentAdd(ctx context.Context, w io.Writer, _ []string) int {
	if paymentTenantID < 1 || paymentAmount == "" {
		return fail(w, nil, fmt.Errorf("--penyewa and --jumlah are required"))
	}
	amount, err := client.ParseAmount(paymentAmount)
	if err != nil {
		return fail(w, nil, err)
	}
	note := paymentNote
	if note == "" {
		note = "Bayar Kost " + kost.MonthYear(now())
	}

	e, err := authenticated(ctx)
	if err != nil {
		return fail(w, e, err)
	}

	p, err := e.api.CreatePayment(ctx, paymentTenantID, amount, note)
	if err != nil {
		return fail(w, e, err)
	}

	if IsJSONOutput() {
		return printJSON(w, p)
	}
	fmt.Fprintf(w, "Payment of %s recorded (ID %d)\n", kost.Rupiah(p.Amount), p.ID)
	return exitOK
}
