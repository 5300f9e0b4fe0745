// ABOUTME: Revenue totals computed from payment history
// ABOUTME: Mirrors the backend summary for the payments already loaded

package kost

import (
	"time"

	"github.com/sultankost/kost/internal/client"
)

// TotalRevenue sums all payments
func TotalRevenue(payments []client.Payment) client.Amount {
	var total client.Amount
	for _, p := range payments {
		total += p.Amount
	}
	return total
}

// RevenueInMonth sums payments made in the calendar month of now.
// Payments with an unreadable timestamp are ignored.
func RevenueInMonth(payments []client.Payment, now time.Time) client.Amount {
	var total client.Amount
	y, m, _ := now.Date()
	for _, p := range payments {
		paid, err := time.Parse(time.RFC3339, p.PaidAt)
		if err != nil {
			continue
		}
		py, pm, _ := paid.In(now.Location()).Date()
		if py == y && pm == m {
			total += p.Amount
		}
	}
	return total
}

// FilterPayments keeps payments whose tenant name or note contains query
func FilterPayments(payments []client.Payment, query string) []client.Payment {
	return Filter(payments, func(p client.Payment) bool {
		return Matches(query, p.TenantName, p.Note)
	})
}
