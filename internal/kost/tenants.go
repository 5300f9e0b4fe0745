// ABOUTME: Rent period arithmetic for tenants
// ABOUTME: Rent ends the given number of months after the move-in date

package kost

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sultankost/kost/internal/client"
)

const dateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD backend date in local time
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// RentEnd returns the move-in date plus the rent duration in months
func RentEnd(t client.Tenant) (time.Time, error) {
	start, err := ParseDate(t.StartDate)
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, t.Months, 0), nil
}

// DaysLeft returns whole days from now until the rent ends, negative once
// it has passed
func DaysLeft(t client.Tenant, now time.Time) (int, error) {
	end, err := RentEnd(t)
	if err != nil {
		return 0, err
	}
	today := truncateDay(now)
	return int(math.Round(end.Sub(today).Hours() / 24)), nil
}

// Overdue reports whether the rent period ended before today
func Overdue(t client.Tenant, now time.Time) bool {
	days, err := DaysLeft(t, now)
	return err == nil && days < 0
}

// DescribeDaysLeft renders a DaysLeft result for display
func DescribeDaysLeft(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("lewat %d hari", -days)
	case days == 0:
		return "hari ini"
	default:
		return fmt.Sprintf("%d hari", days)
	}
}

// TenantStatus pairs a tenant with their rent end
type TenantStatus struct {
	Tenant   client.Tenant
	RentEnd  time.Time
	DaysLeft int
}

// OverdueTenants returns tenants whose rent has ended, most overdue first.
// Tenants with unreadable dates are skipped.
func OverdueTenants(tenants []client.Tenant, now time.Time) []TenantStatus {
	var out []TenantStatus
	for _, t := range tenants {
		end, err := RentEnd(t)
		if err != nil {
			continue
		}
		days, _ := DaysLeft(t, now)
		if days < 0 {
			out = append(out, TenantStatus{Tenant: t, RentEnd: end, DaysLeft: days})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysLeft < out[j].DaysLeft
	})
	return out
}

// FilterTenants keeps tenants whose name, phone or room number contains query
func FilterTenants(tenants []client.Tenant, query string) []client.Tenant {
	return Filter(tenants, func(t client.Tenant) bool {
		return Matches(query, t.FullName, t.Phone, t.RoomNumber())
	})
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
