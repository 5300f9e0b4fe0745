// ABOUTME: Tests for dashboard component
// ABOUTME: Validates revenue, occupancy and overdue rendering

package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/sultankost/kost/internal/client"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		Summary: &client.FinancialSummary{
			TotalRevenue:     12500000,
			RevenueThisMonth: 3000000,
			RecentTransactions: []client.Transaction{
				{TenantName: "Budi", Amount: 1500000, Date: "2025-03-02", Note: "Bayar Kost Maret 2025"},
			},
			Chart: client.RevenueChart{
				Labels: []string{"Okt", "Nov", "Des", "Jan", "Feb", "Mar"},
				Data:   []client.Amount{0, 1500000, 3000000, 3000000, 1500000, 3000000},
			},
		},
		Rooms: []client.Room{
			{ID: 1, Number: "A01", Status: client.StatusOccupied},
			{ID: 2, Number: "A02", Status: client.StatusOccupied},
			{ID: 3, Number: "A03", Status: client.StatusVacant},
			{ID: 4, Number: "A04", Status: client.StatusMaintenance},
		},
		Tenants: []client.Tenant{
			{ID: 1, FullName: "Budi", StartDate: "2025-01-01", Months: 1, RoomDetail: &client.Room{Number: "A01"}},
			{ID: 2, FullName: "Sari", StartDate: "2025-03-01", Months: 6},
		},
		LoadedAt: time.Date(2025, 3, 15, 10, 0, 0, 0, time.Local),
	}
}

func TestDashboardView(t *testing.T) {
	d := New(testSnapshot(), 120, 60)
	view := d.View()

	tests := []string{
		"Rp 12.500.000",      // total revenue
		"Rp 3.000.000",       // this month
		"4 kamar",            // room count
		"2 terisi",           // occupied
		"50%",                // occupancy
		"Sabtu, 15 Maret 2025", // snapshot date
		"1 penyewa lewat masa sewa",
		"Budi (kamar A01)",
		"Transaksi Terakhir",
	}
	for _, expected := range tests {
		if !strings.Contains(view, expected) {
			t.Errorf("expected view to contain %q\nView:\n%s", expected, view)
		}
	}
}

func TestDashboardNoData(t *testing.T) {
	d := New(nil, 80, 24)
	if !strings.Contains(d.View(), "Memuat") {
		t.Error("expected loading message when there is no snapshot")
	}
}

func TestDashboardUpdate(t *testing.T) {
	d := New(nil, 120, 60)
	d.Update(testSnapshot())

	if !strings.Contains(d.View(), "Ringkasan") {
		t.Error("expected dashboard to render after update")
	}
}

func TestDashboardNoOverdue(t *testing.T) {
	snap := testSnapshot()
	snap.Tenants = snap.Tenants[1:]
	view := New(snap, 120, 60).View()

	if !strings.Contains(view, "Semua sewa masih berjalan") {
		t.Errorf("expected all-clear message\n%s", view)
	}
}

func TestDashboardEndingSoon(t *testing.T) {
	snap := testSnapshot()
	snap.Tenants = append(snap.Tenants, client.Tenant{
		ID: 3, FullName: "Dewi", StartDate: "2025-02-18", Months: 1, RoomDetail: &client.Room{Number: "B02"},
	})
	view := New(snap, 120, 60).View()

	for _, expected := range []string{"1 sewa segera berakhir", "Dewi (kamar B02) 3 hari"} {
		if !strings.Contains(view, expected) {
			t.Errorf("expected view to contain %q\nView:\n%s", expected, view)
		}
	}
	if strings.Contains(view, "Sari (kamar") {
		t.Error("expected tenants far from the end of their rent to be left out")
	}
}

func TestDashboardNarrowStacksBlocks(t *testing.T) {
	view := New(testSnapshot(), 40, 80).View()
	if !strings.Contains(view, "Total Pendapatan") || !strings.Contains(view, "Kamar") {
		t.Errorf("expected blocks in narrow layout\n%s", view)
	}
}
