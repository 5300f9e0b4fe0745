// ABOUTME: Dashboard component summarising revenue, occupancy and rent status
// ABOUTME: Renders metric blocks, an occupancy bar, a revenue sparkline and recent payments

package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sultankost/kost/internal/client"
	"github.com/sultankost/kost/internal/kost"
	"github.com/sultankost/kost/internal/tui/icons"
	"github.com/sultankost/kost/internal/tui/styles"
	"github.com/sultankost/kost/internal/tui/widgets"
)

// maxOverdueShown caps the overdue list on the dashboard
const maxOverdueShown = 5

// Snapshot is everything the TUI loads from the backend in one refresh
type Snapshot struct {
	Summary  *client.FinancialSummary
	Rooms    []client.Room
	Tenants  []client.Tenant
	Payments []client.Payment
	LoadedAt time.Time
}

// Dashboard displays the snapshot
type Dashboard struct {
	data   *Snapshot
	width  int
	height int
}

// New creates a new dashboard
func New(data *Snapshot, width, height int) *Dashboard {
	return &Dashboard{data: data, width: width, height: height}
}

// Update replaces the snapshot
func (d *Dashboard) Update(data *Snapshot) {
	d.data = data
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the dashboard
func (d *Dashboard) View() string {
	if d.data == nil || d.data.Summary == nil {
		return lipgloss.NewStyle().Width(d.width).Render("Memuat data...")
	}

	s := d.data.Summary
	counts := kost.CountRooms(d.data.Rooms)
	now := d.data.LoadedAt
	if now.IsZero() {
		now = time.Now()
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Ringkasan"))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render(kost.DateLong(now)))
	sb.WriteString("\n\n")

	sb.WriteString(d.renderBlocks(s, counts))
	sb.WriteString("\n\n")

	sb.WriteString("Okupansi\n")
	bar := widgets.DefaultProgressBarConfig()
	bar.Width = min(max(d.width-16, 10), 40)
	sb.WriteString(widgets.ProgressBarWithLabel(counts.Occupancy(), bar))
	sb.WriteString("\n\n")

	sb.WriteString(d.renderOverdue(now))
	sb.WriteString("\n")
	sb.WriteString(d.renderRecent(s.RecentTransactions))

	return lipgloss.NewStyle().
		Width(d.width).
		MaxHeight(max(d.height, 0)).
		Render(sb.String())
}

// renderBlocks lays out the metric blocks in a row, or a column when narrow
func (d *Dashboard) renderBlocks(s *client.FinancialSummary, counts kost.RoomCounts) string {
	cfg := widgets.DefaultMetricBlockConfig()

	values := make([]float64, len(s.Chart.Data))
	for i, v := range s.Chart.Data {
		values[i] = float64(v)
	}
	trend := widgets.Sparkline(values, cfg.Width-4, styles.Primary)
	trendLabel := ""
	if n := len(s.Chart.Labels); n > 0 {
		trendLabel = styles.Subtitle.Render(s.Chart.Labels[0] + " – " + s.Chart.Labels[n-1])
	}

	blocks := []string{
		widgets.MetricBlock(icons.Money, "Total Pendapatan", kost.Rupiah(s.TotalRevenue),
			[]string{styles.Subtitle.Render(fmt.Sprintf("%d pembayaran", len(d.data.Payments)))}, cfg),
		widgets.MetricBlock(icons.Chart, "Bulan Ini", kost.Rupiah(s.RevenueThisMonth),
			[]string{trend, trendLabel}, cfg),
		widgets.MetricBlock(icons.Room, "Kamar", fmt.Sprintf("%d kamar", counts.Total),
			[]string{
				roomLine(counts.Occupied, "terisi", client.StatusOccupied),
				roomLine(counts.Vacant, "kosong", client.StatusVacant),
				roomLine(counts.Maintenance, "perbaikan", client.StatusMaintenance),
			}, cfg),
	}

	if d.width >= len(blocks)*(cfg.Width+1) {
		return lipgloss.JoinHorizontal(lipgloss.Top, withGaps(blocks)...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func roomLine(n int, label, status string) string {
	return widgets.StatusText(fmt.Sprintf("%d %s", n, label), widgets.RoomStatusLevel(status))
}

func withGaps(blocks []string) []string {
	out := make([]string, 0, len(blocks)*2)
	for i, b := range blocks {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, b)
	}
	return out
}

// renderOverdue lists tenants whose rent period has ended, then those whose
// period ends within the warning window
func (d *Dashboard) renderOverdue(now time.Time) string {
	overdue := kost.OverdueTenants(d.data.Tenants, now)
	if len(overdue) == 0 {
		return widgets.StatusText("Semua sewa masih berjalan", widgets.StatusOK) + "\n" + d.renderEndingSoon(now)
	}

	var sb strings.Builder
	sb.WriteString(widgets.StatusText(fmt.Sprintf("%d penyewa lewat masa sewa", len(overdue)), widgets.StatusCritical))
	sb.WriteString("\n")
	for i, s := range overdue {
		if i == maxOverdueShown {
			sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("  ... dan %d lainnya", len(overdue)-maxOverdueShown)))
			sb.WriteString("\n")
			break
		}
		sb.WriteString(fmt.Sprintf("  %s (kamar %s) %s\n",
			s.Tenant.FullName, s.Tenant.RoomNumber(), styles.StatusCritical.Render(kost.DescribeDaysLeft(s.DaysLeft))))
	}
	sb.WriteString(d.renderEndingSoon(now))
	return sb.String()
}

func (d *Dashboard) renderEndingSoon(now time.Time) string {
	var lines []string
	for _, t := range d.data.Tenants {
		days, err := kost.DaysLeft(t, now)
		if err != nil || days < 0 || widgets.RentLevel(days) != widgets.StatusWarning {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s (kamar %s) %s", t.FullName, t.RoomNumber(), kost.DescribeDaysLeft(days)))
	}
	if len(lines) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(widgets.StatusText(fmt.Sprintf("%d sewa segera berakhir", len(lines)), widgets.StatusWarning))
	sb.WriteString("\n")
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderRecent lists the latest transactions from the summary
func (d *Dashboard) renderRecent(txs []client.Transaction) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Payment.String() + " Transaksi Terakhir"))
	sb.WriteString("\n")

	if len(txs) == 0 {
		sb.WriteString(styles.Subtitle.Render("Belum ada transaksi"))
		return sb.String()
	}

	for _, t := range txs {
		sb.WriteString(fmt.Sprintf("%-10s %-20s %s\n",
			kost.BackendDate(t.Date), t.TenantName, styles.ValueStyle.Render(kost.Rupiah(t.Amount))))
	}
	return strings.TrimRight(sb.String(), "\n")
}
