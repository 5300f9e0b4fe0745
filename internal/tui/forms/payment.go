// ABOUTME: Payment form recording a rent payment for a tenant
// ABOUTME: Amounts accept Rupiah notation and default to the room's monthly price

package forms

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/sultankost/kost/internal/client"
	"github.com/sultankost/kost/internal/kost"
)

// PaymentMsg is sent when the payment form is completed
type PaymentMsg struct {
	TenantID int
	Amount   client.Amount
	Note     string
}

// Payment is the payment form
type Payment struct {
	form *huh.Form

	tenantID int
	amount   string
	note     string
}

// NewPayment builds the form over tenants. preselect, if it is one of them,
// is the initial tenant and its room price prefills the amount.
func NewPayment(tenants []client.Tenant, preselect int, now time.Time) *Payment {
	p := &Payment{note: "Bayar Kost " + kost.MonthYear(now)}

	options := make([]huh.Option[int], 0, len(tenants))
	for _, t := range tenants {
		label := t.FullName
		if n := t.RoomNumber(); n != "" {
			label += " (kamar " + n + ")"
		}
		options = append(options, huh.NewOption(label, t.ID))
		if t.ID == preselect || p.tenantID == 0 {
			p.tenantID = t.ID
			p.amount = monthlyPrice(t)
		}
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Penyewa").
				Options(options...).
				Value(&p.tenantID),
			huh.NewInput().
				Title("Jumlah").
				Placeholder("Rp 1.500.000").
				Value(&p.amount).
				Validate(validateAmount),
			huh.NewInput().
				Title("Keterangan").
				Value(&p.note),
		).Title("Catat Pembayaran"),
	).WithTheme(Theme())

	return p
}

// Init implements tea.Model
func (p *Payment) Init() tea.Cmd {
	return p.form.Init()
}

// Update implements tea.Model
func (p *Payment) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return p, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		out, err := p.Value()
		if err != nil {
			return p, cmd
		}
		return p, func() tea.Msg { return out }
	}
	return p, cmd
}

// Value returns the payment described by the current field values
func (p *Payment) Value() (PaymentMsg, error) {
	amount, err := client.ParseAmount(p.amount)
	if err != nil {
		return PaymentMsg{}, err
	}
	return PaymentMsg{TenantID: p.tenantID, Amount: amount, Note: strings.TrimSpace(p.note)}, nil
}

// View implements tea.Model
func (p *Payment) View() string {
	return p.form.View()
}

func monthlyPrice(t client.Tenant) string {
	if t.RoomDetail != nil && t.RoomDetail.TypeDetail != nil && t.RoomDetail.TypeDetail.MonthlyPrice > 0 {
		return kost.Rupiah(t.RoomDetail.TypeDetail.MonthlyPrice)
	}
	return ""
}

func validateAmount(s string) error {
	a, err := client.ParseAmount(s)
	if err != nil {
		return err
	}
	if a <= 0 {
		return fmt.Errorf("jumlah harus lebih dari 0")
	}
	return nil
}
