// ABOUTME: Check-in form moving a new tenant into a vacant room
// ABOUTME: Produces a client.CheckIn once every field validates

package forms

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/sultankost/kost/internal/client"
	"github.com/sultankost/kost/internal/kost"
)

// CheckInMsg is sent when the check-in form is completed
type CheckInMsg struct {
	CheckIn client.CheckIn
}

var durationOptions = []huh.Option[string]{
	huh.NewOption("1 bulan", "1"),
	huh.NewOption("3 bulan", "3"),
	huh.NewOption("6 bulan", "6"),
	huh.NewOption("12 bulan", "12"),
}

// CheckIn is the check-in form
type CheckIn struct {
	form *huh.Form

	name      string
	phone     string
	roomID    int
	startDate string
	months    string
}

// NewCheckIn builds the form over the vacant rooms. preselect, if it is one
// of them, is the initial room choice.
func NewCheckIn(vacant []client.Room, preselect int, now time.Time) *CheckIn {
	c := &CheckIn{
		startDate: now.Format("2006-01-02"),
		months:    "1",
	}

	options := make([]huh.Option[int], 0, len(vacant))
	for _, r := range vacant {
		label := "Kamar " + r.Number
		if r.TypeDetail != nil {
			label += fmt.Sprintf(" (%s, %s)", r.TypeDetail.Name, kost.Rupiah(r.TypeDetail.MonthlyPrice))
		}
		options = append(options, huh.NewOption(label, r.ID))
		if r.ID == preselect || c.roomID == 0 {
			c.roomID = r.ID
		}
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Nama lengkap").
				Value(&c.name).
				Validate(notBlank("nama")),
			huh.NewInput().
				Title("Nomor HP").
				Placeholder("08xxxxxxxxxx").
				Value(&c.phone).
				Validate(validatePhone),
			huh.NewSelect[int]().
				Title("Kamar").
				Options(options...).
				Value(&c.roomID),
		).Title("Check-in Penyewa"),
		huh.NewGroup(
			huh.NewInput().
				Title("Tanggal masuk").
				Description("YYYY-MM-DD").
				Value(&c.startDate).
				Validate(func(s string) error {
					_, err := kost.ParseDate(strings.TrimSpace(s))
					return err
				}),
			huh.NewSelect[string]().
				Title("Durasi sewa").
				Options(durationOptions...).
				Value(&c.months),
		).Title("Masa Sewa"),
	).WithTheme(Theme())

	return c
}

// Init implements tea.Model
func (c *CheckIn) Init() tea.Cmd {
	return c.form.Init()
}

// Update implements tea.Model
func (c *CheckIn) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return c, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		in := c.Value()
		return c, func() tea.Msg { return CheckInMsg{CheckIn: in} }
	}
	return c, cmd
}

// Value returns the check-in described by the current field values
func (c *CheckIn) Value() client.CheckIn {
	months, _ := strconv.Atoi(c.months)
	return client.CheckIn{
		FullName:  strings.TrimSpace(c.name),
		Phone:     strings.TrimSpace(c.phone),
		RoomID:    c.roomID,
		StartDate: strings.TrimSpace(c.startDate),
		Months:    months,
	}
}

// View implements tea.Model
func (c *CheckIn) View() string {
	return c.form.View()
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s wajib diisi", field)
		}
		return nil
	}
}

// validatePhone accepts digits with an optional leading +
func validatePhone(s string) error {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	if len(s) < 8 {
		return fmt.Errorf("nomor HP terlalu pendek")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return fmt.Errorf("nomor HP hanya boleh berisi angka")
		}
	}
	return nil
}
