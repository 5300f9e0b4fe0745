// ABOUTME: Rendering for the root TUI model
// ABOUTME: Wraps each screen in the header and footer frame

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sultankost/kost/internal/tui/icons"
	"github.com/sultankost/kost/internal/tui/styles"
)

var screenNames = map[Screen]string{
	ScreenLogin:     "Login",
	ScreenDashboard: "Ringkasan",
	ScreenRooms:     "Kamar",
	ScreenTenants:   "Penyewa",
	ScreenPayments:  "Riwayat Bayar",
	ScreenForm:      "Formulir",
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.viewLogin()
	case ScreenDashboard:
		content = a.viewDashboard()
	case ScreenRooms:
		content = a.rooms.View()
	case ScreenTenants:
		content = a.tenants.View()
	case ScreenPayments:
		content = a.payments.View()
	case ScreenForm:
		content = a.viewForm()
	}

	return a.wrapWithFrame(a.withStatus(content))
}

func (a *App) viewLogin() string {
	if a.login == nil {
		return ""
	}
	return styles.Panel.Width(min(a.panelWidth(), 72)).Render(a.login.View())
}

func (a *App) viewDashboard() string {
	if a.loading && a.data == nil {
		return styles.Panel.Width(a.panelWidth()).Render(icons.Refresh.String() + " Memuat data...")
	}
	return styles.ActivePanel.Width(a.panelWidth()).Render(a.dashboard.View())
}

func (a *App) viewForm() string {
	if a.form == nil {
		return ""
	}
	return styles.ActivePanel.Width(a.panelWidth()).Render(a.form.View())
}

// withStatus prepends the last error or action result to content
func (a *App) withStatus(content string) string {
	switch {
	case a.err != nil && a.screen != ScreenLogin:
		return styles.StatusCritical.Render("Error: "+errorMessage(a.err)) + "\n" + content
	case a.status != "":
		style := styles.StatusOK
		if strings.HasPrefix(a.status, "Gagal") {
			style = styles.StatusCritical
		}
		return style.Render(a.status) + "\n" + content
	}
	return content
}

// frameWidth is one less than the terminal so the corner glyphs never wrap
func (a *App) frameWidth() int {
	width := a.width - 1
	if width < minTerminalWidth {
		width = minTerminalWidth
	}
	return width
}

// panelWidth makes a bordered panel as wide as the frame
func (a *App) panelWidth() int {
	return a.frameWidth() - 2
}

// contentWidth is the width available inside a panel
func (a *App) contentWidth() int {
	return a.frameWidth() - panelChrome
}

// contentHeight calculates the height available inside a panel
func (a *App) contentHeight() int {
	// Header, status line, panel border and padding, footer
	return max(a.height-8, 0)
}

// renderHeader creates the header bar with app branding and the signed in user
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.Home.String(), titleStyle.Render("Admin Kost"))
	if a.screen != ScreenLogin {
		leftText += contextStyle.Render("· "+screenNames[a.screen]) + " "
	}

	rightText := ""
	if a.store != nil && a.screen != ScreenLogin {
		if name := a.store.User().DisplayName(); name != "" {
			rightText = " " + contextStyle.Render(icons.Tenant.String()+" "+name) + " "
		}
	}

	fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText) // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// shortcuts lists the keys that work on the current screen
func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenLogin:
		return []string{"↑↓ Pilih", "Enter Lanjut", "Esc Kembali", "ctrl+c Keluar"}
	case ScreenDashboard:
		return []string{"1-4 Layar", "r Refresh", "c Check-in", "p Bayar", "x Logout", "q Keluar"}
	case ScreenForm:
		return []string{"Tab Berikut", "Enter Konfirmasi", "Esc Batal"}
	default:
		return []string{"1-4 Layar", "/ Cari", "←→ Halaman", "c Check-in", "p Bayar", "r Refresh", "q Keluar"}
	}
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()
	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styled = append(styled, s)
		}
	}
	leftText := " " + strings.Join(styled, "  ") + " "
	leftWidth := lipgloss.Width(" " + strings.Join(shortcuts, "  ") + " ")

	// Right side status (last update time), dropped when it does not fit
	rightText := ""
	rightWidth := 0
	if !a.lastUpdate.IsZero() && a.screen != ScreenLogin && a.screen != ScreenForm {
		plain := "Updated " + humanize.Time(a.lastUpdate) + " "
		if leftWidth+len(plain)+4 <= width {
			rightText = statusStyle.Render(plain)
			rightWidth = lipgloss.Width(plain)
		}
	}

	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}
