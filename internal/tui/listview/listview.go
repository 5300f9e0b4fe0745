// ABOUTME: Filterable, paginated table screen built on bubbles/table
// ABOUTME: Rooms, tenants and payments all render through it

package listview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sultankost/kost/internal/kost"
	"github.com/sultankost/kost/internal/tui/icons"
	"github.com/sultankost/kost/internal/tui/styles"
)

// Column describes one table column
type Column[T any] struct {
	Title string
	Width int
	Value func(T) string
}

// List shows items one page at a time, narrowed by a filter query
type List[T any] struct {
	title    string
	columns  []Column[T]
	narrow   func(items []T, query string) []T
	pageSize int

	items    []T
	filtered []T
	page     kost.Page[T]
	number   int

	filter textinput.Model
	table  table.Model
	width  int
	height int
}

// New creates an empty list. narrow returns the items matching a non-empty
// filter query.
func New[T any](title string, columns []Column[T], narrow func([]T, string) []T) *List[T] {
	ti := textinput.New()
	ti.Prompt = icons.Search.String() + " "
	ti.Placeholder = "filter"
	ti.CharLimit = 64

	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c.Title, Width: c.Width}
	}

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(styles.Surface).
		Bold(true)

	l := &List[T]{
		title:    title,
		columns:  columns,
		narrow:   narrow,
		pageSize: kost.DefaultPageSize,
		number:   1,
		filter:   ti,
		table: table.New(
			table.WithColumns(cols),
			table.WithFocused(true),
			table.WithStyles(s),
			table.WithHeight(kost.DefaultPageSize+1),
		),
	}
	l.refilter()
	return l
}

// SetItems replaces the items, keeping the filter and page where possible
func (l *List[T]) SetItems(items []T) {
	l.items = items
	l.refilter()
}

// SetSize sets the space the list may use
func (l *List[T]) SetSize(width, height int) {
	l.width = width
	l.height = height
	// title, filter, header, header border, footer
	if rows := height - 6; rows > 0 {
		l.pageSize = rows
	} else {
		l.pageSize = kost.DefaultPageSize
	}
	l.table.SetHeight(l.pageSize + 1)
	l.table.SetWidth(width)
	l.refilter()
}

// Filtering reports whether the filter input has focus
func (l *List[T]) Filtering() bool {
	return l.filter.Focused()
}

// Query returns the current filter text
func (l *List[T]) Query() string {
	return strings.TrimSpace(l.filter.Value())
}

// Page returns the visible page
func (l *List[T]) Page() kost.Page[T] {
	return l.page
}

// Selected returns the item under the cursor
func (l *List[T]) Selected() (T, bool) {
	var zero T
	i := l.table.Cursor()
	if i < 0 || i >= len(l.page.Items) {
		return zero, false
	}
	return l.page.Items[i], true
}

// Update handles filter editing, paging and cursor movement
func (l *List[T]) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if l.filter.Focused() {
		switch key.String() {
		case "enter":
			l.filter.Blur()
			return nil
		case "esc":
			l.filter.SetValue("")
			l.filter.Blur()
			l.number = 1
			l.refilter()
			return nil
		}
		var cmd tea.Cmd
		l.filter, cmd = l.filter.Update(msg)
		l.number = 1
		l.refilter()
		return cmd
	}

	switch key.String() {
	case "/":
		l.filter.Focus()
		return textinput.Blink
	case "left", "h":
		l.GoTo(l.number - 1)
		return nil
	case "right", "l":
		l.GoTo(l.number + 1)
		return nil
	}

	var cmd tea.Cmd
	l.table, cmd = l.table.Update(msg)
	return cmd
}

// GoTo shows page number, clamped to the available pages
func (l *List[T]) GoTo(number int) {
	l.number = number
	l.refilter()
}

func (l *List[T]) refilter() {
	q := l.Query()
	if q == "" {
		l.filtered = l.items
	} else {
		l.filtered = l.narrow(l.items, q)
	}

	l.page = kost.Paginate(l.filtered, l.number, l.pageSize)
	l.number = l.page.Number

	rows := make([]table.Row, len(l.page.Items))
	for i, item := range l.page.Items {
		row := make(table.Row, len(l.columns))
		for j, c := range l.columns {
			row[j] = c.Value(item)
		}
		rows[i] = row
	}
	l.table.SetRows(rows)
	if l.table.Cursor() >= len(rows) {
		l.table.SetCursor(max(len(rows)-1, 0))
	}
}

// View renders the title, filter, table and page footer
func (l *List[T]) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(l.title))
	sb.WriteString("\n")

	if l.filter.Focused() || l.Query() != "" {
		sb.WriteString(l.filter.View())
		sb.WriteString("\n")
	}

	if len(l.filtered) == 0 {
		if l.Query() != "" {
			sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("Tidak ada hasil untuk %q", l.Query())))
		} else {
			sb.WriteString(styles.Subtitle.Render("Belum ada data"))
		}
		return sb.String()
	}

	sb.WriteString(l.table.View())
	sb.WriteString("\n")

	footer := fmt.Sprintf("Halaman %d/%d · %d data", l.page.Number, l.page.TotalPages, l.page.TotalItems)
	if len(l.filtered) != len(l.items) {
		footer += fmt.Sprintf(" (dari %d)", len(l.items))
	}
	if l.page.HasPrev() {
		footer = "← " + footer
	}
	if l.page.HasNext() {
		footer += " →"
	}
	sb.WriteString(styles.Subtitle.Render(footer))

	return sb.String()
}
