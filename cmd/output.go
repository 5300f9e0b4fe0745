// ABOUTME: Plain-text table and pagination output shared by list commands
// ABOUTME: Tables use lipgloss so they line up with wide Indonesian labels

package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sultankost/kost/internal/kost"
)

var (
	listPage    int
	listPerPage int
)

// renderTable formats rows under headers with a plain border
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}

// writePage prints one page of a table followed by a page footer
func writePage[T any](w io.Writer, items []T, noun string, headers []string, row func(T) []string) {
	page := kost.Paginate(items, listPage, listPerPage)
	if page.TotalItems == 0 {
		fmt.Fprintf(w, "No %s found\n", noun)
		return
	}

	rows := make([][]string, 0, len(page.Items))
	for _, item := range page.Items {
		rows = append(rows, row(item))
	}
	fmt.Fprintln(w, renderTable(headers, rows))
	if page.TotalPages > 1 {
		fmt.Fprintf(w, "Page %d/%d (%d %s). Use --page to see more.\n", page.Number, page.TotalPages, page.TotalItems, noun)
	} else {
		fmt.Fprintf(w, "%d %s\n", page.TotalItems, noun)
	}
}
