// ABOUTME: Indonesian formatting for money and dates
// ABOUTME: Rupiah with dot thousands separators and Indonesian month and day names

package kost

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sultankost/kost/internal/client"
)

var printer = message.NewPrinter(language.Indonesian)

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var dayNames = [...]string{
	"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu",
}

// Rupiah formats an amount as "Rp 1.500.000", rounded to whole rupiah
func Rupiah(a client.Amount) string {
	v := int64(math.Round(float64(a)))
	if v < 0 {
		return "-Rp " + printer.Sprintf("%d", -v)
	}
	return "Rp " + printer.Sprintf("%d", v)
}

// DateShort formats t as d/m/yyyy
func DateShort(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}

// DateLong formats t as "Sabtu, 1 Maret 2025"
func DateLong(t time.Time) string {
	return fmt.Sprintf("%s, %d %s %d", dayNames[t.Weekday()], t.Day(), monthNames[t.Month()-1], t.Year())
}

// MonthYear formats t as "Maret 2025"
func MonthYear(t time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}

// BackendDate reformats a YYYY-MM-DD or RFC 3339 backend value as d/m/yyyy,
// returning the input unchanged when it cannot be parsed
func BackendDate(s string) string {
	if t, err := ParseDate(s); err == nil {
		return DateShort(t)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateShort(t.Local())
	}
	return s
}
