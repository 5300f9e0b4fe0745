// ABOUTME: Column layouts and filters for the room, tenant and payment lists
// ABOUTME: Filtering reuses the kost helpers shared with the CLI

package tui

import (
	"strconv"
	"strings"

	"github.com/sultankost/kost/internal/client"
	"github.com/sultankost/kost/internal/kost"
	"github.com/sultankost/kost/internal/tui/listview"
)

func roomColumns() []listview.Column[client.Room] {
	return []listview.Column[client.Room]{
		{Title: "Nomor", Width: 8, Value: func(r client.Room) string { return r.Number }},
		{Title: "Tipe", Width: 16, Value: client.Room.TypeName},
		{Title: "Lantai", Width: 6, Value: func(r client.Room) string { return strconv.Itoa(r.Floor) }},
		{Title: "Status", Width: 12, Value: func(r client.Room) string { return r.Status }},
		{Title: "Harga/bulan", Width: 14, Value: func(r client.Room) string {
			if r.TypeDetail == nil {
				return "-"
			}
			return kost.Rupiah(r.TypeDetail.MonthlyPrice)
		}},
	}
}

// filterRooms treats a query naming a room status as a status filter
func filterRooms(rooms []client.Room, query string) []client.Room {
	if status := strings.ToUpper(strings.TrimSpace(query)); client.ValidateStatus(status) == nil {
		return kost.FilterRooms(rooms, "", status)
	}
	return kost.FilterRooms(rooms, query, "")
}

// tenantColumns needs the app clock for the days-left column
func (a *App) tenantColumns() []listview.Column[client.Tenant] {
	return []listview.Column[client.Tenant]{
		{Title: "Nama", Width: 22, Value: func(t client.Tenant) string { return t.FullName }},
		{Title: "No. HP", Width: 14, Value: func(t client.Tenant) string { return t.Phone }},
		{Title: "Kamar", Width: 7, Value: client.Tenant.RoomNumber},
		{Title: "Masuk", Width: 11, Value: func(t client.Tenant) string { return kost.BackendDate(t.StartDate) }},
		{Title: "Sampai", Width: 11, Value: func(t client.Tenant) string {
			end, err := kost.RentEnd(t)
			if err != nil {
				return "-"
			}
			return kost.DateShort(end)
		}},
		{Title: "Sisa", Width: 14, Value: func(t client.Tenant) string {
			days, err := kost.DaysLeft(t, a.now())
			if err != nil {
				return "-"
			}
			return kost.DescribeDaysLeft(days)
		}},
	}
}

func paymentColumns() []listview.Column[client.Payment] {
	return []listview.Column[client.Payment]{
		{Title: "Tanggal", Width: 11, Value: func(p client.Payment) string { return kost.BackendDate(p.PaidAt) }},
		{Title: "Penyewa", Width: 22, Value: func(p client.Payment) string { return p.TenantName }},
		{Title: "Jumlah", Width: 14, Value: func(p client.Payment) string { return kost.Rupiah(p.Amount) }},
		{Title: "Keterangan", Width: 28, Value: func(p client.Payment) string { return p.Note }},
	}
}
