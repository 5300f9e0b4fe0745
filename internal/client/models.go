// ABOUTME: Resource types exchanged with the kost backend
// ABOUTME: Field names follow the backend serializers

package client

import (
	"bytes"
	"encoding/json"
)

// Room statuses
const (
	StatusVacant      = "KOSONG"
	StatusOccupied    = "ISI"
	StatusMaintenance = "MAINTENANCE"
)

// RoomStatuses lists valid room statuses in display order
var RoomStatuses = []string{StatusVacant, StatusOccupied, StatusMaintenance}

// RoomType is a tipe-kamar record
type RoomType struct {
	ID           int    `json:"id,omitempty"`
	Name         string `json:"nama_tipe"`
	MonthlyPrice Amount `json:"harga_per_bulan"`
	Facilities   string `json:"fasilitas"`
}

// Room is a kamar record. TypeDetail is only filled on reads.
type Room struct {
	ID         int       `json:"id,omitempty"`
	Number     string    `json:"nomor_kamar"`
	TypeID     int       `json:"tipe"`
	TypeDetail *RoomType `json:"tipe_detail,omitempty"`
	Floor      int       `json:"lantai"`
	Status     string    `json:"status"`
}

// TypeName returns the room type name when it was included
func (r Room) TypeName() string {
	if r.TypeDetail == nil {
		return ""
	}
	return r.TypeDetail.Name
}

// Tenant is a penyewa record. RoomID is nil after the room was removed.
type Tenant struct {
	ID          int     `json:"id,omitempty"`
	FullName    string  `json:"nama_lengkap"`
	Phone       string  `json:"nomor_hp"`
	IDCardPhoto *string `json:"ktp_foto,omitempty"`
	RoomID      *int    `json:"kamar"`
	RoomDetail  *Room   `json:"kamar_detail,omitempty"`
	StartDate   string  `json:"tanggal_masuk"` // YYYY-MM-DD
	Months      int     `json:"durasi_sewa_bulan"`
}

// RoomNumber returns the number of the tenant's room, if known
func (t Tenant) RoomNumber() string {
	if t.RoomDetail == nil {
		return ""
	}
	return t.RoomDetail.Number
}

// Payment is a riwayat-bayar record
type Payment struct {
	ID         int     `json:"id,omitempty"`
	TenantID   int     `json:"penyewa"`
	TenantName string  `json:"penyewa_nama,omitempty"`
	PaidAt     string  `json:"tanggal_bayar,omitempty"` // RFC 3339, set by the backend
	Amount     Amount  `json:"jumlah"`
	Note       string  `json:"keterangan"`
	Receipt    *string `json:"bukti_transfer,omitempty"`
}

// PaymentPage is one page of payment history
type PaymentPage struct {
	Count    int       `json:"count"`
	Next     *string   `json:"next"`
	Previous *string   `json:"previous"`
	Results  []Payment `json:"results"`
}

// UnmarshalJSON also accepts a bare array for backends with pagination off
func (p *PaymentPage) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var results []Payment
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return err
		}
		*p = PaymentPage{Count: len(results), Results: results}
		return nil
	}

	type page PaymentPage
	var decoded page
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*p = PaymentPage(decoded)
	return nil
}

// HasNext reports whether another page follows
func (p *PaymentPage) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// Transaction is an entry of the financial summary's recent list
type Transaction struct {
	TenantName string `json:"penyewa"`
	Amount     Amount `json:"jumlah"`
	Date       string `json:"tanggal"` // "02 Jan 2006"
	Note       string `json:"keterangan"`
}

// RevenueChart is monthly revenue, oldest first
type RevenueChart struct {
	Labels []string `json:"labels"`
	Data   []Amount `json:"data"`
}

// FinancialSummary is the financial-summary/ response
type FinancialSummary struct {
	TotalRevenue       Amount        `json:"total_pendapatan"`
	RevenueThisMonth   Amount        `json:"pendapatan_bulan_ini"`
	RecentTransactions []Transaction `json:"recent_transactions"`
	Chart              RevenueChart  `json:"grafik"`
}
