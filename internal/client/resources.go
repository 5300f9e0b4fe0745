// ABOUTME: Typed CRUD calls for rooms, room types, tenants, payments and the financial summary
// ABOUTME: Every call goes through Client.Do so it shares token refresh and caching

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	pathRoomTypes = "tipe-kamar/"
	pathRooms     = "kamar/"
	pathTenants   = "penyewa/"
	pathPayments  = "riwayat-bayar/"
	pathSummary   = "financial-summary/"
)

// ErrNotFound is returned by lookups that matched nothing
var ErrNotFound = errors.New("not found")

// dependents lists the cached collections a mutation can change. Tenant
// check-in and check-out flip the room status on the backend.
var dependents = map[string][]string{
	pathRoomTypes: {pathRoomTypes, pathRooms, pathTenants},
	pathRooms:     {pathRooms, pathTenants},
	pathTenants:   {pathTenants, pathRooms, pathPayments, pathSummary},
	pathPayments:  {pathPayments, pathSummary},
}

// invalidate drops cached collections affected by a mutation of path
func (c *Client) invalidate(path string) {
	if c.cache == nil {
		return
	}
	resource := strings.TrimPrefix(path, "/")
	if i := strings.Index(resource, "/"); i >= 0 {
		resource = resource[:i+1]
	}
	for _, p := range dependents[resource] {
		c.cache.ClearPrefix(c.baseURL + p)
	}
}

// list decodes both a bare JSON array and a paginated {"results": [...]} body
type list[T any] []T

func (l *list[T]) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return err
	}
	*l = page.Results
	return nil
}

func itemPath(collection string, id int) string {
	return collection + strconv.Itoa(id) + "/"
}

// === ROOM TYPES ===

// RoomTypeUpdate is a partial room type update; nil fields are left alone
type RoomTypeUpdate struct {
	Name         *string `json:"nama_tipe,omitempty"`
	MonthlyPrice *Amount `json:"harga_per_bulan,omitempty"`
	Facilities   *string `json:"fasilitas,omitempty"`
}

func (c *Client) ListRoomTypes(ctx context.Context) ([]RoomType, error) {
	var out list[RoomType]
	if err := c.Get(ctx, pathRoomTypes, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRoomType(ctx context.Context, rt RoomType) (*RoomType, error) {
	rt.ID = 0
	var out RoomType
	if err := c.Post(ctx, pathRoomTypes, rt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRoomType(ctx context.Context, id int, update RoomTypeUpdate) (*RoomType, error) {
	var out RoomType
	if err := c.Patch(ctx, itemPath(pathRoomTypes, id), update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteRoomType fails while rooms still use the type
func (c *Client) DeleteRoomType(ctx context.Context, id int) error {
	return c.Delete(ctx, itemPath(pathRoomTypes, id))
}

// === ROOMS ===

// RoomFilter narrows ListRooms on the backend. Zero values are ignored.
type RoomFilter struct {
	Status string
	Floor  int
	TypeID int
	Search string
}

func (f RoomFilter) query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", strings.ToUpper(f.Status))
	}
	if f.Floor > 0 {
		q.Set("lantai", strconv.Itoa(f.Floor))
	}
	if f.TypeID > 0 {
		q.Set("tipe", strconv.Itoa(f.TypeID))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return q
}

// RoomUpdate is a partial room update; nil fields are left alone
type RoomUpdate struct {
	Number *string `json:"nomor_kamar,omitempty"`
	TypeID *int    `json:"tipe,omitempty"`
	Floor  *int    `json:"lantai,omitempty"`
	Status *string `json:"status,omitempty"`
}

// ListRooms returns rooms ordered by number
func (c *Client) ListRooms(ctx context.Context, filter RoomFilter) ([]Room, error) {
	var out list[Room]
	if err := c.Get(ctx, pathRooms, filter.query(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRoom(ctx context.Context, room Room) (*Room, error) {
	if room.Status == "" {
		room.Status = StatusVacant
	}
	if err := ValidateStatus(room.Status); err != nil {
		return nil, err
	}
	room.ID = 0
	room.TypeDetail = nil

	var out Room
	if err := c.Post(ctx, pathRooms, room, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRoom(ctx context.Context, id int, update RoomUpdate) (*Room, error) {
	if update.Status != nil {
		s := strings.ToUpper(*update.Status)
		if err := ValidateStatus(s); err != nil {
			return nil, err
		}
		update.Status = &s
	}

	var out Room
	if err := c.Patch(ctx, itemPath(pathRooms, id), update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRoom(ctx context.Context, id int) error {
	return c.Delete(ctx, itemPath(pathRooms, id))
}

// ValidateStatus checks a room status value
func ValidateStatus(status string) error {
	for _, s := range RoomStatuses {
		if s == status {
			return nil
		}
	}
	return fmt.Errorf("invalid room status %q (expected one of %s)", status, strings.Join(RoomStatuses, ", "))
}

// === TENANTS ===

// TenantFilter narrows ListTenants. Search matches name and phone number.
type TenantFilter struct {
	RoomID int
	Search string
}

func (f TenantFilter) query() url.Values {
	q := url.Values{}
	if f.RoomID > 0 {
		q.Set("kamar", strconv.Itoa(f.RoomID))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return q
}

// CheckIn is the data needed to move a tenant into a room
type CheckIn struct {
	FullName  string `json:"nama_lengkap"`
	Phone     string `json:"nomor_hp"`
	RoomID    int    `json:"kamar"`
	StartDate string `json:"tanggal_masuk,omitempty"` // YYYY-MM-DD, backend defaults to today
	Months    int    `json:"durasi_sewa_bulan"`
}

// TenantUpdate is a partial tenant update; nil fields are left alone
type TenantUpdate struct {
	FullName  *string `json:"nama_lengkap,omitempty"`
	Phone     *string `json:"nomor_hp,omitempty"`
	StartDate *string `json:"tanggal_masuk,omitempty"`
	Months    *int    `json:"durasi_sewa_bulan,omitempty"`
}

// ListTenants returns tenants, newest first
func (c *Client) ListTenants(ctx context.Context, filter TenantFilter) ([]Tenant, error) {
	var out list[Tenant]
	if err := c.Get(ctx, pathTenants, filter.query(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TenantByRoom returns the tenant living in a room, or ErrNotFound
func (c *Client) TenantByRoom(ctx context.Context, roomID int) (*Tenant, error) {
	tenants, err := c.ListTenants(ctx, TenantFilter{RoomID: roomID})
	if err != nil {
		return nil, err
	}
	if len(tenants) == 0 {
		return nil, ErrNotFound
	}
	return &tenants[0], nil
}

// CheckIn registers a tenant in a room. The backend marks the room occupied.
func (c *Client) CheckIn(ctx context.Context, in CheckIn) (*Tenant, error) {
	if in.Months < 1 {
		in.Months = 1
	}

	var out Tenant
	if err := c.Post(ctx, pathTenants, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTenant(ctx context.Context, id int, update TenantUpdate) (*Tenant, error) {
	var out Tenant
	if err := c.Patch(ctx, itemPath(pathTenants, id), update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckOut removes a tenant. The backend marks the room vacant and deletes
// the tenant's payment history.
func (c *Client) CheckOut(ctx context.Context, id int) error {
	return c.Delete(ctx, itemPath(pathTenants, id))
}

// ExtendRent sets the rent duration to months
func (c *Client) ExtendRent(ctx context.Context, id, months int) (*Tenant, error) {
	if months < 1 {
		return nil, fmt.Errorf("rent duration must be at least 1 month, got %d", months)
	}
	return c.UpdateTenant(ctx, id, TenantUpdate{Months: &months})
}

// === PAYMENTS ===

// PaymentFilter selects a page of payment history
type PaymentFilter struct {
	TenantID int
	Page     int
}

func (f PaymentFilter) query() url.Values {
	q := url.Values{}
	if f.TenantID > 0 {
		q.Set("penyewa", strconv.Itoa(f.TenantID))
	}
	if f.Page > 1 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	return q
}

// ListPayments returns one page of payments, newest first
func (c *Client) ListPayments(ctx context.Context, filter PaymentFilter) (*PaymentPage, error) {
	var out PaymentPage
	if err := c.Get(ctx, pathPayments, filter.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllPayments follows pagination until the last page
func (c *Client) AllPayments(ctx context.Context, tenantID int) ([]Payment, error) {
	var all []Payment
	for page := 1; ; page++ {
		p, err := c.ListPayments(ctx, PaymentFilter{TenantID: tenantID, Page: page})
		if err != nil {
			return nil, err
		}
		all = append(all, p.Results...)
		if !p.HasNext() || len(p.Results) == 0 {
			return all, nil
		}
	}
}

// CreatePayment records a payment for a tenant
func (c *Client) CreatePayment(ctx context.Context, tenantID int, amount Amount, note string) (*Payment, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive")
	}

	var out Payment
	in := Payment{TenantID: tenantID, Amount: amount, Note: note}
	if err := c.Post(ctx, pathPayments, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// === SUMMARY ===

func (c *Client) FinancialSummary(ctx context.Context) (*FinancialSummary, error) {
	var out FinancialSummary
	if err := c.Get(ctx, pathSummary, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
