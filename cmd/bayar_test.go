// ABOUTME: Tests for the payment commands
// ABOUTME: Verifies pagination hints, totals across pages and the default note

package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func resetPaymentFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		paymentTenantID, paymentAll, paymentAmount, paymentNote = 0, false, "", ""
		listPage = 1
	})
}

func TestPaymentList_FirstPage(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b, "tok")
	resetPaymentFlags(t)

	var buf bytes.Buffer
	if code := runPaymentList(context.Background(), &buf, nil); code != exitOK {
		t.Fatalf("expected exit code 0, got %d\n%s", code, buf.String())
	}
	contains(t, buf.String(), "Budi", "Rp 1.500.000", "2 of 3 payments. Use --page 2 or --all to see more.")
}

func TestPaymentList_LastPage(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b, "tok")
	resetPaymentFlags(t)
	listPage = 2

	var buf bytes.Buffer
	runPaymentList(context.Background(), &buf, nil)

	contains(t, buf.String(), "1 of 3 payments")
	if strings.Contains(buf.String(), "--all") {
		t.Error("expected no paging hint on the last page")
	}
}

func TestPaymentList_All(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b, "tok")
	resetPaymentFlags(t)
	paymentAll = true

	var buf bytes.Buffer
	if code := runPaymentList(context.Background(), &buf, nil); code != exitOK {
		t.Fatalf("expected exit code 0, got %d\n%s", code, buf.String())
	}
	contains(t, buf.String(), "3 payments, total Rp 4.500.000 (Rp 1.500.000 this month)")
}

func TestPaymentAdd(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b, "tok")
	resetPaymentFlags(t)
	paymentTenantID, paymentAmount = 1, "Rp 1.500.000"

	var buf bytes.Buffer
	if code := runPaymentAdd(context.Background(), &buf, nil); code != exitOK {
		t.Fatalf("expected exit code 0, got %d\n%s", code, buf.String())
	}
	contains(t, buf.String(), "Payment of Rp 1.500.000 recorded (ID 11)")

	body := b.lastPost("riwayat-bayar")
	if body["keterangan"] != "Bayar Kost Maret 2025" {
		t.Errorf("expected default note, got %v", body["keterangan"])
	}
	if body["jumlah"] != "1500000" || body["penyewa"] != float64(1) {
		t.Errorf("unexpected request body %v", body)
	}
}

func TestPaymentAdd_Validation(t *testing.T) {
	tests := []struct {
		name   string
		tenant int
		amount string
		output string
	}{
		{"missing tenant", 0, "1500000", "--penyewa and --jumlah are required"},
		{"missing amount", 1, "", "--penyewa and --jumlah are required"},
		{"bad amount", 1, "sejuta", "invalid amount"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resetPaymentFlags(t)
			paymentTenantID, paymentAmount = tc.tenant, tc.amount

			var buf bytes.Buffer
			if code := runPaymentAdd(context.Background(), &buf, nil); code != exitError {
				t.Errorf("expected exit code %d, got %d", exitError, code)
			}
			contains(t, buf.String(), tc.output)
		})
	}
}
