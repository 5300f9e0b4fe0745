// ABOUTME: Tests for the summary command
// ABOUTME: Verifies the human layout and the combined JSON document

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sultankost/kost/internal/client"
	"github.com/sultankost/kost/internal/kost"
)

func TestFormatSummaryHuman(t *testing.T) {
	ov := &overview{
		Summary: &client.FinancialSummary{
			TotalRevenue:     4500000,
			RevenueThisMonth: 1500000,
			RecentTransactions: []client.Transaction{
				{TenantName: "Budi", Amount: 1500000, Date: "02 Mar 2025", Note: "Bayar Kost Maret 2025"},
			},
		},
		Rooms:     kost.RoomCounts{Total: 4, Occupied: 2, Vacant: 1, Maintenance: 1},
		Occupancy: 50,
	}

	out := formatSummaryHuman(ov)
	contains(t, out,
		"Total revenue:     Rp 4.500.000",
		"This month:        Rp 1.500.000",
		"Rooms:             4 (2 occupied, 1 vacant, 1 maintenance)",
		"Occupancy:         50%",
		"Recent transactions",
		"Bayar Kost Maret 2025",
	)
}

func TestFormatSummaryHuman_NoTransactions(t *testing.T) {
	ov := &overview{Summary: &client.FinancialSummary{}}

	if out := formatSummaryHuman(ov); strings.Contains(out, "Recent transactions") {
		t.Errorf("expected no transaction table, got:\n%s", out)
	}
}

func TestRunSummary(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b, "tok")

	var buf bytes.Buffer
	if code := runSummary(context.Background(), &buf, nil); code != exitOK {
		t.Fatalf("expected exit code 0, got %d\n%s", code, buf.String())
	}
	contains(t, buf.String(), "Rp 4.500.000", "4 (2 occupied, 1 vacant, 1 maintenance)", "50%", "Budi")
}

func TestRunSummary_JSON(t *testing.T) {
	b := newFakeBackend(t)
	useBackend(t, b, "tok")
	jsonOutput = true

	var buf bytes.Buffer
	if code := runSummary(context.Background(), &buf, nil); code != exitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	var got overview
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.Summary == nil || got.Summary.TotalRevenue != 4500000 {
		t.Errorf("unexpected summary %+v", got.Summary)
	}
	if got.Rooms.Total != 4 || got.Occupancy != 50 {
		t.Errorf("unexpected room figures %+v, occupancy %v", got.Rooms, got.Occupancy)
	}
}
