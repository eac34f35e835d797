package services

import (
	"encoding/json"
	"strings"
	"testing"
)

func testCatalogItem() CatalogItem {
	return CatalogItem{
		Chapter:       "5",
		SSRItemNo:     "5.12",
		ReferenceNo:   "Spec. 5/12",
		Description:   "Cast in situ M15 grade cement concrete",
		Unit:          "Cu.M.",
		CompletedRate: 4850,
	}
}

func TestNewLineItem(t *testing.T) {
	item, err := NewLineItem(testCatalogItem(), 2.5)
	if err != nil {
		t.Fatalf("NewLineItem: %v", err)
	}
	if item.UnitRate != "₹4,850.00" {
		t.Errorf("unit rate = %q, want ₹4,850.00", item.UnitRate)
	}
	if item.Total != "₹12,125.00" {
		t.Errorf("total = %q, want ₹12,125.00", item.Total)
	}
	if item.Quantity != "2.5" {
		t.Errorf("quantity = %q, want 2.5", item.Quantity)
	}
}

func TestNewLineItemRejectsNonPositiveQuantity(t *testing.T) {
	for _, qty := range []float64{0, -1, -0.001} {
		if _, err := NewLineItem(testCatalogItem(), qty); err == nil {
			t.Errorf("NewLineItem with qty %v should fail", qty)
		}
	}
}

func TestAddRemoveRenumber(t *testing.T) {
	rec := DefaultBill()
	for i := 0; i < 3; i++ {
		item, err := NewLineItem(testCatalogItem(), float64(i+1))
		if err != nil {
			t.Fatalf("NewLineItem: %v", err)
		}
		rec.AddItem(item)
	}

	for i, item := range rec.Items {
		want := []string{"1", "2", "3"}[i]
		if item.SrNo != want {
			t.Errorf("item %d sr_no = %q, want %q", i, item.SrNo, want)
		}
	}

	if err := rec.RemoveItem(1); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(rec.Items) != 2 {
		t.Fatalf("expected 2 items after removal, got %d", len(rec.Items))
	}
	// The survivor that was third is renumbered to 2 and keeps its quantity.
	if rec.Items[1].SrNo != "2" {
		t.Errorf("renumbered sr_no = %q, want 2", rec.Items[1].SrNo)
	}
	if rec.Items[1].Quantity != "3" {
		t.Errorf("renumbered item quantity = %q, want 3", rec.Items[1].Quantity)
	}

	if err := rec.RemoveItem(5); err == nil {
		t.Error("RemoveItem with out-of-range index should fail")
	}
	if err := rec.RemoveItem(-1); err == nil {
		t.Error("RemoveItem with negative index should fail")
	}
}

func TestExcessSaving(t *testing.T) {
	tests := []struct {
		name         string
		tender       string
		executed     string
		expectExcess string
		expectSaving string
	}{
		{"equal", "10", "10", "-", "-"},
		{"float equal within epsilon", "0.1", "0.10000000000000000001", "-", "-"},
		{"excess", "10", "12.5", "2.50", "-"},
		{"saving", "10", "7.25", "-", "2.75"},
		{"unparsable tender", "ten", "10", "-", "-"},
		{"unparsable executed", "10", "n/a", "-", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			excess, saving := excessSaving(tt.tender, tt.executed)
			if excess != tt.expectExcess || saving != tt.expectSaving {
				t.Errorf("excessSaving(%q, %q) = (%q, %q), want (%q, %q)",
					tt.tender, tt.executed, excess, saving, tt.expectExcess, tt.expectSaving)
			}
		})
	}
}

func TestSyncExcessSavingOverlay(t *testing.T) {
	rec := DefaultBill()
	item, _ := NewLineItem(testCatalogItem(), 10)
	rec.AddItem(item)

	rec.SyncExcessSaving(map[string]ExcessSavingOverlay{
		"1": {ExecutedQuantity: "12", Remarks: "Extra depth"},
	})

	got := rec.Items[0]
	if got.ExecutedQuantity != "12" {
		t.Errorf("executed quantity = %q, want 12", got.ExecutedQuantity)
	}
	if got.Excess != "2.00" || got.Saving != "-" {
		t.Errorf("excess/saving = %q/%q, want 2.00/-", got.Excess, got.Saving)
	}
	if got.Remarks != "Extra depth" {
		t.Errorf("remarks = %q, want overlay value", got.Remarks)
	}
}

func TestSyncExcessSavingDefaults(t *testing.T) {
	rec := DefaultBill()
	item, _ := NewLineItem(testCatalogItem(), 10)
	rec.AddItem(item)

	rec.SyncExcessSaving(nil)

	got := rec.Items[0]
	if got.ExecutedQuantity != got.Quantity {
		t.Errorf("executed quantity should default to tender quantity, got %q", got.ExecutedQuantity)
	}
	if got.Remarks != DefaultRemarks {
		t.Errorf("remarks = %q, want %q", got.Remarks, DefaultRemarks)
	}
	if got.Excess != "-" || got.Saving != "-" {
		t.Errorf("equal quantities must yield -/-, got %q/%q", got.Excess, got.Saving)
	}
}

func TestGatherRecomputesTotal(t *testing.T) {
	rec := DefaultBill()
	for _, qty := range []float64{1, 2} {
		item, _ := NewLineItem(testCatalogItem(), qty)
		rec.AddItem(item)
	}
	rec.TotalAmount = "₹999.00" // stale; Gather must not trust it

	rec.Gather()

	if rec.TotalAmount != "₹14,550.00" {
		t.Errorf("total = %q, want ₹14,550.00", rec.TotalAmount)
	}
}

func TestBillJSONKeys(t *testing.T) {
	rec := DefaultBill()
	rec.AmtRupees = "5000"
	item, _ := NewLineItem(testCatalogItem(), 1)
	rec.AddItem(item)
	rec.Gather()

	raw, err := MarshalBill(rec)
	if err != nil {
		t.Fatalf("MarshalBill: %v", err)
	}

	// The persisted keys are part of the snapshot format, including the
	// historical "amt_rupes" spelling.
	for _, key := range []string{
		`"amt_rupes"`, `"sr_no"`, `"ssr_no"`, `"remarks_excess_saving"`,
		`"total_amount"`, `"signatory_jr_engineer"`,
	} {
		if !strings.Contains(raw, key) {
			t.Errorf("persisted JSON is missing key %s", key)
		}
	}
}

func TestBillRoundTrip(t *testing.T) {
	rec := DefaultBill()
	rec.Name = "drain-work"
	rec.NameWork = "Storm water drain"
	item, _ := NewLineItem(testCatalogItem(), 3)
	rec.AddItem(item)
	rec.Gather()

	raw, err := MarshalBill(rec)
	if err != nil {
		t.Fatalf("MarshalBill: %v", err)
	}
	got, err := LoadBill(raw)
	if err != nil {
		t.Fatalf("LoadBill: %v", err)
	}

	want, _ := json.Marshal(rec)
	gotJSON, _ := json.Marshal(got)
	if string(want) != string(gotJSON) {
		t.Errorf("round trip mismatch:\n got %s\nwant %s", gotJSON, want)
	}
}

func TestLoadBillSelfHeals(t *testing.T) {
	got, err := LoadBill("{not json")
	if err == nil {
		t.Error("corrupt input should report an error for logging")
	}
	if len(got.Items) != 0 || got.TotalAmount != FormatINR(0) {
		t.Errorf("corrupt input should reset to default bill, got %+v", got)
	}

	got, err = LoadBill("")
	if err != nil {
		t.Errorf("empty input is not corrupt: %v", err)
	}
	if got.Items == nil {
		t.Error("hydrated bill must always carry a non-nil item list")
	}
}
