package services

import (
	"math"
	"testing"
)

func reportFixture(t *testing.T) *BillRecord {
	t.Helper()
	rec := DefaultBill()
	item, err := NewLineItem(testCatalogItem(), 2) // m15: cement-bearing
	if err != nil {
		t.Fatalf("NewLineItem: %v", err)
	}
	rec.AddItem(item)
	rec.Gather()
	return &rec
}

func TestBuildReportAbstract(t *testing.T) {
	rec := reportFixture(t)
	rep := BuildReport(rec)

	if len(rep.Abstract) != 1 {
		t.Fatalf("expected 1 abstract row, got %d", len(rep.Abstract))
	}
	row := rep.Abstract[0]
	if row.SrNo != "1" || row.Unit != "Cu.M." {
		t.Errorf("unexpected abstract row: %+v", row)
	}
	if row.Rate != "₹4,850.00" || row.Total != "₹9,700.00" {
		t.Errorf("abstract amounts = %q/%q", row.Rate, row.Total)
	}
	if row.RateWords != "Rupees Four Thousand Eight Hundred Fifty Only" {
		t.Errorf("rate words = %q", row.RateWords)
	}
}

func TestBuildReportInsurance(t *testing.T) {
	rec := reportFixture(t)
	rep := BuildReport(rec)

	if got := rep.Summary.Total; got != 9700 {
		t.Fatalf("summary total = %v, want 9700", got)
	}
	if got := rep.Summary.Insurance; math.Abs(got-48.5) > 1e-9 {
		t.Errorf("insurance = %v, want 48.5 (0.5%% of total)", got)
	}
	if got := rep.Summary.GrandTotal; math.Abs(got-9748.5) > 1e-9 {
		t.Errorf("grand total = %v, want 9748.5", got)
	}
}

func TestBuildReportMaterials(t *testing.T) {
	rec := reportFixture(t)
	// An unclassified item contributes no material row.
	plain, err := NewLineItem(CatalogItem{Description: "Excavation in hard rock", Unit: "Cu.M.", CompletedRate: 100}, 5)
	if err != nil {
		t.Fatalf("NewLineItem: %v", err)
	}
	rec.AddItem(plain)
	rec.Gather()

	rep := BuildReport(rec)
	if len(rep.Materials) != 1 {
		t.Fatalf("expected 1 material row, got %d", len(rep.Materials))
	}
	row := rep.Materials[0]
	if row.ShortDesc != "P.C.C. 1:2:4" {
		t.Errorf("short desc = %q", row.ShortDesc)
	}
	// qty 2 × m15 norms
	if math.Abs(row.Totals.Cement-12.8) > 1e-9 || math.Abs(row.Totals.Sand-0.89) > 1e-9 {
		t.Errorf("material totals = %+v", row.Totals)
	}
	if math.Abs(rep.MaterialTotals.Cement-12.8) > 1e-9 {
		t.Errorf("column total cement = %v, want 12.8", rep.MaterialTotals.Cement)
	}
}

func TestBuildReportMaterialsZeroFillsBadQuantity(t *testing.T) {
	rec := reportFixture(t)
	rec.Items[0].Quantity = "approx 2"
	rep := BuildReport(rec)

	if len(rep.Materials) != 1 {
		t.Fatalf("unparsable quantity must still produce a row, got %d rows", len(rep.Materials))
	}
	if rep.Materials[0].Qty != 0 || rep.Materials[0].Totals.Cement != 0 {
		t.Errorf("unparsable quantity must zero-fill, got %+v", rep.Materials[0])
	}
}

func TestBuildReportCement(t *testing.T) {
	rec := reportFixture(t)
	rec.Items[0].ExecutedQuantity = "2.5"
	rep := BuildReport(rec)

	if len(rep.Cement) != 1 {
		t.Fatalf("expected 1 cement row, got %d", len(rep.Cement))
	}
	row := rep.Cement[0]
	if math.Abs(row.Consumption-16) > 1e-9 {
		t.Errorf("consumption = %v, want 16 (2.5 × 6.4)", row.Consumption)
	}
	if rep.CementSay != 16 {
		t.Errorf("rounded total = %d, want 16", rep.CementSay)
	}
}

func TestBuildReportCementSkipsBadExecutedQuantity(t *testing.T) {
	rec := reportFixture(t)
	rec.Items[0].ExecutedQuantity = "n/a"
	rep := BuildReport(rec)

	// Unlike the material table, unparsable executed quantities exclude the
	// item instead of zero-filling it.
	if len(rep.Cement) != 0 {
		t.Errorf("expected no cement rows, got %d", len(rep.Cement))
	}
	if rep.CementTotal != 0 || rep.CementSay != 0 {
		t.Errorf("cement totals = %v/%d, want 0/0", rep.CementTotal, rep.CementSay)
	}
}

func TestBuildReportCementSayRounds(t *testing.T) {
	rec := reportFixture(t)
	rec.Items[0].ExecutedQuantity = "2.1" // 2.1 × 6.4 = 13.44
	rep := BuildReport(rec)

	if rep.CementSay != 13 {
		t.Errorf("rounded total = %d, want 13", rep.CementSay)
	}
}

func TestBuildReportCementSayRoundsHalfUp(t *testing.T) {
	rec := reportFixture(t)
	rec.Items[0].ExecutedQuantity = "1.953125" // × 6.4 = exactly 12.5
	rep := BuildReport(rec)

	if rep.CementSay != 13 {
		t.Errorf("rounded total = %d, want 13 (ties round away from zero)", rep.CementSay)
	}
}

func TestBuildReportExcessSaving(t *testing.T) {
	rec := reportFixture(t)
	rec.Items[0].ExecutedQuantity = "1.5"
	rec.Items[0].Remarks = ""
	rep := BuildReport(rec)

	if len(rep.ExcessSaving) != 1 {
		t.Fatalf("expected 1 excess/saving row, got %d", len(rep.ExcessSaving))
	}
	row := rep.ExcessSaving[0]
	if row.Excess != "-" || row.Saving != "0.50" {
		t.Errorf("excess/saving = %q/%q, want -/0.50", row.Excess, row.Saving)
	}
	if row.Remarks != DefaultRemarks {
		t.Errorf("remarks = %q, want default", row.Remarks)
	}
}

func TestBuildReportEmptyBill(t *testing.T) {
	rec := DefaultBill()
	rec.Gather()
	rep := BuildReport(&rec)

	if len(rep.Abstract) != 0 || len(rep.Materials) != 0 || len(rep.Cement) != 0 || len(rep.ExcessSaving) != 0 {
		t.Error("empty bill must produce empty aggregations")
	}
	if rep.Summary.Total != 0 || rep.Summary.Insurance != 0 {
		t.Errorf("empty bill summary = %+v", rep.Summary)
	}
}
