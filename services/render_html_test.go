package services

import (
	"strings"
	"testing"
)

func TestRenderPreview(t *testing.T) {
	rec := DefaultBill()
	rec.NameWork = "Storm water drain"
	rec.Contractor = "M/s. Sharma & Sons"
	rec.FundHead = "2059"
	rec.MBNo = "412"
	item, _ := NewLineItem(testCatalogItem(), 2)
	rec.AddItem(item)
	rec.Gather()
	rep := BuildReport(&rec)

	html, err := RenderPreview(&rec, rep)
	if err != nil {
		t.Fatalf("RenderPreview: %v", err)
	}

	// All eight pages are present.
	for _, want := range []string{
		"Office of the Deputy Engineer",
		"Office of the Executive Engineer",
		"RUNNING ACCOUNT BILL",
		"CERTIFICATE",
		"Check List to be Attached with Bills of Contractor",
		"ABSTRACT",
		"MATERIAL CONSUMPTION STATEMENT",
		"EXCESS SAVING STATEMENT",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("preview is missing %q", want)
		}
	}

	// Values are escaped and numerically consistent with the report.
	if !strings.Contains(html, "M/s. Sharma &amp; Sons") {
		t.Error("contractor was not escaped into the preview")
	}
	if !strings.Contains(html, "₹9,700.00") {
		t.Error("abstract total missing from preview")
	}
	if !strings.Contains(html, "₹48.50") {
		t.Error("insurance amount missing from preview")
	}
	if !strings.Contains(html, ">12.80<") {
		t.Error("cement column total missing from preview")
	}
	if !strings.Contains(html, DefaultRemarks) {
		t.Error("default remarks missing from excess/saving page")
	}
}

func TestRenderPreviewMatchesDocumentTotals(t *testing.T) {
	rec := DefaultBill()
	rec.NameWork = "Storm water drain"
	item, _ := NewLineItem(testCatalogItem(), 2)
	rec.AddItem(item)
	rec.Gather()
	rep := BuildReport(&rec)

	html, err := RenderPreview(&rec, rep)
	if err != nil {
		t.Fatalf("RenderPreview: %v", err)
	}
	doc := materialSection(&rec, rep)

	// Computed material totals are 2dp in every renderer; only the per-unit
	// ratios carry 3dp.
	for _, total := range []string{"0.89", "2.06", "12.80"} {
		if !strings.Contains(html, ">"+total+"<") {
			t.Errorf("preview is missing material total %q", total)
		}
		if !strings.Contains(doc, ">"+total+"<") {
			t.Errorf("document is missing material total %q", total)
		}
	}
	if strings.Contains(html, "12.800") {
		t.Error("preview formats computed totals at 3dp, document uses 2dp")
	}
	if !strings.Contains(html, ">6.400<") {
		t.Error("cement ratio should keep 3dp in the preview")
	}
}

func TestRenderPreviewEmptyBill(t *testing.T) {
	rec := DefaultBill()
	rec.Gather()
	rep := BuildReport(&rec)

	html, err := RenderPreview(&rec, rep)
	if err != nil {
		t.Fatalf("RenderPreview: %v", err)
	}

	// An empty bill still renders the header pages, just without tables.
	if !strings.Contains(html, "RUNNING ACCOUNT BILL") {
		t.Error("header pages missing for empty bill")
	}
	if strings.Contains(html, "Amount upto Date") {
		t.Error("abstract table should be omitted when there are no items")
	}
}
