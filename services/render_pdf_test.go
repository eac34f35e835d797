package services

import (
	"bytes"
	"testing"
)

func TestGenerateReportPDF(t *testing.T) {
	rec := DefaultBill()
	rec.NameWork = "Storm water drain"
	rec.Contractor = "M/s. Test Constructions"
	item, _ := NewLineItem(testCatalogItem(), 2)
	rec.AddItem(item)
	rec.Gather()
	rep := BuildReport(&rec)

	pdf, err := GenerateReportPDF(&rec, rep)
	if err != nil {
		t.Fatalf("GenerateReportPDF: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatal("expected PDF bytes")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header: %q", pdf[:8])
	}
}

func TestGenerateReportPDFEmptyBill(t *testing.T) {
	rec := DefaultBill()
	rec.Gather()
	rep := BuildReport(&rec)

	pdf, err := GenerateReportPDF(&rec, rep)
	if err != nil {
		t.Fatalf("GenerateReportPDF on empty bill: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("empty bill must still produce a valid document")
	}
}
