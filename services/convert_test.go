package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNativeConverter(t *testing.T) {
	rec := DefaultBill()
	item, _ := NewLineItem(testCatalogItem(), 2)
	rec.AddItem(item)
	rec.Gather()
	rep := BuildReport(&rec)

	pdfPath := filepath.Join(t.TempDir(), "out.pdf")
	err := NativeConverter{}.Convert(ConvertJob{
		PDFPath: pdfPath,
		Record:  &rec,
		Report:  rep,
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	info, err := os.Stat(pdfPath)
	if err != nil {
		t.Fatalf("expected PDF on disk: %v", err)
	}
	if info.Size() == 0 {
		t.Error("generated PDF is empty")
	}
}

func TestDefaultConverterNeverNil(t *testing.T) {
	if DefaultConverter() == nil {
		t.Fatal("DefaultConverter must always return a converter")
	}
}
