package services

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeTestWorkbook builds an SSR-style workbook: row 1 is a title band,
// row 2 carries the headers, data follows.
func writeTestWorkbook(t *testing.T, sheets map[string][][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := true
	for sheet, rows := range sheets {
		if first {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}
		for i, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "ssr.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func ssrHeader() []any {
	return []any{"Sr. No", "Chapter", "SSR Item No.", "Reference No.", "Description of the item", "Additional Specification", "Unit", "Completed Rates"}
}

func TestLoadRateCatalog(t *testing.T) {
	path := writeTestWorkbook(t, map[string][][]any{
		"Chapter 5": {
			{"Schedule of Rates 2024-25"},
			ssrHeader(),
			{"1", "5", "5.12", "Spec 5/12", "Cast in situ M15 concrete", "", "Cu.M.", "4,850.00"},
			{"2", "5", "5.14", "Spec 5/14", "Rubble soling", "230mm", "Sq.M.", "310"},
			{"", "", "", "", "", "", "", ""}, // blank description rows are skipped
		},
	})

	catalog, err := LoadRateCatalog(path)
	if err != nil {
		t.Fatalf("LoadRateCatalog: %v", err)
	}
	if catalog.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", catalog.Len())
	}

	item, ok := catalog.FindByDescription("Cast in situ M15 concrete")
	if !ok {
		t.Fatal("expected to find the concrete item")
	}
	if item.CompletedRate != 4850 {
		t.Errorf("rate = %v, want 4850 (comma stripped)", item.CompletedRate)
	}
	if item.Unit != "Cu.M." || item.SSRItemNo != "5.12" {
		t.Errorf("unexpected item fields: %+v", item)
	}
}

func TestLoadRateCatalogConcatenatesSheets(t *testing.T) {
	path := writeTestWorkbook(t, map[string][][]any{
		"Chapter 5": {
			{"title"},
			ssrHeader(),
			{"1", "5", "5.1", "", "Item one", "", "Cu.M.", "100"},
		},
		"Chapter 6": {
			{"title"},
			ssrHeader(),
			{"1", "6", "6.1", "", "Item two", "", "Sq.M.", "200"},
		},
	})

	catalog, err := LoadRateCatalog(path)
	if err != nil {
		t.Fatalf("LoadRateCatalog: %v", err)
	}
	if catalog.Len() != 2 {
		t.Errorf("expected rows from both sheets, got %d", catalog.Len())
	}
	if got := catalog.Descriptions(); len(got) != 2 {
		t.Errorf("descriptions = %v", got)
	}
}

func TestLoadRateCatalogMissingFile(t *testing.T) {
	catalog, err := LoadRateCatalog(filepath.Join(t.TempDir(), "missing.xlsx"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if catalog == nil || catalog.Len() != 0 {
		t.Error("missing file must still yield a usable empty catalog")
	}
}

func TestLoadRateCatalogMissingColumn(t *testing.T) {
	path := writeTestWorkbook(t, map[string][][]any{
		"Sheet1": {
			{"title"},
			{"Sr. No", "Description of the item", "Unit"}, // no rates column
			{"1", "Item", "Cu.M."},
		},
	})

	catalog, err := LoadRateCatalog(path)
	if err == nil {
		t.Fatal("expected an error for missing required columns")
	}
	if catalog.Len() != 0 {
		t.Error("failed load must yield an empty catalog")
	}
}

func TestFindByDescriptionMiss(t *testing.T) {
	catalog := NewRateCatalog([]CatalogItem{{Description: "Item"}})
	if _, ok := catalog.FindByDescription("nope"); ok {
		t.Error("expected a miss for an unknown description")
	}
}
