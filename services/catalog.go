package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CatalogItem is one row of the SSR (Standard Schedule of Rates) catalog.
type CatalogItem struct {
	SrNo           string
	Chapter        string
	SSRItemNo      string
	ReferenceNo    string
	Description    string
	AdditionalSpec string
	Unit           string
	CompletedRate  float64
}

// RateCatalog is the read-only rate lookup shared by all jobs. It is loaded
// once at startup and injected into whatever needs it.
type RateCatalog struct {
	items []CatalogItem
}

// catalogColumns maps the workbook header labels to their row positions.
// The workbook's first row is decorative; headers sit on the second row.
var catalogRequiredColumns = []string{
	"Description of the item",
	"Unit",
	"Completed Rates",
	"SSR Item No.",
}

// LoadRateCatalog reads every sheet of the SSR workbook and concatenates
// their rows. A missing file or missing required columns is a soft failure:
// the caller gets a descriptive error and an empty, still-usable catalog.
func LoadRateCatalog(path string) (*RateCatalog, error) {
	empty := &RateCatalog{}

	if _, err := os.Stat(path); err != nil {
		return empty, fmt.Errorf("SSR data file not found: %s", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return empty, fmt.Errorf("open SSR workbook: %w", err)
	}
	defer f.Close()

	catalog := &RateCatalog{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return empty, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		// Row 1 is a title band; row 2 carries the column headers.
		if len(rows) < 2 {
			continue
		}
		header := rows[1]
		cols := map[string]int{}
		for i, label := range header {
			cols[strings.TrimSpace(label)] = i
		}
		for _, required := range catalogRequiredColumns {
			if _, ok := cols[required]; !ok {
				return empty, fmt.Errorf("SSR workbook sheet %q is missing required column %q", sheet, required)
			}
		}

		for _, row := range rows[2:] {
			desc := cellAt(row, colIndex(cols, "Description of the item"))
			if desc == "" {
				continue
			}
			rate, _ := strconv.ParseFloat(strings.ReplaceAll(cellAt(row, colIndex(cols, "Completed Rates")), ",", ""), 64)
			catalog.items = append(catalog.items, CatalogItem{
				SrNo:           cellAt(row, colIndex(cols, "Sr. No")),
				Chapter:        cellAt(row, colIndex(cols, "Chapter")),
				SSRItemNo:      cellAt(row, colIndex(cols, "SSR Item No.")),
				ReferenceNo:    cellAt(row, colIndex(cols, "Reference No.")),
				Description:    desc,
				AdditionalSpec: cellAt(row, colIndex(cols, "Additional Specification")),
				Unit:           cellAt(row, colIndex(cols, "Unit")),
				CompletedRate:  rate,
			})
		}
	}

	return catalog, nil
}

// colIndex looks up a header label, returning -1 for columns the sheet does
// not carry so their cells read as empty.
func colIndex(cols map[string]int, label string) int {
	if i, ok := cols[label]; ok {
		return i
	}
	return -1
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// NewRateCatalog builds a catalog from already-materialized items; used by
// tests and seeds.
func NewRateCatalog(items []CatalogItem) *RateCatalog {
	return &RateCatalog{items: items}
}

// Len reports the number of catalog rows.
func (c *RateCatalog) Len() int { return len(c.items) }

// Items returns the catalog rows in workbook order.
func (c *RateCatalog) Items() []CatalogItem { return c.items }

// Descriptions lists the distinct item descriptions in workbook order, for
// populating pickers.
func (c *RateCatalog) Descriptions() []string {
	seen := map[string]bool{}
	var out []string
	for _, item := range c.items {
		if !seen[item.Description] {
			seen[item.Description] = true
			out = append(out, item.Description)
		}
	}
	return out
}

// FindByDescription returns the first catalog row whose description matches
// exactly.
func (c *RateCatalog) FindByDescription(description string) (CatalogItem, bool) {
	for _, item := range c.items {
		if item.Description == description {
			return item, true
		}
	}
	return CatalogItem{}, false
}
