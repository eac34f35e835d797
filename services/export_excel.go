package services

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ErrNoItems is returned when a spreadsheet export is requested for a bill
// with an empty item list.
var ErrNoItems = errors.New("bill has no items to export")

// GenerateLineItemsExcel creates a spreadsheet of the bill's line items and
// returns the file contents as a byte slice. One row per item, one column
// per field, in table order.
func GenerateLineItemsExcel(rec *BillRecord) ([]byte, error) {
	if len(rec.Items) == 0 {
		return nil, ErrNoItems
	}

	f := excelize.NewFile()
	defer f.Close()

	// Sheet names are capped at 31 chars by the format.
	sheetName := rec.Name
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Bill Items"
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M"}
	lastCol := columns[len(columns)-1]

	widths := []float64{6, 10, 12, 50, 20, 8, 14, 10, 16, 12, 10, 10, 22}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	itemStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	totalLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create total label style: %w", err)
	}

	totalValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create total value style: %w", err)
	}

	// Rows 1-3: work name, contractor, agreement.
	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(rec.NameWork))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	if rec.Contractor != "" {
		if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
			return nil, fmt.Errorf("merge contractor: %w", err)
		}
		f.SetCellValue(sheetName, "A2", "Contractor: "+sanitizeExcelCell(rec.Contractor))
		f.SetCellStyle(sheetName, "A2", lastCol+"2", subtitleStyle)
	}

	if err := f.MergeCell(sheetName, "A3", lastCol+"3"); err != nil {
		return nil, fmt.Errorf("merge agreement: %w", err)
	}
	f.SetCellValue(sheetName, "A3", "Agreement No: "+sanitizeExcelCell(rec.AgreementNo))
	f.SetCellStyle(sheetName, "A3", lastCol+"3", subtitleStyle)

	// Row 5: column headers.
	headers := []string{
		"Sr No", "Chapter", "SSR No", "Description", "Additional Spec", "Unit",
		"Unit Rate", "Quantity", "Total", "Executed Qty", "Excess", "Saving", "Remarks",
	}
	for i, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s5", columns[i]), h)
	}
	f.SetCellStyle(sheetName, "A5", lastCol+"5", headerStyle)

	row := 6
	for _, item := range rec.Items {
		values := []string{
			item.SrNo,
			item.Chapter,
			item.SSRNo,
			item.Description,
			item.AdditionalSpec,
			item.Unit,
			item.UnitRate,
			item.Quantity,
			item.Total,
			item.ExecutedQuantity,
			item.Excess,
			item.Saving,
			item.Remarks,
		}
		rowStr := fmt.Sprintf("%d", row)
		for i, v := range values {
			f.SetCellValue(sheetName, columns[i]+rowStr, sanitizeExcelCell(v))
		}
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, itemStyle)
		row++
	}

	// Skip a blank row, then the grand total.
	row++
	totalRow := fmt.Sprintf("%d", row)
	f.SetCellValue(sheetName, "H"+totalRow, "Total:")
	f.SetCellStyle(sheetName, "H"+totalRow, "H"+totalRow, totalLabelStyle)
	f.SetCellValue(sheetName, "I"+totalRow, rec.TotalAmount)
	f.SetCellStyle(sheetName, "I"+totalRow, "I"+totalRow, totalValueStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
