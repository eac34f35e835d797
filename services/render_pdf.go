package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateReportPDF renders the bill report (abstract plus the three
// statements) directly to PDF bytes using maroto/v2. This is the built-in
// conversion path; it does not depend on any external converter being
// installed.
func GenerateReportPDF(rec *BillRecord, rep *Report) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addReportHeader(m, rec)
	addAbstractSection(m, rep)
	addExcessSavingSection(m, rep)
	addMaterialSection(m, rep)
	addCementSection(m, rep)
	addSignatories(m, rec)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

var (
	reportHeaderBg   = &props.Color{Red: 33, Green: 37, Blue: 41}
	reportHeaderText = props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	reportHeaderCell = props.Cell{BackgroundColor: reportHeaderBg}
)

func addReportHeader(m core.Maroto, rec *BillRecord) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(rec.NameWork, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)
	meta := props.Text{
		Size:  9,
		Align: align.Left,
		Color: &props.Color{Red: 80, Green: 80, Blue: 80},
	}
	metaRight := meta
	metaRight.Align = align.Right
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Contractor: %s", rec.Contractor), meta),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Agreement No: %s", rec.AgreementNo), metaRight),
			),
		),
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("M.B. No: %s", rec.MBNo), meta),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", rec.Date), metaRight),
			),
		),
		row.New(4),
	)
}

func addSectionTitle(m core.Maroto, title string) {
	m.AddRows(
		row.New(8),
		row.New(10).Add(
			col.New(12).Add(
				text.New(title, props.Text{
					Size:  11,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)
}

func addAbstractSection(m core.Maroto, rep *Report) {
	addSectionTitle(m, "ABSTRACT")

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("Item No", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(1).Add(text.New("Quantity", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(1).Add(text.New("Unit", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(5).Add(text.New("Description of Item", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(2).Add(text.New("Rate", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(2).Add(text.New("Amount upto Date", reportHeaderText)).WithStyle(&reportHeaderCell),
		),
	)

	base := props.Text{Size: 7, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right
	for _, r := range rep.Abstract {
		m.AddRows(
			row.New(7).Add(
				col.New(1).Add(text.New(r.SrNo, base)),
				col.New(1).Add(text.New(r.Quantity, right)),
				col.New(1).Add(text.New(r.Unit, base)),
				col.New(5).Add(text.New(r.Description, left)),
				col.New(2).Add(text.New(r.Rate, right)),
				col.New(2).Add(text.New(r.Total, right)),
			),
		)
	}

	summaryBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}
	label := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	for _, line := range []struct {
		label string
		value float64
	}{
		{"TOTAL : Rs", rep.Summary.Total},
		{"Add INSURANCE 0.5 %", rep.Summary.Insurance},
		{"TOTAL BILL AMT (Rs.)", rep.Summary.GrandTotal},
	} {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(line.label, label)).WithStyle(summaryCell),
				col.New(4).Add(text.New(FormatINR(line.value), label)).WithStyle(summaryCell),
			),
		)
	}
}

func addExcessSavingSection(m core.Maroto, rep *Report) {
	addSectionTitle(m, "EXCESS SAVING STATEMENT")

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("Item No.", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(1).Add(text.New("Tender Qty", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(1).Add(text.New("Executed Qty", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(1).Add(text.New("Unit", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(4).Add(text.New("Description", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(1).Add(text.New("Excess", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(1).Add(text.New("Saving", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(2).Add(text.New("Remarks", reportHeaderText)).WithStyle(&reportHeaderCell),
		),
	)

	base := props.Text{Size: 7, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right
	for _, r := range rep.ExcessSaving {
		m.AddRows(
			row.New(7).Add(
				col.New(1).Add(text.New(r.SrNo, base)),
				col.New(1).Add(text.New(r.TenderQty, right)),
				col.New(1).Add(text.New(r.ExecutedQty, right)),
				col.New(1).Add(text.New(r.Unit, base)),
				col.New(4).Add(text.New(r.Description, left)),
				col.New(1).Add(text.New(r.Excess, right)),
				col.New(1).Add(text.New(r.Saving, right)),
				col.New(2).Add(text.New(r.Remarks, left)),
			),
		)
	}
}

func addMaterialSection(m core.Maroto, rep *Report) {
	addSectionTitle(m, "MATERIAL CONSUMPTION STATEMENT")

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("Item No", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(2).Add(text.New("Description", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(1).Add(text.New("Qty", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(1).Add(text.New("Unit", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(1).Add(text.New("Sand (M3)", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(2).Add(text.New("Rubble (M3)", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(1).Add(text.New("Brick (Nos.)", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(1).Add(text.New("Metal (M3)", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(2).Add(text.New("Cement (Bags)", reportHeaderText)).WithStyle(&reportHeaderCell),
		),
	)

	base := props.Text{Size: 7, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right
	for _, r := range rep.Materials {
		m.AddRows(
			row.New(7).Add(
				col.New(1).Add(text.New(r.ItemNo, base)),
				col.New(2).Add(text.New(r.ShortDesc, left)),
				col.New(1).Add(text.New(Format2(r.Qty), right)),
				col.New(1).Add(text.New(r.Unit, base)),
				col.New(1).Add(text.New(Format2(r.Totals.Sand), right)),
				col.New(2).Add(text.New(Format2(r.Totals.Rubble), right)),
				col.New(1).Add(text.New(Format2(r.Totals.Brick), right)),
				col.New(1).Add(text.New(Format2(r.Totals.Metal), right)),
				col.New(2).Add(text.New(Format2(r.Totals.Cement), right)),
			),
		)
	}

	totalsLabel := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	m.AddRows(
		row.New(8).Add(
			col.New(5).Add(text.New("Total:", totalsLabel)),
			col.New(1).Add(text.New(Format2(rep.MaterialTotals.Sand), totalsLabel)),
			col.New(2).Add(text.New(Format2(rep.MaterialTotals.Rubble), totalsLabel)),
			col.New(1).Add(text.New(Format2(rep.MaterialTotals.Brick), totalsLabel)),
			col.New(1).Add(text.New(Format2(rep.MaterialTotals.Metal), totalsLabel)),
			col.New(2).Add(text.New(Format2(rep.MaterialTotals.Cement), totalsLabel)),
		),
	)
}

func addCementSection(m core.Maroto, rep *Report) {
	addSectionTitle(m, "CEMENT CONSUMPTION STATEMENT")

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("Sr No", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(4).Add(text.New("Description", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(2).Add(text.New("Executed Qty", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(2).Add(text.New("Cement Rate (Bags)", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(1).Add(text.New("Unit", reportHeaderText)).WithStyle(&reportHeaderCell),
			col.New(2).Add(text.New("Consumption (Bags)", reportHeaderText)).WithStyle(&reportHeaderCell),
		),
	)

	base := props.Text{Size: 7, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right
	for _, r := range rep.Cement {
		m.AddRows(
			row.New(7).Add(
				col.New(1).Add(text.New(r.SrNo, base)),
				col.New(4).Add(text.New(r.ShortDesc, left)),
				col.New(2).Add(text.New(Format2(r.ExecutedQty), right)),
				col.New(2).Add(text.New(Format3(r.CementRate), right)),
				col.New(1).Add(text.New(r.Unit, base)),
				col.New(2).Add(text.New(Format2(r.Consumption), right)),
			),
		)
	}

	totalsLabel := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	m.AddRows(
		row.New(8).Add(
			col.New(10).Add(text.New("Total =", totalsLabel)),
			col.New(2).Add(text.New(Format2(rep.CementTotal), totalsLabel)),
		),
		row.New(8).Add(
			col.New(10).Add(text.New("Say =", totalsLabel)),
			col.New(2).Add(text.New(fmt.Sprintf("%d Bags", rep.CementSay), totalsLabel)),
		),
	)
}

func addSignatories(m core.Maroto, rec *BillRecord) {
	names := []struct {
		name  string
		title string
	}{
		{rec.SignatoryJrEngineer, "J.E./S.E./Asst. Engineer"},
		{rec.SignatoryDeputyEngineer, "Dy. Engineer"},
		{rec.SignatoryExecEngineer, "Executive Engineer"},
	}
	style := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center}
	sub := props.Text{Size: 7, Align: align.Center, Top: 4}

	m.AddRows(row.New(14))
	cols := make([]core.Col, 0, len(names))
	for _, n := range names {
		label := n.title
		if n.name != "" {
			label = fmt.Sprintf("(%s)", n.name)
		}
		cols = append(cols, col.New(4).Add(
			text.New(label, style),
			text.New(n.title+", M.S.I.B. West Div", sub),
		))
	}
	m.AddRows(row.New(12).Add(cols...))
}
