package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Placeholder names for the four generated tables inside the document
// template. Scalar placeholders use the {{field_name}} form with the
// record's JSON key names.
const (
	placeholderAbstract     = "{{abstract_table}}"
	placeholderExcessSaving = "{{excess_saving_statement_table}}"
	placeholderMaterial     = "{{material_consumption_statement_table}}"
	placeholderCement       = "{{cement_consumption_statement_table}}"
)

// DocRenderer fills the fixed document template from a bill record and its
// computed report. The template is a regular .docx: scalar placeholders are
// substituted in every paragraph and table cell, and the four named table
// placeholders are replaced with generated tables.
type DocRenderer struct {
	TemplatePath string
}

func NewDocRenderer(templatePath string) *DocRenderer {
	return &DocRenderer{TemplatePath: templatePath}
}

// Render writes the populated document to outputPath. A missing template is
// a reported error, never a panic past this boundary.
func (r *DocRenderer) Render(rec *BillRecord, rep *Report, outputPath string) error {
	if _, err := os.Stat(r.TemplatePath); err != nil {
		return fmt.Errorf("template file not found: %s", r.TemplatePath)
	}

	src, err := zip.OpenReader(r.TemplatePath)
	if err != nil {
		return fmt.Errorf("open template: %w", err)
	}
	defer src.Close()

	var buf bytes.Buffer
	dst := zip.NewWriter(&buf)

	for _, entry := range src.File {
		rc, err := entry.Open()
		if err != nil {
			return fmt.Errorf("read template entry %s: %w", entry.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("read template entry %s: %w", entry.Name, err)
		}

		if entry.Name == "word/document.xml" {
			content = []byte(r.fillDocument(string(content), rec, rep))
		}

		w, err := dst.CreateHeader(&zip.FileHeader{Name: entry.Name, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("write document entry %s: %w", entry.Name, err)
		}
		if _, err := w.Write(content); err != nil {
			return fmt.Errorf("write document entry %s: %w", entry.Name, err)
		}
	}

	if err := dst.Close(); err != nil {
		return fmt.Errorf("finish document archive: %w", err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// fillDocument performs scalar substitution across the whole body (plain
// paragraphs and table cells alike), then swaps each table placeholder's
// paragraph for its generated content.
func (r *DocRenderer) fillDocument(doc string, rec *BillRecord, rep *Report) string {
	for key, val := range scalarFields(rec) {
		doc = strings.ReplaceAll(doc, "{{"+key+"}}", xmlEscape(val))
	}

	doc = replaceParagraph(doc, placeholderAbstract, abstractSection(rec, rep))
	doc = replaceParagraph(doc, placeholderExcessSaving, excessSavingSection(rec, rep))
	doc = replaceParagraph(doc, placeholderMaterial, materialSection(rec, rep))
	doc = replaceParagraph(doc, placeholderCement, cementSection(rec, rep))
	return doc
}

// scalarFields lists every header field available for {{...}} substitution.
func scalarFields(rec *BillRecord) map[string]string {
	return map[string]string{
		"name":                      rec.Name,
		"name_work":                 rec.NameWork,
		"division":                  rec.Division,
		"constituency":              rec.Constituency,
		"fund_head":                 rec.FundHead,
		"contractor":                rec.Contractor,
		"deputy_engineer":           rec.DeputyEngineer,
		"date":                      rec.Date,
		"start_date":                rec.StartDate,
		"end_date":                  rec.EndDate,
		"agreement_no":              rec.AgreementNo,
		"work_order_no":             rec.WorkOrderNo,
		"acceptance_no":             rec.AcceptanceNo,
		"mb_no":                     rec.MBNo,
		"letter_no":                 rec.LetterNo,
		"vide_letter_no":            rec.VideLetterNo,
		"year":                      rec.Year,
		"est_cost":                  rec.EstCost,
		"amt_rupes":                 rec.AmtRupees,
		"percentage_quoted":         rec.PercentageQuoted,
		"send_to":                   rec.SendTo,
		"subject":                   rec.Subject,
		"message":                   rec.Message,
		"total_amount":              rec.TotalAmount,
		"signatory_jr_engineer":     rec.SignatoryJrEngineer,
		"signatory_deputy_engineer": rec.SignatoryDeputyEngineer,
		"signatory_exec_engineer":   rec.SignatoryExecEngineer,
	}
}

// replaceParagraph swaps the whole <w:p> element containing the placeholder
// for the given markup. If the placeholder does not occur the document is
// returned unchanged.
func replaceParagraph(doc, placeholder, replacement string) string {
	idx := strings.Index(doc, placeholder)
	if idx < 0 {
		return doc
	}
	start := strings.LastIndex(doc[:idx], "<w:p>")
	startAttr := strings.LastIndex(doc[:idx], "<w:p ")
	if startAttr > start {
		start = startAttr
	}
	if start < 0 {
		return strings.Replace(doc, placeholder, "", 1)
	}
	end := strings.Index(doc[idx:], "</w:p>")
	if end < 0 {
		return strings.Replace(doc, placeholder, "", 1)
	}
	end = idx + end + len("</w:p>")
	return doc[:start] + replacement + doc[end:]
}

func xmlEscape(s string) string {
	var b bytes.Buffer
	// Error is impossible when writing to a bytes.Buffer.
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// ── WordprocessingML builders ───────────────────────────────────────────

type docCell struct {
	text       string
	bold       bool
	center     bool
	right      bool
	span       int
	vMergeFrom bool
	vMergeCont bool
}

func paragraphXML(text string, bold, underline, center bool) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	if center {
		b.WriteString(`<w:pPr><w:jc w:val="center"/></w:pPr>`)
	}
	if text != "" {
		b.WriteString("<w:r><w:rPr>")
		b.WriteString(`<w:rFonts w:ascii="Times New Roman" w:hAnsi="Times New Roman"/>`)
		if bold {
			b.WriteString("<w:b/>")
		}
		if underline {
			b.WriteString(`<w:u w:val="single"/>`)
		}
		b.WriteString(`</w:rPr><w:t xml:space="preserve">`)
		b.WriteString(xmlEscape(text))
		b.WriteString("</w:t></w:r>")
	}
	b.WriteString("</w:p>")
	return b.String()
}

// labeledLineXML renders the "Label\t:\tvalue" heading lines that precede
// each statement table.
func labeledLineXML(label, value string) string {
	var b strings.Builder
	b.WriteString("<w:p><w:r><w:rPr><w:b/></w:rPr>")
	b.WriteString(`<w:t xml:space="preserve">` + xmlEscape(label) + "\t:\t</w:t></w:r>")
	b.WriteString(`<w:r><w:t xml:space="preserve">` + xmlEscape(value) + "</w:t></w:r></w:p>")
	return b.String()
}

// landscapeBreakXML ends the current section and starts a landscape A4 one,
// used ahead of the wide statement tables.
func landscapeBreakXML() string {
	return `<w:p><w:pPr><w:sectPr>` +
		`<w:pgSz w:w="16838" w:h="11906" w:orient="landscape"/>` +
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440"/>` +
		`</w:sectPr></w:pPr></w:p>`
}

func cellXML(c docCell) string {
	var b strings.Builder
	b.WriteString("<w:tc><w:tcPr>")
	if c.span > 1 {
		fmt.Fprintf(&b, `<w:gridSpan w:val="%d"/>`, c.span)
	}
	if c.vMergeFrom {
		b.WriteString(`<w:vMerge w:val="restart"/>`)
	} else if c.vMergeCont {
		b.WriteString("<w:vMerge/>")
	}
	b.WriteString("</w:tcPr><w:p>")
	if c.center {
		b.WriteString(`<w:pPr><w:jc w:val="center"/></w:pPr>`)
	} else if c.right {
		b.WriteString(`<w:pPr><w:jc w:val="right"/></w:pPr>`)
	}
	if c.text != "" {
		b.WriteString("<w:r>")
		if c.bold {
			b.WriteString("<w:rPr><w:b/></w:rPr>")
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		b.WriteString(xmlEscape(c.text))
		b.WriteString("</w:t></w:r>")
	}
	b.WriteString("</w:p></w:tc>")
	return b.String()
}

func rowXML(cells ...docCell) string {
	var b strings.Builder
	b.WriteString("<w:tr>")
	for _, c := range cells {
		b.WriteString(cellXML(c))
	}
	b.WriteString("</w:tr>")
	return b.String()
}

// tableXML wraps rows in a centered table with single borders all round and
// the statement tables' cell margins.
func tableXML(rows ...string) string {
	var b strings.Builder
	b.WriteString("<w:tbl><w:tblPr>")
	b.WriteString(`<w:jc w:val="center"/>`)
	b.WriteString("<w:tblBorders>")
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(&b, `<w:%s w:val="single" w:sz="4" w:color="auto"/>`, side)
	}
	b.WriteString("</w:tblBorders>")
	b.WriteString(`<w:tblCellMar><w:top w:w="40" w:type="dxa"/><w:left w:w="60" w:type="dxa"/><w:bottom w:w="0" w:type="dxa"/><w:right w:w="60" w:type="dxa"/></w:tblCellMar>`)
	b.WriteString("</w:tblPr>")
	for _, r := range rows {
		b.WriteString(r)
	}
	b.WriteString("</w:tbl>")
	return b.String()
}

// borderlessTableXML is used for the signature blocks.
func borderlessTableXML(rows ...string) string {
	var b strings.Builder
	b.WriteString("<w:tbl><w:tblPr>")
	b.WriteString(`<w:jc w:val="center"/>`)
	b.WriteString("<w:tblBorders>")
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(&b, `<w:%s w:val="nil"/>`, side)
	}
	b.WriteString("</w:tblBorders></w:tblPr>")
	for _, r := range rows {
		b.WriteString(r)
	}
	b.WriteString("</w:tbl>")
	return b.String()
}

// signatureCellXML renders a centered signature block: a bold name followed
// by its designation lines.
func signatureCellXML(name string, lines ...string) string {
	var b strings.Builder
	b.WriteString(`<w:tc><w:tcPr></w:tcPr><w:p><w:pPr><w:jc w:val="center"/></w:pPr>`)
	b.WriteString(`<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">` + xmlEscape(name) + "</w:t></w:r>")
	for _, line := range lines {
		b.WriteString(`<w:r><w:br/><w:t xml:space="preserve">` + xmlEscape(line) + "</w:t></w:r>")
	}
	b.WriteString("</w:p></w:tc>")
	return b.String()
}

// ── Generated sections ──────────────────────────────────────────────────

func abstractSection(rec *BillRecord, rep *Report) string {
	if len(rep.Abstract) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(landscapeBreakXML())
	b.WriteString(paragraphXML("ABSTRACT", true, true, true))
	b.WriteString(paragraphXML("", false, false, false))

	headers := []string{"Item No", "Quantity", "Unit", "Description of Item", "Rate", "Words", "Amount Since Previous", "Amount upto Date"}
	rows := []string{headerRowXML(headers)}

	for _, row := range rep.Abstract {
		rows = append(rows, rowXML(
			docCell{text: row.SrNo},
			docCell{text: row.Quantity},
			docCell{text: row.Unit},
			docCell{text: row.Description},
			docCell{text: row.Rate},
			docCell{text: row.RateWords},
			docCell{text: row.Total},
			docCell{text: row.Total},
		))
	}

	footer := []struct {
		label string
		value float64
	}{
		{"TOTAL : Rs", rep.Summary.Total},
		{"Add INSURANCE 0.5 %", rep.Summary.Insurance},
		{"TOTAL BILL AMT (Rs.)", rep.Summary.GrandTotal},
	}
	for _, f := range footer {
		value := FormatINR(f.value)
		rows = append(rows, rowXML(
			docCell{span: 3},
			docCell{text: f.label, bold: true},
			docCell{span: 2},
			docCell{text: value, bold: true},
			docCell{text: value, bold: true},
		))
	}

	b.WriteString(tableXML(rows...))
	return b.String()
}

func excessSavingSection(rec *BillRecord, rep *Report) string {
	var b strings.Builder
	b.WriteString(landscapeBreakXML())
	b.WriteString(labeledLineXML("Name of Work", rec.NameWork))
	b.WriteString(labeledLineXML("Name of Agency", rec.Contractor))
	b.WriteString(paragraphXML("", false, false, false))
	b.WriteString(paragraphXML("EXCESS SAVING STATEMENT", true, true, true))
	b.WriteString(paragraphXML("", false, false, false))

	if len(rep.ExcessSaving) == 0 {
		return b.String()
	}

	headers := []string{"Item No.", "Tender Quantity", "Executed Quantity", "Unit", "Description of Item", "Excess", "Saving", "Remarks"}
	rows := []string{headerRowXML(headers)}
	for _, row := range rep.ExcessSaving {
		rows = append(rows, rowXML(
			docCell{text: row.SrNo},
			docCell{text: row.TenderQty},
			docCell{text: row.ExecutedQty},
			docCell{text: row.Unit},
			docCell{text: row.Description},
			docCell{text: row.Excess},
			docCell{text: row.Saving},
			docCell{text: row.Remarks},
		))
	}
	b.WriteString(tableXML(rows...))
	b.WriteString(paragraphXML("", false, false, false))

	deputy := rec.DeputyEngineer
	if deputy == "" {
		deputy = "DEPUTY ENGINEER"
	}
	executive := rec.SignatoryExecEngineer
	if executive == "" {
		executive = "EXECUTIVE ENGINEER"
	}
	b.WriteString(borderlessTableXML("<w:tr>" +
		signatureCellXML(deputy, "SLUMP IMP. (WEST) SUB DIV NO.", "M.S.I.BOARD, MHADA, MUMBAI-400051") +
		signatureCellXML(executive, "SLUMP IMP. (WEST)", "M.S.I.BOARD, MHADA, MUMBAI-400051") +
		"</w:tr>"))
	return b.String()
}

func materialSection(rec *BillRecord, rep *Report) string {
	var b strings.Builder
	b.WriteString(labeledLineXML("Name of Work", rec.NameWork))
	b.WriteString(paragraphXML("", false, false, false))
	b.WriteString(paragraphXML("MATERIAL CONSUMPTION STATEMENT", true, true, true))
	b.WriteString(paragraphXML("", false, false, false))

	if len(rep.Materials) == 0 {
		return b.String()
	}

	hdr1 := rowXML(
		docCell{text: "Item No", bold: true, center: true, vMergeFrom: true},
		docCell{text: "Short Description", bold: true, center: true, vMergeFrom: true},
		docCell{text: "Qty", bold: true, center: true, vMergeFrom: true},
		docCell{text: "Unit", bold: true, center: true, vMergeFrom: true},
		docCell{text: "Sand", bold: true, center: true, span: 2},
		docCell{text: "Rubble", bold: true, center: true, span: 2},
		docCell{text: "Brick", bold: true, center: true, span: 2},
		docCell{text: "Metal", bold: true, center: true, span: 2},
		docCell{text: "Cement", bold: true, center: true, span: 2},
	)
	hdr2Cells := []docCell{
		{vMergeCont: true}, {vMergeCont: true}, {vMergeCont: true}, {vMergeCont: true},
	}
	for _, unit := range []string{"M3", "M3", "Nos.", "M3", "Bags"} {
		hdr2Cells = append(hdr2Cells,
			docCell{text: "Ratio", bold: true, center: true},
			docCell{text: "Total Qty (" + unit + ")", bold: true, center: true},
		)
	}
	rows := []string{hdr1, rowXML(hdr2Cells...)}

	for _, row := range rep.Materials {
		rows = append(rows, rowXML(
			docCell{text: row.ItemNo},
			docCell{text: row.ShortDesc},
			docCell{text: Format2(row.Qty)},
			docCell{text: row.Unit},
			docCell{text: Format3(row.Ratios.Sand)},
			docCell{text: Format2(row.Totals.Sand)},
			docCell{text: Format3(row.Ratios.Rubble)},
			docCell{text: Format2(row.Totals.Rubble)},
			docCell{text: Format3(row.Ratios.Brick)},
			docCell{text: Format2(row.Totals.Brick)},
			docCell{text: Format3(row.Ratios.Metal)},
			docCell{text: Format2(row.Totals.Metal)},
			docCell{text: Format3(row.Ratios.Cement)},
			docCell{text: Format2(row.Totals.Cement)},
		))
	}

	totals := rep.MaterialTotals
	rows = append(rows, rowXML(
		docCell{},
		docCell{text: "Total :", bold: true},
		docCell{}, docCell{},
		docCell{}, docCell{text: Format2(totals.Sand), bold: true},
		docCell{}, docCell{text: Format2(totals.Rubble), bold: true},
		docCell{}, docCell{text: Format2(totals.Brick), bold: true},
		docCell{}, docCell{text: Format2(totals.Metal), bold: true},
		docCell{}, docCell{text: Format2(totals.Cement), bold: true},
	))

	b.WriteString(tableXML(rows...))
	return b.String()
}

func cementSection(rec *BillRecord, rep *Report) string {
	var b strings.Builder
	b.WriteString(labeledLineXML("Name of Work", rec.NameWork))
	b.WriteString(labeledLineXML("Name of Agency", rec.Contractor))
	b.WriteString(paragraphXML("", false, false, false))
	b.WriteString(paragraphXML("CEMENT CONSUMPTION STATEMENT", true, true, true))
	b.WriteString(paragraphXML("", false, false, false))

	if len(rep.Cement) == 0 {
		return b.String()
	}

	headers := []string{"Sr. No", "Tender Description", "Executed Quantity", "Rate of cement Consumption", "Unit", "Theoretical Consumption in Bag"}
	rows := []string{headerRowXML(headers)}
	for _, row := range rep.Cement {
		rows = append(rows, rowXML(
			docCell{text: row.SrNo},
			docCell{text: row.ShortDesc},
			docCell{text: Format2(row.ExecutedQty)},
			docCell{text: Format3(row.CementRate)},
			docCell{text: row.Unit},
			docCell{text: Format2(row.Consumption)},
		))
	}
	rows = append(rows,
		rowXML(
			docCell{text: "Total =", right: true, span: 5},
			docCell{text: Format2(rep.CementTotal)},
		),
		rowXML(
			docCell{text: "Say =", right: true, span: 5},
			docCell{text: fmt.Sprintf("%d", rep.CementSay)},
		),
	)
	b.WriteString(tableXML(rows...))
	b.WriteString(paragraphXML("", false, false, false))
	b.WriteString(paragraphXML("", false, false, false))

	executive := rec.SignatoryExecEngineer
	if executive == "" {
		executive = "[Executive Engineer Name]"
	}
	junior := rec.SignatoryJrEngineer
	if junior == "" {
		junior = "[Jr. Engineer Name]"
	}
	deputy := rec.SignatoryDeputyEngineer
	if deputy == "" {
		deputy = "[Deputy Engineer Name]"
	}
	b.WriteString(borderlessTableXML("<w:tr>" +
		signatureCellXML(executive, "SECT ENGINEER/ D.B.", "EXECUTIVE ENGINEER WEST", "M.S.I.BOARD, MHADA, MUMBAI-51") +
		signatureCellXML(junior, "JR./ SECT./ ASST. ENGINEER", "SLUMP IMP. (WEST) SUB DIV NO", "M.S.I.BOARD, MHADA, MUMBAI-51") +
		signatureCellXML(deputy, "DEPUTY ENGINEER", "SLUMP IMP. (WEST) SUB DIV NO", "M.S.I.BOARD, MHADA, MUMBAI-51") +
		"</w:tr>"))
	return b.String()
}

func headerRowXML(headers []string) string {
	cells := make([]docCell, len(headers))
	for i, h := range headers {
		cells[i] = docCell{text: h, bold: true, center: true}
	}
	return rowXML(cells...)
}
