// Package templates renders the bill preview pages as templ components.
// The components are runtime-constructed (templ.ComponentFunc) and consume
// flat view models; mapping from the engine's computed report happens in the
// services package.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// PreviewHeader carries the scalar header fields shown across the preview
// pages.
type PreviewHeader struct {
	Name             string
	NameWork         string
	Constituency     string
	FundHead         string
	Contractor       string
	DeputyEngineer   string
	Date             string
	StartDate        string
	EndDate          string
	AgreementNo      string
	WorkOrderNo      string
	AcceptanceNo     string
	MBNo             string
	LetterNo         string
	VideLetterNo     string
	Year             string
	EstCost          string
	AmtRupees        string
	PercentageQuoted string
	SendTo           string
	Subject          string
	Message          string
}

// AbstractRowView is one preview line of the abstract table.
type AbstractRowView struct {
	SrNo        string
	Quantity    string
	Unit        string
	Description string
	Rate        string
	Total       string
}

// AbstractView is the abstract table plus its footer values, preformatted.
type AbstractView struct {
	Rows       []AbstractRowView
	Total      string
	Insurance  string
	GrandTotal string
}

// MaterialCellView is one ratio/total pair of a material consumption row.
type MaterialCellView struct {
	Ratio string
	Total string
}

// MaterialRowView is one classified item of the material statement; Cells
// holds the five materials in sand/rubble/brick/metal/cement order.
type MaterialRowView struct {
	ItemNo    string
	ShortDesc string
	Qty       string
	Unit      string
	Cells     []MaterialCellView
}

// MaterialView is the material statement with its per-material column totals.
type MaterialView struct {
	Rows   []MaterialRowView
	Totals []string
}

// ExcessSavingRowView is one preview line of the excess/saving statement.
type ExcessSavingRowView struct {
	SrNo        string
	TenderQty   string
	ExecutedQty string
	Unit        string
	Description string
	Excess      string
	Saving      string
	Remarks     string
}

// PreviewData is everything the preview pages consume.
type PreviewData struct {
	Header       PreviewHeader
	Abstract     AbstractView
	Materials    MaterialView
	ExcessSaving []ExcessSavingRowView
}

const previewStyles = `
<style>
    body { font-family: Arial, sans-serif; font-size: 10pt; background-color: #f8f8f8; color: #333; }
    .page { background-color: white; padding: 40px; margin: 20px auto; max-width: 800px; box-shadow: 0 0 10px rgba(0,0,0,0.1); }
    h3 { text-align: center; font-weight: bold; text-decoration: underline; }
    h4 { text-align: center; font-weight: bold; }
    table { border-collapse: collapse; width: 100%; font-size: 9pt; margin-top: 15px; }
    th, td { border: 1px solid black; padding: 4px; text-align: left; vertical-align: top; }
    th { font-weight: bold; text-align: center; background-color: #e0e0e0; }
    .no-border, .no-border td { border: none; }
    .header-info { margin-bottom: 15px; }
    .header-info p { margin: 2px 0; }
    .signatory-block { display: inline-block; width: 30%; text-align: center; vertical-align: top; margin-top: 30px; }
    .letter-body { line-height: 1.6; }
    .letter-header { display: flex; justify-content: space-between; }
    .letter-header .right { text-align: left; }
</style>
`

func esc(s string) string { return templ.EscapeString(s) }

// Preview assembles the full preview document: two cover letters, the
// running-account-bill header, certificate and checklist pages, then the
// abstract, material consumption and excess/saving statements.
func Preview(data PreviewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<html><head>"+previewStyles+"</head><body>"); err != nil {
			return err
		}
		pages := []templ.Component{
			coverLetterPage(data.Header, "Office of the Deputy Engineer", "M.S.I.B. WEST Division\nMHADA, Mumbai."),
			coverLetterPage(data.Header, "Office of the Executive Engineer", "M.S.I. Board, Mumbai."),
			billHeaderPage(data.Header),
			certificatePage(data.Header),
			checklistPage(data.Header),
			abstractPage(data.Abstract),
			materialPage(data.Materials),
			excessSavingPage(data.ExcessSaving),
		}
		for _, page := range pages {
			if err := page.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

// Render renders the preview to a string; this is the payload of a
// fast-preview job.
func Render(data PreviewData) (string, error) {
	var b strings.Builder
	if err := Preview(data).Render(context.Background(), &b); err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	return b.String(), nil
}

func coverLetterPage(h PreviewHeader, office, recipientSuffix string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<div class='page'><div class='letter-body'>")
		b.WriteString("<div class='letter-header'><div class='left'><p>")
		fmt.Fprintf(&b, "<b>Fund Head:</b> %s<br><b>Name:</b> %s<br><b>Constituency:</b> %s",
			esc(h.FundHead), esc(h.Name), esc(h.Constituency))
		b.WriteString("</p></div><div class='right'><p>")
		fmt.Fprintf(&b, "%s<br>M.S.I.B. WEST Division<br>MHADA, Bandra (E),<br>Mumbai-400051.", esc(office))
		b.WriteString("</p></div></div>")
		fmt.Fprintf(&b, "<p><b>To,</b><br>%s<br>%s</p>", esc(h.SendTo), strings.ReplaceAll(esc(recipientSuffix), "\n", "<br>"))
		fmt.Fprintf(&b, "<p><b>Sub: Submission of %s</b></p>", esc(h.Subject))
		fmt.Fprintf(&b, "<p><b>Sir,</b><br>I am submitting herewith the %s of above work along with site statement &amp; M.B.No. %s for making payment to the contractor %s.</p>",
			esc(h.Message), esc(h.MBNo), esc(h.Contractor))
		fmt.Fprintf(&b, "<p><b>Agreement No:</b> %s</p>", esc(h.AgreementNo))
		b.WriteString("<p>Yours faithfully,</p>")
		deputy := h.DeputyEngineer
		if deputy == "" {
			deputy = "Deputy Engineer"
		}
		fmt.Fprintf(&b, "<p><br><b>(%s)</b><br>M.S.I.B. WEST Division<br>MHADA, Mumbai.</p>", esc(deputy))
		fmt.Fprintf(&b, "<p>D.A.: M.B.No. %s</p>", esc(h.MBNo))
		b.WriteString("</div></div>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func billHeaderPage(h PreviewHeader) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<div class='page'><h3>FORM 47</h3><h4>RUNNING ACCOUNT BILL</h4>")
		b.WriteString("<table class='no-border'><tr><td>Division: MSIB West Division</td><td></td></tr><tr><td>Sub-Division: Sub Division No.</td><td></td></tr></table>")
		b.WriteString("<table>")
		fmt.Fprintf(&b, "<tr><td colspan='2'>Name of Contractor: %s</td><td colspan='2'>Serial No. of this bill: %s</td></tr>", esc(h.Contractor), esc(h.Message))
		fmt.Fprintf(&b, "<tr><td colspan='2'>Name of Work: %s</td><td colspan='2'>No. and date of previous bill:</td></tr>", esc(h.NameWork))
		fmt.Fprintf(&b, "<tr><td colspan='2'>Reference to agreement: %s</td><td colspan='2'>Acceptance No: %s &nbsp;&nbsp; Date: %s</td></tr>", esc(h.AgreementNo), esc(h.AcceptanceNo), esc(h.Date))
		fmt.Fprintf(&b, "<tr><td colspan='2'>Work Order No: %s</td><td colspan='2'>Date of written order to commence work: %s</td></tr>", esc(h.WorkOrderNo), esc(h.Date))
		fmt.Fprintf(&b, "<tr><td colspan='2'>Date of completion stipulated in contract: %s</td><td colspan='2'>Date of actual completion of work:</td></tr>", esc(h.EndDate))
		b.WriteString("</table></div>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func certificatePage(h PreviewHeader) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<div class='page'><h3>Annexure – I</h3>")
		fmt.Fprintf(&b, "<p><b>Name of Work:</b> %s<br>", esc(h.NameWork))
		fmt.Fprintf(&b, "<b>Fund Head:</b> %s<br>", esc(h.FundHead))
		fmt.Fprintf(&b, "<b>Constituency:</b> %s</p>", esc(h.Constituency))
		fmt.Fprintf(&b, "<p><b>Name of Agency:</b> %s<br>", esc(h.Contractor))
		fmt.Fprintf(&b, "<b>Agreement No:</b> %s</p>", esc(h.AgreementNo))
		b.WriteString("<h4>CERTIFICATE</h4><ol style='list-style-position: inside; padding-left: 0;'>")
		b.WriteString("<li>Materials are used in subjected are as per specifications.</li>")
		b.WriteString("<li>Construction material has been tested and test reports are found satisfactory.</li>")
		b.WriteString("<li>The subjected site is not inspected by Vigilance and Quality Control Cell / A and hence the question of pending remarks does not arise.</li>")
		b.WriteString("<li>Nothing is outstanding against the contractor.</li>")
		b.WriteString("<li>It is to certify that the contractors have not put any sort of claim against the subjected work.</li></ol>")
		b.WriteString(signatoryRow())
		b.WriteString("</div>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func checklistPage(h PreviewHeader) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<div class='page'><h3>Check List to be Attached with Bills of Contractor</h3><table>")
		fmt.Fprintf(&b, "<tr><td>1</td><td>Name of Work</td><td>:</td><td>%s</td></tr>", esc(h.NameWork))
		fmt.Fprintf(&b, "<tr><td>2</td><td>Administrative Approval Accorded by the collector</td><td>:</td><td>Amount Rs. %s <br>Letter No. %s <br>Date: %s</td></tr>", esc(h.AmtRupees), esc(h.LetterNo), esc(h.Date))
		fmt.Fprintf(&b, "<tr><td>3</td><td>Technical Sanction accorded by Executive Engineer</td><td>:</td><td>Vide letter No: %s Date: %s<br>Amount Rs: %s<br>In Year: %s</td></tr>", esc(h.VideLetterNo), esc(h.Date), esc(h.AmtRupees), esc(h.Year))
		fmt.Fprintf(&b, "<tr><td>4</td><td>Estimated cost put to tender</td><td>:</td><td>%s</td></tr>", esc(h.EstCost))
		fmt.Fprintf(&b, "<tr><td>5</td><td>Name of Agency</td><td>:</td><td>%s</td></tr>", esc(h.Contractor))
		fmt.Fprintf(&b, "<tr><td>6</td><td>Percentage Quoted</td><td>:</td><td>%s</td></tr>", esc(h.PercentageQuoted))
		fmt.Fprintf(&b, "<tr><td>8</td><td>Agreement No</td><td>:</td><td>%s</td></tr>", esc(h.AgreementNo))
		fmt.Fprintf(&b, "<tr><td>9</td><td>Date of start of work</td><td>:</td><td>%s</td></tr>", esc(h.StartDate))
		fmt.Fprintf(&b, "<tr><td>10</td><td>Stipulated date of completion</td><td>:</td><td>%s</td></tr>", esc(h.EndDate))
		b.WriteString("</table></div>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func abstractPage(a AbstractView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<div class='page'><h3>ABSTRACT</h3>")
		if len(a.Rows) > 0 {
			b.WriteString("<table><tr><th>Item No</th><th>Quantity</th><th>Unit</th><th>Description of Item</th><th>Rate</th><th>Amount upto Date</th></tr>")
			for _, r := range a.Rows {
				fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
					esc(r.SrNo), esc(r.Quantity), esc(r.Unit), esc(r.Description), esc(r.Rate), esc(r.Total))
			}
			fmt.Fprintf(&b, "<tr><td colspan='4' style='text-align:right;'><b>TOTAL : Rs</b></td><td colspan='2'><b>%s</b></td></tr>", esc(a.Total))
			fmt.Fprintf(&b, "<tr><td colspan='4' style='text-align:right;'><b>Add INSURANCE 0.5 %%</b></td><td colspan='2'><b>%s</b></td></tr>", esc(a.Insurance))
			fmt.Fprintf(&b, "<tr><td colspan='4' style='text-align:right;'><b>TOTAL BILL AMT (Rs.)</b></td><td colspan='2'><b>%s</b></td></tr></table>", esc(a.GrandTotal))
		}
		b.WriteString(signatoryRow())
		b.WriteString("</div>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func materialPage(m MaterialView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<div class='page'><h3>MATERIAL CONSUMPTION STATEMENT</h3>")
		if len(m.Rows) > 0 {
			b.WriteString("<table>")
			b.WriteString("<tr><th rowspan='2'>Item No</th><th>Description</th><th rowspan='2'>Qty</th><th rowspan='2'>Unit</th>")
			b.WriteString("<th colspan='2'>Sand</th><th colspan='2'>Rubble</th><th colspan='2'>Brick</th><th colspan='2'>Metal</th><th colspan='2'>Cement</th></tr>")
			b.WriteString("<tr><th>Ratio</th><th>Total Qty (M3)</th><th>Ratio</th><th>Total Qty (M3)</th><th>Ratio</th><th>Total Qty (Nos.)</th><th>Ratio</th><th>Total Qty (M3)</th><th>Ratio</th><th>Total Qty (Bags)</th></tr>")
			for _, r := range m.Rows {
				fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td>",
					esc(r.ItemNo), esc(r.ShortDesc), esc(r.Qty), esc(r.Unit))
				for _, c := range r.Cells {
					fmt.Fprintf(&b, "<td>%s</td><td>%s</td>", esc(c.Ratio), esc(c.Total))
				}
				b.WriteString("</tr>")
			}
			b.WriteString("<tr><td colspan='2' style='text-align:right;'><b>Total:</b></td><td></td><td></td>")
			for _, total := range m.Totals {
				fmt.Fprintf(&b, "<td></td><td style='font-weight:bold;'>%s</td>", esc(total))
			}
			b.WriteString("</tr></table>")
		}
		b.WriteString("</div>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func excessSavingPage(rows []ExcessSavingRowView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<div class='page'><h3>EXCESS SAVING STATEMENT</h3>")
		if len(rows) > 0 {
			b.WriteString("<table><tr>")
			for _, h := range []string{"Item No.", "Tender Qty", "Executed Qty", "Unit", "Description", "Excess", "Saving", "Remarks"} {
				fmt.Fprintf(&b, "<th>%s</th>", h)
			}
			b.WriteString("</tr>")
			for _, r := range rows {
				fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
					esc(r.SrNo), esc(r.TenderQty), esc(r.ExecutedQty), esc(r.Unit), esc(r.Description), esc(r.Excess), esc(r.Saving), esc(r.Remarks))
			}
			b.WriteString("</table>")
		}
		b.WriteString("</div>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func signatoryRow() string {
	return `<div style='width: 100%; margin-top: 40px;'>` +
		`<div class='signatory-block'><b>J.E./S.E./Asst. Engineer</b><br>M.S.I.B. West Div</div>` +
		`<div class='signatory-block'><b>Dy. Engineer</b><br>M.S.I.B. West Div</div>` +
		`<div class='signatory-block'><b>Executive Engineer</b><br>M.S.I.B. West Div</div>` +
		`</div>`
}
