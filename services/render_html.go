package services

import (
	"fmt"

	"billgen/templates"
)

// RenderPreview renders the full multi-page HTML preview for the record.
// The report must have been built from the same record snapshot.
func RenderPreview(rec *BillRecord, rep *Report) (string, error) {
	html, err := templates.Render(previewData(rec, rep))
	if err != nil {
		return "", fmt.Errorf("preview: %w", err)
	}
	return html, nil
}

func previewData(rec *BillRecord, rep *Report) templates.PreviewData {
	data := templates.PreviewData{
		Header: templates.PreviewHeader{
			Name:             rec.Name,
			NameWork:         rec.NameWork,
			Constituency:     rec.Constituency,
			FundHead:         rec.FundHead,
			Contractor:       rec.Contractor,
			DeputyEngineer:   rec.DeputyEngineer,
			Date:             rec.Date,
			StartDate:        rec.StartDate,
			EndDate:          rec.EndDate,
			AgreementNo:      rec.AgreementNo,
			WorkOrderNo:      rec.WorkOrderNo,
			AcceptanceNo:     rec.AcceptanceNo,
			MBNo:             rec.MBNo,
			LetterNo:         rec.LetterNo,
			VideLetterNo:     rec.VideLetterNo,
			Year:             rec.Year,
			EstCost:          rec.EstCost,
			AmtRupees:        rec.AmtRupees,
			PercentageQuoted: rec.PercentageQuoted,
			SendTo:           rec.SendTo,
			Subject:          rec.Subject,
			Message:          rec.Message,
		},
		Abstract: templates.AbstractView{
			Total:      FormatINR(rep.Summary.Total),
			Insurance:  FormatINR(rep.Summary.Insurance),
			GrandTotal: FormatINR(rep.Summary.GrandTotal),
		},
		Materials: templates.MaterialView{
			Totals: []string{
				Format2(rep.MaterialTotals.Sand),
				Format2(rep.MaterialTotals.Rubble),
				Format2(rep.MaterialTotals.Brick),
				Format2(rep.MaterialTotals.Metal),
				Format2(rep.MaterialTotals.Cement),
			},
		},
	}

	for _, r := range rep.Abstract {
		data.Abstract.Rows = append(data.Abstract.Rows, templates.AbstractRowView{
			SrNo:        r.SrNo,
			Quantity:    r.Quantity,
			Unit:        r.Unit,
			Description: r.Description,
			Rate:        r.Rate,
			Total:       r.Total,
		})
	}

	for _, r := range rep.Materials {
		data.Materials.Rows = append(data.Materials.Rows, templates.MaterialRowView{
			ItemNo:    r.ItemNo,
			ShortDesc: r.ShortDesc,
			Qty:       Format2(r.Qty),
			Unit:      r.Unit,
			// Ratios are 3dp, computed totals 2dp, same as the document.
			Cells: []templates.MaterialCellView{
				{Ratio: Format3(r.Ratios.Sand), Total: Format2(r.Totals.Sand)},
				{Ratio: Format3(r.Ratios.Rubble), Total: Format2(r.Totals.Rubble)},
				{Ratio: Format3(r.Ratios.Brick), Total: Format2(r.Totals.Brick)},
				{Ratio: Format3(r.Ratios.Metal), Total: Format2(r.Totals.Metal)},
				{Ratio: Format3(r.Ratios.Cement), Total: Format2(r.Totals.Cement)},
			},
		})
	}

	for _, r := range rep.ExcessSaving {
		data.ExcessSaving = append(data.ExcessSaving, templates.ExcessSavingRowView{
			SrNo:        r.SrNo,
			TenderQty:   r.TenderQty,
			ExecutedQty: r.ExecutedQty,
			Unit:        r.Unit,
			Description: r.Description,
			Excess:      r.Excess,
			Saving:      r.Saving,
			Remarks:     r.Remarks,
		})
	}

	return data
}
