package services

import "math"

// AbstractRow is one line of the cost-summary (abstract) table.
type AbstractRow struct {
	SrNo        string
	Quantity    string
	Unit        string
	Description string
	Rate        string
	RateWords   string
	Total       string
}

// AbstractSummary carries the abstract footer values. Total is the sum of
// the item totals, insurance is a flat 0.5% surcharge on it.
type AbstractSummary struct {
	Total      float64
	Insurance  float64
	GrandTotal float64
}

// MaterialRow is one classified item of the material consumption statement.
// Totals are Qty × the per-unit ratios.
type MaterialRow struct {
	ItemNo    string
	ShortDesc string
	Qty       float64
	Unit      string
	Ratios    MaterialRatios
	Totals    MaterialRatios
}

// CementRow is one line of the cement consumption statement, driven by the
// executed quantity rather than the tendered one.
type CementRow struct {
	SrNo        string
	ShortDesc   string
	ExecutedQty float64
	CementRate  float64
	Unit        string
	Consumption float64
}

// ExcessSavingRow is one line of the excess/saving statement.
type ExcessSavingRow struct {
	SrNo        string
	TenderQty   string
	ExecutedQty string
	Unit        string
	Description string
	Excess      string
	Saving      string
	Remarks     string
}

// Report holds every aggregation the renderers consume. All renderers read
// from one Report built per job, which is what keeps the document, HTML and
// PDF outputs numerically identical.
type Report struct {
	Abstract []AbstractRow
	Summary  AbstractSummary

	Materials      []MaterialRow
	MaterialTotals MaterialRatios

	Cement      []CementRow
	CementTotal float64
	CementSay   int

	ExcessSaving []ExcessSavingRow
}

// BuildReport derives all four aggregations fresh from the record's current
// item list. Nothing is cached between invocations.
func BuildReport(rec *BillRecord) *Report {
	rep := &Report{}

	for _, item := range rec.Items {
		rep.Abstract = append(rep.Abstract, AbstractRow{
			SrNo:        item.SrNo,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			Description: item.Description,
			Rate:        item.UnitRate,
			RateWords:   AmountInWords(item.UnitRate),
			Total:       item.Total,
		})
	}

	total := ParseAmount(rec.TotalAmount)
	rep.Summary = AbstractSummary{
		Total:      total,
		Insurance:  total * 0.005,
		GrandTotal: total + total*0.005,
	}

	buildMaterialRows(rec, rep)
	buildCementRows(rec, rep)
	buildExcessSavingRows(rec, rep)

	return rep
}

func buildMaterialRows(rec *BillRecord, rep *Report) {
	for _, item := range rec.Items {
		shortDesc, ratios, ok := ClassifyMaterial(item.Description)
		if !ok {
			continue // unclassified items contribute nothing
		}
		qty, parsed := ParseQty(item.Quantity)
		if !parsed {
			qty = 0
		}
		row := MaterialRow{
			ItemNo:    item.SrNo,
			ShortDesc: shortDesc,
			Qty:       qty,
			Unit:      item.Unit,
			Ratios:    ratios,
			Totals: MaterialRatios{
				Sand:   qty * ratios.Sand,
				Rubble: qty * ratios.Rubble,
				Brick:  qty * ratios.Brick,
				Metal:  qty * ratios.Metal,
				Cement: qty * ratios.Cement,
			},
		}
		rep.MaterialTotals.Sand += row.Totals.Sand
		rep.MaterialTotals.Rubble += row.Totals.Rubble
		rep.MaterialTotals.Brick += row.Totals.Brick
		rep.MaterialTotals.Metal += row.Totals.Metal
		rep.MaterialTotals.Cement += row.Totals.Cement
		rep.Materials = append(rep.Materials, row)
	}
}

func buildCementRows(rec *BillRecord, rep *Report) {
	for _, item := range rec.Items {
		shortDesc, ratios, ok := ClassifyMaterial(item.Description)
		if !ok || ratios.Cement <= 0 {
			continue
		}
		executed, parsed := ParseQty(item.ExecutedQuantity)
		if !parsed {
			// An unparsable executed quantity excludes the item entirely;
			// it is not zero-filled.
			continue
		}
		consumption := executed * ratios.Cement
		rep.CementTotal += consumption
		rep.Cement = append(rep.Cement, CementRow{
			SrNo:        item.SrNo,
			ShortDesc:   shortDesc,
			ExecutedQty: executed,
			CementRate:  ratios.Cement,
			Unit:        item.Unit,
			Consumption: consumption,
		})
	}
	// Ties round away from zero: a total of 12.5 bags reads as Say 13.
	rep.CementSay = int(math.Round(rep.CementTotal))
}

func buildExcessSavingRows(rec *BillRecord, rep *Report) {
	for _, item := range rec.Items {
		executed := item.ExecutedQuantity
		if executed == "" {
			executed = item.Quantity
		}
		excess, saving := excessSaving(item.Quantity, executed)
		remarks := item.Remarks
		if remarks == "" {
			remarks = DefaultRemarks
		}
		rep.ExcessSaving = append(rep.ExcessSaving, ExcessSavingRow{
			SrNo:        item.SrNo,
			TenderQty:   item.Quantity,
			ExecutedQty: executed,
			Unit:        item.Unit,
			Description: item.Description,
			Excess:      excess,
			Saving:      saving,
			Remarks:     remarks,
		})
	}
}
