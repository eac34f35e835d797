package services

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// DefaultRemarks is the remark applied to an excess/saving row until the
// user edits it.
const DefaultRemarks = "As Per Site Condition"

// LineItem is one costed construction work entry. The catalog-sourced
// fields (chapter through unit rate) are frozen once the item is added;
// only the excess/saving overlay fields change afterwards. All values are
// kept as their display strings so a saved bill reloads byte-identical.
type LineItem struct {
	SrNo           string `json:"sr_no"`
	Chapter        string `json:"chapter"`
	SSRNo          string `json:"ssr_no"`
	ReferenceNo    string `json:"reference_no"`
	Description    string `json:"description"`
	AdditionalSpec string `json:"additional_spec"`
	Unit           string `json:"unit"`
	UnitRate       string `json:"unit_rate"`
	Quantity       string `json:"quantity"`
	Total          string `json:"total"`

	// Excess/saving overlay, keyed by SrNo in the UI table.
	ExecutedQuantity string `json:"executed_quantity,omitempty"`
	Excess           string `json:"excess,omitempty"`
	Saving           string `json:"saving,omitempty"`
	Remarks          string `json:"remarks_excess_saving,omitempty"`
}

// BillRecord is the canonical in-memory representation of one report:
// header fields plus the ordered line items. It is handed to the engine by
// value (snapshot) per job; the engine never mutates caller state.
type BillRecord struct {
	Name             string `json:"name"`
	NameWork         string `json:"name_work"`
	Division         string `json:"division"`
	Constituency     string `json:"constituency"`
	FundHead         string `json:"fund_head"`
	Contractor       string `json:"contractor"`
	DeputyEngineer   string `json:"deputy_engineer"`
	Date             string `json:"date"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	AgreementNo      string `json:"agreement_no"`
	WorkOrderNo      string `json:"work_order_no"`
	AcceptanceNo     string `json:"acceptance_no"`
	MBNo             string `json:"mb_no"`
	LetterNo         string `json:"letter_no"`
	VideLetterNo     string `json:"vide_letter_no"`
	Year             string `json:"year"`
	EstCost          string `json:"est_cost"`
	AmtRupees        string `json:"amt_rupes"`
	PercentageQuoted string `json:"percentage_quoted"`
	SendTo           string `json:"send_to"`
	Subject          string `json:"subject"`
	Message          string `json:"message"`

	Items       []LineItem `json:"items"`
	TotalAmount string     `json:"total_amount"`

	SignatoryJrEngineer     string `json:"signatory_jr_engineer"`
	SignatoryDeputyEngineer string `json:"signatory_deputy_engineer"`
	SignatoryExecEngineer   string `json:"signatory_exec_engineer"`
}

// DefaultBill returns the empty record a fresh session starts from, and the
// record a corrupt persisted snapshot self-heals to.
func DefaultBill() BillRecord {
	return BillRecord{
		Items:       []LineItem{},
		TotalAmount: FormatINR(0),
	}
}

// NewLineItem builds a line item from a catalog row and a user quantity.
// The quantity must be positive; the total is computed once here and frozen
// (later overlay edits never recompute it).
func NewLineItem(cat CatalogItem, quantity float64) (LineItem, error) {
	if quantity <= 0 {
		return LineItem{}, fmt.Errorf("quantity must be positive, got %v", quantity)
	}
	total := quantity * cat.CompletedRate
	return LineItem{
		Chapter:        cat.Chapter,
		SSRNo:          cat.SSRItemNo,
		ReferenceNo:    cat.ReferenceNo,
		Description:    cat.Description,
		AdditionalSpec: cat.AdditionalSpec,
		Unit:           cat.Unit,
		UnitRate:       FormatINR(cat.CompletedRate),
		Quantity:       strconv.FormatFloat(quantity, 'f', -1, 64),
		Total:          FormatINR(total),
	}, nil
}

// AddItem appends the item and renumbers the sequence.
func (b *BillRecord) AddItem(item LineItem) {
	b.Items = append(b.Items, item)
	b.Renumber()
}

// RemoveItem deletes the item at the given zero-based position and
// renumbers the remainder so sr_no stays a contiguous 1..N sequence.
func (b *BillRecord) RemoveItem(index int) error {
	if index < 0 || index >= len(b.Items) {
		return fmt.Errorf("item index %d out of range (have %d items)", index, len(b.Items))
	}
	b.Items = append(b.Items[:index], b.Items[index+1:]...)
	b.Renumber()
	return nil
}

// Renumber re-derives every sr_no from its position. Mandatory after any
// mutation of the item sequence; sr_no is never independently assigned.
func (b *BillRecord) Renumber() {
	for i := range b.Items {
		b.Items[i].SrNo = strconv.Itoa(i + 1)
	}
}

// ExcessSavingOverlay carries a user's executed-quantity edits for one item.
type ExcessSavingOverlay struct {
	ExecutedQuantity string `json:"executed_quantity"`
	Remarks          string `json:"remarks_excess_saving"`
}

// SyncExcessSaving merges overlay edits back into the items, keyed by sr_no,
// then recomputes the excess/saving columns. Items without an overlay entry
// keep executed quantity = tender quantity.
func (b *BillRecord) SyncExcessSaving(overlay map[string]ExcessSavingOverlay) {
	for i := range b.Items {
		item := &b.Items[i]
		if o, ok := overlay[item.SrNo]; ok {
			item.ExecutedQuantity = o.ExecutedQuantity
			if o.Remarks != "" {
				item.Remarks = o.Remarks
			}
		}
		if item.ExecutedQuantity == "" {
			item.ExecutedQuantity = item.Quantity
		}
		if item.Remarks == "" {
			item.Remarks = DefaultRemarks
		}
		item.Excess, item.Saving = excessSaving(item.Quantity, item.ExecutedQuantity)
	}
}

// excessSaving computes the per-item delta between tendered and executed
// quantities. Exactly one of the two results is non-"-" unless the
// quantities agree (or fail to parse), in which case both are "-".
func excessSaving(tenderQty, executedQty string) (excess, saving string) {
	tender, ok1 := ParseQty(tenderQty)
	executed, ok2 := ParseQty(executedQty)
	if !ok1 || !ok2 {
		return "-", "-"
	}
	diff := executed - tender
	switch {
	case diff > -1e-9 && diff < 1e-9:
		return "-", "-"
	case diff > 0:
		return Format2(diff), "-"
	default:
		return "-", Format2(-diff)
	}
}

// Gather finalizes the record for a save/preview/export request: sr_no and
// the excess/saving columns are re-derived and total_amount is recomputed
// from the materialized items. Stored totals are never trusted without this
// recomputation.
func (b *BillRecord) Gather() {
	b.Renumber()
	b.SyncExcessSaving(nil)
	var sum float64
	for _, item := range b.Items {
		sum += ParseAmount(item.Total)
	}
	b.TotalAmount = FormatINR(sum)
}

// MarshalBill serializes a record to its persisted JSON form.
func MarshalBill(b BillRecord) (string, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("marshal bill: %w", err)
	}
	return string(data), nil
}

// LoadBill hydrates a record from persisted JSON. Corrupt state is
// self-healing: the caller gets the default empty record plus the parse
// error so it can log it, rather than a propagated failure.
func LoadBill(raw string) (BillRecord, error) {
	if raw == "" {
		return DefaultBill(), nil
	}
	var b BillRecord
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return DefaultBill(), fmt.Errorf("corrupt bill data, reset to default: %w", err)
	}
	if b.Items == nil {
		b.Items = []LineItem{}
	}
	return b, nil
}
