package model

import "strings"

type DocumentType string

const (
	DocumentTypeWaybill DocumentType = "WAYBILL"
	DocumentTypeInvoice DocumentType = "INVOICE"
)

// Document is one fiscal paper attached to a delivery: either a merchandise
// invoice or a carrier waybill. Waybills reference the invoices they cover
// through ReferencedKeys; invoices may additionally name their covering
// waybill number outright.
type Document struct {
	Type   DocumentType
	Number string

	// CoveringWaybill is the waybill number an invoice claims coverage
	// under. Empty for waybills and for invoices linked only by access key.
	CoveringWaybill string

	AccessKey      string
	ReferencedKeys []string

	// Subcontracted applies to waybills issued by a subcontracted carrier.
	Subcontracted bool

	// Status applies to waybill documents only and mirrors the fiscal
	// record's authorization state.
	Status FiscalStatus

	Value    float64
	WeightKg float64
}

var numberPrefixes = []string{"WB-", "CT-", "INV-", "NF-"}

// NormalizeNumber strips known document-type prefixes for display. Grouping
// never uses the normalized form; linkage fields are matched raw.
func NormalizeNumber(number string) string {
	trimmed := strings.TrimSpace(number)
	upper := strings.ToUpper(trimmed)
	for _, prefix := range numberPrefixes {
		if strings.HasPrefix(upper, prefix) {
			return trimmed[len(prefix):]
		}
	}
	return trimmed
}

// WellFormed reports whether the document carries enough identity to take
// part in reconciliation. Malformed documents are filtered, never errored.
func (d *Document) WellFormed() bool {
	if d.Type != DocumentTypeWaybill && d.Type != DocumentTypeInvoice {
		return false
	}
	return strings.TrimSpace(d.Number) != "" || strings.TrimSpace(d.AccessKey) != ""
}
