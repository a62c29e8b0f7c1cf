package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/freightops-trips/internal/model"
	"github.com/nurpe/freightops-trips/internal/reconcile"
)

type Generator struct {
	fontName string
}

func NewGenerator() (*Generator, error) {
	return &Generator{fontName: "Helvetica"}, nil
}

// Generate renders the printable trip fiscal paper: header, per-leg waybill
// coverage tables and the manifest block when one is issued.
func (g *Generator) Generate(report reconcile.TripFiscalReport) ([]byte, error) {
	trip := report.Trip

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Trip Fiscal Summary", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Trip %s - status %s", trip.ID, trip.Status), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Driver: %s / Vehicle: %s", safeValue(trip.Driver), safeValue(trip.Plate)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Start: %s", formatDateTime(trip.StartAt)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if trip.Manifest != nil {
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, "Manifest", "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 10)
		pdf.MultiCell(0, 5, fmt.Sprintf("%s (%s), access key %s, covering %s",
			trip.Manifest.Number,
			trip.Manifest.Status,
			trip.Manifest.AccessKey,
			strings.Join(trip.Manifest.WaybillNumbers, ", "),
		), "", "L", false)
		pdf.Ln(2)
	}

	for i, leg := range report.Legs {
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, fmt.Sprintf("Leg %d: %s -> %s", i+1, leg.Leg.Origin, leg.Leg.Destination), "", 1, "L", false, 0, "")

		for _, delivery := range leg.Deliveries {
			pdf.SetFont(g.fontName, "", 10)
			pdf.CellFormat(0, 6, fmt.Sprintf("Delivery to %s, %s (%s)",
				safeValue(delivery.Delivery.Recipient),
				safeValue(delivery.Delivery.Address),
				delivery.Delivery.Status,
			), "", 1, "L", false, 0, "")

			headers := []string{"Waybill", "Invoice", "Value", "Weight, kg"}
			colWidths := []float64{40, 50, 45, 45}
			drawTableRow(pdf, g.fontName, headers, colWidths, true)

			for _, group := range delivery.Hierarchy.Groups {
				if len(group.Invoices) == 0 {
					drawTableRow(pdf, g.fontName, []string{group.DisplayNumber, "-", "-", "-"}, colWidths, false)
				}
				for _, invoice := range group.Invoices {
					drawTableRow(pdf, g.fontName, []string{
						group.DisplayNumber,
						model.NormalizeNumber(invoice.Number),
						formatAmount(invoice.Value, 2),
						formatAmount(invoice.WeightKg, 0),
					}, colWidths, false)
				}
				if len(group.MissingReferencedKeys) > 0 {
					pdf.SetTextColor(200, 0, 0)
					pdf.MultiCell(0, 5, fmt.Sprintf("Waybill %s references %d invoice(s) absent from this delivery.",
						group.DisplayNumber, len(group.MissingReferencedKeys)), "", "L", false)
					pdf.SetTextColor(0, 0, 0)
				}
			}
			for _, invoice := range delivery.Hierarchy.UnlinkedInvoices {
				drawTableRow(pdf, g.fontName, []string{
					"(unlinked)",
					model.NormalizeNumber(invoice.Number),
					formatAmount(invoice.Value, 2),
					formatAmount(invoice.WeightKg, 0),
				}, colWidths, false)
			}
			pdf.Ln(2)
		}
		pdf.Ln(2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatAmount(value float64, precision int) string {
	format := fmt.Sprintf("%%.%df", precision)
	return fmt.Sprintf(format, value)
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
