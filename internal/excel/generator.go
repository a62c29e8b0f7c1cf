package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/freightops-trips/internal/model"
	"github.com/nurpe/freightops-trips/internal/reconcile"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a trip's fiscal picture: one summary sheet plus one sheet
// per cargo leg with that leg's waybill groups and unlinked invoices.
func (g *Generator) Generate(report reconcile.TripFiscalReport) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	usedNames := map[string]struct{}{summarySheet: {}}
	for i, leg := range report.Legs {
		sheetName := buildSheetName(fmt.Sprintf("Leg %d - %s", i+1, leg.Leg.Destination), usedNames)
		usedNames[sheetName] = struct{}{}

		file.NewSheet(sheetName)
		if err := g.writeLeg(file, sheetName, leg); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report reconcile.TripFiscalReport) error {
	trip := report.Trip

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Trip")
	set("B1", trip.ID.String())
	set("A2", "Driver")
	set("B2", trip.Driver)
	set("A3", "Vehicle plate")
	set("B3", trip.Plate)
	set("A4", "Status")
	set("B4", string(trip.Status))
	set("A5", "Start")
	set("B5", formatDateTime(trip.StartAt))
	set("A6", "Assigned weight, kg")
	set("B6", trip.AssignedWeightKg())
	set("A7", "Assigned volume, m3")
	set("B7", trip.AssignedVolumeM3())
	if trip.Manifest != nil {
		set("A8", "Manifest")
		set("B8", fmt.Sprintf("%s (%s)", trip.Manifest.Number, trip.Manifest.Status))
	}

	tableRow := 10
	set(fmt.Sprintf("A%d", tableRow), "Leg")
	set(fmt.Sprintf("B%d", tableRow), "Destination")
	set(fmt.Sprintf("C%d", tableRow), "Waybill groups")
	set(fmt.Sprintf("D%d", tableRow), "Linked invoices")
	set(fmt.Sprintf("E%d", tableRow), "Unlinked invoices")

	for i, leg := range report.Legs {
		row := tableRow + 1 + i
		groups, linked, unlinked := 0, 0, 0
		for _, delivery := range leg.Deliveries {
			groups += delivery.Hierarchy.Counts.Groups
			linked += delivery.Hierarchy.Counts.LinkedInvoices
			unlinked += delivery.Hierarchy.Counts.UnlinkedInvoices
		}
		set(fmt.Sprintf("A%d", row), i+1)
		set(fmt.Sprintf("B%d", row), leg.Leg.Destination)
		set(fmt.Sprintf("C%d", row), groups)
		set(fmt.Sprintf("D%d", row), linked)
		set(fmt.Sprintf("E%d", row), unlinked)
	}

	_ = file.SetColWidth(sheet, "A", "A", 24)
	_ = file.SetColWidth(sheet, "B", "B", 40)
	_ = file.SetColWidth(sheet, "C", "E", 18)
	return nil
}

func (g *Generator) writeLeg(file *excelize.File, sheet string, leg reconcile.LegReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Origin")
	set("B1", leg.Leg.Origin)
	set("A2", "Destination")
	set("B2", leg.Leg.Destination)

	row := 4
	for _, delivery := range leg.Deliveries {
		set(fmt.Sprintf("A%d", row), "Delivery")
		set(fmt.Sprintf("B%d", row), delivery.Delivery.Recipient)
		set(fmt.Sprintf("C%d", row), delivery.Delivery.Address)
		set(fmt.Sprintf("D%d", row), string(delivery.Delivery.Status))
		row += 2

		headers := []string{"Waybill", "Invoice", "Access key", "Value", "Weight, kg", "Missing keys"}
		for i, header := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			set(cell, header)
		}
		row++

		for _, group := range delivery.Hierarchy.Groups {
			if len(group.Invoices) == 0 {
				set(fmt.Sprintf("A%d", row), group.DisplayNumber)
				set(fmt.Sprintf("F%d", row), strings.Join(group.MissingReferencedKeys, ", "))
				row++
				continue
			}
			for i, invoice := range group.Invoices {
				set(fmt.Sprintf("A%d", row), group.DisplayNumber)
				set(fmt.Sprintf("B%d", row), model.NormalizeNumber(invoice.Number))
				set(fmt.Sprintf("C%d", row), invoice.AccessKey)
				set(fmt.Sprintf("D%d", row), invoice.Value)
				set(fmt.Sprintf("E%d", row), invoice.WeightKg)
				if i == 0 {
					set(fmt.Sprintf("F%d", row), strings.Join(group.MissingReferencedKeys, ", "))
				}
				row++
			}
		}
		for _, invoice := range delivery.Hierarchy.UnlinkedInvoices {
			set(fmt.Sprintf("A%d", row), "(unlinked)")
			set(fmt.Sprintf("B%d", row), model.NormalizeNumber(invoice.Number))
			set(fmt.Sprintf("C%d", row), invoice.AccessKey)
			set(fmt.Sprintf("D%d", row), invoice.Value)
			set(fmt.Sprintf("E%d", row), invoice.WeightKg)
			row++
		}
		row += 2
	}

	_ = file.SetColWidth(sheet, "A", "B", 18)
	_ = file.SetColWidth(sheet, "C", "C", 48)
	_ = file.SetColWidth(sheet, "D", "E", 14)
	_ = file.SetColWidth(sheet, "F", "F", 48)
	return nil
}

func buildSheetName(base string, used map[string]struct{}) string {
	base = sanitizeSheetName(base)
	if len(base) > 31 {
		base = base[:31]
	}

	candidate := base
	counter := 2
	for {
		if _, exists := used[candidate]; !exists {
			return candidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		trimmed := base
		if len(trimmed)+len(suffix) > 31 {
			trimmed = trimmed[:31-len(suffix)]
		}
		candidate = trimmed + suffix
		counter++
	}
}

func sanitizeSheetName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Sheet"
	}

	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = replacer.Replace(value)
	value = strings.TrimSpace(value)
	if value == "" {
		return "Sheet"
	}
	return value
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
