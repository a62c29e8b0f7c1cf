package reconcile

import "github.com/nurpe/freightops-trips/internal/model"

// TripFiscalReport is the full fiscal picture of one trip: every cargo leg,
// every delivery, and the recomputed waybill hierarchy of each delivery's
// papers. Export generators render it to Excel or PDF.
type TripFiscalReport struct {
	Trip model.Trip
	Legs []LegReport
}

type LegReport struct {
	Leg        model.Leg
	Deliveries []DeliveryReport
}

type DeliveryReport struct {
	Delivery  model.Delivery
	Hierarchy Hierarchy
}

// BuildTripReport recomputes the grouping for every delivery on the trip.
func BuildTripReport(trip model.Trip) TripFiscalReport {
	report := TripFiscalReport{Trip: trip}
	for _, leg := range trip.Legs {
		if !leg.IsCargo() {
			continue
		}
		legReport := LegReport{Leg: leg}
		for _, delivery := range leg.Cargo.Deliveries {
			legReport.Deliveries = append(legReport.Deliveries, DeliveryReport{
				Delivery:  delivery,
				Hierarchy: BuildWaybillHierarchy(delivery.Documents),
			})
		}
		report.Legs = append(report.Legs, legReport)
	}
	return report
}
