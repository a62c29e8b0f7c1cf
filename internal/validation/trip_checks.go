package validation

import (
	"fmt"

	"github.com/nurpe/freightops-trips/internal/model"
)

// ValidateDedicated enforces exclusivity both ways: a trip already carrying a
// dedicated load accepts nothing else, and a dedicated load refuses a trip
// that already carries anything.
func ValidateDedicated(trip *model.Trip, load *model.Load) Result {
	if trip.HasExclusiveLoad() {
		return Block("trip already carries a dedicated load and cannot take additional cargo")
	}
	if load.Exclusive && len(trip.Loads) > 0 {
		return Block("load is dedicated and cannot join a trip that already carries cargo")
	}
	return OK()
}

// ValidateTripStatus gates additions by trip lifecycle: a completed trip is a
// hard block, a delayed one proceeds only after confirmation.
func ValidateTripStatus(trip *model.Trip) Result {
	switch trip.Status {
	case model.TripStatusCompleted:
		return Block("cannot add cargo to a completed trip")
	case model.TripStatusDelayed:
		return Warn("trip is delayed; confirm before adding cargo")
	default:
		return OK()
	}
}

// ValidateReturnSequence warns when a return load is collected before the
// outbound leg is estimated to deliver. A human confirms or fixes the dates;
// this never blocks.
func ValidateReturnSequence(trip *model.Trip, load *model.Load) Result {
	if load.CollectionDate == nil || trip.EstimatedDeliveryAt == nil {
		return OK()
	}
	if load.CollectionDate.Before(*trip.EstimatedDeliveryAt) {
		return Warn(fmt.Sprintf(
			"return load is collected on %s, before the outbound estimated delivery on %s",
			load.CollectionDate.Format("2006-01-02"),
			trip.EstimatedDeliveryAt.Format("2006-01-02"),
		))
	}
	return OK()
}
