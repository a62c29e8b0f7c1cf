// Package lifecycle holds the valid status transitions for trips and loads
// and the guards that protect them. Applying the side effects of a
// transition is the controller's job; this package only rules on legality.
package lifecycle

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nurpe/freightops-trips/internal/fiscal"
	"github.com/nurpe/freightops-trips/internal/model"
	"github.com/nurpe/freightops-trips/internal/validation"
)

// tripTransitions lists the forward path Planned → PickingUp → InTransit →
// Completed. Delayed is a side-branch from the in-progress states; it is not
// terminal and resumes to the status recorded before the delay.
var tripTransitions = map[model.TripStatus][]model.TripStatus{
	model.TripStatusPlanned:   {model.TripStatusPickingUp},
	model.TripStatusPickingUp: {model.TripStatusInTransit, model.TripStatusDelayed},
	model.TripStatusInTransit: {model.TripStatusCompleted, model.TripStatusDelayed},
	model.TripStatusDelayed:   {model.TripStatusPickingUp, model.TripStatusInTransit},
	model.TripStatusCompleted: {},
}

var loadTransitions = map[model.LoadStatus][]model.LoadStatus{
	model.LoadStatusPending:   {model.LoadStatusScheduled},
	model.LoadStatusScheduled: {model.LoadStatusEmitted},
	model.LoadStatusEmitted:   {model.LoadStatusDelivered},
	model.LoadStatusDelivered: {},
}

// AllowedTripTransitions returns the statuses reachable from current.
func AllowedTripTransitions(current model.TripStatus) []model.TripStatus {
	return tripTransitions[current]
}

// ValidateLoadTransition checks the load status line Pending → Scheduled →
// Emitted → Delivered. Entry into each state additionally goes through the
// validator (Scheduled), the gatekeeper (Emitted), or trip completion
// (Delivered).
func ValidateLoadTransition(current, next model.LoadStatus) validation.Result {
	for _, allowed := range loadTransitions[current] {
		if next == allowed {
			return validation.OK()
		}
	}
	return validation.Block(fmt.Sprintf("load cannot move from %s to %s", current, next))
}

// TransitionInput carries everything the trip guards need: the world of
// trips for the vehicle-busy check and the proof token for completion.
type TransitionInput struct {
	AllTrips        []model.Trip
	ProofOfDelivery string
}

// ValidateTripTransition rules on a proposed trip status change.
//
// Guards: leaving Planned requires the vehicle free of other active trips
// and the trip fiscally ready; entering InTransit re-checks readiness;
// completion requires a proof-of-delivery token. A delayed trip may only
// resume to the status it was in before the delay.
func ValidateTripTransition(trip *model.Trip, next model.TripStatus, input TransitionInput) validation.Result {
	if !transitionListed(trip.Status, next) {
		return validation.Block(fmt.Sprintf("trip cannot move from %s to %s", trip.Status, next))
	}

	if trip.Status == model.TripStatusDelayed {
		if trip.StatusBeforeDelay == nil || next != *trip.StatusBeforeDelay {
			return validation.Block(fmt.Sprintf("delayed trip must resume to %s", resumeTarget(trip)))
		}
		return validation.OK()
	}

	switch next {
	case model.TripStatusPickingUp:
		if busy := vehicleBusyOn(trip, input.AllTrips); busy != nil {
			return validation.Block(fmt.Sprintf("vehicle %s is already in use on trip %s", trip.Plate, busy.ID))
		}
		if !fiscal.Ready(trip) {
			return validation.Block("every cargo leg needs an authorized waybill before pickup")
		}
	case model.TripStatusInTransit:
		if !fiscal.Ready(trip) {
			return validation.Block("every cargo leg needs an authorized waybill before transit")
		}
	case model.TripStatusCompleted:
		if input.ProofOfDelivery == "" {
			return validation.Block("completing a trip requires a proof-of-delivery token")
		}
	}
	return validation.OK()
}

func transitionListed(current, next model.TripStatus) bool {
	for _, allowed := range tripTransitions[current] {
		if next == allowed {
			return true
		}
	}
	return false
}

func resumeTarget(trip *model.Trip) model.TripStatus {
	if trip.StatusBeforeDelay != nil {
		return *trip.StatusBeforeDelay
	}
	return model.TripStatusPickingUp
}

// vehicleBusyOn finds another non-completed trip holding the same vehicle.
func vehicleBusyOn(trip *model.Trip, all []model.Trip) *model.Trip {
	for i := range all {
		other := &all[i]
		if other.ID == trip.ID || other.VehicleID != trip.VehicleID {
			continue
		}
		if other.VehicleID == uuid.Nil {
			continue
		}
		if other.Status != model.TripStatusCompleted {
			return other
		}
	}
	return nil
}
