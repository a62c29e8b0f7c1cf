package controller

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/freightops-trips/internal/fiscal"
	"github.com/nurpe/freightops-trips/internal/lifecycle"
	"github.com/nurpe/freightops-trips/internal/model"
	"github.com/nurpe/freightops-trips/internal/validation"
)

// Outcome reports what a proposed mutation came to. Applied is false both
// for hard blocks and for warnings awaiting confirmation; the report says
// which.
type Outcome struct {
	Report  validation.Report `json:"report"`
	Applied bool              `json:"applied"`
}

// SingleOutcome is the one-rule counterpart of Outcome.
type SingleOutcome struct {
	Result  validation.Result `json:"result"`
	Applied bool              `json:"applied"`
}

// AttachInput proposes attaching a load to a trip. Documents are the
// invoices travelling with the load; they become the new leg's delivery
// papers. One attach builds one cargo leg for one destination, which is
// where the one-leg-one-waybill rule is enforced.
type AttachInput struct {
	TripID    uuid.UUID
	LoadID    uuid.UUID
	Mode      validation.AssignmentMode
	Confirmed bool
	Recipient string
	Address   string
	Documents []model.Document
}

// AttachLoadToTrip validates the proposal and, when accepted, schedules the
// load and appends a cargo leg. Warnings hold the mutation back until the
// caller confirms.
func (s *Store) AttachLoadToTrip(in AttachInput) (Outcome, error) {
	next := s.Snapshot().clone()

	trip := findTrip(next, in.TripID)
	if trip == nil {
		return Outcome{}, ErrTripNotFound
	}
	load := findLoad(next, in.LoadID)
	if load == nil {
		return Outcome{}, ErrLoadNotFound
	}
	vehicle := findVehicle(next, trip.VehicleID)
	if vehicle == nil {
		return Outcome{}, ErrVehicleNotFound
	}

	report := validation.ValidateAddLoadToTrip(trip, load, vehicle, in.Mode)
	if res := lifecycle.ValidateLoadTransition(load.Status, model.LoadStatusScheduled); !res.Valid {
		report.Errors = append(report.Errors, res.Error)
		report.Valid = false
	}
	if !report.Valid {
		return Outcome{Report: report}, nil
	}
	if len(report.Warnings) > 0 && !in.Confirmed {
		return Outcome{Report: report}, nil
	}

	destination := in.Address
	if destination == "" && load.Destination != nil {
		destination = *load.Destination
	}
	delivery := model.Delivery{
		ID:        uuid.New(),
		Recipient: in.Recipient,
		Address:   destination,
		Status:    model.DeliveryStatusPending,
		Documents: in.Documents,
	}

	load.Status = model.LoadStatusScheduled
	load.TripID = &trip.ID
	trip.Legs = append(trip.Legs, model.NewLoadLeg(load.Origin, destination, load.ID, []model.Delivery{delivery}))
	trip.Loads = append(trip.Loads, cloneLoad(load))

	s.publish(next)
	s.log.Info().
		Str("trip_id", trip.ID.String()).
		Str("load_id", load.ID.String()).
		Str("mode", string(in.Mode)).
		Msg("load attached to trip")
	return Outcome{Report: report, Applied: true}, nil
}

// AddEmptyLeg appends a repositioning leg; empty legs carry no cargo and
// skip the load validators entirely.
func (s *Store) AddEmptyLeg(tripID uuid.UUID, origin, destination string) error {
	next := s.Snapshot().clone()
	trip := findTrip(next, tripID)
	if trip == nil {
		return ErrTripNotFound
	}
	trip.Legs = append(trip.Legs, model.NewEmptyLeg(origin, destination))
	s.publish(next)
	return nil
}

// EmitWaybill runs the emission gatekeeper and, on success, issues the
// waybill through the single factory and records it in the load, the trip's
// embedded copy, and the covering leg's delivery documents.
func (s *Store) EmitWaybill(loadID uuid.UUID) (SingleOutcome, error) {
	next := s.Snapshot().clone()
	load := findLoad(next, loadID)
	if load == nil {
		return SingleOutcome{}, ErrLoadNotFound
	}
	var trip *model.Trip
	if load.TripID != nil {
		trip = findTrip(next, *load.TripID)
	}

	res := fiscal.ValidateEmission(load, trip)
	if !res.Valid {
		return SingleOutcome{Result: res}, nil
	}

	wb := s.issuer.Issue(load)
	load.Waybill = &wb
	load.Status = model.LoadStatusEmitted

	if tripLoad := trip.FindLoad(load.ID); tripLoad != nil {
		tripLoad.Waybill = &wb
		tripLoad.Status = model.LoadStatusEmitted
	}
	attachWaybillDocument(trip, load, wb)

	s.publish(next)
	s.log.Info().
		Str("load_id", load.ID.String()).
		Str("waybill", wb.Number).
		Float64("freight_value", wb.FreightValue).
		Msg("waybill authorized")
	return SingleOutcome{Result: res, Applied: true}, nil
}

// CancelWaybill moves the current waybill into history as a cancelled
// record and returns the load to Scheduled. Reissuing later creates a fresh
// record; nothing is mutated in place.
func (s *Store) CancelWaybill(loadID uuid.UUID) (SingleOutcome, error) {
	next := s.Snapshot().clone()
	load := findLoad(next, loadID)
	if load == nil {
		return SingleOutcome{}, ErrLoadNotFound
	}
	if load.Waybill == nil {
		return SingleOutcome{Result: validation.Block("load has no current waybill to cancel")}, nil
	}

	cancelled := s.issuer.Cancel(*load.Waybill)
	load.WaybillHistory = append(load.WaybillHistory, cancelled)
	load.Waybill = nil
	load.Status = model.LoadStatusScheduled

	if load.TripID != nil {
		if trip := findTrip(next, *load.TripID); trip != nil {
			if tripLoad := trip.FindLoad(load.ID); tripLoad != nil {
				tripLoad.WaybillHistory = append(tripLoad.WaybillHistory, cancelled)
				tripLoad.Waybill = nil
				tripLoad.Status = model.LoadStatusScheduled
			}
			markWaybillDocumentCancelled(trip, load.ID, cancelled.Number)
		}
	}

	s.publish(next)
	s.log.Info().
		Str("load_id", load.ID.String()).
		Str("waybill", cancelled.Number).
		Msg("waybill cancelled")
	return SingleOutcome{Result: validation.OK(), Applied: true}, nil
}

// ChangeDriver swaps the trip driver unless an authorized waybill locks it.
func (s *Store) ChangeDriver(tripID uuid.UUID, driver string) (SingleOutcome, error) {
	next := s.Snapshot().clone()
	trip := findTrip(next, tripID)
	if trip == nil {
		return SingleOutcome{}, ErrTripNotFound
	}
	if res := fiscal.ValidateDriverChange(trip); !res.Valid {
		return SingleOutcome{Result: res}, nil
	}
	if strings.TrimSpace(driver) == "" {
		driver = model.DriverToBeDefined
	}
	trip.Driver = driver
	s.publish(next)
	return SingleOutcome{Result: validation.OK(), Applied: true}, nil
}

// ChangeVehicle swaps the trip vehicle and plate under the same fiscal lock.
func (s *Store) ChangeVehicle(tripID, vehicleID uuid.UUID) (SingleOutcome, error) {
	next := s.Snapshot().clone()
	trip := findTrip(next, tripID)
	if trip == nil {
		return SingleOutcome{}, ErrTripNotFound
	}
	vehicle := findVehicle(next, vehicleID)
	if vehicle == nil {
		return SingleOutcome{}, ErrVehicleNotFound
	}
	if res := fiscal.ValidateVehicleChange(trip); !res.Valid {
		return SingleOutcome{Result: res}, nil
	}
	trip.VehicleID = vehicle.ID
	trip.Plate = vehicle.Plate
	s.publish(next)
	return SingleOutcome{Result: validation.OK(), Applied: true}, nil
}

// AdvanceInput carries the transition target plus the completion proof.
type AdvanceInput struct {
	TripID          uuid.UUID
	Next            model.TripStatus
	ProofOfDelivery string
}

// AdvanceTrip applies one trip status transition with its side effects:
// entering pickup claims the vehicle, completion closes every delivery,
// delivers every load and frees the vehicle.
func (s *Store) AdvanceTrip(in AdvanceInput) (SingleOutcome, error) {
	next := s.Snapshot().clone()
	trip := findTrip(next, in.TripID)
	if trip == nil {
		return SingleOutcome{}, ErrTripNotFound
	}

	res := lifecycle.ValidateTripTransition(trip, in.Next, lifecycle.TransitionInput{
		AllTrips:        next.Trips,
		ProofOfDelivery: in.ProofOfDelivery,
	})
	if !res.Valid {
		return SingleOutcome{Result: res}, nil
	}

	switch {
	case in.Next == model.TripStatusDelayed:
		prev := trip.Status
		trip.StatusBeforeDelay = &prev
	case trip.Status == model.TripStatusDelayed:
		trip.StatusBeforeDelay = nil
	}
	from := trip.Status
	trip.Status = in.Next

	switch in.Next {
	case model.TripStatusPickingUp:
		if from == model.TripStatusPlanned {
			if vehicle := findVehicle(next, trip.VehicleID); vehicle != nil {
				vehicle.Status = model.VehicleStatusInUse
			}
		}
	case model.TripStatusCompleted:
		completeTrip(next, trip)
	}

	s.publish(next)
	s.log.Info().
		Str("trip_id", trip.ID.String()).
		Str("from", string(from)).
		Str("to", string(in.Next)).
		Msg("trip status changed")
	return SingleOutcome{Result: res, Applied: true}, nil
}

// IssueManifest records the trip-level fiscal aggregate of all authorized
// waybills. Requires fiscal readiness.
func (s *Store) IssueManifest(tripID uuid.UUID) (SingleOutcome, error) {
	next := s.Snapshot().clone()
	trip := findTrip(next, tripID)
	if trip == nil {
		return SingleOutcome{}, ErrTripNotFound
	}
	manifest, err := s.issuer.IssueManifest(trip)
	if err != nil {
		return SingleOutcome{Result: validation.Block(err.Error())}, nil
	}
	trip.Manifest = &manifest
	s.publish(next)
	s.log.Info().
		Str("trip_id", trip.ID.String()).
		Str("manifest", manifest.Number).
		Msg("manifest authorized")
	return SingleOutcome{Result: validation.OK(), Applied: true}, nil
}

// completeTrip closes out the trip: remaining pending deliveries become
// Delivered, every attached load becomes Delivered in both collections, and
// the vehicle goes back to Available.
func completeTrip(state *State, trip *model.Trip) {
	now := time.Now().UTC()
	trip.CompletedAt = &now

	for li := range trip.Legs {
		leg := &trip.Legs[li]
		if !leg.IsCargo() {
			continue
		}
		for di := range leg.Cargo.Deliveries {
			if leg.Cargo.Deliveries[di].Status == model.DeliveryStatusPending {
				leg.Cargo.Deliveries[di].Status = model.DeliveryStatusDelivered
			}
		}
	}

	for i := range trip.Loads {
		trip.Loads[i].Status = model.LoadStatusDelivered
		if load := findLoad(state, trip.Loads[i].ID); load != nil {
			load.Status = model.LoadStatusDelivered
		}
	}

	if vehicle := findVehicle(state, trip.VehicleID); vehicle != nil {
		vehicle.Status = model.VehicleStatusAvailable
	}
}

// attachWaybillDocument appends the freshly authorized waybill to the
// covering leg's delivery papers, referencing the invoice access keys
// already present there.
func attachWaybillDocument(trip *model.Trip, load *model.Load, wb model.Waybill) {
	for li := range trip.Legs {
		leg := &trip.Legs[li]
		if !leg.IsCargo() || leg.Cargo.LoadID != load.ID {
			continue
		}
		for di := range leg.Cargo.Deliveries {
			delivery := &leg.Cargo.Deliveries[di]
			var refs []string
			for _, doc := range delivery.Documents {
				if doc.Type == model.DocumentTypeInvoice && doc.AccessKey != "" {
					refs = append(refs, doc.AccessKey)
				}
			}
			delivery.Documents = append(delivery.Documents, model.Document{
				Type:           model.DocumentTypeWaybill,
				Number:         wb.Number,
				AccessKey:      wb.AccessKey,
				ReferencedKeys: refs,
				Status:         model.FiscalStatusAuthorized,
				Value:          wb.FreightValue,
				WeightKg:       load.WeightOrZero(),
			})
			return
		}
	}
}

func markWaybillDocumentCancelled(trip *model.Trip, loadID uuid.UUID, number string) {
	for li := range trip.Legs {
		leg := &trip.Legs[li]
		if !leg.IsCargo() || leg.Cargo.LoadID != loadID {
			continue
		}
		for di := range leg.Cargo.Deliveries {
			docs := leg.Cargo.Deliveries[di].Documents
			for i := range docs {
				if docs[i].Type == model.DocumentTypeWaybill && docs[i].Number == number {
					docs[i].Status = model.FiscalStatusCancelled
				}
			}
		}
	}
}
