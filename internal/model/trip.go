package model

import (
	"time"

	"github.com/google/uuid"
)

type TripStatus string

const (
	TripStatusPlanned   TripStatus = "PLANNED"
	TripStatusPickingUp TripStatus = "PICKING_UP"
	TripStatusInTransit TripStatus = "IN_TRANSIT"
	TripStatusCompleted TripStatus = "COMPLETED"
	TripStatusDelayed   TripStatus = "DELAYED"
)

// DriverToBeDefined is the placeholder used while a trip has no confirmed
// driver. Fiscal emission is blocked while it is in place.
const DriverToBeDefined = "TO_BE_DEFINED"

type LegKind string

const (
	LegKindLoad  LegKind = "LOAD"
	LegKindEmpty LegKind = "EMPTY"
)

// Leg is one stop-set within a trip. The Load/Empty distinction is a tagged
// variant: Cargo is non-nil exactly when Kind is LegKindLoad, and the
// constructors below are the only sanctioned way to build one.
type Leg struct {
	ID          uuid.UUID
	Kind        LegKind
	Origin      string
	Destination string
	Cargo       *LegCargo
}

// LegCargo is the payload of a Load-type leg: the linked load plus the
// deliveries for its single destination. One cargo leg covers one
// destination and is meant to be covered by exactly one waybill; the split
// by destination happens when the leg is created.
type LegCargo struct {
	LoadID     uuid.UUID
	Deliveries []Delivery
}

// NewLoadLeg builds a cargo leg for a single destination.
func NewLoadLeg(origin, destination string, loadID uuid.UUID, deliveries []Delivery) Leg {
	return Leg{
		ID:          uuid.New(),
		Kind:        LegKindLoad,
		Origin:      origin,
		Destination: destination,
		Cargo: &LegCargo{
			LoadID:     loadID,
			Deliveries: deliveries,
		},
	}
}

// NewEmptyLeg builds a repositioning leg. It can never carry delivery data.
func NewEmptyLeg(origin, destination string) Leg {
	return Leg{
		ID:          uuid.New(),
		Kind:        LegKindEmpty,
		Origin:      origin,
		Destination: destination,
	}
}

// IsCargo reports whether the leg carries commercial cargo.
func (l *Leg) IsCargo() bool {
	return l.Kind == LegKindLoad && l.Cargo != nil
}

type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "PENDING"
	DeliveryStatusDelivered DeliveryStatus = "DELIVERED"
	DeliveryStatusReturned  DeliveryStatus = "RETURNED"
	DeliveryStatusFailed    DeliveryStatus = "FAILED"
)

// Delivery is one destination drop within a leg, holding the invoice and
// waybill documents for that stop.
type Delivery struct {
	ID        uuid.UUID
	Recipient string
	Address   string
	Status    DeliveryStatus
	Documents []Document
}

// Trip assigns one driver and one vehicle (plus optional trailers) to a
// time-bounded movement over an ordered sequence of legs.
//
// Trip holds copies of its attached loads; the controller owns both
// collections and keeps them in step on every mutation.
type Trip struct {
	ID        uuid.UUID
	Driver    string
	VehicleID uuid.UUID
	Plate     string
	Trailers  []string

	Status TripStatus
	// StatusBeforeDelay remembers where a delayed trip resumes to. Only set
	// while Status is Delayed.
	StatusBeforeDelay *TripStatus

	Legs  []Leg
	Loads []Load

	StartAt             time.Time
	EstimatedDeliveryAt *time.Time
	CompletedAt         *time.Time

	Manifest *Manifest

	CreatedAt time.Time
}

// HasConfirmedDriver reports whether the driver is a real name rather than
// the placeholder.
func (t *Trip) HasConfirmedDriver() bool {
	return t.Driver != "" && t.Driver != DriverToBeDefined
}

// HasAnyAuthorizedWaybill reports whether any attached load currently holds
// an Authorized waybill; while true, the trip's driver and plate are locked.
func (t *Trip) HasAnyAuthorizedWaybill() bool {
	for i := range t.Loads {
		if t.Loads[i].HasAuthorizedWaybill() {
			return true
		}
	}
	return false
}

// CargoLegs returns the Load-type legs in order.
func (t *Trip) CargoLegs() []Leg {
	legs := make([]Leg, 0, len(t.Legs))
	for _, leg := range t.Legs {
		if leg.IsCargo() {
			legs = append(legs, leg)
		}
	}
	return legs
}

// AssignedWeightKg sums the weight of every load linked from a cargo leg.
func (t *Trip) AssignedWeightKg() float64 {
	return t.sumCargo(func(l *Load) float64 { return l.WeightOrZero() })
}

// AssignedVolumeM3 sums the volume of every load linked from a cargo leg.
func (t *Trip) AssignedVolumeM3() float64 {
	return t.sumCargo(func(l *Load) float64 { return l.VolumeOrZero() })
}

func (t *Trip) sumCargo(dim func(*Load) float64) float64 {
	byID := make(map[uuid.UUID]*Load, len(t.Loads))
	for i := range t.Loads {
		byID[t.Loads[i].ID] = &t.Loads[i]
	}
	total := 0.0
	for _, leg := range t.Legs {
		if !leg.IsCargo() {
			continue
		}
		if load, ok := byID[leg.Cargo.LoadID]; ok {
			total += dim(load)
		}
	}
	return total
}

// HasExclusiveLoad reports whether any attached load is dedicated.
func (t *Trip) HasExclusiveLoad() bool {
	for i := range t.Loads {
		if t.Loads[i].Exclusive {
			return true
		}
	}
	return false
}

// FindLoad returns a pointer into the trip's embedded load copies.
func (t *Trip) FindLoad(id uuid.UUID) *Load {
	for i := range t.Loads {
		if t.Loads[i].ID == id {
			return &t.Loads[i]
		}
	}
	return nil
}
