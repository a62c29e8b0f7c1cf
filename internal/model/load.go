package model

import (
	"time"

	"github.com/google/uuid"
)

type LoadStatus string

const (
	LoadStatusPending   LoadStatus = "PENDING"
	LoadStatusScheduled LoadStatus = "SCHEDULED"
	LoadStatusEmitted   LoadStatus = "EMITTED"
	LoadStatusDelivered LoadStatus = "DELIVERED"
)

type LoadPriority string

const (
	LoadPriorityLow    LoadPriority = "LOW"
	LoadPriorityNormal LoadPriority = "NORMAL"
	LoadPriorityHigh   LoadPriority = "HIGH"
	LoadPriorityUrgent LoadPriority = "URGENT"
)

// CargoSegment is the commercial segment a load belongs to. It constrains
// which vehicle body types may carry the load.
type CargoSegment string

const (
	SegmentGeneral      CargoSegment = "GENERAL"
	SegmentRefrigerated CargoSegment = "REFRIGERATED"
	SegmentBulk         CargoSegment = "BULK"
	SegmentLiquid       CargoSegment = "LIQUID"
	SegmentFragile      CargoSegment = "FRAGILE"
)

// Load is a shipment demand. It is created independent of any trip and only
// later attached; TripID stays nil until a validator pass schedules it.
type Load struct {
	ID          uuid.UUID
	ClientID    uuid.UUID
	ClientName  string
	Origin      string
	Destination *string

	WeightKg *float64
	VolumeM3 *float64

	Segment           *CargoSegment
	RequiredEquipment []string
	Priority          LoadPriority

	// Exclusive marks a dedicated (lotação) load: it must travel alone.
	Exclusive bool

	CollectionDate *time.Time

	Status LoadStatus
	TripID *uuid.UUID

	// Waybill is the current fiscal record for this load, at most one.
	// Cancelling never mutates a record in place: the cancelled copy moves
	// into WaybillHistory and Waybill becomes nil again.
	Waybill        *Waybill
	WaybillHistory []Waybill

	CreatedAt time.Time
}

// WeightOrZero returns the declared weight, treating an absent weight as zero
// for capacity arithmetic.
func (l *Load) WeightOrZero() float64 {
	if l.WeightKg == nil {
		return 0
	}
	return *l.WeightKg
}

func (l *Load) VolumeOrZero() float64 {
	if l.VolumeM3 == nil {
		return 0
	}
	return *l.VolumeM3
}

// HasAuthorizedWaybill reports whether the load currently holds an Authorized
// fiscal record. History does not count.
func (l *Load) HasAuthorizedWaybill() bool {
	return l.Waybill != nil && l.Waybill.Status == FiscalStatusAuthorized
}
