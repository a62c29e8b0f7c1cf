package model

import (
	"time"

	"github.com/google/uuid"
)

type FiscalStatus string

const (
	FiscalStatusPending    FiscalStatus = "PENDING"
	FiscalStatusAuthorized FiscalStatus = "AUTHORIZED"
	FiscalStatusCancelled  FiscalStatus = "CANCELLED"
)

// Waybill is an issued per-shipment transport fiscal record. Records are
// append-only: a reissue creates a new Waybill rather than mutating the old
// one, so history survives cancellation.
type Waybill struct {
	ID           uuid.UUID
	Number       string
	AccessKey    string
	Status       FiscalStatus
	FreightValue float64
	IssuedAt     time.Time
	AuthorizedAt *time.Time
	CancelledAt  *time.Time
}

// Manifest is a trip-level fiscal record aggregating the trip's authorized
// waybills.
type Manifest struct {
	ID             uuid.UUID
	Number         string
	AccessKey      string
	Status         FiscalStatus
	WaybillNumbers []string
	IssuedAt       time.Time
	AuthorizedAt   *time.Time
	CancelledAt    *time.Time
}
