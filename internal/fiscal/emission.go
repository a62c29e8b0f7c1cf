// Package fiscal decides whether transport fiscal records may be issued and
// issues them. It is the only place a Waybill or Manifest record is built, so
// the load collection and the trip's embedded copy can never drift apart.
package fiscal

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/freightops-trips/internal/model"
	"github.com/nurpe/freightops-trips/internal/validation"
)

// ValidateEmission decides whether a waybill may be issued for the load.
// Every failure is a hard block naming the missing precondition.
func ValidateEmission(load *model.Load, trip *model.Trip) validation.Result {
	if trip == nil {
		return validation.Block("load is not attached to a trip; attach it before issuing a waybill")
	}
	if !trip.HasConfirmedDriver() {
		return validation.Block("trip driver is not confirmed; assign a driver before issuing a waybill")
	}
	if strings.TrimSpace(trip.Plate) == "" {
		return validation.Block("trip has no confirmed vehicle plate; assign a vehicle before issuing a waybill")
	}
	if load.HasAuthorizedWaybill() {
		return validation.Block(fmt.Sprintf("load already holds authorized waybill %s; cancel it before reissuing", load.Waybill.Number))
	}
	if load.Status != model.LoadStatusScheduled && load.Status != model.LoadStatusEmitted {
		return validation.Block(fmt.Sprintf("load status %s does not allow waybill emission", load.Status))
	}
	return validation.OK()
}

// ValidateDriverChange blocks any driver change while an authorized waybill
// exists on the trip. The proposed name is irrelevant: even an identical
// name is a new assignment and stays blocked until cancellation.
func ValidateDriverChange(trip *model.Trip) validation.Result {
	if trip.HasAnyAuthorizedWaybill() {
		return validation.Block("trip has an authorized waybill; cancel it before changing the driver")
	}
	return validation.OK()
}

// ValidateVehicleChange is the plate-side counterpart of
// ValidateDriverChange.
func ValidateVehicleChange(trip *model.Trip) validation.Result {
	if trip.HasAnyAuthorizedWaybill() {
		return validation.Block("trip has an authorized waybill; cancel it before changing the vehicle")
	}
	return validation.OK()
}

// Ready reports fiscal readiness: every cargo leg has at least one
// authorized waybill among its deliveries' documents. Trips may not advance
// past pickup until this holds.
func Ready(trip *model.Trip) bool {
	for _, leg := range trip.Legs {
		if !leg.IsCargo() {
			continue
		}
		if !legReady(&leg) {
			return false
		}
	}
	return true
}

func legReady(leg *model.Leg) bool {
	for _, delivery := range leg.Cargo.Deliveries {
		for _, doc := range delivery.Documents {
			if doc.Type == model.DocumentTypeWaybill && doc.Status == model.FiscalStatusAuthorized {
				return true
			}
		}
	}
	return false
}

// Issuer builds fiscal records. Numbers come from a monotonic sequence and
// access keys from uuid material, so rapid successive issuance can never
// collide.
type Issuer struct {
	ratePerKg float64
	flatRate  float64
	now       func() time.Time
	seq       atomic.Uint64
}

func NewIssuer(ratePerKg, flatRate float64) *Issuer {
	return &Issuer{
		ratePerKg: ratePerKg,
		flatRate:  flatRate,
		now:       time.Now,
	}
}

// NewIssuerAt pins the issuer's clock, for tests.
func NewIssuerAt(ratePerKg, flatRate float64, now func() time.Time) *Issuer {
	return &Issuer{ratePerKg: ratePerKg, flatRate: flatRate, now: now}
}

// Issue is the single factory for waybill records. Callers reference the
// returned record from both the load collection and the trip's embedded
// copy; it is never rebuilt inline.
func (i *Issuer) Issue(load *model.Load) model.Waybill {
	issuedAt := i.now().UTC()
	authorizedAt := issuedAt
	return model.Waybill{
		ID:           uuid.New(),
		Number:       fmt.Sprintf("WB-%06d", i.seq.Add(1)),
		AccessKey:    newAccessKey(),
		Status:       model.FiscalStatusAuthorized,
		FreightValue: i.FreightValue(load),
		IssuedAt:     issuedAt,
		AuthorizedAt: &authorizedAt,
	}
}

// IssueManifest aggregates the trip's authorized waybills into a trip-level
// record. The trip must be fiscally ready.
func (i *Issuer) IssueManifest(trip *model.Trip) (model.Manifest, error) {
	if !Ready(trip) {
		return model.Manifest{}, fmt.Errorf("trip %s is not fiscally ready", trip.ID)
	}
	numbers := make([]string, 0, len(trip.Loads))
	for idx := range trip.Loads {
		if trip.Loads[idx].HasAuthorizedWaybill() {
			numbers = append(numbers, trip.Loads[idx].Waybill.Number)
		}
	}
	issuedAt := i.now().UTC()
	authorizedAt := issuedAt
	return model.Manifest{
		ID:             uuid.New(),
		Number:         fmt.Sprintf("MF-%06d", i.seq.Add(1)),
		AccessKey:      newAccessKey(),
		Status:         model.FiscalStatusAuthorized,
		WaybillNumbers: numbers,
		IssuedAt:       issuedAt,
		AuthorizedAt:   &authorizedAt,
	}, nil
}

// FreightValue derives the freight charge from load weight at a fixed rate
// per kg, falling back to a flat charge when the weight is absent.
func (i *Issuer) FreightValue(load *model.Load) float64 {
	if load.WeightKg == nil || *load.WeightKg <= 0 {
		return i.flatRate
	}
	return *load.WeightKg * i.ratePerKg
}

// Cancel returns a cancelled copy of the waybill for the history list. The
// original record is never mutated.
func (i *Issuer) Cancel(wb model.Waybill) model.Waybill {
	cancelledAt := i.now().UTC()
	wb.Status = model.FiscalStatusCancelled
	wb.CancelledAt = &cancelledAt
	return wb
}

func newAccessKey() string {
	raw := uuid.New()
	return strings.ToUpper(strings.ReplaceAll(raw.String(), "-", ""))
}
