// Package controller owns the in-memory entity collections. It is the only
// writer: validators and the state machine rule, the store applies. Every
// accepted mutation replaces the collections wholesale (copy-on-write), so
// the HTTP layer can read snapshots without locks around its own logic.
package controller

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/freightops-trips/internal/fiscal"
	"github.com/nurpe/freightops-trips/internal/model"
	"github.com/nurpe/freightops-trips/internal/reconcile"
)

type Store struct {
	mu     sync.RWMutex
	state  *State
	issuer *fiscal.Issuer
	log    zerolog.Logger
}

func NewStore(initial State, issuer *fiscal.Issuer, log zerolog.Logger) *Store {
	snapshot := initial.clone()
	return &Store{
		state:  snapshot,
		issuer: issuer,
		log:    log,
	}
}

// Snapshot returns the current generation. Callers treat it as read-only;
// the store never writes into a published State.
func (s *Store) Snapshot() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) publish(next *State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

// Trip returns a read-only view of one trip from the current snapshot.
func (s *Store) Trip(id uuid.UUID) (*model.Trip, error) {
	state := s.Snapshot()
	if trip := findTrip(state, id); trip != nil {
		return trip, nil
	}
	return nil, ErrTripNotFound
}

func (s *Store) Load(id uuid.UUID) (*model.Load, error) {
	state := s.Snapshot()
	if load := findLoad(state, id); load != nil {
		return load, nil
	}
	return nil, ErrLoadNotFound
}

func (s *Store) Vehicle(id uuid.UUID) (*model.Vehicle, error) {
	state := s.Snapshot()
	if vehicle := findVehicle(state, id); vehicle != nil {
		return vehicle, nil
	}
	return nil, ErrVehicleNotFound
}

// DeliveryHierarchy recomputes the waybill/invoice grouping for one delivery
// of a trip. Pure read; no caching, the builder is idempotent.
func (s *Store) DeliveryHierarchy(tripID, deliveryID uuid.UUID) (reconcile.Hierarchy, error) {
	state := s.Snapshot()
	trip := findTrip(state, tripID)
	if trip == nil {
		return reconcile.Hierarchy{}, ErrTripNotFound
	}
	for _, leg := range trip.Legs {
		if !leg.IsCargo() {
			continue
		}
		for _, delivery := range leg.Cargo.Deliveries {
			if delivery.ID == deliveryID {
				return reconcile.BuildWaybillHierarchy(delivery.Documents), nil
			}
		}
	}
	return reconcile.Hierarchy{}, ErrLegNotFound
}

func findTrip(state *State, id uuid.UUID) *model.Trip {
	for i := range state.Trips {
		if state.Trips[i].ID == id {
			return &state.Trips[i]
		}
	}
	return nil
}

func findLoad(state *State, id uuid.UUID) *model.Load {
	for i := range state.Loads {
		if state.Loads[i].ID == id {
			return &state.Loads[i]
		}
	}
	return nil
}

func findVehicle(state *State, id uuid.UUID) *model.Vehicle {
	for i := range state.Vehicles {
		if state.Vehicles[i].ID == id {
			return &state.Vehicles[i]
		}
	}
	return nil
}
