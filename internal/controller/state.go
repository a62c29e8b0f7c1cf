package controller

import "github.com/nurpe/freightops-trips/internal/model"

// State is one immutable generation of the entity collections. Mutations
// never write into a published State; they clone, edit the clone, and swap
// the pointer, so readers holding an old snapshot stay consistent.
type State struct {
	Trips              []model.Trip
	Loads              []model.Load
	Vehicles           []model.Vehicle
	AvailableDocuments []model.Document
	Clients            []model.Client
	Cities             []model.City
}

func (s *State) clone() *State {
	next := &State{
		Trips:              make([]model.Trip, len(s.Trips)),
		Loads:              make([]model.Load, len(s.Loads)),
		Vehicles:           make([]model.Vehicle, len(s.Vehicles)),
		AvailableDocuments: append([]model.Document(nil), s.AvailableDocuments...),
		Clients:            append([]model.Client(nil), s.Clients...),
		Cities:             append([]model.City(nil), s.Cities...),
	}
	for i := range s.Trips {
		next.Trips[i] = cloneTrip(&s.Trips[i])
	}
	for i := range s.Loads {
		next.Loads[i] = cloneLoad(&s.Loads[i])
	}
	copy(next.Vehicles, s.Vehicles)
	return next
}

func cloneTrip(t *model.Trip) model.Trip {
	out := *t
	out.Trailers = append([]string(nil), t.Trailers...)
	out.Legs = make([]model.Leg, len(t.Legs))
	for i := range t.Legs {
		out.Legs[i] = cloneLeg(&t.Legs[i])
	}
	out.Loads = make([]model.Load, len(t.Loads))
	for i := range t.Loads {
		out.Loads[i] = cloneLoad(&t.Loads[i])
	}
	if t.StatusBeforeDelay != nil {
		prev := *t.StatusBeforeDelay
		out.StatusBeforeDelay = &prev
	}
	if t.Manifest != nil {
		manifest := *t.Manifest
		manifest.WaybillNumbers = append([]string(nil), t.Manifest.WaybillNumbers...)
		out.Manifest = &manifest
	}
	return out
}

func cloneLeg(l *model.Leg) model.Leg {
	out := *l
	if l.Cargo != nil {
		cargo := model.LegCargo{
			LoadID:     l.Cargo.LoadID,
			Deliveries: make([]model.Delivery, len(l.Cargo.Deliveries)),
		}
		for i := range l.Cargo.Deliveries {
			cargo.Deliveries[i] = cloneDelivery(&l.Cargo.Deliveries[i])
		}
		out.Cargo = &cargo
	}
	return out
}

func cloneDelivery(d *model.Delivery) model.Delivery {
	out := *d
	out.Documents = make([]model.Document, len(d.Documents))
	for i := range d.Documents {
		out.Documents[i] = cloneDocument(&d.Documents[i])
	}
	return out
}

func cloneDocument(d *model.Document) model.Document {
	out := *d
	out.ReferencedKeys = append([]string(nil), d.ReferencedKeys...)
	return out
}

func cloneLoad(l *model.Load) model.Load {
	out := *l
	out.RequiredEquipment = append([]string(nil), l.RequiredEquipment...)
	if l.Waybill != nil {
		wb := *l.Waybill
		out.Waybill = &wb
	}
	out.WaybillHistory = append([]model.Waybill(nil), l.WaybillHistory...)
	return out
}
