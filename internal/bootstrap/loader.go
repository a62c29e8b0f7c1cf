// Package bootstrap is the external collaborator that seeds the in-memory
// session: it fetches the initial dataset from Postgres and, when that
// fails, substitutes a static fixture of the same shape. One attempt, then
// fallback; there is no retry loop.
package bootstrap

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/freightops-trips/internal/model"
)

// Dataset is the payload the controller rebuilds its collections from on
// each session start.
type Dataset struct {
	Trips              []model.Trip
	Loads              []model.Load
	Vehicles           []model.Vehicle
	AvailableDocuments []model.Document
	Clients            []model.Client
	Cities             []model.City
}

type Loader interface {
	Load(ctx context.Context) (*Dataset, error)
}

type PostgresLoader struct {
	db *gorm.DB
}

func NewPostgresLoader(db *gorm.DB) *PostgresLoader {
	return &PostgresLoader{db: db}
}

func (l *PostgresLoader) Load(ctx context.Context) (*Dataset, error) {
	ds := &Dataset{}

	if err := l.db.WithContext(ctx).Raw(`
		SELECT id, name, tax_id, address, phone
		FROM clients
		ORDER BY name ASC
	`).Scan(&ds.Clients).Error; err != nil {
		return nil, err
	}

	if err := l.db.WithContext(ctx).Raw(`
		SELECT id, name, state
		FROM cities
		ORDER BY name ASC
	`).Scan(&ds.Cities).Error; err != nil {
		return nil, err
	}

	if err := l.db.WithContext(ctx).Raw(`
		SELECT id, plate, class, body_type, capacity_kg, capacity_m3, status
		FROM vehicles
		ORDER BY plate ASC
	`).Scan(&ds.Vehicles).Error; err != nil {
		return nil, err
	}

	var loadRows []struct {
		ID             uuid.UUID
		ClientID       *uuid.UUID
		ClientName     *string
		Origin         string
		Destination    *string
		WeightKg       *float64
		VolumeM3       *float64
		Segment        *string
		Priority       string
		Exclusive      bool
		CollectionDate *time.Time
		Status         string
		CreatedAt      time.Time
	}
	if err := l.db.WithContext(ctx).Raw(`
		SELECT id, client_id, client_name, origin, destination,
		       weight_kg, volume_m3, segment, priority, exclusive,
		       collection_date, status, created_at
		FROM loads
		ORDER BY created_at ASC
	`).Scan(&loadRows).Error; err != nil {
		return nil, err
	}
	for _, row := range loadRows {
		load := model.Load{
			ID:             row.ID,
			Origin:         row.Origin,
			Destination:    row.Destination,
			WeightKg:       row.WeightKg,
			VolumeM3:       row.VolumeM3,
			Priority:       model.LoadPriority(row.Priority),
			Exclusive:      row.Exclusive,
			CollectionDate: row.CollectionDate,
			Status:         model.LoadStatus(row.Status),
			CreatedAt:      row.CreatedAt,
		}
		if row.ClientID != nil {
			load.ClientID = *row.ClientID
		}
		if row.ClientName != nil {
			load.ClientName = *row.ClientName
		}
		if row.Segment != nil {
			segment := model.CargoSegment(*row.Segment)
			load.Segment = &segment
		}
		ds.Loads = append(ds.Loads, load)
	}

	var tripRows []struct {
		ID                  uuid.UUID
		Driver              string
		VehicleID           *uuid.UUID
		Plate               *string
		Status              string
		StartAt             *time.Time
		EstimatedDeliveryAt *time.Time
		CreatedAt           time.Time
	}
	if err := l.db.WithContext(ctx).Raw(`
		SELECT id, driver, vehicle_id, plate, status, start_at, estimated_delivery_at, created_at
		FROM trips
		ORDER BY created_at ASC
	`).Scan(&tripRows).Error; err != nil {
		return nil, err
	}
	for _, row := range tripRows {
		trip := model.Trip{
			ID:                  row.ID,
			Driver:              row.Driver,
			Status:              model.TripStatus(row.Status),
			EstimatedDeliveryAt: row.EstimatedDeliveryAt,
			CreatedAt:           row.CreatedAt,
		}
		if row.VehicleID != nil {
			trip.VehicleID = *row.VehicleID
		}
		if row.Plate != nil {
			trip.Plate = *row.Plate
		}
		if row.StartAt != nil {
			trip.StartAt = *row.StartAt
		}
		ds.Trips = append(ds.Trips, trip)
	}

	var docRows []struct {
		DocType         string
		Number          string
		CoveringWaybill *string
		AccessKey       *string
		ReferencedKeys  *string
		Subcontracted   bool
		Value           *float64
		WeightKg        *float64
	}
	if err := l.db.WithContext(ctx).Raw(`
		SELECT doc_type, number, covering_waybill, access_key, referenced_keys,
		       subcontracted, value, weight_kg
		FROM documents
		ORDER BY number ASC
	`).Scan(&docRows).Error; err != nil {
		return nil, err
	}
	for _, row := range docRows {
		doc := model.Document{
			Type:          model.DocumentType(row.DocType),
			Number:        row.Number,
			Subcontracted: row.Subcontracted,
		}
		if row.CoveringWaybill != nil {
			doc.CoveringWaybill = *row.CoveringWaybill
		}
		if row.AccessKey != nil {
			doc.AccessKey = *row.AccessKey
		}
		if row.ReferencedKeys != nil && *row.ReferencedKeys != "" {
			doc.ReferencedKeys = strings.Split(*row.ReferencedKeys, ",")
		}
		if row.Value != nil {
			doc.Value = *row.Value
		}
		if row.WeightKg != nil {
			doc.WeightKg = *row.WeightKg
		}
		ds.AvailableDocuments = append(ds.AvailableDocuments, doc)
	}

	return ds, nil
}
