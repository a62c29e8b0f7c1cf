package bootstrap

import (
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/freightops-trips/internal/model"
)

// Fixed identities keep the fixture stable across sessions, so smoke tests
// and local UI work can reference the same entities.
var (
	fixtureClientAcme  = uuid.MustParse("6f1a2b3c-0001-4a00-9000-000000000001")
	fixtureClientFrio  = uuid.MustParse("6f1a2b3c-0001-4a00-9000-000000000002")
	fixtureVehicleBox  = uuid.MustParse("6f1a2b3c-0002-4a00-9000-000000000001")
	fixtureVehicleReef = uuid.MustParse("6f1a2b3c-0002-4a00-9000-000000000002")
	fixtureVehicleTank = uuid.MustParse("6f1a2b3c-0002-4a00-9000-000000000003")
	fixtureLoadGeneral = uuid.MustParse("6f1a2b3c-0003-4a00-9000-000000000001")
	fixtureLoadChilled = uuid.MustParse("6f1a2b3c-0003-4a00-9000-000000000002")
	fixtureLoadLotacao = uuid.MustParse("6f1a2b3c-0003-4a00-9000-000000000003")
	fixtureTripSP      = uuid.MustParse("6f1a2b3c-0004-4a00-9000-000000000001")
)

// Fixture returns the static fallback dataset with the same shape as the
// database payload.
func Fixture() *Dataset {
	now := time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC)
	weightGeneral := 8000.0
	volumeGeneral := 42.0
	weightChilled := 5500.0
	volumeChilled := 36.0
	segGeneral := model.SegmentGeneral
	segReefer := model.SegmentRefrigerated
	destCampinas := "Campinas"
	destSantos := "Santos"
	eta := now.Add(30 * time.Hour)

	return &Dataset{
		Clients: []model.Client{
			{ID: fixtureClientAcme, Name: "Acme Distribuidora", TaxID: "12345678000190", Address: "Av. Industrial 1200, Sao Paulo", Phone: "+55 11 4002-8922"},
			{ID: fixtureClientFrio, Name: "FrioLog Alimentos", TaxID: "98765432000110", Address: "Rod. Anhanguera km 62, Jundiai", Phone: "+55 11 4521-7788"},
		},
		Cities: []model.City{
			{ID: uuid.MustParse("6f1a2b3c-0005-4a00-9000-000000000001"), Name: "Sao Paulo", State: "SP"},
			{ID: uuid.MustParse("6f1a2b3c-0005-4a00-9000-000000000002"), Name: "Campinas", State: "SP"},
			{ID: uuid.MustParse("6f1a2b3c-0005-4a00-9000-000000000003"), Name: "Santos", State: "SP"},
			{ID: uuid.MustParse("6f1a2b3c-0005-4a00-9000-000000000004"), Name: "Curitiba", State: "PR"},
		},
		Vehicles: []model.Vehicle{
			{ID: fixtureVehicleBox, Plate: "BRA2E19", Class: model.VehicleClassTruck, BodyType: model.BodyTypeBox, CapacityKg: 10000, CapacityM3: 50, Status: model.VehicleStatusAvailable},
			{ID: fixtureVehicleReef, Plate: "FRT8C44", Class: model.VehicleClassSemiTrailer, BodyType: model.BodyTypeRefrigerated, CapacityKg: 24000, CapacityM3: 85, Status: model.VehicleStatusAvailable},
			{ID: fixtureVehicleTank, Plate: "TNK1A07", Class: model.VehicleClassRoadTrain, BodyType: model.BodyTypeTanker, CapacityKg: 36000, CapacityM3: 60, Status: model.VehicleStatusMaintenance},
		},
		Loads: []model.Load{
			{
				ID: fixtureLoadGeneral, ClientID: fixtureClientAcme, ClientName: "Acme Distribuidora",
				Origin: "Sao Paulo", Destination: &destCampinas,
				WeightKg: &weightGeneral, VolumeM3: &volumeGeneral,
				Segment: &segGeneral, Priority: model.LoadPriorityNormal,
				Status: model.LoadStatusPending, CreatedAt: now,
			},
			{
				ID: fixtureLoadChilled, ClientID: fixtureClientFrio, ClientName: "FrioLog Alimentos",
				Origin: "Jundiai", Destination: &destSantos,
				WeightKg: &weightChilled, VolumeM3: &volumeChilled,
				Segment: &segReefer, Priority: model.LoadPriorityHigh,
				RequiredEquipment: []string{"pallet-jack", "thermo-logger"},
				Status:            model.LoadStatusPending, CreatedAt: now,
			},
			{
				ID: fixtureLoadLotacao, ClientID: fixtureClientAcme, ClientName: "Acme Distribuidora",
				Origin: "Curitiba", Exclusive: true,
				Priority: model.LoadPriorityUrgent,
				Status:   model.LoadStatusPending, CreatedAt: now,
			},
		},
		Trips: []model.Trip{
			{
				ID:                  fixtureTripSP,
				Driver:              model.DriverToBeDefined,
				VehicleID:           fixtureVehicleBox,
				Plate:               "BRA2E19",
				Status:              model.TripStatusPlanned,
				StartAt:             now,
				EstimatedDeliveryAt: &eta,
				CreatedAt:           now,
			},
		},
		AvailableDocuments: []model.Document{
			{Type: model.DocumentTypeInvoice, Number: "NF-000451", AccessKey: "35260812345678000190550010000004511000004517", Value: 18250.40, WeightKg: 3100},
			{Type: model.DocumentTypeInvoice, Number: "NF-000452", AccessKey: "35260812345678000190550010000004521000004520", Value: 9740.00, WeightKg: 2400},
			{Type: model.DocumentTypeInvoice, Number: "NF-000460", AccessKey: "35260898765432000110550010000004601000004609", Value: 22100.75, WeightKg: 2500},
		},
	}
}
