package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/freightops-trips/internal/model"
)

func fptr(v float64) *float64 { return &v }

func segptr(s model.CargoSegment) *model.CargoSegment { return &s }

func testVehicle(bodyType model.BodyType, capacityKg, capacityM3 float64) *model.Vehicle {
	return &model.Vehicle{
		ID:         uuid.New(),
		Plate:      "BRA2E19",
		Class:      model.VehicleClassTruck,
		BodyType:   bodyType,
		CapacityKg: capacityKg,
		CapacityM3: capacityM3,
		Status:     model.VehicleStatusAvailable,
	}
}

// tripCarrying builds a trip whose cargo legs already commit the given
// weight through a single attached load.
func tripCarrying(weightKg float64) *model.Trip {
	loadID := uuid.New()
	return &model.Trip{
		ID:     uuid.New(),
		Driver: "Carlos Mendes",
		Plate:  "BRA2E19",
		Status: model.TripStatusPlanned,
		Loads: []model.Load{
			{ID: loadID, WeightKg: fptr(weightKg), Status: model.LoadStatusScheduled},
		},
		Legs: []model.Leg{
			model.NewLoadLeg("Sao Paulo", "Campinas", loadID, nil),
		},
	}
}

func TestCompatibilityNoSegmentAlwaysValid(t *testing.T) {
	load := &model.Load{ID: uuid.New()}
	for _, bodyType := range []model.BodyType{
		model.BodyTypeBox, model.BodyTypeRefrigerated, model.BodyTypeTanker, model.BodyTypeGrain,
	} {
		res := ValidateCompatibility(testVehicle(bodyType, 10000, 50), load)
		assert.True(t, res.Valid, "body type %s", bodyType)
	}
}

func TestCompatibilityMismatchNamesActualType(t *testing.T) {
	vehicle := testVehicle(model.BodyTypeBox, 10000, 50)
	load := &model.Load{ID: uuid.New(), Segment: segptr(model.SegmentRefrigerated)}

	res := ValidateCompatibility(vehicle, load)
	require.False(t, res.Valid)
	assert.Equal(t, VerdictHardBlock, res.Type)
	assert.Contains(t, res.Error, string(model.BodyTypeRefrigerated))
	assert.Contains(t, res.Error, string(model.BodyTypeBox))
}

func TestCompatibilityMatch(t *testing.T) {
	tests := []struct {
		segment  model.CargoSegment
		bodyType model.BodyType
		valid    bool
	}{
		{model.SegmentGeneral, model.BodyTypeBox, true},
		{model.SegmentGeneral, model.BodyTypeTanker, false},
		{model.SegmentLiquid, model.BodyTypeTanker, true},
		{model.SegmentBulk, model.BodyTypeGrain, true},
		{model.SegmentFragile, model.BodyTypeFlatbed, false},
	}
	for _, tc := range tests {
		load := &model.Load{ID: uuid.New(), Segment: segptr(tc.segment)}
		res := ValidateCompatibility(testVehicle(tc.bodyType, 10000, 50), load)
		assert.Equal(t, tc.valid, res.Valid, "%s on %s", tc.segment, tc.bodyType)
	}
}

func TestCapacityBoundary(t *testing.T) {
	vehicle := testVehicle(model.BodyTypeBox, 10000, 50)
	trip := tripCarrying(8000)

	// Exactly filling the vehicle is valid.
	exact := &model.Load{ID: uuid.New(), WeightKg: fptr(2000)}
	assert.True(t, ValidateCapacity(vehicle, trip, exact, ModeComplement).Valid)

	over := &model.Load{ID: uuid.New(), WeightKg: fptr(2001)}
	assert.False(t, ValidateCapacity(vehicle, trip, over, ModeComplement).Valid)
}

func TestCapacityComplementCitesAvailable(t *testing.T) {
	vehicle := testVehicle(model.BodyTypeBox, 10000, 50)
	trip := tripCarrying(8000)
	load := &model.Load{ID: uuid.New(), WeightKg: fptr(3000)}

	res := ValidateCapacity(vehicle, trip, load, ModeComplement)
	require.False(t, res.Valid)
	assert.Equal(t, VerdictHardBlock, res.Type)
	assert.Contains(t, res.Error, "2000kg")
}

func TestCapacityReturnModeAssumesFullVehicle(t *testing.T) {
	vehicle := testVehicle(model.BodyTypeBox, 10000, 50)
	trip := tripCarrying(8000)
	load := &model.Load{ID: uuid.New(), WeightKg: fptr(9500)}

	assert.True(t, ValidateCapacity(vehicle, trip, load, ModeReturn).Valid)
	assert.False(t, ValidateCapacity(vehicle, trip, load, ModeComplement).Valid)
}

func TestCapacityVolume(t *testing.T) {
	vehicle := testVehicle(model.BodyTypeBox, 10000, 50)
	trip := &model.Trip{ID: uuid.New()}
	load := &model.Load{ID: uuid.New(), VolumeM3: fptr(50.5)}

	res := ValidateCapacity(vehicle, trip, load, ModeComplement)
	require.False(t, res.Valid)
	assert.Contains(t, res.Error, "volume")
}

func TestDedicatedBlocksBothWays(t *testing.T) {
	exclusiveTrip := &model.Trip{
		ID:    uuid.New(),
		Loads: []model.Load{{ID: uuid.New(), Exclusive: true}},
	}
	plain := &model.Load{ID: uuid.New()}
	res := ValidateDedicated(exclusiveTrip, plain)
	require.False(t, res.Valid)
	assert.Contains(t, res.Error, "dedicated")

	busyTrip := &model.Trip{
		ID:    uuid.New(),
		Loads: []model.Load{{ID: uuid.New()}},
	}
	exclusive := &model.Load{ID: uuid.New(), Exclusive: true}
	assert.False(t, ValidateDedicated(busyTrip, exclusive).Valid)

	emptyTrip := &model.Trip{ID: uuid.New()}
	assert.True(t, ValidateDedicated(emptyTrip, exclusive).Valid)
}

func TestTripStatusGate(t *testing.T) {
	completed := &model.Trip{ID: uuid.New(), Status: model.TripStatusCompleted}
	res := ValidateTripStatus(completed)
	require.False(t, res.Valid)
	assert.Contains(t, strings.ToLower(res.Error), "completed trip")

	delayed := &model.Trip{ID: uuid.New(), Status: model.TripStatusDelayed}
	res = ValidateTripStatus(delayed)
	assert.True(t, res.Valid)
	assert.Equal(t, VerdictWarning, res.Type)
	assert.NotEmpty(t, res.Warning)

	planned := &model.Trip{ID: uuid.New(), Status: model.TripStatusPlanned}
	assert.True(t, ValidateTripStatus(planned).Valid)
}

func TestReturnSequenceWarning(t *testing.T) {
	eta := time.Date(2026, 9, 2, 18, 0, 0, 0, time.UTC)
	trip := &model.Trip{ID: uuid.New(), EstimatedDeliveryAt: &eta}

	early := eta.Add(-48 * time.Hour)
	load := &model.Load{ID: uuid.New(), CollectionDate: &early}
	res := ValidateReturnSequence(trip, load)
	assert.True(t, res.Valid)
	assert.Equal(t, VerdictWarning, res.Type)

	late := eta.Add(6 * time.Hour)
	load = &model.Load{ID: uuid.New(), CollectionDate: &late}
	res = ValidateReturnSequence(trip, load)
	assert.Empty(t, res.Warning)

	// Missing dates never warn.
	assert.Empty(t, ValidateReturnSequence(trip, &model.Load{ID: uuid.New()}).Warning)
}

func TestValidateAddLoadToTripCollectsAllErrors(t *testing.T) {
	vehicle := testVehicle(model.BodyTypeBox, 10000, 50)
	trip := tripCarrying(8000)
	trip.Status = model.TripStatusCompleted
	trip.Loads[0].Exclusive = true

	load := &model.Load{
		ID:       uuid.New(),
		WeightKg: fptr(3000),
		Segment:  segptr(model.SegmentRefrigerated),
	}

	report := ValidateAddLoadToTrip(trip, load, vehicle, ModeComplement)
	assert.False(t, report.Valid)
	// Completed trip, dedicated conflict, body type, capacity: all reported
	// in one pass.
	assert.Len(t, report.Errors, 4)
}

func TestValidateAddLoadToTripWarningsDoNotInvalidate(t *testing.T) {
	vehicle := testVehicle(model.BodyTypeBox, 10000, 50)
	eta := time.Date(2026, 9, 2, 18, 0, 0, 0, time.UTC)
	trip := &model.Trip{
		ID:                  uuid.New(),
		Status:              model.TripStatusDelayed,
		EstimatedDeliveryAt: &eta,
	}
	early := eta.Add(-24 * time.Hour)
	load := &model.Load{ID: uuid.New(), WeightKg: fptr(1000), CollectionDate: &early}

	report := ValidateAddLoadToTrip(trip, load, vehicle, ModeReturn)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)
	assert.Len(t, report.Warnings, 2)
}

func TestCompletedTripScenario(t *testing.T) {
	vehicle := testVehicle(model.BodyTypeBox, 10000, 50)
	trip := &model.Trip{ID: uuid.New(), Status: model.TripStatusCompleted}
	load := &model.Load{ID: uuid.New(), WeightKg: fptr(100)}

	report := ValidateAddLoadToTrip(trip, load, vehicle, ModeComplement)
	require.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "cannot add cargo to a completed trip", report.Errors[0])
}
