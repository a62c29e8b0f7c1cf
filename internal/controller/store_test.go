package controller

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/freightops-trips/internal/fiscal"
	"github.com/nurpe/freightops-trips/internal/model"
	"github.com/nurpe/freightops-trips/internal/validation"
)

var (
	testVehicleID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	testTripID    = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	testLoadID    = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

func fptr(v float64) *float64 { return &v }

func segptr(s model.CargoSegment) *model.CargoSegment { return &s }

func testState() State {
	return State{
		Vehicles: []model.Vehicle{{
			ID:         testVehicleID,
			Plate:      "BRA2E19",
			Class:      model.VehicleClassTruck,
			BodyType:   model.BodyTypeBox,
			CapacityKg: 10000,
			CapacityM3: 50,
			Status:     model.VehicleStatusAvailable,
		}},
		Trips: []model.Trip{{
			ID:        testTripID,
			Driver:    "Carlos Mendes",
			VehicleID: testVehicleID,
			Plate:     "BRA2E19",
			Status:    model.TripStatusPlanned,
		}},
		Loads: []model.Load{{
			ID:          testLoadID,
			Origin:      "Sao Paulo",
			Destination: strptr("Campinas"),
			WeightKg:    fptr(3000),
			Segment:     segptr(model.SegmentGeneral),
			Status:      model.LoadStatusPending,
		}},
	}
}

func strptr(s string) *string { return &s }

func newTestStore(t *testing.T) *Store {
	t.Helper()
	issuer := fiscal.NewIssuer(0.35, 450)
	return NewStore(testState(), issuer, zerolog.Nop())
}

func attach(t *testing.T, store *Store) {
	t.Helper()
	out, err := store.AttachLoadToTrip(AttachInput{
		TripID:    testTripID,
		LoadID:    testLoadID,
		Mode:      validation.ModeComplement,
		Recipient: "Distribuidora Ipiranga",
		Documents: []model.Document{{
			Type:      model.DocumentTypeInvoice,
			Number:    "NF-100",
			AccessKey: "KEY-100",
		}},
	})
	require.NoError(t, err)
	require.True(t, out.Applied, "attach rejected: %+v", out.Report)
}

func emit(t *testing.T, store *Store) model.Waybill {
	t.Helper()
	out, err := store.EmitWaybill(testLoadID)
	require.NoError(t, err)
	require.True(t, out.Applied, "emission rejected: %s", out.Result.Error)
	load, err := store.Load(testLoadID)
	require.NoError(t, err)
	require.NotNil(t, load.Waybill)
	return *load.Waybill
}

func TestAttachLoadToTrip(t *testing.T) {
	store := newTestStore(t)
	attach(t, store)

	load, err := store.Load(testLoadID)
	require.NoError(t, err)
	assert.Equal(t, model.LoadStatusScheduled, load.Status)
	require.NotNil(t, load.TripID)
	assert.Equal(t, testTripID, *load.TripID)

	trip, err := store.Trip(testTripID)
	require.NoError(t, err)
	require.Len(t, trip.Legs, 1)
	assert.True(t, trip.Legs[0].IsCargo())
	assert.Equal(t, "Campinas", trip.Legs[0].Destination)
	require.Len(t, trip.Legs[0].Cargo.Deliveries, 1)
	require.Len(t, trip.Loads, 1)
	assert.Equal(t, testLoadID, trip.Loads[0].ID)
}

func TestAttachRejectsOverweightWithoutMutating(t *testing.T) {
	heavy := testState()
	heavy.Loads[0].WeightKg = fptr(15000)
	store := NewStore(heavy, fiscal.NewIssuer(0.35, 450), zerolog.Nop())
	before := store.Snapshot()

	out, err := store.AttachLoadToTrip(AttachInput{
		TripID: testTripID,
		LoadID: testLoadID,
		Mode:   validation.ModeComplement,
	})
	require.NoError(t, err)
	assert.False(t, out.Applied)
	assert.False(t, out.Report.Valid)
	assert.NotEmpty(t, out.Report.Errors)

	// Rejected mutations never publish a new generation.
	assert.Same(t, before, store.Snapshot())
}

func TestAttachWarningHeldUntilConfirmed(t *testing.T) {
	state := testState()
	state.Trips[0].Status = model.TripStatusDelayed
	before := model.TripStatusInTransit
	state.Trips[0].StatusBeforeDelay = &before
	store := NewStore(state, fiscal.NewIssuer(0.35, 450), zerolog.Nop())

	in := AttachInput{TripID: testTripID, LoadID: testLoadID, Mode: validation.ModeComplement}
	out, err := store.AttachLoadToTrip(in)
	require.NoError(t, err)
	assert.True(t, out.Report.Valid)
	assert.NotEmpty(t, out.Report.Warnings)
	assert.False(t, out.Applied)

	in.Confirmed = true
	out, err = store.AttachLoadToTrip(in)
	require.NoError(t, err)
	assert.True(t, out.Applied)
}

func TestSnapshotIsolation(t *testing.T) {
	store := newTestStore(t)
	snap := store.Snapshot()

	attach(t, store)

	// The generation captured before the mutation is untouched.
	assert.Equal(t, model.LoadStatusPending, snap.Loads[0].Status)
	assert.Empty(t, snap.Trips[0].Legs)
	assert.NotSame(t, snap, store.Snapshot())
}

func TestEmitWaybillSyncsBothCollections(t *testing.T) {
	store := newTestStore(t)
	attach(t, store)
	wb := emit(t, store)

	assert.Equal(t, model.FiscalStatusAuthorized, wb.Status)

	load, _ := store.Load(testLoadID)
	trip, _ := store.Trip(testTripID)
	assert.Equal(t, model.LoadStatusEmitted, load.Status)
	require.NotNil(t, trip.Loads[0].Waybill)
	assert.Equal(t, wb.Number, trip.Loads[0].Waybill.Number)
	assert.Equal(t, model.LoadStatusEmitted, trip.Loads[0].Status)

	// The waybill document lands in the delivery papers referencing the
	// invoice access keys present there.
	docs := trip.Legs[0].Cargo.Deliveries[0].Documents
	require.Len(t, docs, 2)
	assert.Equal(t, model.DocumentTypeWaybill, docs[1].Type)
	assert.Equal(t, wb.Number, docs[1].Number)
	assert.Equal(t, []string{"KEY-100"}, docs[1].ReferencedKeys)
	assert.Equal(t, model.FiscalStatusAuthorized, docs[1].Status)
}

func TestEmitWaybillBlockedWithoutConfirmedDriver(t *testing.T) {
	state := testState()
	state.Trips[0].Driver = model.DriverToBeDefined
	store := NewStore(state, fiscal.NewIssuer(0.35, 450), zerolog.Nop())
	attach(t, store)

	out, err := store.EmitWaybill(testLoadID)
	require.NoError(t, err)
	assert.False(t, out.Applied)
	assert.Contains(t, out.Result.Error, "driver")
}

func TestCancelWaybillRestoresScheduled(t *testing.T) {
	store := newTestStore(t)
	attach(t, store)
	wb := emit(t, store)

	out, err := store.CancelWaybill(testLoadID)
	require.NoError(t, err)
	require.True(t, out.Applied)

	load, _ := store.Load(testLoadID)
	assert.Nil(t, load.Waybill)
	assert.Equal(t, model.LoadStatusScheduled, load.Status)
	require.Len(t, load.WaybillHistory, 1)
	assert.Equal(t, wb.Number, load.WaybillHistory[0].Number)
	assert.Equal(t, model.FiscalStatusCancelled, load.WaybillHistory[0].Status)

	trip, _ := store.Trip(testTripID)
	assert.Nil(t, trip.Loads[0].Waybill)
	docs := trip.Legs[0].Cargo.Deliveries[0].Documents
	assert.Equal(t, model.FiscalStatusCancelled, docs[1].Status)

	// A fresh emission after cancellation issues a new record.
	reissued := emit(t, store)
	assert.NotEqual(t, wb.Number, reissued.Number)
}

func TestCancelWithoutWaybill(t *testing.T) {
	store := newTestStore(t)
	out, err := store.CancelWaybill(testLoadID)
	require.NoError(t, err)
	assert.False(t, out.Applied)
	assert.False(t, out.Result.Valid)
}

func TestDriverAndVehicleLockedAfterEmission(t *testing.T) {
	store := newTestStore(t)
	attach(t, store)
	emit(t, store)

	out, err := store.ChangeDriver(testTripID, "Joao Pereira")
	require.NoError(t, err)
	assert.False(t, out.Applied)

	out, err = store.ChangeVehicle(testTripID, testVehicleID)
	require.NoError(t, err)
	assert.False(t, out.Applied)

	// Cancelling the waybill releases both.
	_, err = store.CancelWaybill(testLoadID)
	require.NoError(t, err)

	out, err = store.ChangeDriver(testTripID, "Joao Pereira")
	require.NoError(t, err)
	assert.True(t, out.Applied)
	trip, _ := store.Trip(testTripID)
	assert.Equal(t, "Joao Pereira", trip.Driver)
}

func TestChangeDriverEmptyResetsPlaceholder(t *testing.T) {
	store := newTestStore(t)
	out, err := store.ChangeDriver(testTripID, "   ")
	require.NoError(t, err)
	require.True(t, out.Applied)
	trip, _ := store.Trip(testTripID)
	assert.Equal(t, model.DriverToBeDefined, trip.Driver)
}

func TestAdvanceTripFullRun(t *testing.T) {
	store := newTestStore(t)
	attach(t, store)
	emit(t, store)

	out, err := store.AdvanceTrip(AdvanceInput{TripID: testTripID, Next: model.TripStatusPickingUp})
	require.NoError(t, err)
	require.True(t, out.Applied, "pickup rejected: %s", out.Result.Error)

	vehicle, _ := store.Vehicle(testVehicleID)
	assert.Equal(t, model.VehicleStatusInUse, vehicle.Status)

	out, err = store.AdvanceTrip(AdvanceInput{TripID: testTripID, Next: model.TripStatusInTransit})
	require.NoError(t, err)
	require.True(t, out.Applied)

	out, err = store.AdvanceTrip(AdvanceInput{TripID: testTripID, Next: model.TripStatusCompleted, ProofOfDelivery: "POD-42"})
	require.NoError(t, err)
	require.True(t, out.Applied)

	trip, _ := store.Trip(testTripID)
	assert.Equal(t, model.TripStatusCompleted, trip.Status)
	require.NotNil(t, trip.CompletedAt)
	assert.WithinDuration(t, time.Now().UTC(), *trip.CompletedAt, time.Minute)
	assert.Equal(t, model.DeliveryStatusDelivered, trip.Legs[0].Cargo.Deliveries[0].Status)
	assert.Equal(t, model.LoadStatusDelivered, trip.Loads[0].Status)

	load, _ := store.Load(testLoadID)
	assert.Equal(t, model.LoadStatusDelivered, load.Status)

	vehicle, _ = store.Vehicle(testVehicleID)
	assert.Equal(t, model.VehicleStatusAvailable, vehicle.Status)
}

func TestAdvanceTripDelayedBookkeeping(t *testing.T) {
	store := newTestStore(t)
	attach(t, store)
	emit(t, store)

	mustAdvance := func(next model.TripStatus, proof string) {
		out, err := store.AdvanceTrip(AdvanceInput{TripID: testTripID, Next: next, ProofOfDelivery: proof})
		require.NoError(t, err)
		require.True(t, out.Applied, "move to %s rejected: %s", next, out.Result.Error)
	}

	mustAdvance(model.TripStatusPickingUp, "")
	mustAdvance(model.TripStatusInTransit, "")
	mustAdvance(model.TripStatusDelayed, "")

	trip, _ := store.Trip(testTripID)
	require.NotNil(t, trip.StatusBeforeDelay)
	assert.Equal(t, model.TripStatusInTransit, *trip.StatusBeforeDelay)

	// Resuming anywhere but the recorded status is blocked.
	out, err := store.AdvanceTrip(AdvanceInput{TripID: testTripID, Next: model.TripStatusPickingUp})
	require.NoError(t, err)
	assert.False(t, out.Applied)

	mustAdvance(model.TripStatusInTransit, "")
	trip, _ = store.Trip(testTripID)
	assert.Nil(t, trip.StatusBeforeDelay)
}

func TestAdvanceBlockedWhenVehicleBusy(t *testing.T) {
	state := testState()
	state.Trips = append(state.Trips, model.Trip{
		ID:        uuid.New(),
		Driver:    "Rafael Costa",
		VehicleID: testVehicleID,
		Plate:     "BRA2E19",
		Status:    model.TripStatusInTransit,
	})
	store := NewStore(state, fiscal.NewIssuer(0.35, 450), zerolog.Nop())
	attach(t, store)
	emit(t, store)

	out, err := store.AdvanceTrip(AdvanceInput{TripID: testTripID, Next: model.TripStatusPickingUp})
	require.NoError(t, err)
	assert.False(t, out.Applied)
	assert.Contains(t, out.Result.Error, "already in use")
}

func TestIssueManifest(t *testing.T) {
	store := newTestStore(t)
	attach(t, store)

	out, err := store.IssueManifest(testTripID)
	require.NoError(t, err)
	assert.False(t, out.Applied, "manifest issued without fiscal readiness")

	wb := emit(t, store)
	out, err = store.IssueManifest(testTripID)
	require.NoError(t, err)
	require.True(t, out.Applied)

	trip, _ := store.Trip(testTripID)
	require.NotNil(t, trip.Manifest)
	assert.Equal(t, []string{wb.Number}, trip.Manifest.WaybillNumbers)
	assert.Equal(t, model.FiscalStatusAuthorized, trip.Manifest.Status)
}

func TestUnknownIDs(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Trip(uuid.New())
	assert.ErrorIs(t, err, ErrTripNotFound)
	_, err = store.Load(uuid.New())
	assert.ErrorIs(t, err, ErrLoadNotFound)
	_, err = store.EmitWaybill(uuid.New())
	assert.ErrorIs(t, err, ErrLoadNotFound)
	_, err = store.AttachLoadToTrip(AttachInput{TripID: uuid.New(), LoadID: testLoadID})
	assert.ErrorIs(t, err, ErrTripNotFound)
}

func TestDeliveryHierarchyRead(t *testing.T) {
	store := newTestStore(t)
	attach(t, store)
	wb := emit(t, store)

	trip, _ := store.Trip(testTripID)
	deliveryID := trip.Legs[0].Cargo.Deliveries[0].ID

	h, err := store.DeliveryHierarchy(testTripID, deliveryID)
	require.NoError(t, err)
	require.Len(t, h.Groups, 1)
	assert.Equal(t, wb.Number, h.Groups[0].Waybill.Number)
	require.Len(t, h.Groups[0].Invoices, 1)
	assert.Equal(t, "NF-100", h.Groups[0].Invoices[0].Number)

	_, err = store.DeliveryHierarchy(testTripID, uuid.New())
	assert.ErrorIs(t, err, ErrLegNotFound)
}
