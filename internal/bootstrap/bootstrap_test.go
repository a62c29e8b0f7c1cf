package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/freightops-trips/internal/model"
)

type stubLoader struct {
	ds    *Dataset
	err   error
	calls int
}

func (s *stubLoader) Load(context.Context) (*Dataset, error) {
	s.calls++
	return s.ds, s.err
}

func TestLoadOrFixtureUsesLoaderResult(t *testing.T) {
	want := &Dataset{Trips: []model.Trip{{}}}
	loader := &stubLoader{ds: want}

	got := LoadOrFixture(context.Background(), loader, zerolog.Nop())

	assert.Same(t, want, got)
	assert.Equal(t, 1, loader.calls)
}

func TestLoadOrFixtureSingleAttemptThenFixture(t *testing.T) {
	loader := &stubLoader{err: errors.New("connection refused")}

	got := LoadOrFixture(context.Background(), loader, zerolog.Nop())

	assert.Equal(t, 1, loader.calls, "fallback must not retry")
	assert.NotEmpty(t, got.Trips)
}

func TestLoadOrFixtureNilLoader(t *testing.T) {
	got := LoadOrFixture(context.Background(), nil, zerolog.Nop())
	assert.NotEmpty(t, got.Vehicles)
}

func TestFixtureShape(t *testing.T) {
	ds := Fixture()

	require.Len(t, ds.Trips, 1)
	trip := ds.Trips[0]
	assert.Equal(t, model.DriverToBeDefined, trip.Driver)
	assert.Equal(t, model.TripStatusPlanned, trip.Status)
	assert.NotEmpty(t, trip.Plate)

	require.Len(t, ds.Vehicles, 3)
	vehicleByID := make(map[string]model.Vehicle)
	for _, v := range ds.Vehicles {
		vehicleByID[v.ID.String()] = v
	}
	assert.Equal(t, trip.Plate, vehicleByID[trip.VehicleID.String()].Plate)

	require.Len(t, ds.Loads, 3)
	for _, load := range ds.Loads {
		assert.Equal(t, model.LoadStatusPending, load.Status)
		assert.Nil(t, load.TripID)
		assert.Nil(t, load.Waybill)
	}

	var exclusive int
	for _, load := range ds.Loads {
		if load.Exclusive {
			exclusive++
		}
	}
	assert.Equal(t, 1, exclusive)

	for _, doc := range ds.AvailableDocuments {
		assert.Equal(t, model.DocumentTypeInvoice, doc.Type)
		assert.Len(t, doc.AccessKey, 44)
		assert.True(t, doc.WellFormed())
	}
}

func TestFixtureDeterministic(t *testing.T) {
	assert.Equal(t, Fixture(), Fixture())
}
