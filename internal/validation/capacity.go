package validation

import (
	"fmt"

	"github.com/nurpe/freightops-trips/internal/model"
)

// AssignmentMode states how a load joins a trip. Complement adds the load to
// the outbound route, so capacity already committed to the trip's cargo legs
// counts against it. Return assumes the vehicle comes back empty and the full
// capacity is available again.
type AssignmentMode string

const (
	ModeComplement AssignmentMode = "complement"
	ModeReturn     AssignmentMode = "return"
)

// ValidateCapacity checks the proposed load's weight and volume against the
// vehicle's remaining capacity. Exactly filling the vehicle is valid; only
// exceeding it blocks.
func ValidateCapacity(vehicle *model.Vehicle, trip *model.Trip, load *model.Load, mode AssignmentMode) Result {
	assignedKg := 0.0
	assignedM3 := 0.0
	if mode == ModeComplement && trip != nil {
		assignedKg = trip.AssignedWeightKg()
		assignedM3 = trip.AssignedVolumeM3()
	}

	availableKg := vehicle.CapacityKg - assignedKg
	if w := load.WeightOrZero(); w > availableKg {
		return Block(fmt.Sprintf(
			"load weight %.0fkg exceeds available capacity of %.0fkg on vehicle %s",
			w, availableKg, vehicle.Plate,
		))
	}

	availableM3 := vehicle.CapacityM3 - assignedM3
	if v := load.VolumeOrZero(); v > availableM3 {
		return Block(fmt.Sprintf(
			"load volume %.1fm3 exceeds available capacity of %.1fm3 on vehicle %s",
			v, availableM3, vehicle.Plate,
		))
	}

	return OK()
}
