package validation

import "github.com/nurpe/freightops-trips/internal/model"

// ValidateAddLoadToTrip runs every applicable rule in a fixed order and
// collects the complete set of errors and warnings, so the caller can show
// all violations at once instead of one per attempt.
func ValidateAddLoadToTrip(trip *model.Trip, load *model.Load, vehicle *model.Vehicle, mode AssignmentMode) Report {
	report := Report{
		Errors:   []string{},
		Warnings: []string{},
	}

	report.add(ValidateTripStatus(trip))
	report.add(ValidateDedicated(trip, load))
	report.add(ValidateCompatibility(vehicle, load))
	report.add(ValidateCapacity(vehicle, trip, load, mode))
	if mode == ModeReturn {
		report.add(ValidateReturnSequence(trip, load))
	}

	report.Valid = len(report.Errors) == 0
	return report
}
