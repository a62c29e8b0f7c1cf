package validation

import (
	"fmt"
	"strings"

	"github.com/nurpe/freightops-trips/internal/model"
)

// segmentBodyTypes maps a cargo segment to the vehicle body types allowed to
// carry it. Segments absent from the table carry no body-type constraint.
var segmentBodyTypes = map[model.CargoSegment][]model.BodyType{
	model.SegmentGeneral:      {model.BodyTypeBox, model.BodyTypeSider, model.BodyTypeFlatbed},
	model.SegmentRefrigerated: {model.BodyTypeRefrigerated},
	model.SegmentBulk:         {model.BodyTypeGrain, model.BodyTypeFlatbed},
	model.SegmentLiquid:       {model.BodyTypeTanker},
	model.SegmentFragile:      {model.BodyTypeBox, model.BodyTypeSider},
}

// ValidateCompatibility checks the vehicle's body type against the load's
// required segment. A load with no required segment is compatible with any
// vehicle.
func ValidateCompatibility(vehicle *model.Vehicle, load *model.Load) Result {
	if load.Segment == nil {
		return OK()
	}

	allowed, ok := segmentBodyTypes[*load.Segment]
	if !ok {
		return OK()
	}

	for _, bt := range allowed {
		if vehicle.BodyType == bt {
			return OK()
		}
	}

	names := make([]string, len(allowed))
	for i, bt := range allowed {
		names[i] = string(bt)
	}
	return Block(fmt.Sprintf(
		"cargo segment %s requires body type %s, but vehicle %s has body type %s",
		*load.Segment, strings.Join(names, " or "), vehicle.Plate, vehicle.BodyType,
	))
}
