package model

import "github.com/google/uuid"

type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "AVAILABLE"
	VehicleStatusInUse       VehicleStatus = "IN_USE"
	VehicleStatusMaintenance VehicleStatus = "MAINTENANCE"
)

type VehicleClass string

const (
	VehicleClassTruck       VehicleClass = "TRUCK"
	VehicleClassSemiTrailer VehicleClass = "SEMI_TRAILER"
	VehicleClassRoadTrain   VehicleClass = "ROAD_TRAIN"
)

type BodyType string

const (
	BodyTypeBox          BodyType = "BOX"
	BodyTypeRefrigerated BodyType = "REFRIGERATED"
	BodyTypeSider        BodyType = "SIDER"
	BodyTypeFlatbed      BodyType = "FLATBED"
	BodyTypeTanker       BodyType = "TANKER"
	BodyTypeGrain        BodyType = "GRAIN"
)

// Vehicle capacity is a hard ceiling; validators never infer headroom from
// anything other than CapacityKg/CapacityM3.
type Vehicle struct {
	ID         uuid.UUID
	Plate      string
	Class      VehicleClass
	BodyType   BodyType
	CapacityKg float64
	CapacityM3 float64
	Status     VehicleStatus
}
