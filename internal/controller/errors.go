package controller

import "errors"

var (
	ErrTripNotFound    = errors.New("trip not found")
	ErrLoadNotFound    = errors.New("load not found")
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrLegNotFound     = errors.New("leg not found")
)
