package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Catalog errors
	ErrGreenhouseNotFound    = errors.New("greenhouse not found")
	ErrPlantTypeNotFound     = errors.New("plant type not found")
	ErrPlantNotFound         = errors.New("plant not found")
	ErrPlantInstanceNotFound = errors.New("plant instance not found")

	// Delete guards: a parent record cannot go while children reference it
	ErrGreenhouseHasPlants = errors.New("greenhouse still has plants")
	ErrPlantTypeInUse      = errors.New("plant type is still assigned to plants")
	ErrPlantHasInstances   = errors.New("plant still has instances")
)
