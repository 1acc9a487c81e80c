package model

// GreenhouseID uniquely identifies a greenhouse
type GreenhouseID string

// PlantTypeID uniquely identifies a plant type
type PlantTypeID string

// PlantID uniquely identifies a plant
type PlantID string

// PlantInstanceID uniquely identifies a physical specimen
type PlantInstanceID string

// Greenhouse is a location that houses plants
type Greenhouse struct {
	ID       GreenhouseID
	Name     string
	Location string
}

// PlantType is a category a plant can belong to
type PlantType struct {
	ID   PlantTypeID
	Name string
}

// Plant is a catalog entry for a species/variety on offer
type Plant struct {
	ID           PlantID
	Name         string
	GreenhouseID GreenhouseID
	Price        float64
	TypeIDs      []PlantTypeID
}

// InstanceStatus is the availability state of a plant instance
type InstanceStatus string

const (
	StatusAvailable   InstanceStatus = "Available"
	StatusMaintenance InstanceStatus = "Maintenance"
	StatusReserved    InstanceStatus = "Reserved"
)

// InstanceStatuses lists the valid statuses in display order
var InstanceStatuses = []InstanceStatus{StatusAvailable, StatusMaintenance, StatusReserved}

// ValidStatus reports whether s is a known instance status
func ValidStatus(s InstanceStatus) bool {
	switch s {
	case StatusAvailable, StatusMaintenance, StatusReserved:
		return true
	}
	return false
}

// PlantInstance is one physical specimen of a plant
type PlantInstance struct {
	ID      PlantInstanceID
	PlantID PlantID
	Imprint string // batch/provenance marking
	Status  InstanceStatus
}
