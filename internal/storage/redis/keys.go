package redis

import (
	"fmt"

	"github.com/gabmartin/plantlibrary/internal/model"
)

// Key prefix for all catalog data
const keyPrefix = "plantlib"

// Key generation functions for each entity type

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// emailIndexKey returns the Redis key for the email -> user_id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, email)
}

// sessionKey returns the Redis key for a Session
func sessionKey(token string) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, token)
}

// greenhouseKey returns the Redis key for a Greenhouse
func greenhouseKey(id model.GreenhouseID) string {
	return fmt.Sprintf("%s:greenhouse:%s", keyPrefix, id)
}

// plantTypeKey returns the Redis key for a PlantType
func plantTypeKey(id model.PlantTypeID) string {
	return fmt.Sprintf("%s:planttype:%s", keyPrefix, id)
}

// plantKey returns the Redis key for a Plant
func plantKey(id model.PlantID) string {
	return fmt.Sprintf("%s:plant:%s", keyPrefix, id)
}

// instanceKey returns the Redis key for a PlantInstance
func instanceKey(id model.PlantInstanceID) string {
	return fmt.Sprintf("%s:instance:%s", keyPrefix, id)
}

// Index SETs used for listings and counts

func greenhouseSetKey() string {
	return fmt.Sprintf("%s:idx:greenhouses", keyPrefix)
}

func plantTypeSetKey() string {
	return fmt.Sprintf("%s:idx:planttypes", keyPrefix)
}

func plantSetKey() string {
	return fmt.Sprintf("%s:idx:plants", keyPrefix)
}

func instanceSetKey() string {
	return fmt.Sprintf("%s:idx:instances", keyPrefix)
}

// plantsByGreenhouseKey returns the SET of plant keys housed in a greenhouse
func plantsByGreenhouseKey(id model.GreenhouseID) string {
	return fmt.Sprintf("%s:idx:plants_by_greenhouse:%s", keyPrefix, id)
}

// plantsByTypeKey returns the SET of plant keys carrying a type
func plantsByTypeKey(id model.PlantTypeID) string {
	return fmt.Sprintf("%s:idx:plants_by_type:%s", keyPrefix, id)
}

// instancesByPlantKey returns the SET of instance keys for a plant
func instancesByPlantKey(id model.PlantID) string {
	return fmt.Sprintf("%s:idx:instances_by_plant:%s", keyPrefix, id)
}

// instancesByStatusKey returns the SET of instance keys in a status
func instancesByStatusKey(status model.InstanceStatus) string {
	return fmt.Sprintf("%s:idx:instances_by_status:%s", keyPrefix, status)
}
