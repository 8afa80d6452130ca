package services

import (
	"errors"

	"amazonia/pkg/utils"
)

const (
	checkInSuccess  = "success"
	checkInTooFar   = "too_far"
	checkInRejected = "rejected"
	checkInError    = "error"
)

// geofence returns the distance between the visitor and the target, or a
// GeoError when it exceeds radius.
func geofence(target, visitor utils.Coordinate, radius float64) (float64, error) {
	if !utils.ValidCoordinate(visitor) {
		return 0, utils.ErrInvalidCoordinates
	}
	d := utils.HaversineMeters(target, visitor)
	if d > radius {
		return d, &utils.GeoError{DistanceMeters: d, RadiusMeters: radius}
	}
	return d, nil
}

func radiusOrDefault(radius, fallback float64) float64 {
	if radius > 0 {
		return radius
	}
	return fallback
}

func checkInOutcome(err error) string {
	switch {
	case err == nil:
		return checkInSuccess
	case errors.Is(err, utils.ErrTooFar):
		return checkInTooFar
	case errors.Is(err, utils.ErrDatabaseError):
		return checkInError
	default:
		if code, _ := utils.Classify(err); code >= 500 {
			return checkInError
		}
		return checkInRejected
	}
}
