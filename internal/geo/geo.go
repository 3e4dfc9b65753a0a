// Package geo provides great-circle distance helpers for location fixes.
package geo

import (
	"math"

	"github.com/rcliao/timeslots/internal/model"
)

const earthRadius = 6371000 // meters

// Haversine returns the great-circle distance in meters between two coordinates.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// Distance returns the distance in meters between two locations.
func Distance(a, b model.Location) float64 {
	return Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
}

// Speed returns the implied speed in m/s travelling from a to b.
// It is zero when b is not later than a.
func Speed(a, b model.Location) float64 {
	dt := b.Timestamp.Sub(a.Timestamp).Seconds()
	if dt <= 0 {
		return 0
	}
	return Distance(a, b) / dt
}
