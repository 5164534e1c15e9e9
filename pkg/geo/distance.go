// Package geo provides great-circle distance helpers for delivery-zone
// radius matching.
package geo

import "math"

// EarthRadiusKM is Earth's mean radius in kilometres.
const EarthRadiusKM = 6371.0

// HaversineKM calculates the great-circle distance between two points
// on Earth in kilometres using the Haversine formula.
func HaversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180
	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKM * c
}

// IsWithinRadiusKM checks if two coordinates are within radiusKM of each other.
func IsWithinRadiusKM(lat1, lng1, lat2, lng2, radiusKM float64) bool {
	return HaversineKM(lat1, lng1, lat2, lng2) <= radiusKM
}
