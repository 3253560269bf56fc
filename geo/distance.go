package geo

import "math"

// EarthRadiusKM is the sphere radius used for all great-circle math.
const EarthRadiusKM = 6372.8

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HaversineKM returns the great-circle distance in kilometers between
// (lat1, lon1) and (lat2, lon2). Arguments are latitude first.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return EarthRadiusKM * 2 * math.Asin(math.Sqrt(a))
}

// DistanceKM returns the great-circle distance between two points.
func DistanceKM(a, b Point) float64 {
	return HaversineKM(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// WalkingTimeSeconds converts a walking distance into seconds at the
// given speed.
func WalkingTimeSeconds(distanceKM, speedKMH float64) float64 {
	return distanceKM / speedKMH * 3600
}

// ValidCoordinates reports whether lat/lon fall in the geographic range.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
