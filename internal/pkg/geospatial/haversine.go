package geospatial

import "math"

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// NearestIndex returns the index of the coordinate closest to (lat, lon),
// or -1 when n is zero. at(i) yields the i-th coordinate. Ties keep the
// first index seen.
func NearestIndex(lat, lon float64, n int, at func(i int) (float64, float64)) int {
	nearest := -1
	best := 0.0
	for i := 0; i < n; i++ {
		vLat, vLon := at(i)
		d := Haversine(vLat, vLon, lat, lon)
		if nearest == -1 || d < best {
			nearest = i
			best = d
		}
	}
	return nearest
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
