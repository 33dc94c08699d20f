package places

import (
	"math"

	"github.com/AurisAASI/backend-core/internal/model"
)

const earthRadiusMeters = 6371000

// haversineMeters returns the great-circle distance between two WGS84
// coordinates in meters.
func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// isDuplicateLocation reports whether the coordinate falls within radiusM of
// any already accepted candidate. Catches the same storefront listed under
// multiple place IDs.
func isDuplicateLocation(lat, lng float64, accepted []model.Place, radiusM float64) bool {
	for _, p := range accepted {
		if haversineMeters(lat, lng, p.Latitude, p.Longitude) <= radiusM {
			return true
		}
	}
	return false
}
