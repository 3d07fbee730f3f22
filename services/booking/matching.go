package booking

import (
	"math"
	"sort"
	"strconv"

	"levi/models"
)

// DistanceKm returns the great-circle distance between a and b.
func DistanceKm(a, b models.GeoPoint) float64 {
	const R = 6371
	dLat := (b.Latitude - a.Latitude) * (math.Pi / 180)
	dLon := (b.Longitude - a.Longitude) * (math.Pi / 180)
	lat1Rad := a.Latitude * (math.Pi / 180)
	lat2Rad := b.Latitude * (math.Pi / 180)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return R * c
}

// RankProviders orders providers in place by key: distance ascending, rating descending
// or hourly rate ascending. Ties fall back to provider id so the order is total.
func RankProviders(providers []models.ServiceProvider, key models.SortKey) {
	sort.SliceStable(providers, func(i, j int) bool {
		a, b := providers[i], providers[j]
		switch key {
		case models.SortByRating:
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
		case models.SortByPrice:
			if a.HourlyRate != b.HourlyRate {
				return a.HourlyRate < b.HourlyRate
			}
		default:
			if a.Distance != b.Distance {
				return a.Distance < b.Distance
			}
		}
		return lessID(a.ID, b.ID)
	})
}

// lessID compares numerically when both ids are numbers; numeric ids sort first.
func lessID(a, b string) bool {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}
