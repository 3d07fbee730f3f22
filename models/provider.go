package models

import "fmt"

// ServiceProvider is a marketplace actor offering one service category.
type ServiceProvider struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Service           string  `json:"service"`
	Rating            float64 `json:"rating"`
	Distance          float64 `json:"distance"` // km
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	IsAvailable       bool    `json:"isAvailable"`
	Avatar            string  `json:"avatar"`
	HourlyRate        float64 `json:"hourlyRate"`
	CompletedJobs     int     `json:"completedJobs"`
	Phone             string  `json:"phone,omitempty"`
	IsServiceProvider bool    `json:"isServiceProvider"`
}

// SortKey orders GetProviders results.
type SortKey string

const (
	SortByDistance SortKey = "distance"
	SortByRating   SortKey = "rating"
	SortByPrice    SortKey = "price"
)

// ParseSortKey defaults an empty key to distance.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "":
		return SortByDistance, nil
	case SortByDistance, SortByRating, SortByPrice:
		return SortKey(s), nil
	default:
		return "", fmt.Errorf("unknown sort key: %q", s)
	}
}

// GeoPoint is a latitude/longitude pair in degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Category is a service category listed on the discover screen.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}
