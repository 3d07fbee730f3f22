package gateway

import (
	"net/url"
	"strings"
	"time"

	"levi/models"
	"levi/services/booking"
)

// Defaults applied when the backend omits a field.
const (
	DefaultRating      = 4.5
	placeholderAvatars = "https://ui-avatars.com/api/?name="
	unknownProvider    = "Unknown"
	genericService     = "Service"
)

// PlaceholderAvatar derives a stable avatar URL from a display name.
func PlaceholderAvatar(name string) string {
	return placeholderAvatars + url.QueryEscape(name)
}

func toBooking(rec models.BookingRecord, loc *time.Location) models.Booking {
	name := strings.TrimSpace(rec.ProviderName)
	if name == "" {
		name = unknownProvider
	}
	serviceType := rec.ServiceTitle
	if serviceType == "" {
		serviceType = genericService
	}
	b := models.Booking{
		ID:                  rec.ID.String(),
		ServiceProviderID:   rec.Provider.String(),
		ServiceProviderName: name,
		ServiceType:         serviceType,
		Status:              models.BookingStatus(strings.ToLower(rec.Status)),
		Avatar:              rec.ProviderAvatar,
		ClientID:            rec.Client.String(),
		ClientName:          rec.ClientName,
	}
	if b.ServiceProviderID == "" {
		b.ServiceProviderID = rec.ProviderName
	}
	if b.Avatar == "" {
		b.Avatar = PlaceholderAvatar(name)
	}
	if rec.Price.Valid {
		b.Price = rec.Price.Decimal.InexactFloat64()
	}
	if !rec.StartTime.IsZero() {
		start := rec.StartTime.In(loc)
		b.Date = start.Format(models.DateLayout)
		b.Time = start.Format(models.TimeLayout)
	}
	return b
}

func toProvider(rec models.ServiceRecord, origin *models.GeoPoint) models.ServiceProvider {
	name := strings.TrimSpace(rec.ProviderName)
	if name == "" {
		name = unknownProvider
	}
	service := rec.CategoryName
	if service == "" {
		service = rec.Title
	}
	p := models.ServiceProvider{
		ID:                rec.ID.String(),
		Name:              name,
		Service:           service,
		Rating:            DefaultRating,
		IsAvailable:       rec.IsAvailable,
		Avatar:            rec.ProviderAvatar,
		CompletedJobs:     rec.ReviewCount,
		Phone:             rec.Phone,
		IsServiceProvider: true,
	}
	if rec.AverageRating != nil {
		p.Rating = *rec.AverageRating
	}
	if rec.Price.Valid {
		p.HourlyRate = rec.Price.Decimal.InexactFloat64()
	}
	if p.Avatar == "" {
		p.Avatar = PlaceholderAvatar(name)
	}

	hasCoords := rec.Latitude != nil && rec.Longitude != nil
	if hasCoords {
		p.Latitude, p.Longitude = *rec.Latitude, *rec.Longitude
	}
	switch {
	case origin != nil && hasCoords:
		p.Distance = booking.DistanceKm(*origin, models.GeoPoint{Latitude: p.Latitude, Longitude: p.Longitude})
	case rec.Distance != nil:
		p.Distance = *rec.Distance
	}
	return p
}

func toProfile(rec models.ProfileRecord) models.UserProfile {
	u := rec.User
	p := models.UserProfile{
		ID:                u.ID.String(),
		Name:              u.FullName(),
		Email:             u.Email,
		Phone:             u.PhoneNumber,
		Avatar:            u.ProfilePicture,
		IsServiceProvider: u.IsProvider,
		IsAdmin:           u.IsAdmin,
	}
	if p.Avatar == "" {
		p.Avatar = PlaceholderAvatar(p.Name)
	}
	if !u.IsProvider {
		return p
	}
	pp := &models.ProviderProfile{Rating: DefaultRating}
	if r := rec.ProviderProfile; r != nil {
		pp.Service = r.Service
		pp.IsAvailable = r.IsAvailable
		pp.CompletedJobs = r.CompletedJobs
		if r.HourlyRate.Valid {
			pp.HourlyRate = r.HourlyRate.Decimal.InexactFloat64()
		}
		if r.Rating != nil {
			pp.Rating = *r.Rating
		}
	}
	p.ServiceProviderProfile = pp
	return p
}

func toCategory(rec models.CategoryRecord) models.Category {
	return models.Category{
		ID:          rec.ID.String(),
		Name:        rec.Name,
		Description: rec.Description,
		Icon:        rec.Icon,
	}
}
