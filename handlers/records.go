package handlers

import (
	"context"

	"levi/database/repository"
	"levi/models"

	"github.com/shopspring/decimal"
)

func price(v float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(v))
}

func userRecord(u *repository.UserDoc) models.UserRecord {
	return models.UserRecord{
		ID:             models.FlexID(u.ID),
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		PhoneNumber:    u.PhoneNumber,
		ProfilePicture: u.ProfilePicture,
		IsProvider:     u.IsProvider,
		IsAdmin:        u.IsAdmin,
	}
}

func profileRecord(u *repository.UserDoc) models.ProfileRecord {
	rec := models.ProfileRecord{User: userRecord(u)}
	if u.IsProvider && u.Provider != nil {
		rec.ProviderProfile = &models.ProviderProfileRecord{
			Service:       u.Provider.Service,
			HourlyRate:    price(u.Provider.HourlyRate),
			IsAvailable:   u.Provider.IsAvailable,
			Rating:        u.Provider.Rating,
			CompletedJobs: u.Provider.CompletedJobs,
		}
	}
	return rec
}

// serviceRecord joins a service with its provider and category. Lookup failures leave the
// joined fields empty.
func serviceRecord(ctx context.Context, store repository.Store, s repository.ServiceDoc, categories map[string]repository.CategoryDoc) models.ServiceRecord {
	rec := models.ServiceRecord{
		ID:            models.FlexID(s.ID),
		Provider:      models.FlexID(s.ProviderID),
		Category:      models.FlexID(s.CategoryID),
		Title:         s.Title,
		Price:         price(s.Price),
		IsAvailable:   s.IsAvailable,
		AverageRating: s.AverageRating,
		ReviewCount:   s.ReviewCount,
		Latitude:      s.Latitude,
		Longitude:     s.Longitude,
	}
	if c, ok := categories[s.CategoryID]; ok {
		rec.CategoryName = c.Name
	}
	if p, err := store.GetUserByID(ctx, s.ProviderID); err == nil {
		rec.ProviderName = userRecord(p).FullName()
		rec.ProviderAvatar = p.ProfilePicture
		rec.Phone = p.PhoneNumber
		if p.Provider != nil {
			rec.IsAvailable = rec.IsAvailable && p.Provider.IsAvailable
			if rec.AverageRating == nil {
				rec.AverageRating = p.Provider.Rating
			}
		}
	}
	return rec
}

func categoryIndex(ctx context.Context, store repository.Store) (map[string]repository.CategoryDoc, error) {
	cats, err := store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]repository.CategoryDoc, len(cats))
	for _, c := range cats {
		idx[c.ID] = c
	}
	return idx, nil
}

// bookingRecord joins a booking with its parties and service.
func bookingRecord(ctx context.Context, store repository.Store, b repository.BookingDoc) models.BookingRecord {
	rec := models.BookingRecord{
		ID:                 models.FlexID(b.ID),
		Client:             models.FlexID(b.ClientID),
		Provider:           models.FlexID(b.ProviderID),
		Service:            models.FlexID(b.ServiceID),
		Status:             string(b.Status),
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		Duration:           b.Duration,
		Price:              price(b.Price),
		LocationType:       b.LocationType,
		Address:            b.Address,
		SpecialRequests:    b.SpecialRequests,
		CancellationReason: b.CancellationReason,
	}
	if p, err := store.GetUserByID(ctx, b.ProviderID); err == nil {
		rec.ProviderName = userRecord(p).FullName()
		rec.ProviderAvatar = p.ProfilePicture
	}
	if cl, err := store.GetUserByID(ctx, b.ClientID); err == nil {
		rec.ClientName = userRecord(cl).FullName()
	}
	if b.ServiceID != "" {
		if s, err := store.GetService(ctx, b.ServiceID); err == nil {
			rec.ServiceTitle = s.Title
		}
	}
	return rec
}
