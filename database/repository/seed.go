package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "password123"

type seedProvider struct {
	username, email, first, last, phone string
	category, title                     string
	price                               float64
	lat, lon                            float64
}

var seedCategories = []CategoryDoc{
	{Name: "Plumbing", Description: "Plumbing services including repairs and installations", Icon: "water-outline"},
	{Name: "Electrical", Description: "Electrical repairs, wiring, and safety inspections", Icon: "flash-outline"},
	{Name: "House Cleaning", Description: "Standard and deep cleaning for homes", Icon: "sparkles-outline"},
	{Name: "Gardening", Description: "Lawn care, landscaping, and gardening", Icon: "leaf-outline"},
	{Name: "Moving", Description: "Help with moving boxes and furniture", Icon: "car-outline"},
	{Name: "Painting", Description: "Interior and external painting", Icon: "color-palette-outline"},
	{Name: "Carpentry", Description: "Woodwork, repairs, and custom furniture", Icon: "construct-outline"},
	{Name: "HVAC", Description: "Heating, Ventilation, and Air Conditioning services", Icon: "thermometer-outline"},
}

var seedProviders = []seedProvider{
	{"john_plumber", "john@example.com", "John", "Doe", "+15550011001", "Plumbing", "Expert Plumbing Services", 85, 37.7849, -122.4094},
	{"jane_electric", "jane@example.com", "Jane", "Smith", "+15550011002", "Electrical", "Licensed Electrician", 95, 37.7899, -122.4074},
	{"mike_gardener", "mike@example.com", "Mike", "Green", "+15550011003", "Gardening", "Green Thumb Gardening", 60, 37.7879, -122.4114},
	{"sarah_cleaner", "sarah@example.com", "Sarah", "Clean", "+15550011004", "House Cleaning", "Spotless Home Cleaning", 45, 37.7869, -122.4064},
}

// Seed fills an empty store with the demo categories, providers, a consumer and an admin.
// A store that already has categories is left untouched.
func Seed(ctx context.Context, store Store, logger *zap.Logger) error {
	existing, err := store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to check seed state: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("Store already seeded", zap.Int("categories", len(existing)))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	catIDs := make(map[string]string, len(seedCategories))
	for _, c := range seedCategories {
		id, err := store.NextID(ctx, SeqCategories)
		if err != nil {
			return err
		}
		c.ID = id
		if err := store.SaveCategory(ctx, &c); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.Name, err)
		}
		catIDs[c.Name] = id
	}

	now := time.Now().UTC()
	for _, p := range seedProviders {
		u, err := newSeedUser(ctx, store, p.username, p.email, p.first, p.last, p.phone, string(hash), now)
		if err != nil {
			return err
		}
		u.IsProvider = true
		u.Provider = &ProviderDoc{Service: p.category, HourlyRate: p.price, IsAvailable: true}
		if err := store.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("failed to seed provider %s: %w", p.username, err)
		}

		svcID, err := store.NextID(ctx, SeqServices)
		if err != nil {
			return err
		}
		lat, lon := p.lat, p.lon
		svc := &ServiceDoc{
			ID:          svcID,
			ProviderID:  u.ID,
			CategoryID:  catIDs[p.category],
			Title:       p.title,
			Description: fmt.Sprintf("Professional %s services. Quality guaranteed.", p.category),
			Price:       p.price,
			Duration:    60,
			IsAvailable: true,
			Latitude:    &lat,
			Longitude:   &lon,
		}
		if err := store.SaveService(ctx, svc); err != nil {
			return fmt.Errorf("failed to seed service %s: %w", p.title, err)
		}
	}

	demo, err := newSeedUser(ctx, store, "demo_user", "demo@example.com", "Demo", "User", "+15559998888", string(hash), now)
	if err != nil {
		return err
	}
	if err := store.CreateUser(ctx, demo); err != nil {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}

	admin, err := newSeedUser(ctx, store, "admin", "admin@example.com", "Site", "Admin", "", string(hash), now)
	if err != nil {
		return err
	}
	admin.IsAdmin = true
	if err := store.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	logger.Info("Seeded store",
		zap.Int("categories", len(seedCategories)),
		zap.Int("providers", len(seedProviders)),
	)
	return nil
}

func newSeedUser(ctx context.Context, store Store, username, email, first, last, phone, hash string, now time.Time) (*UserDoc, error) {
	id, err := store.NextID(ctx, SeqUsers)
	if err != nil {
		return nil, err
	}
	return &UserDoc{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    first,
		LastName:     last,
		PhoneNumber:  phone,
		CreatedAt:    now,
	}, nil
}
