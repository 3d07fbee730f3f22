// Package repository persists the dev backend's users, services, categories and bookings.
package repository

import (
	"context"
	"errors"
	"time"

	"levi/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Sequence names passed to NextID.
const (
	SeqUsers      = "users"
	SeqServices   = "services"
	SeqCategories = "categories"
	SeqBookings   = "bookings"
)

type UserDoc struct {
	ID             string       `bson:"id"`
	Username       string       `bson:"username"`
	Email          string       `bson:"email"`
	PasswordHash   string       `bson:"password_hash"`
	FirstName      string       `bson:"first_name"`
	LastName       string       `bson:"last_name"`
	PhoneNumber    string       `bson:"phone_number"`
	ProfilePicture string       `bson:"profile_picture"`
	IsProvider     bool         `bson:"is_provider"`
	IsAdmin        bool         `bson:"is_admin"`
	Provider       *ProviderDoc `bson:"provider,omitempty"`
	CreatedAt      time.Time    `bson:"created_at"`
}

// ProviderDoc is the provider sub-record of a user.
type ProviderDoc struct {
	Service       string   `bson:"service"`
	HourlyRate    float64  `bson:"hourly_rate"`
	IsAvailable   bool     `bson:"is_available"`
	Rating        *float64 `bson:"rating,omitempty"`
	CompletedJobs int      `bson:"completed_jobs"`
}

type ServiceDoc struct {
	ID            string   `bson:"id"`
	ProviderID    string   `bson:"provider_id"`
	CategoryID    string   `bson:"category_id"`
	Title         string   `bson:"title"`
	Description   string   `bson:"description"`
	Price         float64  `bson:"price"`
	Duration      int      `bson:"duration"`
	IsAvailable   bool     `bson:"is_available"`
	AverageRating *float64 `bson:"average_rating,omitempty"`
	ReviewCount   int      `bson:"review_count"`
	Latitude      *float64 `bson:"latitude,omitempty"`
	Longitude     *float64 `bson:"longitude,omitempty"`
}

type CategoryDoc struct {
	ID          string `bson:"id"`
	Name        string `bson:"name"`
	Description string `bson:"description"`
	Icon        string `bson:"icon"`
}

type BookingDoc struct {
	ID                 string               `bson:"id"`
	ClientID           string               `bson:"client_id"`
	ProviderID         string               `bson:"provider_id"`
	ServiceID          string               `bson:"service_id"`
	Status             models.BookingStatus `bson:"status"`
	StartTime          time.Time            `bson:"start_time"`
	EndTime            time.Time            `bson:"end_time"`
	Duration           int                  `bson:"duration"`
	Price              float64              `bson:"price"`
	LocationType       string               `bson:"location_type"`
	Address            string               `bson:"address"`
	SpecialRequests    string               `bson:"special_requests"`
	CancellationReason string               `bson:"cancellation_reason"`
	CreatedAt          time.Time            `bson:"created_at"`
	UpdatedAt          time.Time            `bson:"updated_at"`
}

// BookingQuery selects bookings. An empty ActorID matches every booking; otherwise the actor
// must be the client or the provider. An empty Status matches every status.
type BookingQuery struct {
	ActorID string
	Status  models.BookingStatus
}

// Matches reports whether b passes the query.
func (q BookingQuery) Matches(b BookingDoc) bool {
	if q.ActorID != "" && b.ClientID != q.ActorID && b.ProviderID != q.ActorID {
		return false
	}
	return q.Status == "" || b.Status == q.Status
}

// Store is implemented by MemoryStore and MongoStore. Bookings are listed newest start first.
type Store interface {
	NextID(ctx context.Context, seq string) (string, error)

	CreateUser(ctx context.Context, u *UserDoc) error
	GetUserByID(ctx context.Context, id string) (*UserDoc, error)
	GetUserByEmail(ctx context.Context, email string) (*UserDoc, error)
	UpdateUser(ctx context.Context, u *UserDoc) error

	SaveCategory(ctx context.Context, c *CategoryDoc) error
	ListCategories(ctx context.Context) ([]CategoryDoc, error)

	SaveService(ctx context.Context, s *ServiceDoc) error
	GetService(ctx context.Context, id string) (*ServiceDoc, error)
	ListServices(ctx context.Context) ([]ServiceDoc, error)

	CreateBooking(ctx context.Context, b *BookingDoc) error
	GetBooking(ctx context.Context, id string) (*BookingDoc, error)
	ListBookings(ctx context.Context, q BookingQuery) ([]BookingDoc, error)
	UpdateBooking(ctx context.Context, b *BookingDoc) error

	AppendStatusChange(ctx context.Context, c models.StatusChange) error
	StatusChanges(ctx context.Context, bookingID string) ([]models.StatusChange, error)
}
