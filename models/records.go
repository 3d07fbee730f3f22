package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FlexID accepts identifiers encoded either as JSON numbers or strings.
type FlexID string

func (id *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", string(b), err)
	}
	*id = FlexID(n.String())
	return nil
}

func (id FlexID) String() string {
	return string(id)
}

// BookingRecord is the raw booking shape exchanged with the backend.
type BookingRecord struct {
	ID                 FlexID              `json:"id"`
	Client             FlexID              `json:"client,omitempty"`
	ClientName         string              `json:"client_name,omitempty"`
	Provider           FlexID              `json:"provider,omitempty"`
	ProviderName       string              `json:"provider_name,omitempty"`
	ProviderAvatar     string              `json:"provider_avatar,omitempty"`
	Service            FlexID              `json:"service,omitempty"`
	ServiceTitle       string              `json:"service_title,omitempty"`
	Status             string              `json:"status"`
	StartTime          time.Time           `json:"start_time"`
	EndTime            time.Time           `json:"end_time"`
	Duration           int                 `json:"duration,omitempty"`
	Price              decimal.NullDecimal `json:"price"`
	LocationType       string              `json:"location_type,omitempty"`
	Address            string              `json:"address,omitempty"`
	SpecialRequests    string              `json:"special_requests,omitempty"`
	CancellationReason string              `json:"cancellation_reason,omitempty"`
}

// BookingPatch is the body of PATCH /bookings/{id}.
type BookingPatch struct {
	Status    string     `json:"status,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// NewBookingRecord is the body of POST /bookings.
type NewBookingRecord struct {
	Provider        string    `json:"provider"`
	Service         string    `json:"service,omitempty"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Duration        int       `json:"duration"`
	LocationType    string    `json:"location_type"`
	Address         string    `json:"address"`
	SpecialRequests string    `json:"special_requests"`
}

// ServiceRecord is the raw service listing shape; one record maps to one provider card.
type ServiceRecord struct {
	ID             FlexID              `json:"id"`
	Provider       FlexID              `json:"provider,omitempty"`
	ProviderName   string              `json:"provider_name,omitempty"`
	ProviderAvatar string              `json:"provider_avatar,omitempty"`
	Phone          string              `json:"phone_number,omitempty"`
	Category       FlexID              `json:"category,omitempty"`
	CategoryName   string              `json:"category_name,omitempty"`
	Title          string              `json:"title,omitempty"`
	Price          decimal.NullDecimal `json:"price"`
	IsAvailable    bool                `json:"is_available"`
	AverageRating  *float64            `json:"average_rating"`
	ReviewCount    int                 `json:"review_count"`
	Latitude       *float64            `json:"latitude,omitempty"`
	Longitude      *float64            `json:"longitude,omitempty"`
	Distance       *float64            `json:"distance,omitempty"`
}

// CategoryRecord is the raw category shape.
type CategoryRecord struct {
	ID          FlexID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// UserRecord is the raw user shape embedded in auth and profile responses.
type UserRecord struct {
	ID             FlexID `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	IsProvider     bool   `json:"is_provider"`
	IsAdmin        bool   `json:"is_admin"`
}

// FullName joins first and last name, falling back to the username.
func (u UserRecord) FullName() string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}

// ProviderProfileRecord is the raw provider sub-record of a profile.
type ProviderProfileRecord struct {
	Service       string              `json:"service"`
	HourlyRate    decimal.NullDecimal `json:"hourly_rate"`
	IsAvailable   bool                `json:"is_available"`
	Rating        *float64            `json:"rating"`
	CompletedJobs int                 `json:"completed_jobs"`
}

// ProfileRecord is the body of GET/PATCH /users/profile.
type ProfileRecord struct {
	User            UserRecord             `json:"user"`
	ProviderProfile *ProviderProfileRecord `json:"provider_profile,omitempty"`
}

// ProfilePatch is the JSON body of PATCH /users/profile.
type ProfilePatch struct {
	FirstName   *string          `json:"first_name,omitempty"`
	LastName    *string          `json:"last_name,omitempty"`
	Email       *string          `json:"email,omitempty"`
	PhoneNumber *string          `json:"phone_number,omitempty"`
	Service     *string          `json:"service,omitempty"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate,omitempty"`
	IsAvailable *bool            `json:"is_available,omitempty"`
}

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	User  UserRecord `json:"user"`
	Token string     `json:"token"`
}

// ErrorBody is the error envelope the backend answers non-2xx responses with.
type ErrorBody struct {
	Error   string `json:"error,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Message string `json:"message,omitempty"`
	// Details carries the error kind when the backend knows it.
	Details string `json:"details,omitempty"`
}

// Text returns the first non-empty message of the envelope.
func (e ErrorBody) Text() string {
	for _, s := range []string{e.Error, e.Detail, e.Message} {
		if s != "" {
			return s
		}
	}
	return ""
}
