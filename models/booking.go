package models

import (
	"fmt"
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusRejected  BookingStatus = "rejected"
)

// ParseBookingStatus converts a wire value into a BookingStatus.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRejected:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("unknown booking status: %q", s)
	}
}

func (s BookingStatus) String() string {
	return string(s)
}

// BookingFilter selects which bookings GetUserBookings returns.
type BookingFilter string

const (
	FilterAll       BookingFilter = "all"
	FilterPending   BookingFilter = "pending"
	FilterConfirmed BookingFilter = "confirmed"
	FilterCompleted BookingFilter = "completed"
)

// Valid reports whether f is one of the supported filters.
func (f BookingFilter) Valid() bool {
	switch f {
	case FilterAll, FilterPending, FilterConfirmed, FilterCompleted:
		return true
	}
	return false
}

// Matches reports whether a booking with status s passes the filter.
func (f BookingFilter) Matches(s BookingStatus) bool {
	return f == FilterAll || string(f) == string(s)
}

// Display layouts for the derived Date and Time fields.
const (
	DateLayout = "01/02/2006"
	TimeLayout = "3:04 PM"
)

// Booking is the client-side projection of one engagement between a consumer and a provider.
// Date and Time are display strings derived from the backend's start_time.
type Booking struct {
	ID                  string        `json:"id"`
	ServiceProviderID   string        `json:"serviceProviderId"`
	ServiceProviderName string        `json:"serviceProviderName"`
	ServiceType         string        `json:"serviceType"`
	Date                string        `json:"date"`
	Time                string        `json:"time"`
	Status              BookingStatus `json:"status"`
	Price               float64       `json:"price"`
	Avatar              string        `json:"avatar,omitempty"`
	ClientID            string        `json:"clientId,omitempty"`
	ClientName          string        `json:"clientName,omitempty"`
}

// ScheduledAt parses Date and Time back into a point in time in loc.
func (b Booking) ScheduledAt(loc *time.Location) (time.Time, error) {
	return ParseSchedule(b.Date, b.Time, loc)
}

// ParseSchedule accepts a MM/DD/YYYY date and either a 12-hour ("3:04 PM") or
// 24-hour ("15:04") time.
func ParseSchedule(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range []string{DateLayout + " " + TimeLayout, DateLayout + " 15:04"} {
		if t, err := time.ParseInLocation(layout, date+" "+clock, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date/time %q %q", date, clock)
}

// BookingRequest carries the consumer's input for a new booking.
type BookingRequest struct {
	ProviderID string `json:"providerId"`
	ServiceID  string `json:"serviceId,omitempty"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Notes      string `json:"notes,omitempty"`
}

// StatusChange is an audit entry for one status change requested through the client.
type StatusChange struct {
	ID        string        `json:"id"`
	BookingID string        `json:"bookingId"`
	From      BookingStatus `json:"from"`
	To        BookingStatus `json:"to"`
	ActorID   string        `json:"actorId"`
	Role      Role          `json:"role"`
	Reason    string        `json:"reason,omitempty"`
	Override  bool          `json:"override"`
	At        time.Time     `json:"at"`
}
