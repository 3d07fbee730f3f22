// Package dashboard derives the provider and admin dashboard views from booking lists.
package dashboard

import (
	"fmt"
	"time"

	"levi/models"

	"github.com/shopspring/decimal"
)

// ProviderStats is the summary shown on the provider dashboard.
type ProviderStats struct {
	CompletedJobs   int             `json:"completedJobs"`
	ActiveJobs      int             `json:"activeJobs"`
	PendingBookings int             `json:"pendingBookings"`
	TodayEarnings   decimal.Decimal `json:"todayEarnings"`
	WeekEarnings    decimal.Decimal `json:"weekEarnings"`
	MonthEarnings   decimal.Decimal `json:"monthEarnings"`
	Rating          float64         `json:"rating"`
}

// ForProvider returns the bookings assigned to providerID.
func ForProvider(providerID string, bookings []models.Booking) []models.Booking {
	var out []models.Booking
	for _, b := range bookings {
		if b.ServiceProviderID == providerID {
			out = append(out, b)
		}
	}
	return out
}

// ComputeProviderStats summarises the bookings of the provider behind profile. Earnings count
// completed bookings only: the calendar day of now, the 7 calendar days ending today, and the
// calendar month of now. Booking dates are read in now's location.
func ComputeProviderStats(profile models.UserProfile, bookings []models.Booking, now time.Time) ProviderStats {
	var st ProviderStats
	if profile.ServiceProviderProfile != nil {
		st.Rating = profile.ServiceProviderProfile.Rating
	}

	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	weekStart := today.AddDate(0, 0, -6)
	monthStart := startOfMonth(now)
	monthEnd := monthStart.AddDate(0, 1, 0)

	for _, b := range ForProvider(profile.ID, bookings) {
		switch b.Status {
		case models.StatusConfirmed:
			st.ActiveJobs++
			continue
		case models.StatusPending:
			st.PendingBookings++
			continue
		case models.StatusCompleted:
			st.CompletedJobs++
		default:
			continue
		}

		at, err := b.ScheduledAt(now.Location())
		if err != nil {
			continue
		}
		price := decimal.NewFromFloat(b.Price)
		if within(at, today, tomorrow) {
			st.TodayEarnings = st.TodayEarnings.Add(price)
		}
		if within(at, weekStart, tomorrow) {
			st.WeekEarnings = st.WeekEarnings.Add(price)
		}
		if within(at, monthStart, monthEnd) {
			st.MonthEarnings = st.MonthEarnings.Add(price)
		}
	}
	return st
}

// EarningsPeriod selects the window of the earnings screen.
type EarningsPeriod string

const (
	PeriodMonth     EarningsPeriod = "month"
	PeriodLastMonth EarningsPeriod = "lastMonth"
	PeriodAll       EarningsPeriod = "all"
)

// ParseEarningsPeriod defaults an empty period to the current month.
func ParseEarningsPeriod(s string) (EarningsPeriod, error) {
	switch EarningsPeriod(s) {
	case "":
		return PeriodMonth, nil
	case PeriodMonth, PeriodLastMonth, PeriodAll:
		return EarningsPeriod(s), nil
	default:
		return "", fmt.Errorf("unknown earnings period: %q", s)
	}
}

// FilterEarnings returns the completed bookings that fall in period. "month" runs from the
// 1st of the current month up to now, "lastMonth" covers the whole previous calendar month.
func FilterEarnings(bookings []models.Booking, period EarningsPeriod, now time.Time) []models.Booking {
	var from, to time.Time
	switch period {
	case PeriodMonth:
		from, to = startOfMonth(now), now
	case PeriodLastMonth:
		to = startOfMonth(now)
		from = to.AddDate(0, -1, 0)
	}

	var out []models.Booking
	for _, b := range bookings {
		if b.Status != models.StatusCompleted {
			continue
		}
		if period == PeriodAll {
			out = append(out, b)
			continue
		}
		at, err := b.ScheduledAt(now.Location())
		if err != nil {
			continue
		}
		if period == PeriodMonth && !at.Before(from) && !at.After(to) {
			out = append(out, b)
		}
		if period == PeriodLastMonth && within(at, from, to) {
			out = append(out, b)
		}
	}
	return out
}

// TotalEarnings sums booking prices without float drift.
func TotalEarnings(bookings []models.Booking) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bookings {
		total = total.Add(decimal.NewFromFloat(b.Price))
	}
	return total
}

// RecentBookings returns at most n bookings from the head of the list.
func RecentBookings(bookings []models.Booking, n int) []models.Booking {
	if n <= 0 {
		return nil
	}
	if len(bookings) < n {
		n = len(bookings)
	}
	return append([]models.Booking(nil), bookings[:n]...)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// within reports whether from <= t < to.
func within(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
