package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"levi/models"
	"levi/services/booking"
	"levi/utils"

	"go.uber.org/zap"
)

// DefaultBookingDuration is the slot length requested for new and rescheduled bookings.
const DefaultBookingDuration = time.Hour

// GetUserBookings lists the signed-in actor's bookings passing filter ("all" when empty).
func (c *Client) GetUserBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	const op = "gateway.GetUserBookings"

	if filter == "" {
		filter = models.FilterAll
	}
	if !filter.Valid() {
		return nil, utils.NewError(utils.KindValidation, op, "unknown booking filter %q", filter)
	}

	return readWithFallback(c, op, func() ([]models.Booking, error) {
		return c.fetchBookings(ctx, op, filter)
	}, func() []models.Booking {
		return MockBookings(filter)
	})
}

// fetchBookings loads bookings from the backend and refreshes the local projection.
func (c *Client) fetchBookings(ctx context.Context, op string, filter models.BookingFilter) ([]models.Booking, error) {
	q := url.Values{}
	if filter != models.FilterAll {
		q.Set("status", string(filter))
	}
	var body listBody[models.BookingRecord]
	if err := c.doJSON(ctx, op, http.MethodGet, "/bookings", q, nil, &body); err != nil {
		return nil, err
	}

	out := make([]models.Booking, 0, len(body.Items))
	for _, rec := range body.Items {
		b := toBooking(rec, c.loc)
		c.remember(b)
		if filter.Matches(b.Status) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (c *Client) remember(b models.Booking) {
	c.mu.Lock()
	c.bookings[b.ID] = b
	c.mu.Unlock()
}

func (c *Client) cached(id string) (models.Booking, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bookings[id]
	return b, ok
}

// dropStale forgets id when the backend rejected a write because the cached status was
// out of date, so the next lookup refreshes it.
func (c *Client) dropStale(id string, err error) {
	if !errors.Is(err, utils.ErrInvalidTransition) && !errors.Is(err, utils.ErrInvalidState) {
		return
	}
	c.mu.Lock()
	delete(c.bookings, id)
	c.mu.Unlock()
}

func (c *Client) forgetBookings() {
	c.mu.Lock()
	c.bookings = make(map[string]models.Booking)
	c.mu.Unlock()
}

// currentBooking resolves id against the projection, refreshing it from the backend on a
// miss. Mock data never enters the projection.
func (c *Client) currentBooking(ctx context.Context, op, id string) (models.Booking, error) {
	if strings.TrimSpace(id) == "" {
		return models.Booking{}, utils.NewError(utils.KindValidation, op, "booking id is required")
	}
	if b, ok := c.cached(id); ok {
		return b, nil
	}
	if _, err := c.fetchBookings(ctx, op, models.FilterAll); err != nil {
		return models.Booking{}, err
	}
	if b, ok := c.cached(id); ok {
		return b, nil
	}
	return models.Booking{}, utils.NewError(utils.KindNotFound, op, "booking %s not found", id)
}

// CreateBooking requests a new booking. The backend answers with a pending booking.
func (c *Client) CreateBooking(ctx context.Context, req models.BookingRequest) (models.Booking, error) {
	const op = "gateway.CreateBooking"

	if _, err := c.requireSession(op); err != nil {
		return models.Booking{}, err
	}
	if strings.TrimSpace(req.ProviderID) == "" {
		return models.Booking{}, utils.NewError(utils.KindValidation, op, "provider id is required")
	}
	start, err := models.ParseSchedule(req.Date, req.Time, c.loc)
	if err != nil {
		return models.Booking{}, utils.WrapError(utils.KindValidation, op, err, "invalid schedule")
	}

	body := models.NewBookingRecord{
		Provider:        req.ProviderID,
		Service:         req.ServiceID,
		StartTime:       start.UTC(),
		EndTime:         start.Add(DefaultBookingDuration).UTC(),
		Duration:        int(DefaultBookingDuration / time.Minute),
		LocationType:    "in_person",
		SpecialRequests: req.Notes,
	}
	var rec models.BookingRecord
	if err := c.doJSON(ctx, op, http.MethodPost, "/bookings", nil, body, &rec); err != nil {
		return models.Booking{}, err
	}

	b := toBooking(rec, c.loc)
	if b.Status == "" {
		b.Status = models.StatusPending
	}
	c.remember(b)
	return b, nil
}

// CancelBooking cancels a pending booking on behalf of the consumer who made it.
func (c *Client) CancelBooking(ctx context.Context, id string) error {
	_, err := c.updateStatus(ctx, "gateway.CancelBooking", id, models.StatusCancelled, "")
	return err
}

// UpdateBookingStatus moves a booking to status as the signed-in actor. Admins may move a
// booking along any non-terminal edge but must give a reason.
func (c *Client) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, reason string) (models.Booking, error) {
	return c.updateStatus(ctx, "gateway.UpdateBookingStatus", id, status, reason)
}

func (c *Client) updateStatus(ctx context.Context, op, id string, to models.BookingStatus, reason string) (models.Booking, error) {
	s, err := c.requireSession(op)
	if err != nil {
		return models.Booking{}, err
	}
	if s.Role == models.RoleAdmin && strings.TrimSpace(reason) == "" {
		return models.Booking{}, utils.NewError(utils.KindValidation, op, "admin override requires a reason")
	}

	cur, err := c.currentBooking(ctx, op, id)
	if err != nil {
		return models.Booking{}, err
	}
	next, change, err := booking.Transition(cur, to, *s, reason)
	if err != nil {
		return models.Booking{}, err
	}

	patch := models.BookingPatch{Status: string(to), Reason: change.Reason}
	var rec models.BookingRecord
	if err := c.doJSON(ctx, op, http.MethodPatch, "/bookings/"+url.PathEscape(id), nil, patch, &rec); err != nil {
		c.dropStale(id, err)
		return models.Booking{}, err
	}
	if st, err := models.ParseBookingStatus(strings.ToLower(rec.Status)); err == nil {
		next.Status = st
	}

	c.remember(next)
	c.audit.Record(change)
	if change.Override {
		c.logger.Info("Admin override of booking status",
			zap.String("bookingId", id),
			zap.String("from", string(change.From)),
			zap.String("to", string(change.To)),
			zap.String("actorId", change.ActorID),
			zap.String("reason", change.Reason),
		)
	}
	return next, nil
}

// RescheduleBooking moves a confirmed booking to a new date and time. Date is MM/DD/YYYY;
// clock is "3:04 PM" or "15:04".
func (c *Client) RescheduleBooking(ctx context.Context, id, date, clock string) (models.Booking, error) {
	const op = "gateway.RescheduleBooking"

	s, err := c.requireSession(op)
	if err != nil {
		return models.Booking{}, err
	}
	cur, err := c.currentBooking(ctx, op, id)
	if err != nil {
		return models.Booking{}, err
	}
	next, start, err := booking.Reschedule(cur, date, clock, s.Role, c.loc)
	if err != nil {
		return models.Booking{}, err
	}

	startUTC := start.UTC()
	endUTC := start.Add(DefaultBookingDuration).UTC()
	patch := models.BookingPatch{StartTime: &startUTC, EndTime: &endUTC}
	if err := c.doJSON(ctx, op, http.MethodPatch, "/bookings/"+url.PathEscape(id), nil, patch, nil); err != nil {
		c.dropStale(id, err)
		return models.Booking{}, err
	}

	c.remember(next)
	return next, nil
}
