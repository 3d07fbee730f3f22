package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"levi/database/repository"
	"levi/middleware"
	"levi/models"
	"levi/services/booking"
	"levi/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultDurationMinutes = 60

// BookingHandler serves the booking endpoints. Status changes go through the same
// transition table the client enforces.
type BookingHandler struct {
	Store repository.Store
}

func NewBookingHandler(store repository.Store) *BookingHandler {
	return &BookingHandler{Store: store}
}

// ListBookingsHandler handles GET /bookings. Admins see every booking; everyone else the
// bookings they are a party to.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	ctx := c.Request.Context()
	actorID, role := middleware.Actor(c)

	q := repository.BookingQuery{ActorID: actorID}
	if role == models.RoleAdmin {
		q.ActorID = ""
	}
	if s := c.Query("status"); s != "" && s != string(models.FilterAll) {
		status, err := models.ParseBookingStatus(s)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid status filter", err.Error())
			return
		}
		q.Status = status
	}

	docs, err := h.Store.ListBookings(ctx, q)
	if err != nil {
		abortWithError(c, err)
		return
	}
	out := make([]models.BookingRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, bookingRecord(ctx, h.Store, d))
	}
	c.JSON(http.StatusOK, out)
}

// CreateBookingHandler handles POST /bookings. The caller becomes the client; the provider
// may be given as a provider id or as one of the provider's service ids.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	ctx := c.Request.Context()
	logger := getLogger(c)
	actorID, _ := middleware.Actor(c)

	var req models.NewBookingRecord
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if req.StartTime.IsZero() {
		utils.JSONError(c, http.StatusBadRequest, "start_time is required", "")
		return
	}

	providerID, svc, err := h.resolveProvider(ctx, req.Provider, req.Service)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSONError(c, http.StatusBadRequest, "Unknown provider or service", "")
			return
		}
		abortWithError(c, err)
		return
	}
	if providerID == actorID {
		utils.JSONError(c, http.StatusBadRequest, "Providers cannot book themselves", "")
		return
	}

	duration := req.Duration
	if duration <= 0 {
		duration = defaultDurationMinutes
	}
	end := req.EndTime
	if !end.After(req.StartTime) {
		end = req.StartTime.Add(time.Duration(duration) * time.Minute)
	}

	id, err := h.Store.NextID(ctx, repository.SeqBookings)
	if err != nil {
		abortWithError(c, err)
		return
	}
	now := time.Now().UTC()
	doc := repository.BookingDoc{
		ID:              id,
		ClientID:        actorID,
		ProviderID:      providerID,
		Status:          models.StatusPending,
		StartTime:       req.StartTime.UTC(),
		EndTime:         end.UTC(),
		Duration:        duration,
		LocationType:    req.LocationType,
		Address:         req.Address,
		SpecialRequests: req.SpecialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if svc != nil {
		doc.ServiceID = svc.ID
		doc.Price = svc.Price
	}
	if err := h.Store.CreateBooking(ctx, &doc); err != nil {
		abortWithError(c, err)
		return
	}

	logger.Info("Booking created", zap.String("bookingId", id), zap.String("providerId", providerID))
	c.JSON(http.StatusCreated, bookingRecord(ctx, h.Store, doc))
}

func (h *BookingHandler) resolveProvider(ctx context.Context, providerID, serviceID string) (string, *repository.ServiceDoc, error) {
	if serviceID != "" {
		svc, err := h.Store.GetService(ctx, serviceID)
		if err != nil {
			return "", nil, err
		}
		return svc.ProviderID, svc, nil
	}
	if providerID == "" {
		return "", nil, repository.ErrNotFound
	}
	if u, err := h.Store.GetUserByID(ctx, providerID); err == nil && u.IsProvider {
		return u.ID, h.firstService(ctx, u.ID), nil
	}
	svc, err := h.Store.GetService(ctx, providerID)
	if err != nil {
		return "", nil, err
	}
	return svc.ProviderID, svc, nil
}

func (h *BookingHandler) firstService(ctx context.Context, providerID string) *repository.ServiceDoc {
	services, err := h.Store.ListServices(ctx)
	if err != nil {
		return nil
	}
	for _, s := range services {
		if s.ProviderID == providerID {
			return &s
		}
	}
	return nil
}

// actingRole is the role the actor holds on this booking: admin, its provider or its client.
func actingRole(b *repository.BookingDoc, actorID string, tokenRole models.Role) (models.Role, bool) {
	switch {
	case tokenRole == models.RoleAdmin:
		return models.RoleAdmin, true
	case b.ProviderID == actorID:
		return models.RoleProvider, true
	case b.ClientID == actorID:
		return models.RoleUser, true
	default:
		return "", false
	}
}

// UpdateBookingHandler handles PATCH /bookings/:id: a status change, a reschedule, or both.
func (h *BookingHandler) UpdateBookingHandler(c *gin.Context) {
	ctx := c.Request.Context()
	logger := getLogger(c)
	actorID, tokenRole := middleware.Actor(c)

	doc, err := h.Store.GetBooking(ctx, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	role, ok := actingRole(doc, actorID, tokenRole)
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "Not found.", "")
		return
	}

	var patch models.BookingPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if patch.Status == "" && patch.StartTime == nil {
		utils.JSONError(c, http.StatusBadRequest, "Nothing to update", "")
		return
	}

	// Rescheduling is judged against the stored status, not one requested alongside it.
	if patch.StartTime != nil {
		if err := booking.RequireReschedulable(doc.Status); err != nil {
			abortWithError(c, err)
			return
		}
	}

	var change *models.StatusChange
	if patch.Status != "" {
		to := models.BookingStatus(strings.ToLower(patch.Status))
		override, err := booking.Authorize(doc.Status, to, role, patch.Reason)
		if err != nil {
			abortWithError(c, err)
			return
		}
		change = &models.StatusChange{
			ID:        uuid.New().String(),
			BookingID: doc.ID,
			From:      doc.Status,
			To:        to,
			ActorID:   actorID,
			Role:      role,
			Reason:    strings.TrimSpace(patch.Reason),
			Override:  override,
			At:        time.Now().UTC(),
		}
		doc.Status = to
		if to == models.StatusCancelled || to == models.StatusRejected {
			doc.CancellationReason = change.Reason
		}
	}

	if patch.StartTime != nil {
		doc.StartTime = patch.StartTime.UTC()
		if patch.EndTime != nil && patch.EndTime.After(*patch.StartTime) {
			doc.EndTime = patch.EndTime.UTC()
		} else {
			doc.EndTime = doc.StartTime.Add(time.Duration(doc.Duration) * time.Minute)
		}
	}

	doc.UpdatedAt = time.Now().UTC()
	if err := h.Store.UpdateBooking(ctx, doc); err != nil {
		abortWithError(c, err)
		return
	}
	if change != nil {
		if err := h.Store.AppendStatusChange(ctx, *change); err != nil {
			logger.Error("Failed to record status change", zap.String("bookingId", doc.ID), zap.Error(err))
		}
		logger.Info("Booking status changed",
			zap.String("bookingId", doc.ID),
			zap.String("from", string(change.From)),
			zap.String("to", string(change.To)),
			zap.Bool("override", change.Override),
		)
	}
	c.JSON(http.StatusOK, bookingRecord(ctx, h.Store, *doc))
}

// StatusChangesHandler handles GET /bookings/:id/changes.
func (h *BookingHandler) StatusChangesHandler(c *gin.Context) {
	ctx := c.Request.Context()
	actorID, tokenRole := middleware.Actor(c)

	doc, err := h.Store.GetBooking(ctx, c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if _, ok := actingRole(doc, actorID, tokenRole); !ok {
		utils.JSONError(c, http.StatusNotFound, "Not found.", "")
		return
	}
	changes, err := h.Store.StatusChanges(ctx, doc.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if changes == nil {
		changes = []models.StatusChange{}
	}
	c.JSON(http.StatusOK, changes)
}
