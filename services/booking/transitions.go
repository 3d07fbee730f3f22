package booking

import (
	"sort"
	"strings"
	"time"

	"levi/models"
	"levi/utils"

	"github.com/google/uuid"
)

// transitionMap lists, per source status, the reachable targets and the one role allowed
// to move there. Terminal statuses have no entry.
var transitionMap = map[models.BookingStatus]map[models.BookingStatus]models.Role{
	models.StatusPending: {
		models.StatusConfirmed: models.RoleProvider,
		models.StatusRejected:  models.RoleProvider,
		models.StatusCancelled: models.RoleUser,
	},
	models.StatusConfirmed: {
		models.StatusCompleted: models.RoleProvider,
	},
}

// IsTerminal reports whether no further transition is permitted from s.
func IsTerminal(s models.BookingStatus) bool {
	switch s {
	case models.StatusCompleted, models.StatusCancelled, models.StatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether from -> to is in the table, regardless of actor.
func CanTransition(from, to models.BookingStatus) bool {
	_, ok := transitionMap[from][to]
	return ok
}

// AllowedTargets lists the statuses role may move a booking in from to, sorted.
// Admins get every non-terminal target except from itself.
func AllowedTargets(from models.BookingStatus, role models.Role) []models.BookingStatus {
	if IsTerminal(from) {
		return nil
	}
	var out []models.BookingStatus
	if role == models.RoleAdmin {
		for _, s := range []models.BookingStatus{
			models.StatusPending, models.StatusConfirmed, models.StatusCompleted,
			models.StatusCancelled, models.StatusRejected,
		} {
			if s != from {
				out = append(out, s)
			}
		}
		return out
	}
	for to, actor := range transitionMap[from] {
		if actor == role {
			out = append(out, to)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Authorize validates a status change requested by role. It returns override=true when the
// change is an admin override of the table. No state is touched.
//
// Edges missing from the table, pending to completed included, fail with InvalidTransition
// for users and providers only. An admin with a reason may force any change out of a
// non-terminal status. Terminal statuses reject every actor.
func Authorize(from, to models.BookingStatus, role models.Role, reason string) (override bool, err error) {
	const op = "booking.Authorize"

	if _, err := models.ParseBookingStatus(string(to)); err != nil {
		return false, utils.WrapError(utils.KindValidation, op, err, "unknown target status %q", to)
	}
	if _, err := models.ParseRole(string(role)); err != nil {
		return false, utils.WrapError(utils.KindAuth, op, err, "no valid actor role")
	}
	if role == models.RoleAdmin && strings.TrimSpace(reason) == "" {
		return false, utils.NewError(utils.KindValidation, op, "admin override requires a reason")
	}
	if IsTerminal(from) {
		return false, utils.NewError(utils.KindInvalidTransition, op, "booking is %s and cannot change status", from)
	}
	if from == to {
		return false, utils.NewError(utils.KindInvalidTransition, op, "booking is already %s", from)
	}
	if role == models.RoleAdmin {
		return true, nil
	}

	allowed, ok := transitionMap[from][to]
	if !ok {
		return false, utils.NewError(utils.KindInvalidTransition, op, "cannot move booking from %s to %s", from, to)
	}
	if allowed != role {
		return false, utils.NewError(utils.KindAuth, op, "role %s may not move booking from %s to %s", role, from, to)
	}
	return false, nil
}

// Transition applies a status change to a copy of b on behalf of actor and returns the
// updated booking along with its audit entry. b is never modified.
func Transition(b models.Booking, to models.BookingStatus, actor models.Session, reason string) (models.Booking, models.StatusChange, error) {
	override, err := Authorize(b.Status, to, actor.Role, reason)
	if err != nil {
		return b, models.StatusChange{}, err
	}

	change := models.StatusChange{
		ID:        uuid.New().String(),
		BookingID: b.ID,
		From:      b.Status,
		To:        to,
		ActorID:   actor.ActorID,
		Role:      actor.Role,
		Reason:    strings.TrimSpace(reason),
		Override:  override,
		At:        time.Now(),
	}
	next := b
	next.Status = to
	return next, change, nil
}

// Reschedule moves a confirmed booking to a new date and time. Every other field,
// status included, is preserved.
func Reschedule(b models.Booking, date, clock string, role models.Role, loc *time.Location) (models.Booking, time.Time, error) {
	const op = "booking.Reschedule"

	switch role {
	case models.RoleUser, models.RoleProvider, models.RoleAdmin:
	default:
		return b, time.Time{}, utils.NewError(utils.KindAuth, op, "no valid actor role")
	}
	if err := RequireReschedulable(b.Status); err != nil {
		return b, time.Time{}, err
	}
	start, err := models.ParseSchedule(date, clock, loc)
	if err != nil {
		return b, time.Time{}, utils.WrapError(utils.KindValidation, op, err, "invalid schedule")
	}

	next := b
	next.Date = start.Format(models.DateLayout)
	next.Time = start.Format(models.TimeLayout)
	return next, start, nil
}

// RequireReschedulable fails with InvalidState unless a booking in status s may be moved.
func RequireReschedulable(s models.BookingStatus) error {
	if s != models.StatusConfirmed {
		return utils.NewError(utils.KindInvalidState, "booking.Reschedule", "only confirmed bookings can be rescheduled, booking is %s", s)
	}
	return nil
}
