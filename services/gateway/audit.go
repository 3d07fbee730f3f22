package gateway

import (
	"sync"

	"levi/models"
)

// AuditTrail records the status changes accepted by the backend, in order.
type AuditTrail struct {
	mu      sync.Mutex
	entries []models.StatusChange
}

func NewAuditTrail() *AuditTrail {
	return &AuditTrail{}
}

// Record appends one change.
func (a *AuditTrail) Record(change models.StatusChange) {
	a.mu.Lock()
	a.entries = append(a.entries, change)
	a.mu.Unlock()
}

// Entries returns a copy of every recorded change.
func (a *AuditTrail) Entries() []models.StatusChange {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.StatusChange(nil), a.entries...)
}

// ForBooking returns the changes recorded for one booking.
func (a *AuditTrail) ForBooking(id string) []models.StatusChange {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []models.StatusChange
	for _, e := range a.entries {
		if e.BookingID == id {
			out = append(out, e)
		}
	}
	return out
}

// Overrides returns the changes made as admin overrides.
func (a *AuditTrail) Overrides() []models.StatusChange {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []models.StatusChange
	for _, e := range a.entries {
		if e.Override {
			out = append(out, e)
		}
	}
	return out
}
