package session

import (
	"sync/atomic"

	"levi/models"
)

// Holder keeps the current session. Readers always observe a complete session, either the
// one before or the one after a concurrent replace.
type Holder struct {
	current atomic.Pointer[models.Session]
}

// NewHolder returns a holder seeded with s, which may be nil for an anonymous start.
func NewHolder(s *models.Session) *Holder {
	h := &Holder{}
	if s != nil {
		h.Replace(*s)
	}
	return h
}

// Current returns a copy of the active session, or nil when signed out.
func (h *Holder) Current() *models.Session {
	s := h.current.Load()
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// Token returns the bearer token, or "" when signed out.
func (h *Holder) Token() string {
	if s := h.current.Load(); s != nil {
		return s.Token
	}
	return ""
}

// Replace installs s as the active session.
func (h *Holder) Replace(s models.Session) {
	h.current.Store(&s)
}

// Clear signs out.
func (h *Holder) Clear() {
	h.current.Store(nil)
}
