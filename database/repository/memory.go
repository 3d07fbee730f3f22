package repository

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"levi/models"
)

// MemoryStore keeps everything in process memory. Used by tests and when no database is
// configured.
type MemoryStore struct {
	mu         sync.RWMutex
	seq        map[string]int
	users      map[string]UserDoc
	categories map[string]CategoryDoc
	services   map[string]ServiceDoc
	bookings   map[string]BookingDoc
	changes    []models.StatusChange
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seq:        make(map[string]int),
		users:      make(map[string]UserDoc),
		categories: make(map[string]CategoryDoc),
		services:   make(map[string]ServiceDoc),
		bookings:   make(map[string]BookingDoc),
	}
}

func (m *MemoryStore) NextID(_ context.Context, seq string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq[seq]++
	return strconv.Itoa(m.seq[seq]), nil
}

func (m *MemoryStore) CreateUser(_ context.Context, u *UserDoc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) || existing.Username == u.Username {
			return ErrDuplicate
		}
	}
	m.users[u.ID] = *u
	return nil
}

func (m *MemoryStore) GetUserByID(_ context.Context, id string) (*UserDoc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*UserDoc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) UpdateUser(_ context.Context, u *UserDoc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}
	m.users[u.ID] = *u
	return nil
}

func (m *MemoryStore) SaveCategory(_ context.Context, c *CategoryDoc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.ID] = *c
	return nil
}

func (m *MemoryStore) ListCategories(_ context.Context) ([]CategoryDoc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]CategoryDoc, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return lessNumeric(out[i].ID, out[j].ID) })
	return out, nil
}

func (m *MemoryStore) SaveService(_ context.Context, s *ServiceDoc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.services[s.ID] = *s
	return nil
}

func (m *MemoryStore) GetService(_ context.Context, id string) (*ServiceDoc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.services[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) ListServices(_ context.Context) ([]ServiceDoc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ServiceDoc, 0, len(m.services))
	for _, s := range m.services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return lessNumeric(out[i].ID, out[j].ID) })
	return out, nil
}

func (m *MemoryStore) CreateBooking(_ context.Context, b *BookingDoc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.ID]; ok {
		return ErrDuplicate
	}
	m.bookings[b.ID] = *b
	return nil
}

func (m *MemoryStore) GetBooking(_ context.Context, id string) (*BookingDoc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (m *MemoryStore) ListBookings(_ context.Context, q BookingQuery) ([]BookingDoc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []BookingDoc
	for _, b := range m.bookings {
		if q.Matches(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.After(out[j].StartTime)
		}
		return lessNumeric(out[i].ID, out[j].ID)
	})
	return out, nil
}

func (m *MemoryStore) UpdateBooking(_ context.Context, b *BookingDoc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.ID]; !ok {
		return ErrNotFound
	}
	m.bookings[b.ID] = *b
	return nil
}

func (m *MemoryStore) AppendStatusChange(_ context.Context, c models.StatusChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changes = append(m.changes, c)
	return nil
}

func (m *MemoryStore) StatusChanges(_ context.Context, bookingID string) ([]models.StatusChange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.StatusChange
	for _, c := range m.changes {
		if c.BookingID == bookingID {
			out = append(out, c)
		}
	}
	return out, nil
}

func lessNumeric(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	if aErr == nil && bErr == nil {
		return ai < bi
	}
	return a < b
}
