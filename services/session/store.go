package session

import (
	"context"
	"errors"
	"sync"

	"levi/models"
)

// ErrNoSession is returned by Load when nothing is stored.
var ErrNoSession = errors.New("no stored session")

// Store persists the session between app launches.
type Store interface {
	Save(ctx context.Context, s models.Session) error
	Load(ctx context.Context) (*models.Session, error)
	Delete(ctx context.Context) error
}

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu sync.Mutex
	s  *models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = &s
	return nil
}

func (m *MemoryStore) Load(_ context.Context) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.s == nil {
		return nil, ErrNoSession
	}
	cp := *m.s
	return &cp, nil
}

func (m *MemoryStore) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = nil
	return nil
}
