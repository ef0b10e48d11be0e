package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"farm-health-dashboard/internal/ports/auth"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu   sync.RWMutex
	byID map[string]Session
}

// NewMemoryStore crea el store por defecto: un mapa protegido por RWMutex.
// Atomicidad por key alcanza; no hay transacciones cross-key.
func NewMemoryStore() Store {
	return &memoryStore{
		byID: make(map[string]Session),
	}
}

func (s *memoryStore) Create(ctx context.Context, p auth.Principal, upstreamToken string) (Session, error) {
	if strings.TrimSpace(p.ID) == "" {
		return Session{}, errors.New("session principal required")
	}

	sess := Session{
		ID:            uuid.NewString(),
		Principal:     p,
		UpstreamToken: upstreamToken,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[sess.ID] = sess

	return sess, nil
}

func (s *memoryStore) Get(ctx context.Context, id string) (Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.byID[id]
	return sess, ok, nil
}

func (s *memoryStore) Destroy(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byID, id)
	return nil
}
