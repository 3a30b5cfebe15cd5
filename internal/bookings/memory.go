package bookings

import (
	"context"
	"sync"

	"github.com/wolfman30/reservation-assistant/internal/reservation"
)

// MemoryStore keeps booked lists in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	lists map[string][]reservation.BookedInterval
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lists: make(map[string][]reservation.BookedInterval)}
}

func (m *MemoryStore) List(_ context.Context, owner string) ([]reservation.BookedInterval, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]reservation.BookedInterval, len(m.lists[owner]))
	copy(out, m.lists[owner])
	return out, nil
}

func (m *MemoryStore) Append(_ context.Context, owner string, interval reservation.BookedInterval) error {
	if err := checkOwner(owner); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[owner] = append(m.lists[owner], interval)
	return nil
}

var _ Store = (*MemoryStore)(nil)
