package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// sweepInterval is the minimum gap between scans for expired records.
const sweepInterval = time.Minute

// MemoryStore keeps sessions in process memory. Records are stored serialized so
// callers never share a *Session across requests. Expired records are dropped on load
// and by a sweep that Save runs at most once per sweepInterval.
type MemoryStore struct {
	mu        sync.Mutex
	items     map[string]memoryItem
	now       func() time.Time
	nextSweep time.Time
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryItem), now: time.Now}
}

// Load returns the session stored under id.
func (m *MemoryStore) Load(ctx context.Context, id string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	item, ok := m.items[id]
	if ok && !item.expiresAt.IsZero() && m.now().After(item.expiresAt) {
		delete(m.items, id)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decode(item.data)
}

// Save stores s for ttl; ttl <= 0 keeps it until deleted.
func (m *MemoryStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	now := m.now()
	item := memoryItem{data: data}
	if ttl > 0 {
		item.expiresAt = now.Add(ttl)
	}
	m.mu.Lock()
	if !now.Before(m.nextSweep) {
		m.sweepLocked(now)
	}
	m.items[s.ID] = item
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) sweepLocked(now time.Time) {
	for id, item := range m.items {
		if !item.expiresAt.IsZero() && now.After(item.expiresAt) {
			delete(m.items, id)
		}
	}
	m.nextSweep = now.Add(sweepInterval)
}

// Delete removes the session stored under id.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.items, id)
	m.mu.Unlock()
	return nil
}

func decode(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
