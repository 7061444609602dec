package localstore

import (
	"context"
	"sync"
)

// MemoryBackend holds slots in process memory.
type MemoryBackend struct {
	mu    sync.RWMutex
	slots map[Slot]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: make(map[Slot]string)}
}

func (m *MemoryBackend) Get(_ context.Context, slot Slot) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[slot]
	return v, ok, nil
}

func (m *MemoryBackend) Set(_ context.Context, slot Slot, raw string) error {
	m.mu.Lock()
	m.slots[slot] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, slot Slot) error {
	m.mu.Lock()
	delete(m.slots, slot)
	m.mu.Unlock()
	return nil
}

// MemoryProvider keeps one MemoryBackend per profile.
type MemoryProvider struct {
	mu       sync.Mutex
	profiles map[string]*MemoryBackend
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{profiles: make(map[string]*MemoryBackend)}
}

func (p *MemoryProvider) ForProfile(profileID string) Backend {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.profiles[profileID]
	if !ok {
		b = NewMemoryBackend()
		p.profiles[profileID] = b
	}
	return b
}
