package browse

import "sync"

// Manager hands out one Controller per listing key, creating them
// lazily. Each key owns independent state; controllers are never
// discarded for the lifetime of the manager.
type Manager struct {
	catalog Catalog
	maxPage int

	mu          sync.Mutex
	controllers map[Key]*Controller
}

// NewManager creates a Manager over the given catalog.
func NewManager(catalog Catalog, maxPage int) *Manager {
	return &Manager{
		catalog:     catalog,
		maxPage:     maxPage,
		controllers: make(map[Key]*Controller),
	}
}

// Get returns the controller for key, creating it on first use. The
// second return value reports whether the controller already existed.
func (m *Manager) Get(key Key) (*Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.controllers[key]; ok {
		return c, true
	}
	c := NewController(m.catalog, key, m.maxPage)
	m.controllers[key] = c
	return c, false
}
