package connection

import (
	"sync"

	"github.com/zhubert/widgetchat/internal/errors"
)

// Manager holds the process-wide adapter. Views share one connection by
// subscribing to the adapter returned from Default.
type Manager struct {
	mu      sync.Mutex
	adapter *Adapter
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Init creates the adapter for t. It fails if the manager already holds one.
func (m *Manager) Init(t Transport) (*Adapter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.adapter != nil {
		return nil, errors.ManagerAlreadyInitialized()
	}
	m.adapter = NewAdapter(t)
	return m.adapter, nil
}

// Default returns the adapter created by Init.
func (m *Manager) Default() (*Adapter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.adapter == nil {
		return nil, errors.ManagerNotInitialized()
	}
	return m.adapter, nil
}

// Teardown closes the adapter and its transport. The manager can be
// initialized again afterwards. Teardown without Init is a no-op.
func (m *Manager) Teardown() error {
	m.mu.Lock()
	a := m.adapter
	m.adapter = nil
	m.mu.Unlock()

	if a == nil {
		return nil
	}
	return a.Close()
}

var std = NewManager()

// Init initializes the process-wide manager.
func Init(t Transport) (*Adapter, error) { return std.Init(t) }

// Default returns the process-wide adapter.
func Default() (*Adapter, error) { return std.Default() }

// Teardown closes the process-wide adapter.
func Teardown() error { return std.Teardown() }
