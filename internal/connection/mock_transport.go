package connection

import (
	"context"
	"sync"
)

// MockTransport is a test double for Transport that never touches the network.
type MockTransport struct {
	mu         sync.Mutex
	calls      int
	connectErr error
	gate       chan struct{}
	closed     bool
	events     chan TransportEvent
	emitOnOpen bool
}

// NewMockTransport creates a mock whose Connect succeeds and emits
// EventTransportOpen.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		events:     make(chan TransportEvent, 32),
		emitOnOpen: true,
	}
}

// FailWith makes subsequent Connect calls return err.
func (m *MockTransport) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectErr = err
}

// Block makes Connect wait until the returned release func is called.
func (m *MockTransport) Block() (release func()) {
	gate := make(chan struct{})
	m.mu.Lock()
	m.gate = gate
	m.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// Connect implements Transport.
func (m *MockTransport) Connect(ctx context.Context) error {
	m.mu.Lock()
	m.calls++
	gate := m.gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	err := m.connectErr
	emit := m.emitOnOpen
	m.mu.Unlock()

	if err != nil {
		return err
	}
	if emit {
		m.Emit(TransportEvent{Type: EventTransportOpen})
	}
	return nil
}

// Emit queues an event as if the transport produced it.
func (m *MockTransport) Emit(ev TransportEvent) {
	m.events <- ev
}

// Calls returns how many times Connect was invoked.
func (m *MockTransport) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close was called.
func (m *MockTransport) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close implements Transport.
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Events implements Transport.
func (m *MockTransport) Events() <-chan TransportEvent {
	return m.events
}
