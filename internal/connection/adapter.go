package connection

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/zhubert/widgetchat/internal/logger"
	"github.com/zhubert/widgetchat/internal/metrics"
)

// Transport is the real-time client the adapter observes. Timeouts and
// reconnect backoff are the transport's responsibility.
type Transport interface {
	Connect(ctx context.Context) error
	Close() error
	Events() <-chan TransportEvent
}

// Adapter owns the connection state machine for one transport.
type Adapter struct {
	transport Transport
	log       *slog.Logger

	// notifyMu serializes transitions together with their notifications so
	// subscribers observe states in the order they were entered.
	notifyMu sync.Mutex

	mu      sync.Mutex
	state   State
	errText string
	subs    []subscription
	nextSub int

	// reported is the last Connect error applied directly. The transport
	// echoes it on its event channel; the echo must not fail a later attempt.
	reported error

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

type subscription struct {
	id int
	fn func(Status)
}

// NewAdapter creates an adapter and starts consuming t's events.
func NewAdapter(t Transport) *Adapter {
	a := &Adapter{
		transport: t,
		log:       logger.ComponentLogger("connection"),
		state:     StateDisconnected,
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Adapter) run() {
	defer close(a.stopped)
	events := a.transport.Events()
	for {
		select {
		case <-a.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			a.applyTransport(ev)
		}
	}
}

// Status returns the current status snapshot.
func (a *Adapter) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return statusOf(a.state, a.errText)
}

// Subscribe registers fn to be called after every state change. fn runs on
// the goroutine that caused the change and must not call Connect or Retry
// synchronously. The returned function removes the subscription; it does not
// cancel an attempt already in flight.
func (a *Adapter) Subscribe(fn func(Status)) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs = append(a.subs, subscription{id: id, fn: fn})
	a.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			for i, sub := range a.subs {
				if sub.id == id {
					a.subs = append(a.subs[:i:i], a.subs[i+1:]...)
					break
				}
			}
			a.mu.Unlock()
		})
	}
}

// Connect starts a connection attempt and returns its error. The state moves
// to connecting before the transport is called.
func (a *Adapter) Connect(ctx context.Context) error {
	if !a.begin() {
		return nil
	}
	return a.attempt(ctx)
}

// Retry starts a new attempt unless the adapter is already connected or
// connecting, in which case it returns false without touching the transport.
// The guard is advisory and does not lock the transport. Failures are logged
// and reflected in the status, never returned.
func (a *Adapter) Retry(ctx context.Context) bool {
	if !a.begin() {
		metrics.RetryRequests.WithLabelValues("suppressed").Inc()
		a.log.Debug("retry suppressed", "state", a.Status().State.String())
		return false
	}
	metrics.RetryRequests.WithLabelValues("issued").Inc()
	if err := a.attempt(ctx); err != nil {
		a.log.Warn("retry failed", "error", err)
	}
	return true
}

// begin checks the guard and enters connecting in one step.
func (a *Adapter) begin() bool {
	a.notifyMu.Lock()
	defer a.notifyMu.Unlock()

	a.mu.Lock()
	if a.state == StateConnected || a.state == StateConnecting {
		a.mu.Unlock()
		return false
	}
	a.mu.Unlock()

	a.transitionLocked(TransportEvent{Type: EventConnectRequested})
	return true
}

func (a *Adapter) attempt(ctx context.Context) error {
	err := a.transport.Connect(ctx)
	if err != nil {
		a.connectFailed(err)
	}
	return err
}

// connectFailed applies a Connect error unless the transport already
// reported it.
func (a *Adapter) connectFailed(err error) {
	a.notifyMu.Lock()
	defer a.notifyMu.Unlock()

	a.mu.Lock()
	if a.state != StateConnecting {
		a.mu.Unlock()
		return
	}
	a.reported = err
	a.mu.Unlock()

	a.transitionLocked(TransportEvent{Type: EventTransportError, Err: err})
}

// applyTransport applies an event read from the transport, dropping the echo
// of a failure connectFailed has already applied.
func (a *Adapter) applyTransport(ev TransportEvent) {
	a.notifyMu.Lock()
	defer a.notifyMu.Unlock()

	if ev.Err != nil {
		a.mu.Lock()
		echo := a.reported != nil && errors.Is(ev.Err, a.reported)
		if echo {
			a.reported = nil
		}
		a.mu.Unlock()
		if echo {
			a.log.Debug("dropped reported error", "error", ev.Err)
			return
		}
	}
	a.transitionLocked(ev)
}

// transitionLocked requires notifyMu.
func (a *Adapter) transitionLocked(ev TransportEvent) {
	if ev.Type == EventTransportClose && ev.Err != nil {
		ev.Type = EventTransportError
	}

	a.mu.Lock()
	from := a.state
	to, ok := Transition(from, ev.Type)
	if !ok {
		a.mu.Unlock()
		a.log.Debug("ignored event", "state", from.String(), "event", ev.Type.String())
		return
	}
	a.state = to
	switch {
	case to == StateErrored && ev.Err != nil:
		a.errText = ev.Err.Error()
	case to == StateErrored && from != StateErrored:
		a.errText = "connection error"
	case to != StateErrored:
		a.errText = ""
	}
	status := statusOf(a.state, a.errText)
	subs := make([]func(Status), 0, len(a.subs))
	for _, sub := range a.subs {
		subs = append(subs, sub.fn)
	}
	a.mu.Unlock()

	metrics.ConnectionTransitions.WithLabelValues(to.String()).Inc()
	a.log.Info("state changed", "from", from.String(), "to", to.String(), "event", ev.Type.String())

	for _, fn := range subs {
		fn(status)
	}
}

// Close stops event consumption and closes the transport.
func (a *Adapter) Close() error {
	var err error
	a.closeOnce.Do(func() {
		close(a.done)
		err = a.transport.Close()
		<-a.stopped
	})
	return err
}
