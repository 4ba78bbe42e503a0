// Package connection tracks the state of the real-time transport.
//
// The status is a small finite-state machine driven by transport events:
//
//	disconnected --connect-requested--> connecting
//	errored      --connect-requested--> connecting
//	connecting   --open-->              connected
//	connecting   --close-->             disconnected
//	connecting   --error-->             errored
//	connected    --close-->             disconnected
//	connected    --error-->             errored
//	disconnected --error-->             errored
//	errored      --open-->              connected
//	errored      --close-->             errored
//
// Any other (state, event) pair is ignored.
package connection

// State is the connection state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Event is something the transport reports.
type Event int

const (
	EventConnectRequested Event = iota + 1
	EventTransportOpen
	EventTransportClose
	EventTransportError
)

func (e Event) String() string {
	switch e {
	case EventConnectRequested:
		return "connect-requested"
	case EventTransportOpen:
		return "open"
	case EventTransportClose:
		return "close"
	case EventTransportError:
		return "error"
	default:
		return "unknown"
	}
}

type edge struct {
	from State
	on   Event
}

var transitions = map[edge]State{
	{StateDisconnected, EventConnectRequested}: StateConnecting,
	{StateErrored, EventConnectRequested}:      StateConnecting,
	{StateConnecting, EventTransportOpen}:      StateConnected,
	{StateConnecting, EventTransportClose}:     StateDisconnected,
	{StateConnecting, EventTransportError}:     StateErrored,
	{StateConnected, EventTransportClose}:      StateDisconnected,
	{StateConnected, EventTransportError}:      StateErrored,
	{StateDisconnected, EventTransportError}:   StateErrored,
	{StateErrored, EventTransportOpen}:         StateConnected,
	{StateErrored, EventTransportClose}:        StateErrored,
}

// Transition returns the state reached from s on e. The second result is
// false when the pair is not in the table, in which case s is returned.
func Transition(s State, e Event) (State, bool) {
	next, ok := transitions[edge{s, e}]
	if !ok {
		return s, false
	}
	return next, true
}

// Status is a snapshot of the connection for presentation.
type Status struct {
	State        State
	IsConnected  bool
	IsConnecting bool
	Error        string
}

func statusOf(s State, errText string) Status {
	st := Status{
		State:        s,
		IsConnected:  s == StateConnected,
		IsConnecting: s == StateConnecting,
	}
	if s == StateErrored {
		st.Error = errText
	}
	return st
}

// CanRetry reports whether a manual retry should be offered.
func (s Status) CanRetry() bool {
	return !s.IsConnected && !s.IsConnecting
}

// TransportEvent is emitted by a Transport. Err is set for error events and
// for close events caused by a failure.
type TransportEvent struct {
	Type Event
	Err  error
}
