package connection

import "testing"

func TestTransition(t *testing.T) {
	tests := []struct {
		from   State
		event  Event
		want   State
		wantOK bool
	}{
		{StateDisconnected, EventConnectRequested, StateConnecting, true},
		{StateErrored, EventConnectRequested, StateConnecting, true},
		{StateConnecting, EventTransportOpen, StateConnected, true},
		{StateConnecting, EventTransportClose, StateDisconnected, true},
		{StateConnecting, EventTransportError, StateErrored, true},
		{StateConnected, EventTransportClose, StateDisconnected, true},
		{StateConnected, EventTransportError, StateErrored, true},
		{StateDisconnected, EventTransportError, StateErrored, true},
		{StateErrored, EventTransportClose, StateErrored, true},
		{StateErrored, EventTransportOpen, StateConnected, true},

		{StateConnected, EventConnectRequested, StateConnected, false},
		{StateConnecting, EventConnectRequested, StateConnecting, false},
		{StateDisconnected, EventTransportOpen, StateDisconnected, false},
		{StateConnected, EventTransportOpen, StateConnected, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+tt.event.String(), func(t *testing.T) {
			got, ok := Transition(tt.from, tt.event)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Transition(%v, %v) = (%v, %v), want (%v, %v)", tt.from, tt.event, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		state        State
		errText      string
		connected    bool
		connecting   bool
		wantErr      string
		wantCanRetry bool
	}{
		{StateDisconnected, "", false, false, "", true},
		{StateConnecting, "", false, true, "", false},
		{StateConnected, "stale", true, false, "", false},
		{StateErrored, "refused", false, false, "refused", true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			s := statusOf(tt.state, tt.errText)
			if s.IsConnected != tt.connected || s.IsConnecting != tt.connecting {
				t.Errorf("statusOf(%v) = %+v", tt.state, s)
			}
			if s.Error != tt.wantErr {
				t.Errorf("Error = %q, want %q", s.Error, tt.wantErr)
			}
			if s.CanRetry() != tt.wantCanRetry {
				t.Errorf("CanRetry() = %v, want %v", s.CanRetry(), tt.wantCanRetry)
			}
		})
	}
}
