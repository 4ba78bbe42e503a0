package config

import (
	"fmt"
	"time"

	"github.com/zhubert/widgetchat/internal/errors"
)

// Connection holds the values handed to the transport client. Enforcement of
// these timeouts and delays is the transport's job.
type Connection struct {
	ConnectTimeoutSec int `json:"connect_timeout_sec,omitempty"`
	ReconnectMinMs    int `json:"reconnect_min_ms,omitempty"`
	ReconnectMaxMs    int `json:"reconnect_max_ms,omitempty"`
	MaxReconnects     int `json:"max_reconnects,omitempty"`
}

func (c *Connection) applyDefaults() {
	if c.ConnectTimeoutSec == 0 {
		c.ConnectTimeoutSec = DefaultConnectTimeout
	}
	if c.ReconnectMinMs == 0 {
		c.ReconnectMinMs = DefaultReconnectMinMs
	}
	if c.ReconnectMaxMs == 0 {
		c.ReconnectMaxMs = DefaultReconnectMaxMs
	}
	if c.MaxReconnects == 0 {
		c.MaxReconnects = DefaultMaxReconnects
	}
}

func (c Connection) validate() error {
	if c.ConnectTimeoutSec < 0 {
		return errors.ConfigInvalid("connect_timeout_sec must be positive")
	}
	if c.ReconnectMinMs < 0 || c.ReconnectMaxMs < 0 {
		return errors.ConfigInvalid("reconnect delays must be positive")
	}
	if c.ReconnectMinMs > c.ReconnectMaxMs {
		return errors.ConfigInvalid(fmt.Sprintf("reconnect_min_ms (%d) exceeds reconnect_max_ms (%d)", c.ReconnectMinMs, c.ReconnectMaxMs))
	}
	if c.MaxReconnects < 0 || c.MaxReconnects > maxReconnectsUpperBound {
		return errors.ConfigInvalid(fmt.Sprintf("max_reconnects must be in [0, %d]", maxReconnectsUpperBound))
	}
	return nil
}

// ConnectTimeout returns the dial/handshake timeout
func (c Connection) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSec) * time.Second
}

// ReconnectMin returns the first reconnect delay
func (c Connection) ReconnectMin() time.Duration {
	return time.Duration(c.ReconnectMinMs) * time.Millisecond
}

// ReconnectMax returns the reconnect delay ceiling
func (c Connection) ReconnectMax() time.Duration {
	return time.Duration(c.ReconnectMaxMs) * time.Millisecond
}
