// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/zhubert/widgetchat/internal/logger"
	"github.com/zhubert/widgetchat/internal/message"
)

// AppName is the title used for every notification.
const AppName = "widgetchat"

type notifyFunc func(title, message string, icon any) error

var (
	mu       sync.Mutex
	notifier notifyFunc = beeep.Notify
)

// SetNotifier replaces the function used to deliver notifications.
func SetNotifier(fn func(title, message string, icon any) error) {
	mu.Lock()
	defer mu.Unlock()
	notifier = fn
}

// ResetNotifier restores delivery through beeep.
func ResetNotifier() {
	SetNotifier(beeep.Notify)
}

// Send sends a desktop notification with the given title and message.
func Send(title, body string) error {
	mu.Lock()
	fn := notifier
	mu.Unlock()

	log := logger.ComponentLogger("notification")
	log.Debug("sending", "title", title)
	// Empty icon lets beeep pick the platform default.
	err := fn(title, body, "")
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
	return err
}

// IncomingMessage announces a message from the other side of the chat.
// Messages sent by the visitor are ignored.
func IncomingMessage(m message.Message) error {
	if m.Self {
		return nil
	}
	title := AppName
	if m.Sender != "" {
		title = m.Sender
	}
	return Send(title, m.Summary())
}

// ConnectionLost announces that the chat connection dropped.
func ConnectionLost(reason string) error {
	body := "Connection lost"
	if reason != "" {
		body += ": " + reason
	}
	return Send(AppName, body)
}
