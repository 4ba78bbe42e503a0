// Package errors provides structured error types for widgetchat.
// These errors provide context about what operation failed and where.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindIO
	KindNetwork
	KindConfig
	KindRender
	KindTransport
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindIO:
		return "I/O error"
	case KindNetwork:
		return "network error"
	case KindConfig:
		return "configuration error"
	case KindRender:
		return "render error"
	case KindTransport:
		return "transport error"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for widgetchat.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message errors
func UnknownMessageKind(name string) error {
	return E(Op("message.ParseKind"), KindInvalid, fmt.Sprintf("unknown message type %q", name))
}

func MessageDecodeFailed(err error) error {
	return E(Op("message.Decode"), KindInvalid, "failed to decode message payload", err)
}

func TranscriptLoadFailed(path string, err error) error {
	return E(Op("message.LoadTranscript"), KindIO, fmt.Sprintf("failed to load transcript %s", path), err)
}

// Render errors
func MarkdownRenderFailed(err error) error {
	return E(Op("markdown.Render"), KindRender, "markdown conversion failed", err)
}

// Config errors
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, fmt.Sprintf("failed to save config to %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}

// Transport errors
func TransportDialFailed(url string, err error) error {
	return E(Op("transport.Connect"), KindTransport, fmt.Sprintf("failed to dial %s", url), err)
}

func TransportClosed() error {
	return E(Op("transport.Connect"), KindTransport, "transport is closed")
}

func ConnectTimeout(url string) error {
	return E(Op("transport.Connect"), KindTimeout, fmt.Sprintf("timeout connecting to %s", url))
}

// Connection manager errors
func ManagerNotInitialized() error {
	return E(Op("connection.Default"), KindConfig, "connection manager is not initialized")
}

func ManagerAlreadyInitialized() error {
	return E(Op("connection.Init"), KindConfig, "connection manager is already initialized")
}

// API errors
func APIRequestFailed(op string, status int) error {
	kind := KindNetwork
	if status == 404 {
		kind = KindNotFound
	}
	return E(Op(op), kind, fmt.Sprintf("unexpected status %d", status))
}
