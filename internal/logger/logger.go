// Package logger owns the process-wide slog logger.
//
// The watch view writes to a per-visitor file under /tmp so the terminal
// stays clean. One-shot commands write to DefaultLogPath, or to stderr when
// asked with InitWriter. Whichever of Init or InitWriter runs first wins; a
// logger requested before either falls back to DefaultLogPath.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel maps a config string ("debug", "info", "warn", "error") to a LogLevel.
// Unrecognized names map to LevelInfo.
func ParseLevel(name string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// DefaultLogPath is the log file used when nothing else was configured.
const DefaultLogPath = "/tmp/widgetchat-debug.log"

const watchLogGlob = "/tmp/widgetchat-watch-*.log"

// WatchLogPath returns the log path for one watch session.
func WatchLogPath(visitorID string) string {
	return strings.Replace(watchLogGlob, "*", visitorID, 1)
}

var (
	mu       sync.Mutex
	base     *slog.Logger
	levelVar = new(slog.LevelVar)
	logFile  *os.File
	fallback sync.Once
)

// SetLevel sets the minimum level. It applies to loggers already handed out.
func SetLevel(level LogLevel) {
	levelVar.Set(level.slogLevel())
}

// SetDebug switches between debug and info level.
func SetDebug(enabled bool) {
	if enabled {
		SetLevel(LevelDebug)
		return
	}
	SetLevel(LevelInfo)
}

// Init sends logs to the file at path. It is a no-op once a destination has
// been chosen.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if base != nil {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	logFile = f
	install(f)
	base.Info("logger initialized", "path", path)
	return nil
}

// InitWriter sends logs to w, typically stderr for commands run with
// --log-stderr. It is a no-op once a destination has been chosen.
func InitWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if base == nil {
		install(w)
	}
}

// install requires mu.
func install(w io.Writer) {
	base = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar}))
}

// current requires mu.
func current() *slog.Logger {
	if base == nil {
		fallback.Do(func() {
			f, err := os.OpenFile(DefaultLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to open log file %s: %v\n", DefaultLogPath, err)
				return
			}
			logFile = f
			install(f)
		})
	}
	if base == nil {
		return slog.Default()
	}
	return base
}

// ComponentLogger returns a logger tagged with the component name.
//
//	log := logger.ComponentLogger("transport")
//	log.Info("dialing", "url", cfg.URL)
func ComponentLogger(component string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return current().With(slog.String("component", component))
}

// WithVisitor returns a logger tagged with the visitor ID, so lines from
// several watch sessions can be told apart once collected.
func WithVisitor(visitorID string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return current().With(slog.String("visitor", visitorID))
}

// Close closes the log file. Loggers handed out earlier become no-ops on a
// closed file.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// ClearLogs removes the default log and every watch session log.
func ClearLogs() (int, error) {
	paths, err := filepath.Glob(watchLogGlob)
	if err != nil {
		return 0, err
	}
	paths = append([]string{DefaultLogPath}, paths...)

	removed := 0
	for _, p := range paths {
		err := os.Remove(p)
		switch {
		case err == nil:
			removed++
		case !os.IsNotExist(err):
			return removed, err
		}
	}
	return removed, nil
}
