package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/alecthomas/chroma/v2/styles"

	"github.com/zhubert/widgetchat/internal/errors"
)

// ConfigDirEnv overrides the config directory (used by tests and packaged installs).
const ConfigDirEnv = "WIDGETCHAT_CONFIG_DIR"

// Default values applied when a field is absent from the config file.
const (
	DefaultServerURL        = "ws://127.0.0.1:8000/ws"
	DefaultHighlightStyle   = "github"
	DefaultLogLevel         = "info"
	DefaultConnectTimeout   = 10    // seconds
	DefaultReconnectMinMs   = 500   // first reconnect delay
	DefaultReconnectMaxMs   = 30000 // reconnect delay ceiling
	DefaultMaxReconnects    = 5
	MaxDisplayNameLength    = 64
	maxReconnectsUpperBound = 100
)

// Config holds the widget configuration
type Config struct {
	ServerURL      string `json:"server_url"`
	APIBaseURL     string `json:"api_base_url,omitempty"`
	Theme          string `json:"theme,omitempty"`           // terminal theme name (e.g., "dark-purple")
	HighlightStyle string `json:"highlight_style,omitempty"` // chroma style for fenced code
	LogLevel       string `json:"log_level,omitempty"`

	NotificationsEnabled bool `json:"notifications_enabled,omitempty"` // desktop notifications on new messages

	Profile    Profile    `json:"profile"`
	Connection Connection `json:"connection"`

	mu       sync.RWMutex
	filePath string
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".widgetchat"), nil
}

// configPath returns the path to the config file
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Default returns a config populated with defaults that is not yet bound to a file.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the config from disk, or returns defaults if it doesn't exist
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, errors.ConfigLoadFailed("~/.widgetchat", err)
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{filePath: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.applyDefaults()
		return cfg, nil
	}
	if err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}

	// Defaults must be filled before Validate() since zero values are invalid
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults fills zero-valued fields.
//
// Thread-safety: NOT thread-safe; only called from Load()/Default() before
// the Config is shared.
func (c *Config) applyDefaults() {
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.HighlightStyle == "" {
		c.HighlightStyle = DefaultHighlightStyle
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.Connection.applyDefaults()
}

// Validate checks that the config is internally consistent.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("server_url %q: %v", c.ServerURL, err))
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return errors.ConfigInvalid(fmt.Sprintf("server_url %q must use ws or wss", c.ServerURL))
	}

	if c.APIBaseURL != "" {
		u, err := url.Parse(c.APIBaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return errors.ConfigInvalid(fmt.Sprintf("api_base_url %q must be an http(s) URL", c.APIBaseURL))
		}
	}

	if _, ok := styles.Registry[c.HighlightStyle]; !ok {
		return errors.ConfigInvalid(fmt.Sprintf("unknown highlight_style %q", c.HighlightStyle))
	}

	if err := c.Profile.validate(); err != nil {
		return err
	}
	return c.Connection.validate()
}

// Save writes the config to disk. The file is written to a temp file in the
// same directory and renamed so a crash never leaves a truncated config.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	path := c.filePath
	if path == "" {
		p, err := configPath()
		if err != nil {
			return errors.ConfigSaveFailed("~/.widgetchat", err)
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.ConfigSaveFailed(path, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.ConfigSaveFailed(path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.json")
	if err != nil {
		return errors.ConfigSaveFailed(path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.ConfigSaveFailed(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.ConfigSaveFailed(path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.ConfigSaveFailed(path, err)
	}
	return nil
}

// Path returns the file this config is bound to.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filePath
}

// GetServerURL returns the websocket URL of the chat service
func (c *Config) GetServerURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ServerURL
}

// SetServerURL sets the websocket URL of the chat service
func (c *Config) SetServerURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ServerURL = u
}

// GetAPIBaseURL returns the settings/profile API base URL (empty disables sync)
func (c *Config) GetAPIBaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.APIBaseURL
}

// SetAPIBaseURL sets the settings/profile API base URL
func (c *Config) SetAPIBaseURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.APIBaseURL = u
}

// GetTheme returns the current theme name
func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Theme
}

// SetTheme sets the current theme name
func (c *Config) SetTheme(theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Theme = theme
}

// GetHighlightStyle returns the chroma style used for fenced code
func (c *Config) GetHighlightStyle() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.HighlightStyle
}

// SetHighlightStyle sets the chroma style used for fenced code
func (c *Config) SetHighlightStyle(style string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.HighlightStyle = style
}

// GetLogLevel returns the configured log level name
func (c *Config) GetLogLevel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.LogLevel
}

// GetNotificationsEnabled returns whether desktop notifications are enabled
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled sets whether desktop notifications are enabled
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}

// GetConnection returns a copy of the connection settings
func (c *Config) GetConnection() Connection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Connection
}
