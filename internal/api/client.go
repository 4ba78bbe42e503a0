// Package api wraps the settings, profile and onboarding HTTP endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zhubert/widgetchat/internal/config"
	"github.com/zhubert/widgetchat/internal/errors"
	"github.com/zhubert/widgetchat/internal/logger"
)

const (
	apiHTTPTimeout  = 15 * time.Second
	visitorIDHeader = "X-Visitor-ID"

	settingsPath   = "/api/settings"
	profilePath    = "/api/profile"
	onboardingPath = "/api/onboarding/complete"
)

// Settings are the widget preferences stored server side.
type Settings struct {
	Theme                string `json:"theme,omitempty"`
	Language             string `json:"language,omitempty"`
	HighlightStyle       string `json:"highlight_style,omitempty"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

// Onboarding is the payload sent when the visitor finishes onboarding.
type Onboarding struct {
	Profile  config.Profile `json:"profile"`
	Settings Settings       `json:"settings"`
}

// Client talks to the widget backend.
type Client struct {
	baseURL    string
	visitorID  string
	httpClient *http.Client
}

// New creates a client from the application config.
func New(cfg *config.Config) *Client {
	return NewWithClient(cfg.GetAPIBaseURL(), cfg.GetProfile().VisitorID, &http.Client{Timeout: apiHTTPTimeout})
}

// NewWithClient creates a client with a custom HTTP client (for testing).
func NewWithClient(baseURL, visitorID string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: apiHTTPTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		visitorID:  visitorID,
		httpClient: client,
	}
}

// GetSettings fetches the stored settings.
func (c *Client) GetSettings(ctx context.Context) (Settings, error) {
	var s Settings
	err := c.do(ctx, "api.GetSettings", http.MethodGet, settingsPath, nil, &s)
	return s, err
}

// UpdateSettings replaces the stored settings and returns what the server kept.
func (c *Client) UpdateSettings(ctx context.Context, s Settings) (Settings, error) {
	var out Settings
	err := c.do(ctx, "api.UpdateSettings", http.MethodPut, settingsPath, s, &out)
	return out, err
}

// GetProfile fetches the visitor profile.
func (c *Client) GetProfile(ctx context.Context) (config.Profile, error) {
	var p config.Profile
	err := c.do(ctx, "api.GetProfile", http.MethodGet, profilePath, nil, &p)
	return p, err
}

// UpdateProfile replaces the visitor profile and returns what the server kept.
func (c *Client) UpdateProfile(ctx context.Context, p config.Profile) (config.Profile, error) {
	var out config.Profile
	err := c.do(ctx, "api.UpdateProfile", http.MethodPut, profilePath, p, &out)
	return out, err
}

// CompleteOnboarding reports the onboarding answers.
func (c *Client) CompleteOnboarding(ctx context.Context, o Onboarding) error {
	return c.do(ctx, "api.CompleteOnboarding", http.MethodPost, onboardingPath, o, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.E(errors.Op(op), errors.KindInvalid, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.E(errors.Op(op), errors.KindInvalid, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.visitorID != "" {
		req.Header.Set(visitorIDHeader, c.visitorID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.E(errors.Op(op), errors.KindNetwork, fmt.Sprintf("%s %s", method, path), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.ComponentLogger("api").Warn("request failed", "op", op, "status", resp.StatusCode)
		return errors.APIRequestFailed(op, resp.StatusCode)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.E(errors.Op(op), errors.KindInvalid, "failed to parse response", err)
	}
	return nil
}
