package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/zhubert/widgetchat/internal/errors"
)

// Profile is the visitor-facing identity shown on outgoing bubbles and sent
// to the settings API.
type Profile struct {
	VisitorID      string `json:"visitor_id,omitempty"`
	DisplayName    string `json:"display_name,omitempty"`
	Email          string `json:"email,omitempty"`
	Language       string `json:"language,omitempty"`
	OnboardingDone bool   `json:"onboarding_done,omitempty"`
}

func (p Profile) validate() error {
	if utf8.RuneCountInString(p.DisplayName) > MaxDisplayNameLength {
		return errors.ConfigInvalid(fmt.Sprintf("display_name longer than %d characters", MaxDisplayNameLength))
	}
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		return errors.ConfigInvalid(fmt.Sprintf("email %q is not an address", p.Email))
	}
	if p.VisitorID != "" {
		if _, err := uuid.Parse(p.VisitorID); err != nil {
			return errors.ConfigInvalid(fmt.Sprintf("visitor_id %q is not a UUID", p.VisitorID))
		}
	}
	return nil
}

// GetProfile returns a copy of the profile
func (c *Config) GetProfile() Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Profile
}

// SetProfile replaces the profile, assigning a visitor ID if it has none.
func (c *Config) SetProfile(p Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.VisitorID == "" {
		p.VisitorID = c.Profile.VisitorID
	}
	if p.VisitorID == "" {
		p.VisitorID = uuid.New().String()
	}
	c.Profile = p
}

// EnsureVisitorID returns the visitor ID, generating one on first use.
func (c *Config) EnsureVisitorID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Profile.VisitorID == "" {
		c.Profile.VisitorID = uuid.New().String()
	}
	return c.Profile.VisitorID
}

// HasCompletedOnboarding reports whether the onboarding form was submitted
func (c *Config) HasCompletedOnboarding() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Profile.OnboardingDone
}

// MarkOnboardingDone marks the onboarding flow as finished
func (c *Config) MarkOnboardingDone() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Profile.OnboardingDone = true
}
