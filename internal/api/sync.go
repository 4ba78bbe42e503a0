package api

import (
	"context"

	"github.com/zhubert/widgetchat/internal/config"
	"github.com/zhubert/widgetchat/internal/logger"
)

// SettingsFrom collects the server-synced settings from cfg.
func SettingsFrom(cfg *config.Config) Settings {
	return Settings{
		Theme:                cfg.GetTheme(),
		Language:             cfg.GetProfile().Language,
		HighlightStyle:       cfg.GetHighlightStyle(),
		NotificationsEnabled: cfg.GetNotificationsEnabled(),
	}
}

// Pull fetches the server copy of the profile and settings and merges it into
// cfg. cfg is left untouched when a request fails or the merged values do not
// validate. The caller saves.
func (c *Client) Pull(ctx context.Context, cfg *config.Config) error {
	p, err := c.GetProfile(ctx)
	if err != nil {
		return err
	}
	s, err := c.GetSettings(ctx)
	if err != nil {
		return err
	}
	if err := merge(cfg, p, s); err != nil {
		return err
	}
	logger.ComponentLogger("api").Info("pulled profile and settings", "visitor", cfg.GetProfile().VisitorID)
	return nil
}

// Push uploads cfg's profile and settings, then merges back what the server
// kept.
func (c *Client) Push(ctx context.Context, cfg *config.Config) error {
	p, err := c.UpdateProfile(ctx, cfg.GetProfile())
	if err != nil {
		return err
	}
	s, err := c.UpdateSettings(ctx, SettingsFrom(cfg))
	if err != nil {
		return err
	}
	if err := merge(cfg, p, s); err != nil {
		return err
	}
	logger.ComponentLogger("api").Info("pushed profile and settings", "visitor", cfg.GetProfile().VisitorID)
	return nil
}

// merge overlays remote values on cfg. Empty remote strings keep the local
// value; the visitor ID is always local. On a validation failure cfg is
// restored.
func merge(cfg *config.Config, p config.Profile, s Settings) error {
	prevProfile := cfg.GetProfile()
	prev := SettingsFrom(cfg)

	p.VisitorID = prevProfile.VisitorID
	p.OnboardingDone = p.OnboardingDone || prevProfile.OnboardingDone
	if p.DisplayName == "" {
		p.DisplayName = prevProfile.DisplayName
	}
	if p.Email == "" {
		p.Email = prevProfile.Email
	}
	if s.Language != "" {
		p.Language = s.Language
	} else if p.Language == "" {
		p.Language = prevProfile.Language
	}

	cfg.SetProfile(p)
	if s.Theme != "" {
		cfg.SetTheme(s.Theme)
	}
	if s.HighlightStyle != "" {
		cfg.SetHighlightStyle(s.HighlightStyle)
	}
	cfg.SetNotificationsEnabled(s.NotificationsEnabled)

	if err := cfg.Validate(); err != nil {
		cfg.SetProfile(prevProfile)
		cfg.SetTheme(prev.Theme)
		cfg.SetHighlightStyle(prev.HighlightStyle)
		cfg.SetNotificationsEnabled(prev.NotificationsEnabled)
		return err
	}
	return nil
}
