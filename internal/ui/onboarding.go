package ui

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/zhubert/widgetchat/internal/api"
	"github.com/zhubert/widgetchat/internal/config"
	"github.com/zhubert/widgetchat/internal/keys"
	"github.com/zhubert/widgetchat/internal/logger"
)

// OnboardingValues holds what the onboarding form collects.
type OnboardingValues struct {
	ServerURL      string
	DisplayName    string
	Email          string
	Theme          string
	HighlightStyle string
	Notifications  bool
}

// Onboarder is the part of api.Client used to report a finished onboarding.
type Onboarder interface {
	CompleteOnboarding(ctx context.Context, o api.Onboarding) error
}

// OnboardingForm is the first-run setup form.
type OnboardingForm struct {
	form    *huh.Form
	values  *OnboardingValues
	aborted bool
}

// NewOnboardingForm builds the form, prefilled from cfg.
func NewOnboardingForm(cfg *config.Config) *OnboardingForm {
	profile := cfg.GetProfile()
	v := &OnboardingValues{
		ServerURL:      cfg.GetServerURL(),
		DisplayName:    profile.DisplayName,
		Email:          profile.Email,
		Theme:          cfg.GetTheme(),
		HighlightStyle: cfg.GetHighlightStyle(),
		Notifications:  cfg.GetNotificationsEnabled(),
	}
	if !IsTheme(v.Theme) {
		v.Theme = string(DefaultTheme)
	}

	themes := ThemeNames()
	themeOptions := make([]huh.Option[string], len(themes))
	for i, name := range themes {
		themeOptions[i] = huh.NewOption(GetTheme(name).Name, string(name))
	}

	styleOptions := make([]huh.Option[string], 0, len(styles.Names()))
	for _, name := range styles.Names() {
		styleOptions = append(styleOptions, huh.NewOption(name, name))
	}

	serverGroup := huh.NewGroup(
		huh.NewInput().
			Title("Server URL").
			Description("WebSocket endpoint of the support service").
			Placeholder(config.DefaultServerURL).
			Validate(ValidateServerURL).
			Value(&v.ServerURL),
	).Title("Connection")

	profileGroup := huh.NewGroup(
		huh.NewInput().
			Title("Display name").
			Placeholder("Shown to support agents").
			CharLimit(DisplayNameCharLimit).
			Value(&v.DisplayName),
		huh.NewInput().
			Title("Email").
			Description("Optional, for follow-ups").
			Validate(ValidateEmail).
			Value(&v.Email),
	).Title("Profile")

	appearance := huh.NewGroup(
		huh.NewSelect[string]().
			Title("Theme").
			Options(themeOptions...).
			Value(&v.Theme),
		huh.NewSelect[string]().
			Title("Code highlight style").
			Options(styleOptions...).
			Height(8).
			Value(&v.HighlightStyle),
		huh.NewConfirm().
			Title("Desktop notifications").
			Description("Notify on new replies and lost connections").
			Value(&v.Notifications),
	).Title("Appearance")

	form := huh.NewForm(serverGroup, profileGroup, appearance).
		WithTheme(FormTheme()).
		WithShowHelp(false).
		WithWidth(OnboardingWidth)

	return &OnboardingForm{form: form, values: v}
}

// ValidateServerURL accepts ws:// and wss:// URLs with a host.
func ValidateServerURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not a URL")
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("must start with ws:// or wss://")
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

// ValidateEmail accepts an empty string or something with an @.
func ValidateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return fmt.Errorf("not an email address")
	}
	return nil
}

// Init implements tea.Model.
func (f *OnboardingForm) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model.
func (f *OnboardingForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case keys.CtrlC, keys.Escape:
			f.aborted = true
			return f, tea.Quit
		}
	}

	m, cmd := f.form.Update(msg)
	if form, ok := m.(*huh.Form); ok {
		f.form = form
	}
	if f.form.State == huh.StateCompleted || f.form.State == huh.StateAborted {
		f.aborted = f.form.State == huh.StateAborted
		return f, tea.Quit
	}
	return f, cmd
}

// View implements tea.Model.
func (f *OnboardingForm) View() tea.View {
	var v tea.View
	title := HeaderStyle.Render("Welcome to widgetchat")
	help := FooterDescStyle.Render("enter: next  shift+tab: back  esc: cancel")
	v.SetContent(lipgloss.JoinVertical(lipgloss.Left, title, "", f.form.View(), "", help))
	return v
}

// Completed reports whether the form was submitted.
func (f *OnboardingForm) Completed() bool {
	return !f.aborted && f.form.State == huh.StateCompleted
}

// Aborted reports whether the user cancelled the form.
func (f *OnboardingForm) Aborted() bool {
	return f.aborted
}

// Values returns the current field values.
func (f *OnboardingForm) Values() OnboardingValues {
	return *f.values
}

// Apply writes v into cfg, marks onboarding done and saves.
func (v OnboardingValues) Apply(cfg *config.Config) error {
	cfg.SetServerURL(strings.TrimSpace(v.ServerURL))
	cfg.SetTheme(v.Theme)
	cfg.SetHighlightStyle(v.HighlightStyle)
	cfg.SetNotificationsEnabled(v.Notifications)

	p := cfg.GetProfile()
	p.DisplayName = strings.TrimSpace(v.DisplayName)
	p.Email = strings.TrimSpace(v.Email)
	cfg.SetProfile(p)
	cfg.MarkOnboardingDone()

	if err := cfg.Validate(); err != nil {
		return err
	}
	SetThemeByName(v.Theme)
	return cfg.Save()
}

// Sync reports the finished onboarding to the settings service.
func (v OnboardingValues) Sync(ctx context.Context, client Onboarder, cfg *config.Config) error {
	log := logger.ComponentLogger("onboarding")
	err := client.CompleteOnboarding(ctx, api.Onboarding{
		Profile: cfg.GetProfile(),
		Settings: api.Settings{
			Theme:                v.Theme,
			HighlightStyle:       v.HighlightStyle,
			NotificationsEnabled: v.Notifications,
		},
	})
	if err != nil {
		log.Warn("onboarding sync failed", "error", err)
		return err
	}
	log.Info("onboarding synced", "visitor", cfg.GetProfile().VisitorID)
	return nil
}
