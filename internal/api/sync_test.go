package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/zhubert/widgetchat/internal/config"
)

// settingsServer keeps one profile and one settings document in memory.
type settingsServer struct {
	mu       sync.Mutex
	profile  config.Profile
	settings Settings
	fail     bool
}

func (s *settingsServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	var doc any
	switch r.URL.Path {
	case profilePath:
		doc = &s.profile
	case settingsPath:
		doc = &s.settings
	default:
		http.NotFound(w, r)
		return
	}
	if r.Method == http.MethodPut {
		if err := json.NewDecoder(r.Body).Decode(doc); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	}
	json.NewEncoder(w).Encode(doc)
}

func syncFixture(t *testing.T, srv *settingsServer) (*Client, *config.Config) {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.SetProfile(config.Profile{VisitorID: testVisitor, DisplayName: "Local"})
	cfg.SetTheme("dark-purple")
	return NewWithClient(ts.URL, testVisitor, ts.Client()), cfg
}

func TestPull_MergesServerCopy(t *testing.T) {
	srv := &settingsServer{
		profile: config.Profile{
			VisitorID:      "00000000-0000-0000-0000-000000000000",
			DisplayName:    "Ada",
			Email:          "ada@example.com",
			OnboardingDone: true,
		},
		settings: Settings{Theme: "light", Language: "fr", HighlightStyle: "monokai", NotificationsEnabled: true},
	}
	c, cfg := syncFixture(t, srv)

	if err := c.Pull(context.Background(), cfg); err != nil {
		t.Fatalf("Pull() error = %v", err)
	}

	p := cfg.GetProfile()
	if p.VisitorID != testVisitor {
		t.Errorf("visitor ID = %q, want the local one", p.VisitorID)
	}
	if p.DisplayName != "Ada" || p.Email != "ada@example.com" || p.Language != "fr" || !p.OnboardingDone {
		t.Errorf("profile = %+v", p)
	}
	if cfg.GetTheme() != "light" || cfg.GetHighlightStyle() != "monokai" || !cfg.GetNotificationsEnabled() {
		t.Errorf("settings = %+v", SettingsFrom(cfg))
	}
}

func TestPull_EmptyRemoteFieldsKeepLocal(t *testing.T) {
	c, cfg := syncFixture(t, &settingsServer{})

	if err := c.Pull(context.Background(), cfg); err != nil {
		t.Fatalf("Pull() error = %v", err)
	}
	if got := cfg.GetProfile().DisplayName; got != "Local" {
		t.Errorf("display name = %q, want Local", got)
	}
	if cfg.GetTheme() != "dark-purple" || cfg.GetHighlightStyle() != config.DefaultHighlightStyle {
		t.Errorf("settings = %+v", SettingsFrom(cfg))
	}
}

func TestPull_LeavesConfigOnFailure(t *testing.T) {
	tests := []struct {
		name string
		srv  *settingsServer
	}{
		{"server error", &settingsServer{fail: true}},
		{"invalid style", &settingsServer{
			profile:  config.Profile{DisplayName: "Ada"},
			settings: Settings{Theme: "light", HighlightStyle: "no-such-style", NotificationsEnabled: true},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, cfg := syncFixture(t, tt.srv)
			before := SettingsFrom(cfg)

			if err := c.Pull(context.Background(), cfg); err == nil {
				t.Fatal("Pull() should fail")
			}
			if got := SettingsFrom(cfg); got != before {
				t.Errorf("settings = %+v, want unchanged %+v", got, before)
			}
			if got := cfg.GetProfile().DisplayName; got != "Local" {
				t.Errorf("display name = %q, want unchanged", got)
			}
		})
	}
}

func TestPush_UploadsLocalCopy(t *testing.T) {
	srv := &settingsServer{}
	c, cfg := syncFixture(t, srv)
	cfg.SetHighlightStyle("dracula")

	if err := c.Push(context.Background(), cfg); err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.profile.DisplayName != "Local" || srv.profile.VisitorID != testVisitor {
		t.Errorf("server profile = %+v", srv.profile)
	}
	if srv.settings.Theme != "dark-purple" || srv.settings.HighlightStyle != "dracula" {
		t.Errorf("server settings = %+v", srv.settings)
	}
	if cfg.GetHighlightStyle() != "dracula" {
		t.Errorf("local style changed to %q", cfg.GetHighlightStyle())
	}
}
