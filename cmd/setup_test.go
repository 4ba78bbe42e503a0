package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/zhubert/widgetchat/internal/api"
	"github.com/zhubert/widgetchat/internal/config"
	"github.com/zhubert/widgetchat/internal/ui"
)

func setupConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ui.SetTheme(ui.DefaultTheme) })
	return cfg
}

func setupValues() ui.OnboardingValues {
	return ui.OnboardingValues{
		ServerURL:      "wss://chat.example.com/ws",
		DisplayName:    "Sam",
		Theme:          "light",
		HighlightStyle: "github",
	}
}

func TestFinishSetup_LocalOnly(t *testing.T) {
	cfg := setupConfig(t)

	var out bytes.Buffer
	if err := finishSetup(&out, cfg, setupValues(), nil); err != nil {
		t.Fatalf("finishSetup() error = %v", err)
	}
	if !strings.Contains(out.String(), "Saved "+cfg.Path()) {
		t.Errorf("output = %q", out.String())
	}
	if strings.Contains(out.String(), "synced") {
		t.Error("should not sync without api_base_url")
	}
	if !cfg.HasCompletedOnboarding() {
		t.Error("onboarding not marked done")
	}
}

func TestFinishSetup_Syncs(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := setupConfig(t)
	cfg.SetAPIBaseURL(srv.URL)

	var out bytes.Buffer
	client := api.NewWithClient(srv.URL, cfg.EnsureVisitorID(), srv.Client())
	if err := finishSetup(&out, cfg, setupValues(), client); err != nil {
		t.Fatalf("finishSetup() error = %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("api calls = %d, want 1", n)
	}
	if !strings.Contains(out.String(), "Profile synced.") {
		t.Errorf("output = %q", out.String())
	}
}

type unreachableOnboarder struct{}

func (unreachableOnboarder) CompleteOnboarding(context.Context, api.Onboarding) error {
	return context.DeadlineExceeded
}

func TestFinishSetup_SyncFailureIsAWarning(t *testing.T) {
	cfg := setupConfig(t)
	cfg.SetAPIBaseURL("http://127.0.0.1:1")

	var out bytes.Buffer
	if err := finishSetup(&out, cfg, setupValues(), unreachableOnboarder{}); err != nil {
		t.Fatalf("finishSetup() error = %v", err)
	}
	if !strings.Contains(out.String(), "Warning: could not reach the settings service") {
		t.Errorf("output = %q", out.String())
	}
}

func TestFinishSetup_InvalidValues(t *testing.T) {
	cfg := setupConfig(t)
	v := setupValues()
	v.Email = "not-an-email"

	if err := finishSetup(&bytes.Buffer{}, cfg, v, nil); err == nil {
		t.Error("expected error for invalid email")
	}
}
