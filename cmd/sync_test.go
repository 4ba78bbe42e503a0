package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/zhubert/widgetchat/internal/api"
	"github.com/zhubert/widgetchat/internal/config"
)

type fakeSyncer struct {
	pulls, pushes int
	err           error
}

func (f *fakeSyncer) Pull(ctx context.Context, cfg *config.Config) error {
	f.pulls++
	if f.err != nil {
		return f.err
	}
	cfg.SetTheme("light")
	return nil
}

func (f *fakeSyncer) Push(ctx context.Context, cfg *config.Config) error {
	f.pushes++
	return f.err
}

func TestSyncProfile(t *testing.T) {
	tests := []struct {
		name       string
		push       bool
		wantPulls  int
		wantPushes int
		wantOut    string
	}{
		{"pull", false, 1, 0, "Pulled profile for anonymous visitor"},
		{"push", true, 0, 1, "Pushed profile for anonymous visitor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := setupConfig(t)
			fake := &fakeSyncer{}

			var out bytes.Buffer
			if err := syncProfile(context.Background(), &out, cfg, fake, tt.push); err != nil {
				t.Fatalf("syncProfile() error = %v", err)
			}
			if fake.pulls != tt.wantPulls || fake.pushes != tt.wantPushes {
				t.Errorf("pulls, pushes = %d, %d", fake.pulls, fake.pushes)
			}
			if !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("output = %q, want %q", out.String(), tt.wantOut)
			}

			saved, err := config.LoadFrom(cfg.Path())
			if err != nil {
				t.Fatalf("reload: %v", err)
			}
			if saved.GetTheme() != cfg.GetTheme() {
				t.Errorf("saved theme = %q, want %q", saved.GetTheme(), cfg.GetTheme())
			}
		})
	}
}

func TestSyncProfile_ErrorDoesNotSave(t *testing.T) {
	cfg := setupConfig(t)

	err := syncProfile(context.Background(), &bytes.Buffer{}, cfg, &fakeSyncer{err: errors.New("503")}, false)
	if err == nil || !strings.Contains(err.Error(), "sync failed") {
		t.Fatalf("syncProfile() error = %v", err)
	}
	if _, err := os.Stat(cfg.Path()); !os.IsNotExist(err) {
		t.Error("config should not be saved after a failed sync")
	}
	if cfg.GetTheme() == "light" {
		t.Error("failed pull should not change the theme")
	}
}

func TestSyncProfile_AgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/profile":
			json.NewEncoder(w).Encode(config.Profile{DisplayName: "Ada"})
		case "/api/settings":
			json.NewEncoder(w).Encode(api.Settings{Theme: "light", HighlightStyle: "monokai"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cfg := setupConfig(t)
	cfg.SetAPIBaseURL(srv.URL)
	visitor := cfg.EnsureVisitorID()

	var out bytes.Buffer
	client := api.NewWithClient(srv.URL, visitor, srv.Client())
	if err := syncProfile(context.Background(), &out, cfg, client, false); err != nil {
		t.Fatalf("syncProfile() error = %v", err)
	}
	want := `Pulled profile for Ada (theme "light", code style "monokai")`
	if !strings.Contains(out.String(), want) {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	if cfg.GetProfile().VisitorID != visitor {
		t.Error("visitor ID should stay local")
	}
}

func TestPrefillFromServer(t *testing.T) {
	cfg := setupConfig(t)

	var out bytes.Buffer
	prefillFromServer(context.Background(), &out, cfg, &fakeSyncer{})
	if out.Len() != 0 || cfg.GetTheme() != "light" {
		t.Errorf("prefill output = %q, theme = %q", out.String(), cfg.GetTheme())
	}

	out.Reset()
	prefillFromServer(context.Background(), &out, cfg, &fakeSyncer{err: errors.New("refused")})
	if !strings.Contains(out.String(), "Warning: could not load your saved profile: refused") {
		t.Errorf("output = %q", out.String())
	}
}

func TestSyncCommandsRegistered(t *testing.T) {
	for _, path := range [][]string{{"sync", "pull"}, {"sync", "push"}} {
		c, _, err := rootCmd.Find(path)
		if err != nil || c.Name() != path[1] {
			t.Errorf("command %v not registered", path)
		}
	}
}
