package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zhubert/widgetchat/internal/ui"
)

func TestDebugFlagDefaultTrue(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("debug")
	if flag == nil {
		t.Fatal("--debug flag not found")
	}
	if flag.DefValue != "true" {
		t.Errorf("--debug default = %q, want %q", flag.DefValue, "true")
	}
}

func TestQuietFlagExists(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("quiet")
	if flag == nil {
		t.Fatal("--quiet flag not found")
	}
	if flag.DefValue != "false" {
		t.Errorf("--quiet default = %q, want %q", flag.DefValue, "false")
	}
	if flag.Shorthand != "q" {
		t.Errorf("--quiet shorthand = %q, want %q", flag.Shorthand, "q")
	}
}

func TestLogStderrFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("log-stderr")
	if flag == nil {
		t.Fatal("--log-stderr flag not found")
	}
	if flag.DefValue != "false" {
		t.Errorf("--log-stderr default = %q, want %q", flag.DefValue, "false")
	}
}

func TestInitConfig_DefaultDebugEnabled(t *testing.T) {
	// Save and restore package state
	origDebug, origQuiet := debugMode, quietMode
	defer func() { debugMode, quietMode = origDebug, origQuiet }()

	debugMode = true
	quietMode = false

	// Should not panic
	initConfig()
}

func TestInitConfig_QuietOverridesDebug(t *testing.T) {
	origDebug, origQuiet := debugMode, quietMode
	defer func() { debugMode, quietMode = origDebug, origQuiet }()

	debugMode = true
	quietMode = true

	// Should not panic - quiet should take precedence
	initConfig()
}

func TestVersionTemplate(t *testing.T) {
	origV, origC, origD := version, commit, date
	defer SetVersionInfo(origV, origC, origD)

	SetVersionInfo("1.2.3", "none", "unknown")
	if got := versionTemplate(); got != "widgetchat 1.2.3\n" {
		t.Errorf("versionTemplate() = %q", got)
	}

	SetVersionInfo("1.2.3", "abc123", "2024-01-01")
	got := versionTemplate()
	if !strings.Contains(got, "commit: abc123") || !strings.Contains(got, "built:  2024-01-01") {
		t.Errorf("versionTemplate() = %q", got)
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{"render", "preview", "layout", "size", "file", "watch", "setup", "css", "send", "clean", "sync"}
	for _, name := range want {
		c, _, err := rootCmd.Find([]string{name})
		if err != nil || c == rootCmd {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestWatchFlagsOnRoot(t *testing.T) {
	for _, name := range []string{"url", "metrics-addr", "no-notify"} {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Errorf("root is missing --%s", name)
		}
		if watchCmd.Flags().Lookup(name) == nil {
			t.Errorf("watch is missing --%s", name)
		}
	}
}

// useConfig points --config at a file in a temp dir for the duration of a test.
func useConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if contents != "" {
		if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
			t.Fatal(err)
		}
	}
	orig := configPath
	configPath = path
	t.Cleanup(func() {
		configPath = orig
		ui.SetTheme(ui.DefaultTheme)
	})
	return path
}

func TestLoadConfig_AppliesTheme(t *testing.T) {
	useConfig(t, `{"server_url": "ws://localhost:1/ws", "theme": "nord"}`)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.GetServerURL() != "ws://localhost:1/ws" {
		t.Errorf("ServerURL = %q", cfg.GetServerURL())
	}
	if ui.CurrentThemeName() != ui.ThemeNord {
		t.Errorf("theme = %q, want nord", ui.CurrentThemeName())
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	useConfig(t, `{"server_url": "http://wrong"}`)
	if _, err := loadConfig(); err == nil {
		t.Error("expected error for invalid config")
	}
}
