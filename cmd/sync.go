package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhubert/widgetchat/internal/api"
	"github.com/zhubert/widgetchat/internal/config"
)

const syncTimeout = 15 * time.Second

// remoteSyncer moves the profile and settings between cfg and the server.
type remoteSyncer interface {
	Pull(ctx context.Context, cfg *config.Config) error
	Push(ctx context.Context, cfg *config.Config) error
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the profile and settings with the settings service",
	Long: `Copies the visitor profile and widget settings between the local config
and the settings service at api_base_url. The local visitor ID is never
replaced by the server's.`,
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch the server copy into the local config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSyncCommand(cmd, false)
	},
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the local config to the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSyncCommand(cmd, true)
	},
}

func init() {
	syncCmd.AddCommand(syncPullCmd, syncPushCmd)
	rootCmd.AddCommand(syncCmd)
}

func runSyncCommand(cmd *cobra.Command, push bool) error {
	initCommandLogging(cmd)
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.GetAPIBaseURL() == "" {
		return fmt.Errorf("api_base_url is not set in %s", cfg.Path())
	}
	cfg.EnsureVisitorID()

	ctx, cancel := context.WithTimeout(cmd.Context(), syncTimeout)
	defer cancel()
	return syncProfile(ctx, cmd.OutOrStdout(), cfg, api.New(cfg), push)
}

// syncProfile pulls or pushes and saves the merged result.
func syncProfile(ctx context.Context, out io.Writer, cfg *config.Config, client remoteSyncer, push bool) error {
	verb, run := "Pulled", client.Pull
	if push {
		verb, run = "Pushed", client.Push
	}
	if err := run(ctx, cfg); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	p := cfg.GetProfile()
	fmt.Fprintf(out, "%s profile for %s (theme %q, code style %q)\n", verb, displayNameOr(p.DisplayName), cfg.GetTheme(), cfg.GetHighlightStyle())
	return nil
}

// prefillFromServer pulls the server copy before the setup form so returning
// visitors see their stored answers. Failures only warn; nothing is saved.
func prefillFromServer(ctx context.Context, out io.Writer, cfg *config.Config, client remoteSyncer) {
	if err := client.Pull(ctx, cfg); err != nil {
		fmt.Fprintf(out, "Warning: could not load your saved profile: %v\n", err)
	}
}

func displayNameOr(name string) string {
	if name == "" {
		return "anonymous visitor"
	}
	return name
}
