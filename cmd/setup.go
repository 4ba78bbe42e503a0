package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/widgetchat/internal/api"
	"github.com/zhubert/widgetchat/internal/config"
	"github.com/zhubert/widgetchat/internal/ui"
)

const onboardingSyncTimeout = 10 * time.Second

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Run the first-time setup form",
	Long: `Asks for the server URL, display name, theme and notification preference,
saves them to the config file and, when api_base_url is set, reports the
finished onboarding to the settings service. With api_base_url set the form
starts from the profile stored on the server.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.GetAPIBaseURL() != "" {
		cfg.EnsureVisitorID()
		ctx, cancel := context.WithTimeout(cmd.Context(), onboardingSyncTimeout)
		prefillFromServer(ctx, cmd.ErrOrStderr(), cfg, api.New(cfg))
		cancel()
	}

	form := ui.NewOnboardingForm(cfg)
	if _, err := tea.NewProgram(form).Run(); err != nil {
		return fmt.Errorf("error running setup form: %w", err)
	}
	if !form.Completed() {
		fmt.Fprintln(cmd.OutOrStdout(), "Setup cancelled.")
		return nil
	}
	return finishSetup(cmd.OutOrStdout(), cfg, form.Values(), nil)
}

// finishSetup saves the values and syncs them when an API is configured.
// A nil client means one is built from cfg.
func finishSetup(out io.Writer, cfg *config.Config, v ui.OnboardingValues, client ui.Onboarder) error {
	if err := v.Apply(cfg); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}
	fmt.Fprintf(out, "Saved %s\n", cfg.Path())

	if cfg.GetAPIBaseURL() == "" {
		return nil
	}
	if client == nil {
		client = api.New(cfg)
	}
	ctx, cancel := context.WithTimeout(context.Background(), onboardingSyncTimeout)
	defer cancel()
	if err := v.Sync(ctx, client, cfg); err != nil {
		// Local setup succeeded; the server copy can be synced on the next run.
		fmt.Fprintf(out, "Warning: could not reach the settings service: %v\n", err)
		return nil
	}
	fmt.Fprintln(out, "Profile synced.")
	return nil
}
