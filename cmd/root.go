package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zhubert/widgetchat/internal/config"
	"github.com/zhubert/widgetchat/internal/logger"
	"github.com/zhubert/widgetchat/internal/ui"
)

var (
	debugMode             bool
	quietMode             bool
	logToStderr           bool
	configPath            string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "widgetchat",
	Short: "Terminal client and renderer for a customer-support chat widget",
	Long: `widgetchat renders chat widget messages (markdown, images, files and
image grids) and follows a live support conversation over WebSocket.

Run without a subcommand to open the watch view.`,
	RunE:          runWatch,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", true, "Enable debug logging (on by default)")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().BoolVar(&logToStderr, "log-stderr", false, "Log to stderr instead of a file (ignored by watch)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.widgetchat/config.json)")
	addWatchFlags(rootCmd)
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("widgetchat %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("widgetchat %s\n", version)
}

// initCommandLogging points the logger at the command's stderr when
// --log-stderr is set. The watch view keeps its file since it owns the screen.
func initCommandLogging(cmd *cobra.Command) {
	if logToStderr {
		logger.InitWriter(cmd.ErrOrStderr())
	}
}

// loadConfig reads the config selected by --config and applies its theme.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	if !debugMode && !quietMode {
		logger.SetLevel(logger.ParseLevel(cfg.GetLogLevel()))
	}
	ui.SetThemeByName(cfg.GetTheme())
	return cfg, nil
}
