package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/widgetchat/internal/config"
	"github.com/zhubert/widgetchat/internal/connection"
	"github.com/zhubert/widgetchat/internal/logger"
	"github.com/zhubert/widgetchat/internal/metrics"
	"github.com/zhubert/widgetchat/internal/transport"
	"github.com/zhubert/widgetchat/internal/ui"
)

var (
	watchURL         string
	watchMetricsAddr string
	watchNoNotify    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow a live support conversation",
	Long: `Connects to the chat service and shows incoming messages with the
connection status. Press r to retry a failed connection and q to quit.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	addWatchFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func addWatchFlags(c *cobra.Command) {
	c.Flags().StringVar(&watchURL, "url", "", "WebSocket URL (overrides server_url)")
	c.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address, e.g. :9090")
	c.Flags().BoolVar(&watchNoNotify, "no-notify", false, "Disable desktop notifications")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if watchURL != "" {
		cfg.SetServerURL(watchURL)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	visitor := cfg.EnsureVisitorID()
	if err := logger.Init(logger.WatchLogPath(visitor[:8])); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	defer logger.Close()
	log := logger.WithVisitor(visitor).With("component", "watch")
	log.Info("watch started", "url", cfg.GetServerURL())

	if watchMetricsAddr != "" {
		srv := startMetricsServer(watchMetricsAddr)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	client := transport.New(transport.ConfigFrom(cfg))
	adapter, err := connection.Init(client)
	if err != nil {
		return err
	}
	defer connection.Teardown()

	model := ui.NewWatchModel(adapter, client.Messages(),
		ui.WithTitle(watchTitle(cfg)),
		ui.WithNotifications(cfg.GetNotificationsEnabled() && !watchNoNotify),
	)
	defer model.Close()

	// Failures surface in the footer; the user retries from there.
	go func() {
		if err := adapter.Connect(context.Background()); err != nil {
			log.Warn("initial connect failed", "error", err)
		}
	}()

	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("error running watch view: %w", err)
	}
	return nil
}

func watchTitle(cfg *config.Config) string {
	title := "widgetchat · " + cfg.GetServerURL()
	if name := cfg.GetProfile().DisplayName; name != "" {
		title += " · " + name
	}
	return title
}

func startMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	log := logger.ComponentLogger("metrics")
	go func() {
		log.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}
