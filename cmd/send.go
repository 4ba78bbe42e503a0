package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zhubert/widgetchat/internal/config"
	"github.com/zhubert/widgetchat/internal/message"
	"github.com/zhubert/widgetchat/internal/transport"
)

var sendURL string

var sendCmd = &cobra.Command{
	Use:   "send <text>...",
	Short: "Send a text message and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		initCommandLogging(cmd)
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if sendURL != "" {
			cfg.SetServerURL(sendURL)
		}
		m, err := sendText(cmd.Context(), cfg, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sent %s\n", m.ID)
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendURL, "url", "", "WebSocket URL (overrides server_url)")
	rootCmd.AddCommand(sendCmd)
}

// sendText connects once, writes a text message from the visitor and closes.
func sendText(ctx context.Context, cfg *config.Config, text string) (message.Message, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	m := message.Message{
		ID:      uuid.NewString(),
		Kind:    message.KindText,
		Content: text,
		Self:    true,
		Sender:  cfg.GetProfile().DisplayName,
		SentAt:  time.Now().UTC(),
	}

	tcfg := transport.ConfigFrom(cfg)
	tcfg.MaxReconnects = 0
	client := transport.New(tcfg)
	defer client.Close()

	if err := client.Connect(ctx); err != nil {
		return message.Message{}, err
	}
	if err := client.Send(ctx, m); err != nil {
		return message.Message{}, err
	}
	return m, nil
}
