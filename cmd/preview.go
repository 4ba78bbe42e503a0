package cmd

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhubert/widgetchat/internal/markdown"
	"github.com/zhubert/widgetchat/internal/message"
	"github.com/zhubert/widgetchat/internal/ui"
)

var (
	previewHTML  bool
	previewWidth int
)

var previewCmd = &cobra.Command{
	Use:   "preview <transcript.json|transcript.yaml>",
	Short: "Render a saved conversation",
	Long: `Loads a JSON or YAML list of messages and renders it either for the
terminal (default) or as a standalone HTML page (--html).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		initCommandLogging(cmd)
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		msgs, err := message.LoadTranscript(args[0])
		if err != nil {
			return err
		}
		if previewHTML {
			return writeHTMLPreview(cmd.OutOrStdout(), msgs, cfg.GetHighlightStyle())
		}
		return writeTerminalPreview(cmd.OutOrStdout(), msgs, previewWidth)
	},
}

func init() {
	previewCmd.Flags().BoolVar(&previewHTML, "html", false, "Write an HTML page instead of terminal output")
	previewCmd.Flags().IntVarP(&previewWidth, "width", "w", ui.DefaultWrapWidth, "Terminal width for bubbles")
	rootCmd.AddCommand(previewCmd)
}

func writeTerminalPreview(out io.Writer, msgs []message.Message, width int) error {
	rendered := make([]string, len(msgs))
	for i, m := range msgs {
		rendered[i] = ui.RenderMessage(m, width)
	}
	_, err := fmt.Fprintln(out, strings.Join(rendered, "\n\n"))
	return err
}

func writeHTMLPreview(out io.Writer, msgs []message.Message, style string) error {
	var css bytes.Buffer
	if err := markdown.CSS(&css, style); err != nil {
		return err
	}
	d := message.NewDispatcher(markdown.New(markdown.WithStyle(style)))

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>widgetchat transcript</title>\n<style>\n")
	sb.WriteString(css.String())
	sb.WriteString("</style>\n</head>\n<body>\n<div class=\"transcript\">\n")
	for _, m := range msgs {
		sb.WriteString(d.RenderHTML(m))
		sb.WriteString("\n")
	}
	sb.WriteString("</div>\n</body>\n</html>\n")

	_, err := io.WriteString(out, sb.String())
	return err
}
