package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zhubert/widgetchat/internal/clipboard"
	"github.com/zhubert/widgetchat/internal/markdown"
	"github.com/zhubert/widgetchat/internal/message"
)

type renderOptions struct {
	copy          bool
	fromClipboard bool
	bubble        bool
	self          bool
	style         string
}

var renderOpts renderOptions

var renderCmd = &cobra.Command{
	Use:   "render [file|-]",
	Short: "Render message markdown to HTML",
	Long: `Reads markdown from a file, stdin ("-" or no argument) or the clipboard and
writes the widget's HTML for it to stdout.

Examples:
  widgetchat render reply.md
  echo '**hi**' | widgetchat render --bubble
  widgetchat render --from-clipboard --copy`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		initCommandLogging(cmd)
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("style") {
			renderOpts.style = cfg.GetHighlightStyle()
		}
		text, err := readRenderInput(cmd.InOrStdin(), args, renderOpts.fromClipboard)
		if err != nil {
			return err
		}
		return runRender(cmd.OutOrStdout(), text, renderOpts)
	},
}

func init() {
	renderCmd.Flags().BoolVar(&renderOpts.copy, "copy", false, "Also copy the HTML to the clipboard")
	renderCmd.Flags().BoolVar(&renderOpts.fromClipboard, "from-clipboard", false, "Read markdown from the clipboard")
	renderCmd.Flags().BoolVar(&renderOpts.bubble, "bubble", false, "Wrap the output in a message bubble")
	renderCmd.Flags().BoolVar(&renderOpts.self, "self", false, "Render the bubble as sent by the visitor")
	renderCmd.Flags().StringVar(&renderOpts.style, "style", markdown.DefaultStyle, "Chroma style for fenced code")
	rootCmd.AddCommand(renderCmd)
}

// readRenderInput picks the markdown source: clipboard, stdin or a file.
func readRenderInput(stdin io.Reader, args []string, fromClipboard bool) (string, error) {
	if fromClipboard {
		if len(args) > 0 {
			return "", fmt.Errorf("--from-clipboard does not take a file argument")
		}
		text, err := clipboard.ReadText()
		if err != nil {
			return "", fmt.Errorf("error reading clipboard: %w", err)
		}
		return text, nil
	}

	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("error reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("error reading %s: %w", args[0], err)
	}
	return string(data), nil
}

func runRender(out io.Writer, text string, opts renderOptions) error {
	r := markdown.New(markdown.WithStyle(opts.style))

	var html string
	if opts.bubble {
		m := message.Message{Kind: message.KindText, Content: text, Self: opts.self}
		html = message.NewDispatcher(r).RenderHTML(m)
	} else {
		html = r.Render(text)
	}

	if _, err := fmt.Fprintln(out, html); err != nil {
		return err
	}

	if opts.copy {
		if err := clipboard.WriteText(html); err != nil {
			return fmt.Errorf("error copying to clipboard: %w", err)
		}
	}
	return nil
}
