package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zhubert/widgetchat/internal/markdown"
)

var cssStyle string

var cssCmd = &cobra.Command{
	Use:   "css",
	Short: "Print the stylesheet for highlighted code blocks",
	Long: `Prints the CSS matching the class names emitted for fenced code. The
style defaults to highlight_style from the config.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		style := cssStyle
		if style == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			style = cfg.GetHighlightStyle()
		}
		return markdown.CSS(cmd.OutOrStdout(), style)
	},
}

func init() {
	cssCmd.Flags().StringVar(&cssStyle, "style", "", "Chroma style name")
	rootCmd.AddCommand(cssCmd)
}
