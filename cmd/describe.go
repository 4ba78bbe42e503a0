package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zhubert/widgetchat/internal/clipboard"
	"github.com/zhubert/widgetchat/internal/message"
)

var (
	describeJSON  bool
	sizeClipboard bool
)

var layoutCmd = &cobra.Command{
	Use:   "layout <count>",
	Short: "Show the grid layout for a number of images",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid image count %q", args[0])
		}
		return writeLayout(cmd.OutOrStdout(), n, describeJSON)
	},
}

var sizeCmd = &cobra.Command{
	Use:   "size <width> <height>",
	Short: "Show the display size for an image",
	Long: `Prints the bounded display size of an image. With --from-clipboard the
dimensions are taken from the image currently on the clipboard.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if sizeClipboard {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var w, h int
		if sizeClipboard {
			img, err := clipboard.ReadImage()
			if err != nil {
				return err
			}
			if img == nil {
				return fmt.Errorf("no image on the clipboard")
			}
			w, h = img.Width, img.Height
		} else {
			var err error
			if w, err = strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("invalid width %q", args[0])
			}
			if h, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("invalid height %q", args[1])
			}
		}
		return writeSize(cmd.OutOrStdout(), w, h, describeJSON)
	},
}

var fileCmd = &cobra.Command{
	Use:   "file <name> [bytes]",
	Short: "Show the icon and formatted size for an attachment",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var size int64
		if len(args) == 2 {
			var err error
			if size, err = strconv.ParseInt(args[1], 10, 64); err != nil {
				return fmt.Errorf("invalid size %q", args[1])
			}
		}
		return writeFileInfo(cmd.OutOrStdout(), args[0], size, describeJSON)
	},
}

func init() {
	for _, c := range []*cobra.Command{layoutCmd, sizeCmd, fileCmd} {
		c.Flags().BoolVar(&describeJSON, "json", false, "Print JSON")
		rootCmd.AddCommand(c)
	}
	sizeCmd.Flags().BoolVar(&sizeClipboard, "from-clipboard", false, "Use the clipboard image's dimensions")
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeLayout(out io.Writer, n int, asJSON bool) error {
	l := message.GridLayoutFor(n)
	if asJSON {
		return writeJSON(out, l)
	}
	_, err := fmt.Fprintf(out, "%d columns × %d rows, %s tiles\n", l.Columns, l.Rows, l.Size)
	return err
}

func writeSize(out io.Writer, w, h int, asJSON bool) error {
	s := message.ImageDisplaySize(w, h)
	if asJSON {
		return writeJSON(out, s)
	}
	_, err := fmt.Fprintf(out, "%dx%d\n", s.Width, s.Height)
	return err
}

func writeFileInfo(out io.Writer, name string, size int64, asJSON bool) error {
	info := message.DescribeFile(message.Media{Name: name, Size: size})
	if asJSON {
		return writeJSON(out, struct {
			Name string `json:"name"`
			Icon string `json:"icon"`
			Size string `json:"size"`
		}{info.Name, info.Icon.String(), info.Size})
	}
	_, err := fmt.Fprintf(out, "%s %s  %s  %s\n", info.Icon.Glyph(), info.Name, info.Icon.String(), info.Size)
	return err
}
