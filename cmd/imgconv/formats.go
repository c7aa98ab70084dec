package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/drummonds/imgconv/formats"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the accepted input formats and the output formats",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styleTitle.Render("Formats"))
			fmt.Fprintln(out)
			for _, f := range formats.SourceFormats {
				fmt.Fprintln(out, renderKeyValue(f.String(), formatLine(f)))
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Output formats: "+formats.SupportedTargetsText())
		},
	}
}

// formatLine describes one format as "input, output  image/png  .png"
func formatLine(f formats.Format) string {
	direction := "input"
	if f.CanEncode() {
		direction = "input, output"
	}
	exts := strings.Join(formats.SourceTypes[f.MIME()], " ")
	return fmt.Sprintf("%-14s %s", direction, styleMuted.Render(f.MIME()+"  "+exts))
}
