package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drummonds/imgconv/internal/build"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Display version information",
		Aliases: []string{"v"},
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styleTitle.Render("imgconv")+" - Image Format Converter")
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderKeyValue("Version", build.Version))
			buildDate := build.BuildDate
			if buildDate == "" {
				buildDate = "unknown"
			}
			fmt.Fprintln(out, renderKeyValue("Build Date", buildDate))
		},
	}
}
