package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	converter "github.com/drummonds/imgconv/converter"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show the format and intrinsic size of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, args[0])
		},
	}
}

func runInfo(cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(out, formatError(fmt.Sprintf("Unable to read %s", path)))
		return fmt.Errorf("read %s: %w", path, err)
	}

	source, _, err := converter.Acquire(filepath.Base(path), "", data)
	if err != nil {
		fmt.Fprintln(out, formatError(converter.UserMessage(err)))
		return err
	}
	decoded, err := converter.Decode(cmd.Context(), source)
	if err != nil {
		fmt.Fprintln(out, formatError(converter.UserMessage(err)))
		return err
	}

	kind := "raster"
	if decoded.IsVector() {
		kind = "vector"
	}
	width, height := decoded.Dimensions.Rounded()
	scaledWidth, scaledHeight := decoded.Dimensions.Scaled(cliConfig.Defaults.Scale)

	fmt.Fprintln(out, styleTitle.Render(source.Name))
	fmt.Fprintln(out, renderKeyValue("Format", decoded.Format))
	fmt.Fprintln(out, renderKeyValue("Kind", kind))
	fmt.Fprintln(out, renderKeyValue("Original size", fmt.Sprintf("%d × %d px", width, height)))
	fmt.Fprintln(out, renderKeyValue("Scaled size", fmt.Sprintf("%d × %d px (scale %g)", scaledWidth, scaledHeight, cliConfig.Defaults.Scale)))
	fmt.Fprintln(out, renderKeyValue("File size", fmt.Sprintf("%d bytes", len(data))))
	return nil
}
