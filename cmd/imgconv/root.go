package main

import (
	"github.com/spf13/cobra"

	config "github.com/drummonds/imgconv/config"
	converter "github.com/drummonds/imgconv/converter"
)

// cliConfig is loaded once before any subcommand runs
var cliConfig config.CLIConfig

// newRootCmd builds the command tree. A fresh tree per call keeps flag state
// from leaking between runs.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "imgconv",
		Short: "Convert and resize images to PNG, JPEG or WebP",
		Long: styleTitle.Render("imgconv") + " - Image Format Converter\n\n" +
			"Converts SVG, JPEG, PNG, GIF, BMP, TIFF and WebP images into PNG, JPEG or WebP,\n" +
			"optionally scaling them on the way.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initializeApp,
	}

	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newFormatsCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// initializeApp loads configuration and injects the logger
func initializeApp(cmd *cobra.Command, args []string) error {
	cfg, logger := config.SetupCLI()
	cliConfig = cfg
	config.Logger = logger
	converter.Logger = logger
	return nil
}
