package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	converter "github.com/drummonds/imgconv/converter"
	"github.com/drummonds/imgconv/formats"
)

type convertFlags struct {
	to        string
	scale     string
	out       string
	overwrite bool
}

func newConvertCmd() *cobra.Command {
	flags := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert an image to another format",
		Long: `Convert one image into PNG, JPEG or WebP, scaling it by --scale.

The output is named after the input with the new extension and written to
--out (OUTPUT_DIR by default). Existing files are kept and the new file gets
a numbered name unless --overwrite is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.to, "to", "t", "", "target format: png, jpeg or webp (default DEFAULT_FORMAT)")
	cmd.Flags().StringVarP(&flags.scale, "scale", "s", "", "scale factor between 0.1 and 10 (default DEFAULT_SCALE)")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "output directory (default OUTPUT_DIR)")
	cmd.Flags().BoolVar(&flags.overwrite, "overwrite", false, "replace an existing output file")
	return cmd
}

// resolveOptions layers the flags over the configured defaults
func resolveOptions(cmd *cobra.Command, flags *convertFlags) formats.Options {
	opts := cliConfig.Defaults
	if cmd.Flags().Changed("to") {
		opts.Target = formats.ParseFormat(flags.to)
	}
	if cmd.Flags().Changed("scale") {
		opts.Scale = formats.ParseScale(flags.scale)
	}
	return opts
}

func runConvert(cmd *cobra.Command, path string, flags *convertFlags) error {
	out := cmd.OutOrStdout()
	opts := resolveOptions(cmd, flags)

	// An unsupported target fails before the file is read
	if !opts.Target.CanEncode() {
		err := converter.UnsupportedTarget(opts.Target)
		fmt.Fprintln(out, formatError(converter.UserMessage(err)))
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(out, formatError(fmt.Sprintf("Unable to read %s", path)))
		return fmt.Errorf("read %s: %w", path, err)
	}

	output, err := converter.ConvertBytes(cmd.Context(), filepath.Base(path), "", data, opts)
	if err != nil {
		fmt.Fprintln(out, formatError(converter.UserMessage(err)))
		return err
	}

	sink := &converter.DirSink{Dir: cliConfig.OutputDir, Overwrite: cliConfig.Overwrite || flags.overwrite}
	if flags.out != "" {
		sink.Dir = flags.out
	}
	if err := sink.Deliver(cmd.Context(), output); err != nil {
		fmt.Fprintln(out, formatError(err.Error()))
		return err
	}

	fmt.Fprintln(out, formatSuccess(fmt.Sprintf("Saved %s", sink.Saved)))
	fmt.Fprintln(out, styleMuted.Render(fmt.Sprintf("%s at scale %g, %d bytes", opts.Target, opts.Scale, len(output.Data))))
	return nil
}
