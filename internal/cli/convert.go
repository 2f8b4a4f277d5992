package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/slidesmith/pkg/outline"
	"github.com/matzehuels/slidesmith/pkg/pipeline"
)

// convertCommand creates the convert command, which rewrites an outline
// as JSON or YAML.
func (c *CLI) convertCommand() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert an outline to JSON or YAML",
		Long: `Convert an outline between formats. Markdown outlines can be read but
not written; the output format defaults to the output file extension.`,
		Example: `  slidesmith convert notes.md outline.json
  slidesmith convert outline.json outline.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				in, out outline.Format
				err     error
			)
			if from != "" {
				if in, err = outline.ParseFormat(from); err != nil {
					return err
				}
			}
			out = outline.FormatFromPath(args[1])
			if to != "" {
				if out, err = outline.ParseFormat(to); err != nil {
					return err
				}
			}

			o, err := pipeline.Load(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			if err := outline.Export(o, args[1], out); err != nil {
				return err
			}
			printSuccess("Converted %d sections", len(o.Sections))
			printFile(args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "input format (default from extension)")
	cmd.Flags().StringVar(&to, "to", "", "output format: json, yaml (default from extension)")

	cmd.ValidArgsFunction = completeConvertFiles
	registerCompletion(cmd, "from", completeOutlineFormat)
	registerCompletion(cmd, "to", completeWriteFormat)

	return cmd
}
