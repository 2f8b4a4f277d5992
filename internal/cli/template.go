package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slidesmith/pkg/catalog"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/pipeline"
)

// templateCommand creates the template command group.
func (c *CLI) templateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage deck templates",
	}

	cmd.AddCommand(c.templateInitCommand())
	return cmd
}

// templateInitCommand creates the "template init" subcommand.
func (c *CLI) templateInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter template matching the layout catalog",
		Long: `Write a .pptx template whose layouts carry exactly the placeholder ids and
names the layout catalog expects, so decks can be generated without a
designer template. The path defaults to the configured template.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			path := cfg.Template
			if len(args) == 1 {
				path = args[0]
			}
			cat, err := cfg.OpenCatalog()
			if err != nil {
				return err
			}
			return writeStarterTemplate(path, cat, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// writeStarterTemplate builds the starter template for cat and writes it to
// path.
func writeStarterTemplate(path string, cat *catalog.Catalog, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
	}

	data, err := catalog.BuildStarterTemplate(cat)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "build starter template")
	}
	tmpl, err := pipeline.ReadTemplate(data)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeOutputWrite, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeOutputWrite, err, "write %s", path)
	}

	printSuccess("Wrote starter template with %d layouts", len(tmpl.Layouts))
	printFile(path)
	printNewline()
	printNextStep("Generate a deck", appName+" generate outline.json -t "+path)
	return nil
}
