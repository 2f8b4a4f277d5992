package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slidesmith/pkg/config"
	"github.com/matzehuels/slidesmith/pkg/outline"
	"github.com/matzehuels/slidesmith/pkg/pipeline"
	"github.com/matzehuels/slidesmith/pkg/store"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output   string // output directory
	template string // template override
	format   string // outline format override
	toc      bool   // insert a table of contents slide
	seed     uint64 // fixed layout choice
	noCache  bool   // bypass the image cache
	record   bool   // record the deck in the history store
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate [outline]",
		Short: "Generate a .pptx deck from an outline",
		Long: `Generate a PowerPoint deck from a JSON, YAML or Markdown outline.

The deck is written to <output>/<title>.pptx, where the title comes from the
outline or its first heading.`,
		Example: `  slidesmith generate outline.json
  slidesmith generate notes.md -o decks --toc
  slidesmith generate outline.yaml --template brand.pptx --seed 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default from config)")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "template .pptx (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "outline format: json, yaml, md (default from extension)")
	cmd.Flags().BoolVar(&opts.toc, "toc", false, "insert a table of contents slide")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for layout variants (0 = random)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the image cache")
	cmd.Flags().BoolVar(&opts.record, "record", false, "record the deck in the history store")

	cmd.ValidArgsFunction = completeOutlineFile
	registerCompletion(cmd, "format", completeOutlineFormat)
	registerCompletion(cmd, "template", completeTemplateFile)

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, path string, opts generateOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.template != "" {
		cfg.Template = opts.template
	}
	if opts.output != "" {
		cfg.OutputDir = opts.output
	}

	var format outline.Format
	if opts.format != "" {
		if format, err = outline.ParseFormat(opts.format); err != nil {
			return err
		}
	}

	prog := newDeckProgress(logger)
	o, err := pipeline.Load(ctx, path, format)
	if err != nil {
		return err
	}

	eng, err := c.newEngine(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer eng.Close()

	popts := cfg.PipelineOptions()
	popts.TableOfContents = opts.toc
	popts.Seed = opts.seed
	popts.Logger = logger

	spinner := newDeckSpinner(ctx, os.Stderr)
	popts.OnStage = func(stage pipeline.Stage, n int) {
		spinner.Stage(stage, n)
		prog.Stage(stage, n)
	}
	spinner.Start()
	result, err := eng.runner.Execute(ctx, o, popts)
	if err != nil {
		spinner.Fail()
		return err
	}
	spinner.Stop()
	prog.done(result)

	printSuccess("Deck %s", StyleHighlight.Render(result.Title))
	printFile(result.Path)
	printDeckStats(result.Stats)

	if opts.record {
		if err := c.record(ctx, cfg, result); err != nil {
			printWarning("Could not record deck: %v", err)
		}
	}
	return nil
}

// record adds result to the configured history store.
func (c *CLI) record(ctx context.Context, cfg *config.Config, result *pipeline.Result) error {
	// A memory store would not outlive the process.
	if cfg.Store.Backend == config.StoreMemory {
		cfg.Store.Backend = config.StoreFile
	}
	st, err := cfg.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	rec := &store.Record{
		Title:    result.Title,
		Path:     result.Path,
		Slides:   result.Stats.Slides,
		Sections: result.Stats.Sections,
	}
	if err := st.Add(ctx, rec); err != nil {
		return err
	}
	printDetail("Recorded as %s", rec.ID)
	return nil
}
