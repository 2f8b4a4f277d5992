package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slidesmith/pkg/catalog"
	"github.com/matzehuels/slidesmith/pkg/outline"
	"github.com/matzehuels/slidesmith/pkg/pipeline"
	"github.com/matzehuels/slidesmith/pkg/strategy"
)

// planCommand creates the plan command, which previews the slides an
// outline produces.
func (c *CLI) planCommand() *cobra.Command {
	var (
		format string
		toc    bool
		plain  bool
	)

	cmd := &cobra.Command{
		Use:   "plan [outline]",
		Short: "Preview the slide plan of an outline",
		Long: `Show the slide strategies the outline produces, in deck order, without
fetching images or writing files. Runs an interactive browser on a terminal;
use --plain for a text listing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat, err := cfg.OpenCatalog()
			if err != nil {
				return err
			}

			var f outline.Format
			if format != "" {
				if f, err = outline.ParseFormat(format); err != nil {
					return err
				}
			}
			o, err := pipeline.Load(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}

			plan := pipeline.NewPlan(o, cat, pipeline.PlanOptions{TableOfContents: toc})
			rows := planRows(plan, cat)
			if plain || !isTerminal(os.Stdout) {
				printPlan(plan.Title, rows)
				return nil
			}
			_, err = tea.NewProgram(NewPlanModel(plan.Title, rows), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "outline format: json, yaml, md (default from extension)")
	cmd.Flags().BoolVar(&toc, "toc", false, "include a table of contents slide")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the plan instead of browsing it")

	cmd.ValidArgsFunction = completeOutlineFile
	registerCompletion(cmd, "format", completeOutlineFormat)

	return cmd
}

// planRow is one plan step prepared for display.
type planRow struct {
	Kind    strategy.Kind
	Summary string
	// Slides is the expected slide count; images may still be skipped.
	Slides int
	Detail []string
}

// planRows describes every step of plan.
func planRows(plan *pipeline.Plan, cat *catalog.Catalog) []planRow {
	return lo.Map(plan.Steps, func(st strategy.Strategy, _ int) planRow {
		row := planRow{Kind: st.Kind(), Summary: st.Describe(), Slides: 1}
		switch s := st.(type) {
		case strategy.Content:
			chunks := s.Chunks(cat)
			row.Slides = len(chunks)
			row.Detail = lo.Map(chunks, func(ch string, i int) string {
				return fmt.Sprintf("chunk %d: %s", i+1, firstLine(ch))
			})
		case strategy.SubSection:
			if _, ok := catalog.SubSectionLayout(len(s.Items)); !ok {
				row.Slides = 0
			}
			row.Detail = lo.Map(s.Items, func(b outline.Bullet, i int) string {
				return fmt.Sprintf("%d. %s", i+1, strings.TrimSpace(b.Summary+" "+firstLine(b.Detail)))
			})
		case strategy.References:
			pages := s.Pages(cat)
			row.Slides = len(pages)
			row.Detail = lo.Map(lo.Flatten(pages), func(e string, i int) string {
				return fmt.Sprintf("%d. %s", i+1, firstLine(e))
			})
		case strategy.TableOfContents:
			row.Detail = s.Items
		case strategy.Image:
			row.Detail = []string{s.URL, s.Description}
		}
		return row
	})
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	if r := []rune(line); len(r) > 60 {
		return string(r[:59]) + "…"
	}
	return line
}

// printPlan writes the plain plan listing.
func printPlan(title string, rows []planRow) {
	fmt.Println(StyleTitle.Render(title))
	n := 0
	for i, r := range rows {
		fmt.Printf("%s  %-11s %s %s\n", StyleNumber.Render(fmt.Sprintf("%3d", i+1)), r.Kind, r.Summary, StyleDim.Render(fmt.Sprintf("(%d slides)", r.Slides)))
		n += r.Slides
		for _, d := range r.Detail {
			if d != "" {
				printDetail("     %s", d)
			}
		}
	}
	printNewline()
	printInfo("%d steps, about %d slides", len(rows), n)
}
