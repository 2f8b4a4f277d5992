package cli

import (
	"os"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slidesmith/pkg/catalog"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/ooxml"
	"github.com/matzehuels/slidesmith/pkg/pipeline"
)

// layoutsCommand creates the layouts command, which lists the catalog
// against a template.
func (c *CLI) layoutsCommand() *cobra.Command {
	var (
		template string
		dump     bool
	)

	cmd := &cobra.Command{
		Use:   "layouts [name...]",
		Short: "List catalog layouts and whether the template provides them",
		Long: `List the layouts of the active catalog with their indices. When a template
is available, each layout is resolved against it and layouts the template
lacks are highlighted. Naming layouts restricts the listing to them.`,
		Example: `  slidesmith layouts
  slidesmith layouts REFERENCES_PAGE SUBCHAPTER_5_ITEMS -t brand.pptx
  slidesmith layouts --dump > catalog.toml`,
		ValidArgsFunction: c.completeLayoutName,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cat, err := cfg.OpenCatalog()
			if err != nil {
				return err
			}
			if dump {
				return cat.Encode(os.Stdout)
			}
			for _, name := range args {
				if _, ok := cat.Resolve(name); !ok {
					return errors.New(errors.ErrCodeInvalidInput, "unknown layout %q", name)
				}
			}

			if template == "" {
				template = cfg.Template
			}
			tmpl, err := pipeline.LoadTemplate(template)
			if err != nil {
				logger.Warn("showing catalog only", "err", err)
				tmpl = nil
			}

			printInfo("Catalog %s", StyleHighlight.Render(cat.Version))
			if tmpl != nil {
				printKeyValue("Template", tmpl.Path)
				printKeyValue("Layouts", strconv.Itoa(len(tmpl.Layouts)))
			}
			printNewline()
			os.Stdout.WriteString(layoutTable(cat, tmpl, args...) + "\n")
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "template .pptx (default from config)")
	cmd.Flags().BoolVar(&dump, "dump", false, "print the effective catalog as TOML")
	registerCompletion(cmd, "template", completeTemplateFile)

	return cmd
}

// layoutTable renders the catalog layouts, resolved against tmpl when it is
// not nil. When only names layouts, the others are left out.
func layoutTable(cat *catalog.Catalog, tmpl *ooxml.Template, only ...string) string {
	names := cat.LayoutNames()
	if len(only) > 0 {
		names = slices.DeleteFunc(names, func(n string) bool { return !slices.Contains(only, n) })
	}
	rows := make([][]string, 0, len(names))
	missing := make(map[int]bool)
	for i, name := range names {
		idx := cat.LayoutIndex(name)
		row := []string{strconv.Itoa(idx), name}
		if tmpl != nil {
			if l, ok := tmpl.Layout(idx); ok {
				row = append(row, l.Name, strconv.Itoa(len(l.Shapes)))
			} else {
				row = append(row, "missing", "")
				missing[i] = true
			}
		}
		rows = append(rows, row)
	}

	headers := []string{"Index", "Layout"}
	if tmpl != nil {
		headers = append(headers, "Template layout", "Shapes")
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case missing[row]:
				return lipgloss.NewStyle().Foreground(colorYellow)
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}
