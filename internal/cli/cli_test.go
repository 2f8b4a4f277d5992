package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/slidesmith/pkg/catalog"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/outline"
	"github.com/matzehuels/slidesmith/pkg/pipeline"
	"github.com/matzehuels/slidesmith/pkg/strategy"
)

const reviewMarkdown = `# Quarterly Review

Prepared for the board.

## Risks

Three risks stand out.

- **Supply**: two vendors remain single-sourced.
- **Hiring** - senior roles take 90 days to fill.
- Plain item without summary

![Revenue by region](https://example.com/revenue.png)

## Outlook

Growth continues in every region.

## References

- Doe, J. (2024). Market outlook.
- Roe, R. (2023). Hiring trends.
`

func reviewRows(t *testing.T) []planRow {
	t.Helper()
	cat := catalog.Default()
	plan := pipeline.NewPlan(outline.FromMarkdown([]byte(reviewMarkdown)), cat, pipeline.PlanOptions{})
	return planRows(plan, cat)
}

func TestPlanRows(t *testing.T) {
	rows := reviewRows(t)

	var got []strategy.Kind
	for _, r := range rows {
		got = append(got, r.Kind)
	}
	assert.Equal(t, []strategy.Kind{
		strategy.KindTitle,
		strategy.KindSubSection,
		strategy.KindImage,
		strategy.KindContent,
		strategy.KindReferences,
		strategy.KindEnd,
	}, got)

	for _, r := range rows {
		assert.Equal(t, 1, r.Slides, "step %s", r.Kind)
	}

	sub := rows[1]
	require.Len(t, sub.Detail, 3)
	assert.Equal(t, "1. Supply two vendors remain single-sourced.", sub.Detail[0])
	assert.Equal(t, "3. Plain item without summary", sub.Detail[2])

	assert.Equal(t, []string{"https://example.com/revenue.png", "Revenue by region"}, rows[2].Detail)
	assert.Equal(t, []string{"chunk 1: Growth continues in every region."}, rows[3].Detail)
	assert.Equal(t, []string{"1. Doe, J. (2024). Market outlook.", "2. Roe, R. (2023). Hiring trends."}, rows[4].Detail)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "first", firstLine("  first\nsecond"))
	assert.Equal(t, "", firstLine(""))

	long := firstLine(strings.Repeat("x", 100))
	assert.Equal(t, 60, utf8.RuneCountInString(long))
	assert.True(t, strings.HasSuffix(long, "…"))
}

func TestPlanModel(t *testing.T) {
	rows := reviewRows(t)
	m := NewPlanModel("Quarterly Review", rows)
	assert.Nil(t, m.Init())

	down := tea.KeyMsg{Type: tea.KeyDown}
	up := tea.KeyMsg{Type: tea.KeyUp}

	next, cmd := m.Update(up)
	assert.Nil(t, cmd)
	assert.Equal(t, 0, next.(PlanModel).Cursor)

	for range len(rows) + 3 {
		next, _ = next.Update(down)
	}
	assert.Equal(t, len(rows)-1, next.(PlanModel).Cursor)

	next, _ = next.Update(up)
	view := next.View()
	assert.Contains(t, view, "Quarterly Review")
	assert.Contains(t, view, "References (2 entries)")
	assert.Contains(t, view, "1. Doe, J. (2024). Market outlook.")
	assert.Contains(t, view, "[5/6]")

	_, cmd = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.NotNil(t, cmd)
}

func TestPlanModelScrolls(t *testing.T) {
	m := NewPlanModel("Deck", reviewRows(t))
	m.Height = 2

	var model tea.Model = m
	for range 3 {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	pm := model.(PlanModel)
	assert.Equal(t, 3, pm.Cursor)
	assert.Equal(t, 2, pm.Offset)

	model, _ = model.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	assert.Equal(t, 5, model.(PlanModel).Height)
}

func TestLayoutTable(t *testing.T) {
	cat := catalog.Default()
	data, err := catalog.BuildStarterTemplate(cat)
	require.NoError(t, err)
	tmpl, err := pipeline.ReadTemplate(data)
	require.NoError(t, err)

	out := layoutTable(cat, tmpl)
	for _, name := range cat.LayoutNames() {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "Template layout")
	assert.NotContains(t, out, "missing")

	trimmed := *tmpl
	trimmed.Layouts = tmpl.Layouts[:1]
	assert.Contains(t, layoutTable(cat, &trimmed), "missing")

	bare := layoutTable(cat, nil)
	assert.NotContains(t, bare, "Template layout")

	only := layoutTable(cat, nil, catalog.ReferencesPage, catalog.Subchapter5Items)
	assert.Contains(t, only, catalog.ReferencesPage)
	assert.Contains(t, only, catalog.Subchapter5Items)
	assert.NotContains(t, only, catalog.EndPage)
}

func TestWriteStarterTemplate(t *testing.T) {
	cat := catalog.Default()
	path := filepath.Join(t.TempDir(), "templates", "starter.pptx")

	require.NoError(t, writeStarterTemplate(path, cat, false))
	tmpl, err := pipeline.LoadTemplate(path)
	require.NoError(t, err)
	assert.NotEmpty(t, tmpl.Layouts)

	err = writeStarterTemplate(path, cat, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	require.NoError(t, writeStarterTemplate(path, cat, true))
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(os.Stderr, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"generate", "plan", "layouts", "template", "serve", "convert", "cache", "completion"} {
		assert.Contains(t, names, want)
	}
}
