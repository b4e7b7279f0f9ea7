package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/chronoline/pkg/dataset"
	"github.com/matzehuels/chronoline/pkg/pipeline"
	"github.com/matzehuels/chronoline/pkg/render"
	"github.com/matzehuels/chronoline/pkg/timeline"
)

// Preview styles
var (
	previewHeaderStyle = fg(accent).Bold(true)
	previewOnStyle     = fg(good)
	previewOffStyle    = fg(faint)
)

const (
	previewHeaderHeight = 2
	previewFooterHeight = 1
)

// =============================================================================
// Key Bindings
// =============================================================================

type previewKeyMap struct {
	Group        key.Binding
	HideEmpty    key.Binding
	Achievements key.Binding
	Quit         key.Binding
}

func newPreviewKeyMap() previewKeyMap {
	return previewKeyMap{
		Group:        key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grouping")),
		HideEmpty:    key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hide empty")),
		Achievements: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "achievements")),
		Quit:         key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k previewKeyMap) help() string {
	var parts []string
	for _, b := range []key.Binding{k.Group, k.HideEmpty, k.Achievements, k.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return "↑/↓ scroll  " + strings.Join(parts, "  ")
}

// =============================================================================
// PreviewModel - Interactive text preview of a timeline
// =============================================================================

// PreviewModel is the bubbletea model behind `chronoline preview`. It lays
// the dataset out again whenever the grouping or a filter toggle changes and
// redraws the text rendering at the terminal width.
type PreviewModel struct {
	dataset  *dataset.Dataset
	opts     pipeline.Options
	layout   timeline.Layout
	keys     previewKeyMap
	viewport viewport.Model
	width    int
	ready    bool
}

// NewPreviewModel creates a preview of d. opts must have passed
// ValidateForLayout.
func NewPreviewModel(d *dataset.Dataset, opts pipeline.Options) *PreviewModel {
	m := &PreviewModel{
		dataset: d,
		opts:    opts,
		keys:    newPreviewKeyMap(),
	}
	m.relayout()
	return m
}

func (m *PreviewModel) Init() tea.Cmd {
	return nil
}

func (m *PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := max(1, msg.Height-previewHeaderHeight-previewFooterHeight)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.redraw()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Group):
			m.opts.Grouping = nextGrouping(m.opts.Grouping)
			m.opts.Order = nil
			m.relayout()
			return m, nil
		case key.Matches(msg, m.keys.HideEmpty):
			m.opts.HideEmptyCenturies = !m.opts.HideEmptyCenturies
			m.relayout()
			return m, nil
		case key.Matches(msg, m.keys.Achievements):
			m.opts.ShowAchievements = !m.opts.ShowAchievements
			m.relayout()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *PreviewModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(previewHeaderStyle.Render(appName + " preview"))
	b.WriteString("  ")
	b.WriteString(m.status())
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(m.keys.help()))
	return b.String()
}

// Layout returns the layout currently shown.
func (m *PreviewModel) Layout() timeline.Layout {
	return m.layout
}

func (m *PreviewModel) relayout() {
	m.layout = pipeline.GenerateLayout(m.dataset, m.opts)
	m.redraw()
}

func (m *PreviewModel) redraw() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(render.RenderText(m.layout, m.width))
}

func (m *PreviewModel) status() string {
	toggle := func(name string, on bool) string {
		if on {
			return previewOnStyle.Render(name)
		}
		return previewOffStyle.Render(name)
	}
	return strings.Join([]string{
		StyleValue.Render("by " + m.opts.Grouping),
		StyleDim.Render(fmt.Sprintf("%d placed · %d rows", m.layout.PersonCount(), len(m.layout.Rows))),
		toggle("hide-empty", m.opts.HideEmptyCenturies),
		toggle("achievements", m.opts.ShowAchievements),
	}, StyleDim.Render(" · "))
}

// nextGrouping cycles category → country → none.
func nextGrouping(s string) string {
	mode, err := timeline.ParseGroupingMode(s)
	if err != nil {
		return timeline.GroupByCategory.String()
	}
	return timeline.GroupingMode((int(mode) + 1) % 3).String()
}
