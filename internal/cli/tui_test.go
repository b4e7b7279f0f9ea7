package cli

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/chronoline/pkg/dataset"
	"github.com/matzehuels/chronoline/pkg/pipeline"
	"github.com/matzehuels/chronoline/pkg/timeline"
)

var samplePath = filepath.Join("..", "..", "pkg", "dataset", "testdata", "people.json")

func newTestPreview(t *testing.T) *PreviewModel {
	t.Helper()
	d, err := dataset.Load(samplePath)
	if err != nil {
		t.Fatal(err)
	}
	opts := pipeline.Options{Order: []string{"Art", "Science", "Politics"}}
	if err := opts.ValidateForLayout(); err != nil {
		t.Fatal(err)
	}
	return NewPreviewModel(d, opts)
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNextGrouping(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"category", "country"},
		{"country", "none"},
		{"none", "category"},
		{"bogus", "category"},
	}
	for _, tt := range tests {
		if got := nextGrouping(tt.in); got != tt.want {
			t.Errorf("nextGrouping(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPreviewModel_View(t *testing.T) {
	m := newTestPreview(t)
	if got := m.View(); got != "Loading..." {
		t.Errorf("View before first size = %q", got)
	}

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	for _, want := range []string{"chronoline preview", "by category", "5 placed", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPreviewModel_CycleGrouping(t *testing.T) {
	m := newTestPreview(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.Update(keyPress('g'))
	if got := m.Layout().Grouping; got != timeline.GroupByCountry {
		t.Errorf("grouping after g = %v, want country", got)
	}
	if m.opts.Order != nil {
		t.Errorf("category order kept after switching grouping: %v", m.opts.Order)
	}

	m.Update(keyPress('g'))
	if got := m.Layout().Grouping; got != timeline.GroupByNone {
		t.Errorf("grouping after gg = %v, want none", got)
	}
	if got := m.Layout().PersonCount(); got != 5 {
		t.Errorf("PersonCount = %d, want 5", got)
	}
}

func TestPreviewModel_Toggles(t *testing.T) {
	m := newTestPreview(t)

	m.Update(keyPress('h'))
	if !m.opts.HideEmptyCenturies || !m.Layout().Compressed {
		t.Error("h should enable compression of empty centuries")
	}
	if len(m.Layout().Gaps) == 0 {
		t.Error("sample has empty centuries between antiquity and the renaissance")
	}

	m.Update(keyPress('a'))
	if !m.Layout().ShowAchievements {
		t.Error("a should enable achievement markers")
	}

	m.Update(keyPress('h'))
	if len(m.Layout().Gaps) != 0 {
		t.Error("second h should restore the linear scale")
	}
}

func TestPreviewModel_Quit(t *testing.T) {
	m := newTestPreview(t)
	_, cmd := m.Update(keyPress('q'))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestPersonTable(t *testing.T) {
	d, err := dataset.Load(samplePath)
	if err != nil {
		t.Fatal(err)
	}
	got := personTable(d.Persons)
	for _, want := range []string{"Name", "Reign", "Augustus", "27 BC", "Leonardo da Vinci"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q", want)
		}
	}
}
