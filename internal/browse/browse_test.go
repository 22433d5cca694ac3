package browse

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/zotrec/internal/paper"
)

func samplePapers() []paper.Recommendation {
	return []paper.Recommendation{
		{
			PaperID:       "r1",
			Title:         "Phylogenetic Inference at Scale",
			Authors:       []string{"A. One", "B. Two", "C. Three", "D. Four"},
			Year:          2021,
			Abstract:      "We study trees.",
			URL:           "https://example.org/r1",
			CitationCount: 12,
		},
		{PaperID: "r2", Title: "Second Paper"},
	}
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm
}

func TestModel_EnterOpensDetailAndEscReturns(t *testing.T) {
	m := newModel(samplePapers())
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.showing)
	assert.Contains(t, m.View(), "We study trees.")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showing)
	assert.Contains(t, m.View(), "Phylogenetic Inference at Scale")
}

func TestModel_QuitKey(t *testing.T) {
	m := newModel(samplePapers())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}

func TestModel_EmptyList(t *testing.T) {
	m := newModel(nil)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.showing)
}

func TestItem_Description(t *testing.T) {
	it := item{p: samplePapers()[0]}
	assert.Equal(t, "2021 · A. One, B. Two, C. Three et al. · 12 citations", it.Description())

	bare := item{p: samplePapers()[1]}
	assert.Equal(t, "0 citations", bare.Description())
}

func TestRenderDetail(t *testing.T) {
	out := renderDetail(samplePapers()[0], 80)

	assert.Contains(t, out, "A. One, B. Two, C. Three, D. Four")
	assert.Contains(t, out, "https://example.org/r1")
}

func TestPickCollection_Empty(t *testing.T) {
	_, err := PickCollection(nil)
	assert.Error(t, err)
}
