// Package browse provides the interactive terminal views: a collection
// picker and a list/detail browser for recommendations.
package browse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/matsen/zotrec/internal/collection"
	"github.com/matsen/zotrec/internal/paper"
)

// ErrAborted is returned when the user dismisses the picker.
var ErrAborted = errors.New("selection aborted")

// PickCollection shows the flattened collection tree and returns the name
// of the chosen collection.
func PickCollection(lines []string) (string, error) {
	if len(lines) == 0 {
		return "", errors.New("library has no collections")
	}

	var choice string
	sel := huh.NewSelect[string]().
		Title("Collection").
		Options(huh.NewOptions(lines...)...).
		Height(min(len(lines)+2, 20)).
		Value(&choice)

	if err := huh.NewForm(huh.NewGroup(sel)).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("collection picker: %w", err)
	}

	return collection.SelectionName(choice), nil
}

// Run opens the full-screen recommendation browser and blocks until the
// user quits.
func Run(papers []paper.Recommendation) error {
	_, err := tea.NewProgram(newModel(papers), tea.WithAltScreen()).Run()
	return err
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// item adapts a recommendation to list.DefaultItem.
type item struct {
	p paper.Recommendation
}

func (i item) Title() string { return i.p.Title }

func (i item) Description() string {
	var parts []string
	if i.p.Year > 0 {
		parts = append(parts, fmt.Sprint(i.p.Year))
	}
	if len(i.p.Authors) > 0 {
		parts = append(parts, authorsShort(i.p.Authors, 3))
	}
	parts = append(parts, fmt.Sprintf("%d citations", i.p.CitationCount))
	return strings.Join(parts, " · ")
}

func (i item) FilterValue() string { return i.p.Title }

type model struct {
	list     list.Model
	detail   viewport.Model
	showing  bool
	width    int
	height   int
	quitting bool
}

func newModel(papers []paper.Recommendation) model {
	items := make([]list.Item, len(papers))
	for i, p := range papers {
		items[i] = item{p: p}
	}

	l := list.New(items, list.NewDefaultDelegate(), 80, 24)
	l.Title = fmt.Sprintf("Recommendations (%d)", len(papers))

	return model{
		list:   l,
		detail: viewport.New(80, 22),
		width:  80,
		height: 24,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height)
		m.detail.Width = msg.Width
		m.detail.Height = msg.Height - 2
		return m, nil

	case tea.KeyMsg:
		// Keys typed into the filter belong to the list.
		if !m.showing && m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if !m.showing {
				if it, ok := m.list.SelectedItem().(item); ok {
					m.detail.SetContent(renderDetail(it.p, m.width))
					m.detail.GotoTop()
					m.showing = true
				}
				return m, nil
			}
		case "esc":
			if m.showing {
				m.showing = false
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if m.showing {
		m.detail, cmd = m.detail.Update(msg)
	} else {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if m.showing {
		return m.detail.View() + "\n" + helpStyle.Render("esc back • q quit")
	}
	return m.list.View()
}

func renderDetail(p paper.Recommendation, width int) string {
	wrap := lipgloss.NewStyle().Width(max(width-2, 20))

	var b strings.Builder
	b.WriteString(titleStyle.Render(wrap.Render(p.Title)))
	b.WriteString("\n\n")
	if len(p.Authors) > 0 {
		b.WriteString(wrap.Render(strings.Join(p.Authors, ", ")))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s %d   %s %d   %s %d\n",
		labelStyle.Render("Year"), p.Year,
		labelStyle.Render("Citations"), p.CitationCount,
		labelStyle.Render("Influential"), p.InfluentialCitationCount)
	if p.URL != "" {
		b.WriteString(labelStyle.Render(p.URL))
		b.WriteString("\n")
	}
	if p.Abstract != "" {
		b.WriteString("\n")
		b.WriteString(wrap.Render(p.Abstract))
		b.WriteString("\n")
	}
	return b.String()
}

func authorsShort(authors []string, n int) string {
	if len(authors) <= n {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:n], ", ") + " et al."
}
