package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notify/internal/crossref"
	"github.com/nhle/notify/internal/keys"
	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/render"
	"github.com/nhle/notify/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// DetailLoadedMsg carries the loaded notification.
type DetailLoadedMsg struct {
	Item model.ListItem
	Err  error
}

// ActionMsg asks the parent to act on the notification being shown.
type ActionMsg struct {
	Action string // "categorize", "note" or "delete"
	Item   model.ListItem
}

// Model is the notification detail view component.
type Model struct {
	item     model.ListItem
	links    []string
	err      error
	levels   model.ImportanceLevels
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
	loading  bool
}

// New creates a new detail view model.
func New(levels model.ImportanceLevels, keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		levels:   levels,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DetailLoadedMsg:
		m.SetItem(msg.Item, msg.Err)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Categorize):
			if m.item != nil && m.item.GetTable() == model.TableUnsorted {
				return m, m.action("categorize")
			}

		case key.Matches(msg, m.keys.Note):
			if m.item != nil && m.item.GetTable() == model.TableSorted {
				return m, m.action("note")
			}

		case key.Matches(msg, m.keys.Delete):
			if m.item != nil {
				return m, m.action("delete")
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) action(name string) tea.Cmd {
	item := m.item
	return func() tea.Msg {
		return ActionMsg{Action: name, Item: item}
	}
}

// View renders the detail view.
func (m Model) View() string {
	placeholder := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	switch {
	case m.loading:
		return placeholder.Render("Loading notification...")
	case m.err != nil:
		return placeholder.Foreground(theme.ColorRed).Render(m.err.Error())
	case m.item == nil:
		return placeholder.Render("No notification selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.item == nil {
		return ""
	}

	it := m.item
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(it.GetTitle()))

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	meta := func(label, value string) {
		sections = append(sections, fmt.Sprintf("%s %s", metaStyle.Render(fmt.Sprintf("%-12s", label+":")), value))
	}

	sections = append(sections, "")
	meta("ID", valStyle.Render(fmt.Sprintf("%s #%d", it.GetTable(), it.GetID())))
	if it.GetTable() == model.TableSorted {
		level := it.GetImportance()
		meta("Category", valStyle.Render(render.Category(it.GetCategory())))
		meta("Importance", theme.ImportanceStyle(level).Render(render.Importance(m.levels, level)))
		note := it.GetNote()
		if note == "" {
			meta("Note", metaStyle.Italic(true).Render("N/A"))
		} else {
			meta("Note", valStyle.Render(note))
		}
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 0)))
	sections = append(sections, "", separator, "")

	body := it.GetContent()
	if strings.TrimSpace(body) == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No content")
	}
	sections = append(sections, lipgloss.NewStyle().Width(max(m.width-2, 20)).Render(body))

	if len(m.links) > 0 {
		sections = append(sections, "", separator, "")
		headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
		sections = append(sections, headerStyle.Render(fmt.Sprintf("Links (%d)", len(m.links))))
		linkStyle := lipgloss.NewStyle().Foreground(theme.ColorBlue).Underline(true)
		for _, l := range m.links {
			sections = append(sections, "  "+linkStyle.Render(l))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetItem updates the notification being displayed and re-renders the
// content.
func (m *Model) SetItem(item model.ListItem, err error) {
	m.item = item
	m.err = err
	m.loading = false
	m.links = nil
	if item != nil {
		m.links = crossref.Links(item.GetTitle(), item.GetContent(), nil)
	}
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Item returns the notification being displayed.
func (m Model) Item() model.ListItem {
	return m.item
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.viewport.SetContent(m.renderContent())
}
