package notificationlist

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notify/internal/keys"
	"github.com/nhle/notify/internal/lifecycle"
	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/render"
	"github.com/nhle/notify/internal/theme"
)

// ItemsLoadedMsg is sent when a list has been loaded from the engine.
type ItemsLoadedMsg struct {
	Table model.Table
	Items []model.ListItem
	Err   error
}

// SelectedMsg is sent when the user opens a notification.
type SelectedMsg struct {
	Table model.Table
	ID    int64
}

// CategorizeRequestMsg asks the parent to open the categorize form.
type CategorizeRequestMsg struct {
	ID    int64
	Title string
}

// NoteRequestMsg asks the parent to open the note form.
type NoteRequestMsg struct {
	ID    int64
	Title string
	Note  string
}

// DeleteRequestMsg asks the parent to confirm and delete a notification.
type DeleteRequestMsg struct {
	Table model.Table
	ID    int64
	Title string
}

// Model shows either the unsorted or the sorted notifications.
type Model struct {
	list   list.Model
	engine *lifecycle.Engine
	keys   *keys.KeyMap
	table  model.Table
	counts map[model.Table]int
	width  int
	height int
}

// New creates a notification list that starts on the unsorted tab.
func New(e *lifecycle.Engine, k *keys.KeyMap, truncateAt, width, height int) Model {
	if truncateAt <= 0 {
		truncateAt = render.DefaultTruncateAt
	}
	delegate := ItemDelegate{levels: e.ImportanceLevels(), truncateAt: truncateAt}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.SetShowTitle(false)
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("notification", "notifications")
	l.DisableQuitKeybindings()

	return Model{
		list:   l,
		engine: e,
		keys:   k,
		table:  model.TableUnsorted,
		counts: map[model.Table]int{},
		width:  width,
		height: height,
	}
}

// Init returns a command that loads the current list.
func (m Model) Init() tea.Cmd {
	return m.LoadItems()
}

// Table returns the list currently shown.
func (m Model) Table() model.Table {
	return m.table
}

// Filtering reports whether the filter input has focus, in which case
// single-key shortcuts must not be intercepted.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Update handles messages for the notification list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ItemsLoadedMsg:
		if msg.Err != nil || msg.Table != m.table {
			return m, nil
		}
		items := make([]list.Item, len(msg.Items))
		for i, it := range msg.Items {
			items[i] = Item{ListItem: it}
		}
		m.counts[msg.Table] = len(items)
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		if !m.Filtering() {
			if next, cmd, handled := m.handleKeys(msg); handled {
				return next, cmd
			}
		}
	}

	// Delegate to list model for navigation, paging and filtering
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.SwitchList):
		if m.table == model.TableUnsorted {
			m.table = model.TableSorted
		} else {
			m.table = model.TableUnsorted
		}
		m.list.ResetFilter()
		m.list.ResetSelected()
		return m, m.LoadItems(), true

	case key.Matches(msg, m.keys.Select):
		it, ok := m.SelectedItem()
		if !ok {
			return m, nil, true
		}
		return m, func() tea.Msg {
			return SelectedMsg{Table: it.GetTable(), ID: it.GetID()}
		}, true

	case key.Matches(msg, m.keys.Categorize):
		it, ok := m.SelectedItem()
		if !ok || it.GetTable() != model.TableUnsorted {
			return m, nil, true
		}
		return m, func() tea.Msg {
			return CategorizeRequestMsg{ID: it.GetID(), Title: it.GetTitle()}
		}, true

	case key.Matches(msg, m.keys.Note):
		it, ok := m.SelectedItem()
		if !ok || it.GetTable() != model.TableSorted {
			return m, nil, true
		}
		return m, func() tea.Msg {
			return NoteRequestMsg{ID: it.GetID(), Title: it.GetTitle(), Note: it.GetNote()}
		}, true

	case key.Matches(msg, m.keys.Delete):
		it, ok := m.SelectedItem()
		if !ok {
			return m, nil, true
		}
		return m, func() tea.Msg {
			return DeleteRequestMsg{Table: it.GetTable(), ID: it.GetID(), Title: it.GetTitle()}
		}, true
	}
	return m, nil, false
}

// SelectedItem returns the highlighted notification.
func (m Model) SelectedItem() (model.ListItem, bool) {
	it, ok := m.list.SelectedItem().(Item)
	if !ok {
		return nil, false
	}
	return it.ListItem, true
}

// SetCounts updates the counts shown on the tabs.
func (m *Model) SetCounts(c lifecycle.Counts) {
	m.counts[model.TableUnsorted] = c.Unsorted
	m.counts[model.TableSorted] = c.Sorted
}

// View renders the tab bar and the list.
func (m Model) View() string {
	tabs := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.TabStyle(m.table == model.TableUnsorted).Render(fmt.Sprintf("Unsorted (%d)", m.counts[model.TableUnsorted])),
		" ",
		theme.TabStyle(m.table == model.TableSorted).Render(fmt.Sprintf("Sorted (%d)", m.counts[model.TableSorted])),
	)

	if len(m.list.Items()) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, tabs, m.renderEmptyState())
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabs, "", m.list.View())
}

// renderEmptyState shows guidance text when the list is empty.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.table == model.TableSorted {
		return style.Render("Nothing sorted yet.\n\nPress tab, pick a notification and press c to categorize it.")
	}
	return style.Render("No unsorted notifications.\n\nPress r to fetch from your sources.")
}

// LoadItems returns a tea.Cmd that reads the current list.
func (m Model) LoadItems() tea.Cmd {
	e := m.engine
	table := m.table
	return func() tea.Msg {
		ctx := context.Background()
		var items []model.ListItem
		var err error
		if table == model.TableSorted {
			var rows []model.SortedView
			rows, err = e.Sorted(ctx)
			for _, r := range rows {
				items = append(items, r)
			}
		} else {
			var rows []model.UnsortedNotification
			rows, err = e.Unsorted(ctx)
			for _, r := range rows {
				items = append(items, r)
			}
		}
		return ItemsLoadedMsg{Table: table, Items: items, Err: err}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
