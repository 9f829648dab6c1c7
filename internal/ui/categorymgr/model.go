package categorymgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notify/internal/keys"
	"github.com/nhle/notify/internal/lifecycle"
	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/theme"
)

// CloseMsg signals the parent to close the category view.
type CloseMsg struct{}

// ChangedMsg signals that categories, and possibly notifications, were
// modified.
type ChangedMsg struct{}

type viewMode int

const (
	modeList viewMode = iota
	modeForm
	modeConfirmRemove
)

type formBindings struct {
	name    string
	confirm bool
}

type categoriesLoadedMsg struct {
	categories []model.CategoryCount
	err        error
}

type previewLoadedMsg struct {
	preview lifecycle.RemovalPreview
	err     error
}

type categoryAddedMsg struct {
	category model.Category
	err      error
}

type categoryRemovedMsg struct {
	result lifecycle.RemovalResult
	err    error
}

// Model is the Bubble Tea model for category management.
type Model struct {
	mode        viewMode
	engine      *lifecycle.Engine
	keys        *keys.KeyMap
	categories  []model.CategoryCount
	selectedIdx int
	preview     lifecycle.RemovalPreview
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new category manager model.
func New(e *lifecycle.Engine, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:   modeList,
		engine: e,
		keys:   k,
		fb:     &formBindings{},
		width:  width, height: height,
	}
}

// Init loads categories.
func (m Model) Init() tea.Cmd {
	return m.loadCategories()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case categoriesLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.categories = msg.categories
		if m.selectedIdx >= len(m.categories) && m.selectedIdx > 0 {
			m.selectedIdx = len(m.categories) - 1
		}
		return m, nil

	case previewLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.preview = msg.preview
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmRemove
		return m, m.confirmForm.Init()

	case categoryAddedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = fmt.Sprintf("Added #%d %s", msg.category.ID, msg.category.Name)
			m.selectedIdx = int(msg.category.ID) - 1
		}
		m.mode = modeList
		return m, tea.Batch(m.loadCategories(), func() tea.Msg { return ChangedMsg{} })

	case categoryRemovedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = fmt.Sprintf("Removed %s, %d notifications back in unsorted",
				msg.result.Category.Name, msg.result.Reverted)
		}
		m.mode = modeList
		return m, tea.Batch(m.loadCategories(), func() tea.Msg { return ChangedMsg{} })

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeList:
		return m.handleListKey(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmRemove:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.categories) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.categories)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.categories) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.categories) - 1
			}
		}
		return m, nil

	case msg.String() == "n":
		m.fb.name = ""
		m.statusMsg = ""
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete):
		if len(m.categories) == 0 {
			return m, nil
		}
		m.statusMsg = ""
		return m, m.loadPreview(m.categories[m.selectedIdx].ID)
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Category name").
				CharLimit(model.MaxCategoryNameLen).
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm() *huh.Form {
	p := m.preview
	desc := "No sorted notifications use it."
	if p.Affected > 0 {
		desc = fmt.Sprintf("%d sorted notifications will move back to unsorted.", p.Affected)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Remove category %q?", p.Category.Name)).
				Description(desc).
				Affirmative("Yes, remove").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.addCategory(m.fb.name)
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		if m.fb.confirm {
			return m, m.removeCategory(m.preview.Category.ID)
		}
		m.mode = modeList
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmRemove:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// View renders the category manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmRemove:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Categories"))
	b.WriteString("\n\n")

	if len(m.categories) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No categories yet. Press 'n' to create one."))
	} else {
		countStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
		for i, c := range m.categories {
			label := fmt.Sprintf("%2d. %s %s", c.ID, c.Name,
				countStyle.Render(fmt.Sprintf("(%d)", c.Notifications)))

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"n new | d remove | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func (m Model) loadCategories() tea.Cmd {
	e := m.engine
	return func() tea.Msg {
		cats, err := e.Categories(context.Background())
		return categoriesLoadedMsg{categories: cats, err: err}
	}
}

func (m Model) loadPreview(id int64) tea.Cmd {
	e := m.engine
	return func() tea.Msg {
		p, err := e.RemoveCategoryPreview(context.Background(), id)
		return previewLoadedMsg{preview: p, err: err}
	}
}

func (m Model) addCategory(name string) tea.Cmd {
	e := m.engine
	return func() tea.Msg {
		c, err := e.AddCategory(context.Background(), name)
		return categoryAddedMsg{category: c, err: err}
	}
}

func (m Model) removeCategory(id int64) tea.Cmd {
	e := m.engine
	return func() tea.Msg {
		res, err := e.RemoveCategory(context.Background(), id)
		return categoryRemovedMsg{result: res, err: err}
	}
}
