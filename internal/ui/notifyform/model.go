package notifyform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notify/internal/lifecycle"
	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/theme"
)

// maxNoteLen mirrors the engine's note limit so the form can reject long
// notes before submitting.
const maxNoteLen = 4096

// CategorizeSubmitMsg is dispatched when the categorize form completes.
type CategorizeSubmitMsg struct {
	Request lifecycle.CategorizeRequest
}

// NoteSubmitMsg is dispatched when the note form completes.
type NoteSubmitMsg struct {
	ID   int64
	Note string
}

// FormCancelMsg is dispatched when the user cancels the form.
type FormCancelMsg struct{}

type formMode int

const (
	modeCategorize formMode = iota
	modeNote
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	categoryID int64
	importance int
	note       string
}

// Model is the Bubble Tea model for the categorize and note forms.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	mode     formMode
	targetID int64
	title    string
	width    int
	height   int
}

// New creates a new form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCategorize initializes the form for filing an unsorted
// notification. Selects show batchSize options at a time.
func (m *Model) StartCategorize(
	id int64,
	title string,
	categories []model.CategoryCount,
	levels model.ImportanceLevels,
	batchSize int,
) tea.Cmd {
	m.mode = modeCategorize
	m.targetID = id
	m.title = title
	m.fb.categoryID = 0
	m.fb.importance = 0
	m.fb.note = ""
	if len(categories) > 0 {
		m.fb.categoryID = categories[0].ID
	}
	if lv := levels.Levels(); len(lv) > 0 {
		m.fb.importance = lv[0]
	}

	catOpts := make([]huh.Option[int64], len(categories))
	for i, c := range categories {
		catOpts[i] = huh.NewOption(fmt.Sprintf("%d. %s", c.ID, c.Name), c.ID)
	}

	var levelOpts []huh.Option[int]
	for _, l := range levels.Levels() {
		levelOpts = append(levelOpts, huh.NewOption(fmt.Sprintf("%d. %s", l, levels.Label(l)), l))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().
				Title("Category").
				Options(catOpts...).
				Height(batchSize+2).
				Value(&m.fb.categoryID),
			huh.NewSelect[int]().
				Title("Importance").
				Options(levelOpts...).
				Height(batchSize+2).
				Value(&m.fb.importance),
			huh.NewInput().
				Title("Note").
				Placeholder("Optional").
				Value(&m.fb.note).
				Validate(validateNote),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
	return m.form.Init()
}

// StartNote initializes the form for editing the note of a sorted
// notification.
func (m *Model) StartNote(id int64, title, current string) tea.Cmd {
	m.mode = modeNote
	m.targetID = id
	m.title = title
	m.fb.note = current

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Note").
				Placeholder("Leave empty to clear").
				Value(&m.fb.note).
				Validate(validateNote),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
	return m.form.Init()
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return FormCancelMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	heading := "Categorize"
	if m.mode == modeNote {
		heading = "Edit note"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)
	subStyle := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		MarginBottom(1)

	content := titleStyle.Render(heading) + "\n" +
		subStyle.Render(fmt.Sprintf("#%d %s", m.targetID, m.title)) + "\n" +
		m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) handleSubmit() tea.Cmd {
	id := m.targetID
	note := strings.TrimSpace(m.fb.note)

	if m.mode == modeNote {
		return func() tea.Msg { return NoteSubmitMsg{ID: id, Note: note} }
	}

	req := lifecycle.CategorizeRequest{
		UnsortedID: id,
		CategoryID: m.fb.categoryID,
		Importance: m.fb.importance,
		Note:       note,
	}
	return func() tea.Msg { return CategorizeSubmitMsg{Request: req} }
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
	h := m.height - 6
	if h < 10 {
		h = 10
	}
	return h
}

func validateNote(s string) error {
	if len([]rune(s)) > maxNoteLen {
		return fmt.Errorf("note must be at most %d characters", maxNoteLen)
	}
	return nil
}
