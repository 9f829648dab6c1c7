package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notify/internal/lifecycle"
	"github.com/nhle/notify/internal/model"
	appsync "github.com/nhle/notify/internal/sync"
	"github.com/nhle/notify/internal/ui"
	"github.com/nhle/notify/internal/ui/categorymgr"
	"github.com/nhle/notify/internal/ui/command"
	"github.com/nhle/notify/internal/ui/detail"
	helpview "github.com/nhle/notify/internal/ui/help"
	"github.com/nhle/notify/internal/ui/notificationlist"
	"github.com/nhle/notify/internal/ui/notifyform"
	"github.com/nhle/notify/internal/ui/sourcemgr"
)

// paletteCommands lists the names accepted by the command palette.
var paletteCommands = []string{
	"fetch", "resequence", "categories", "sources",
	"delete all unsorted", "delete all sorted", "quit",
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewHelp
	ViewCommand
	ViewForm
	ViewCategories
	ViewSources
	ViewConfirm
)

// Model is the root Bubble Tea model that manages view routing, layout
// and access to the lifecycle engine.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	engine       *lifecycle.Engine
	cfg          *model.AppConfig
	log          *slog.Logger
	keys         *KeyMap
	list         notificationlist.Model
	detail       detail.Model
	helpView     helpview.Model
	commandView  command.Model
	formView     notifyform.Model
	categoryView categorymgr.Model
	sourceView   sourcemgr.Model
	confirm      *pendingConfirm
	poller       *appsync.Poller
	ready        bool
	counts       lifecycle.Counts
	statusMsg    string
	statusErr    bool
}

// New creates a new root application model.
func New(e *lifecycle.Engine, cfg *model.AppConfig, configPath string, p *appsync.Poller, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	keys := DefaultKeyMap()

	return Model{
		currentView:  ViewList,
		engine:       e,
		cfg:          cfg,
		log:          logger.With("component", "tui"),
		keys:         keys,
		list:         notificationlist.New(e, keys, cfg.Display.TruncateAt, 80, 24),
		detail:       detail.New(e.ImportanceLevels(), keys, 80, 24),
		helpView:     helpview.New(keys, paletteCommands, 80, 24),
		commandView:  command.New(paletteCommands, 80, 24),
		formView:     notifyform.New(80, 24),
		categoryView: categorymgr.New(e, keys, 80, 24),
		sourceView:   sourcemgr.New(cfg, configPath, p, keys, 80, 24),
		poller:       p,
	}
}

// Init loads the first list and registers the configured sources before
// the poller starts.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.list.Init(),
		m.loadCounts(),
		m.registerSources(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.list.SetSize(contentWidth, contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		m.formView.SetSize(contentWidth, contentHeight)
		m.categoryView.SetSize(contentWidth, contentHeight)
		m.sourceView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case sourcesRegisteredMsg:
		for _, err := range msg.errs {
			m.log.Warn("source skipped", "error", err)
		}
		if len(msg.errs) > 0 {
			m.setStatus(msg.errs[0].Error(), true)
		}
		if msg.count == 0 {
			return m, nil
		}
		return m, m.poller.Start()

	case appsync.FetchResultMsg:
		switch {
		case msg.AuthError != nil:
			m.setStatus(msg.AuthError.Message, true)
		case msg.Error != nil:
			m.setStatus(fmt.Sprintf("%s: %v", msg.SourceID, msg.Error), true)
		case msg.Inserted > 0:
			m.setStatus(fmt.Sprintf("%s: %d new notifications", msg.SourceID, msg.Inserted), false)
		}
		return m, tea.Batch(m.reload(), m.poller.WaitForNextResult())

	case countsLoadedMsg:
		if msg.err == nil {
			m.counts = msg.counts
			m.list.SetCounts(msg.counts)
		}
		return m, nil

	case actionResultMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
		} else if msg.message != "" {
			m.setStatus(msg.message, false)
		}
		if msg.backToList {
			m.currentView = ViewList
		}
		return m, m.reload()

	case notificationlist.SelectedMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detail.SetLoading(true)
		return m, m.loadDetail(msg.Table, msg.ID)

	case notificationlist.CategorizeRequestMsg:
		return m, m.startCategorize(msg.ID, msg.Title)

	case notificationlist.NoteRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewForm
		cmd := m.formView.StartNote(msg.ID, msg.Title, msg.Note)
		return m, cmd

	case notificationlist.DeleteRequestMsg:
		cmd := m.askDelete(msg.Table, msg.ID, msg.Title)
		return m, cmd

	case categoriesForFormMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		if len(msg.categories) == 0 {
			m.setStatus("No categories. Press g to add one.", true)
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewForm
		cmd := m.formView.StartCategorize(
			msg.id, msg.title, msg.categories,
			m.engine.ImportanceLevels(), m.cfg.Display.BatchSize,
		)
		return m, cmd

	case notifyform.CategorizeSubmitMsg:
		m.currentView = ViewList
		return m, m.categorize(msg.Request)

	case notifyform.NoteSubmitMsg:
		m.currentView = m.previousView
		return m, m.updateNote(msg.ID, msg.Note)

	case notifyform.FormCancelMsg:
		m.currentView = m.previousView
		return m, nil

	case detail.DetailLoadedMsg:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case detail.ActionMsg:
		it := msg.Item
		switch msg.Action {
		case "categorize":
			return m, m.startCategorize(it.GetID(), it.GetTitle())
		case "note":
			m.previousView = m.currentView
			m.currentView = ViewForm
			cmd := m.formView.StartNote(it.GetID(), it.GetTitle(), it.GetNote())
			return m, cmd
		case "delete":
			cmd := m.askDelete(it.GetTable(), it.GetID(), it.GetTitle())
			return m, cmd
		}
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(string(msg))
		return m, cmd

	case categorymgr.CloseMsg:
		m.currentView = ViewList
		return m, nil

	case categorymgr.ChangedMsg:
		return m, m.reload()

	case sourcemgr.CloseMsg:
		m.currentView = ViewList
		return m, nil

	case sourcemgr.SavedMsg:
		m.poller.Remove(msg.Source.ID)
		if !msg.Source.Enabled {
			return m, nil
		}
		return m, m.registerSource(msg.Source)

	case sourcemgr.RemovedMsg:
		m.poller.Remove(msg.ID)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.poller.Stop()
			return m, tea.Quit
		}
		if m.capturesInput() {
			break
		}

		// Global keys that work regardless of current view
		switch msg.String() {
		case "q":
			if m.currentView == ViewList {
				m.poller.Stop()
				return m, tea.Quit
			}

		case "?":
			if m.currentView == ViewCommand {
				break
			}
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case ":":
			if m.currentView == ViewCommand {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewCommand
			cmd := m.commandView.Focus()
			return m, cmd

		case "esc":
			if m.currentView == ViewHelp || m.currentView == ViewCommand {
				m.currentView = m.previousView
				return m, nil
			}

		case "r":
			if m.currentView == ViewList {
				cmd := m.fetchNow()
				return m, cmd
			}

		case "g":
			if m.currentView == ViewList {
				m.previousView = m.currentView
				m.currentView = ViewCategories
				return m, m.categoryView.Init()
			}

		case "s":
			if m.currentView == ViewList {
				m.previousView = m.currentView
				m.currentView = ViewSources
				cmd := m.sourceView.Init()
				return m, cmd
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// capturesInput reports whether the active view is taking text input, in
// which case single-key shortcuts go to the view.
func (m Model) capturesInput() bool {
	switch m.currentView {
	case ViewConfirm, ViewForm, ViewCategories, ViewSources:
		return true
	case ViewList:
		return m.list.Filtering()
	}
	return false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.list, cmd = m.list.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewForm:
		m.formView, cmd = m.formView.Update(msg)
	case ViewCategories:
		m.categoryView, cmd = m.categoryView.Update(msg)
	case ViewSources:
		m.sourceView, cmd = m.sourceView.Update(msg)
	case ViewConfirm:
		return m.updateConfirm(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerTitle := fmt.Sprintf("Notify  %d unsorted | %d sorted | %d categories",
		m.counts.Unsorted, m.counts.Sorted, m.counts.Categories)
	header := m.layout.RenderHeader(headerTitle, m.fetchStatus())
	content := m.renderContent()

	hints, isErr := m.keyHints()
	statusBar := m.layout.RenderStatusBar(hints, isErr)

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.list.View()
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewForm:
		return m.formView.View()
	case ViewCategories:
		return m.categoryView.View()
	case ViewSources:
		return m.sourceView.View()
	case ViewConfirm:
		return m.confirmView()
	default:
		return ""
	}
}

// fetchStatus returns a short string describing the combined fetch state.
func (m Model) fetchStatus() string {
	statuses := m.poller.Statuses()
	if len(statuses) == 0 {
		return "no sources"
	}

	running := 0
	var failed []string
	for _, s := range statuses {
		switch s.State {
		case appsync.FetchRunning:
			running++
		case appsync.FetchError:
			failed = append(failed, s.SourceID)
		}
	}

	if running > 0 {
		return fmt.Sprintf("fetching (%d)", running)
	}
	if len(failed) > 0 {
		return "⚠ failed: " + strings.Join(failed, ", ")
	}

	var last string
	for _, s := range statuses {
		if !s.LastFetch.IsZero() {
			if t := s.LastFetch.Format("15:04"); t > last {
				last = t
			}
		}
	}
	if last != "" {
		return "fetched " + last
	}
	return "idle"
}

// keyHints returns the status bar text and whether it is an error.
func (m Model) keyHints() (string, bool) {
	if m.statusMsg != "" && m.currentView == ViewList {
		return m.statusMsg, m.statusErr
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back", false
	case ViewCommand:
		return ": close command | tab complete | enter execute | esc back", false
	case ViewDetail:
		if it := m.detail.Item(); it != nil && it.GetTable() == model.TableSorted {
			return "esc back | e note | d delete | j/k scroll", false
		}
		return "esc back | c categorize | d delete | j/k scroll", false
	case ViewForm, ViewConfirm:
		return "enter submit | esc cancel", false
	case ViewCategories:
		return "n new | d remove | esc back", false
	case ViewSources:
		return "a add | e edit | t toggle | d remove | enter test | esc back", false
	default:
		if m.list.Table() == model.TableSorted {
			return "q quit | ? help | tab unsorted | e note | d delete | / filter | g categories | s sources | r fetch", false
		}
		return "q quit | ? help | tab sorted | c categorize | d delete | / filter | g categories | s sources | r fetch", false
	}
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusErr = isErr
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "fetch", "refresh":
		return m.fetchNow()
	case "resequence":
		return m.resequence()
	case "categories", "category":
		m.previousView = ViewList
		m.currentView = ViewCategories
		return m.categoryView.Init()
	case "sources", "source":
		m.previousView = ViewList
		m.currentView = ViewSources
		return m.sourceView.Init()
	case "delete all":
		return m.askDeleteAll(m.list.Table())
	case "delete all unsorted":
		return m.askDeleteAll(model.TableUnsorted)
	case "delete all sorted":
		return m.askDeleteAll(model.TableSorted)
	case "quit", "q":
		m.poller.Stop()
		return tea.Quit
	default:
		m.setStatus(fmt.Sprintf("unknown command %q", cmd), true)
		return nil
	}
}

// fetchNow triggers every registered producer.
func (m *Model) fetchNow() tea.Cmd {
	if m.poller.Len() == 0 {
		m.setStatus("No sources configured. Press s to add one.", true)
		return nil
	}
	m.poller.RefreshAll()
	m.setStatus("Fetching...", false)
	return nil
}

// pendingConfirm is a destructive action waiting for a yes/no answer.
type pendingConfirm struct {
	form   *huh.Form
	answer *bool
	run    tea.Cmd
	back   ViewState
}

func (m *Model) openConfirm(title, description string, run tea.Cmd) tea.Cmd {
	answer := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("Cancel").
				Value(&answer),
		),
	).WithWidth(min(max(m.layout.ContentWidth()-4, 40), 100))

	m.confirm = &pendingConfirm{form: form, answer: &answer, run: run, back: m.currentView}
	m.currentView = ViewConfirm
	return form.Init()
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	c := m.confirm
	if c == nil {
		m.currentView = ViewList
		return m, nil
	}

	mdl, cmd := c.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		c.form = f
	}

	switch c.form.State {
	case huh.StateCompleted:
		m.confirm = nil
		m.currentView = c.back
		if *c.answer {
			return m, c.run
		}
		return m, nil
	case huh.StateAborted:
		m.confirm = nil
		m.currentView = c.back
		return m, nil
	}
	return m, cmd
}

func (m Model) confirmView() string {
	if m.confirm == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(m.confirm.form.View())
}

// Run starts the terminal UI and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, e *lifecycle.Engine, cfg *model.AppConfig, configPath string, logger *slog.Logger) error {
	p := appsync.New(e, logger)
	defer p.Stop()

	prog := tea.NewProgram(
		New(e, cfg, configPath, p, logger),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := prog.Run()
	return err
}
