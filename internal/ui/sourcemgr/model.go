// Package sourcemgr is the terminal view for adding, editing, testing
// and removing notification sources.
package sourcemgr

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/nhle/notify/internal/credential"
	"github.com/nhle/notify/internal/keys"
	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/source"
	appsync "github.com/nhle/notify/internal/sync"
	"github.com/nhle/notify/internal/theme"
)

// testTimeout bounds a connection test.
const testTimeout = 30 * time.Second

// CloseMsg signals the parent to close the source view.
type CloseMsg struct{}

// SavedMsg reports a source that was added or changed and written to the
// config file.
type SavedMsg struct {
	Source model.SourceConfig
}

// RemovedMsg reports a source that was removed from the config file.
type RemovedMsg struct {
	ID string
}

type viewMode int

const (
	modeList viewMode = iota
	modeSelectType
	modeForm
	modeTesting
	modeTestResult
	modeConfirmRemove
)

// Secrets stores source passwords.
type Secrets interface {
	Set(key, value string) error
	Delete(key string) error
}

type keyringSecrets struct{}

func (keyringSecrets) Set(key, value string) error { return credential.Set(key, value) }
func (keyringSecrets) Delete(key string) error     { return credential.Delete(key) }

// Poller is the part of the background poller the view reads from.
type Poller interface {
	Statuses() []appsync.FetchStatus
	RefreshSource(id string) bool
}

// BuildFunc creates a producer for one source.
type BuildFunc func(src model.SourceConfig) (source.Producer, error)

func buildProducer(src model.SourceConfig) (source.Producer, error) {
	src.Enabled = true
	regs, errs := appsync.BuildProducers([]model.SourceConfig{src}, nil, http.DefaultClient)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return regs[0].Producer, nil
}

// formBindings holds the values huh writes into. It lives on the heap so
// the form keeps pointing at it while Model is copied.
type formBindings struct {
	kind     string
	id       string
	name     string
	url      string
	loginURL string
	username string
	password string
	host     string
	port     string
	mailbox  string
	from     string
	interval string
	tls      bool
	confirm  bool
}

type savedInternalMsg struct {
	sources []model.SourceConfig
	source  model.SourceConfig
	err     error
}

type removedInternalMsg struct {
	sources []model.SourceConfig
	id      string
	err     error
}

type testResultMsg struct {
	id    string
	count int
	err   error
}

// Model is the Bubble Tea model for source management.
type Model struct {
	mode        viewMode
	cfg         *model.AppConfig
	configPath  string
	poller      Poller
	secrets     Secrets
	build       BuildFunc
	keys        *keys.KeyMap
	selectedIdx int
	editing     *model.SourceConfig
	form        *huh.Form
	fb          *formBindings
	spinner     spinner.Model
	testCount   int
	testErr     error
	statusMsg   string
	width       int
	height      int
}

// New creates a source manager that edits cfg.Sources and writes the
// result to configPath.
func New(cfg *model.AppConfig, configPath string, p Poller, k *keys.KeyMap, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		mode:       modeList,
		cfg:        cfg,
		configPath: configPath,
		poller:     p,
		secrets:    keyringSecrets{},
		build:      buildProducer,
		keys:       k,
		fb:         &formBindings{},
		spinner:    sp,
		width:      width,
		height:     height,
	}
}

// WithSecrets replaces the keyring-backed password store.
func (m Model) WithSecrets(s Secrets) Model {
	m.secrets = s
	return m
}

// WithBuilder replaces the producer factory used by connection tests.
func (m Model) WithBuilder(b BuildFunc) Model {
	m.build = b
	return m
}

// Init resets the view to the source list.
func (m *Model) Init() tea.Cmd {
	m.mode = modeList
	m.statusMsg = ""
	if m.selectedIdx >= len(m.cfg.Sources) {
		m.selectedIdx = max(len(m.cfg.Sources)-1, 0)
	}
	return nil
}

// Update handles messages and dispatches based on the current mode.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case savedInternalMsg:
		m.mode = modeList
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error saving source: %v", msg.err)
			return m, nil
		}
		m.cfg.Sources = msg.sources
		m.statusMsg = fmt.Sprintf("Source %q saved to %s", msg.source.ID, m.configPath)
		src := msg.source
		return m, func() tea.Msg { return SavedMsg{Source: src} }

	case removedInternalMsg:
		m.mode = modeList
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error removing source: %v", msg.err)
			return m, nil
		}
		m.cfg.Sources = msg.sources
		if m.selectedIdx >= len(m.cfg.Sources) && m.selectedIdx > 0 {
			m.selectedIdx--
		}
		m.statusMsg = fmt.Sprintf("Source %q removed", msg.id)
		id := msg.id
		return m, func() tea.Msg { return RemovedMsg{ID: id} }

	case testResultMsg:
		if m.mode != modeTesting {
			return m, nil
		}
		m.mode = modeTestResult
		m.testCount = msg.count
		m.testErr = msg.err
		return m, nil

	case spinner.TickMsg:
		if m.mode == modeTesting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeList:
			return m.handleListKeys(msg)
		case modeTesting:
			if key.Matches(msg, m.keys.Back) {
				m.mode = modeList
			}
			return m, nil
		case modeTestResult:
			return m.handleTestResultKeys(msg)
		}
	}

	if m.form != nil && (m.mode == modeSelectType || m.mode == modeForm || m.mode == modeConfirmRemove) {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) selected() (model.SourceConfig, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.cfg.Sources) {
		return model.SourceConfig{}, false
	}
	return m.cfg.Sources[m.selectedIdx], true
}

// handleListKeys processes key events in the source list.
func (m Model) handleListKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if n := len(m.cfg.Sources); n > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % n
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if n := len(m.cfg.Sources); n > 0 {
			m.selectedIdx = (m.selectedIdx - 1 + n) % n
		}
		return m, nil
	}

	switch msg.String() {
	case "a":
		m.editing = nil
		m.fb = &formBindings{tls: true}
		m.mode = modeSelectType
		m.form = m.buildTypeSelectForm()
		return m, m.form.Init()

	case "e":
		src, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.editing = &src
		m.fb = bindingsFrom(src)
		m.mode = modeForm
		m.form = m.buildSourceForm()
		return m, m.form.Init()

	case "t":
		src, ok := m.selected()
		if !ok {
			return m, nil
		}
		src.Enabled = !src.Enabled
		m.editing = nil
		return m, m.saveSource(src, "")

	case "d":
		src, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.fb = &formBindings{}
		m.mode = modeConfirmRemove
		m.form = m.buildRemoveForm(src)
		return m, m.form.Init()

	case "r":
		src, ok := m.selected()
		if !ok {
			return m, nil
		}
		if m.poller != nil && m.poller.RefreshSource(src.ID) {
			m.statusMsg = fmt.Sprintf("Fetching %s...", src.ID)
		} else {
			m.statusMsg = fmt.Sprintf("%s is not being polled", src.ID)
		}
		return m, nil

	case "enter":
		src, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeTesting
		return m, tea.Batch(m.spinner.Tick, m.testSource(src))
	}

	return m, nil
}

// handleTestResultKeys processes key events on the test result screen.
func (m Model) handleTestResultKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.mode = modeList
		m.testErr = nil
		return m, nil
	case "r":
		src, ok := m.selected()
		if m.testErr != nil && ok {
			m.mode = modeTesting
			return m, tea.Batch(m.spinner.Tick, m.testSource(src))
		}
	}
	return m, nil
}

// updateForm forwards msg to the active form and acts on completion.
func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.mode = modeList
		m.form = nil
		return m, nil

	case huh.StateCompleted:
		m.form = nil
		switch m.mode {
		case modeSelectType:
			m.mode = modeForm
			m.form = m.buildSourceForm()
			return m, m.form.Init()

		case modeForm:
			src := m.sourceFromBindings()
			password := m.fb.password
			m.statusMsg = "Saving..."
			return m, m.saveSource(src, password)

		case modeConfirmRemove:
			m.mode = modeList
			src, ok := m.selected()
			if !m.fb.confirm || !ok {
				return m, nil
			}
			return m, m.removeSource(src.ID)
		}
	}

	return m, cmd
}

// --- Forms ---

func (m Model) buildTypeSelectForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select Source Type").
				Description("Choose the kind of source to add").
				Options(
					huh.NewOption("Page - scrape a notifications web page", model.SourceTypePage),
					huh.NewOption("Email - read an IMAP mailbox", model.SourceTypeEmail),
				).
				Value(&m.fb.kind),
		),
	).WithWidth(m.formWidth())
}

func (m Model) buildSourceForm() *huh.Form {
	var fields []huh.Field
	// The id keys the stored password, so it is fixed once created.
	if m.editing == nil {
		fields = append(fields, huh.NewInput().
			Title("ID").
			Description("Short identifier; also keys the password. Leave empty to generate one.").
			Placeholder("work-mail").
			Value(&m.fb.id).
			Validate(m.validateID))
	}
	fields = append(fields, huh.NewInput().
		Title("Name").
		Description("A label for this source").
		Value(&m.fb.name).
		Validate(validateRequired("Name")))

	if m.fb.kind == model.SourceTypeEmail {
		fields = append(fields,
			huh.NewInput().
				Title("IMAP Host").
				Placeholder("imap.example.com").
				Value(&m.fb.host).
				Validate(validateRequired("IMAP Host")),
			huh.NewInput().
				Title("IMAP Port").
				Placeholder("993").
				Value(&m.fb.port).
				Validate(validatePort),
			huh.NewInput().
				Title("Username").
				Placeholder("user@example.com").
				Value(&m.fb.username).
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("Password").
				Description(m.passwordHint()).
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(m.validatePassword),
			huh.NewInput().
				Title("Mailbox").
				Placeholder("INBOX").
				Value(&m.fb.mailbox),
			huh.NewInput().
				Title("From filter").
				Description("Only messages whose sender contains this text").
				Value(&m.fb.from),
			huh.NewConfirm().
				Title("Use TLS").
				Affirmative("Yes").
				Negative("No").
				Value(&m.fb.tls),
		)
	} else {
		fields = append(fields,
			huh.NewInput().
				Title("Page URL").
				Placeholder("https://www.linkedin.com/notifications/").
				Value(&m.fb.url).
				Validate(validateURL),
			huh.NewInput().
				Title("Login URL").
				Description("Optional; used when a username is set").
				Value(&m.fb.loginURL).
				Validate(validateOptionalURL),
			huh.NewInput().
				Title("Username").
				Description("Optional; leave empty for public pages").
				Value(&m.fb.username),
			huh.NewInput().
				Title("Password").
				Description(m.passwordHint()).
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password),
		)
	}

	fields = append(fields,
		huh.NewInput().
			Title("Poll interval (seconds)").
			Placeholder(strconv.Itoa(m.cfg.Display.PollIntervalSec)).
			Value(&m.fb.interval).
			Validate(validateOptionalNumber),
	)

	return huh.NewForm(huh.NewGroup(fields...)).WithWidth(m.formWidth())
}

func (m Model) buildRemoveForm(src model.SourceConfig) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Remove source %q?", src.ID)).
				Description("The source and its stored password are removed. Fetched notifications stay.").
				Affirmative("Yes, remove").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth())
}

func (m Model) passwordHint() string {
	if m.editing != nil {
		return "Leave empty to keep the stored password"
	}
	return "Stored in the system keyring"
}

// bindingsFrom prefills the form with an existing source. Passwords are
// never read back.
func bindingsFrom(src model.SourceConfig) *formBindings {
	opts := source.Options(src.Config)
	tls, err := opts.Bool("tls", true)
	if err != nil {
		tls = true
	}

	fb := &formBindings{
		kind:     src.Type,
		id:       src.ID,
		name:     src.Name,
		url:      src.BaseURL,
		loginURL: opts.String("login_url", ""),
		username: opts.String("username", ""),
		host:     opts.String("host", ""),
		port:     opts.String("port", ""),
		mailbox:  opts.String("mailbox", ""),
		from:     opts.String("from", ""),
		tls:      tls,
	}
	if src.Type == model.SourceTypeEmail && fb.host == "" {
		fb.host = src.BaseURL
	}
	if src.PollIntervalSec > 0 {
		fb.interval = strconv.Itoa(src.PollIntervalSec)
	}
	return fb
}

// sourceFromBindings turns the submitted form into a source entry.
func (m Model) sourceFromBindings() model.SourceConfig {
	fb := m.fb
	src := model.SourceConfig{
		ID:      strings.TrimSpace(fb.id),
		Type:    fb.kind,
		Name:    strings.TrimSpace(fb.name),
		Enabled: true,
		Config:  map[string]string{},
	}
	if m.editing != nil {
		src.ID = m.editing.ID
		src.Enabled = m.editing.Enabled
		for k, v := range m.editing.Config {
			src.Config[k] = v
		}
	}
	if src.ID == "" {
		src.ID = "src-" + uuid.NewString()[:8]
	}

	src.PollIntervalSec = m.cfg.Display.PollIntervalSec
	if n, err := strconv.Atoi(strings.TrimSpace(fb.interval)); err == nil && n > 0 {
		src.PollIntervalSec = n
	}

	set := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			src.Config[k] = v
		} else {
			delete(src.Config, k)
		}
	}
	set("username", fb.username)

	if fb.kind == model.SourceTypeEmail {
		set("host", fb.host)
		set("port", fb.port)
		set("mailbox", fb.mailbox)
		set("from", fb.from)
		src.Config["tls"] = strconv.FormatBool(fb.tls)
	} else {
		src.BaseURL = strings.TrimSpace(fb.url)
		set("login_url", fb.loginURL)
	}
	return src
}

// --- Commands ---

// saveSource stores password (when given) and writes the config file with
// src added or replaced.
func (m Model) saveSource(src model.SourceConfig, password string) tea.Cmd {
	cfg := *m.cfg
	path := m.configPath
	secrets := m.secrets
	replaceID := src.ID
	if m.editing != nil {
		replaceID = m.editing.ID
	}

	next := slices.Clone(cfg.Sources)
	if i := slices.IndexFunc(next, func(s model.SourceConfig) bool { return s.ID == replaceID }); i >= 0 {
		next[i] = src
	} else {
		next = append(next, src)
	}

	return func() tea.Msg {
		if password != "" {
			if err := secrets.Set(credential.PasswordKey(src.ID), password); err != nil {
				return savedInternalMsg{source: src, err: fmt.Errorf("storing password: %w", err)}
			}
		}
		cfg.Sources = next
		if err := model.SaveConfig(path, &cfg); err != nil {
			return savedInternalMsg{source: src, err: err}
		}
		return savedInternalMsg{sources: next, source: src}
	}
}

// removeSource drops the source from the config file and deletes its
// password.
func (m Model) removeSource(id string) tea.Cmd {
	cfg := *m.cfg
	path := m.configPath
	secrets := m.secrets

	next := slices.DeleteFunc(slices.Clone(cfg.Sources), func(s model.SourceConfig) bool { return s.ID == id })

	return func() tea.Msg {
		cfg.Sources = next
		if err := model.SaveConfig(path, &cfg); err != nil {
			return removedInternalMsg{id: id, err: err}
		}
		// A source without a stored password is fine.
		_ = secrets.Delete(credential.PasswordKey(id))
		return removedInternalMsg{sources: next, id: id}
	}
}

// testSource runs one fetch without storing the result.
func (m Model) testSource(src model.SourceConfig) tea.Cmd {
	build := m.build
	return func() tea.Msg {
		prod, err := build(src)
		if err != nil {
			return testResultMsg{id: src.ID, err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		items, err := prod.Fetch(ctx)
		return testResultMsg{id: src.ID, count: len(items), err: err}
	}
}

// --- View ---

// View renders the source manager for the current mode.
func (m Model) View() string {
	style := lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height)

	switch m.mode {
	case modeSelectType, modeForm, modeConfirmRemove:
		if m.form == nil {
			return ""
		}
		return style.Render(m.form.View())
	case modeTesting:
		return style.Render(fmt.Sprintf("%s Testing source...\n\nPress esc to cancel.", m.spinner.View()))
	case modeTestResult:
		return style.Render(m.viewTestResult())
	default:
		return style.Render(m.viewList())
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Sources"))
	b.WriteString("\n\n")

	if len(m.cfg.Sources) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true).Render(
			"No sources configured.\nPress 'a' to add a new source."))
	} else {
		statuses := map[string]appsync.FetchStatus{}
		if m.poller != nil {
			for _, s := range m.poller.Statuses() {
				statuses[s.SourceID] = s
			}
		}
		for i, src := range m.cfg.Sources {
			status, polled := statuses[src.ID]
			b.WriteString(m.renderSource(i, src, status, polled))
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("a add | e edit | t enable/disable | d remove | enter test | r fetch | esc back"))
	return b.String()
}

func (m Model) renderSource(idx int, src model.SourceConfig, status appsync.FetchStatus, polled bool) string {
	enabled := lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("enabled")
	if !src.Enabled {
		enabled = lipgloss.NewStyle().Foreground(theme.ColorGray).Render("disabled")
	}

	name := src.Name
	if name == "" {
		name = "(unnamed)"
	}

	line := fmt.Sprintf("%s  %s  %s  [%s]  %s", sourceTypeIcon(src.Type), src.ID, name, src.Type, enabled)
	if polled {
		line += "  " + statusLabel(status)
	}

	if idx == m.selectedIdx {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

func statusLabel(s appsync.FetchStatus) string {
	switch s.State {
	case appsync.FetchRunning:
		return lipgloss.NewStyle().Foreground(theme.ColorBlue).Render("fetching")
	case appsync.FetchError:
		return lipgloss.NewStyle().Foreground(theme.ColorRed).Render("failed")
	}
	if s.LastFetch.IsZero() {
		return theme.MutedStyle.Render("idle")
	}
	return theme.MutedStyle.Render("fetched " + s.LastFetch.Format("15:04"))
}

func (m Model) viewTestResult() string {
	hint := lipgloss.NewStyle().Foreground(theme.ColorGray)
	if m.testErr != nil {
		title := "Source test failed"
		if source.IsAuthError(m.testErr) {
			title = "Login rejected"
		}
		return lipgloss.NewStyle().Bold(true).Foreground(theme.ColorRed).Render(title) + "\n\n" +
			m.testErr.Error() + "\n\n" +
			hint.Render("r retry | enter/esc back")
	}
	return lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGreen).Render("Source works") + "\n\n" +
		fmt.Sprintf("%d notifications available.", m.testCount) + "\n\n" +
		hint.Render("enter/esc back")
}

// --- Helpers ---

// Testing reports whether a connection test is running.
func (m Model) Testing() bool {
	return m.mode == modeTesting
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func sourceTypeIcon(sourceType string) string {
	switch sourceType {
	case model.SourceTypePage:
		return "[P]"
	case model.SourceTypeEmail:
		return "[E]"
	default:
		return "[?]"
	}
}

// --- Validators ---

var sourceIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

func (m Model) validateID(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if !sourceIDPattern.MatchString(s) {
		return fmt.Errorf("use lowercase letters, digits and dashes")
	}
	if _, taken := m.cfg.FindSource(s); taken {
		return fmt.Errorf("source %q already exists", s)
	}
	return nil
}

func (m Model) validatePassword(s string) error {
	if m.editing != nil {
		return nil
	}
	return validateRequired("Password")(s)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., https://example.com)")
	}
	return nil
}

func validateOptionalURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validateURL(s)
}

func validatePort(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}

func validateOptionalNumber(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err != nil || n <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}
