package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/studiowebux/arangotui/internal/bridge"
	"github.com/studiowebux/arangotui/internal/config"
	"github.com/studiowebux/arangotui/internal/history"
	"github.com/studiowebux/arangotui/internal/keybinds"
	"github.com/studiowebux/arangotui/internal/navigator"
	"github.com/studiowebux/arangotui/internal/types"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeFilter
	ModeEditor
	ModeHelp
	ModeOptions
)

// Completions is the receiving side of the fetch bridge. *bridge.Bridge
// implements it.
type Completions interface {
	Drain() []bridge.Completion
	Pending() int
}

// QueryStore persists executed queries. *history.Manager implements it.
type QueryStore interface {
	Save(entry types.QueryHistoryEntry) error
	Queries(database string, limit int) ([]string, error)
}

// Options wires a Model to its collaborators
type Options struct {
	Navigator   *navigator.Navigator
	Completions Completions
	Keybinds    *keybinds.Registry
	// History is optional, nil disables recording and recall
	History QueryStore
	Logger  *zap.Logger
	Config  config.Config
	Server  types.ServerVersion
	// GAE is nil when the analytics engine did not answer at startup
	GAE *types.GAEVersion
}

// headerInfo is the static part of the header
type headerInfo struct {
	server   types.ServerVersion
	gae      *types.GAEVersion
	endpoint string
	username string
}

// Model represents the TUI state
type Model struct {
	nav         *navigator.Navigator
	completions Completions
	keybinds    *keybinds.Registry
	history     QueryStore
	logger      *zap.Logger
	cfg         config.Config
	header      headerInfo
	mode        Mode

	// UI state
	width     int
	height    int
	statusMsg string
	errorMsg  string

	spinner  spinner.Model
	editor   textarea.Model
	helpView viewport.Model

	// Text input state for search and filter prompts
	input      string
	prevSearch string

	// recall walks stored queries while the editor has focus
	recall *history.Recall

	// helpFor is the context the help overlay describes
	helpFor keybinds.Context

	quitting bool
}

// tickMsg drives completion draining
type tickMsg time.Time

// historySavedMsg reports the outcome of recording a query
type historySavedMsg struct {
	err error
}

// New creates the model. The navigator must already show its root view.
func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	keys := opts.Keybinds
	if keys == nil {
		keys = keybinds.NewDefaultRegistry()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleWarning

	ed := textarea.New()
	ed.Placeholder = "FOR doc IN collection RETURN doc"
	ed.ShowLineNumbers = true
	ed.CharLimit = EditorCharLimit
	ed.SetHeight(EditorHeight)

	return &Model{
		nav:         opts.Navigator,
		completions: opts.Completions,
		keybinds:    keys,
		history:     opts.History,
		logger:      logger,
		cfg:         opts.Config,
		header: headerInfo{
			server:   opts.Server,
			gae:      opts.GAE,
			endpoint: opts.Config.Endpoint,
			username: opts.Config.Username,
		},
		spinner:  s,
		editor:   ed,
		helpView: viewport.New(0, 0),
	}
}

// Init starts the spinner and the drain loop
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tickMsg:
		// Keys delivered before this tick are already applied, so a
		// completion always lands on the stack the user last saw.
		return m, tea.Batch(m.drain(), tick())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case historySavedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to record query", zap.Error(msg.err))
		}
		return m, nil
	}

	return m, nil
}

// drain applies every completion queued since the last tick
func (m *Model) drain() tea.Cmd {
	if m.completions == nil {
		return nil
	}
	var cmds []tea.Cmd
	for _, c := range m.completions.Drain() {
		if !m.nav.Complete(c) {
			continue
		}
		if req, ok := c.Request.(navigator.QueryRequest); ok {
			cmds = append(cmds, m.recordQuery(req, c))
		}
	}
	return tea.Batch(cmds...)
}

// recordQuery stores a finished execution in the query history
func (m *Model) recordQuery(req navigator.QueryRequest, c bridge.Completion) tea.Cmd {
	if m.history == nil {
		return nil
	}
	entry := types.QueryHistoryEntry{
		Database:   req.Database,
		Query:      req.Query,
		Status:     history.StatusSucceeded,
		DurationMs: c.Elapsed.Milliseconds(),
	}
	if c.Err != nil {
		entry.Status = history.StatusFailed
		entry.Error = c.Err.Message
	} else if res, ok := c.Value.(types.QueryResult); ok {
		entry.ResultCount = res.Count
	}
	// the next recall should see this query
	m.recall = nil

	store := m.history
	return func() tea.Msg {
		return historySavedMsg{err: store.Save(entry)}
	}
}

// resize propagates the terminal size to the navigator and widgets
func (m *Model) resize() {
	body := m.height - ContentOffsetStandard
	if body < 1 {
		body = 1
	}
	m.nav.SetHeight(body)
	m.editor.SetWidth(m.width - 2)
	m.helpView.Width = m.width
	m.helpView.Height = m.height - ContentOffsetHelp
	if m.mode == ModeHelp || m.mode == ModeOptions {
		m.refreshOverlay()
	}
}

// View renders the current state
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	switch m.mode {
	case ModeHelp, ModeOptions:
		return m.renderOverlay()
	}

	rc := renderContext{
		width:     m.width,
		height:    m.height - HeaderLines - FooterLines,
		spinner:   m.spinner.View(),
		highlight: true,
	}
	if m.mode == ModeEditor {
		rc.editor = m.editor.View()
	}

	header := renderHeader(m.header, m.nav.Breadcrumb(), m.width)
	body := fitLines(renderFrame(m.nav.Top(), rc), rc.height)
	footer := renderFooter(m.statusMsg, m.errorMsg, m.footerHints(), m.width)

	return header + "\n" + body + "\n" + footer
}

// Cleanup releases what the model owns. The bridge and stores are closed
// by whoever created them.
func (m *Model) Cleanup() {
	m.quitting = true
}
