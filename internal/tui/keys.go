package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/studiowebux/arangotui/internal/history"
	"github.com/studiowebux/arangotui/internal/keybinds"
	"github.com/studiowebux/arangotui/internal/navigator"
)

// viewContexts maps each view kind to its keybind context
var viewContexts = map[navigator.Kind]keybinds.Context{
	navigator.KindMainMenu:             keybinds.ContextMenu,
	navigator.KindDatabaseList:         keybinds.ContextDatabases,
	navigator.KindCollectionList:       keybinds.ContextCollections,
	navigator.KindCollectionProperties: keybinds.ContextProperties,
	navigator.KindCollectionContent:    keybinds.ContextDocuments,
	navigator.KindQuery:                keybinds.ContextQuery,
	navigator.KindGraphList:            keybinds.ContextGraphs,
	navigator.KindGraphDetail:          keybinds.ContextGraph,
}

// context returns the keybind context for the current mode and view
func (m *Model) context() keybinds.Context {
	switch m.mode {
	case ModeEditor:
		return keybinds.ContextQueryEditor
	case ModeSearch, ModeFilter:
		return keybinds.ContextTextInput
	case ModeHelp, ModeOptions:
		return keybinds.ContextHelp
	}
	if ctx, ok := viewContexts[m.nav.Top().View.Kind()]; ok {
		return ctx
	}
	return keybinds.ContextViewer
}

// handleKeyPress routes key presses based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case ModeEditor:
		return m.handleEditorKeys(msg)
	case ModeSearch, ModeFilter:
		return m.handleTextInputKeys(msg)
	case ModeHelp, ModeOptions:
		return m.handleHelpKeys(msg)
	}
	return m.handleViewKeys(msg)
}

// handleViewKeys handles keys while a view has focus
func (m *Model) handleViewKeys(msg tea.KeyMsg) tea.Cmd {
	ctx := m.context()

	action, ok, partial := m.keybinds.MatchMultiKey(ctx, msg.String())
	if partial {
		// first 'g' of 'gg'
		return nil
	}
	if !ok {
		return nil
	}

	// a key press replaces the previous status
	m.statusMsg = ""
	m.errorMsg = ""

	switch action {
	case keybinds.ActionQuit, keybinds.ActionQuitForce:
		return m.quit()

	case keybinds.ActionNavigateUp:
		m.nav.Scroll(-1)

	case keybinds.ActionNavigateDown:
		m.nav.Scroll(1)

	case keybinds.ActionPageUp:
		m.nav.PageUp()

	case keybinds.ActionPageDown:
		m.nav.PageDown()

	case keybinds.ActionHalfPageUp:
		m.nav.Scroll(-m.halfPage())

	case keybinds.ActionHalfPageDown:
		m.nav.Scroll(m.halfPage())

	case keybinds.ActionGoToTop:
		m.nav.ScrollTo(0)

	case keybinds.ActionGoToBottom:
		m.nav.ScrollTo(-1)

	case keybinds.ActionSelect:
		return m.handleSignal(m.nav.Select())

	case keybinds.ActionBack:
		if m.nav.Back() {
			return m.quit()
		}

	case keybinds.ActionRefresh:
		if !m.nav.Refresh() {
			m.statusMsg = "Nothing to refresh"
		}

	case keybinds.ActionDismissError:
		m.nav.DismissError()

	case keybinds.ActionCopyToClipboard:
		m.copySelection()

	case keybinds.ActionOpenSearch:
		m.prevSearch = currentSearch(m.nav.Top())
		m.input = m.prevSearch
		m.mode = ModeSearch

	case keybinds.ActionOpenDocuments:
		return m.handleSignal(m.nav.OpenContent())

	case keybinds.ActionOpenQuery:
		return m.handleSignal(m.nav.OpenQuery())

	case keybinds.ActionOpenGraphs:
		return m.handleSignal(m.nav.OpenGraphs())

	case keybinds.ActionExecute:
		m.nav.ExecuteQuery()

	case keybinds.ActionFocusEditor:
		return m.focusEditor()

	case keybinds.ActionFilterResults:
		if v, ok := m.nav.Top().View.(*navigator.QueryView); ok {
			m.input = v.Filter
			m.mode = ModeFilter
		}

	case keybinds.ActionOpenHelp:
		m.openHelp()
	}

	return nil
}

// handleSignal turns navigator signals into UI effects
func (m *Model) handleSignal(sig navigator.Signal) tea.Cmd {
	switch sig {
	case navigator.SignalQuit:
		return m.quit()
	case navigator.SignalGAE:
		if m.header.gae != nil {
			m.statusMsg = fmt.Sprintf("GAE %s (API %d-%d)", m.header.gae.Version, m.header.gae.APIMinVersion, m.header.gae.APIMaxVersion)
		} else {
			m.errorMsg = "GAE: Not connected"
		}
	case navigator.SignalOptions:
		m.openOptions()
	case navigator.SignalNoAccess:
		m.errorMsg = "No access to this database"
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.Cleanup()
	return tea.Quit
}

func (m *Model) halfPage() int {
	half := m.nav.Height() / 2
	if half < 1 {
		half = 1
	}
	return half
}

func (m *Model) copySelection() {
	text, ok := navigator.Selection(m.nav.Top())
	if !ok {
		m.errorMsg = "Nothing to copy"
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.errorMsg = fmt.Sprintf("Failed to copy: %v", err)
		return
	}
	m.statusMsg = fmt.Sprintf("Copied %s", truncate(text, StatusMaxWidth/2))
}

func currentSearch(f *navigator.Frame) string {
	switch v := f.View.(type) {
	case *navigator.DatabaseList:
		return v.Search
	case *navigator.CollectionList:
		return v.Search
	case *navigator.GraphList:
		return v.Search
	}
	return ""
}

// focusEditor moves the query text into the editor
func (m *Model) focusEditor() tea.Cmd {
	v, ok := m.nav.Top().View.(*navigator.QueryView)
	if !ok {
		return nil
	}
	m.editor.SetValue(v.Query)
	m.recall = nil
	m.mode = ModeEditor
	return m.editor.Focus()
}

// leaveEditor stores the edited text back into the query view
func (m *Model) leaveEditor() {
	m.nav.SetQueryText(m.editor.Value())
	m.editor.Blur()
	m.recall = nil
	m.mode = ModeNormal
}

// handleEditorKeys handles keys while the query editor has focus
func (m *Model) handleEditorKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextQueryEditor, msg.String())
	if ok {
		switch action {
		case keybinds.ActionQuitForce:
			return m.quit()

		case keybinds.ActionExecute:
			m.leaveEditor()
			m.nav.ExecuteQuery()
			return nil

		case keybinds.ActionLeaveEditor:
			m.leaveEditor()
			return nil

		case keybinds.ActionHistoryPrev:
			m.recallQuery(true)
			return nil

		case keybinds.ActionHistoryNext:
			m.recallQuery(false)
			return nil
		}
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return cmd
}

// recallQuery replaces the editor text with an older or newer stored query
func (m *Model) recallQuery(older bool) {
	if m.history == nil {
		m.errorMsg = "Query history is disabled"
		return
	}
	if m.recall == nil {
		v, ok := m.nav.Top().View.(*navigator.QueryView)
		if !ok {
			return
		}
		queries, err := m.history.Queries(v.Database, RecallLimit)
		if err != nil {
			m.logger.Warn("failed to load query history", zap.Error(err))
			m.errorMsg = "Failed to load query history"
			return
		}
		m.recall = history.NewRecall(queries, m.editor.Value())
	}

	var (
		text string
		ok   bool
	)
	if older {
		text, ok = m.recall.Prev()
	} else {
		text, ok = m.recall.Next()
	}
	if ok {
		m.editor.SetValue(text)
	}
}

// handleTextInputKeys handles the search and filter prompts
func (m *Model) handleTextInputKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextTextInput, msg.String())
	if ok {
		switch action {
		case keybinds.ActionQuitForce:
			return m.quit()

		case keybinds.ActionTextCancel:
			if m.mode == ModeSearch {
				m.nav.SetSearch(m.prevSearch)
			}
			m.input = ""
			m.mode = ModeNormal
			return nil

		case keybinds.ActionTextSubmit:
			if m.mode == ModeFilter {
				m.nav.SetResultFilter(m.input)
				if v, ok := m.nav.Top().View.(*navigator.QueryView); ok && v.FilterErr != "" {
					m.errorMsg = "Invalid filter: " + v.FilterErr
				}
			}
			m.input = ""
			m.mode = ModeNormal
			return nil
		}
	}

	if _, handled := handleTextInput(&m.input, msg); !handled {
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.input += string(msg.Runes)
		}
	}

	// search narrows the list while typing
	if m.mode == ModeSearch {
		m.nav.SetSearch(m.input)
	}
	return nil
}

// handleTextInput applies the editing keys shared by every prompt.
// Returns whether the key was consumed.
func handleTextInput(input *string, msg tea.KeyMsg) (modified bool, handled bool) {
	switch msg.String() {
	case "ctrl+v", "shift+insert", "super+v", "ctrl+y":
		if text, err := clipboard.ReadAll(); err == nil {
			*input += text
			return true, true
		}
		return false, true
	case "ctrl+k", "ctrl+u":
		if *input != "" {
			*input = ""
			return true, true
		}
		return false, true
	case "backspace":
		if r := []rune(*input); len(r) > 0 {
			*input = string(r[:len(r)-1])
			return true, true
		}
		return false, true
	}
	return false, false
}

// handleHelpKeys handles keys in the help and options overlays
func (m *Model) handleHelpKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextHelp, msg.String())
	if !ok {
		return nil
	}

	switch action {
	case keybinds.ActionQuitForce:
		return m.quit()
	case keybinds.ActionCloseModal:
		m.mode = ModeNormal
	case keybinds.ActionNavigateUp:
		m.helpView.LineUp(1)
	case keybinds.ActionNavigateDown:
		m.helpView.LineDown(1)
	}
	return nil
}
