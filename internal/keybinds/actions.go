package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	// Contexts define where keybindings are active
	ContextGlobal      Context = "global"       // Available everywhere
	ContextViewer      Context = "viewer"       // Shared by every view (navigation)
	ContextMenu        Context = "menu"         // Main menu
	ContextDatabases   Context = "databases"    // Database list
	ContextCollections Context = "collections"  // Collection list
	ContextProperties  Context = "properties"   // Collection properties
	ContextDocuments   Context = "documents"    // Collection documents
	ContextQuery       Context = "query"        // Query results
	ContextQueryEditor Context = "query_editor" // Query text editor
	ContextGraphs      Context = "graphs"       // Graph list
	ContextGraph       Context = "graph"        // Graph detail
	ContextTextInput   Context = "text_input"   // Search and filter prompts
	ContextHelp        Context = "help"         // Help viewer
)

// ViewContexts lists the contexts that inherit the viewer bindings
var ViewContexts = []Context{
	ContextMenu,
	ContextDatabases,
	ContextCollections,
	ContextProperties,
	ContextDocuments,
	ContextQuery,
	ContextGraphs,
	ContextGraph,
}

const (
	// Global actions
	ActionQuit      Action = "quit"       // Quit application
	ActionQuitForce Action = "quit_force" // Force quit (ctrl+c)

	// Navigation actions
	ActionNavigateUp     Action = "navigate_up"       // Move up one item
	ActionNavigateDown   Action = "navigate_down"     // Move down one item
	ActionPageUp         Action = "page_up"           // Move up one page
	ActionPageDown       Action = "page_down"         // Move down one page
	ActionHalfPageUp     Action = "half_page_up"      // Move up half page (ctrl+u)
	ActionHalfPageDown   Action = "half_page_down"    // Move down half page (ctrl+d)
	ActionGoToTop        Action = "go_to_top"         // Go to top
	ActionGoToBottom     Action = "go_to_bottom"      // Go to bottom
	ActionGoToTopPrepare Action = "go_to_top_prepare" // First 'g' in 'gg' sequence
	ActionSelect         Action = "select"            // Open the selected row
	ActionBack           Action = "back"              // Leave the current view

	// View actions
	ActionRefresh         Action = "refresh"           // Refetch the current view
	ActionOpenSearch      Action = "open_search"       // Fuzzy search the list
	ActionDismissError    Action = "dismiss_error"     // Dismiss the error banner
	ActionCopyToClipboard Action = "copy_to_clipboard" // Copy the selection
	ActionOpenHelp        Action = "open_help"         // Open help viewer
	ActionOpenDocuments   Action = "open_documents"    // Browse collection documents
	ActionOpenQuery       Action = "open_query"        // Open the AQL query view
	ActionOpenGraphs      Action = "open_graphs"       // Open the graph list

	// Query actions
	ActionExecute       Action = "execute"        // Execute the query
	ActionFocusEditor   Action = "focus_editor"   // Focus the query editor
	ActionLeaveEditor   Action = "leave_editor"   // Leave the query editor
	ActionFilterResults Action = "filter_results" // Filter results with JMESPath
	ActionHistoryPrev   Action = "history_prev"   // Recall an older query
	ActionHistoryNext   Action = "history_next"   // Recall a newer query

	// Text input actions
	ActionTextSubmit Action = "text_submit" // Submit text input
	ActionTextCancel Action = "text_cancel" // Cancel text input

	// Modal actions
	ActionCloseModal Action = "close_modal" // Close current modal

	// Other actions
	ActionNoOp Action = "noop" // No operation (ignore key)
)

// ActionInfo contains metadata about an action
type ActionInfo struct {
	Action      Action
	Description string
	Category    string
}

// GetActionInfo returns human-readable information about an action
func GetActionInfo(action Action) ActionInfo {
	infos := map[Action]ActionInfo{
		ActionQuit:            {ActionQuit, "Quit application", "Global"},
		ActionQuitForce:       {ActionQuitForce, "Force quit", "Global"},
		ActionNavigateUp:      {ActionNavigateUp, "Move up", "Navigation"},
		ActionNavigateDown:    {ActionNavigateDown, "Move down", "Navigation"},
		ActionPageUp:          {ActionPageUp, "Page up", "Navigation"},
		ActionPageDown:        {ActionPageDown, "Page down", "Navigation"},
		ActionHalfPageUp:      {ActionHalfPageUp, "Half page up", "Navigation"},
		ActionHalfPageDown:    {ActionHalfPageDown, "Half page down", "Navigation"},
		ActionGoToTop:         {ActionGoToTop, "Go to top", "Navigation"},
		ActionGoToBottom:      {ActionGoToBottom, "Go to bottom", "Navigation"},
		ActionSelect:          {ActionSelect, "Open selection", "Navigation"},
		ActionBack:            {ActionBack, "Back", "Navigation"},
		ActionRefresh:         {ActionRefresh, "Refresh", "View"},
		ActionOpenSearch:      {ActionOpenSearch, "Search", "View"},
		ActionDismissError:    {ActionDismissError, "Dismiss error", "View"},
		ActionCopyToClipboard: {ActionCopyToClipboard, "Copy to clipboard", "View"},
		ActionOpenHelp:        {ActionOpenHelp, "Help", "Information"},
		ActionOpenDocuments:   {ActionOpenDocuments, "Browse documents", "Views"},
		ActionOpenQuery:       {ActionOpenQuery, "AQL query", "Views"},
		ActionOpenGraphs:      {ActionOpenGraphs, "Graphs", "Views"},
		ActionExecute:         {ActionExecute, "Execute query", "Query"},
		ActionFocusEditor:     {ActionFocusEditor, "Edit query", "Query"},
		ActionLeaveEditor:     {ActionLeaveEditor, "Leave editor", "Query"},
		ActionFilterResults:   {ActionFilterResults, "Filter results (JMESPath)", "Query"},
		ActionHistoryPrev:     {ActionHistoryPrev, "Previous query", "Query"},
		ActionHistoryNext:     {ActionHistoryNext, "Next query", "Query"},
		ActionCloseModal:      {ActionCloseModal, "Close", "Modal"},
	}

	if info, ok := infos[action]; ok {
		return info
	}

	return ActionInfo{action, string(action), "Unknown"}
}

// IsGlobalAction returns true if the action is available in all contexts
func IsGlobalAction(action Action) bool {
	globalActions := map[Action]bool{
		ActionQuitForce: true,
		ActionOpenHelp:  true,
	}
	return globalActions[action]
}
