package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	for _, ctx := range ViewContexts {
		r.SetParent(ctx, ContextViewer)
	}

	registerGlobalBindings(r)
	registerNavigationBindings(r)
	registerListBindings(r)
	registerQueryBindings(r)
	registerTextInputBindings(r)
	registerHelpBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in all modes
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
	r.Register(ContextGlobal, "?", ActionOpenHelp)
}

// registerNavigationBindings sets up common navigation bindings for views
func registerNavigationBindings(r *Registry) {
	r.RegisterMultiple(ContextViewer, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextViewer, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextViewer, "pgup", ActionPageUp)
	r.Register(ContextViewer, "pgdown", ActionPageDown)
	r.Register(ContextViewer, "ctrl+u", ActionHalfPageUp)
	r.Register(ContextViewer, "ctrl+d", ActionHalfPageDown)
	r.Register(ContextViewer, "g", ActionGoToTopPrepare)
	r.Register(ContextViewer, "gg", ActionGoToTop)
	r.Register(ContextViewer, "G", ActionGoToBottom)
	r.Register(ContextViewer, "home", ActionGoToTop)
	r.Register(ContextViewer, "end", ActionGoToBottom)
	r.Register(ContextViewer, "enter", ActionSelect)
	r.RegisterMultiple(ContextViewer, []string{"esc", "q", "backspace"}, ActionBack)
	r.Register(ContextViewer, "r", ActionRefresh)
	r.Register(ContextViewer, "x", ActionDismissError)
	r.Register(ContextViewer, "y", ActionCopyToClipboard)

	// The menu quits instead of going back
	r.RegisterMultiple(ContextMenu, []string{"q", "esc"}, ActionQuit)
}

// registerListBindings sets up the per-view shortcuts
func registerListBindings(r *Registry) {
	r.Register(ContextDatabases, "/", ActionOpenSearch)
	r.Register(ContextDatabases, "a", ActionOpenQuery)
	r.Register(ContextDatabases, "v", ActionOpenGraphs)

	r.Register(ContextCollections, "/", ActionOpenSearch)
	r.Register(ContextCollections, "d", ActionOpenDocuments)
	r.Register(ContextCollections, "a", ActionOpenQuery)
	r.Register(ContextCollections, "v", ActionOpenGraphs)

	r.Register(ContextProperties, "d", ActionOpenDocuments)
	r.Register(ContextDocuments, "a", ActionOpenQuery)

	r.Register(ContextGraphs, "/", ActionOpenSearch)
	r.Register(ContextGraphs, "a", ActionOpenQuery)
}

// registerQueryBindings sets up the query view and its editor
func registerQueryBindings(r *Registry) {
	r.RegisterMultiple(ContextQuery, []string{"ctrl+r", "ctrl+e"}, ActionExecute)
	r.RegisterMultiple(ContextQuery, []string{"i", "e"}, ActionFocusEditor)
	r.Register(ContextQuery, "f", ActionFilterResults)

	r.RegisterMultiple(ContextQueryEditor, []string{"ctrl+r", "ctrl+e"}, ActionExecute)
	r.Register(ContextQueryEditor, "esc", ActionLeaveEditor)
	r.Register(ContextQueryEditor, "ctrl+p", ActionHistoryPrev)
	r.Register(ContextQueryEditor, "ctrl+n", ActionHistoryNext)
}

// registerTextInputBindings sets up the search and filter prompts
func registerTextInputBindings(r *Registry) {
	r.Register(ContextTextInput, "enter", ActionTextSubmit)
	r.Register(ContextTextInput, "esc", ActionTextCancel)
}

// registerHelpBindings sets up keybindings for help viewer
func registerHelpBindings(r *Registry) {
	r.RegisterMultiple(ContextHelp, []string{"esc", "?", "q"}, ActionCloseModal)
	r.RegisterMultiple(ContextHelp, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextHelp, []string{"down", "j"}, ActionNavigateDown)
}
