package tui

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/studiowebux/arangotui/internal/keybinds"
)

// hintActions are the actions advertised in the footer, in order
var hintActions = []keybinds.Action{
	keybinds.ActionSelect,
	keybinds.ActionBack,
	keybinds.ActionQuit,
	keybinds.ActionOpenSearch,
	keybinds.ActionOpenDocuments,
	keybinds.ActionOpenQuery,
	keybinds.ActionOpenGraphs,
	keybinds.ActionFocusEditor,
	keybinds.ActionExecute,
	keybinds.ActionFilterResults,
	keybinds.ActionRefresh,
	keybinds.ActionOpenHelp,
}

// footerHints describes the keys of the current context
func (m *Model) footerHints() string {
	switch m.mode {
	case ModeSearch:
		return "/" + m.input + "_"
	case ModeFilter:
		return "filter: " + m.input + "_"
	}

	ctx := m.context()
	var parts []string
	for _, action := range hintActions {
		keys := m.keybinds.GetBinding(ctx, action)
		if len(keys) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", keys[0], strings.ToLower(keybinds.GetActionInfo(action).Description)))
	}
	if m.mode == ModeEditor {
		for _, action := range []keybinds.Action{keybinds.ActionLeaveEditor, keybinds.ActionHistoryPrev, keybinds.ActionHistoryNext} {
			if keys := m.keybinds.GetBinding(ctx, action); len(keys) > 0 {
				parts = append(parts, fmt.Sprintf("%s %s", keys[0], strings.ToLower(keybinds.GetActionInfo(action).Description)))
			}
		}
	}
	return strings.Join(parts, "  ")
}

// openHelp shows the bindings of the context the user is in
func (m *Model) openHelp() {
	m.helpFor = m.context()
	m.mode = ModeHelp
	m.refreshOverlay()
	m.helpView.GotoTop()
}

// openOptions shows the effective configuration
func (m *Model) openOptions() {
	m.mode = ModeOptions
	m.refreshOverlay()
	m.helpView.GotoTop()
}

func (m *Model) refreshOverlay() {
	switch m.mode {
	case ModeHelp:
		m.helpView.SetContent(helpContent(m.keybinds, m.helpFor))
	case ModeOptions:
		m.helpView.SetContent(m.optionsContent())
	}
}

// helpContent lists the effective bindings of ctx grouped by category
func helpContent(r *keybinds.Registry, ctx keybinds.Context) string {
	byAction := make(map[keybinds.Action][]string)
	var order []keybinds.Action
	for _, b := range r.ListBindings(ctx) {
		if b.Action == keybinds.ActionGoToTopPrepare || b.Action == keybinds.ActionNoOp {
			continue
		}
		if _, seen := byAction[b.Action]; !seen {
			order = append(order, b.Action)
		}
		byAction[b.Action] = append(byAction[b.Action], b.Key)
	}

	categories := make(map[string][]string)
	var categoryOrder []string
	for _, action := range order {
		info := keybinds.GetActionInfo(action)
		if _, ok := categories[info.Category]; !ok {
			categoryOrder = append(categoryOrder, info.Category)
		}
		line := fmt.Sprintf("  %-24s %s", strings.Join(byAction[action], ", "), info.Description)
		categories[info.Category] = append(categories[info.Category], line)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Keys for %s\n", ctx)
	for _, cat := range categoryOrder {
		b.WriteString("\n" + styleTitle.Render(cat) + "\n")
		for _, line := range categories[cat] {
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func (m *Model) optionsContent() string {
	data, err := yaml.Marshal(m.cfg.Redacted())
	if err != nil {
		return styleError.Render(fmt.Sprintf("Failed to render configuration: %v", err))
	}
	return "Effective configuration\n\n" + string(data)
}

// renderOverlay renders the help or options viewport full screen
func (m *Model) renderOverlay() string {
	title := "Help"
	if m.mode == ModeOptions {
		title = "Options"
	}
	closeKeys := m.keybinds.GetBindingString(keybinds.ContextHelp, keybinds.ActionCloseModal)
	footer := styleSubtle.Render(truncate(fmt.Sprintf("%s close  up/down scroll", closeKeys), m.width))
	return styleTitle.Render(title) + "\n\n" + m.helpView.View() + "\n\n" + footer
}
