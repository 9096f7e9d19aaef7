package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/arangotui/internal/client"
	"github.com/studiowebux/arangotui/internal/navigator"
	"github.com/studiowebux/arangotui/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"} // Dark green / Bright green
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"} // Dark red / Bright red
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"} // Dark goldenrod / Yellow
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"} // Dark gray / Light gray
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"} // Dark cyan / Cyan
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleBanner = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#ffffff"}).
			Background(colorRed)
)

// renderContext carries everything a frame renderer needs besides the frame
type renderContext struct {
	width  int
	height int
	// spinner is the current spinner frame
	spinner string
	// editor is the rendered query editor, empty unless it has focus
	editor string
	// highlight enables JSON syntax highlighting
	highlight bool
}

// renderFrame renders the body of one frame. It reads f and rc only.
func renderFrame(f *navigator.Frame, rc renderContext) string {
	var lines []string

	lines = append(lines, styleTitle.Render(truncate(frameTitle(f), rc.width)), "")

	if f.Err != nil {
		lines = append(lines, styleBanner.Render(truncate(bannerText(f.Err), rc.width)), "")
	}

	if f.Loading {
		lines = append(lines, styleWarning.Render(rc.spinner+" Loading..."))
	}

	height := rc.height - len(lines)
	if height < 1 {
		height = 1
	}

	body := renderBody(f, rc, height)
	if f.Loading {
		body = dim(body)
	}
	lines = append(lines, body...)

	return strings.Join(lines, "\n")
}

// renderBody renders the view-specific rows of a frame
func renderBody(f *navigator.Frame, rc renderContext, height int) []string {
	switch v := f.View.(type) {
	case *navigator.MainMenu:
		return renderMenu(f, rc.width)
	case *navigator.DatabaseList:
		return renderDatabases(f, v, rc.width, height)
	case *navigator.CollectionList:
		return renderCollections(f, v, rc.width, height)
	case *navigator.CollectionProperties:
		return renderText(f, v.Lines, rc, height)
	case *navigator.CollectionContent:
		return renderDocuments(f, v, rc, height)
	case *navigator.QueryView:
		return renderQuery(f, v, rc, height)
	case *navigator.GraphList:
		return renderGraphs(f, v, rc.width, height)
	case *navigator.GraphDetail:
		return renderText(f, v.Lines, rc, height)
	default:
		panic(fmt.Sprintf("renderBody: unhandled view %T", f.View))
	}
}

// frameTitle adds counts to the view title
func frameTitle(f *navigator.Frame) string {
	switch v := f.View.(type) {
	case *navigator.DatabaseList:
		if len(v.Databases) > 0 {
			return fmt.Sprintf("%s (%d)", v.Title(), len(v.Databases))
		}
	case *navigator.CollectionList:
		if len(v.Collections) > 0 {
			return fmt.Sprintf("%s: %d collections, %d documents", v.Title(), len(v.Collections), v.TotalDocuments())
		}
	case *navigator.CollectionContent:
		if v.Total >= 0 {
			return fmt.Sprintf("%s %d/%d loaded", v.Title(), len(v.Documents), v.Total)
		}
		return fmt.Sprintf("%s %d loaded", v.Title(), len(v.Documents))
	case *navigator.GraphList:
		if len(v.Graphs) > 0 {
			return fmt.Sprintf("%s (%d)", v.Title(), len(v.Graphs))
		}
	}
	return f.View.Title()
}

func bannerText(err *client.Error) string {
	return fmt.Sprintf(" %s: %s  (x dismiss, r retry) ", err.Kind, err.Message)
}

// window returns the first row to draw so that the cursor is visible
func window(f *navigator.Frame, count, height int) int {
	start := f.Offset
	if f.Cursor >= start+height {
		start = f.Cursor - height + 1
	}
	if f.Cursor < start {
		start = f.Cursor
	}
	if start > count-height {
		start = count - height
	}
	if start < 0 {
		start = 0
	}
	return start
}

// renderRows draws rows[start:start+height], marking the cursor row
func renderRows(f *navigator.Frame, count, height, width int, row func(i int) string) []string {
	var lines []string
	start := window(f, count, height)
	for i := start; i < count && i < start+height; i++ {
		text := truncate(row(i), width-2)
		if i == f.Cursor {
			lines = append(lines, styleSelected.Render("> "+text))
		} else {
			lines = append(lines, "  "+text)
		}
	}
	return lines
}

func renderMenu(f *navigator.Frame, width int) []string {
	items := navigator.MenuItems
	return renderRows(f, len(items), len(items), width, func(i int) string {
		return items[i].Label()
	})
}

func searchLine(pattern string, shown, total int) string {
	return styleWarning.Render(fmt.Sprintf("/%s  (%d of %d)", pattern, shown, total))
}

func renderDatabases(f *navigator.Frame, v *navigator.DatabaseList, width, height int) []string {
	var lines []string
	if v.Search != "" {
		lines = append(lines, searchLine(v.Search, len(v.Visible), len(v.Databases)))
		height--
	}
	if len(v.Visible) == 0 {
		if f.Loading {
			return lines
		}
		return append(lines, styleSubtle.Render("No databases"))
	}

	lines = append(lines, styleSubtle.Render(truncate(fmt.Sprintf("  %-32s %6s %6s %6s", "NAME", "DOCS", "EDGES", "SYSTEM"), width)))
	rows := renderRows(f, len(v.Visible), height-1, width, func(i int) string {
		db := v.Databases[v.Visible[i]]
		if !db.Accessible {
			return fmt.Sprintf("%-32s %s", db.Name, "NO ACCESS")
		}
		return fmt.Sprintf("%-32s %6d %6d %6d", db.Name, db.DocCollections, db.EdgeCollections, db.SystemCollections)
	})
	return append(lines, rows...)
}

func renderCollections(f *navigator.Frame, v *navigator.CollectionList, width, height int) []string {
	var lines []string
	if v.Search != "" {
		lines = append(lines, searchLine(v.Search, len(v.Visible), len(v.Collections)))
		height--
	}
	if len(v.Visible) == 0 {
		if f.Loading {
			return lines
		}
		return append(lines, styleSubtle.Render("No collections"))
	}

	lines = append(lines, styleSubtle.Render(truncate(fmt.Sprintf("  %-32s %-9s %10s", "NAME", "KIND", "COUNT"), width)))
	rows := renderRows(f, len(v.Visible), height-1, width, func(i int) string {
		c := v.Collections[v.Visible[i]]
		name := c.Name
		if c.IsSystem {
			name += " (system)"
		}
		return fmt.Sprintf("%-32s %-9s %10s", name, c.Kind, c.CountLabel())
	})
	return append(lines, rows...)
}

func renderGraphs(f *navigator.Frame, v *navigator.GraphList, width, height int) []string {
	var lines []string
	if v.Search != "" {
		lines = append(lines, searchLine(v.Search, len(v.Visible), len(v.Graphs)))
		height--
	}
	if len(v.Visible) == 0 {
		if f.Loading {
			return lines
		}
		return append(lines, styleSubtle.Render("No graphs"))
	}

	lines = append(lines, styleSubtle.Render(truncate(fmt.Sprintf("  %-32s %6s %8s  %s", "NAME", "EDGES", "ORPHANS", "FLAGS"), width)))
	rows := renderRows(f, len(v.Visible), height-1, width, func(i int) string {
		g := v.Graphs[v.Visible[i]]
		return fmt.Sprintf("%-32s %6d %8d  %s", g.Name, len(g.EdgeDefinitions), len(g.OrphanCollections), graphFlags(g))
	})
	return append(lines, rows...)
}

func graphFlags(g types.GraphSummary) string {
	var flags []string
	if g.IsSmart {
		flags = append(flags, "smart")
	}
	if g.IsSatellite {
		flags = append(flags, "satellite")
	}
	return strings.Join(flags, ",")
}

// renderText draws a scrollable block of JSON lines. The cursor is the
// first visible line.
func renderText(f *navigator.Frame, text []string, rc renderContext, height int) []string {
	if len(text) == 0 {
		return nil
	}
	start := f.Cursor
	if start > len(text)-height {
		start = len(text) - height
	}
	if start < 0 {
		start = 0
	}
	end := start + height
	if end > len(text) {
		end = len(text)
	}

	visible := make([]string, 0, end-start)
	for _, line := range text[start:end] {
		visible = append(visible, truncate(line, rc.width))
	}
	if rc.highlight && !f.Loading {
		return highlightJSON(visible)
	}
	return visible
}

func renderDocuments(f *navigator.Frame, v *navigator.CollectionContent, rc renderContext, height int) []string {
	count := v.Count()
	if count == 0 {
		if f.Loading {
			return nil
		}
		return []string{styleSubtle.Render("No documents")}
	}

	listWidth := rc.width
	split := rc.width >= SplitMinWidth
	if split {
		listWidth = int(float64(rc.width) * ListWidthRatio)
	}

	list := renderRows(f, count, height, listWidth, func(i int) string {
		if i >= len(v.Documents) {
			return fmt.Sprintf("%6d  ...", i+1)
		}
		doc := v.Documents[i]
		return fmt.Sprintf("%6d  %-20s %s", i+1, doc.Key, preview(doc.Raw))
	})

	if !split {
		return list
	}

	var detail []string
	if doc := navigator.SelectedDocument(f); doc != nil {
		detailWidth := rc.width - listWidth - SplitPaneBorder
		pretty := prettyJSON(doc.Raw)
		if len(pretty) > height {
			pretty = pretty[:height]
		}
		for i := range pretty {
			pretty[i] = truncate(pretty[i], detailWidth)
		}
		if rc.highlight && !f.Loading {
			pretty = highlightJSON(pretty)
		}
		detail = pretty
	}

	left := lipgloss.NewStyle().Width(listWidth).Render(strings.Join(list, "\n"))
	right := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(colorGray).
		PaddingLeft(1).
		Render(strings.Join(detail, "\n"))
	return strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, left, right), "\n")
}

func renderQuery(f *navigator.Frame, v *navigator.QueryView, rc renderContext, height int) []string {
	var lines []string

	if rc.editor != "" {
		lines = append(lines, strings.Split(rc.editor, "\n")...)
	} else if strings.TrimSpace(v.Query) == "" {
		lines = append(lines, styleSubtle.Render("(empty query, press i to edit)"))
	} else {
		for _, l := range strings.Split(v.Query, "\n") {
			lines = append(lines, truncate(l, rc.width))
		}
	}
	lines = append(lines, "")

	lines = append(lines, executionLine(v.Execution, rc))
	for _, w := range warnings(v.Execution) {
		lines = append(lines, styleWarning.Render(truncate("warning "+w, rc.width)))
	}

	if v.Filter != "" {
		line := "filter: " + v.Filter
		if v.FilterErr != "" {
			lines = append(lines, styleError.Render(truncate(line+"  ("+v.FilterErr+")", rc.width)))
		} else {
			lines = append(lines, styleWarning.Render(truncate(fmt.Sprintf("%s  (%d rows)", line, len(v.Rows)), rc.width)))
		}
	}
	lines = append(lines, "")

	remaining := height - len(lines)
	if remaining < 1 || len(v.Rows) == 0 {
		return lines
	}

	rows := renderRows(f, len(v.Rows), remaining, rc.width, func(i int) string {
		return preview(v.Rows[i])
	})
	return append(lines, rows...)
}

func executionLine(e navigator.Execution, rc renderContext) string {
	switch e.State {
	case navigator.ExecRunning:
		return styleWarning.Render(rc.spinner + " Running...")
	case navigator.ExecSucceeded:
		r := e.Result
		text := fmt.Sprintf("%d rows in %s", r.Count, types.FormatDuration(r.ExecutionTime.Milliseconds()))
		if r.Truncated {
			text += fmt.Sprintf(" (truncated to %d)", len(r.Rows))
		}
		return styleSuccess.Render(text)
	case navigator.ExecFailed:
		msg := "query failed"
		if e.Err != nil {
			msg = e.Err.Message
		}
		return styleError.Render(truncate(msg, rc.width))
	default:
		return styleSubtle.Render("ctrl+r to execute")
	}
}

func warnings(e navigator.Execution) []string {
	if e.State != navigator.ExecSucceeded || e.Result == nil {
		return nil
	}
	return e.Result.Warnings
}

// dim renders lines in the subtle style, dropping existing styling
func dim(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = styleSubtle.Render(stripANSI(l))
	}
	return out
}

// truncate shortens s to width runes, marking the cut with an ellipsis
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// renderHeader renders the server line and the breadcrumb
func renderHeader(h headerInfo, breadcrumb []string, width int) string {
	server := "ArangoDB"
	if h.server.Version != "" {
		server = fmt.Sprintf("ArangoDB %s", h.server.Version)
		if h.server.License != "" {
			server += " (" + h.server.License + ")"
		}
	}

	gae := styleError.Render("GAE: Not connected")
	if h.gae != nil {
		gae = styleSuccess.Render("GAE: " + h.gae.Version)
	}

	left := styleTitle.Render(server) + "  " + gae
	right := styleSubtle.Render(fmt.Sprintf("%s@%s", h.username, h.endpoint))
	spacing := width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}

	crumb := styleSubtle.Render(truncate(strings.Join(breadcrumb, " > "), width))
	return left + strings.Repeat(" ", spacing) + right + "\n" + crumb
}

// renderFooter renders the status line and the key hints
func renderFooter(status, errText, hints string, width int) string {
	var line string
	switch {
	case errText != "":
		line = styleError.Render(truncate(errText, width))
	case status != "":
		line = styleSuccess.Render(truncate(status, width))
	}
	return line + "\n" + styleSubtle.Render(truncate(hints, width))
}

// fitLines pads or cuts s to exactly height lines
func fitLines(s string, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
