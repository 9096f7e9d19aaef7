package tui

import "time"

// UI Layout Constants
// These constants define spacing, margins, and dimensions for the TUI layout

const (
	// Frame chrome
	HeaderLines = 2 // Server line + breadcrumb
	FooterLines = 2 // Status line + key hints
	TitleLines  = 2 // View title + blank line
	BannerLines = 2 // Error banner + blank line

	// Content Area Offsets
	ContentOffsetStandard = HeaderLines + FooterLines + TitleLines
	ContentOffsetHelp     = 4 // m.height - 4 for help viewer

	// Split View Ratios
	ListWidthRatio  = 0.4 // Document list share when a detail pane is shown
	SplitMinWidth   = 100 // Below this width the document view shows only the list
	SplitPaneBorder = 3   // Separator between list and detail

	// Query view
	EditorHeight    = 5  // Visible lines of the AQL editor
	EditorCharLimit = 0  // No limit on query length
	RecallLimit     = 50 // Queries loaded for ctrl+p/ctrl+n recall

	// Truncation
	StatusMaxWidth = 100 // Footer message length before truncation
	PreviewMaxRune = 200 // Document preview length in list rows
)

// TickInterval is how often the event loop drains finished fetches
const TickInterval = 80 * time.Millisecond
