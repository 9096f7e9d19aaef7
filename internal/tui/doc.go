/*
Package tui implements the terminal user interface for arangotui.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: the navigator stack plus input modes and widgets
  - Update: key presses mutate the navigator, ticks drain the fetch bridge
  - View: renderFrame draws the top frame between a header and a footer

# Key Components

  - model.go: Model, Update and the completion drain
  - keys.go: Keyboard input handling and keybind routing
  - render.go: Frame, header and footer rendering
  - render_json.go: JSON formatting and syntax highlighting
  - help.go: Help and options overlays, footer hints
  - init.go: Startup checks and program construction

# Threading Model

All state is owned by the Bubble Tea goroutine. Fetches run on bridge
goroutines and only report back through Drain, which the model calls on
every tick. Keys received before a tick are therefore always applied
before the completions drained on that tick.
*/
package tui
