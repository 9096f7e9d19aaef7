package tui

import (
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/studiowebux/arangotui/internal/bridge"
	"github.com/studiowebux/arangotui/internal/client"
	"github.com/studiowebux/arangotui/internal/config"
	"github.com/studiowebux/arangotui/internal/history"
	"github.com/studiowebux/arangotui/internal/keybinds"
	"github.com/studiowebux/arangotui/internal/mock"
	"github.com/studiowebux/arangotui/internal/navigator"
	"github.com/studiowebux/arangotui/internal/types"
)

// testEnv bundles a model with the live collaborators behind it
type testEnv struct {
	model   *Model
	bridge  *bridge.Bridge
	server  *mock.Server
	history *history.Manager
}

// CreateTestModel creates a Model wired to a mock cluster through a real
// client and bridge. The window is 120x40.
func CreateTestModel(t *testing.T, cluster *mock.Cluster) *testEnv {
	t.Helper()

	if cluster == nil {
		cluster = mock.DemoCluster()
	}
	srv := mock.NewServer(cluster, zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cfg := config.Default()
	cfg.Endpoint = ts.URL
	cfg.GAE = ts.URL
	cfg.Username = "root"

	c, err := client.New(cfg.ClientEndpoint(), zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	mgr, err := history.NewManager(filepath.Join(t.TempDir(), "test.db"), cfg.Endpoint)
	if err != nil {
		t.Fatalf("Failed to create history manager: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })

	b := bridge.New(c, zap.NewNop(), bridge.Options{})
	t.Cleanup(b.Close)

	m := New(Options{
		Navigator:   navigator.New(b, navigator.Options{PageSize: 50}),
		Completions: b,
		Keybinds:    keybinds.NewDefaultRegistry(),
		History:     mgr,
		Config:      cfg,
		Server:      types.ServerVersion{Server: "arango", Version: cluster.Version, License: cluster.License},
	})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	return &testEnv{model: m, bridge: b, server: srv, history: mgr}
}

// keyMsg builds the key message bubbletea delivers for a key name
func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

// press sends keys to the model and returns the last command
func (e *testEnv) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = e.model.Update(keyMsg(k))
	}
	return cmd
}

// typeText sends every rune of s as a key press
func (e *testEnv) typeText(s string) {
	for _, r := range s {
		e.press(string(r))
	}
}

// waitIdle drains completions until the bridge has nothing in flight
func (e *testEnv) waitIdle(t *testing.T) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for {
		e.run(e.model.drain())
		if e.bridge.Pending() == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("bridge still has %d pending requests", e.bridge.Pending())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// run executes cmd and feeds the resulting messages back into the model
func (e *testEnv) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			e.run(c)
		}
		return
	}
	e.model.Update(msg)
}

// top returns the frame on top of the stack
func (e *testEnv) top() *navigator.Frame {
	return e.model.nav.Top()
}

// AssertModelField asserts a field value with a descriptive message
func AssertModelField(t *testing.T, fieldName string, got, want interface{}) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}

// AssertContains asserts that the rendered text contains want
func AssertContains(t *testing.T, what, text, want string) {
	t.Helper()
	if !strings.Contains(stripANSI(text), want) {
		t.Errorf("%s does not contain %q:\n%s", what, want, stripANSI(text))
	}
}
