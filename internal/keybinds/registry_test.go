package keybinds

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMatch_Inheritance(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		name    string
		context Context
		key     string
		want    Action
		found   bool
	}{
		{"view inherits viewer", ContextDocuments, "j", ActionNavigateDown, true},
		{"view inherits global", ContextDocuments, "ctrl+c", ActionQuitForce, true},
		{"view specific", ContextCollections, "d", ActionOpenDocuments, true},
		{"menu overrides viewer", ContextMenu, "q", ActionQuit, true},
		{"other views go back", ContextGraphs, "q", ActionBack, true},
		{"editor does not inherit viewer", ContextQueryEditor, "j", "", false},
		{"editor reaches global", ContextQueryEditor, "ctrl+c", ActionQuitForce, true},
		{"text input submit", ContextTextInput, "enter", ActionTextSubmit, true},
		{"unknown key", ContextDocuments, "F", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Match(tt.context, tt.key)
			if ok != tt.found || got != tt.want {
				t.Errorf("Match(%s, %q) = %q, %v; want %q, %v", tt.context, tt.key, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestMatchMultiKey(t *testing.T) {
	r := NewDefaultRegistry()

	if _, complete, partial := r.MatchMultiKey(ContextDocuments, "g"); complete || !partial {
		t.Fatalf("first g: complete=%v partial=%v, want partial", complete, partial)
	}
	action, complete, _ := r.MatchMultiKey(ContextDocuments, "g")
	if !complete || action != ActionGoToTop {
		t.Fatalf("second g: action=%q complete=%v", action, complete)
	}

	// A broken sequence does not match and clears the state
	r.MatchMultiKey(ContextDocuments, "g")
	if _, complete, _ := r.MatchMultiKey(ContextDocuments, "j"); complete {
		t.Error("gj should not match")
	}
	action, complete, _ = r.MatchMultiKey(ContextDocuments, "j")
	if !complete || action != ActionNavigateDown {
		t.Errorf("j after broken sequence: action=%q complete=%v", action, complete)
	}

	// g is an ordinary key in the editor
	if _, complete, partial := r.MatchMultiKey(ContextQueryEditor, "g"); complete || partial {
		t.Error("g in the editor should neither match nor start a sequence")
	}
}

func TestClearMultiKeyState(t *testing.T) {
	r := NewDefaultRegistry()
	r.MatchMultiKey(ContextQuery, "g")
	r.ClearMultiKeyState(ContextQuery)

	action, complete, _ := r.MatchMultiKey(ContextQuery, "G")
	if !complete || action != ActionGoToBottom {
		t.Errorf("G after clear: action=%q complete=%v", action, complete)
	}
}

func TestGetBinding(t *testing.T) {
	r := NewDefaultRegistry()

	if got := r.GetBinding(ContextDocuments, ActionNavigateDown); !reflect.DeepEqual(got, []string{"down", "j"}) {
		t.Errorf("navigate_down = %v", got)
	}

	// The menu rebinds q and esc, so only backspace still goes back
	if got := r.GetBinding(ContextMenu, ActionBack); !reflect.DeepEqual(got, []string{"backspace"}) {
		t.Errorf("menu back = %v", got)
	}

	if got := r.GetBindingString(ContextQueryEditor, ActionOpenSearch); got != "unbound" {
		t.Errorf("editor search = %q, want unbound", got)
	}

	if got := r.GetBindingString(ContextQuery, ActionExecute); got != "ctrl+e, ctrl+r" {
		t.Errorf("execute = %q", got)
	}
}

func TestListBindings_OmitsShadowed(t *testing.T) {
	r := NewDefaultRegistry()

	seen := make(map[string]Context)
	for _, b := range r.ListBindings(ContextMenu) {
		if prev, dup := seen[b.Key]; dup {
			t.Fatalf("key %q listed twice (%s, %s)", b.Key, prev, b.Context)
		}
		seen[b.Key] = b.Context
	}

	if seen["q"] != ContextMenu {
		t.Errorf("q should come from the menu context, got %q", seen["q"])
	}
	if seen["j"] != ContextViewer {
		t.Errorf("j should come from the viewer context, got %q", seen["j"])
	}
	if seen["?"] != ContextGlobal {
		t.Errorf("? should come from the global context, got %q", seen["?"])
	}
}

func TestSetParent_IgnoresCycles(t *testing.T) {
	r := NewRegistry()
	r.SetParent(ContextViewer, ContextDocuments)
	r.SetParent(ContextDocuments, ContextViewer)
	r.SetParent(ContextGlobal, ContextViewer)
	r.Register(ContextGlobal, "?", ActionOpenHelp)

	if action, ok := r.Match(ContextDocuments, "?"); !ok || action != ActionOpenHelp {
		t.Errorf("Match through a cycle = %q, %v", action, ok)
	}
}

func TestCloneAndMerge(t *testing.T) {
	base := NewDefaultRegistry()
	clone := base.Clone()
	clone.Register(ContextViewer, "l", ActionSelect)

	if base.HasBinding(ContextDocuments, "l") {
		t.Error("Clone should not share bindings")
	}
	if !clone.HasBinding(ContextDocuments, "l") {
		t.Error("Clone should keep parents")
	}

	base.Merge(clone)
	if action, _ := base.Match(ContextDocuments, "l"); action != ActionSelect {
		t.Errorf("Merge did not apply, got %q", action)
	}
}

func TestApplyConfig_OverridesAndUnbinds(t *testing.T) {
	r := NewDefaultRegistry()
	err := ApplyConfig(r, &Config{
		Viewer:      map[string]string{"l": "select"},
		QueryEditor: map[string]string{"ctrl+e": ""},
		Custom:      map[string]map[string]string{"documents": {"p": "copy_to_clipboard"}},
	})
	if err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}

	if action, _ := r.Match(ContextGraph, "l"); action != ActionSelect {
		t.Errorf("viewer override not inherited, got %q", action)
	}
	if r.HasBinding(ContextQueryEditor, "ctrl+e") {
		t.Error("ctrl+e should be unbound in the editor")
	}
	if action, _ := r.Match(ContextDocuments, "p"); action != ActionCopyToClipboard {
		t.Errorf("custom section not applied, got %q", action)
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keybinds.json")

	r, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("missing file should load defaults: %v", err)
	}
	if !r.HasBinding(ContextDocuments, "j") {
		t.Error("defaults not loaded")
	}

	content := `{
  // jump with h/l
  "viewer": {"l": "select", "h": "back",},
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	r, err = LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if action, _ := r.Match(ContextCollections, "h"); action != ActionBack {
		t.Errorf("h = %q, want back", action)
	}

	if err := os.WriteFile(path, []byte(`{"viewer": [`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrDefault(path); err == nil {
		t.Error("expected an error for malformed keybinds.json")
	}
}

func TestCreateExampleConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "keybinds.json")
	if err := CreateExampleConfig(path); err != nil {
		t.Fatalf("CreateExampleConfig: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if config.Viewer["j"] != string(ActionNavigateDown) {
		t.Errorf("viewer j = %q", config.Viewer["j"])
	}
	if config.Menu["q"] != string(ActionQuit) {
		t.Errorf("menu q = %q", config.Menu["q"])
	}
	if config.Global["ctrl+c"] != string(ActionQuitForce) {
		t.Errorf("global ctrl+c = %q", config.Global["ctrl+c"])
	}
}
