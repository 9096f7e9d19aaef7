package tui

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/studiowebux/arangotui/internal/client"
	"github.com/studiowebux/arangotui/internal/history"
	"github.com/studiowebux/arangotui/internal/mock"
	"github.com/studiowebux/arangotui/internal/navigator"
	"github.com/studiowebux/arangotui/internal/types"
)

func TestNew_StartsOnMainMenu(t *testing.T) {
	e := CreateTestModel(t, nil)

	AssertModelField(t, "mode", e.model.mode, ModeNormal)
	AssertModelField(t, "depth", e.model.nav.Depth(), 1)
	AssertModelField(t, "top kind", e.top().View.Kind(), navigator.KindMainMenu)

	view := e.model.View()
	AssertContains(t, "view", view, "Browse databases")
	AssertContains(t, "view", view, "ArangoDB 3.12.4 (community)")
	AssertContains(t, "view", view, "GAE: Not connected")
}

func TestView_FillsTerminalHeight(t *testing.T) {
	e := CreateTestModel(t, nil)

	lines := strings.Split(e.model.View(), "\n")
	AssertModelField(t, "line count", len(lines), 40)
}

func TestBrowse_DatabasesAndCollections(t *testing.T) {
	e := CreateTestModel(t, nil)

	e.press("enter")
	if !e.top().Loading {
		t.Error("database list should be loading right after enter")
	}
	AssertContains(t, "loading view", e.model.View(), "Loading...")

	e.waitIdle(t)
	dbs, ok := e.top().View.(*navigator.DatabaseList)
	if !ok {
		t.Fatalf("top view = %T, want *navigator.DatabaseList", e.top().View)
	}
	AssertModelField(t, "database count", len(dbs.Databases), 4)
	AssertContains(t, "view", e.model.View(), "Databases (4)")

	e.press("j", "enter")
	e.waitIdle(t)
	cols, ok := e.top().View.(*navigator.CollectionList)
	if !ok {
		t.Fatalf("top view = %T, want *navigator.CollectionList", e.top().View)
	}
	AssertModelField(t, "database", cols.Database, "shop")
	AssertModelField(t, "collection count", len(cols.Collections), 4)
	AssertContains(t, "view", e.model.View(), "shop: 4 collections, 410 documents")
	AssertContains(t, "breadcrumb", e.model.View(), "Main Menu > Databases > shop")

	// properties of the first collection
	e.press("enter")
	e.waitIdle(t)
	props, ok := e.top().View.(*navigator.CollectionProperties)
	if !ok {
		t.Fatalf("top view = %T, want *navigator.CollectionProperties", e.top().View)
	}
	AssertModelField(t, "collection", props.Collection, "customers")
	AssertContains(t, "view", e.model.View(), `"name": "customers"`)

	e.press("esc", "esc")
	AssertModelField(t, "depth after back", e.model.nav.Depth(), 2)
}

func TestBack_AtRootQuits(t *testing.T) {
	e := CreateTestModel(t, nil)

	cmd := e.press("q")
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	AssertModelField(t, "view after quit", e.model.View(), "")
}

func TestQuitForce_FromEveryMode(t *testing.T) {
	for _, mode := range []Mode{ModeNormal, ModeSearch, ModeFilter, ModeEditor, ModeHelp, ModeOptions} {
		e := CreateTestModel(t, nil)
		e.model.mode = mode

		cmd := e.press("ctrl+c")
		if cmd == nil {
			t.Fatalf("mode %d: expected a quit command", mode)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("mode %d: expected tea.QuitMsg", mode)
		}
	}
}

func TestDocuments_PaginateToEnd(t *testing.T) {
	e := CreateTestModel(t, nil)

	e.press("enter")
	e.waitIdle(t)
	e.press("j", "enter")
	e.waitIdle(t)
	e.press("d")
	e.waitIdle(t)

	content, ok := e.top().View.(*navigator.CollectionContent)
	if !ok {
		t.Fatalf("top view = %T, want *navigator.CollectionContent", e.top().View)
	}
	AssertModelField(t, "first page", len(content.Documents), 50)
	AssertModelField(t, "total", content.Total, int64(250))

	e.press("G")
	AssertModelField(t, "cursor", e.top().Cursor, 249)
	AssertContains(t, "placeholder", e.model.View(), "250  ...")

	e.waitIdle(t)
	AssertModelField(t, "loaded", len(content.Documents), 250)
	AssertModelField(t, "next offset", content.NextOffset, 250)

	seen := make(map[string]bool)
	for _, d := range content.Documents {
		if seen[d.Key] {
			t.Fatalf("duplicate document %s", d.Key)
		}
		seen[d.Key] = true
	}
	AssertContains(t, "detail pane", e.model.View(), `"_key": "00250"`)
}

func TestSearch_NarrowsAndRestores(t *testing.T) {
	e := CreateTestModel(t, nil)
	e.press("enter")
	e.waitIdle(t)
	dbs := e.top().View.(*navigator.DatabaseList)

	e.press("/")
	AssertModelField(t, "mode", e.model.mode, ModeSearch)
	e.typeText("sho")
	AssertModelField(t, "visible while typing", len(dbs.Visible), 1)
	AssertContains(t, "prompt", e.model.View(), "/sho_")

	e.press("esc")
	AssertModelField(t, "mode after cancel", e.model.mode, ModeNormal)
	AssertModelField(t, "visible after cancel", len(dbs.Visible), 4)

	e.press("/")
	e.typeText("tes")
	e.press("enter")
	AssertModelField(t, "mode after submit", e.model.mode, ModeNormal)
	AssertModelField(t, "search", dbs.Search, "tes")
	AssertModelField(t, "visible after submit", len(dbs.Visible), 1)

	// q is typed into the prompt rather than going back
	e.press("/", "q")
	AssertModelField(t, "depth", e.model.nav.Depth(), 2)
	AssertModelField(t, "input", e.model.input, "tesq")
}

func TestQuery_ExecuteRecordsAndRecalls(t *testing.T) {
	e := CreateTestModel(t, nil)
	e.press("enter")
	e.waitIdle(t)
	e.press("j", "a")

	q, ok := e.top().View.(*navigator.QueryView)
	if !ok {
		t.Fatalf("top view = %T, want *navigator.QueryView", e.top().View)
	}
	AssertModelField(t, "database", q.Database, "shop")

	e.press("i")
	AssertModelField(t, "mode", e.model.mode, ModeEditor)
	e.typeText("RETURN 1")
	e.press("ctrl+r")
	AssertModelField(t, "mode after execute", e.model.mode, ModeNormal)
	AssertModelField(t, "query text", q.Query, "RETURN 1")
	AssertModelField(t, "state", q.Execution.State, navigator.ExecRunning)

	e.waitIdle(t)
	AssertModelField(t, "state", q.Execution.State, navigator.ExecSucceeded)
	AssertModelField(t, "rows", len(q.Rows), 1)
	AssertContains(t, "view", e.model.View(), "1 rows in")

	queries, err := e.history.Queries("shop", 10)
	if err != nil {
		t.Fatalf("Queries() error = %v", err)
	}
	if len(queries) != 1 || queries[0] != "RETURN 1" {
		t.Fatalf("Queries() = %v, want [RETURN 1]", queries)
	}

	e.press("i")
	e.model.editor.SetValue("draft")
	e.press("ctrl+p")
	AssertModelField(t, "recalled", e.model.editor.Value(), "RETURN 1")
	e.press("ctrl+n")
	AssertModelField(t, "draft restored", e.model.editor.Value(), "draft")

	e.press("esc")
	AssertModelField(t, "query kept", q.Query, "draft")
}

func TestQuery_FailureShowsBannerAndIsRecorded(t *testing.T) {
	e := CreateTestModel(t, nil)
	e.press("enter")
	e.waitIdle(t)
	e.press("j", "a", "i")
	e.typeText("FOR x IN")
	e.press("ctrl+r")
	e.waitIdle(t)

	q := e.top().View.(*navigator.QueryView)
	AssertModelField(t, "state", q.Execution.State, navigator.ExecFailed)
	if e.top().Err == nil || e.top().Err.Kind != client.KindBadRequest {
		t.Fatalf("frame error = %v, want BadRequest", e.top().Err)
	}
	AssertContains(t, "banner", e.model.View(), "syntax error")

	entries, err := e.history.Load(10)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Load() returned %d entries, want 1", len(entries))
	}
	AssertModelField(t, "status", entries[0].Status, history.StatusFailed)
	AssertModelField(t, "database", entries[0].Database, "shop")

	e.press("x")
	if e.top().Err != nil {
		t.Error("x should dismiss the banner")
	}
}

func TestQuery_FilterResults(t *testing.T) {
	cluster := mock.DemoCluster()
	cluster.Databases[1].Queries = append(cluster.Databases[1].Queries, mock.Query{
		Query: "FOR c IN customers RETURN c",
		Rows: []any{
			map[string]any{"name": "ada", "age": 36},
			map[string]any{"name": "bob", "age": 17},
		},
	})
	e := CreateTestModel(t, cluster)
	e.press("enter")
	e.waitIdle(t)
	e.press("j", "a", "i")
	e.model.editor.SetValue("FOR c IN customers RETURN c")
	e.press("ctrl+r")
	e.waitIdle(t)

	q := e.top().View.(*navigator.QueryView)
	AssertModelField(t, "rows", len(q.Rows), 2)

	e.press("f")
	AssertModelField(t, "mode", e.model.mode, ModeFilter)
	e.typeText("[?age > `18`]")
	e.press("enter")
	AssertModelField(t, "filter", q.Filter, "[?age > `18`]")
	AssertModelField(t, "filtered rows", len(q.Rows), 1)
	AssertContains(t, "view", e.model.View(), "filter: [?age > `18`]")

	e.press("f")
	e.typeText("[")
	e.press("enter")
	if !strings.HasPrefix(e.model.errorMsg, "Invalid filter") {
		t.Errorf("errorMsg = %q, want invalid filter", e.model.errorMsg)
	}
}

func TestSelect_NoAccessDatabase(t *testing.T) {
	cluster := mock.DemoCluster()
	cluster.Databases = append(cluster.Databases, mock.Database{Name: "vault", Denied: true})
	e := CreateTestModel(t, cluster)

	e.press("enter")
	e.waitIdle(t)
	AssertContains(t, "view", e.model.View(), "NO ACCESS")

	e.press("G", "enter")
	AssertModelField(t, "depth", e.model.nav.Depth(), 2)
	AssertModelField(t, "errorMsg", e.model.errorMsg, "No access to this database")
}

func TestBack_DiscardsInFlightFetch(t *testing.T) {
	cluster := mock.DemoCluster()
	cluster.Delay = 50
	e := CreateTestModel(t, cluster)

	e.press("enter", "esc")
	e.waitIdle(t)

	AssertModelField(t, "depth", e.model.nav.Depth(), 1)
	AssertModelField(t, "top kind", e.top().View.Kind(), navigator.KindMainMenu)
	if e.top().Loading || e.top().Err != nil {
		t.Error("menu frame must not be touched by the discarded fetch")
	}
}

func TestMenu_GAEAndOptions(t *testing.T) {
	e := CreateTestModel(t, nil)

	e.press("j", "enter")
	AssertModelField(t, "errorMsg", e.model.errorMsg, "GAE: Not connected")

	e.model.header.gae = &types.GAEVersion{Version: "1.4.0", APIMinVersion: 1, APIMaxVersion: 2}
	e.press("enter")
	AssertModelField(t, "statusMsg", e.model.statusMsg, "GAE 1.4.0 (API 1-2)")

	e.press("j", "enter")
	AssertModelField(t, "mode", e.model.mode, ModeOptions)
	AssertContains(t, "options", e.model.View(), "endpoint: "+e.model.cfg.Endpoint)

	e.press("esc")
	AssertModelField(t, "mode after close", e.model.mode, ModeNormal)
}

func TestHelp_ListsContextBindings(t *testing.T) {
	e := CreateTestModel(t, nil)
	e.press("enter")
	e.waitIdle(t)

	e.press("?")
	AssertModelField(t, "mode", e.model.mode, ModeHelp)
	view := e.model.View()
	AssertContains(t, "help", view, "Keys for databases")
	AssertContains(t, "help", view, "Search")

	e.press("q")
	AssertModelField(t, "mode", e.model.mode, ModeNormal)
	AssertModelField(t, "depth", e.model.nav.Depth(), 2)
}

func TestCheckServer(t *testing.T) {
	newSource := func(t *testing.T, cluster *mock.Cluster) *client.Client {
		t.Helper()
		ts := httptest.NewServer(mock.NewServer(cluster, zap.NewNop()).Handler())
		t.Cleanup(ts.Close)
		c, err := client.New(client.Endpoint{BaseURL: ts.URL, GAEURL: ts.URL, Username: "root"}, zap.NewNop())
		if err != nil {
			t.Fatalf("client.New() error = %v", err)
		}
		return c
	}

	t.Run("with GAE", func(t *testing.T) {
		server, gae, err := CheckServer(context.Background(), newSource(t, mock.DemoCluster()), zap.NewNop())
		if err != nil {
			t.Fatalf("CheckServer() error = %v", err)
		}
		AssertModelField(t, "version", server.Version, "3.12.4")
		if gae == nil {
			t.Error("expected GAE version")
		}
	})

	t.Run("without GAE", func(t *testing.T) {
		cluster := mock.DemoCluster()
		cluster.GAE = false
		_, gae, err := CheckServer(context.Background(), newSource(t, cluster), zap.NewNop())
		if err != nil {
			t.Fatalf("CheckServer() error = %v", err)
		}
		if gae != nil {
			t.Errorf("gae = %+v, want nil", gae)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		ts := httptest.NewServer(nil)
		url := ts.URL
		ts.Close()
		c, err := client.New(client.Endpoint{BaseURL: url}, zap.NewNop())
		if err != nil {
			t.Fatalf("client.New() error = %v", err)
		}
		_, _, err = CheckServer(context.Background(), c, zap.NewNop())
		if !client.IsKind(err, client.KindUnreachable) {
			t.Errorf("CheckServer() error = %v, want Unreachable", err)
		}
	})
}
