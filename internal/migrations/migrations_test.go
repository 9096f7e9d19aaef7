package migrations

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRun_AppliesAllMigrations(t *testing.T) {
	db := openTestDB(t)

	if err := Run(db); err != nil {
		t.Fatalf("Run: %v", err)
	}

	version, err := GetCurrentVersion(db)
	if err != nil {
		t.Fatalf("GetCurrentVersion: %v", err)
	}
	want := AllMigrations[len(AllMigrations)-1].Version
	if version != want {
		t.Errorf("version = %d, want %d", version, want)
	}

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'index' AND name = 'idx_query_history_database_timestamp'`).Scan(&name)
	if err != nil {
		t.Errorf("recall index missing: %v", err)
	}
}

func TestRun_Idempotent(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 2; i++ {
		if err := Run(db); err != nil {
			t.Fatalf("Run #%d: %v", i+1, err)
		}
	}

	var rows int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != len(AllMigrations) {
		t.Errorf("schema_migrations rows = %d, want %d", rows, len(AllMigrations))
	}
}

func TestMigrationsOrdered(t *testing.T) {
	for i := 1; i < len(AllMigrations); i++ {
		if AllMigrations[i].Version <= AllMigrations[i-1].Version {
			t.Errorf("migration %d is not after %d", AllMigrations[i].Version, AllMigrations[i-1].Version)
		}
	}
}

func TestMigrationsHaveStatements(t *testing.T) {
	for _, m := range AllMigrations {
		for _, step := range []string{m.Up, m.Down} {
			var statements []string
			for _, line := range strings.Split(step, "\n") {
				line = strings.TrimSpace(line)
				if line != "" && !strings.HasPrefix(line, "--") {
					statements = append(statements, line)
				}
			}
			if len(statements) == 0 {
				t.Errorf("migration %d (%s) has an empty step", m.Version, m.Name)
			}
		}
	}
}
