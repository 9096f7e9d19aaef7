package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/studiowebux/arangotui/internal/migrations"
	"github.com/studiowebux/arangotui/internal/types"
)

const timestampLayout = "2006-01-02 15:04:05"

// Execution statuses stored with each entry
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Manager stores executed queries in SQLite
type Manager struct {
	db        *sql.DB
	sessionID string
	endpoint  string
}

// NewManager opens (or creates) the history database at dbPath. Entries
// saved through the manager carry a fresh session id and the endpoint.
func NewManager(dbPath, endpoint string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{
		db:        db,
		sessionID: uuid.NewString(),
		endpoint:  endpoint,
	}, nil
}

// SessionID identifies the entries written by this manager
func (m *Manager) SessionID() string {
	return m.sessionID
}

// Save records one finished execution. Timestamp defaults to now.
func (m *Manager) Save(entry types.QueryHistoryEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	query := `
		INSERT INTO query_history (
			session_id, timestamp, endpoint, database_name, query,
			status, result_count, duration_ms, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var errText sql.NullString
	if entry.Error != "" {
		errText = sql.NullString{String: entry.Error, Valid: true}
	}

	_, err := m.db.Exec(query,
		m.sessionID,
		entry.Timestamp.Local().Format(timestampLayout),
		m.endpoint,
		entry.Database,
		entry.Query,
		entry.Status,
		entry.ResultCount,
		entry.DurationMs,
		errText,
	)
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}

	return nil
}

// Load returns the newest entries across all databases
func (m *Manager) Load(limit int) ([]types.QueryHistoryEntry, error) {
	rows, err := m.db.Query(`
		SELECT id, session_id, timestamp, endpoint, database_name, query,
		       status, result_count, duration_ms, COALESCE(error, '')
		FROM query_history
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Queries returns the distinct query texts run against database, newest
// first
func (m *Manager) Queries(database string, limit int) ([]string, error) {
	rows, err := m.db.Query(`
		SELECT query
		FROM query_history
		WHERE database_name = ?
		GROUP BY query
		ORDER BY MAX(id) DESC
		LIMIT ?
	`, database, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load queries: %w", err)
	}
	defer rows.Close()

	var queries []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("failed to scan query: %w", err)
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

func scanEntries(rows *sql.Rows) ([]types.QueryHistoryEntry, error) {
	var entries []types.QueryHistoryEntry

	for rows.Next() {
		var entry types.QueryHistoryEntry
		var timestamp string

		err := rows.Scan(
			&entry.ID,
			&entry.SessionID,
			&timestamp,
			&entry.Endpoint,
			&entry.Database,
			&entry.Query,
			&entry.Status,
			&entry.ResultCount,
			&entry.DurationMs,
			&entry.Error,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		parsed, err := time.ParseInLocation(timestampLayout, timestamp, time.Local)
		if err != nil {
			// Try RFC3339 format as fallback
			parsed, err = time.Parse(time.RFC3339, timestamp)
			if err != nil {
				parsed = time.Time{}
			}
		}
		entry.Timestamp = parsed

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM query_history")
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (m *Manager) Delete(id int64) error {
	_, err := m.db.Exec("DELETE FROM query_history WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete history entry: %w", err)
	}
	return nil
}

func (m *Manager) GetCount() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM query_history").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get history count: %w", err)
	}
	return count, nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
