// Package sqlite persists conversation history in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/history"
)

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	store := &Store{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		conf_uid TEXT NOT NULL,
		history_uid TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		name TEXT,
		avatar TEXT,
		created_at DATETIME NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create messages table: %w", err)
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_messages_session
		ON messages (conf_uid, history_uid, id)`)
	if err != nil {
		return fmt.Errorf("failed to create messages index: %w", err)
	}
	return nil
}

func (s *Store) Write(ctx context.Context, keys history.SessionKeys, entry history.Entry) error {
	timestamp := entry.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (conf_uid, history_uid, role, content, name, avatar, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		keys.ConfUID, keys.HistoryUID, string(entry.Role), entry.Content,
		entry.Name, entry.Avatar, timestamp)
	if err != nil {
		return fmt.Errorf("failed to store %s message: %w", entry.Role, err)
	}
	return nil
}

func (s *Store) Entries(ctx context.Context, keys history.SessionKeys) ([]history.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, name, avatar, created_at FROM messages
		 WHERE conf_uid = ? AND history_uid = ? ORDER BY id`,
		keys.ConfUID, keys.HistoryUID)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer rows.Close()

	var entries []history.Entry
	for rows.Next() {
		var entry history.Entry
		var role string
		if err := rows.Scan(&role, &entry.Content, &entry.Name, &entry.Avatar, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.Role = history.Role(role)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
