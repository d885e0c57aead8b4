// Package sqlite persists conversation transcripts. Unlike the in-memory
// response cache, transcripts survive restarts; they feed nothing back into
// request handling and are written best-effort.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/embedchat-ai/embedchat/pkg/models"
)

// Store records conversations and their turns in a SQLite database.
type Store struct {
	db *sql.DB
}

const createTables = `
CREATE TABLE IF NOT EXISTS conversations (
	id TEXT PRIMARY KEY,
	started_at DATETIME NOT NULL,
	last_activity DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS turns (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	cached INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_turns_conversation ON turns(conversation_id, seq);
`

// New creates a Store and runs auto-migration.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open transcript db: %w", err)
	}

	if _, err := db.Exec(createTables); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate transcript db: %w", err)
	}

	return &Store{db: db}, nil
}

// Append records turns at the end of a conversation, creating the
// conversation when conversationID is empty. It returns the conversation ID,
// newly minted or not. cached marks turns that were served from the response
// cache rather than the model.
func (s *Store) Append(ctx context.Context, conversationID string, turns []models.ChatMessage, cached bool) (string, error) {
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transcript tx: %w", err)
	}
	defer tx.Rollback()

	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO conversations (id, started_at, last_activity) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET last_activity = excluded.last_activity`,
		conversationID, now, now,
	); err != nil {
		return "", fmt.Errorf("upsert conversation: %w", err)
	}

	var seq int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM turns WHERE conversation_id = ?`,
		conversationID,
	).Scan(&seq); err != nil {
		return "", fmt.Errorf("read turn seq: %w", err)
	}

	for _, t := range turns {
		seq++
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO turns (conversation_id, seq, role, content, cached, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			conversationID, seq, t.Role, t.Content, cached, now,
		); err != nil {
			return "", fmt.Errorf("insert turn: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transcript tx: %w", err)
	}
	return conversationID, nil
}

// Recent returns up to limit of the most recent turns of a conversation, in
// chronological order.
func (s *Store) Recent(ctx context.Context, conversationID string, limit int) ([]models.TranscriptTurn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT conversation_id, seq, role, content, cached, created_at
		 FROM turns WHERE conversation_id = ?
		 ORDER BY seq DESC LIMIT ?`,
		conversationID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []models.TranscriptTurn
	for rows.Next() {
		var t models.TranscriptTurn
		if err := rows.Scan(&t.ConversationID, &t.Seq, &t.Role, &t.Content, &t.Cached, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	// reverse into chronological order
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// Stats summarizes the store.
func (s *Store) Stats(ctx context.Context) (models.TranscriptStats, error) {
	var st models.TranscriptStats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversations`).Scan(&st.Conversations); err != nil {
		return models.TranscriptStats{}, fmt.Errorf("count conversations: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM turns`).Scan(&st.Turns); err != nil {
		return models.TranscriptStats{}, fmt.Errorf("count turns: %w", err)
	}
	return st, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
