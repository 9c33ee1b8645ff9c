package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/smart-sa/smorti/internal/domain/entity"
	"github.com/smart-sa/smorti/internal/domain/repository"
)

const createMessagesTable = `
CREATE TABLE IF NOT EXISTS chat_messages (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	user_text  TEXT NOT NULL,
	reply      TEXT NOT NULL,
	intent     TEXT NOT NULL,
	lang       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

type postgresTranscript struct {
	db *sql.DB
}

// NewPostgresTranscript opens the transcript database and makes sure the
// table exists. The engine treats append failures as non-fatal.
func NewPostgresTranscript(ctx context.Context, dsn string) (repository.TranscriptRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, createMessagesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create chat_messages: %w", err)
	}
	return &postgresTranscript{db: db}, nil
}

func (p *postgresTranscript) Append(ctx context.Context, msg entity.ChatMessage) error {
	const q = `INSERT INTO chat_messages (id, session_id, user_text, reply, intent, lang, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := p.db.ExecContext(ctx, q,
		msg.ID, msg.SessionID, msg.UserText, msg.Reply, msg.Intent, msg.Lang, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}
