package repository

import (
	"context"

	"github.com/smart-sa/smorti/internal/domain/entity"
)

// ChatRepository stores per-session conversation state. GetOrCreate never
// returns nil on success; Save persists the mutated session after a turn.
type ChatRepository interface {
	GetOrCreate(ctx context.Context, sessionID string) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session) error
	Delete(ctx context.Context, sessionID string) error
}
