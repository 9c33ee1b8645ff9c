package repository

import (
	"context"

	"github.com/smart-sa/smorti/internal/domain/entity"
)

// TranscriptRepository appends finished turns to durable storage.
// Failures are logged by the caller and never affect the reply.
type TranscriptRepository interface {
	Append(ctx context.Context, msg entity.ChatMessage) error
}
