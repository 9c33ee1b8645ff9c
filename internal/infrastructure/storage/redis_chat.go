package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smart-sa/smorti/internal/domain/entity"
	"github.com/smart-sa/smorti/internal/domain/repository"
)

const sessionTTL = 24 * time.Hour

type redisChatRepository struct {
	client *redis.Client
}

// NewRedisChatRepository connects to Redis and stores sessions as JSON with
// a sliding 24h TTL. Used when REDIS_URL is configured so sessions survive
// restarts.
func NewRedisChatRepository(ctx context.Context, url string) (repository.ChatRepository, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &redisChatRepository{client: client}, nil
}

func sessionKey(id string) string { return "smorti:session:" + id }

func (r *redisChatRepository) GetOrCreate(ctx context.Context, sessionID string) (*entity.Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.NewSession(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var s entity.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		// Corrupt payload: start fresh rather than fail the turn.
		return entity.NewSession(sessionID), nil
	}
	return &s, nil
}

func (r *redisChatRepository) Save(ctx context.Context, s *entity.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), raw, sessionTTL).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *redisChatRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
