package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const refreshPrefix = "refresh:"

var ErrSessionNotFound = errors.New("session not found")

// SessionRecord is one refresh-token session. The access token is stateless;
// only the refresh side lives in redis so logout and rotation revoke it.
type SessionRecord struct {
	UserID    string
	Role      string
	ExpiresAt time.Time
}

type SessionRepo struct {
	client *goredis.Client
}

func NewSessionRepo(client *goredis.Client) *SessionRepo {
	return &SessionRepo{client: client}
}

func (r *SessionRepo) Create(ctx context.Context, refreshToken string, session SessionRecord) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(refreshToken) == "" || strings.TrimSpace(session.UserID) == "" {
		return fmt.Errorf("invalid session payload")
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	key := refreshKey(refreshToken)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"user_id":    session.UserID,
		"role":       session.Role,
		"expires_at": session.ExpiresAt.Unix(),
	})
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create refresh session: %w", err)
	}

	return nil
}

func (r *SessionRepo) Get(ctx context.Context, refreshToken string) (SessionRecord, error) {
	if r.client == nil {
		return SessionRecord{}, fmt.Errorf("redis client is nil")
	}

	values, err := r.client.HGetAll(ctx, refreshKey(refreshToken)).Result()
	if err != nil {
		return SessionRecord{}, fmt.Errorf("get refresh session: %w", err)
	}
	if len(values) == 0 {
		return SessionRecord{}, ErrSessionNotFound
	}

	expiresUnix, err := strconv.ParseInt(values["expires_at"], 10, 64)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("parse session expiry: %w", err)
	}

	return SessionRecord{
		UserID:    values["user_id"],
		Role:      values["role"],
		ExpiresAt: time.Unix(expiresUnix, 0).UTC(),
	}, nil
}

func (r *SessionRepo) Delete(ctx context.Context, refreshToken string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	if err := r.client.Del(ctx, refreshKey(refreshToken)).Err(); err != nil {
		return fmt.Errorf("delete refresh session: %w", err)
	}
	return nil
}

func refreshKey(token string) string {
	return refreshPrefix + token
}
