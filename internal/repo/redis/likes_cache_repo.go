package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const likedIDsPrefix = "liked_ids:"

// LikesCacheRepo caches the set of photo ids a viewer has liked. The set is a
// cache over the likes relation, never a second source of truth: every toggle
// invalidates the whole set and the next page fetch rebuilds it.
type LikesCacheRepo struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewLikesCacheRepo(client *goredis.Client, ttl time.Duration) *LikesCacheRepo {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &LikesCacheRepo{client: client, ttl: ttl}
}

// Get returns the cached liked-id set. ok is false on a cache miss.
func (r *LikesCacheRepo) Get(ctx context.Context, userID string) ([]string, bool, error) {
	if r.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, false, fmt.Errorf("user id is required")
	}

	key := likedIDsKey(userID)
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, false, fmt.Errorf("check liked ids key: %w", err)
	}
	if exists == 0 {
		return nil, false, nil
	}

	ids, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, false, fmt.Errorf("read liked ids set: %w", err)
	}

	// The sentinel keeps an empty set representable in redis.
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == emptySetSentinel {
			continue
		}
		out = append(out, id)
	}
	return out, true, nil
}

const emptySetSentinel = "__none__"

func (r *LikesCacheRepo) Put(ctx context.Context, userID string, ids []string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}

	key := likedIDsKey(userID)
	members := make([]interface{}, 0, len(ids)+1)
	members = append(members, emptySetSentinel)
	for _, id := range ids {
		members = append(members, id)
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write liked ids set: %w", err)
	}

	return nil
}

func (r *LikesCacheRepo) Invalidate(ctx context.Context, userID string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}

	if err := r.client.Del(ctx, likedIDsKey(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate liked ids set: %w", err)
	}
	return nil
}

func likedIDsKey(userID string) string {
	return likedIDsPrefix + userID
}
