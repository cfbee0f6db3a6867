package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

func Connect(_ context.Context, redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") {
		opt, parseErr := redis.ParseURL(redisURL)
		if parseErr != nil {
			return nil, fmt.Errorf("parse redis url: %w", parseErr)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// RedisClickDedupStore keeps the session ID of the most recent click per
// (link, visitor fingerprint) pair for the suppression window.
type RedisClickDedupStore struct {
	client *redis.Client
}

func NewRedisClickDedupStore(client *redis.Client) *RedisClickDedupStore {
	return &RedisClickDedupStore{client: client}
}

func dedupKey(linkID, fingerprint string) string {
	return "affiliate:dedup:" + linkID + ":" + fingerprint
}

func (s *RedisClickDedupStore) Recall(ctx context.Context, linkID, fingerprint string) (string, bool, error) {
	sessionID, err := s.client.Get(ctx, dedupKey(linkID, fingerprint)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return sessionID, true, nil
}

func (s *RedisClickDedupStore) Remember(ctx context.Context, linkID, fingerprint, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return s.client.Set(ctx, dedupKey(linkID, fingerprint), sessionID, ttl).Err()
}
